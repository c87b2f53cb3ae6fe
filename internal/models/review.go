package models

type Review struct {
	BaseModel
	ContractID string `gorm:"not null;index;uniqueIndex:idx_reviews_reviewer_contract" json:"contract_id"`
	ReviewerID string `gorm:"not null;uniqueIndex:idx_reviews_reviewer_contract" json:"reviewer_id"`
	RevieweeID string `gorm:"not null;index" json:"reviewee_id"`
	Rating     int    `gorm:"not null" json:"rating"` // 1-5
	Comment    string `json:"comment"`
}
