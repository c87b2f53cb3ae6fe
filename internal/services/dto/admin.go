package dto

type PlatformStatsResponse struct {
	TotalUsers      int64            `json:"total_users"`
	UsersByRole     map[string]int64 `json:"users_by_role"`
	TotalJobs       int64            `json:"total_jobs"`
	OpenJobs        int64            `json:"open_jobs"`
	ActiveContracts int64            `json:"active_contracts"`
	ContractVolume  float64          `json:"contract_volume"`
	CollectedFees   float64          `json:"collected_fees"`
	PendingPayments int64            `json:"pending_payments"`
}
