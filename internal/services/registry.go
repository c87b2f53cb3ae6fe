package services

import (
	"talentlink_backend/internal/email"
)

// ServiceContainer содержит все сервисы приложения.
type ServiceContainer struct {
	AuthService         AuthService
	UserService         UserService
	JobService          JobService
	ApplicationService  ApplicationService
	ContractService     ContractService
	PaymentService      PaymentService
	MessageService      MessageService
	NotificationService NotificationService
	ReviewService       ReviewService
	AIService           AIService
	AdminService        AdminService
	EmailProvider       email.Provider
}
