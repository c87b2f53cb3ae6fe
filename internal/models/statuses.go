package models

import "fmt"

type UserRole string
type JobStatus string
type ApplicationStatus string
type ContractStatus string
type MilestoneStatus string
type PaymentStatus string
type PaymentType string

const (
	UserRoleClient     UserRole = "client"
	UserRoleFreelancer UserRole = "freelancer"
	UserRoleAdmin      UserRole = "admin"

	JobStatusDraft      JobStatus = "draft"
	JobStatusOpen       JobStatus = "open"
	JobStatusInProgress JobStatus = "in_progress"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusCancelled  JobStatus = "cancelled"

	ApplicationStatusPending   ApplicationStatus = "pending"
	ApplicationStatusAccepted  ApplicationStatus = "accepted"
	ApplicationStatusRejected  ApplicationStatus = "rejected"
	ApplicationStatusWithdrawn ApplicationStatus = "withdrawn"

	ContractStatusActive    ContractStatus = "active"
	ContractStatusPaused    ContractStatus = "paused"
	ContractStatusCompleted ContractStatus = "completed"
	ContractStatusCancelled ContractStatus = "cancelled"
	ContractStatusDisputed  ContractStatus = "disputed"

	MilestoneStatusPending  MilestoneStatus = "pending"
	MilestoneStatusInEscrow MilestoneStatus = "in_escrow"
	MilestoneStatusReleased MilestoneStatus = "released"
	MilestoneStatusRefunded MilestoneStatus = "refunded"

	// Жизненный цикл платежа:
	// pending -> captured -> (released | refunded); pending -> failed
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusCaptured PaymentStatus = "captured"
	PaymentStatusReleased PaymentStatus = "released"
	PaymentStatusRefunded PaymentStatus = "refunded"
	PaymentStatusFailed   PaymentStatus = "failed"

	PaymentTypeEscrow  PaymentType = "escrow"
	PaymentTypeRelease PaymentType = "release"
	PaymentTypeRefund  PaymentType = "refund"
)

// ParseUserRole преобразует строку транспортного уровня в типизированную
// роль. Админ не регистрируется через API, но из токена приходит.
func ParseUserRole(s string) (UserRole, error) {
	switch UserRole(s) {
	case UserRoleClient, UserRoleFreelancer, UserRoleAdmin:
		return UserRole(s), nil
	default:
		return "", fmt.Errorf("unknown user role: %q", s)
	}
}

// CanTransitionTo проверяет допустимость перехода статуса платежа
func (s PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	switch s {
	case PaymentStatusPending:
		return next == PaymentStatusCaptured || next == PaymentStatusFailed || next == PaymentStatusRefunded
	case PaymentStatusCaptured:
		return next == PaymentStatusReleased || next == PaymentStatusRefunded
	default:
		// released, refunded, failed - терминальные
		return false
	}
}
