package services

import (
	"context"
	"time"

	"talentlink_backend/internal/auth"
	"talentlink_backend/internal/email"
	"talentlink_backend/internal/logger"
	"talentlink_backend/internal/models"
	"talentlink_backend/internal/payments"
	"talentlink_backend/internal/repositories"
	"talentlink_backend/internal/services/dto"
	"talentlink_backend/pkg/apperrors"
)

type PaymentService interface {
	// Эскроу
	InitiateEscrow(ctx context.Context, actor auth.Actor, req *dto.CreatePaymentRequest) (*dto.PaymentIntentResponse, error)
	ReleaseMilestone(ctx context.Context, actor auth.Actor, milestoneID string) (*dto.ReleaseResponse, error)
	Refund(ctx context.Context, actor auth.Actor, req *dto.RefundRequest) (*dto.PaymentResponse, error)
	History(actor auth.Actor, page, pageSize int) ([]dto.PaymentResponse, error)

	// Connected-аккаунты
	ConnectOnboarding(ctx context.Context, actor auth.Actor) (*dto.ConnectResponse, error)
	ConnectStatus(ctx context.Context, actor auth.Actor) (*dto.ConnectStatusResponse, error)

	// Вебхуки и сверка
	HandlePaymentSucceeded(intentID string) error
	HandlePaymentFailed(intentID string) error
	HandleDispute(intentID string) error
	ReconcilePending(ctx context.Context, olderThan time.Duration, limit int) (int, error)
}

type PaymentServiceImpl struct {
	paymentRepo         repositories.PaymentRepository
	contractRepo        repositories.ContractRepository
	userRepo            repositories.UserRepository
	jobRepo             repositories.JobRepository
	provider            payments.Provider
	notificationService NotificationService
	emailProvider       email.Provider
}

func NewPaymentService(
	paymentRepo repositories.PaymentRepository,
	contractRepo repositories.ContractRepository,
	userRepo repositories.UserRepository,
	jobRepo repositories.JobRepository,
	provider payments.Provider,
	notificationService NotificationService,
	emailProvider email.Provider,
) PaymentService {
	return &PaymentServiceImpl{
		paymentRepo:         paymentRepo,
		contractRepo:        contractRepo,
		userRepo:            userRepo,
		jobRepo:             jobRepo,
		provider:            provider,
		notificationService: notificationService,
		emailProvider:       emailProvider,
	}
}

// InitiateEscrow создает платежный интент с ручным capture: средства
// блокируются на карте клиента до релиза вехи. Запись о платеже создается
// сразу в pending, подтверждение приходит вебхуком.
func (s *PaymentServiceImpl) InitiateEscrow(ctx context.Context, actor auth.Actor, req *dto.CreatePaymentRequest) (*dto.PaymentIntentResponse, error) {
	if s.provider == nil {
		return nil, apperrors.ErrPaymentsNotConfigured
	}

	contract, err := s.contractRepo.FindByID(req.ContractID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrContractNotFound) {
			return nil, apperrors.NewNotFoundError("contract")
		}
		return nil, apperrors.InternalError(err)
	}

	// Платит клиент контракта; админ может инициировать за него
	if contract.ClientID != actor.ID && !actor.IsAdmin() {
		return nil, apperrors.ErrInsufficientPermissions
	}
	if contract.Status != models.ContractStatusActive {
		return nil, apperrors.ErrInvalidStatus("payments", "Contract is not active")
	}

	amount := contract.TotalAmount
	var milestoneID *string
	if req.MilestoneID != "" {
		milestone, err := s.contractRepo.FindMilestoneByID(req.MilestoneID)
		if err != nil {
			if apperrors.Is(err, repositories.ErrMilestoneNotFound) {
				return nil, apperrors.NewNotFoundError("milestone")
			}
			return nil, apperrors.InternalError(err)
		}
		if milestone.ContractID != contract.ID {
			return nil, apperrors.NewBadRequestError("Milestone does not belong to this contract")
		}
		if milestone.Status != models.MilestoneStatusPending {
			return nil, apperrors.ErrInvalidStatus("payments", "Milestone is already funded")
		}
		amount = milestone.Amount
		milestoneID = &milestone.ID
	}

	intent, err := s.provider.CreateEscrowIntent(ctx, amount, contract.ID)
	if err != nil {
		return nil, apperrors.ErrPaymentProvider(err, "Failed to create payment intent")
	}

	payment := &models.Payment{
		PayerID:               actor.ID,
		ContractID:            contract.ID,
		MilestoneID:           milestoneID,
		Amount:                amount,
		Fee:                   payments.PlatformFee(amount),
		Status:                models.PaymentStatusPending,
		Type:                  models.PaymentTypeEscrow,
		StripePaymentIntentID: intent.ID,
	}
	if err := s.paymentRepo.Create(payment); err != nil {
		return nil, apperrors.InternalError(err)
	}
	payments.CountTransition(string(models.PaymentStatusPending))

	return &dto.PaymentIntentResponse{
		ClientSecret:    intent.ClientSecret,
		PaymentIntentID: intent.ID,
		Amount:          amount,
	}, nil
}

// ReleaseMilestone списывает захолдированные средства и переводит фрилансеру
// сумму вехи за вычетом комиссии платформы.
func (s *PaymentServiceImpl) ReleaseMilestone(ctx context.Context, actor auth.Actor, milestoneID string) (*dto.ReleaseResponse, error) {
	if s.provider == nil {
		return nil, apperrors.ErrPaymentsNotConfigured
	}

	milestone, err := s.contractRepo.FindMilestoneByID(milestoneID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrMilestoneNotFound) {
			return nil, apperrors.NewNotFoundError("milestone")
		}
		return nil, apperrors.InternalError(err)
	}

	contract, err := s.contractRepo.FindByID(milestone.ContractID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if contract.ClientID != actor.ID && !actor.IsAdmin() {
		return nil, apperrors.ErrInsufficientPermissions
	}

	// Релиз возможен только из эскроу
	if milestone.Status != models.MilestoneStatusInEscrow {
		return nil, apperrors.ErrInvalidStatus("payments", "Milestone funds are not in escrow")
	}

	payment, err := s.findMilestonePayment(contract.ID, milestone.ID)
	if err != nil {
		return nil, err
	}
	if !payment.Status.CanTransitionTo(models.PaymentStatusReleased) {
		return nil, apperrors.ErrInvalidStatus("payments", "Payment cannot be released from its current state")
	}

	freelancer, err := s.userRepo.FindByID(contract.FreelancerID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if freelancer.StripeAccountID == "" {
		return nil, apperrors.ErrInvalidOperation("payments", "Freelancer has not connected a payout account")
	}

	// Сначала capture, затем перевод
	if err := s.provider.CaptureIntent(ctx, payment.StripePaymentIntentID); err != nil {
		return nil, apperrors.ErrPaymentProvider(err, "Failed to capture escrow funds")
	}
	capturedAt := time.Now()
	if err := s.paymentRepo.SetCapturedAt(payment.ID, capturedAt); err != nil {
		logger.Error("Failed to record capture time", "payment_id", payment.ID, "error", err)
	}
	payment.CapturedAt = &capturedAt

	payout := payments.FreelancerPayout(milestone.Amount)
	transferID, err := s.provider.Transfer(ctx, payout, freelancer.StripeAccountID, milestone.ID)
	if err != nil {
		// Capture прошел, перевод нет: платеж остается captured,
		// повторный релиз доберет перевод
		s.paymentRepo.UpdateStatus(payment.ID, models.PaymentStatusCaptured)
		return nil, apperrors.ErrPaymentProvider(err, "Failed to transfer funds to freelancer")
	}

	if err := s.paymentRepo.UpdateStatus(payment.ID, models.PaymentStatusReleased); err != nil {
		return nil, apperrors.InternalError(err)
	}
	if err := s.paymentRepo.SetTransferID(payment.ID, transferID); err != nil {
		return nil, apperrors.InternalError(err)
	}
	if err := s.contractRepo.MarkMilestoneReleased(milestone.ID); err != nil {
		return nil, apperrors.InternalError(err)
	}
	payment.Status = models.PaymentStatusReleased
	payment.StripeTransferID = transferID
	payments.CountTransition(string(models.PaymentStatusReleased))

	// Когда все вехи выплачены, контракт и вакансия завершаются
	allReleased, err := s.contractRepo.AllMilestonesReleased(contract.ID)
	if err == nil && allReleased {
		if err := s.contractRepo.UpdateStatus(contract.ID, models.ContractStatusCompleted); err != nil {
			logger.Error("Failed to complete contract", "contract_id", contract.ID, "error", err)
		}
		if err := s.jobRepo.UpdateStatus(contract.JobID, models.JobStatusCompleted); err != nil {
			logger.Error("Failed to complete job", "job_id", contract.JobID, "error", err)
		}
	}

	s.notificationService.Notify(contract.FreelancerID, NotificationPaymentReleased,
		"Payment released",
		"Funds for milestone \""+milestone.Title+"\" have been released to your account.",
		map[string]interface{}{"milestone_id": milestone.ID, "contract_id": contract.ID, "amount": payout})

	if s.emailProvider.Enabled() {
		if err := s.emailProvider.Send(email.PaymentReleasedEmail(freelancer.Email, payout, milestone.Title)); err != nil {
			logger.Warn("Failed to send payment email", "email", freelancer.Email, "error", err)
		}
	}

	return &dto.ReleaseResponse{
		Payment:    toPaymentResponse(payment),
		TransferID: transferID,
		Payout:     payout,
	}, nil
}

// Refund возвращает средства клиенту. Пока деньги лежат холдом, интент
// отменяется целиком; после capture создается возврат, опционально частичный.
func (s *PaymentServiceImpl) Refund(ctx context.Context, actor auth.Actor, req *dto.RefundRequest) (*dto.PaymentResponse, error) {
	if s.provider == nil {
		return nil, apperrors.ErrPaymentsNotConfigured
	}

	payment, err := s.paymentRepo.FindByID(req.PaymentID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrPaymentNotFound) {
			return nil, apperrors.NewNotFoundError("payment")
		}
		return nil, apperrors.InternalError(err)
	}

	contract, err := s.contractRepo.FindByID(payment.ContractID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if contract.ClientID != actor.ID && !actor.IsAdmin() {
		return nil, apperrors.ErrInsufficientPermissions
	}

	if !payment.Status.CanTransitionTo(models.PaymentStatusRefunded) {
		return nil, apperrors.ErrInvalidStatus("payments", "Payment cannot be refunded from its current state")
	}

	if payment.CapturedAt == nil {
		// Списания еще не было: у провайдера снимается холд, частично
		// отменить его нельзя
		if req.Amount != nil {
			return nil, apperrors.ErrInvalidOperation("payments", "Partial refund is only possible after funds are captured")
		}
		if err := s.provider.CancelIntent(ctx, payment.StripePaymentIntentID); err != nil {
			return nil, apperrors.ErrPaymentProvider(err, "Failed to cancel payment hold")
		}
	} else {
		if req.Amount != nil && *req.Amount > payment.Amount {
			return nil, apperrors.NewBadRequestError("Refund amount exceeds payment amount")
		}
		if _, err := s.provider.CreateRefund(ctx, payment.StripePaymentIntentID, req.Amount); err != nil {
			return nil, apperrors.ErrPaymentProvider(err, "Failed to refund payment")
		}
	}

	if err := s.paymentRepo.UpdateStatus(payment.ID, models.PaymentStatusRefunded); err != nil {
		return nil, apperrors.InternalError(err)
	}
	payment.Status = models.PaymentStatusRefunded
	payments.CountTransition(string(models.PaymentStatusRefunded))

	if payment.MilestoneID != nil {
		if err := s.contractRepo.UpdateMilestoneStatus(*payment.MilestoneID, models.MilestoneStatusRefunded); err != nil {
			logger.Error("Failed to mark milestone refunded", "milestone_id", *payment.MilestoneID, "error", err)
		}
	}

	s.notificationService.Notify(contract.FreelancerID, NotificationPaymentFailed,
		"Payment refunded",
		"An escrow payment on your contract was refunded to the client.",
		map[string]interface{}{"contract_id": contract.ID, "payment_id": payment.ID})

	resp := toPaymentResponse(payment)
	return &resp, nil
}

func (s *PaymentServiceImpl) History(actor auth.Actor, page, pageSize int) ([]dto.PaymentResponse, error) {
	paymentsList, err := s.paymentRepo.FindByUser(actor.ID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	responses := make([]dto.PaymentResponse, 0, len(paymentsList))
	for i := range paymentsList {
		responses = append(responses, toPaymentResponse(&paymentsList[i]))
	}
	return responses, nil
}

// ConnectOnboarding создает connected-аккаунт (если его еще нет) и возвращает
// ссылку на онбординг. Повторный вызов переиспользует существующий аккаунт.
func (s *PaymentServiceImpl) ConnectOnboarding(ctx context.Context, actor auth.Actor) (*dto.ConnectResponse, error) {
	if s.provider == nil {
		return nil, apperrors.ErrPaymentsNotConfigured
	}
	if !actor.IsFreelancer() {
		return nil, apperrors.ErrInsufficientPermissions
	}

	user, err := s.userRepo.FindByID(actor.ID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	accountID := user.StripeAccountID
	if accountID == "" {
		accountID, err = s.provider.CreateConnectedAccount(ctx, user.Email)
		if err != nil {
			return nil, apperrors.ErrPaymentProvider(err, "Failed to create payout account")
		}
		if err := s.userRepo.UpdateStripeAccountID(user.ID, accountID); err != nil {
			return nil, apperrors.InternalError(err)
		}
	}

	url, err := s.provider.CreateAccountLink(ctx, accountID)
	if err != nil {
		return nil, apperrors.ErrPaymentProvider(err, "Failed to create onboarding link")
	}

	return &dto.ConnectResponse{URL: url, AccountID: accountID}, nil
}

// ConnectStatus возвращает not_connected / pending / connected.
// При недоступности провайдера деградирует в pending, а не падает:
// статусная плашка в кабинете не должна зависеть от аптайма Stripe.
func (s *PaymentServiceImpl) ConnectStatus(ctx context.Context, actor auth.Actor) (*dto.ConnectStatusResponse, error) {
	if s.provider == nil {
		return nil, apperrors.ErrPaymentsNotConfigured
	}

	user, err := s.userRepo.FindByID(actor.ID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	if user.StripeAccountID == "" {
		return &dto.ConnectStatusResponse{Status: string(payments.AccountNotConnected)}, nil
	}
	accountID := user.StripeAccountID

	status, err := s.provider.GetAccountStatus(ctx, accountID)
	if err != nil {
		logger.Warn("Failed to fetch account status, degrading to pending", "user_id", user.ID, "error", err)
		return &dto.ConnectStatusResponse{Status: string(payments.AccountPending), StripeAccountID: &accountID}, nil
	}

	return &dto.ConnectStatusResponse{Status: string(status), StripeAccountID: &accountID}, nil
}

// HandlePaymentSucceeded вызывается вебхуком: средства захолдированы,
// платеж переходит в captured, веха - в эскроу.
func (s *PaymentServiceImpl) HandlePaymentSucceeded(intentID string) error {
	payment, err := s.paymentRepo.FindByIntentID(intentID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrPaymentNotFound) {
			// Интент не наш (другая среда, ручной тест) - не ошибка
			logger.Warn("Webhook for unknown payment intent", "intent_id", intentID)
			return nil
		}
		return apperrors.InternalError(err)
	}

	// Вебхуки приходят с повторами, повторная доставка - no-op
	if !payment.Status.CanTransitionTo(models.PaymentStatusCaptured) {
		return nil
	}

	if err := s.paymentRepo.UpdateStatus(payment.ID, models.PaymentStatusCaptured); err != nil {
		return apperrors.InternalError(err)
	}
	payments.CountTransition(string(models.PaymentStatusCaptured))
	if payment.MilestoneID != nil {
		if err := s.contractRepo.UpdateMilestoneStatus(*payment.MilestoneID, models.MilestoneStatusInEscrow); err != nil {
			return apperrors.InternalError(err)
		}
	}

	logger.Info("Escrow payment confirmed", "payment_id", payment.ID, "intent_id", intentID)
	return nil
}

func (s *PaymentServiceImpl) HandlePaymentFailed(intentID string) error {
	payment, err := s.paymentRepo.FindByIntentID(intentID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrPaymentNotFound) {
			return nil
		}
		return apperrors.InternalError(err)
	}

	if !payment.Status.CanTransitionTo(models.PaymentStatusFailed) {
		return nil
	}

	if err := s.paymentRepo.UpdateStatus(payment.ID, models.PaymentStatusFailed); err != nil {
		return apperrors.InternalError(err)
	}
	payments.CountTransition(string(models.PaymentStatusFailed))

	s.notificationService.Notify(payment.PayerID, NotificationPaymentFailed,
		"Payment failed",
		"Your escrow payment could not be processed. Please try again.",
		map[string]interface{}{"payment_id": payment.ID})
	return nil
}

// HandleDispute переводит контракт в disputed при чарджбеке.
func (s *PaymentServiceImpl) HandleDispute(intentID string) error {
	payment, err := s.paymentRepo.FindByIntentID(intentID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrPaymentNotFound) {
			return nil
		}
		return apperrors.InternalError(err)
	}

	if err := s.contractRepo.UpdateStatus(payment.ContractID, models.ContractStatusDisputed); err != nil {
		return apperrors.InternalError(err)
	}

	logger.Warn("Dispute opened on contract", "contract_id", payment.ContractID, "intent_id", intentID)
	return nil
}

// ReconcilePending сверяет зависшие pending-платежи со статусом у провайдера.
// Закрывает окно между оплатой на фронте и потерянным вебхуком.
func (s *PaymentServiceImpl) ReconcilePending(ctx context.Context, olderThan time.Duration, limit int) (int, error) {
	if s.provider == nil {
		return 0, nil
	}

	pendingPayments, err := s.paymentRepo.FindPendingOlderThan(olderThan, limit)
	if err != nil {
		return 0, err
	}

	updated := 0
	for i := range pendingPayments {
		payment := &pendingPayments[i]

		status, err := s.provider.GetIntentStatus(ctx, payment.StripePaymentIntentID)
		if err != nil {
			logger.Warn("Reconciliation: provider lookup failed", "payment_id", payment.ID, "error", err)
			continue
		}

		switch status {
		case payments.IntentStatusSucceeded:
			if err := s.HandlePaymentSucceeded(payment.StripePaymentIntentID); err == nil {
				updated++
			}
		case payments.IntentStatusFailed:
			if err := s.HandlePaymentFailed(payment.StripePaymentIntentID); err == nil {
				updated++
			}
		case payments.IntentStatusCanceled:
			if err := s.paymentRepo.UpdateStatus(payment.ID, models.PaymentStatusRefunded); err == nil {
				updated++
			}
		}
	}
	return updated, nil
}

func (s *PaymentServiceImpl) findMilestonePayment(contractID, milestoneID string) (*models.Payment, error) {
	contractPayments, err := s.paymentRepo.FindByContract(contractID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	for i := range contractPayments {
		p := &contractPayments[i]
		if p.MilestoneID != nil && *p.MilestoneID == milestoneID && p.Status == models.PaymentStatusCaptured {
			return p, nil
		}
	}
	return nil, apperrors.NewNotFoundError("escrow payment for milestone")
}

func toPaymentResponse(p *models.Payment) dto.PaymentResponse {
	return dto.PaymentResponse{
		ID:          p.ID,
		ContractID:  p.ContractID,
		MilestoneID: p.MilestoneID,
		Amount:      p.Amount,
		Fee:         p.Fee,
		Status:      string(p.Status),
		Type:        string(p.Type),
		CreatedAt:   p.CreatedAt,
	}
}
