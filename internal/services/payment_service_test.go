package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"talentlink_backend/internal/auth"
	"talentlink_backend/internal/email"
	"talentlink_backend/internal/models"
	"talentlink_backend/internal/payments"
	"talentlink_backend/internal/repositories"
	"talentlink_backend/internal/services/dto"
	"talentlink_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Фейки ---

type fakeTransfer struct {
	Amount      float64
	AccountID   string
	MilestoneID string
}

type fakeRefund struct {
	IntentID string
	Amount   *float64
}

type fakeProvider struct {
	intents       map[string]payments.IntentStatus
	captured      []string
	canceled      []string
	refunds       []fakeRefund
	transfers     []fakeTransfer
	transferErr   error
	accountStatus payments.AccountStatus
	accountErr    error
	createCalls   int
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		intents:       map[string]payments.IntentStatus{},
		accountStatus: payments.AccountConnected,
	}
}

func (p *fakeProvider) CreateEscrowIntent(_ context.Context, amount float64, contractID string) (*payments.EscrowIntent, error) {
	p.createCalls++
	id := "pi_test_" + contractID
	p.intents[id] = payments.IntentStatusPending
	return &payments.EscrowIntent{ID: id, ClientSecret: id + "_secret", Amount: amount}, nil
}

func (p *fakeProvider) GetIntentStatus(_ context.Context, intentID string) (payments.IntentStatus, error) {
	return p.intents[intentID], nil
}

func (p *fakeProvider) CaptureIntent(_ context.Context, intentID string) error {
	p.captured = append(p.captured, intentID)
	return nil
}

func (p *fakeProvider) CancelIntent(_ context.Context, intentID string) error {
	p.canceled = append(p.canceled, intentID)
	return nil
}

func (p *fakeProvider) CreateRefund(_ context.Context, intentID string, amount *float64) (string, error) {
	p.refunds = append(p.refunds, fakeRefund{IntentID: intentID, Amount: amount})
	return "re_test", nil
}

func (p *fakeProvider) CreateConnectedAccount(_ context.Context, _ string) (string, error) {
	return "acct_test", nil
}

func (p *fakeProvider) CreateAccountLink(_ context.Context, accountID string) (string, error) {
	return "https://connect.stripe.test/" + accountID, nil
}

func (p *fakeProvider) GetAccountStatus(_ context.Context, _ string) (payments.AccountStatus, error) {
	return p.accountStatus, p.accountErr
}

func (p *fakeProvider) Transfer(_ context.Context, amount float64, accountID, milestoneID string) (string, error) {
	if p.transferErr != nil {
		return "", p.transferErr
	}
	p.transfers = append(p.transfers, fakeTransfer{Amount: amount, AccountID: accountID, MilestoneID: milestoneID})
	return "tr_test", nil
}

type fakePaymentRepo struct {
	repositories.PaymentRepository
	byID map[string]*models.Payment
	seq  int
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{byID: map[string]*models.Payment{}}
}

func (r *fakePaymentRepo) Create(p *models.Payment) error {
	if p.ID == "" {
		r.seq++
		p.ID = fmt.Sprintf("pay-%d", r.seq)
	}
	cp := *p
	r.byID[p.ID] = &cp
	return nil
}

func (r *fakePaymentRepo) FindByID(id string) (*models.Payment, error) {
	p, ok := r.byID[id]
	if !ok {
		return nil, repositories.ErrPaymentNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakePaymentRepo) FindByIntentID(intentID string) (*models.Payment, error) {
	for _, p := range r.byID {
		if p.StripePaymentIntentID == intentID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, repositories.ErrPaymentNotFound
}

func (r *fakePaymentRepo) FindByContract(contractID string) ([]models.Payment, error) {
	var out []models.Payment
	for _, p := range r.byID {
		if p.ContractID == contractID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakePaymentRepo) FindByUser(userID string, limit, offset int) ([]models.Payment, error) {
	var out []models.Payment
	for _, p := range r.byID {
		if p.PayerID == userID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakePaymentRepo) UpdateStatus(paymentID string, status models.PaymentStatus) error {
	p, ok := r.byID[paymentID]
	if !ok {
		return repositories.ErrPaymentNotFound
	}
	p.Status = status
	return nil
}

func (r *fakePaymentRepo) SetTransferID(paymentID, transferID string) error {
	p, ok := r.byID[paymentID]
	if !ok {
		return repositories.ErrPaymentNotFound
	}
	p.StripeTransferID = transferID
	return nil
}

func (r *fakePaymentRepo) SetCapturedAt(paymentID string, capturedAt time.Time) error {
	p, ok := r.byID[paymentID]
	if !ok {
		return repositories.ErrPaymentNotFound
	}
	p.CapturedAt = &capturedAt
	return nil
}

func (r *fakePaymentRepo) FindPendingOlderThan(time.Duration, int) ([]models.Payment, error) {
	var out []models.Payment
	for _, p := range r.byID {
		if p.Status == models.PaymentStatusPending && p.StripePaymentIntentID != "" {
			out = append(out, *p)
		}
	}
	return out, nil
}

type fakeContractRepo struct {
	repositories.ContractRepository
	contracts  map[string]*models.Contract
	milestones map[string]*models.Milestone
}

func newFakeContractRepo() *fakeContractRepo {
	return &fakeContractRepo{
		contracts:  map[string]*models.Contract{},
		milestones: map[string]*models.Milestone{},
	}
}

func (r *fakeContractRepo) FindByID(id string) (*models.Contract, error) {
	c, ok := r.contracts[id]
	if !ok {
		return nil, repositories.ErrContractNotFound
	}
	return c, nil
}

func (r *fakeContractRepo) UpdateStatus(contractID string, status models.ContractStatus) error {
	c, ok := r.contracts[contractID]
	if !ok {
		return repositories.ErrContractNotFound
	}
	c.Status = status
	return nil
}

func (r *fakeContractRepo) FindMilestoneByID(id string) (*models.Milestone, error) {
	m, ok := r.milestones[id]
	if !ok {
		return nil, repositories.ErrMilestoneNotFound
	}
	return m, nil
}

func (r *fakeContractRepo) UpdateMilestoneStatus(milestoneID string, status models.MilestoneStatus) error {
	m, ok := r.milestones[milestoneID]
	if !ok {
		return repositories.ErrMilestoneNotFound
	}
	m.Status = status
	return nil
}

func (r *fakeContractRepo) MarkMilestoneReleased(milestoneID string) error {
	m, ok := r.milestones[milestoneID]
	if !ok {
		return repositories.ErrMilestoneNotFound
	}
	now := time.Now()
	m.Status = models.MilestoneStatusReleased
	m.ReleasedAt = &now
	return nil
}

func (r *fakeContractRepo) AllMilestonesReleased(contractID string) (bool, error) {
	for _, m := range r.milestones {
		if m.ContractID == contractID && m.Status != models.MilestoneStatusReleased {
			return false, nil
		}
	}
	return true, nil
}

type fakeUserRepo struct {
	repositories.UserRepository
	users map[string]*models.User
}

func (r *fakeUserRepo) FindByID(id string) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) UpdateStripeAccountID(userID, accountID string) error {
	u, ok := r.users[userID]
	if !ok {
		return repositories.ErrUserNotFound
	}
	u.StripeAccountID = accountID
	return nil
}

type fakeJobRepo struct {
	repositories.JobRepository
	statuses map[string]models.JobStatus
}

func (r *fakeJobRepo) UpdateStatus(jobID string, status models.JobStatus) error {
	if r.statuses == nil {
		r.statuses = map[string]models.JobStatus{}
	}
	r.statuses[jobID] = status
	return nil
}

type fakeNotifier struct {
	NotificationService
	notified []string // userID:type
}

func (n *fakeNotifier) Notify(userID, notificationType, title, message string, data map[string]interface{}) {
	n.notified = append(n.notified, userID+":"+notificationType)
}

// --- Окружение ---

type paymentTestEnv struct {
	service     PaymentService
	provider    *fakeProvider
	payments    *fakePaymentRepo
	contracts   *fakeContractRepo
	users       *fakeUserRepo
	jobs        *fakeJobRepo
	notifier    *fakeNotifier
	client      auth.Actor
	freelancer  auth.Actor
	contractID  string
	milestoneID string
}

func newPaymentTestEnv(t *testing.T) *paymentTestEnv {
	t.Helper()

	env := &paymentTestEnv{
		provider:  newFakeProvider(),
		payments:  newFakePaymentRepo(),
		contracts: newFakeContractRepo(),
		users:     &fakeUserRepo{users: map[string]*models.User{}},
		jobs:      &fakeJobRepo{},
		notifier:  &fakeNotifier{},
	}

	env.client = auth.Actor{ID: "client-1", Role: models.UserRoleClient}
	env.freelancer = auth.Actor{ID: "freelancer-1", Role: models.UserRoleFreelancer}

	env.users.users["client-1"] = &models.User{Email: "client@test.dev", Role: models.UserRoleClient}
	env.users.users["client-1"].ID = "client-1"
	fr := &models.User{Email: "freelancer@test.dev", Role: models.UserRoleFreelancer, StripeAccountID: "acct_fr1"}
	fr.ID = "freelancer-1"
	env.users.users["freelancer-1"] = fr

	env.contractID = "contract-1"
	contract := &models.Contract{
		JobID:        "job-1",
		ClientID:     "client-1",
		FreelancerID: "freelancer-1",
		TotalAmount:  1000,
		PlatformFee:  150,
		Status:       models.ContractStatusActive,
	}
	contract.ID = env.contractID
	env.contracts.contracts[env.contractID] = contract

	env.milestoneID = "milestone-1"
	milestone := &models.Milestone{
		ContractID: env.contractID,
		Title:      "MVP delivery",
		Amount:     1000,
		Status:     models.MilestoneStatusPending,
	}
	milestone.ID = env.milestoneID
	env.contracts.milestones[env.milestoneID] = milestone

	env.service = NewPaymentService(
		env.payments, env.contracts, env.users, env.jobs,
		env.provider, env.notifier, email.NoopProvider{},
	)
	return env
}

// fundMilestone проводит веху до состояния "деньги в эскроу":
// интент создан, вебхук подтвердил холд.
func (env *paymentTestEnv) fundMilestone(t *testing.T) *models.Payment {
	t.Helper()

	resp, err := env.service.InitiateEscrow(context.Background(), env.client, dtoCreatePayment(env))
	require.NoError(t, err)
	require.NoError(t, env.service.HandlePaymentSucceeded(resp.PaymentIntentID))

	payment, err := env.payments.FindByIntentID(resp.PaymentIntentID)
	require.NoError(t, err)
	return payment
}

// capturePayment доводит платеж до фактического списания: релиз падает
// на переводе, но capture у провайдера уже прошел.
func (env *paymentTestEnv) capturePayment(t *testing.T) *models.Payment {
	t.Helper()

	payment := env.fundMilestone(t)
	env.provider.transferErr = errors.New("stripe: insufficient platform balance")
	_, err := env.service.ReleaseMilestone(context.Background(), env.client, env.milestoneID)
	require.Error(t, err)
	env.provider.transferErr = nil

	captured, err := env.payments.FindByID(payment.ID)
	require.NoError(t, err)
	require.NotNil(t, captured.CapturedAt)
	return captured
}

func dtoCreatePayment(env *paymentTestEnv) *dto.CreatePaymentRequest {
	return &dto.CreatePaymentRequest{
		ContractID:  env.contractID,
		MilestoneID: env.milestoneID,
	}
}

func refundRequest(paymentID string) *dto.RefundRequest {
	return &dto.RefundRequest{PaymentID: paymentID, Reason: "requested_by_customer"}
}

// --- Тесты ---

func TestInitiateEscrow_CreatesPendingPayment(t *testing.T) {
	env := newPaymentTestEnv(t)

	resp, err := env.service.InitiateEscrow(context.Background(), env.client, dtoCreatePayment(env))
	require.NoError(t, err)

	assert.NotEmpty(t, resp.ClientSecret)
	assert.Equal(t, 1000.0, resp.Amount)

	payment, err := env.payments.FindByIntentID(resp.PaymentIntentID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPending, payment.Status)
	assert.Equal(t, 150.0, payment.Fee) // 15% от 1000
	require.NotNil(t, payment.MilestoneID)
	assert.Equal(t, env.milestoneID, *payment.MilestoneID)
}

func TestInitiateEscrow_OnlyContractClient(t *testing.T) {
	env := newPaymentTestEnv(t)

	stranger := auth.Actor{ID: "somebody-else", Role: models.UserRoleClient}
	_, err := env.service.InitiateEscrow(context.Background(), stranger, dtoCreatePayment(env))

	assert.ErrorIs(t, err, apperrors.ErrInsufficientPermissions)
	assert.Zero(t, env.provider.createCalls, "провайдер не должен вызываться при отказе в доступе")
}

func TestInitiateEscrow_ContractNotFound(t *testing.T) {
	env := newPaymentTestEnv(t)

	req := dtoCreatePayment(env)
	req.ContractID = "missing"
	_, err := env.service.InitiateEscrow(context.Background(), env.client, req)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 404, appErr.HTTPCode)
}

func TestInitiateEscrow_WithoutProvider(t *testing.T) {
	env := newPaymentTestEnv(t)
	env.service = NewPaymentService(
		env.payments, env.contracts, env.users, env.jobs,
		nil, env.notifier, email.NoopProvider{},
	)

	_, err := env.service.InitiateEscrow(context.Background(), env.client, dtoCreatePayment(env))
	assert.ErrorIs(t, err, apperrors.ErrPaymentsNotConfigured)
}

func TestHandlePaymentSucceeded_MovesFundsToEscrow(t *testing.T) {
	env := newPaymentTestEnv(t)
	payment := env.fundMilestone(t)

	assert.Equal(t, models.PaymentStatusCaptured, payment.Status)
	assert.Equal(t, models.MilestoneStatusInEscrow, env.contracts.milestones[env.milestoneID].Status)
}

func TestHandlePaymentSucceeded_Idempotent(t *testing.T) {
	env := newPaymentTestEnv(t)
	payment := env.fundMilestone(t)

	// Повторная доставка того же вебхука - no-op, не ошибка
	require.NoError(t, env.service.HandlePaymentSucceeded(payment.StripePaymentIntentID))

	stored, err := env.payments.FindByIntentID(payment.StripePaymentIntentID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusCaptured, stored.Status)
}

func TestHandlePaymentSucceeded_UnknownIntent(t *testing.T) {
	env := newPaymentTestEnv(t)

	// Чужой интент (другая среда, ручной тест в дашборде) - не ошибка
	assert.NoError(t, env.service.HandlePaymentSucceeded("pi_unknown"))
}

func TestReleaseMilestone_PaysFreelancerMinusFee(t *testing.T) {
	env := newPaymentTestEnv(t)
	env.fundMilestone(t)

	resp, err := env.service.ReleaseMilestone(context.Background(), env.client, env.milestoneID)
	require.NoError(t, err)

	// С вехи в 1000 фрилансер получает 850, платформа удерживает 150
	require.Len(t, env.provider.transfers, 1)
	assert.Equal(t, 850.0, env.provider.transfers[0].Amount)
	assert.Equal(t, "acct_fr1", env.provider.transfers[0].AccountID)
	assert.Equal(t, 850.0, resp.Payout)
	assert.Equal(t, "released", resp.Payment.Status)

	// Последняя веха выплачена: контракт и вакансия завершаются
	assert.Equal(t, models.ContractStatusCompleted, env.contracts.contracts[env.contractID].Status)
	assert.Equal(t, models.JobStatusCompleted, env.jobs.statuses["job-1"])
	assert.Contains(t, env.notifier.notified, "freelancer-1:"+NotificationPaymentReleased)
}

func TestReleaseMilestone_RequiresEscrow(t *testing.T) {
	env := newPaymentTestEnv(t)

	// Веха еще pending - холд не подтвержден
	_, err := env.service.ReleaseMilestone(context.Background(), env.client, env.milestoneID)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 400, appErr.HTTPCode)
	assert.Empty(t, env.provider.captured)
}

func TestReleaseMilestone_TransferFailureKeepsCaptured(t *testing.T) {
	env := newPaymentTestEnv(t)
	payment := env.fundMilestone(t)

	env.provider.transferErr = errors.New("stripe: insufficient platform balance")
	_, err := env.service.ReleaseMilestone(context.Background(), env.client, env.milestoneID)
	require.Error(t, err)

	// Capture прошел, но платеж остался captured: релиз можно повторить
	stored, findErr := env.payments.FindByID(payment.ID)
	require.NoError(t, findErr)
	assert.Equal(t, models.PaymentStatusCaptured, stored.Status)
	assert.NotNil(t, stored.CapturedAt)
}

func TestReleaseMilestone_RequiresPayoutAccount(t *testing.T) {
	env := newPaymentTestEnv(t)
	env.fundMilestone(t)
	env.users.users["freelancer-1"].StripeAccountID = ""

	_, err := env.service.ReleaseMilestone(context.Background(), env.client, env.milestoneID)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 400, appErr.HTTPCode)
	assert.Empty(t, env.provider.transfers)
}

func TestRefund_CancelsUncapturedHold(t *testing.T) {
	env := newPaymentTestEnv(t)
	payment := env.fundMilestone(t)

	// Средства захолдированы, но не списаны: у провайдера интент
	// в requires_capture, поэтому возврат - это отмена интента
	refunded, err := env.service.Refund(context.Background(), env.client, refundRequest(payment.ID))
	require.NoError(t, err)
	assert.Equal(t, "refunded", refunded.Status)
	assert.Len(t, env.provider.canceled, 1)
	assert.Empty(t, env.provider.refunds)
	assert.Equal(t, models.MilestoneStatusRefunded, env.contracts.milestones[env.milestoneID].Status)
}

func TestRefund_CapturedChargeUsesRefund(t *testing.T) {
	env := newPaymentTestEnv(t)
	payment := env.capturePayment(t)

	// Capture уже прошел: холда больше нет, отменить интент нельзя
	refunded, err := env.service.Refund(context.Background(), env.client, refundRequest(payment.ID))
	require.NoError(t, err)
	assert.Equal(t, "refunded", refunded.Status)
	assert.Empty(t, env.provider.canceled)
	require.Len(t, env.provider.refunds, 1)
	assert.Nil(t, env.provider.refunds[0].Amount)
}

func TestRefund_PartialAmount(t *testing.T) {
	env := newPaymentTestEnv(t)
	payment := env.capturePayment(t)

	amount := 250.0
	req := refundRequest(payment.ID)
	req.Amount = &amount

	_, err := env.service.Refund(context.Background(), env.client, req)
	require.NoError(t, err)
	require.Len(t, env.provider.refunds, 1)
	require.NotNil(t, env.provider.refunds[0].Amount)
	assert.Equal(t, 250.0, *env.provider.refunds[0].Amount)
}

func TestRefund_PartialRequiresCapture(t *testing.T) {
	env := newPaymentTestEnv(t)
	payment := env.fundMilestone(t)

	// Холд снимается только целиком
	amount := 250.0
	req := refundRequest(payment.ID)
	req.Amount = &amount

	_, err := env.service.Refund(context.Background(), env.client, req)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 400, appErr.HTTPCode)
	assert.Empty(t, env.provider.canceled)
	assert.Empty(t, env.provider.refunds)
}

func TestRefund_AmountExceedsPayment(t *testing.T) {
	env := newPaymentTestEnv(t)
	payment := env.capturePayment(t)

	amount := 2000.0
	req := refundRequest(payment.ID)
	req.Amount = &amount

	_, err := env.service.Refund(context.Background(), env.client, req)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 400, appErr.HTTPCode)
	assert.Empty(t, env.provider.refunds)
}

func TestRefund_ReleasedIsTerminal(t *testing.T) {
	env := newPaymentTestEnv(t)
	payment := env.fundMilestone(t)

	_, err := env.service.ReleaseMilestone(context.Background(), env.client, env.milestoneID)
	require.NoError(t, err)

	_, err = env.service.Refund(context.Background(), env.client, refundRequest(payment.ID))
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 400, appErr.HTTPCode)
	assert.Empty(t, env.provider.canceled)
	assert.Empty(t, env.provider.refunds)
}

func TestConnectStatus_Tristate(t *testing.T) {
	env := newPaymentTestEnv(t)

	// Аккаунта нет: stripeAccountId отдается как null
	env.users.users["freelancer-1"].StripeAccountID = ""
	resp, err := env.service.ConnectStatus(context.Background(), env.freelancer)
	require.NoError(t, err)
	assert.Equal(t, "not_connected", resp.Status)
	assert.Nil(t, resp.StripeAccountID)

	// Онбординг не завершен
	env.users.users["freelancer-1"].StripeAccountID = "acct_fr1"
	env.provider.accountStatus = payments.AccountPending
	resp, err = env.service.ConnectStatus(context.Background(), env.freelancer)
	require.NoError(t, err)
	assert.Equal(t, "pending", resp.Status)
	require.NotNil(t, resp.StripeAccountID)
	assert.Equal(t, "acct_fr1", *resp.StripeAccountID)

	// Прием платежей включен
	env.provider.accountStatus = payments.AccountConnected
	resp, err = env.service.ConnectStatus(context.Background(), env.freelancer)
	require.NoError(t, err)
	assert.Equal(t, "connected", resp.Status)
	require.NotNil(t, resp.StripeAccountID)
	assert.Equal(t, "acct_fr1", *resp.StripeAccountID)
}

func TestConnectStatus_DegradesToPendingOnProviderError(t *testing.T) {
	env := newPaymentTestEnv(t)

	env.provider.accountErr = errors.New("stripe: api unavailable")
	resp, err := env.service.ConnectStatus(context.Background(), env.freelancer)

	// Недоступность Stripe не должна ронять кабинет
	require.NoError(t, err)
	assert.Equal(t, "pending", resp.Status)
}

func TestConnectOnboarding_ReusesExistingAccount(t *testing.T) {
	env := newPaymentTestEnv(t)

	resp, err := env.service.ConnectOnboarding(context.Background(), env.freelancer)
	require.NoError(t, err)
	assert.Equal(t, "acct_fr1", resp.AccountID)
	assert.Contains(t, resp.URL, "acct_fr1")
}

func TestConnectOnboarding_FreelancersOnly(t *testing.T) {
	env := newPaymentTestEnv(t)

	_, err := env.service.ConnectOnboarding(context.Background(), env.client)
	assert.ErrorIs(t, err, apperrors.ErrInsufficientPermissions)
}

func TestReconcilePending_PicksUpLostWebhook(t *testing.T) {
	env := newPaymentTestEnv(t)

	resp, err := env.service.InitiateEscrow(context.Background(), env.client, dtoCreatePayment(env))
	require.NoError(t, err)

	// Вебхук "потерялся", но у провайдера интент уже подтвержден
	env.provider.intents[resp.PaymentIntentID] = payments.IntentStatusSucceeded

	updated, err := env.service.ReconcilePending(context.Background(), 0, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, updated)

	payment, err := env.payments.FindByIntentID(resp.PaymentIntentID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusCaptured, payment.Status)
}
