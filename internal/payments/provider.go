package payments

import "context"

// AccountStatus - состояние подключенного аккаунта фрилансера у провайдера.
type AccountStatus string

const (
	AccountNotConnected AccountStatus = "not_connected"
	AccountPending      AccountStatus = "pending"
	AccountConnected    AccountStatus = "connected"
)

// IntentStatus - состояние платежного интента у провайдера.
type IntentStatus string

const (
	IntentStatusPending   IntentStatus = "pending"
	IntentStatusSucceeded IntentStatus = "succeeded"
	IntentStatusFailed    IntentStatus = "failed"
	IntentStatusCanceled  IntentStatus = "canceled"
)

// EscrowIntent - результат создания эскроу-платежа.
type EscrowIntent struct {
	ID           string
	ClientSecret string
	Amount       float64
}

// Provider - абстракция над платежным провайдером (Stripe).
// Все суммы в долларах; перевод в центы - внутренняя забота реализации.
type Provider interface {
	// CreateEscrowIntent создает платеж с ручным подтверждением:
	// деньги блокируются на карте клиента, но не списываются.
	CreateEscrowIntent(ctx context.Context, amount float64, contractID string) (*EscrowIntent, error)

	// GetIntentStatus возвращает текущий статус интента у провайдера.
	GetIntentStatus(ctx context.Context, intentID string) (IntentStatus, error)

	// CaptureIntent списывает заблокированные средства.
	CaptureIntent(ctx context.Context, intentID string) error

	// CancelIntent отменяет неподтвержденный интент и снимает холд с карты.
	CancelIntent(ctx context.Context, intentID string) error

	// CreateRefund возвращает средства по уже списанному интенту.
	// amount == nil - полный возврат, иначе частичный на указанную сумму.
	CreateRefund(ctx context.Context, intentID string, amount *float64) (string, error)

	// CreateConnectedAccount создает Express-аккаунт для выплат фрилансеру.
	CreateConnectedAccount(ctx context.Context, email string) (string, error)

	// CreateAccountLink возвращает одноразовую ссылку на онбординг аккаунта.
	CreateAccountLink(ctx context.Context, accountID string) (string, error)

	// GetAccountStatus проверяет, завершил ли фрилансер онбординг.
	GetAccountStatus(ctx context.Context, accountID string) (AccountStatus, error)

	// Transfer переводит средства на подключенный аккаунт фрилансера.
	Transfer(ctx context.Context, amount float64, accountID, milestoneID string) (string, error)
}
