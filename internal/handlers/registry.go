package handlers

// AppHandlers содержит все HTTP-обработчики приложения.
type AppHandlers struct {
	Auth         *AuthHandler
	User         *UserHandler
	Job          *JobHandler
	Application  *ApplicationHandler
	Contract     *ContractHandler
	Payment      *PaymentHandler
	Webhook      *WebhookHandler
	Message      *MessageHandler
	Notification *NotificationHandler
	AI           *AIHandler
	Admin        *AdminHandler
}
