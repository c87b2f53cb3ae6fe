package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"talentlink_backend/internal/logger"
	"talentlink_backend/internal/payments"
	"talentlink_backend/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v81"
)

const webhookMaxBodySize = 65536

type WebhookHandler struct {
	*BaseHandler
	paymentService services.PaymentService
	stripeProvider *payments.StripeProvider
}

func NewWebhookHandler(base *BaseHandler, paymentService services.PaymentService, stripeProvider *payments.StripeProvider) *WebhookHandler {
	return &WebhookHandler{
		BaseHandler:    base,
		paymentService: paymentService,
		stripeProvider: stripeProvider,
	}
}

func (h *WebhookHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/webhooks/stripe", h.HandleStripeWebhook)
}

// HandleStripeWebhook принимает события Stripe. Подпись проверяется
// до разбора тела; невалидная подпись - 400, чтобы Stripe не ретраил вечно
// чужие события, а наши ошибки обработки - 500, чтобы ретраил.
func (h *WebhookHandler) HandleStripeWebhook(c *gin.Context) {
	if h.stripeProvider == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "payments not configured"})
		return
	}

	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, webhookMaxBodySize))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read body"})
		return
	}

	event, err := h.stripeProvider.ConstructWebhookEvent(payload, c.GetHeader("Stripe-Signature"))
	if err != nil {
		logger.Warn("Webhook signature verification failed", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid signature"})
		return
	}

	if err := h.processEvent(event); err != nil {
		logger.Error("Webhook processing failed", "event_type", event.Type, "event_id", event.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "processing failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}

func (h *WebhookHandler) processEvent(event stripe.Event) error {
	switch event.Type {
	case "payment_intent.succeeded", "payment_intent.amount_capturable_updated":
		var intent stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
			return err
		}
		return h.paymentService.HandlePaymentSucceeded(intent.ID)

	case "payment_intent.payment_failed":
		var intent stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
			return err
		}
		return h.paymentService.HandlePaymentFailed(intent.ID)

	case "charge.dispute.created":
		var dispute stripe.Dispute
		if err := json.Unmarshal(event.Data.Raw, &dispute); err != nil {
			return err
		}
		if dispute.PaymentIntent == nil {
			return nil
		}
		return h.paymentService.HandleDispute(dispute.PaymentIntent.ID)

	default:
		// Остальные события подтверждаем, не обрабатывая
		logger.Debug("Unhandled webhook event", "event_type", event.Type)
		return nil
	}
}
