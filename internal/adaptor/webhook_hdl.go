package adaptor

import (
	"io"
	"net/http"

	"school-transport/internal/usecase"
	"school-transport/pkg/payment"
	"school-transport/pkg/utils"

	"go.uber.org/zap"
)

// Stripe caps webhook payloads well under this; anything larger is bogus.
const maxWebhookBody = 65536

type WebhookHandler struct {
	service  usecase.BookingService
	provider payment.Provider
	log      *zap.Logger
}

func NewWebhookHandler(service usecase.BookingService, provider payment.Provider, log *zap.Logger) *WebhookHandler {
	return &WebhookHandler{
		service:  service,
		provider: provider,
		log:      log.With(zap.String("handler", "webhook")),
	}
}

// HandleStripe handles POST /api/webhooks/stripe. The signature is
// verified before anything in the payload is trusted; an unverifiable
// request gets a 400 so Stripe retries are not suppressed by mistake.
func (h *WebhookHandler) HandleStripe(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		utils.ResponseBadRequest(w, "Failed to read request body", nil)
		return
	}

	event, err := h.provider.ValidateWebhook(r.Context(), body, r.Header.Get("Stripe-Signature"))
	if err != nil {
		h.log.Warn("Rejected webhook with bad signature", zap.Error(err))
		utils.ResponseBadRequest(w, "Invalid webhook signature", nil)
		return
	}
	if event == nil || event.EventType == "" {
		// Verified but not an event type we act on.
		utils.ResponseSuccess(w, "ignored", nil)
		return
	}

	if err := h.service.HandlePaymentEvent(r.Context(), event); err != nil {
		h.log.Error("Failed to process payment event",
			zap.Error(err),
			zap.String("event_id", event.EventID),
			zap.String("event_type", event.EventType),
		)
		utils.ResponseInternalError(w, "Failed to process event")
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}
