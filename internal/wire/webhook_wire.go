package wire

import (
	"school-transport/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireWebhook(r chi.Router, webhookHandler *adaptor.WebhookHandler) {
	// Authenticated by Stripe signature, not by session.
	r.Post("/api/webhooks/stripe", webhookHandler.HandleStripe)
}
