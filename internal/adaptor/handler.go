package adaptor

import (
	"school-transport/internal/usecase"
	"school-transport/pkg/payment"

	"go.uber.org/zap"
)

type Handler struct {
	Auth    *AuthHandler
	Student *StudentHandler
	Route   *RouteHandler
	Pricing *PricingHandler
	Booking *BookingHandler
	Webhook *WebhookHandler
}

func NewHandler(service *usecase.Service, provider payment.Provider, log *zap.Logger) *Handler {
	return &Handler{
		Auth:    NewAuthHandler(service.Auth, log),
		Student: NewStudentHandler(service.Student, log),
		Route:   NewRouteHandler(service.Route, log),
		Pricing: NewPricingHandler(service.Pricing, log),
		Booking: NewBookingHandler(service.Booking, log),
		Webhook: NewWebhookHandler(service.Booking, provider, log),
	}
}
