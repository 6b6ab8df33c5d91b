package notifier

import (
	"encoding/json"
	"fmt"
	"time"

	"school-transport/internal/data/entity"
	"school-transport/internal/metrics"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// Notifier publishes booking lifecycle events for downstream consumers
// (email/push dispatchers, dashboards). Publishing happens after a
// successful transition, never inside the lifecycle policy itself.
type Notifier interface {
	BookingEvent(booking *entity.Booking, event entity.BookingEvent) error
	ExpiryWarning(booking *entity.Booking, endDate time.Time) error
	Close()
}

type BookingEventMessage struct {
	BookingID string `json:"booking_id"`
	OrderID   string `json:"order_id"`
	RouteID   string `json:"route_id"`
	StudentID string `json:"student_id"`
	Event     string `json:"event"`
	Status    string `json:"status"`
	At        int64  `json:"at"`
}

type ExpiryWarningMessage struct {
	BookingID string `json:"booking_id"`
	OrderID   string `json:"order_id"`
	StudentID string `json:"student_id"`
	EndDate   string `json:"end_date"`
	At        int64  `json:"at"`
}

type NATSNotifier struct {
	nc            *nats.Conn
	subjectPrefix string
	metrics       *metrics.Collector
	log           *zap.Logger
}

func NewNATSNotifier(url, subjectPrefix string, m *metrics.Collector, log *zap.Logger) (*NATSNotifier, error) {
	logger := log.With(zap.String("component", "notifier"))

	nc, err := nats.Connect(url,
		nats.Name("school-transport"),
		nats.DisconnectHandler(func(_ *nats.Conn) {
			if m != nil {
				m.NATSSetConnected(false)
			}
			logger.Warn("NATS disconnected")
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			if m != nil {
				m.NATSSetConnected(true)
			}
			logger.Info("NATS reconnected")
		}),
		nats.ClosedHandler(func(_ *nats.Conn) {
			if m != nil {
				m.NATSSetConnected(false)
			}
			logger.Info("NATS connection closed")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS %s: %w", url, err)
	}

	if m != nil {
		m.NATSSetConnected(true)
	}

	return &NATSNotifier{
		nc:            nc,
		subjectPrefix: subjectPrefix,
		metrics:       m,
		log:           logger,
	}, nil
}

// BookingEvent publishes to "<prefix>.booking.<event>".
func (n *NATSNotifier) BookingEvent(booking *entity.Booking, event entity.BookingEvent) error {
	msg := BookingEventMessage{
		BookingID: booking.ID.String(),
		OrderID:   booking.OrderID,
		RouteID:   booking.RouteID.String(),
		StudentID: booking.StudentID.String(),
		Event:     string(event),
		Status:    string(booking.Status),
		At:        time.Now().Unix(),
	}

	subject := fmt.Sprintf("%s.booking.%s", n.subjectPrefix, string(event))
	return n.publish(subject, msg)
}

// ExpiryWarning publishes to "<prefix>.booking.expiry_warning".
func (n *NATSNotifier) ExpiryWarning(booking *entity.Booking, endDate time.Time) error {
	msg := ExpiryWarningMessage{
		BookingID: booking.ID.String(),
		OrderID:   booking.OrderID,
		StudentID: booking.StudentID.String(),
		EndDate:   endDate.Format("2006-01-02"),
		At:        time.Now().Unix(),
	}

	subject := fmt.Sprintf("%s.booking.expiry_warning", n.subjectPrefix)
	return n.publish(subject, msg)
}

func (n *NATSNotifier) publish(subject string, msg any) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message for %s: %w", subject, err)
	}

	if err := n.nc.Publish(subject, payload); err != nil {
		if n.metrics != nil {
			n.metrics.NATSPublishErrs.Inc()
		}
		n.log.Error("Failed to publish notification",
			zap.Error(err),
			zap.String("subject", subject),
		)
		return fmt.Errorf("publish to %s: %w", subject, err)
	}

	if n.metrics != nil {
		n.metrics.NATSPublished.Inc()
	}

	return nil
}

func (n *NATSNotifier) Close() {
	if n.nc != nil {
		n.nc.Drain()
		n.nc.Close()
	}
}
