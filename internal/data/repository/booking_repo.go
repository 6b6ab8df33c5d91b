package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"school-transport/internal/data/entity"
	"school-transport/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// ErrRouteFull is returned by CreateWithCapacity when the locked occupancy
// count already equals the route capacity. The booking service translates
// it into the user-facing capacity error.
var ErrRouteFull = errors.New("route is at full capacity")

const bookingColumns = `id, order_id, student_id, route_id, pickup_point_id, plan_type, trip_type,
	       status, start_date, end_date, amount, currency, stripe_customer_id, created_at, updated_at`

type BookingRepository interface {
	CreateWithCapacity(ctx context.Context, booking *entity.Booking) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	FindByOrderID(ctx context.Context, orderID string) (*entity.Booking, error)
	FindByParentID(ctx context.Context, parentID uuid.UUID, limit, offset int) ([]*entity.Booking, error)
	CountByParentID(ctx context.Context, parentID uuid.UUID) (int64, error)
	UpdateStatus(ctx context.Context, bookingID uuid.UUID, status entity.BookingStatus) error
	SetStripeCustomerID(ctx context.Context, bookingID uuid.UUID, customerID string) error

	// Occupancy and sweep queries
	CountOccupying(ctx context.Context, routeID uuid.UUID, onDate time.Time) (int64, error)
	FindDueForActivation(ctx context.Context, now time.Time) ([]*entity.Booking, error)
	FindDueForExpiry(ctx context.Context, now time.Time) ([]*entity.Booking, error)
	FindEndingWithin(ctx context.Context, now time.Time, window time.Duration) ([]*entity.Booking, error)
}

type bookingRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewBookingRepository(db database.PgxIface, log *zap.Logger) BookingRepository {
	return &bookingRepository{
		db:  db,
		log: log.With(zap.String("repository", "booking")),
	}
}

// CreateWithCapacity counts current occupancy and inserts the booking in a
// single transaction, holding a row lock on the route so two concurrent
// requests for the last seat serialize. Whoever commits first wins the
// seat; the other transaction sees the updated count and gets ErrRouteFull.
func (r *bookingRepository) CreateWithCapacity(ctx context.Context, booking *entity.Booking) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin booking transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var capacity int64
	err = tx.QueryRow(ctx,
		`SELECT capacity FROM routes WHERE id = $1 AND deleted_at IS NULL FOR UPDATE`,
		booking.RouteID,
	).Scan(&capacity)
	if err == pgx.ErrNoRows {
		return fmt.Errorf("route %s not found", booking.RouteID.String())
	}
	if err != nil {
		r.log.Error("Failed to lock route row",
			zap.Error(err),
			zap.String("route_id", booking.RouteID.String()),
		)
		return fmt.Errorf("lock route %s: %w", booking.RouteID.String(), err)
	}

	var occupied int64
	err = tx.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM bookings
		WHERE route_id = $1
		  AND status = ANY($2)
		  AND start_date <= $3
		  AND (end_date IS NULL OR end_date >= $3)
		  AND deleted_at IS NULL
	`, booking.RouteID, statusStrings(entity.SeatOccupyingStatuses), booking.StartDate).Scan(&occupied)
	if err != nil {
		r.log.Error("Failed to count occupancy in transaction",
			zap.Error(err),
			zap.String("route_id", booking.RouteID.String()),
		)
		return fmt.Errorf("count occupancy for route %s: %w", booking.RouteID.String(), err)
	}

	if occupied >= capacity {
		return ErrRouteFull
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO bookings (id, order_id, student_id, route_id, pickup_point_id, plan_type,
		                      trip_type, status, start_date, end_date, amount, currency,
		                      stripe_customer_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`,
		booking.ID,
		booking.OrderID,
		booking.StudentID,
		booking.RouteID,
		booking.PickupPointID,
		booking.PlanType,
		booking.TripType,
		booking.Status,
		booking.StartDate,
		booking.EndDate,
		booking.Amount,
		booking.Currency,
		booking.StripeCustomerID,
		booking.CreatedAt,
		booking.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to insert booking",
			zap.Error(err),
			zap.String("order_id", booking.OrderID),
		)
		return fmt.Errorf("insert booking %s: %w", booking.OrderID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit booking %s: %w", booking.OrderID, err)
	}

	return nil
}

func (r *bookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE id = $1 AND deleted_at IS NULL
	`

	var booking entity.Booking
	err := r.db.QueryRow(ctx, query, id).Scan(bookingFields(&booking)...)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking by ID",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return nil, fmt.Errorf("find booking by ID %s: %w", id.String(), err)
	}

	return &booking, nil
}

func (r *bookingRepository) FindByOrderID(ctx context.Context, orderID string) (*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE order_id = $1 AND deleted_at IS NULL
	`

	var booking entity.Booking
	err := r.db.QueryRow(ctx, query, orderID).Scan(bookingFields(&booking)...)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking by order ID",
			zap.Error(err),
			zap.String("order_id", orderID),
		)
		return nil, fmt.Errorf("find booking by order ID %s: %w", orderID, err)
	}

	return &booking, nil
}

func (r *bookingRepository) FindByParentID(ctx context.Context, parentID uuid.UUID, limit, offset int) ([]*entity.Booking, error) {
	query := `
		SELECT b.id, b.order_id, b.student_id, b.route_id, b.pickup_point_id, b.plan_type,
		       b.trip_type, b.status, b.start_date, b.end_date, b.amount, b.currency,
		       b.stripe_customer_id, b.created_at, b.updated_at
		FROM bookings b
		JOIN students s ON s.id = b.student_id
		WHERE s.parent_id = $1 AND b.deleted_at IS NULL
		ORDER BY b.created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, parentID, limit, offset)
	if err != nil {
		r.log.Error("Failed to find bookings by parent ID",
			zap.Error(err),
			zap.String("parent_id", parentID.String()),
		)
		return nil, fmt.Errorf("find bookings by parent ID %s: %w", parentID.String(), err)
	}
	defer rows.Close()

	return scanBookings(rows, r.log)
}

func (r *bookingRepository) CountByParentID(ctx context.Context, parentID uuid.UUID) (int64, error) {
	query := `
		SELECT COUNT(*)
		FROM bookings b
		JOIN students s ON s.id = b.student_id
		WHERE s.parent_id = $1 AND b.deleted_at IS NULL
	`

	var count int64
	err := r.db.QueryRow(ctx, query, parentID).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count bookings by parent ID",
			zap.Error(err),
			zap.String("parent_id", parentID.String()),
		)
		return 0, fmt.Errorf("count bookings by parent ID %s: %w", parentID.String(), err)
	}

	return count, nil
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, bookingID uuid.UUID, status entity.BookingStatus) error {
	query := `UPDATE bookings SET status = $2, updated_at = NOW() WHERE id = $1`

	result, err := r.db.Exec(ctx, query, bookingID, status)
	if err != nil {
		r.log.Error("Failed to update booking status",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
			zap.String("status", string(status)),
		)
		return fmt.Errorf("update booking %s status to %s: %w", bookingID.String(), string(status), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("booking %s not found", bookingID.String())
	}

	return nil
}

func (r *bookingRepository) SetStripeCustomerID(ctx context.Context, bookingID uuid.UUID, customerID string) error {
	query := `UPDATE bookings SET stripe_customer_id = $2, updated_at = NOW() WHERE id = $1`

	result, err := r.db.Exec(ctx, query, bookingID, customerID)
	if err != nil {
		r.log.Error("Failed to set stripe customer ID",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
		)
		return fmt.Errorf("set stripe customer on booking %s: %w", bookingID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("booking %s not found", bookingID.String())
	}

	return nil
}

// CountOccupying counts bookings holding a seat on the route on the given
// date: seat-occupying status and a date window containing onDate.
func (r *bookingRepository) CountOccupying(ctx context.Context, routeID uuid.UUID, onDate time.Time) (int64, error) {
	query := `
		SELECT COUNT(*)
		FROM bookings
		WHERE route_id = $1
		  AND status = ANY($2)
		  AND start_date <= $3
		  AND (end_date IS NULL OR end_date >= $3)
		  AND deleted_at IS NULL
	`

	var count int64
	err := r.db.QueryRow(ctx, query, routeID, statusStrings(entity.SeatOccupyingStatuses), onDate).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count occupying bookings",
			zap.Error(err),
			zap.String("route_id", routeID.String()),
		)
		return 0, fmt.Errorf("count occupying bookings for route %s: %w", routeID.String(), err)
	}

	return count, nil
}

func (r *bookingRepository) FindDueForActivation(ctx context.Context, now time.Time) ([]*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE status = $1 AND start_date <= $2 AND deleted_at IS NULL
		ORDER BY start_date
	`

	rows, err := r.db.Query(ctx, query, entity.BookingStatusAwaitingApproval, now)
	if err != nil {
		r.log.Error("Failed to find bookings due for activation", zap.Error(err))
		return nil, fmt.Errorf("find bookings due for activation: %w", err)
	}
	defer rows.Close()

	return scanBookings(rows, r.log)
}

func (r *bookingRepository) FindDueForExpiry(ctx context.Context, now time.Time) ([]*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE status = ANY($1) AND end_date IS NOT NULL AND end_date < $2 AND deleted_at IS NULL
		ORDER BY end_date
	`

	expirable := []string{
		string(entity.BookingStatusPending),
		string(entity.BookingStatusActive),
	}

	rows, err := r.db.Query(ctx, query, expirable, now)
	if err != nil {
		r.log.Error("Failed to find bookings due for expiry", zap.Error(err))
		return nil, fmt.Errorf("find bookings due for expiry: %w", err)
	}
	defer rows.Close()

	return scanBookings(rows, r.log)
}

func (r *bookingRepository) FindEndingWithin(ctx context.Context, now time.Time, window time.Duration) ([]*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE status = $1
		  AND end_date IS NOT NULL
		  AND end_date BETWEEN $2 AND $3
		  AND deleted_at IS NULL
		ORDER BY end_date
	`

	rows, err := r.db.Query(ctx, query, entity.BookingStatusActive, now, now.Add(window))
	if err != nil {
		r.log.Error("Failed to find bookings ending soon", zap.Error(err))
		return nil, fmt.Errorf("find bookings ending soon: %w", err)
	}
	defer rows.Close()

	return scanBookings(rows, r.log)
}

func bookingFields(b *entity.Booking) []any {
	return []any{
		&b.ID,
		&b.OrderID,
		&b.StudentID,
		&b.RouteID,
		&b.PickupPointID,
		&b.PlanType,
		&b.TripType,
		&b.Status,
		&b.StartDate,
		&b.EndDate,
		&b.Amount,
		&b.Currency,
		&b.StripeCustomerID,
		&b.CreatedAt,
		&b.UpdatedAt,
	}
}

func scanBookings(rows pgx.Rows, log *zap.Logger) ([]*entity.Booking, error) {
	var bookings []*entity.Booking
	for rows.Next() {
		var booking entity.Booking
		if err := rows.Scan(bookingFields(&booking)...); err != nil {
			log.Error("Failed to scan booking row", zap.Error(err))
			return nil, fmt.Errorf("scan booking row: %w", err)
		}
		bookings = append(bookings, &booking)
	}

	return bookings, nil
}

func statusStrings(statuses []entity.BookingStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}
