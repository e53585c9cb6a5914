package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/Ramses120/Copper-Salon-sub000/internal/domain"
	"github.com/Ramses120/Copper-Salon-sub000/pkg/dbmetrics"
	"github.com/Ramses120/Copper-Salon-sub000/pkg/pgerr"
	"github.com/Ramses120/Copper-Salon-sub000/pkg/psqlbuilder"
)

const (
	bookingsTable        = "bookings"
	bookingServicesTable = "booking_services"
)

var bookingColumns = []string{
	"id",
	"staff_id",
	"booking_date",
	"start_time",
	"duration_minutes",
	"total_price",
	"status",
	"client_name",
	"client_phone",
	"client_email",
	"notes",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает бронирование вместе со связями на услуги.
// Если в контексте передана активная транзакция, использует её.
// Пересечение с другим активным бронированием мастера (exclusion constraint)
// возвращается как ErrSlotConflict.
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(bookingsTable).
		Columns(
			"staff_id",
			"booking_date",
			"start_time",
			"duration_minutes",
			"total_price",
			"status",
			"client_name",
			"client_phone",
			"client_email",
			"notes",
		).
		Values(
			booking.StaffID,
			dateParam(booking.BookingDate),
			booking.StartTime,
			booking.DurationMinutes,
			booking.TotalPrice,
			booking.Status,
			booking.ClientName,
			booking.ClientPhone,
			booking.ClientEmail,
			booking.Notes,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&booking.ID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, classify("Create - execute insert", err)
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	if err := r.insertServices(ctx, executor, booking); err != nil {
		return nil, err
	}

	return booking, nil
}

// GetByID получает бронирование по ID вместе с услугами.
// Внутри транзакции строка блокируется (FOR UPDATE).
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(bookingColumns...).
		From(bookingsTable).
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		builder = builder.Suffix("FOR UPDATE")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, classify("GetByID - scan booking", err)
	}

	services, err := r.loadServices(ctx, executor, []int64{booking.ID})
	if err != nil {
		return nil, err
	}
	booking.Services = services[booking.ID]

	return booking, nil
}

// List получает бронирования по фильтру, упорядоченные по дате и времени начала.
// Если в транзакции выбираются бронирования одного мастера на один день,
// строки блокируются (FOR UPDATE), чтобы проверка пересечений и вставка были атомарны.
func (r *Repository) List(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(bookingColumns...).From(bookingsTable)

	if filter.StaffID != nil {
		builder = builder.Where(squirrel.Eq{"staff_id": *filter.StaffID})
	}
	if filter.Date != nil {
		builder = builder.Where(squirrel.Eq{"booking_date": dateParam(*filter.Date)})
	}
	if len(filter.Statuses) > 0 {
		statuses := make([]string, len(filter.Statuses))
		for i, s := range filter.Statuses {
			statuses[i] = string(s)
		}
		builder = builder.Where(squirrel.Eq{"status": statuses})
	}
	if filter.ClientPhone != nil {
		builder = builder.Where(squirrel.Eq{"client_phone": *filter.ClientPhone})
	}
	if filter.ExcludeBookingID != nil {
		builder = builder.Where(squirrel.NotEq{"id": *filter.ExcludeBookingID})
	}

	builder = builder.OrderBy("booking_date ASC", "start_time ASC", "id ASC")

	if dbmetrics.IsInTransaction(ctx) && filter.StaffID != nil && filter.Date != nil {
		builder = builder.Suffix("FOR UPDATE")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, classify("List - execute select", err)
	}
	defer rows.Close()

	bookings := make([]*domain.Booking, 0)
	ids := make([]int64, 0)
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan booking: %v", ErrScanRow, err)
		}
		bookings = append(bookings, booking)
		ids = append(ids, booking.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("List - iterate rows", err)
	}

	if len(ids) == 0 {
		return bookings, nil
	}

	services, err := r.loadServices(ctx, executor, ids)
	if err != nil {
		return nil, err
	}
	for _, b := range bookings {
		b.Services = services[b.ID]
	}

	return bookings, nil
}

// UpdateStatus обновляет статус бронирования
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(bookingsTable).
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return classify("UpdateStatus - execute update", err)
	}

	return checkAffected("UpdateStatus", result)
}

// Reschedule переносит бронирование (мастер, дата, время, услуги) и заменяет связи с услугами
func (r *Repository) Reschedule(ctx context.Context, booking *domain.Booking) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(bookingsTable).
		Set("staff_id", booking.StaffID).
		Set("booking_date", dateParam(booking.BookingDate)).
		Set("start_time", booking.StartTime).
		Set("duration_minutes", booking.DurationMinutes).
		Set("total_price", booking.TotalPrice).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": booking.ID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Reschedule - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return classify("Reschedule - execute update", err)
	}
	if err := checkAffected("Reschedule", result); err != nil {
		return err
	}

	deleteQuery, deleteArgs, err := psqlbuilder.Delete(bookingServicesTable).
		Where(squirrel.Eq{"booking_id": booking.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Reschedule - build delete services query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, deleteQuery, deleteArgs...); err != nil {
		return classify("Reschedule - delete services", err)
	}

	return r.insertServices(ctx, executor, booking)
}

// Delete удаляет бронирование (связи с услугами удаляются каскадно)
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(bookingsTable).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return classify("Delete - execute delete", err)
	}

	return checkAffected("Delete", result)
}

func (r *Repository) insertServices(ctx context.Context, executor DBExecutor, booking *domain.Booking) error {
	if len(booking.Services) == 0 {
		return nil
	}

	builder := psqlbuilder.Insert(bookingServicesTable).
		Columns("booking_id", "service_id", "position", "service_name", "price", "duration_minutes")

	for i := range booking.Services {
		link := &booking.Services[i]
		link.BookingID = booking.ID
		link.Position = i
		builder = builder.Values(link.BookingID, link.ServiceID, link.Position, link.ServiceName, link.Price, link.DurationMinutes)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: insertServices - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return classify("insertServices - execute insert", err)
	}

	return nil
}

// loadServices загружает услуги бронирований, сгруппированные по booking_id
func (r *Repository) loadServices(ctx context.Context, executor DBExecutor, bookingIDs []int64) (map[int64][]domain.BookingService, error) {
	query, args, err := psqlbuilder.Select(
		"booking_id",
		"service_id",
		"position",
		"service_name",
		"price",
		"duration_minutes",
	).
		From(bookingServicesTable).
		Where(squirrel.Eq{"booking_id": bookingIDs}).
		OrderBy("booking_id ASC", "position ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: loadServices - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, classify("loadServices - execute select", err)
	}
	defer rows.Close()

	result := make(map[int64][]domain.BookingService, len(bookingIDs))
	for rows.Next() {
		var link domain.BookingService
		if err := rows.Scan(
			&link.BookingID,
			&link.ServiceID,
			&link.Position,
			&link.ServiceName,
			&link.Price,
			&link.DurationMinutes,
		); err != nil {
			return nil, fmt.Errorf("%w: loadServices - scan row: %v", ErrScanRow, err)
		}
		result[link.BookingID] = append(result[link.BookingID], link)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("loadServices - iterate rows", err)
	}

	return result, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var booking domain.Booking
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&booking.ID,
		&booking.StaffID,
		&booking.BookingDate,
		&booking.StartTime,
		&booking.DurationMinutes,
		&booking.TotalPrice,
		&booking.Status,
		&booking.ClientName,
		&booking.ClientPhone,
		&booking.ClientEmail,
		&booking.Notes,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return &booking, nil
}

// classify превращает ошибки пересечения бронирований в ErrSlotConflict
func classify(op string, err error) error {
	if pgerr.IsSlotConflict(err) {
		return fmt.Errorf("%w: %s: %v", ErrSlotConflict, op, err)
	}
	return fmt.Errorf("%w: %s: %v", ErrExecQuery, op, err)
}

func checkAffected(op string, result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}
	if rowsAffected == 0 {
		return ErrBookingNotFound
	}
	return nil
}

// dateParam дата без времени для колонок типа DATE
func dateParam(t time.Time) string {
	return t.Format(domain.DateFormat)
}
