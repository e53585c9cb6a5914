package schedule

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

const table = "staff_schedules"

var columns = []string{
	"id",
	"staff_id",
	"weekday",
	"is_open",
	"open_time",
	"last_start_time",
	"slot_minutes",
	"created_at",
	"updated_at",
}

// Repository репозиторий расписаний мастеров (переопределения по дням недели)
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория расписаний
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByStaffAndWeekday получает переопределение мастера на день недели
func (r *Repository) GetByStaffAndWeekday(ctx context.Context, staffID int64, weekday time.Weekday) (*domain.StaffSchedule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"staff_id": staffID, "weekday": int(weekday)}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByStaffAndWeekday - build select query: %v", ErrBuildQuery, err)
	}

	s, err := scanSchedule(executor.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrScheduleNotFound
		}
		return nil, fmt.Errorf("%w: GetByStaffAndWeekday - scan: %v", ErrScanRow, err)
	}

	return s, nil
}

// ListByStaff все переопределения мастера, по порядку дней недели
func (r *Repository) ListByStaff(ctx context.Context, staffID int64) ([]*domain.StaffSchedule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"staff_id": staffID}).
		OrderBy("weekday ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByStaff - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByStaff - execute select: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	schedules := make([]*domain.StaffSchedule, 0)
	for rows.Next() {
		s, err := scanSchedule(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListByStaff - scan: %v", ErrScanRow, err)
		}
		schedules = append(schedules, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByStaff - iterate rows: %v", ErrExecQuery, err)
	}

	return schedules, nil
}

// Upsert создает или заменяет переопределение на день недели
func (r *Repository) Upsert(ctx context.Context, s *domain.StaffSchedule) (*domain.StaffSchedule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	var slotMinutes interface{}
	if s.IsOpen {
		slotMinutes = s.Window.SlotMinutes
	}

	query, args, err := psqlbuilder.Insert(table).
		Columns("staff_id", "weekday", "is_open", "open_time", "last_start_time", "slot_minutes").
		Values(s.StaffID, int(s.Weekday), s.IsOpen, s.Window.Open, s.Window.LastStart, slotMinutes).
		Suffix(`ON CONFLICT (staff_id, weekday) DO UPDATE SET
			is_open = EXCLUDED.is_open,
			open_time = EXCLUDED.open_time,
			last_start_time = EXCLUDED.last_start_time,
			slot_minutes = EXCLUDED.slot_minutes,
			updated_at = NOW()
		RETURNING id, created_at, updated_at`).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&s.ID, &createdAt, &updatedAt); err != nil {
		if pgerr.IsForeignKeyViolation(err) {
			return nil, ErrStaffNotFound
		}
		return nil, fmt.Errorf("%w: Upsert - execute insert: %v", ErrExecQuery, err)
	}

	s.CreatedAt = createdAt.Time
	s.UpdatedAt = updatedAt.Time

	return s, nil
}

// Delete удаляет переопределение, после чего день берется из расписания салона
func (r *Repository) Delete(ctx context.Context, staffID int64, weekday time.Weekday) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(table).
		Where(squirrel.Eq{"staff_id": staffID, "weekday": int(weekday)}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrScheduleNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSchedule(row rowScanner) (*domain.StaffSchedule, error) {
	var s domain.StaffSchedule
	var weekday int
	var slotMinutes sql.NullInt64
	var createdAt, updatedAt sql.NullTime

	if err := row.Scan(
		&s.ID,
		&s.StaffID,
		&weekday,
		&s.IsOpen,
		&s.Window.Open,
		&s.Window.LastStart,
		&slotMinutes,
		&createdAt,
		&updatedAt,
	); err != nil {
		return nil, err
	}

	s.Weekday = time.Weekday(weekday)
	s.Window.SlotMinutes = int(slotMinutes.Int64)
	s.CreatedAt = createdAt.Time
	s.UpdatedAt = updatedAt.Time

	return &s, nil
}
