package waitlist

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/inksync/studio-booking/internal/domain"
	"github.com/inksync/studio-booking/pkg/dbmetrics"
	"github.com/inksync/studio-booking/pkg/psqlbuilder"
)

var columns = []string{
	"id",
	"customer_id",
	"resource_id",
	"style",
	"size",
	"preferred_dates",
	"budget",
	"description",
	"is_active",
	"promoted_booking_id",
	"deactivated_at",
	"created_at",
	"updated_at",
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// Repository репозиторий листа ожидания
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория листа ожидания
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает заявку
func (r *Repository) Create(ctx context.Context, e *domain.WaitlistEntry) (*domain.WaitlistEntry, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("waitlist_entries").
		Columns("customer_id", "resource_id", "style", "size", "preferred_dates", "budget", "description", "is_active").
		Values(e.CustomerID, e.ResourceID, e.Style, e.Size, e.PreferredDates, e.Budget, e.Description, e.IsActive).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %w", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	return e, nil
}

// GetByID получает заявку по ID (внутри транзакции с FOR UPDATE)
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.WaitlistEntry, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From("waitlist_entries").
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %w", ErrBuildQuery, err)
	}

	e, err := scanEntry(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrEntryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan entry: %w", ErrScanRow, err)
	}

	return e, nil
}

// List получает заявки по фильтру в порядке создания (старые первыми)
func (r *Repository) List(ctx context.Context, filter domain.WaitlistFilter) ([]*domain.WaitlistEntry, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From("waitlist_entries").
		OrderBy("created_at ASC", "id ASC")

	if !filter.IncludeInactive {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"is_active": true})
	}
	if filter.CustomerID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"customer_id": *filter.CustomerID})
	}
	if filter.ResourceID != nil {
		if filter.IncludeAnyResource {
			selectBuilder = selectBuilder.Where(squirrel.Or{
				squirrel.Eq{"resource_id": nil},
				squirrel.Eq{"resource_id": *filter.ResourceID},
			})
		} else {
			selectBuilder = selectBuilder.Where(squirrel.Eq{"resource_id": *filter.ResourceID})
		}
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	entries := make([]*domain.WaitlistEntry, 0)
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan row: %w", ErrScanRow, err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %w", ErrScanRow, err)
	}

	return entries, nil
}

// Update сохраняет изменяемые поля активной заявки
func (r *Repository) Update(ctx context.Context, e *domain.WaitlistEntry) (*domain.WaitlistEntry, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("waitlist_entries").
		Set("resource_id", e.ResourceID).
		Set("style", e.Style).
		Set("size", e.Size).
		Set("preferred_dates", e.PreferredDates).
		Set("budget", e.Budget).
		Set("description", e.Description).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": e.ID, "is_active": true}).
		Suffix("RETURNING created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Update - build update query: %w", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&e.CreatedAt, &e.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, r.missingReason(ctx, e.ID)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Update - execute update: %w", ErrExecQuery, err)
	}

	return e, nil
}

// Deactivate мягко деактивирует заявку.
// promotedBookingID задается, когда заявка превратилась в бронирование.
func (r *Repository) Deactivate(ctx context.Context, id int64, at time.Time, promotedBookingID *int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("waitlist_entries").
		Set("is_active", false).
		Set("deactivated_at", at).
		Set("promoted_booking_id", promotedBookingID).
		Set("updated_at", at).
		Where(squirrel.Eq{"id": id, "is_active": true}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Deactivate - build update query: %w", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Deactivate - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Deactivate - get rows affected: %w", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return r.missingReason(ctx, id)
	}

	return nil
}

// missingReason различает "нет заявки" и "заявка неактивна"
func (r *Repository) missingReason(ctx context.Context, id int64) error {
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	return ErrEntryInactive
}

func scanEntry(row rowScanner) (*domain.WaitlistEntry, error) {
	var e domain.WaitlistEntry
	if err := row.Scan(
		&e.ID,
		&e.CustomerID,
		&e.ResourceID,
		&e.Style,
		&e.Size,
		&e.PreferredDates,
		&e.Budget,
		&e.Description,
		&e.IsActive,
		&e.PromotedBookingID,
		&e.DeactivatedAt,
		&e.CreatedAt,
		&e.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &e, nil
}
