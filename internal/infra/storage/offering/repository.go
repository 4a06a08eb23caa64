package offering

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/inksync/studio-booking/internal/domain"
	"github.com/inksync/studio-booking/internal/infra/storage/pgerrors"
	"github.com/inksync/studio-booking/pkg/dbmetrics"
	"github.com/inksync/studio-booking/pkg/psqlbuilder"
)

var columns = []string{
	"id",
	"resource_id",
	"name",
	"description",
	"duration_minutes",
	"price",
	"is_active",
	"created_at",
	"updated_at",
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// Repository репозиторий услуг
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория услуг
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает услугу
func (r *Repository) Create(ctx context.Context, o *domain.ServiceOffering) (*domain.ServiceOffering, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("service_offerings").
		Columns("resource_id", "name", "description", "duration_minutes", "price", "is_active").
		Values(o.ResourceID, o.Name, o.Description, o.DurationMinutes, o.Price, o.IsActive).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %w", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
	if pgerrors.IsForeignKeyViolation(err) {
		return nil, ErrResourceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	return o, nil
}

// GetByID получает услугу по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.ServiceOffering, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From("service_offerings").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %w", ErrBuildQuery, err)
	}

	o, err := scanOffering(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOfferingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan offering: %w", ErrScanRow, err)
	}

	return o, nil
}

// ListByResource получает услуги ресурса. includeInactive включает снятые с продажи.
func (r *Repository) ListByResource(ctx context.Context, resourceID int64, includeInactive bool) ([]*domain.ServiceOffering, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From("service_offerings").
		Where(squirrel.Eq{"resource_id": resourceID}).
		OrderBy("name ASC", "id ASC")

	if !includeInactive {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"is_active": true})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByResource - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByResource - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	offerings := make([]*domain.ServiceOffering, 0)
	for rows.Next() {
		o, err := scanOffering(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListByResource - scan row: %w", ErrScanRow, err)
		}
		offerings = append(offerings, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByResource - rows error: %w", ErrScanRow, err)
	}

	return offerings, nil
}

// Update обновляет услугу
func (r *Repository) Update(ctx context.Context, o *domain.ServiceOffering) (*domain.ServiceOffering, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("service_offerings").
		Set("name", o.Name).
		Set("description", o.Description).
		Set("duration_minutes", o.DurationMinutes).
		Set("price", o.Price).
		Set("is_active", o.IsActive).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": o.ID}).
		Suffix("RETURNING created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Update - build update query: %w", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOfferingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Update - execute update: %w", ErrExecQuery, err)
	}

	return o, nil
}

func scanOffering(row rowScanner) (*domain.ServiceOffering, error) {
	var o domain.ServiceOffering
	if err := row.Scan(
		&o.ID,
		&o.ResourceID,
		&o.Name,
		&o.Description,
		&o.DurationMinutes,
		&o.Price,
		&o.IsActive,
		&o.CreatedAt,
		&o.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &o, nil
}
