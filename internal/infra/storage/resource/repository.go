package resource

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
	"github.com/inksync/studio-booking/pkg/types"
)

var columns = []string{
	"id",
	"user_id",
	"name",
	"specialty",
	"bio",
	"is_available",
	"calendar_id",
	"created_at",
	"updated_at",
}

// Repository репозиторий ресурсов (мастеров) и их рабочих часов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория ресурсов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает ресурс вместе с недельным шаблоном рабочих часов.
// Вызывать внутри транзакции, чтобы ресурс и часы сохранились атомарно.
func (r *Repository) Create(ctx context.Context, res *domain.Resource) (*domain.Resource, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("resources").
		Columns("user_id", "name", "specialty", "bio", "is_available", "calendar_id").
		Values(res.UserID, res.Name, res.Specialty, res.Bio, res.IsAvailable, res.CalendarID).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %w", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&res.ID, &res.CreatedAt, &res.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	if err := r.SetWorkingHours(ctx, res.ID, res.WorkingHours); err != nil {
		return nil, err
	}

	return res, nil
}

// GetByID получает ресурс по ID вместе с рабочими часами
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Resource, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From("resources").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %w", ErrBuildQuery, err)
	}

	var res domain.Resource
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&res.ID,
		&res.UserID,
		&res.Name,
		&res.Specialty,
		&res.Bio,
		&res.IsAvailable,
		&res.CalendarID,
		&res.CreatedAt,
		&res.UpdatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrResourceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan resource: %w", ErrScanRow, err)
	}

	hours, err := r.loadWorkingHours(ctx, []int64{id})
	if err != nil {
		return nil, err
	}
	res.WorkingHours = hours[id]

	return &res, nil
}

// List получает ресурсы, отсортированные по имени.
// onlyAvailable оставляет только ресурсы, принимающие записи.
func (r *Repository) List(ctx context.Context, onlyAvailable bool) ([]*domain.Resource, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From("resources").
		OrderBy("name ASC", "id ASC")

	if onlyAvailable {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"is_available": true})
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

	resources := make([]*domain.Resource, 0)
	ids := make([]int64, 0)
	for rows.Next() {
		var res domain.Resource
		if err := rows.Scan(
			&res.ID,
			&res.UserID,
			&res.Name,
			&res.Specialty,
			&res.Bio,
			&res.IsAvailable,
			&res.CalendarID,
			&res.CreatedAt,
			&res.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("%w: List - scan row: %w", ErrScanRow, err)
		}
		resources = append(resources, &res)
		ids = append(ids, res.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %w", ErrScanRow, err)
	}

	if len(ids) == 0 {
		return resources, nil
	}

	hours, err := r.loadWorkingHours(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, res := range resources {
		res.WorkingHours = hours[res.ID]
	}

	return resources, nil
}

// Update обновляет профиль ресурса (без рабочих часов)
func (r *Repository) Update(ctx context.Context, res *domain.Resource) (*domain.Resource, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("resources").
		Set("name", res.Name).
		Set("specialty", res.Specialty).
		Set("bio", res.Bio).
		Set("is_available", res.IsAvailable).
		Set("calendar_id", res.CalendarID).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": res.ID}).
		Suffix("RETURNING created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Update - build update query: %w", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&res.CreatedAt, &res.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrResourceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Update - execute update: %w", ErrExecQuery, err)
	}

	return res, nil
}

// SetWorkingHours перезаписывает недельный шаблон рабочих часов (upsert по дню недели)
func (r *Repository) SetWorkingHours(ctx context.Context, resourceID int64, hours domain.WorkingHours) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	insertBuilder := psqlbuilder.Insert("resource_working_hours").
		Columns("resource_id", "weekday", "is_open", "open_time", "close_time")

	for _, day := range domain.Weekdays {
		schedule := hours.ForDay(day)
		var openTime, closeTime types.TimeString
		if schedule.IsOpen {
			openTime, closeTime = schedule.OpenTime, schedule.CloseTime
		}
		insertBuilder = insertBuilder.Values(resourceID, int(day), schedule.IsOpen, openTime, closeTime)
	}

	query, args, err := insertBuilder.
		Suffix("ON CONFLICT (resource_id, weekday) DO UPDATE SET " +
			"is_open = EXCLUDED.is_open, open_time = EXCLUDED.open_time, close_time = EXCLUDED.close_time").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: SetWorkingHours - build upsert query: %w", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: SetWorkingHours - execute upsert: %w", ErrExecQuery, err)
	}

	return nil
}

func (r *Repository) loadWorkingHours(ctx context.Context, resourceIDs []int64) (map[int64]domain.WorkingHours, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("resource_id", "weekday", "is_open", "open_time", "close_time").
		From("resource_working_hours").
		Where(squirrel.Eq{"resource_id": resourceIDs}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: loadWorkingHours - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: loadWorkingHours - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make(map[int64]domain.WorkingHours, len(resourceIDs))
	for rows.Next() {
		var (
			resourceID int64
			weekday    int
			schedule   domain.DaySchedule
		)
		if err := rows.Scan(&resourceID, &weekday, &schedule.IsOpen, &schedule.OpenTime, &schedule.CloseTime); err != nil {
			return nil, fmt.Errorf("%w: loadWorkingHours - scan row: %w", ErrScanRow, err)
		}
		hours := result[resourceID]
		hours.Set(time.Weekday(weekday), schedule)
		result[resourceID] = hours
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: loadWorkingHours - rows error: %w", ErrScanRow, err)
	}

	return result, nil
}
