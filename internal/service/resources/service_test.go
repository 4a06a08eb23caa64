package resources_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inksync/studio-booking/internal/domain"
	"github.com/inksync/studio-booking/internal/infra/storage/memory"
	"github.com/inksync/studio-booking/internal/service/resources"
	"github.com/inksync/studio-booking/internal/service/resources/models"
	"github.com/inksync/studio-booking/pkg/ptr"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// effectsRecorder запоминает вызванные побочные эффекты
type effectsRecorder struct {
	changed []int64
	opened  []int64
}

func (e *effectsRecorder) ResourceChanged(_ context.Context, resourceID int64) {
	e.changed = append(e.changed, resourceID)
}

func (e *effectsRecorder) ResourceOpened(_ context.Context, res *domain.Resource) {
	e.opened = append(e.opened, res.ID)
}

func newService(t *testing.T) (*resources.Service, *effectsRecorder) {
	t.Helper()
	store := memory.NewStore()
	effects := &effectsRecorder{}
	svc := resources.NewService(
		memory.NewResourceRepository(store),
		memory.NewOfferingRepository(store),
		effects,
		memory.NewTxManager(store),
		nopLogger{},
	)
	return svc, effects
}

func TestCreate_DefaultsAndOwner(t *testing.T) {
	svc, _ := newService(t)

	res, err := svc.Create(context.Background(), &models.CreateResourceRequest{
		UserID:     10,
		Name:       "Ada",
		Specialty:  "fine line",
		CalendarID: ptr.Ptr(""),
	})
	require.NoError(t, err)

	assert.Equal(t, int64(10), res.UserID)
	assert.True(t, res.IsAvailable)
	assert.Nil(t, res.CalendarID, "empty calendar id is dropped")
	assert.Equal(t, models.DayScheduleDTO{IsOpen: true, OpenTime: "09:00", CloseTime: "18:00"}, res.WorkingHours.Monday)
	assert.False(t, res.WorkingHours.Sunday.IsOpen)
}

func TestCreate_Invalid(t *testing.T) {
	svc, _ := newService(t)

	tests := []struct {
		name string
		req  models.CreateResourceRequest
	}{
		{name: "blank name", req: models.CreateResourceRequest{UserID: 10, Name: "  "}},
		{name: "long name", req: models.CreateResourceRequest{UserID: 10, Name: strings.Repeat("a", domain.MaxResourceNameLength+1)}},
		{name: "close before open", req: models.CreateResourceRequest{UserID: 10, Name: "Ada", WorkingHours: &models.WorkingHoursDTO{
			Monday: models.DayScheduleDTO{IsOpen: true, OpenTime: "18:00", CloseTime: "09:00"},
		}}},
		{name: "bad time", req: models.CreateResourceRequest{UserID: 10, Name: "Ada", WorkingHours: &models.WorkingHoursDTO{
			Friday: models.DayScheduleDTO{IsOpen: true, OpenTime: "9am", CloseTime: "18:00"},
		}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), &tt.req)
			assert.ErrorIs(t, err, resources.ErrInvalidInput)
		})
	}
}

func TestUpdate_ReopeningTriggersPromotion(t *testing.T) {
	svc, effects := newService(t)
	ctx := context.Background()

	res, err := svc.Create(ctx, &models.CreateResourceRequest{UserID: 10, Name: "Ada", IsAvailable: ptr.Ptr(false)})
	require.NoError(t, err)

	_, err = svc.Update(ctx, res.ID, &models.UpdateResourceRequest{UserID: 20, IsAvailable: ptr.Ptr(true)})
	assert.ErrorIs(t, err, resources.ErrAccessDenied)
	assert.Empty(t, effects.opened)

	updated, err := svc.Update(ctx, res.ID, &models.UpdateResourceRequest{UserID: 10, IsAvailable: ptr.Ptr(true)})
	require.NoError(t, err)
	assert.True(t, updated.IsAvailable)
	assert.Equal(t, []int64{res.ID}, effects.opened)

	_, err = svc.Update(ctx, res.ID, &models.UpdateResourceRequest{UserID: 10, Bio: ptr.Ptr("twenty years of fine line")})
	require.NoError(t, err)
	assert.Equal(t, []int64{res.ID}, effects.changed)
	assert.Len(t, effects.opened, 1)

	_, err = svc.Update(ctx, res.ID, &models.UpdateResourceRequest{UserID: 10})
	assert.ErrorIs(t, err, resources.ErrInvalidInput)

	_, err = svc.Update(ctx, 999, &models.UpdateResourceRequest{UserID: 10, Name: ptr.Ptr("Bo")})
	assert.ErrorIs(t, err, resources.ErrResourceNotFound)
}

func TestSetWorkingHours(t *testing.T) {
	svc, effects := newService(t)
	ctx := context.Background()

	res, err := svc.Create(ctx, &models.CreateResourceRequest{UserID: 10, Name: "Ada"})
	require.NoError(t, err)

	hours := &models.WorkingHoursDTO{
		Saturday: models.DayScheduleDTO{IsOpen: true, OpenTime: "11:00", CloseTime: "16:00"},
	}

	_, err = svc.SetWorkingHours(ctx, res.ID, 20, hours)
	assert.ErrorIs(t, err, resources.ErrAccessDenied)

	updated, err := svc.SetWorkingHours(ctx, res.ID, 10, hours)
	require.NoError(t, err)
	assert.False(t, updated.WorkingHours.Monday.IsOpen)
	assert.Equal(t, "11:00", updated.WorkingHours.Saturday.OpenTime)
	assert.Equal(t, []int64{res.ID}, effects.changed)

	stored, err := svc.Get(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, updated.WorkingHours, stored.WorkingHours)
}

func TestOfferings(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	res, err := svc.Create(ctx, &models.CreateResourceRequest{UserID: 10, Name: "Ada"})
	require.NoError(t, err)

	_, err = svc.CreateOffering(ctx, res.ID, &models.CreateOfferingRequest{UserID: 10, Name: "Flash", DurationMinutes: 0})
	assert.ErrorIs(t, err, resources.ErrInvalidInput)
	_, err = svc.CreateOffering(ctx, res.ID, &models.CreateOfferingRequest{UserID: 10, Name: "Flash", DurationMinutes: 60, Price: ptr.Ptr(-1.0)})
	assert.ErrorIs(t, err, resources.ErrInvalidInput)
	_, err = svc.CreateOffering(ctx, res.ID, &models.CreateOfferingRequest{UserID: 20, Name: "Flash", DurationMinutes: 60})
	assert.ErrorIs(t, err, resources.ErrAccessDenied)
	_, err = svc.CreateOffering(ctx, 999, &models.CreateOfferingRequest{UserID: 10, Name: "Flash", DurationMinutes: 60})
	assert.ErrorIs(t, err, resources.ErrResourceNotFound)

	flash, err := svc.CreateOffering(ctx, res.ID, &models.CreateOfferingRequest{UserID: 10, Name: "Flash", DurationMinutes: 60, Price: ptr.Ptr(120.0)})
	require.NoError(t, err)
	assert.True(t, flash.IsActive)

	_, err = svc.CreateOffering(ctx, res.ID, &models.CreateOfferingRequest{UserID: 10, Name: "Sleeve", DurationMinutes: 360})
	require.NoError(t, err)

	updated, err := svc.UpdateOffering(ctx, flash.ID, &models.UpdateOfferingRequest{UserID: 10, IsActive: ptr.Ptr(false), ClearPrice: true})
	require.NoError(t, err)
	assert.False(t, updated.IsActive)
	assert.Nil(t, updated.Price)

	active, err := svc.ListOfferings(ctx, res.ID, false)
	require.NoError(t, err)
	require.Len(t, active.Offerings, 1)
	assert.Equal(t, "Sleeve", active.Offerings[0].Name)

	all, err := svc.ListOfferings(ctx, res.ID, true)
	require.NoError(t, err)
	assert.Len(t, all.Offerings, 2)

	_, err = svc.UpdateOffering(ctx, flash.ID, &models.UpdateOfferingRequest{UserID: 20, Name: ptr.Ptr("Big flash")})
	assert.ErrorIs(t, err, resources.ErrAccessDenied)
	_, err = svc.UpdateOffering(ctx, 999, &models.UpdateOfferingRequest{UserID: 10, Name: ptr.Ptr("Big flash")})
	assert.ErrorIs(t, err, resources.ErrOfferingNotFound)
}

func TestList_OnlyAvailable(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, &models.CreateResourceRequest{UserID: 10, Name: "Ada"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, &models.CreateResourceRequest{UserID: 20, Name: "Bo", IsAvailable: ptr.Ptr(false)})
	require.NoError(t, err)

	all, err := svc.List(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all.Resources, 2)

	open, err := svc.List(ctx, true)
	require.NoError(t, err)
	require.Len(t, open.Resources, 1)
	assert.Equal(t, "Ada", open.Resources[0].Name)

	assert.Len(t, svc.Styles().Styles, len(domain.StyleCatalog))
}
