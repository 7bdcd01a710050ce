package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/dept-routine-api/internal/dto"
	"github.com/noah-isme/dept-routine-api/internal/models"
	appErrors "github.com/noah-isme/dept-routine-api/pkg/errors"
)

func TestMemoryPreviewStoreExpires(t *testing.T) {
	now := time.Date(2025, 1, 5, 8, 0, 0, 0, time.UTC)
	store := newMemoryPreviewStore(10*time.Minute, func() time.Time { return now })
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, dto.RoutinePreview{PreviewID: "p1", DepartmentID: 3}))

	got, err := store.Get(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), got.DepartmentID)

	now = now.Add(11 * time.Minute)
	_, err = store.Get(ctx, "p1")
	assert.ErrorIs(t, err, appErrors.ErrPreviewExpired)
	assert.Empty(t, store.items)
}

func TestMemoryPreviewStoreSaveRefreshesTTLAndPrunes(t *testing.T) {
	now := time.Date(2025, 1, 5, 8, 0, 0, 0, time.UTC)
	store := newMemoryPreviewStore(10*time.Minute, func() time.Time { return now })
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, dto.RoutinePreview{PreviewID: "old"}))
	require.NoError(t, store.Save(ctx, dto.RoutinePreview{PreviewID: "kept"}))

	now = now.Add(8 * time.Minute)
	require.NoError(t, store.Save(ctx, dto.RoutinePreview{PreviewID: "kept"}))

	now = now.Add(8 * time.Minute)
	require.NoError(t, store.Save(ctx, dto.RoutinePreview{PreviewID: "new"}))

	assert.NotContains(t, store.items, "old")
	_, err := store.Get(ctx, "kept")
	assert.NoError(t, err)
}

func TestMemoryPreviewStoreDelete(t *testing.T) {
	store := NewMemoryPreviewStore(0)
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, dto.RoutinePreview{PreviewID: "p1"}))
	require.NoError(t, store.Delete(ctx, "p1"))

	_, err := store.Get(ctx, "p1")
	assert.ErrorIs(t, err, appErrors.ErrPreviewExpired)
}

func TestMemoryPreviewStoreReturnsDetachedCopies(t *testing.T) {
	store := NewMemoryPreviewStore(time.Minute)
	ctx := context.Background()
	seeded := dto.RoutinePreview{
		PreviewID:  "p1",
		Routine:    []dto.RoutineEntry{entryAt(models.Sunday, 8, 100, 1, 20)},
		Unassigned: []dto.RoutineEntry{{DepartmentID: 1, Note: "Could not assign all required classes (2/3)."}},
		Stats:      dto.RoutineStats{DayLoad: map[models.DayOfWeek]int{models.Sunday: 1}},
	}
	require.NoError(t, store.Save(ctx, seeded))
	seeded.Routine[0].Note = "changed after save"

	got, err := store.Get(ctx, "p1")
	require.NoError(t, err)
	assert.Empty(t, got.Routine[0].Note)

	tuesday := models.Tuesday
	got.Routine[0].DayOfWeek = &tuesday
	got.Unassigned[0].Note = "edited"
	got.Stats.DayLoad[models.Sunday] = 9

	again, err := store.Get(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, models.Sunday, *again.Routine[0].DayOfWeek)
	assert.Equal(t, "Could not assign all required classes (2/3).", again.Unassigned[0].Note)
	assert.Equal(t, 1, again.Stats.DayLoad[models.Sunday])
}

func TestMemoryPreviewStoreUpdate(t *testing.T) {
	now := time.Date(2025, 1, 5, 8, 0, 0, 0, time.UTC)
	store := newMemoryPreviewStore(10*time.Minute, func() time.Time { return now })
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, dto.RoutinePreview{PreviewID: "p1", DepartmentID: 3}))

	now = now.Add(8 * time.Minute)
	updated, err := store.Update(ctx, "p1", func(p *dto.RoutinePreview) error {
		p.Routine = append(p.Routine, entryAt(models.Sunday, 8, 100, 1, 20))
		return nil
	})
	require.NoError(t, err)
	assert.Len(t, updated.Routine, 1)

	rejected := errors.New("rejected")
	_, err = store.Update(ctx, "p1", func(p *dto.RoutinePreview) error {
		p.Routine = nil
		return rejected
	})
	assert.ErrorIs(t, err, rejected)

	now = now.Add(8 * time.Minute)
	got, err := store.Get(ctx, "p1")
	require.NoError(t, err, "update restarts the TTL")
	assert.Len(t, got.Routine, 1, "a failed update writes nothing")

	_, err = store.Update(ctx, "missing", func(*dto.RoutinePreview) error { return nil })
	assert.ErrorIs(t, err, appErrors.ErrPreviewExpired)

	now = now.Add(11 * time.Minute)
	_, err = store.Update(ctx, "p1", func(*dto.RoutinePreview) error {
		t.Fatal("expired previews must not be updated")
		return nil
	})
	assert.ErrorIs(t, err, appErrors.ErrPreviewExpired)
	assert.Empty(t, store.items)
}

type previewCacheStub struct {
	values map[string]dto.RoutinePreview
	ttls   map[string]time.Duration
	getErr error
}

func newPreviewCacheStub() *previewCacheStub {
	return &previewCacheStub{values: map[string]dto.RoutinePreview{}, ttls: map[string]time.Duration{}}
}

func (s *previewCacheStub) Get(_ context.Context, key string, dest interface{}) error {
	if s.getErr != nil {
		return s.getErr
	}
	value, ok := s.values[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	*(dest.(*dto.RoutinePreview)) = value
	return nil
}

func (s *previewCacheStub) Set(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	s.values[key] = value.(dto.RoutinePreview)
	s.ttls[key] = ttl
	return nil
}

func (s *previewCacheStub) Update(_ context.Context, key string, ttl time.Duration, mutate func([]byte) (interface{}, error)) error {
	current, ok := s.values[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	raw, err := json.Marshal(current)
	if err != nil {
		return err
	}
	value, err := mutate(raw)
	if err != nil {
		return err
	}
	s.values[key] = value.(dto.RoutinePreview)
	s.ttls[key] = ttl
	return nil
}

func (s *previewCacheStub) Delete(_ context.Context, key string) error {
	delete(s.values, key)
	return nil
}

func TestRedisPreviewStore(t *testing.T) {
	cache := newPreviewCacheStub()
	store := NewRedisPreviewStore(cache, 15*time.Minute)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, dto.RoutinePreview{PreviewID: "p1", DepartmentID: 4}))
	assert.Equal(t, 15*time.Minute, cache.ttls["dept-routine:routine:preview:p1"])

	got, err := store.Get(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(4), got.DepartmentID)

	require.NoError(t, store.Delete(ctx, "p1"))
	_, err = store.Get(ctx, "p1")
	assert.ErrorIs(t, err, appErrors.ErrPreviewExpired)

	cache.getErr = errors.New("redis down")
	_, err = store.Get(ctx, "p1")
	assert.EqualError(t, err, "redis down")
}

func TestRedisPreviewStoreUpdate(t *testing.T) {
	cache := newPreviewCacheStub()
	store := NewRedisPreviewStore(cache, 15*time.Minute)
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, dto.RoutinePreview{PreviewID: "p1", DepartmentID: 4}))

	updated, err := store.Update(ctx, "p1", func(p *dto.RoutinePreview) error {
		p.Routine = []dto.RoutineEntry{entryAt(models.Sunday, 8, 100, 1, 20)}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, int64(4), updated.DepartmentID)
	assert.Len(t, cache.values["dept-routine:routine:preview:p1"].Routine, 1)

	_, err = store.Update(ctx, "p1", func(*dto.RoutinePreview) error { return appErrors.ErrMoveConflict })
	assert.ErrorIs(t, err, appErrors.ErrMoveConflict)
	assert.Len(t, cache.values["dept-routine:routine:preview:p1"].Routine, 1)

	_, err = store.Update(ctx, "gone", func(*dto.RoutinePreview) error { return nil })
	assert.ErrorIs(t, err, appErrors.ErrPreviewExpired)
}
