package service

import (
	"context"
	"encoding/json"
	"errors"
	"maps"
	"sync"
	"time"

	"github.com/noah-isme/dept-routine-api/internal/dto"
	"github.com/noah-isme/dept-routine-api/pkg/cache"
	appErrors "github.com/noah-isme/dept-routine-api/pkg/errors"
)

const defaultPreviewTTL = 30 * time.Minute

// RoutinePreviewStore keeps unsaved previews until they are committed, discarded or expire.
// Every Save restarts the preview's TTL. Update applies fn to the current preview and stores
// the result atomically; when fn fails nothing is written and its error is returned.
type RoutinePreviewStore interface {
	Save(ctx context.Context, preview dto.RoutinePreview) error
	Get(ctx context.Context, id string) (*dto.RoutinePreview, error)
	Update(ctx context.Context, id string, fn func(*dto.RoutinePreview) error) (*dto.RoutinePreview, error)
	Delete(ctx context.Context, id string) error
}

type storedPreview struct {
	preview dto.RoutinePreview
	savedAt time.Time
}

// memoryPreviewStore holds previews in process memory.
type memoryPreviewStore struct {
	ttl   time.Duration
	now   func() time.Time
	mu    sync.RWMutex
	items map[string]storedPreview
}

// NewMemoryPreviewStore builds an in-process preview store.
func NewMemoryPreviewStore(ttl time.Duration) RoutinePreviewStore {
	return newMemoryPreviewStore(ttl, time.Now)
}

func newMemoryPreviewStore(ttl time.Duration, now func() time.Time) *memoryPreviewStore {
	if ttl <= 0 {
		ttl = defaultPreviewTTL
	}
	return &memoryPreviewStore{
		ttl:   ttl,
		now:   now,
		items: make(map[string]storedPreview),
	}
}

func (s *memoryPreviewStore) Save(_ context.Context, preview dto.RoutinePreview) error {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, item := range s.items {
		if now.Sub(item.savedAt) > s.ttl {
			delete(s.items, id)
		}
	}
	s.items[preview.PreviewID] = storedPreview{preview: copyPreview(preview), savedAt: now}
	return nil
}

func (s *memoryPreviewStore) Get(ctx context.Context, id string) (*dto.RoutinePreview, error) {
	s.mu.RLock()
	item, ok := s.items[id]
	s.mu.RUnlock()
	if !ok {
		return nil, appErrors.ErrPreviewExpired
	}
	if s.now().Sub(item.savedAt) > s.ttl {
		_ = s.Delete(ctx, id)
		return nil, appErrors.ErrPreviewExpired
	}
	preview := copyPreview(item.preview)
	return &preview, nil
}

func (s *memoryPreviewStore) Update(_ context.Context, id string, fn func(*dto.RoutinePreview) error) (*dto.RoutinePreview, error) {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[id]
	if !ok {
		return nil, appErrors.ErrPreviewExpired
	}
	if now.Sub(item.savedAt) > s.ttl {
		delete(s.items, id)
		return nil, appErrors.ErrPreviewExpired
	}
	preview := copyPreview(item.preview)
	if err := fn(&preview); err != nil {
		return nil, err
	}
	preview.PreviewID = id
	s.items[id] = storedPreview{preview: copyPreview(preview), savedAt: now}
	return &preview, nil
}

func (s *memoryPreviewStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	delete(s.items, id)
	s.mu.Unlock()
	return nil
}

// copyPreview detaches the entry slices and the day load map from the source.
func copyPreview(preview dto.RoutinePreview) dto.RoutinePreview {
	out := preview
	if preview.Routine != nil {
		out.Routine = append([]dto.RoutineEntry(nil), preview.Routine...)
	}
	if preview.Unassigned != nil {
		out.Unassigned = append([]dto.RoutineEntry(nil), preview.Unassigned...)
	}
	if preview.Stats.DayLoad != nil {
		out.Stats.DayLoad = maps.Clone(preview.Stats.DayLoad)
	}
	return out
}

type previewCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Update(ctx context.Context, key string, ttl time.Duration, mutate func(current []byte) (interface{}, error)) error
	Delete(ctx context.Context, key string) error
}

// redisPreviewStore shares previews between API replicas through Redis.
type redisPreviewStore struct {
	cache previewCache
	ttl   time.Duration
}

// NewRedisPreviewStore builds a preview store backed by the cache repository.
func NewRedisPreviewStore(cache previewCache, ttl time.Duration) RoutinePreviewStore {
	if ttl <= 0 {
		ttl = defaultPreviewTTL
	}
	return &redisPreviewStore{cache: cache, ttl: ttl}
}

func previewKey(id string) string {
	return cache.Key("routine", "preview", id)
}

func (s *redisPreviewStore) Save(ctx context.Context, preview dto.RoutinePreview) error {
	return s.cache.Set(ctx, previewKey(preview.PreviewID), preview, s.ttl)
}

func (s *redisPreviewStore) Get(ctx context.Context, id string) (*dto.RoutinePreview, error) {
	var preview dto.RoutinePreview
	if err := s.cache.Get(ctx, previewKey(id), &preview); err != nil {
		if errors.Is(err, appErrors.ErrCacheMiss) {
			return nil, appErrors.ErrPreviewExpired
		}
		return nil, err
	}
	return &preview, nil
}

func (s *redisPreviewStore) Update(ctx context.Context, id string, fn func(*dto.RoutinePreview) error) (*dto.RoutinePreview, error) {
	var updated dto.RoutinePreview
	err := s.cache.Update(ctx, previewKey(id), s.ttl, func(current []byte) (interface{}, error) {
		var preview dto.RoutinePreview
		if err := json.Unmarshal(current, &preview); err != nil {
			return nil, err
		}
		if err := fn(&preview); err != nil {
			return nil, err
		}
		preview.PreviewID = id
		updated = preview
		return preview, nil
	})
	if err != nil {
		if errors.Is(err, appErrors.ErrCacheMiss) {
			return nil, appErrors.ErrPreviewExpired
		}
		return nil, err
	}
	return &updated, nil
}

func (s *redisPreviewStore) Delete(ctx context.Context, id string) error {
	return s.cache.Delete(ctx, previewKey(id))
}
