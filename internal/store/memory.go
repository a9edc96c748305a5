package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"papuanews/internal/types"
)

// MemoryStore keeps articles in process memory. It backs tests and the
// memory driver for local experiments; nothing survives a restart.
type MemoryStore struct {
	mu     sync.RWMutex
	byURL  map[string]*StoredArticle
	nextID uint
}

// NewMemory creates an empty in-memory store.
func NewMemory() *MemoryStore {
	return &MemoryStore{byURL: make(map[string]*StoredArticle)}
}

func (s *MemoryStore) Name() string { return "memory" }

func (s *MemoryStore) FindBySourceURL(_ context.Context, url string) (*StoredArticle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	row, ok := s.byURL[url]
	if !ok {
		return nil, types.ErrNotFound
	}
	cp := *row
	return &cp, nil
}

func (s *MemoryStore) FindByID(_ context.Context, id uint) (*StoredArticle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, row := range s.byURL {
		if row.ID == id {
			cp := *row
			return &cp, nil
		}
	}
	return nil, types.ErrNotFound
}

func (s *MemoryStore) Insert(_ context.Context, a *StoredArticle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byURL[a.SourceURL]; exists {
		return &types.StoreError{Op: "insert", Err: types.ErrDuplicate}
	}
	s.nextID++
	a.ID = s.nextID
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	cp := *a
	s.byURL[a.SourceURL] = &cp
	return nil
}

func (s *MemoryStore) UpdateFields(_ context.Context, url string, fields map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.byURL[url]
	if !ok {
		return types.ErrNotFound
	}
	for k, v := range fields {
		switch k {
		case "title":
			row.Title, _ = v.(string)
		case "summary":
			row.Summary, _ = v.(string)
		case "content":
			row.Content, _ = v.(string)
		case "image_url":
			row.ImageURL, _ = v.(string)
		case "source_name":
			row.SourceName, _ = v.(string)
		case "category":
			row.Category, _ = v.(string)
		case "region":
			row.Region, _ = v.(string)
		case "published_at":
			if t, ok := v.(*time.Time); ok {
				row.Published = t
			}
		}
	}
	return nil
}

func (s *MemoryStore) List(_ context.Context, filter ListFilter) ([]StoredArticle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := make([]StoredArticle, 0, len(s.byURL))
	for _, row := range s.byURL {
		if s.match(row, filter) {
			rows = append(rows, *row)
		}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		ti, tj := rows[i].Published, rows[j].Published
		switch {
		case ti == nil && tj == nil:
			return rows[i].ID > rows[j].ID
		case ti == nil:
			return false
		case tj == nil:
			return true
		case !ti.Equal(*tj):
			return ti.After(*tj)
		default:
			return rows[i].ID > rows[j].ID
		}
	})

	if filter.Offset > 0 {
		if filter.Offset >= len(rows) {
			return nil, nil
		}
		rows = rows[filter.Offset:]
	}
	if filter.Limit > 0 && len(rows) > filter.Limit {
		rows = rows[:filter.Limit]
	}
	return rows, nil
}

func (s *MemoryStore) Count(_ context.Context, filter ListFilter) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var n int64
	for _, row := range s.byURL {
		if s.match(row, filter) {
			n++
		}
	}
	return n, nil
}

func (s *MemoryStore) match(row *StoredArticle, filter ListFilter) bool {
	if filter.Region != "" && row.Region != filter.Region {
		return false
	}
	if filter.Category != "" && row.Category != filter.Category {
		return false
	}
	return true
}

func (s *MemoryStore) Close() error { return nil }
