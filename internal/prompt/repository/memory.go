package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/zerpitt/prompt-keeper-project/internal/prompt"
)

// MemoryRepo is an in-memory repository used for local runs and unit tests.
// Stored values are copied on the way in and out so callers never share state.
// Lists are ordered by createdAt, then id.
type MemoryRepo struct {
	mu         sync.RWMutex
	prompts    map[string]map[string]*prompt.Prompt
	categories map[string]map[string]*prompt.Category
	now        func() time.Time
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		prompts:    make(map[string]map[string]*prompt.Prompt),
		categories: make(map[string]map[string]*prompt.Category),
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// WithClock replaces the server time source.
func (m *MemoryRepo) WithClock(now func() time.Time) *MemoryRepo {
	m.now = now
	return m
}

func (m *MemoryRepo) userPrompts(userID string) map[string]*prompt.Prompt {
	ps, ok := m.prompts[userID]
	if !ok {
		ps = make(map[string]*prompt.Prompt)
		m.prompts[userID] = ps
	}
	return ps
}

func (m *MemoryRepo) userCategories(userID string) map[string]*prompt.Category {
	cs, ok := m.categories[userID]
	if !ok {
		cs = make(map[string]*prompt.Category)
		m.categories[userID] = cs
	}
	return cs
}

func (m *MemoryRepo) ListPrompts(ctx context.Context, userID string) ([]*prompt.Prompt, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*prompt.Prompt, 0, len(m.prompts[userID]))
	for _, p := range m.prompts[userID] {
		out = append(out, clonePrompt(p))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *MemoryRepo) GetPrompt(ctx context.Context, userID, id string) (*prompt.Prompt, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if p, ok := m.prompts[userID][id]; ok {
		return clonePrompt(p), nil
	}
	return nil, ErrNotFound
}

func (m *MemoryRepo) CreatePrompt(ctx context.Context, userID string, p *prompt.Prompt) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := clonePrompt(p)
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}
	stored.UserID = userID
	now := m.now()
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = now
	}
	stored.UpdatedAt = now
	m.userPrompts(userID)[stored.ID] = stored
	return stored.ID, nil
}

func (m *MemoryRepo) UpdatePrompt(ctx context.Context, userID, id string, p *prompt.Prompt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.prompts[userID][id]
	if !ok {
		return ErrNotFound
	}
	next := clonePrompt(p)
	next.ID = id
	next.UserID = userID
	next.IsFavorite = cur.IsFavorite
	next.CreatedAt = cur.CreatedAt
	next.VideoPrompt = cur.VideoPrompt
	next.UpdatedAt = m.now()
	m.prompts[userID][id] = next
	return nil
}

func (m *MemoryRepo) SetFavorite(ctx context.Context, userID, id string, favorite bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.prompts[userID][id]
	if !ok {
		return ErrNotFound
	}
	cur.IsFavorite = favorite
	return nil
}

func (m *MemoryRepo) DeletePrompt(ctx context.Context, userID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.prompts[userID][id]; !ok {
		return ErrNotFound
	}
	delete(m.prompts[userID], id)
	return nil
}

func (m *MemoryRepo) ListCategories(ctx context.Context, userID string) ([]*prompt.Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*prompt.Category, 0, len(m.categories[userID]))
	for _, c := range m.categories[userID] {
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *MemoryRepo) CreateCategory(ctx context.Context, userID string, c *prompt.Category) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := *c
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}
	stored.UserID = userID
	stored.CreatedAt = m.now()
	m.userCategories(userID)[stored.ID] = &stored
	return stored.ID, nil
}

func (m *MemoryRepo) DeleteCategory(ctx context.Context, userID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.deleteCategoryLocked(userID, id)
}

func (m *MemoryRepo) deleteCategoryLocked(userID, id string) error {
	if _, ok := m.categories[userID][id]; !ok {
		return ErrNotFound
	}
	delete(m.categories[userID], id)
	return nil
}

func (m *MemoryRepo) ReassignPromptsCategory(ctx context.Context, userID, fromID, toID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reassignLocked(userID, fromID, toID), nil
}

func (m *MemoryRepo) reassignLocked(userID, fromID, toID string) int {
	n := 0
	for _, p := range m.prompts[userID] {
		if p.Category == fromID {
			p.Category = toID
			n++
		}
	}
	return n
}

// RemoveCategory reassigns and deletes under one lock, so readers never see
// a half-applied removal.
func (m *MemoryRepo) RemoveCategory(ctx context.Context, userID, id, fallbackID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.categories[userID][id]; !ok {
		return 0, ErrNotFound
	}
	n := m.reassignLocked(userID, id, fallbackID)
	return n, m.deleteCategoryLocked(userID, id)
}

func clonePrompt(p *prompt.Prompt) *prompt.Prompt {
	cp := *p
	cp.Tags = append([]string(nil), p.Tags...)
	cp.Variables = append([]string(nil), p.Variables...)
	cp.Workflow = append([]prompt.Block(nil), p.Workflow...)
	cp.History = make([]prompt.Version, len(p.History))
	for i, v := range p.History {
		v.Workflow = append([]prompt.Block(nil), v.Workflow...)
		cp.History[i] = v
	}
	return &cp
}
