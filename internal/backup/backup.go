package backup

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/zerpitt/prompt-keeper-project/internal/prompt"
	"github.com/zerpitt/prompt-keeper-project/internal/prompt/notify"
	"github.com/zerpitt/prompt-keeper-project/internal/prompt/repository"
	"github.com/zerpitt/prompt-keeper-project/pkg/logger"
)

// FormatVersion is written into every archive.
const FormatVersion = 1

// ObjectStore is the blob storage the archives live in.
type ObjectStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Get(ctx context.Context, key string) ([]byte, error)
	List(ctx context.Context, prefix string) ([]string, error)
}

// Presigner is implemented by stores that can hand out temporary download links.
type Presigner interface {
	PresignedURL(ctx context.Context, key string, expires time.Duration) (string, error)
}

// DownloadTTL is how long an export download link stays valid.
const DownloadTTL = 15 * time.Minute

// Archive is one user's collection at a point in time.
type Archive struct {
	Format     int                `json:"format"`
	UserID     string             `json:"userId"`
	ExportedAt time.Time          `json:"exportedAt"`
	Categories []*prompt.Category `json:"categories"`
	Prompts    []*prompt.Prompt   `json:"prompts"`
}

// Result counts what a restore created.
type Result struct {
	Categories int `json:"categories"`
	Prompts    int `json:"prompts"`
}

// Manager exports and restores archives through the prompt repository.
type Manager struct {
	repo     repository.Repository
	store    ObjectStore
	notifier notify.Notifier
	now      func() time.Time
	log      logger.Component
}

func NewManager(repo repository.Repository, store ObjectStore) *Manager {
	return &Manager{
		repo:     repo,
		store:    store,
		notifier: notify.Nop{},
		now:      func() time.Time { return time.Now().UTC() },
		log:      logger.With("backup"),
	}
}

// WithNotifier makes restores visible to live catalog watchers.
func (m *Manager) WithNotifier(n notify.Notifier) *Manager {
	m.notifier = n
	return m
}

// Prefix is where the archives of userID are kept.
func Prefix(userID string) string {
	return "backups/" + userID + "/"
}

// Export writes the user's categories and prompts, history included, and returns the object key.
func (m *Manager) Export(ctx context.Context, userID string) (string, error) {
	prompts, err := m.repo.ListPrompts(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("list prompts: %w", err)
	}
	cats, err := m.repo.ListCategories(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("list categories: %w", err)
	}
	a := Archive{Format: FormatVersion, UserID: userID, ExportedAt: m.now(), Categories: cats, Prompts: prompts}
	data, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode archive: %w", err)
	}
	key := Prefix(userID) + a.ExportedAt.Format("20060102T150405.000Z") + ".json"
	if err := m.store.Put(ctx, key, data, "application/json"); err != nil {
		return "", err
	}
	m.log.Infof("exported %d prompts and %d categories for %s to %s", len(prompts), len(cats), userID, key)
	return key, nil
}

// DownloadURL returns a temporary link to key, or "" when the store cannot presign.
func (m *Manager) DownloadURL(ctx context.Context, key string) (string, error) {
	ps, ok := m.store.(Presigner)
	if !ok {
		return "", nil
	}
	return ps.PresignedURL(ctx, key, DownloadTTL)
}

// Latest returns the newest archive key of userID, or "" when there is none.
func (m *Manager) Latest(ctx context.Context, userID string) (string, error) {
	keys, err := m.store.List(ctx, Prefix(userID))
	if err != nil {
		return "", err
	}
	if len(keys) == 0 {
		return "", nil
	}
	return keys[len(keys)-1], nil
}

// Restore imports the archive at key into userID's collection. Prompts are
// added as new records with their history kept. Categories are matched by
// name against the user's existing ones and created otherwise; prompt category
// references are rewritten to the resulting ids.
func (m *Manager) Restore(ctx context.Context, userID, key string) (Result, error) {
	var res Result
	data, err := m.store.Get(ctx, key)
	if err != nil {
		return res, err
	}
	var a Archive
	if err := json.Unmarshal(data, &a); err != nil {
		return res, fmt.Errorf("decode archive %s: %w", key, err)
	}
	if a.Format != FormatVersion {
		return res, fmt.Errorf("archive %s has unsupported format %d", key, a.Format)
	}

	existing, err := m.repo.ListCategories(ctx, userID)
	if err != nil {
		return res, fmt.Errorf("list categories: %w", err)
	}
	byName := make(map[string]string, len(existing))
	for _, c := range existing {
		byName[strings.ToLower(c.Name)] = c.ID
	}

	ids := make(map[string]string, len(a.Categories))
	for _, c := range a.Categories {
		if prompt.IsDefaultCategory(c.ID) {
			continue
		}
		if id, ok := byName[strings.ToLower(c.Name)]; ok {
			ids[c.ID] = id
			continue
		}
		nc := *c
		nc.ID = ""
		id, err := m.repo.CreateCategory(ctx, userID, &nc)
		if err != nil {
			return res, fmt.Errorf("create category %q: %w", c.Name, err)
		}
		ids[c.ID] = id
		byName[strings.ToLower(c.Name)] = id
		res.Categories++
	}

	for _, p := range a.Prompts {
		np := *p
		np.ID = ""
		if id, ok := ids[np.Category]; ok {
			np.Category = id
		}
		if np.History == nil {
			np.History = []prompt.Version{}
		}
		if _, err := m.repo.CreatePrompt(ctx, userID, &np); err != nil {
			return res, fmt.Errorf("create prompt %q: %w", p.Title, err)
		}
		res.Prompts++
	}
	if err := m.notifier.Publish(ctx, userID); err != nil {
		m.log.Warnf("publish change for %s: %v", userID, err)
	}
	m.log.Infof("restored %d prompts and %d categories for %s from %s", res.Prompts, res.Categories, userID, key)
	return res, nil
}
