package service

import (
	"context"
	"errors"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/zerpitt/prompt-keeper-project/internal/catalog"
	"github.com/zerpitt/prompt-keeper-project/internal/prompt"
	"github.com/zerpitt/prompt-keeper-project/internal/prompt/notify"
	"github.com/zerpitt/prompt-keeper-project/internal/prompt/repository"
	"github.com/zerpitt/prompt-keeper-project/pkg/apperrors"
	"github.com/zerpitt/prompt-keeper-project/pkg/logger"
	"github.com/zerpitt/prompt-keeper-project/pkg/metrics"
)

var log = logger.With("prompt-service")

// Service holds the prompt use cases used by the handler layer. Every write
// publishes a change signal so watchers re-derive their catalog.
type Service struct {
	repo     repository.Repository
	notifier notify.Notifier
	now      func() time.Time
	pick     func(n int) int
}

// New returns a Service. A nil notifier disables live updates.
func New(repo repository.Repository, notifier notify.Notifier) *Service {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &Service{
		repo:     repo,
		notifier: notifier,
		now:      func() time.Time { return time.Now().UTC() },
		pick:     rand.IntN,
	}
}

// WithClock replaces the time source used for history snapshots.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// WithPicker replaces the random source used to colour new categories.
func (s *Service) WithPicker(pick func(n int) int) *Service {
	s.pick = pick
	return s
}

// Save creates a prompt when editingID is empty and updates it otherwise.
// The form is validated before the repository is touched. An update snapshots
// the stored pre-edit state into history.
func (s *Service) Save(ctx context.Context, userID, editingID string, f prompt.Form) (*prompt.Prompt, error) {
	next, err := prompt.BuildSaveable(f)
	if err != nil {
		log.Debugf("rejected save for %s: %v", userID, err)
		metrics.PromptSaveFailures.WithLabelValues(string(apperrors.KindOf(err))).Inc()
		return nil, err
	}
	if editingID == "" {
		return s.create(ctx, userID, next)
	}
	return s.update(ctx, userID, editingID, next)
}

func (s *Service) create(ctx context.Context, userID string, p *prompt.Prompt) (*prompt.Prompt, error) {
	p.History = []prompt.Version{}
	p.IsFavorite = false
	id, err := s.repo.CreatePrompt(ctx, userID, p)
	if err != nil {
		return nil, s.saveFailed("create", err)
	}
	metrics.PromptSaves.WithLabelValues("create").Inc()
	s.publish(ctx, userID)

	stored, err := s.repo.GetPrompt(ctx, userID, id)
	if err != nil {
		log.Warnf("reload created prompt %s: %v", id, err)
		p.ID = id
		return p, nil
	}
	return stored, nil
}

func (s *Service) update(ctx context.Context, userID, id string, next *prompt.Prompt) (*prompt.Prompt, error) {
	prev, err := s.repo.GetPrompt(ctx, userID, id)
	if err != nil {
		return nil, s.saveFailed("update", err)
	}
	next.History = prompt.AppendSnapshot(prev.History, prompt.Snapshot(prev, s.now()))
	if err := s.repo.UpdatePrompt(ctx, userID, id, next); err != nil {
		return nil, s.saveFailed("update", err)
	}
	metrics.PromptSaves.WithLabelValues("update").Inc()
	metrics.HistoryVersions.Observe(float64(len(next.History)))
	s.publish(ctx, userID)

	stored, err := s.repo.GetPrompt(ctx, userID, id)
	if err != nil {
		log.Warnf("reload updated prompt %s: %v", id, err)
		next.ID = id
		return next, nil
	}
	return stored, nil
}

func (s *Service) saveFailed(op string, err error) error {
	wrapped := promptError("SAVE_FAILED", "save prompt", err)
	metrics.PromptSaveFailures.WithLabelValues(string(apperrors.KindOf(wrapped))).Inc()
	if apperrors.IsKind(wrapped, apperrors.KindPersistence) {
		log.Errorf("%s prompt: %v", op, err)
	}
	return wrapped
}

// Get returns one stored prompt.
func (s *Service) Get(ctx context.Context, userID, id string) (*prompt.Prompt, error) {
	p, err := s.repo.GetPrompt(ctx, userID, id)
	if err != nil {
		return nil, promptError("LOAD_FAILED", "load prompt", err)
	}
	return p, nil
}

// EditForm loads a stored prompt into the editor with legacy content migrated.
func (s *Service) EditForm(ctx context.Context, userID, id string) (prompt.Form, error) {
	p, err := s.Get(ctx, userID, id)
	if err != nil {
		return prompt.Form{}, err
	}
	return prompt.EditForm(p), nil
}

// Delete removes one prompt; its history goes with it.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	if err := s.repo.DeletePrompt(ctx, userID, id); err != nil {
		return s.logged("delete prompt", promptError("DELETE_FAILED", "delete prompt", err))
	}
	metrics.PromptDeletes.Inc()
	s.publish(ctx, userID)
	return nil
}

// ToggleFavorite flips the favourite flag of id and returns the new value.
func (s *Service) ToggleFavorite(ctx context.Context, userID, id string) (bool, error) {
	p, err := s.Get(ctx, userID, id)
	if err != nil {
		return false, err
	}
	fav := !p.IsFavorite
	if err := s.repo.SetFavorite(ctx, userID, id, fav); err != nil {
		return false, s.logged("set favorite", promptError("FAVORITE_FAILED", "update favorite", err))
	}
	s.publish(ctx, userID)
	return fav, nil
}

// History returns the stored versions of id, oldest first.
func (s *Service) History(ctx context.Context, userID, id string) ([]prompt.Version, error) {
	p, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if p.History == nil {
		return []prompt.Version{}, nil
	}
	return p.History, nil
}

// RestoreVersion returns the edit form of id with the given version loaded.
// Nothing is persisted; the restored state becomes current only when saved.
func (s *Service) RestoreVersion(ctx context.Context, userID, id string, version int) (prompt.Form, error) {
	p, err := s.Get(ctx, userID, id)
	if err != nil {
		return prompt.Form{}, err
	}
	v, ok := prompt.FindVersion(p.History, version)
	if !ok {
		return prompt.Form{}, apperrors.NotFound("VERSION_NOT_FOUND", "Version not found")
	}
	return prompt.EditForm(p).WithState(prompt.Restore(v)), nil
}

// Render fills values into the blocks of id for copying.
func (s *Service) Render(ctx context.Context, userID, id string, values map[string]string) (prompt.Run, error) {
	p, err := s.Get(ctx, userID, id)
	if err != nil {
		return prompt.Run{}, err
	}
	return prompt.Render(p, values), nil
}

// ListCategories returns the built-in categories followed by the user's own.
func (s *Service) ListCategories(ctx context.Context, userID string) ([]*prompt.Category, error) {
	user, err := s.repo.ListCategories(ctx, userID)
	if err != nil {
		return nil, s.logged("list categories", apperrors.Persistence("LOAD_FAILED", "list categories", err))
	}
	return catalog.AllCategories(user), nil
}

// CreateCategory adds a user category with a random palette colour. Unknown
// icon names fall back to the default icon.
func (s *Service) CreateCategory(ctx context.Context, userID, name, icon string) (*prompt.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.Validation("EMPTY_CATEGORY_NAME", "Please enter a category name")
	}
	c := &prompt.Category{
		Name:  name,
		Icon:  prompt.ResolveIcon(icon),
		Color: prompt.Palette[s.pick(len(prompt.Palette))],
	}
	id, err := s.repo.CreateCategory(ctx, userID, c)
	if err != nil {
		return nil, s.logged("create category", apperrors.Persistence("CATEGORY_SAVE_FAILED", "create category", err))
	}
	c.ID = id
	c.UserID = userID
	s.publish(ctx, userID)
	return c, nil
}

// DeleteCategory removes a user category and moves its prompts to "other".
// Built-in categories cannot be deleted. It returns the number of prompts moved.
func (s *Service) DeleteCategory(ctx context.Context, userID, id string) (int, error) {
	if prompt.IsDefaultCategory(id) {
		return 0, apperrors.Forbidden("DEFAULT_CATEGORY", "Built-in categories cannot be deleted")
	}

	var (
		moved int
		err   error
	)
	if remover, ok := s.repo.(repository.CategoryRemover); ok {
		moved, err = remover.RemoveCategory(ctx, userID, id, prompt.CategoryOther)
	} else {
		moved, err = s.reassignThenDelete(ctx, userID, id)
	}
	if err != nil {
		return 0, s.logged("delete category", categoryError(err))
	}
	metrics.CategoryDeletes.Inc()
	log.Infof("deleted category %s for %s, moved %d prompts", id, userID, moved)
	s.publish(ctx, userID)
	return moved, nil
}

// reassignThenDelete deletes the category only after every prompt has moved,
// so a failure never leaves prompts pointing at a missing category.
func (s *Service) reassignThenDelete(ctx context.Context, userID, id string) (int, error) {
	cats, err := s.repo.ListCategories(ctx, userID)
	if err != nil {
		return 0, err
	}
	if !hasCategory(cats, id) {
		return 0, repository.ErrNotFound
	}
	moved, err := s.repo.ReassignPromptsCategory(ctx, userID, id, prompt.CategoryOther)
	if err != nil {
		return 0, err
	}
	if err := s.repo.DeleteCategory(ctx, userID, id); err != nil {
		return moved, err
	}
	return moved, nil
}

// Catalog derives the filtered, sorted catalog for the user's current collection.
func (s *Service) Catalog(ctx context.Context, userID string, c catalog.Criteria) (catalog.View, error) {
	prompts, err := s.repo.ListPrompts(ctx, userID)
	if err != nil {
		return catalog.View{}, s.logged("list prompts", apperrors.Persistence("LOAD_FAILED", "list prompts", err))
	}
	cats, err := s.repo.ListCategories(ctx, userID)
	if err != nil {
		return catalog.View{}, s.logged("list categories", apperrors.Persistence("LOAD_FAILED", "list categories", err))
	}
	return catalog.Derive(prompts, cats, c), nil
}

// TagSuggestions returns up to catalog.SuggestionLimit known tags matching input
// that are not already in current. Blank input returns the whole tag menu.
func (s *Service) TagSuggestions(ctx context.Context, userID, input string, current []string) ([]string, error) {
	prompts, err := s.repo.ListPrompts(ctx, userID)
	if err != nil {
		return nil, s.logged("list prompts", apperrors.Persistence("LOAD_FAILED", "list prompts", err))
	}
	all := catalog.AllTags(prompts)
	if strings.TrimSpace(input) == "" {
		return all, nil
	}
	return catalog.SuggestTags(all, current, input, catalog.SuggestionLimit), nil
}

// Watch emits the catalog view for c now and again after every change to the
// user's collection. The channel is closed when ctx is done. Criteria reconciled
// away in one emission (e.g. a deleted active category) stay reconciled.
func (s *Service) Watch(ctx context.Context, userID string, c catalog.Criteria) (<-chan catalog.View, error) {
	changes, err := s.notifier.Subscribe(ctx, userID)
	if err != nil {
		return nil, s.logged("subscribe", apperrors.Persistence("WATCH_FAILED", "subscribe to changes", err))
	}
	first, err := s.Catalog(ctx, userID, c)
	if err != nil {
		return nil, err
	}

	out := make(chan catalog.View, 1)
	out <- first
	go func() {
		defer close(out)
		criteria := first.Criteria
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-changes:
				if !ok {
					return
				}
			}
			v, err := s.Catalog(ctx, userID, criteria)
			if err != nil {
				log.Warnf("re-derive catalog for %s: %v", userID, err)
				continue
			}
			criteria = v.Criteria
			select {
			case out <- v:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

func hasCategory(cats []*prompt.Category, id string) bool {
	for _, c := range cats {
		if c.ID == id {
			return true
		}
	}
	return false
}

func (s *Service) publish(ctx context.Context, userID string) {
	if err := s.notifier.Publish(ctx, userID); err != nil {
		log.Warnf("publish change for %s: %v", userID, err)
	}
}

func (s *Service) logged(op string, err error) error {
	if apperrors.IsKind(err, apperrors.KindPersistence) {
		log.Errorf("%s: %v", op, err)
	}
	return err
}

func promptError(code, message string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NotFound("PROMPT_NOT_FOUND", "Prompt not found")
	}
	return apperrors.Persistence(code, message, err)
}

func categoryError(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NotFound("CATEGORY_NOT_FOUND", "Category not found")
	}
	return apperrors.Persistence("CATEGORY_DELETE_FAILED", "delete category", err)
}
