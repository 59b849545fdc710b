package repository

import (
	"context"
	"errors"

	"github.com/zerpitt/prompt-keeper-project/internal/prompt"
)

var (
	ErrNotFound = errors.New("not found")
)

// Repository is the document store contract for one user's prompts and categories.
// Implementations assign ids and createdAt/updatedAt on write.
type Repository interface {
	ListPrompts(ctx context.Context, userID string) ([]*prompt.Prompt, error)
	GetPrompt(ctx context.Context, userID, id string) (*prompt.Prompt, error)
	CreatePrompt(ctx context.Context, userID string, p *prompt.Prompt) (string, error)
	// UpdatePrompt replaces the editable fields and history of id. IsFavorite,
	// CreatedAt and legacy VideoPrompt are left as stored.
	UpdatePrompt(ctx context.Context, userID, id string, p *prompt.Prompt) error
	SetFavorite(ctx context.Context, userID, id string, favorite bool) error
	DeletePrompt(ctx context.Context, userID, id string) error

	ListCategories(ctx context.Context, userID string) ([]*prompt.Category, error)
	CreateCategory(ctx context.Context, userID string, c *prompt.Category) (string, error)
	DeleteCategory(ctx context.Context, userID, id string) error
	// ReassignPromptsCategory moves every prompt in fromID to toID and returns how many moved.
	ReassignPromptsCategory(ctx context.Context, userID, fromID, toID string) (int, error)
}

// CategoryRemover is implemented by stores that can reassign prompts and
// delete a category in one atomic batch.
type CategoryRemover interface {
	RemoveCategory(ctx context.Context, userID, id, fallbackID string) (int, error)
}
