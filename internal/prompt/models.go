package prompt

import "time"

// Block is one titled unit of prompt content within a workflow.
// ID is only unique within its prompt and carries no ordering.
type Block struct {
	ID      string `json:"id" bson:"id"`
	Title   string `json:"title" bson:"title"`
	Content string `json:"content" bson:"content"`
}

// Version is an immutable snapshot of a prompt's editable content,
// captured before an edit overwrites it. Content and VideoPrompt only
// appear on snapshots written before workflows existed.
type Version struct {
	GuideText   string    `json:"guideText" bson:"guideText"`
	Workflow    []Block   `json:"workflow" bson:"workflow"`
	UpdatedAt   time.Time `json:"updatedAt" bson:"updatedAt"`
	Version     int       `json:"version" bson:"version"`
	Content     string    `json:"content,omitempty" bson:"content,omitempty"`
	VideoPrompt string    `json:"videoPrompt,omitempty" bson:"videoPrompt,omitempty"`
}

// Prompt is a user's saved item.
//
// Content mirrors Workflow[0].Content for older readers. VideoPrompt is only
// ever read from legacy documents and never written.
type Prompt struct {
	ID          string    `json:"id" bson:"_id,omitempty"`
	UserID      string    `json:"-" bson:"userId"`
	Title       string    `json:"title" bson:"title"`
	Category    string    `json:"category" bson:"category"`
	Tags        []string  `json:"tags" bson:"tags"`
	GuideText   string    `json:"guideText" bson:"guideText"`
	Workflow    []Block   `json:"workflow" bson:"workflow"`
	Variables   []string  `json:"variables" bson:"variables"`
	Image       string    `json:"image,omitempty" bson:"image,omitempty"`
	IsFavorite  bool      `json:"isFavorite" bson:"isFavorite"`
	History     []Version `json:"history" bson:"history"`
	Content     string    `json:"content" bson:"content"`
	VideoPrompt string    `json:"videoPrompt,omitempty" bson:"videoPrompt,omitempty"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt" bson:"updatedAt"`
}

// Category groups prompts. Default categories are not stored.
type Category struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	UserID    string    `json:"-" bson:"userId"`
	Name      string    `json:"name" bson:"name"`
	Icon      string    `json:"icon" bson:"icon"`
	Color     string    `json:"color" bson:"color"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	Default   bool      `json:"default" bson:"-"`
}

const (
	// CategoryAll is the catalog wildcard, never a stored category.
	CategoryAll = "all"
	// CategoryOther receives prompts whose category was deleted.
	CategoryOther = "other"
	// CategoryImage is preselected on new prompts.
	CategoryImage = "image"
)

var defaultCategories = []Category{
	{ID: "image", Name: "Image", Color: "bg-pink-400", Icon: "ImageIcon", Default: true},
	{ID: "video", Name: "Video", Color: "bg-purple-400", Icon: "Video", Default: true},
	{ID: "text", Name: "Text", Color: "bg-yellow-300", Icon: "FileText", Default: true},
	{ID: "code", Name: "Code", Color: "bg-cyan-300", Icon: "Code", Default: true},
	{ID: "other", Name: "Other", Color: "bg-gray-200", Icon: "Box", Default: true},
}

// DefaultCategories returns fresh copies of the built-in categories.
func DefaultCategories() []*Category {
	out := make([]*Category, 0, len(defaultCategories))
	for i := range defaultCategories {
		c := defaultCategories[i]
		out = append(out, &c)
	}
	return out
}

// IsDefaultCategory reports whether id names a built-in category.
func IsDefaultCategory(id string) bool {
	for _, c := range defaultCategories {
		if c.ID == id {
			return true
		}
	}
	return false
}

// Palette holds the colours assigned to user categories.
var Palette = []string{
	"bg-pink-400", "bg-purple-400", "bg-yellow-300", "bg-cyan-300",
	"bg-green-400", "bg-red-400", "bg-blue-400", "bg-orange-400", "bg-gray-200",
}

// FallbackIcon is used for unknown icon names.
const FallbackIcon = "Terminal"

var icons = map[string]bool{
	"ImageIcon": true, "Video": true, "FileText": true, "Code": true,
	"PenTool": true, "Megaphone": true, "Terminal": true, "Music": true,
	"Box": true, "Star": true, "Zap": true, "Activity": true, "Smile": true,
	"Coffee": true, "LayoutGrid": true, "Smartphone": true, "Camera": true,
	"Disc": true, "Mic": true,
}

// ResolveIcon returns name when it is a known icon, otherwise FallbackIcon.
func ResolveIcon(name string) string {
	if icons[name] {
		return name
	}
	return FallbackIcon
}
