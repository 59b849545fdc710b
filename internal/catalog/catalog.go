package catalog

import (
	"sort"
	"strings"
	"time"

	"github.com/zerpitt/prompt-keeper-project/internal/prompt"
)

// SortKey selects the timestamp used for ordering.
type SortKey string

const (
	SortCreatedAt SortKey = "createdAt"
	SortUpdatedAt SortKey = "updatedAt"
)

// SortOrder is asc or desc.
type SortOrder string

const (
	Asc  SortOrder = "asc"
	Desc SortOrder = "desc"
)

// SuggestionLimit is the number of tag suggestions offered while typing.
const SuggestionLimit = 5

// Criteria is the serializable view state of the prompt list.
type Criteria struct {
	SearchTerm     string    `json:"searchTerm"`
	ActiveCategory string    `json:"activeCategory"`
	FavoritesOnly  bool      `json:"showFavoritesOnly"`
	SelectedTag    string    `json:"selectedTag,omitempty"`
	SortBy         SortKey   `json:"sortBy"`
	SortOrder      SortOrder `json:"sortOrder"`
}

// DefaultCriteria shows every prompt, newest first.
func DefaultCriteria() Criteria {
	return Criteria{ActiveCategory: prompt.CategoryAll, SortBy: SortCreatedAt, SortOrder: Desc}
}

// ParseSortKey accepts createdAt or updatedAt; anything else is createdAt.
func ParseSortKey(s string) SortKey {
	if SortKey(s) == SortUpdatedAt {
		return SortUpdatedAt
	}
	return SortCreatedAt
}

// ParseSortOrder accepts asc or desc; anything else is desc.
func ParseSortOrder(s string) SortOrder {
	if SortOrder(strings.ToLower(s)) == Asc {
		return Asc
	}
	return Desc
}

// Reconcile resets an active category that no longer exists to "all".
func (c Criteria) Reconcile(categories []*prompt.Category) Criteria {
	if c.ActiveCategory == "" {
		c.ActiveCategory = prompt.CategoryAll
	}
	if c.ActiveCategory == prompt.CategoryAll {
		return c
	}
	for _, cat := range categories {
		if cat.ID == c.ActiveCategory {
			return c
		}
	}
	c.ActiveCategory = prompt.CategoryAll
	return c
}

// Apply derives the displayed list: a stable sort by the chosen timestamp,
// then the search, category, favorite and tag filters. prompts is not modified.
func Apply(prompts []*prompt.Prompt, categories []*prompt.Category, c Criteria) []*prompt.Prompt {
	sorted := make([]*prompt.Prompt, len(prompts))
	copy(sorted, prompts)

	key := ParseSortKey(string(c.SortBy))
	desc := ParseSortOrder(string(c.SortOrder)) == Desc
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := timestamp(sorted[i], key), timestamp(sorted[j], key)
		if desc {
			return a.After(b)
		}
		return a.Before(b)
	})

	known := make(map[string]bool, len(categories))
	for _, cat := range categories {
		known[cat.ID] = true
	}
	term := strings.ToLower(c.SearchTerm)
	active := c.ActiveCategory
	if active == "" {
		active = prompt.CategoryAll
	}

	out := make([]*prompt.Prompt, 0, len(sorted))
	for _, p := range sorted {
		if !matchesSearch(p, term) {
			continue
		}
		if active != prompt.CategoryAll && effectiveCategory(p.Category, known) != active {
			continue
		}
		if c.FavoritesOnly && !p.IsFavorite {
			continue
		}
		if c.SelectedTag != "" && !hasTag(p.Tags, c.SelectedTag) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// timestamp returns the sort value; a zero time sorts as the oldest value.
func timestamp(p *prompt.Prompt, key SortKey) time.Time {
	if key == SortUpdatedAt {
		return p.UpdatedAt
	}
	return p.CreatedAt
}

func matchesSearch(p *prompt.Prompt, term string) bool {
	if term == "" {
		return true
	}
	if strings.Contains(strings.ToLower(p.Title), term) {
		return true
	}
	if p.Content != "" && strings.Contains(strings.ToLower(p.Content), term) {
		return true
	}
	for _, b := range p.Workflow {
		if strings.Contains(strings.ToLower(b.Content), term) {
			return true
		}
	}
	return false
}

// effectiveCategory maps a dangling category id to "other". An empty known
// set means the caller supplied no category list and ids are taken as stored.
func effectiveCategory(id string, known map[string]bool) string {
	if len(known) == 0 || known[id] {
		return id
	}
	return prompt.CategoryOther
}

func hasTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}

// AllCategories lists the default categories followed by the user's own.
func AllCategories(user []*prompt.Category) []*prompt.Category {
	out := prompt.DefaultCategories()
	for _, c := range user {
		if prompt.IsDefaultCategory(c.ID) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// ResolveCategory returns the category with id, falling back to "other".
func ResolveCategory(categories []*prompt.Category, id string) *prompt.Category {
	var other *prompt.Category
	for _, c := range categories {
		if c.ID == id {
			return c
		}
		if c.ID == prompt.CategoryOther {
			other = c
		}
	}
	if other == nil {
		for _, c := range prompt.DefaultCategories() {
			if c.ID == prompt.CategoryOther {
				other = c
			}
		}
	}
	return other
}

// AllTags returns the sorted, deduplicated tag menu for prompts.
func AllTags(prompts []*prompt.Prompt) []string {
	seen := make(map[string]bool)
	out := []string{}
	for _, p := range prompts {
		for _, t := range p.Tags {
			if !seen[t] {
				seen[t] = true
				out = append(out, t)
			}
		}
	}
	sort.Strings(out)
	return out
}

// SuggestTags offers up to limit known tags containing input (case-insensitive)
// that are not already in current. Blank input yields no suggestions.
func SuggestTags(all, current []string, input string, limit int) []string {
	q := strings.ToLower(strings.TrimSpace(input))
	if q == "" {
		return []string{}
	}
	out := []string{}
	for _, t := range all {
		if limit > 0 && len(out) >= limit {
			break
		}
		if strings.Contains(strings.ToLower(t), q) && !hasTag(current, t) {
			out = append(out, t)
		}
	}
	return out
}

// View is one derived emission of the catalog.
type View struct {
	Criteria   Criteria           `json:"criteria"`
	Prompts    []*prompt.Prompt   `json:"prompts"`
	Categories []*prompt.Category `json:"categories"`
	Tags       []string           `json:"tags"`
}

// Derive builds a View from a full collection snapshot. Nothing is carried
// over between calls, so it can be re-run on every live update.
func Derive(prompts []*prompt.Prompt, userCategories []*prompt.Category, c Criteria) View {
	cats := AllCategories(userCategories)
	c = c.Reconcile(cats)
	return View{
		Criteria:   c,
		Prompts:    Apply(prompts, cats, c),
		Categories: cats,
		Tags:       AllTags(prompts),
	}
}
