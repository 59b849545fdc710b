package prompt

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/zerpitt/prompt-keeper-project/internal/template"
	"github.com/zerpitt/prompt-keeper-project/pkg/apperrors"
)

// Block ids and titles synthesized for legacy documents.
const (
	LegacyImageBlockID = "legacy-img"
	LegacyVideoBlockID = "legacy-vid"
	LegacyBlockID      = "legacy"

	LabelImagePrompt = "Image Prompt"
	LabelVideoPrompt = "Video Prompt"
	LabelLegacy      = "Legacy"
)

// NewBlockID generates block ids. Tests may replace it.
var NewBlockID = uuid.NewString

// ErrLastBlock is returned when removing the only block of a workflow.
var ErrLastBlock = errors.New("workflow must keep at least one block")

// StepTitle is the auto-numbered title of the n-th block (1-based).
func StepTitle(n int) string {
	return fmt.Sprintf("Step %d", n)
}

// EditState is the editable content of a prompt.
type EditState struct {
	GuideText string  `json:"guideText"`
	Workflow  []Block `json:"workflow"`
}

// AsDocument wraps the state in a document so it can be normalized again.
func (s EditState) AsDocument() *Prompt {
	return &Prompt{GuideText: s.GuideText, Workflow: cloneBlocks(s.Workflow)}
}

// NormalizeForEdit converts any stored document shape into an editable state.
// Documents with a workflow are used as-is; legacy content/videoPrompt fields
// become blocks; an empty document gets a single blank step.
func NormalizeForEdit(p *Prompt) EditState {
	if p == nil {
		p = &Prompt{}
	}
	return EditState{
		GuideText: p.GuideText,
		Workflow:  migrateWorkflow(p.Workflow, p.Content, p.VideoPrompt),
	}
}

func migrateWorkflow(workflow []Block, content, videoPrompt string) []Block {
	if len(workflow) > 0 {
		return cloneBlocks(workflow)
	}
	out := make([]Block, 0, 2)
	if content != "" {
		out = append(out, Block{ID: LegacyImageBlockID, Title: LabelImagePrompt, Content: content})
	}
	if videoPrompt != "" {
		out = append(out, Block{ID: LegacyVideoBlockID, Title: LabelVideoPrompt, Content: videoPrompt})
	}
	if len(out) == 0 {
		out = append(out, Block{ID: NewBlockID(), Title: StepTitle(1)})
	}
	return out
}

// NewWorkflow returns the single blank step shown on a new prompt.
func NewWorkflow() []Block {
	return []Block{{ID: NewBlockID(), Title: StepTitle(1)}}
}

// AddBlock returns a copy of workflow with a new numbered step appended.
func AddBlock(workflow []Block) []Block {
	out := make([]Block, len(workflow), len(workflow)+1)
	copy(out, workflow)
	return append(out, Block{ID: NewBlockID(), Title: StepTitle(len(workflow) + 1)})
}

// RemoveBlock returns a copy of workflow without the block id.
// The last remaining block cannot be removed; unknown ids are a no-op.
func RemoveBlock(workflow []Block, id string) ([]Block, error) {
	if len(workflow) <= 1 {
		return cloneBlocks(workflow), ErrLastBlock
	}
	out := make([]Block, 0, len(workflow))
	for _, b := range workflow {
		if b.ID != id {
			out = append(out, b)
		}
	}
	return out, nil
}

// BlockField names an editable block field.
type BlockField string

const (
	FieldTitle   BlockField = "title"
	FieldContent BlockField = "content"
)

// UpdateBlock returns a copy of workflow with one field of block id replaced.
// Unknown ids and fields leave the workflow unchanged.
func UpdateBlock(workflow []Block, id string, field BlockField, value string) []Block {
	out := cloneBlocks(workflow)
	for i := range out {
		if out[i].ID != id {
			continue
		}
		switch field {
		case FieldTitle:
			out[i].Title = value
		case FieldContent:
			out[i].Content = value
		}
	}
	return out
}

// Form is the prompt editor's input.
type Form struct {
	Title     string   `json:"title"`
	Category  string   `json:"category"`
	Tags      []string `json:"tags"`
	GuideText string   `json:"guideText"`
	Workflow  []Block  `json:"workflow"`
	Image     string   `json:"image,omitempty"`
}

// NewForm is the empty editor shown for a new prompt.
func NewForm() Form {
	return Form{Category: CategoryImage, Tags: []string{}, Workflow: NewWorkflow()}
}

// EditForm loads a stored prompt into the editor, migrating legacy shapes.
func EditForm(p *Prompt) Form {
	st := NormalizeForEdit(p)
	f := Form{
		Title:     p.Title,
		Category:  p.Category,
		Tags:      append([]string{}, p.Tags...),
		GuideText: st.GuideText,
		Workflow:  st.Workflow,
		Image:     p.Image,
	}
	if f.Category == "" {
		f.Category = CategoryImage
	}
	return f
}

// WithState replaces the form's editable content, e.g. after restoring a version.
func (f Form) WithState(st EditState) Form {
	f.GuideText = st.GuideText
	f.Workflow = cloneBlocks(st.Workflow)
	return f
}

// ParseTags splits comma-separated tag input.
func ParseTags(text string) []string {
	return NormalizeTags(strings.Split(text, ","))
}

// NormalizeTags trims tags, drops empties and exact duplicates, and keeps the first-seen order.
// Case is preserved.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

// BuildSaveable validates form and produces the record to persist.
// Variables are computed here and cached on the record; Content mirrors the first block.
func BuildSaveable(f Form) (*Prompt, error) {
	if strings.TrimSpace(f.Title) == "" {
		return nil, apperrors.Validation("EMPTY_TITLE", "Please enter a title")
	}
	if !hasContent(f.Workflow) {
		return nil, apperrors.Validation("EMPTY_WORKFLOW", "Please add content to at least one step")
	}

	parts := make([]string, 0, len(f.Workflow)+1)
	parts = append(parts, f.GuideText)
	for _, b := range f.Workflow {
		parts = append(parts, b.Content)
	}

	category := f.Category
	if category == "" {
		category = CategoryImage
	}

	return &Prompt{
		Title:     f.Title,
		Category:  category,
		Tags:      NormalizeTags(f.Tags),
		GuideText: f.GuideText,
		Workflow:  cloneBlocks(f.Workflow),
		Variables: template.ExtractFromParts(parts...),
		Image:     f.Image,
		Content:   f.Workflow[0].Content,
	}, nil
}

func hasContent(workflow []Block) bool {
	for _, b := range workflow {
		if strings.TrimSpace(b.Content) != "" {
			return true
		}
	}
	return false
}

func cloneBlocks(in []Block) []Block {
	out := make([]Block, len(in))
	copy(out, in)
	return out
}
