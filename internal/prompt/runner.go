package prompt

import "github.com/zerpitt/prompt-keeper-project/internal/template"

// RenderedBlock is one block with its variables filled in.
type RenderedBlock struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Text  string `json:"text"`
}

// Run is the use-time view of a prompt: the variables to ask for and the
// ready-to-copy text of every block.
type Run struct {
	PromptID  string          `json:"promptId"`
	Title     string          `json:"title"`
	GuideText string          `json:"guideText"`
	Variables []string        `json:"variables"`
	Blocks    []RenderedBlock `json:"blocks"`
}

// Render substitutes values into every block of p using the variables cached
// at save time. Legacy documents are migrated the same way as in the editor.
func Render(p *Prompt, values map[string]string) Run {
	vars := uniqueStrings(p.Variables)
	st := NormalizeForEdit(p)
	blocks := make([]RenderedBlock, 0, len(st.Workflow))
	for _, b := range st.Workflow {
		blocks = append(blocks, RenderedBlock{
			ID:    b.ID,
			Title: b.Title,
			Text:  template.Substitute(b.Content, vars, values),
		})
	}
	return Run{
		PromptID:  p.ID,
		Title:     p.Title,
		GuideText: p.GuideText,
		Variables: vars,
		Blocks:    blocks,
	}
}

func uniqueStrings(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
