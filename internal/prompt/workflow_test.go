package prompt

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zerpitt/prompt-keeper-project/pkg/apperrors"
)

func sequentialIDs(t *testing.T) {
	t.Helper()
	n := 0
	orig := NewBlockID
	NewBlockID = func() string {
		n++
		return fmt.Sprintf("blk-%d", n)
	}
	t.Cleanup(func() { NewBlockID = orig })
}

func TestNormalizeForEdit_Workflow(t *testing.T) {
	wf := []Block{{ID: "a", Title: "One", Content: "x"}, {ID: "b", Title: "Two", Content: "y"}}
	p := &Prompt{GuideText: "guide", Workflow: wf, Content: "ignored", VideoPrompt: "ignored"}

	st := NormalizeForEdit(p)
	require.Equal(t, "guide", st.GuideText)
	require.Equal(t, wf, st.Workflow)

	st.Workflow[0].Content = "changed"
	require.Equal(t, "x", p.Workflow[0].Content, "normalized workflow must not alias the document")
}

func TestNormalizeForEdit_LegacyContentAndVideo(t *testing.T) {
	st := NormalizeForEdit(&Prompt{Content: "A", VideoPrompt: "B"})
	require.Len(t, st.Workflow, 2)
	require.Equal(t, Block{ID: LegacyImageBlockID, Title: LabelImagePrompt, Content: "A"}, st.Workflow[0])
	require.Equal(t, Block{ID: LegacyVideoBlockID, Title: LabelVideoPrompt, Content: "B"}, st.Workflow[1])

	st = NormalizeForEdit(&Prompt{VideoPrompt: "B"})
	require.Len(t, st.Workflow, 1)
	require.Equal(t, LegacyVideoBlockID, st.Workflow[0].ID)
}

func TestNormalizeForEdit_Empty(t *testing.T) {
	sequentialIDs(t)
	for _, p := range []*Prompt{nil, {}} {
		st := NormalizeForEdit(p)
		require.Len(t, st.Workflow, 1)
		require.Equal(t, "", st.Workflow[0].Content)
		require.NotEmpty(t, st.Workflow[0].ID)
		require.Equal(t, StepTitle(1), st.Workflow[0].Title)
	}
}

func TestNormalizeForEdit_Idempotent(t *testing.T) {
	sequentialIDs(t)
	docs := []*Prompt{
		{},
		{Content: "A"},
		{Content: "A", VideoPrompt: "B", GuideText: "g"},
		{Workflow: []Block{{ID: "w", Title: "t", Content: "c"}}},
	}
	for _, d := range docs {
		once := NormalizeForEdit(d)
		twice := NormalizeForEdit(once.AsDocument())
		require.Equal(t, once, twice)
	}
}

func TestAddBlock(t *testing.T) {
	sequentialIDs(t)
	wf := NewWorkflow()
	next := AddBlock(wf)

	require.Len(t, wf, 1, "input must not be mutated")
	require.Len(t, next, 2)
	require.Equal(t, StepTitle(2), next[1].Title)
	require.NotEqual(t, next[0].ID, next[1].ID)

	next = AddBlock(next)
	require.Equal(t, "Step 3", next[2].Title)
}

func TestAddBlock_UniqueIDsWithDefaultGenerator(t *testing.T) {
	wf := NewWorkflow()
	seen := map[string]bool{wf[0].ID: true}
	for i := 0; i < 50; i++ {
		wf = AddBlock(wf)
		id := wf[len(wf)-1].ID
		require.False(t, seen[id], "duplicate block id %s", id)
		seen[id] = true
	}
}

func TestRemoveBlock(t *testing.T) {
	wf := []Block{{ID: "a"}, {ID: "b"}, {ID: "c"}}

	out, err := RemoveBlock(wf, "b")
	require.NoError(t, err)
	require.Equal(t, []Block{{ID: "a"}, {ID: "c"}}, out)
	require.Len(t, wf, 3)

	out, err = RemoveBlock(wf, "missing")
	require.NoError(t, err)
	require.Equal(t, wf, out)

	single := []Block{{ID: "only"}}
	out, err = RemoveBlock(single, "only")
	require.ErrorIs(t, err, ErrLastBlock)
	require.Equal(t, single, out)
}

func TestUpdateBlock(t *testing.T) {
	wf := []Block{{ID: "a", Title: "A", Content: "one"}, {ID: "b", Title: "B", Content: "two"}}

	out := UpdateBlock(wf, "b", FieldContent, "deux")
	require.Equal(t, "deux", out[1].Content)
	require.Equal(t, "two", wf[1].Content)

	out = UpdateBlock(out, "a", FieldTitle, "Intro")
	require.Equal(t, "Intro", out[0].Title)

	require.Equal(t, wf, UpdateBlock(wf, "zzz", FieldContent, "x"))
	require.Equal(t, wf, UpdateBlock(wf, "a", BlockField("color"), "x"))
}

func TestParseTags(t *testing.T) {
	require.Equal(t, []string{"seo", "blog", "SEO"}, ParseTags(" seo, blog,, SEO ,seo , "))
	require.Equal(t, []string{}, ParseTags(""))
}

func TestBuildSaveable(t *testing.T) {
	f := Form{
		Title:     "SEO helper",
		Tags:      []string{"seo", " seo", "writing"},
		GuideText: "Use for [site]",
		Workflow: []Block{
			{ID: "1", Title: "Step 1", Content: "Keywords for [topic] on [site]"},
			{ID: "2", Title: "Step 2", Content: "Outline [topic]"},
		},
		Image: "data:image/webp;base64,AAAA",
	}
	p, err := BuildSaveable(f)
	require.NoError(t, err)
	require.Equal(t, "SEO helper", p.Title)
	require.Equal(t, CategoryImage, p.Category)
	require.Equal(t, []string{"seo", "writing"}, p.Tags)
	require.Equal(t, []string{"site", "topic"}, p.Variables)
	require.Equal(t, "Keywords for [topic] on [site]", p.Content)
	require.Empty(t, p.VideoPrompt)
	require.Equal(t, f.Image, p.Image)
	require.Equal(t, f.Workflow, p.Workflow)
}

func TestBuildSaveable_MirrorsFirstBlockEvenWhenEmpty(t *testing.T) {
	p, err := BuildSaveable(Form{Title: "t", Category: "code", Workflow: []Block{{ID: "1"}, {ID: "2", Content: "body"}}})
	require.NoError(t, err)
	require.Equal(t, "", p.Content)
	require.Equal(t, "code", p.Category)
}

func TestBuildSaveable_Validation(t *testing.T) {
	_, err := BuildSaveable(Form{Title: "   ", Workflow: []Block{{ID: "1", Content: "x"}}})
	require.True(t, apperrors.IsKind(err, apperrors.KindValidation))
	require.Equal(t, "EMPTY_TITLE", apperrors.Code(err))

	_, err = BuildSaveable(Form{Title: "t", Workflow: []Block{{ID: "1", Content: "  \n"}}})
	require.Equal(t, "EMPTY_WORKFLOW", apperrors.Code(err))

	_, err = BuildSaveable(Form{Title: "t"})
	require.Equal(t, "EMPTY_WORKFLOW", apperrors.Code(err))
}

func TestEditForm(t *testing.T) {
	p := &Prompt{Title: "Old", Tags: []string{"x"}, Content: "legacy body", Image: "img"}
	f := EditForm(p)
	require.Equal(t, "Old", f.Title)
	require.Equal(t, CategoryImage, f.Category)
	require.Equal(t, []string{"x"}, f.Tags)
	require.Len(t, f.Workflow, 1)
	require.Equal(t, "legacy body", f.Workflow[0].Content)
	require.Equal(t, "img", f.Image)

	f.Tags[0] = "y"
	require.Equal(t, "x", p.Tags[0])
}
