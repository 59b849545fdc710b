package prompt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSnapshot_Workflow(t *testing.T) {
	updated := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	prev := &Prompt{
		GuideText: "g",
		Workflow:  []Block{{ID: "a", Title: "A", Content: "x"}},
		UpdatedAt: updated,
		History:   []Version{{Version: 1}, {Version: 2}},
	}
	v := Snapshot(prev, time.Now())
	require.Equal(t, 3, v.Version)
	require.Equal(t, "g", v.GuideText)
	require.Equal(t, updated, v.UpdatedAt)
	require.Equal(t, prev.Workflow, v.Workflow)

	v.Workflow[0].Content = "mutated"
	require.Equal(t, "x", prev.Workflow[0].Content)
}

func TestSnapshot_LegacyAndEmpty(t *testing.T) {
	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	v := Snapshot(&Prompt{Content: "old body"}, now)
	require.Equal(t, 1, v.Version)
	require.Equal(t, now, v.UpdatedAt)
	require.Equal(t, []Block{{ID: LegacyBlockID, Title: LabelLegacy, Content: "old body"}}, v.Workflow)

	v = Snapshot(&Prompt{}, now)
	require.Equal(t, "", v.GuideText)
	require.Empty(t, v.Workflow)
	require.NotNil(t, v.Workflow)
}

func TestAppendSnapshot_DoesNotAlias(t *testing.T) {
	base := make([]Version, 1, 4)
	base[0] = Version{Version: 1}

	a := AppendSnapshot(base, Version{Version: 2})
	b := AppendSnapshot(base, Version{Version: 99})

	require.Equal(t, 2, a[1].Version)
	require.Equal(t, 99, b[1].Version)
	require.Len(t, base, 1)
}

func TestHistoryGrowsOnePerEdit(t *testing.T) {
	doc := &Prompt{Workflow: []Block{{ID: "1", Content: "v1"}}, History: []Version{}}
	const saves = 5
	for i := 2; i <= saves; i++ {
		v := Snapshot(doc, time.Now())
		next := *doc
		next.History = AppendSnapshot(doc.History, v)
		next.Workflow = []Block{{ID: "1", Content: "v" + string(rune('0'+i))}}
		doc = &next
	}
	require.Len(t, doc.History, saves-1)
	for i, v := range doc.History {
		require.Equal(t, i+1, v.Version)
		require.Equal(t, "v"+string(rune('1'+i)), v.Workflow[0].Content, "snapshot %d holds the pre-edit state", i)
	}
}

func TestRestore(t *testing.T) {
	st := Restore(Version{GuideText: "g", Workflow: []Block{{ID: "a", Content: "x"}}})
	require.Equal(t, "g", st.GuideText)
	require.Equal(t, []Block{{ID: "a", Content: "x"}}, st.Workflow)

	st = Restore(Version{Content: "A", VideoPrompt: "B"})
	require.Len(t, st.Workflow, 2)
	require.Equal(t, "A", st.Workflow[0].Content)
	require.Equal(t, "B", st.Workflow[1].Content)

	st = Restore(Version{})
	require.Len(t, st.Workflow, 1)
	require.Equal(t, "", st.Workflow[0].Content)
}

func TestFindVersion(t *testing.T) {
	h := []Version{{Version: 1, GuideText: "one"}, {Version: 2, GuideText: "two"}}
	v, ok := FindVersion(h, 2)
	require.True(t, ok)
	require.Equal(t, "two", v.GuideText)
	_, ok = FindVersion(h, 3)
	require.False(t, ok)
}
