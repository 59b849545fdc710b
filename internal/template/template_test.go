package template

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtractVariables(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want []string
	}{
		{"empty", "", []string{}},
		{"single", "Hello [name]", []string{"name"}},
		{"dedupe keeps first order", "[b] [a] [b] [c] [a]", []string{"b", "a", "c"}},
		{"whitespace name kept", "x [ ] y [  pad ]", []string{" ", "  pad "}},
		{"empty brackets ignored", "[] and [x]", []string{"x"}},
		{"nested closes at first bracket", "[a[b]c]", []string{"a[b"}},
		{"unicode", "สวัสดี [ชื่อ]", []string{"ชื่อ"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, ExtractVariables(tc.in))
		})
	}
}

func TestExtractFromPartsUsesSeparator(t *testing.T) {
	got := ExtractFromParts("Guide for [topic]", "Write about [topic] in [style]", "")
	require.Equal(t, []string{"topic", "style"}, got)
}

func TestSubstitute(t *testing.T) {
	names := []string{"name", "place"}

	require.Equal(t, "Hello World", Substitute("Hello [name]", []string{"name"}, map[string]string{"name": "World"}))
	require.Equal(t, "", Substitute("", names, map[string]string{"name": "x"}))

	// every occurrence is replaced
	require.Equal(t, "A and A at home", Substitute("[name] and [name] at [place]", names, map[string]string{"name": "A", "place": "home"}))

	// missing and empty values leave placeholders
	require.Equal(t, "[name] at [place]", Substitute("[name] at [place]", names, map[string]string{"name": ""}))

	// names not previously extracted are untouched
	require.Equal(t, "[other]", Substitute("[other]", names, map[string]string{"other": "x"}))

	// regex metacharacters in names are matched literally
	require.Equal(t, "cost: 5", Substitute("cost: [a.b*]", []string{"a.b*"}, map[string]string{"a.b*": "5"}))
	require.Equal(t, "[axb]", Substitute("[axb]", []string{"a.b"}, map[string]string{"a.b": "5"}))
}

func TestSubstituteIdempotentForPlainValues(t *testing.T) {
	tmpl := "Write [n] words about [topic], then [n] more"
	names := ExtractVariables(tmpl)
	values := map[string]string{"n": "100", "topic": "Go"}

	once := Substitute(tmpl, names, values)
	require.Equal(t, once, Substitute(once, names, values))
	require.Empty(t, ExtractVariables(once))
}

func TestSubstitutePreservesVariablesWhenUnfilled(t *testing.T) {
	tmpl := "[a] [b] [a]"
	names := ExtractVariables(tmpl)
	out := Substitute(tmpl, names, map[string]string{"a": "plain"})
	require.Equal(t, []string{"b"}, ExtractVariables(out))
}

func TestInsertPlaceholder(t *testing.T) {
	got := InsertPlaceholder("Hello world", 5, 5)
	require.Equal(t, "Hello []  world", got.Text)
	require.Equal(t, 7, got.Cursor)
	require.Equal(t, ']', []rune(got.Text)[got.Cursor])
	require.Equal(t, '[', []rune(got.Text)[got.Cursor-1])

	// selection is replaced
	got = InsertPlaceholder("Hello world", 6, 11)
	require.Equal(t, "Hello  [] ", got.Text)
	require.Equal(t, 8, got.Cursor)

	// reversed and out-of-range offsets
	got = InsertPlaceholder("abc", 99, -4)
	require.Equal(t, " [] ", got.Text)
	require.Equal(t, 2, got.Cursor)

	// offsets count runes
	got = InsertPlaceholder("กขค", 1, 2)
	require.Equal(t, "ก [] ค", got.Text)
	require.Equal(t, 3, got.Cursor)
}
