package editscript

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/zjrosen/gutterblame/internal/annotation"
)

func TestDocument_Apply(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		edits []annotation.Edit
		want  string
	}{
		{
			name:  "insert line at top",
			text:  "a\nb",
			edits: []annotation.Edit{{Text: "x\n"}},
			want:  "x\na\nb",
		},
		{
			name:  "replace within line",
			text:  "hello world",
			edits: []annotation.Edit{{StartChar: 6, EndChar: 11, Text: "there"}},
			want:  "hello there",
		},
		{
			name:  "delete across lines",
			text:  "a\nb\nc",
			edits: []annotation.Edit{{StartLine: 0, StartChar: 1, EndLine: 2, EndChar: 0}},
			want:  "ac",
		},
		{
			name:  "delete whole line",
			text:  "a\nb\nc",
			edits: []annotation.Edit{{StartLine: 1, EndLine: 2}},
			want:  "a\nc",
		},
		{
			name: "sequential edits",
			text: "one",
			edits: []annotation.Edit{
				{StartChar: 3, EndChar: 3, Text: "\ntwo"},
				{StartLine: 1, StartChar: 3, EndLine: 1, EndChar: 3, Text: "\nthree"},
			},
			want: "one\ntwo\nthree",
		},
		{
			name:  "rune offsets",
			text:  "\u00e9t\u00e9",
			edits: []annotation.Edit{{StartChar: 1, EndChar: 2, Text: "T"}},
			want:  "\u00e9T\u00e9",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDocument(tt.text)
			require.NoError(t, d.Apply(tt.edits...))
			require.Equal(t, tt.want, d.Text())
		})
	}
}

func TestDocument_TrailingNewline(t *testing.T) {
	d := NewDocument("a\nb\n")
	require.Equal(t, 3, d.LineCount())
	require.Equal(t, []string{"a", "b", ""}, d.Lines())
}

func TestDocument_ApplyOutOfRange(t *testing.T) {
	d := NewDocument("a\nb")

	err := d.Apply(
		annotation.Edit{Text: "x"},
		annotation.Edit{StartLine: 5, EndLine: 5},
	)
	require.ErrorIs(t, err, ErrPosition)
	require.ErrorContains(t, err, "edit 1")
	require.Equal(t, "xa\nb", d.Text(), "earlier edits stay applied")

	err = d.Apply(annotation.Edit{StartLine: 1, StartChar: 2, EndLine: 1, EndChar: 2})
	require.ErrorIs(t, err, ErrPosition)
}

// The line count a document reaches after an edit must match the store's
// record count after the same edit, so replayed scripts stay aligned.
func TestDocument_LineCountMatchesStore(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		lines := rapid.SliceOfN(rapid.StringMatching(`[a-c ]{0,4}`), 1, 6).Draw(t, "lines")
		d := &Document{lines: lines}
		store := annotation.NewStore(nil, len(lines))

		startLine := rapid.IntRange(0, len(lines)-1).Draw(t, "startLine")
		endLine := rapid.IntRange(startLine, len(lines)-1).Draw(t, "endLine")
		startChar := rapid.IntRange(0, len([]rune(lines[startLine]))).Draw(t, "startChar")
		endLo := 0
		if endLine == startLine {
			endLo = startChar
		}
		endChar := rapid.IntRange(endLo, len([]rune(lines[endLine]))).Draw(t, "endChar")
		text := rapid.SampledFrom([]string{"", "x", "\n", "x\ny", "\n\n"}).Draw(t, "text")

		e := annotation.Edit{StartLine: startLine, StartChar: startChar, EndLine: endLine, EndChar: endChar, Text: text}
		if err := d.Apply(e); err != nil {
			t.Fatalf("document apply: %v", err)
		}
		if _, err := store.ApplyEdit(e); err != nil {
			t.Fatalf("store apply: %v", err)
		}
		if d.LineCount() != store.Len() {
			t.Fatalf("document has %d lines, store %d", d.LineCount(), store.Len())
		}
	})
}
