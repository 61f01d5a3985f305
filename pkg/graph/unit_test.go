package graph

import (
	"reflect"
	"testing"
)

func TestSplitIntoSentences(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "empty input",
			text: "",
			want: []string(nil),
		},
		{
			name: "single sentence",
			text: "Hello world.",
			want: []string{"Hello world."},
		},
		{
			name: "multiple sentences on one line",
			text: "Hello world. This is a test! How are you?",
			want: []string{"Hello world.", "This is a test!", "How are you?"},
		},
		{
			name: "blank lines are boundaries",
			text: "First sentence.\n\nSecond sentence.",
			want: []string{"First sentence.", "Second sentence."},
		},
		{
			name: "wrapped lines join into one sentence",
			text: "This is a long\nsentence that spans\nmultiple lines.",
			want: []string{"This is a long sentence that spans multiple lines."},
		},
		{
			name: "numeric listing does not split",
			text: "Step 1. mix the batter and bake.",
			want: []string{"Step 1. mix the batter and bake."},
		},
		{
			name: "closing quote stays with its sentence",
			text: `She said "stop." Then she left.`,
			want: []string{`She said "stop."`, "Then she left."},
		},
		{
			name: "no terminal punctuation",
			text: "Just some text\nMore text here",
			want: []string{"Just some text More text here"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitIntoSentences(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("splitIntoSentences() = %q, want %q", got, tt.want)
			}
		})
	}
}
