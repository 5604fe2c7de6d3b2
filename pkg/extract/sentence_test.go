package extract

import (
	"reflect"
	"testing"
)

func TestSentences(t *testing.T) {
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
			name: "multiple sentences",
			text: "Hello world. This is a test! How are you?",
			want: []string{
				"Hello world.",
				"This is a test!",
				"How are you?",
			},
		},
		{
			name: "sentences with empty lines",
			text: "First sentence.\n\nSecond sentence.\n\nThird sentence.",
			want: []string{
				"First sentence.",
				"Second sentence.",
				"Third sentence.",
			},
		},
		{
			name: "multi-line sentence",
			text: "This is a long\nsentence that spans\nmultiple lines.",
			want: []string{"This is a long sentence that spans multiple lines."},
		},
		{
			name: "honorific abbreviation does not split",
			text: "Dr. Sarah Chen developed the technique. It worked.",
			want: []string{
				"Dr. Sarah Chen developed the technique.",
				"It worked.",
			},
		},
		{
			name: "numeric listing does not split",
			text: "The study enrolled 1. 2 percent more patients this year.",
			want: []string{"The study enrolled 1. 2 percent more patients this year."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Sentences(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Sentences() = %v, want %v", got, tt.want)
			}
		})
	}
}
