package common

import (
	"reflect"
	"testing"
)

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "lowercases", in: "CRISPR Study", want: "crispr study"},
		{name: "collapses whitespace", in: "  gene \t editing \n study ", want: "gene editing study"},
		{name: "folds compatibility forms", in: "ﬁeld", want: "field"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeText(tt.in); got != tt.want {
				t.Errorf("NormalizeText(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeName(t *testing.T) {
	honorifics := []string{"Dr.", "Prof.", "Professor"}
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "strips honorific", in: "Dr. Sarah Chen", want: "sarah chen"},
		{name: "strips stacked honorifics", in: "Prof. Dr. Sarah Chen", want: "sarah chen"},
		{name: "keeps honorific-like interior word", in: "Sarah Dr. Chen", want: "sarah dr. chen"},
		{name: "plain name unchanged", in: "Sarah Chen", want: "sarah chen"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeName(tt.in, honorifics); got != tt.want {
				t.Errorf("NormalizeName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestTokens(t *testing.T) {
	got := Tokens("Dr. Chen's  CRISPR study")
	want := []string{"dr.", "chen's", "crispr", "study"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tokens = %v, want %v", got, want)
	}
}
