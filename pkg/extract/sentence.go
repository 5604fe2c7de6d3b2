package extract

import (
	"strings"
	"unicode"
)

// Sentences splits document text into sentences. Lines without terminal
// punctuation are merged with their successors, blank lines always end the
// current sentence, and numeric listings ("1. First item") do not split.
func Sentences(text string) []string {
	lines := strings.Split(text, "\n")
	var sentences []string
	var current strings.Builder

	flush := func() {
		if current.Len() > 0 {
			sentences = append(sentences, strings.TrimSpace(current.String()))
			current.Reset()
		}
	}

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			flush()
			continue
		}

		for _, sentence := range splitLineIntoSentences(trimmed) {
			if current.Len() > 0 {
				current.WriteString(" ")
			}
			current.WriteString(sentence)

			switch {
			case strings.HasSuffix(sentence, "."),
				strings.HasSuffix(sentence, "!"),
				strings.HasSuffix(sentence, "?"):
				flush()
			}
		}
	}
	flush()

	var result []string
	for _, sentence := range sentences {
		if strings.TrimSpace(sentence) != "" {
			result = append(result, sentence)
		}
	}
	return result
}

func splitLineIntoSentences(line string) []string {
	var sentences []string
	var current strings.Builder

	for i := 0; i < len(line); i++ {
		current.WriteByte(line[i])

		if line[i] == '.' || line[i] == '!' || line[i] == '?' {
			isNumericListing := false
			if i > 0 && unicode.IsDigit(rune(line[i-1])) {
				if i+1 < len(line) && line[i+1] == ' ' {
					isNumericListing = true
				}
			}
			if isNumericListing {
				continue
			}

			// Abbreviated honorifics do not end a sentence.
			if line[i] == '.' && isAbbreviationAt(line, i) {
				continue
			}

			j := i + 1
			for j < len(line) && (line[j] == '.' || line[j] == '!' || line[j] == '?') {
				current.WriteByte(line[j])
				j++
			}
			for j < len(line) && (line[j] == '"' || line[j] == '\'' || line[j] == ')' ||
				line[j] == ']' || line[j] == '}') {
				current.WriteByte(line[j])
				j++
			}

			sentence := strings.TrimSpace(current.String())
			if sentence != "" {
				sentences = append(sentences, sentence)
			}
			current.Reset()
			i = j - 1
		}
	}

	remaining := strings.TrimSpace(current.String())
	if remaining != "" {
		sentences = append(sentences, remaining)
	}
	return sentences
}

var abbreviations = []string{"Dr", "Prof", "Mr", "Mrs", "Ms", "St", "vs", "etc", "et al", "e.g", "i.e"}

func isAbbreviationAt(line string, dot int) bool {
	for _, abbr := range abbreviations {
		start := dot - len(abbr)
		if start < 0 || line[start:dot] != abbr {
			continue
		}
		if start == 0 || line[start-1] == ' ' || line[start-1] == '(' {
			return true
		}
	}
	return false
}
