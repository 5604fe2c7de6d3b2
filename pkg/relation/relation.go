// Package relation discovers typed relationships between resolved entities.
// Six extractors scan documents independently (causal, temporal, hierarchy,
// influence, evidence, contradiction); their outputs pass through the
// classifier and the same-pair merger before graph assembly.
package relation

import "github.com/relgraph/relgraph/pkg/extract"

func sentencesOf(text string) []string {
	return extract.Sentences(text)
}
