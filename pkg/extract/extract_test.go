package extract

import (
	"testing"

	"github.com/relgraph/relgraph/pkg/common"
	"github.com/relgraph/relgraph/pkg/config"
)

func newTestExtractor(t *testing.T) *Extractor {
	t.Helper()
	e, err := NewExtractor(config.Default())
	if err != nil {
		t.Fatalf("NewExtractor() error = %v", err)
	}
	return e
}

func findRef(refs []common.EntityReference, name string, typ common.EntityType) (common.EntityReference, bool) {
	for _, r := range refs {
		if r.Name == name && r.Type == typ {
			return r, true
		}
	}
	return common.EntityReference{}, false
}

func TestExtractLexicalPatterns(t *testing.T) {
	e := newTestExtractor(t)

	doc := common.Document{
		ID: "doc-1",
		Content: "Dr. Sarah Chen developed the CRISPR technique at Stanford University. " +
			"Her research on gene editing was widely cited.",
	}
	refs, err := e.Extract(doc)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	tests := []struct {
		name    string
		typ     common.EntityType
		minConf float64
	}{
		{name: "Dr. Sarah Chen", typ: common.EntityTypePerson, minConf: 0.8},
		{name: "CRISPR", typ: common.EntityTypeTechnology, minConf: 0.8},
		{name: "Stanford University", typ: common.EntityTypeOrganization, minConf: 0.6},
		{name: "gene editing", typ: common.EntityTypeConcept, minConf: 0.6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref, ok := findRef(refs, tt.name, tt.typ)
			if !ok {
				t.Fatalf("reference %q (%s) not found in %d refs", tt.name, tt.typ, len(refs))
			}
			if ref.Confidence < tt.minConf {
				t.Errorf("confidence = %v, want >= %v", ref.Confidence, tt.minConf)
			}
			if ref.DocumentID != "doc-1" {
				t.Errorf("document ID = %q, want doc-1", ref.DocumentID)
			}
		})
	}

	titled, _ := findRef(refs, "Dr. Sarah Chen", common.EntityTypePerson)
	wantAliases := map[string]bool{"Sarah Chen": true, "Chen": true}
	for _, a := range titled.Aliases {
		delete(wantAliases, a)
	}
	if len(wantAliases) != 0 {
		t.Errorf("missing aliases %v in %v", wantAliases, titled.Aliases)
	}
}

func TestExtractMetadataAuthors(t *testing.T) {
	e := newTestExtractor(t)

	doc := common.Document{
		ID:      "doc-2",
		Content: "A short note without names.",
		Metadata: common.Metadata{
			Authors: []string{"Jennifer Doudna"},
		},
	}
	refs, err := e.Extract(doc)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	ref, ok := findRef(refs, "Jennifer Doudna", common.EntityTypePerson)
	if !ok {
		t.Fatalf("author reference not found in %v", refs)
	}
	if ref.Confidence != 0.9 {
		t.Errorf("confidence = %v, want 0.9", ref.Confidence)
	}
	if ref.Position != -1 {
		t.Errorf("position = %d, want -1", ref.Position)
	}
	if ref.Context != "document metadata: author" {
		t.Errorf("context = %q", ref.Context)
	}
}

func TestResolvePronouns(t *testing.T) {
	e := newTestExtractor(t)

	doc := common.Document{
		ID: "doc-3",
		Content: "Dr. Sarah Chen developed a new technique. " +
			"She published the results in 2015.",
	}
	refs, err := e.Extract(doc)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	var pronoun *common.EntityReference
	for i := range refs {
		if refs[i].Name == "Dr. Sarah Chen" && refs[i].Confidence == 0.85 {
			pronoun = &refs[i]
			break
		}
	}
	if pronoun == nil {
		t.Fatalf("pronoun-resolved reference not found in %v", refs)
	}
	if pronoun.Context != "She published the results in 2015." {
		t.Errorf("pronoun context = %q", pronoun.Context)
	}
}

func TestResolvePartialNames(t *testing.T) {
	e := newTestExtractor(t)

	doc := common.Document{
		ID: "doc-4",
		Content: "Dr. Sarah Chen pioneered the method in her laboratory. " +
			"Dr. Chen received recognition for the research.",
	}
	refs, err := e.Extract(doc)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	upgraded := 0
	for _, r := range refs {
		if r.Name == "Dr. Sarah Chen" && r.Confidence == 0.9 {
			upgraded++
		}
	}
	if upgraded == 0 {
		t.Errorf("partial name was not upgraded to the full tracked name: %v", refs)
	}
	if _, found := findRef(refs, "Dr. Chen", common.EntityTypePerson); found {
		t.Errorf("unresolved partial name survived extraction")
	}
}
