package config

// TriggerRule maps a trigger phrase to its pattern-strength contribution.
// Kind is rule-table specific: hierarchy rules use it to separate
// containment from collaboration triggers.
type TriggerRule struct {
	Phrase string  `yaml:"phrase"`
	Weight float64 `yaml:"weight"`
	Kind   string  `yaml:"kind,omitempty"`
}

const (
	// HierarchyContainment marks triggers that nest one concept under another.
	HierarchyContainment = "containment"
	// HierarchyCollaboration marks triggers for peer association.
	HierarchyCollaboration = "collaboration"

	// InfluenceForward marks triggers where the influencer precedes the
	// trigger phrase ("A influenced B"); InfluenceReverse marks the
	// opposite reading ("A built upon B" means B influenced A).
	InfluenceForward = "forward"
	InfluenceReverse = "reverse"
)

// RuleSet is the full declarative rule inventory consumed by the scoring
// engine. Every vocabulary the pipeline matches against lives here.
type RuleSet struct {
	CausalTriggers    []TriggerRule `yaml:"causal_triggers"`
	TemporalTriggers  []TriggerRule `yaml:"temporal_triggers"`
	HierarchyTriggers []TriggerRule `yaml:"hierarchy_triggers"`
	InfluenceTriggers []TriggerRule `yaml:"influence_triggers"`

	MilestoneTerms       []string `yaml:"milestone_terms"`
	ConceptPhrases       []string `yaml:"concept_phrases"`
	TechnologyTerms      []string `yaml:"technology_terms"`
	OrganizationSuffixes []string `yaml:"organization_suffixes"`
	Honorifics           []string `yaml:"honorifics"`
	StopWords            []string `yaml:"stop_words"`

	// DomainKeywords boosts reference confidence when one appears near a
	// mention; keyed by entity type.
	DomainKeywords map[string][]string `yaml:"domain_keywords"`

	// ResearchAreas maps an area label to the keywords that signal it,
	// used by the disambiguator to separate same-name entities.
	ResearchAreas map[string][]string `yaml:"research_areas"`

	// Ontology is the static containment table that seeds the concept tree.
	Ontology map[string][]string `yaml:"ontology"`

	PositiveTerms []string `yaml:"positive_terms"`
	NegativeTerms []string `yaml:"negative_terms"`
	ContextClues  []string `yaml:"context_clues"`

	// TypeIndicators drive relationship type classification; keyed by
	// relation type.
	TypeIndicators map[string][]string `yaml:"type_indicators"`

	// ForwardIndicators and ReverseIndicators drive direction scoring;
	// BidirectionalIndicators mark mutual language.
	ForwardIndicators       []string `yaml:"forward_indicators"`
	ReverseIndicators       []string `yaml:"reverse_indicators"`
	BidirectionalIndicators []string `yaml:"bidirectional_indicators"`
}

func defaultRules() RuleSet {
	return RuleSet{
		CausalTriggers: []TriggerRule{
			{Phrase: "caused", Weight: 0.9},
			{Phrase: "led to", Weight: 0.9},
			{Phrase: "resulted in", Weight: 0.85},
			{Phrase: "enabled", Weight: 0.8},
			{Phrase: "pioneered", Weight: 0.8},
			{Phrase: "gave rise to", Weight: 0.75},
			{Phrase: "triggered", Weight: 0.75},
			{Phrase: "produced", Weight: 0.6},
			{Phrase: "due to", Weight: 0.6},
			{Phrase: "because of", Weight: 0.6},
		},
		TemporalTriggers: []TriggerRule{
			{Phrase: "before", Weight: 0.7},
			{Phrase: "after", Weight: 0.7},
			{Phrase: "subsequently", Weight: 0.75},
			{Phrase: "followed by", Weight: 0.8},
			{Phrase: "preceded", Weight: 0.8},
			{Phrase: "during", Weight: 0.6},
			{Phrase: "founded in", Weight: 0.85},
			{Phrase: "developed in", Weight: 0.85},
			{Phrase: "published in", Weight: 0.85},
			{Phrase: "discovered in", Weight: 0.85},
		},
		HierarchyTriggers: []TriggerRule{
			{Phrase: "part of", Weight: 0.85, Kind: HierarchyContainment},
			{Phrase: "branch of", Weight: 0.85, Kind: HierarchyContainment},
			{Phrase: "subfield of", Weight: 0.9, Kind: HierarchyContainment},
			{Phrase: "belongs to", Weight: 0.75, Kind: HierarchyContainment},
			{Phrase: "includes", Weight: 0.7, Kind: HierarchyContainment},
			{Phrase: "comprises", Weight: 0.7, Kind: HierarchyContainment},
			{Phrase: "within", Weight: 0.6, Kind: HierarchyContainment},
			{Phrase: "collaborated with", Weight: 0.85, Kind: HierarchyCollaboration},
			{Phrase: "worked with", Weight: 0.75, Kind: HierarchyCollaboration},
			{Phrase: "partnered with", Weight: 0.8, Kind: HierarchyCollaboration},
			{Phrase: "together with", Weight: 0.7, Kind: HierarchyCollaboration},
			{Phrase: "joined", Weight: 0.6, Kind: HierarchyCollaboration},
		},
		InfluenceTriggers: []TriggerRule{
			{Phrase: "influenced", Weight: 0.9, Kind: InfluenceForward},
			{Phrase: "inspired", Weight: 0.85, Kind: InfluenceForward},
			{Phrase: "built upon", Weight: 0.85, Kind: InfluenceReverse},
			{Phrase: "built on", Weight: 0.8, Kind: InfluenceReverse},
			{Phrase: "based on", Weight: 0.75, Kind: InfluenceReverse},
			{Phrase: "following the work of", Weight: 0.85, Kind: InfluenceReverse},
			{Phrase: "cited", Weight: 0.7, Kind: InfluenceReverse},
			{Phrase: "extended", Weight: 0.65, Kind: InfluenceReverse},
		},
		MilestoneTerms: []string{
			"breakthrough", "first", "nobel", "landmark", "seminal",
			"revolutionary", "award", "prize", "founding", "milestone",
		},
		ConceptPhrases: []string{
			"gene editing", "machine learning", "deep learning",
			"natural language processing", "quantum computing",
			"climate change", "artificial intelligence", "neural networks",
			"cancer immunotherapy", "protein folding", "drug discovery",
			"computer vision", "renewable energy",
		},
		TechnologyTerms: []string{
			"CRISPR", "CRISPR-Cas9", "mRNA", "GPU", "TPU", "DNA", "RNA",
			"PCR", "LLM", "GPT", "API", "SDK", "AlphaFold", "transformer",
		},
		OrganizationSuffixes: []string{
			"University", "Institute", "Laboratory", "Labs", "Foundation",
			"Corporation", "Inc", "Ltd", "Agency", "Center", "Centre",
			"College", "Hospital", "Department", "Company", "Group",
		},
		Honorifics: []string{"Dr.", "Dr", "Prof.", "Prof", "Professor", "Mr.", "Mrs.", "Ms.", "Sir"},
		StopWords: []string{
			"the", "and", "or", "but", "a", "an", "in", "on", "at", "to",
			"for", "of", "with", "by", "from", "about", "into", "through",
			"this", "that", "these", "those", "is", "are", "was", "were",
			"has", "have", "had", "its", "his", "her", "their", "our",
		},
		DomainKeywords: map[string][]string{
			"person": {
				"research", "researcher", "scientist", "professor", "study",
				"laboratory", "author", "team", "colleague",
			},
			"organization": {
				"founded", "based", "headquartered", "announced", "published",
				"funded", "institution",
			},
			"technology": {
				"developed", "technique", "method", "tool", "system",
				"platform", "technology", "using",
			},
			"concept": {
				"field", "theory", "approach", "paradigm", "discipline",
				"research", "area",
			},
		},
		ResearchAreas: map[string][]string{
			"genetics": {
				"crispr", "gene", "genome", "genetic", "dna", "editing",
				"sequencing", "mutation",
			},
			"oncology": {
				"cancer", "tumor", "immunotherapy", "oncology", "chemotherapy",
				"carcinoma", "metastasis",
			},
			"computing": {
				"algorithm", "machine learning", "neural", "software",
				"computing", "artificial intelligence", "model",
			},
			"climate": {
				"climate", "carbon", "emissions", "warming", "renewable",
				"sustainability",
			},
			"neuroscience": {
				"brain", "neuron", "cognitive", "neural circuit", "memory",
				"synapse",
			},
		},
		Ontology: map[string][]string{
			"science":                 {"biology", "computer science", "physics", "chemistry"},
			"biology":                 {"genetics", "immunology", "neuroscience"},
			"genetics":                {"gene editing", "genomics"},
			"gene editing":            {"CRISPR", "CRISPR-Cas9"},
			"immunology":              {"cancer immunotherapy"},
			"computer science":        {"artificial intelligence", "quantum computing"},
			"artificial intelligence": {"machine learning", "natural language processing", "computer vision"},
			"machine learning":        {"deep learning", "neural networks"},
		},
		PositiveTerms: []string{
			"effective", "safe", "improves", "increases", "beneficial",
			"supports", "confirms", "successful", "promising", "validated",
		},
		NegativeTerms: []string{
			"ineffective", "unsafe", "worsens", "decreases", "harmful",
			"fails", "contradicts", "refutes", "disputed", "no evidence",
		},
		ContextClues: []string{
			"directly", "significantly", "ultimately", "consequently",
			"as a result", "thereby",
		},
		TypeIndicators: map[string][]string{
			"causal": {
				"caused", "led to", "resulted", "enabled", "pioneered",
				"because", "due to", "triggered",
			},
			"temporal": {
				"before", "after", "during", "subsequently", "followed",
				"preceded", "then", "later",
			},
			"hierarchical": {
				"part of", "branch of", "subfield", "includes", "comprises",
				"belongs", "within", "under",
			},
			"associative": {
				"collaborated", "worked with", "associated", "related",
				"together", "partnered", "linked", "connected",
			},
		},
		ForwardIndicators: []string{
			"led to", "caused", "created", "developed", "enabled",
			"pioneered", "influenced", "produced", "founded",
		},
		ReverseIndicators: []string{
			"was caused by", "derived from", "emerged from", "stems from",
			"was developed by", "was founded by", "resulted from",
		},
		BidirectionalIndicators: []string{
			"collaborated", "together", "mutual", "jointly", "partnership",
			"each other", "both",
		},
	}
}
