package discovery

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/araddon/dateparse"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"golang.org/x/sync/errgroup"

	"github.com/relgraph/relgraph/pkg/cluster"
	"github.com/relgraph/relgraph/pkg/common"
	"github.com/relgraph/relgraph/pkg/extract"
	"github.com/relgraph/relgraph/pkg/graph"
	"github.com/relgraph/relgraph/pkg/logger"
	"github.com/relgraph/relgraph/pkg/relation"
)

// Run holds every result of one discovery pass. All state is scoped to
// the run object; a rerun builds a fresh Run from scratch instead of
// patching an old one. Once Discover returns, the Run and its Graph are
// immutable and safe for concurrent reads.
type Run struct {
	ID        string                        `json:"id"`
	Documents int                           `json:"documents"`
	Coref     *cluster.CoreferenceResult    `json:"coreference"`
	Disambig  *cluster.DisambiguationResult `json:"disambiguation"`

	Causal        *relation.CausalResult        `json:"causal"`
	Temporal      *relation.TemporalResult      `json:"temporal"`
	Hierarchy     *relation.HierarchyResult     `json:"hierarchy"`
	Influence     *relation.InfluenceResult     `json:"influence"`
	Evidence      *relation.EvidenceResult      `json:"evidence"`
	Contradiction *relation.ContradictionResult `json:"contradiction"`

	Relationships []common.Relationship `json:"relationships"`
	Graph         *graph.Graph          `json:"-"`

	// Errors lists per-document extraction failures; ValidationErrors
	// lists producer records that failed conversion. Neither aborts
	// the run.
	Errors           []string `json:"errors,omitempty"`
	ValidationErrors []string `json:"validation_errors,omitempty"`
}

// Discover runs the full pipeline: extraction, coreference clustering,
// disambiguation, the six relationship extractors, classification,
// merging, and graph assembly. Empty input yields an empty Run, not an
// error.
func (c *Client) Discover(ctx context.Context, docs []common.Document) (*Run, error) {
	runID, err := gonanoid.New()
	if err != nil {
		return nil, fmt.Errorf("generating run id: %w", err)
	}
	run := &Run{ID: runID, Documents: len(docs)}

	logger.Info("[Discovery] Run started", "run_id", runID, "documents", len(docs))

	refs, err := c.extractAll(ctx, docs, run)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	clusterer := cluster.NewClusterer(c.cfg)
	run.Coref, err = clusterer.Cluster(refs)
	if err != nil {
		return nil, fmt.Errorf("coreference clustering: %w", err)
	}

	disambiguator := cluster.NewDisambiguator(c.cfg)
	run.Disambig, err = disambiguator.Disambiguate(run.Coref.Clusters)
	if err != nil {
		return nil, fmt.Errorf("disambiguation: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entities := relation.NewEntitySet(c.cfg, run.Disambig.Clusters)
	if err := c.discoverRelationships(ctx, docs, entities, run); err != nil {
		return nil, err
	}

	classifier := relation.NewClassifier(c.cfg)
	var all []common.Relationship
	for _, rels := range [][]common.Relationship{
		run.Causal.Relationships, run.Temporal.Relationships,
		run.Hierarchy.Relationships, run.Influence.Relationships,
	} {
		for _, rel := range rels {
			all = append(all, classifier.Classify(rel, entities))
		}
	}
	run.Relationships = relation.MergeRelationships(c.cfg, all)

	run.collectValidationErrors()

	// Graph assembly mutates shared structure, so it runs serialized
	// after the concurrent stages; the published graph is immutable.
	run.Graph = graph.Build(c.cfg, run.Disambig.Clusters, run.Relationships, docDates(docs))

	logger.Info("[Discovery] Run completed",
		"run_id", runID,
		"clusters", len(run.Disambig.Clusters),
		"relationships", len(run.Relationships),
		"errors", len(run.Errors))
	return run, nil
}

// extractAll fans extraction out across documents. A failing document is
// recorded and skipped; it never aborts the batch.
func (c *Client) extractAll(ctx context.Context, docs []common.Document, run *Run) ([]common.EntityReference, error) {
	extractor, err := extract.NewExtractor(c.cfg)
	if err != nil {
		return nil, fmt.Errorf("creating extractor: %w", err)
	}

	eg, gCtx := errgroup.WithContext(ctx)
	eg.SetLimit(c.parallelDocuments)
	mutex := sync.Mutex{}

	var refs []common.EntityReference
	for _, doc := range docs {
		d := doc
		eg.Go(func() error {
			select {
			case <-gCtx.Done():
				return nil
			default:
				docRefs, err := extractor.Extract(d)

				mutex.Lock()
				defer mutex.Unlock()
				if err != nil {
					run.Errors = append(run.Errors,
						fmt.Sprintf("document %s: extraction failed: %v", d.ID, err))
					return nil
				}
				refs = append(refs, docRefs...)
				return nil
			}
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("extracting references: %w", err)
	}
	return refs, nil
}

// discoverRelationships schedules the six extractors concurrently. They
// share only the immutable entity set and the raw documents, so each
// writes its own result field without coordination.
func (c *Client) discoverRelationships(ctx context.Context, docs []common.Document, entities *relation.EntitySet, run *Run) error {
	eg, _ := errgroup.WithContext(ctx)

	eg.Go(func() error {
		var err error
		run.Causal, err = relation.NewCausalExtractor(c.cfg).Extract(docs, entities)
		return err
	})
	eg.Go(func() error {
		var err error
		run.Temporal, err = relation.NewTemporalExtractor(c.cfg).Extract(docs, entities)
		return err
	})
	eg.Go(func() error {
		var err error
		run.Hierarchy, err = relation.NewHierarchyExtractor(c.cfg).Extract(docs, entities)
		return err
	})
	eg.Go(func() error {
		var err error
		run.Influence, err = relation.NewInfluenceExtractor(c.cfg).Extract(docs, entities)
		return err
	})
	eg.Go(func() error {
		var err error
		run.Evidence, err = relation.NewEvidenceLinker(c.cfg).Link(docs, entities)
		return err
	})
	eg.Go(func() error {
		var err error
		run.Contradiction, err = relation.NewContradictionDetector(c.cfg).Detect(docs)
		return err
	})

	if err := eg.Wait(); err != nil {
		return fmt.Errorf("discovering relationships: %w", err)
	}
	return nil
}

func (run *Run) collectValidationErrors() {
	run.ValidationErrors = append(run.ValidationErrors, run.Causal.ValidationErrors...)
	run.ValidationErrors = append(run.ValidationErrors, run.Temporal.ValidationErrors...)
	run.ValidationErrors = append(run.ValidationErrors, run.Hierarchy.ValidationErrors...)
	run.ValidationErrors = append(run.ValidationErrors, run.Influence.ValidationErrors...)
}

// docDates parses metadata dates for temporal-range queries. Unparsable
// dates are left out rather than reported.
func docDates(docs []common.Document) map[string]time.Time {
	dates := make(map[string]time.Time)
	for _, doc := range docs {
		if doc.Metadata.Date == "" {
			continue
		}
		if parsed, err := dateparse.ParseAny(doc.Metadata.Date); err == nil {
			dates[doc.ID] = parsed
		}
	}
	return dates
}
