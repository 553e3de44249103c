package linking

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/google/uuid"
	"github.com/siherrmann/notegraph/core/analysis"
	"github.com/siherrmann/notegraph/core/similarity"
	"github.com/siherrmann/notegraph/helper"
	"github.com/siherrmann/notegraph/model"
	"golang.org/x/sync/errgroup"
)

// NoteStore is the read side of the note store consumed by the linker
type NoteStore interface {
	SelectNote(ctx context.Context, rid uuid.UUID) (*model.Note, error)
	SelectAllNotes(ctx context.Context) ([]*model.Note, error)
}

// RelationStore writes typed edges. UpsertRelation must be idempotent
// on the (from, to, type) key so racing linking passes never duplicate
// an edge.
type RelationStore interface {
	UpsertRelation(ctx context.Context, relation *model.Relation) error
}

// Linker creates relationships between a note and the rest of the
// corpus. Scoring is pure and runs concurrently across candidate
// pairs; edge writes happen sequentially afterwards.
type Linker struct {
	notes     NoteStore
	relations RelationStore
	log       *slog.Logger
}

func NewLinker(notes NoteStore, relations RelationStore, logger *slog.Logger) *Linker {
	return &Linker{
		notes:     notes,
		relations: relations,
		log:       logger,
	}
}

// pairOutcome is the per-pair analysis result. A pair either yields
// candidates or is skipped with a reason, it never aborts the pass.
type pairOutcome struct {
	candidates []*model.Candidate
	skipped    bool
	reason     string
}

// LinkSimilar is the basic linking mode. It compares the note's
// embedding against every other note and creates bidirectional SIMILAR
// edges for pairs at or above the threshold. Returns the number of
// linked notes.
func (l *Linker) LinkSimilar(ctx context.Context, rid uuid.UUID, embedding []float32, threshold float64) (int, error) {
	if threshold < 0 || threshold > 1 {
		return 0, helper.NewError("link similar", fmt.Errorf("%w: threshold %v out of range [0, 1]", model.ErrInvalidInput, threshold))
	}
	if len(embedding) == 0 {
		return 0, helper.NewError("link similar", fmt.Errorf("%w: embedding must not be empty", model.ErrInvalidInput))
	}

	existing, err := l.notes.SelectAllNotes(ctx)
	if err != nil {
		return 0, helper.NewError("load notes", err)
	}

	linked := 0
	for _, other := range existing {
		if other.RID == rid {
			continue
		}
		if len(other.Embedding) == 0 {
			continue
		}

		score, err := similarity.Semantic(embedding, other.Embedding)
		if err != nil {
			l.log.Warn("skipping note pair", slog.String("note", other.RID.String()), slog.String("error", err.Error()))
			continue
		}
		if score < threshold {
			continue
		}

		if err := l.upsertBidirectional(ctx, rid, other.RID, model.RelationTypeSimilar, score, nil); err != nil {
			return linked, err
		}
		linked++
	}

	return linked, nil
}

// Link is the enhanced linking mode. It analyzes the note against the
// corpus, buckets candidates by category, keeps the top scorers per
// type and creates the surviving relationships bidirectionally.
func (l *Linker) Link(ctx context.Context, rid uuid.UUID, config *model.SimilarityConfig) (*model.LinkResult, error) {
	if config == nil {
		defaults := model.DefaultSimilarityConfig()
		config = &defaults
	}
	if err := config.Validate(); err != nil {
		return nil, helper.NewError("link", fmt.Errorf("%w: %v", model.ErrInvalidInput, err))
	}

	buckets, analyzed, skipped, err := l.Analyze(ctx, rid, config)
	if err != nil {
		return nil, err
	}

	result := &model.LinkResult{
		CreatedByType: map[model.RelationType]int{},
		Analyzed:      analyzed,
		Skipped:       skipped,
	}

	total := 0
	for _, category := range []model.RelationCategory{
		model.CategorySemantic,
		model.CategoryHierarchical,
		model.CategorySequential,
		model.CategoryConceptual,
	} {
		candidates := buckets[category]
		sort.SliceStable(candidates, func(i, j int) bool {
			return candidates[i].Score > candidates[j].Score
		})
		if len(candidates) > config.MaxRelationshipsPerType {
			candidates = candidates[:config.MaxRelationshipsPerType]
		}

		for _, candidate := range candidates {
			if config.MaxTotalRelationships > 0 && total >= config.MaxTotalRelationships {
				return result, nil
			}

			metadata := model.Metadata{"score": candidate.Score}
			if err := l.upsertBidirectional(ctx, rid, candidate.NoteRID, candidate.Type, candidate.Score, metadata); err != nil {
				l.log.Error("creating relationship failed",
					slog.String("type", string(candidate.Type)),
					slog.String("note", candidate.NoteRID.String()),
					slog.String("error", err.Error()))
				continue
			}

			result.CreatedByType[candidate.Type]++
			total++

			l.log.Info("created relationship",
				slog.String("type", string(candidate.Type)),
				slog.String("from", rid.String()),
				slog.String("to", candidate.NoteRID.String()),
				slog.Float64("score", candidate.Score))
		}
	}

	return result, nil
}

// Analyze scores the note against every other note in the corpus and
// buckets relationship candidates by category. Pairs failing analysis
// are logged and skipped; the returned counts cover analyzed and
// skipped pairs. Weak candidates are bucketed but never turned into
// edges by Link.
func (l *Linker) Analyze(ctx context.Context, rid uuid.UUID, config *model.SimilarityConfig) (map[model.RelationCategory][]*model.Candidate, int, int, error) {
	note, err := l.notes.SelectNote(ctx, rid)
	if err != nil {
		return nil, 0, 0, err
	}
	if len(note.Embedding) == 0 {
		return nil, 0, 0, helper.NewError("analyze", fmt.Errorf("%w: note %s has no embedding", model.ErrInvalidInput, rid))
	}

	existing, err := l.notes.SelectAllNotes(ctx)
	if err != nil {
		return nil, 0, 0, helper.NewError("load notes", err)
	}

	others := make([]*model.Note, 0, len(existing))
	for _, other := range existing {
		if other.RID == rid {
			continue
		}
		others = append(others, other)
	}

	cache := analysis.NewConceptCache()
	outcomes := make([]pairOutcome, len(others))

	group, groupCtx := errgroup.WithContext(ctx)
	for i, other := range others {
		group.Go(func() error {
			select {
			case <-groupCtx.Done():
				return groupCtx.Err()
			default:
			}
			outcomes[i] = l.analyzePair(note, other, config, cache)
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, 0, 0, helper.NewError("analyze", err)
	}

	buckets := map[model.RelationCategory][]*model.Candidate{}
	analyzed, skipped := 0, 0
	for i, outcome := range outcomes {
		if outcome.skipped {
			skipped++
			l.log.Warn("skipping note pair",
				slog.String("note", others[i].RID.String()),
				slog.String("reason", outcome.reason))
			continue
		}
		analyzed++
		for _, candidate := range outcome.candidates {
			buckets[candidate.Category] = append(buckets[candidate.Category], candidate)
		}
	}

	return buckets, analyzed, skipped, nil
}

// analyzePair scores one candidate pair and derives its relationship
// candidates. Errors become a skip outcome, never a pass failure.
func (l *Linker) analyzePair(note, other *model.Note, config *model.SimilarityConfig, cache *analysis.ConceptCache) pairOutcome {
	if len(other.Embedding) == 0 {
		return pairOutcome{skipped: true, reason: "missing embedding"}
	}

	breakdown, err := similarity.Score(note.Content, other.Content, note.Embedding, other.Embedding, &config.Weights)
	if err != nil {
		return pairOutcome{skipped: true, reason: err.Error()}
	}

	var candidates []*model.Candidate

	if relType, ok := similarity.Classify(breakdown, config); ok {
		category := model.CategorySemantic
		if relType == model.RelationTypeWeaklyRelated {
			category = model.CategoryWeak
		}
		candidates = append(candidates, &model.Candidate{
			NoteRID:  other.RID,
			Type:     relType,
			Category: category,
			Score:    breakdown.Overall,
			Details:  breakdown,
		})
	}

	if config.EnableConceptAnalysis {
		concepts := cache.Concepts(note.RID.String(), note.Content)
		otherConcepts := cache.Concepts(other.RID.String(), other.Content)

		if config.EnableHierarchicalDetection {
			if relType, ok := analysis.DetectHierarchical(concepts, otherConcepts, config.HierarchicalContainmentThreshold); ok {
				candidates = append(candidates, &model.Candidate{
					NoteRID:  other.RID,
					Type:     relType,
					Category: model.CategoryHierarchical,
					Score:    breakdown.Overall,
				})
			}
		}

		if config.EnableSequentialDetection {
			if relType, ok := analysis.DetectSequential(note.Content, other.Content, config.SequentialPatternThreshold); ok {
				candidates = append(candidates, &model.Candidate{
					NoteRID:  other.RID,
					Type:     relType,
					Category: model.CategorySequential,
					Score:    breakdown.Overall,
				})
			}
		}

		if overlap := analysis.ConceptOverlap(concepts, otherConcepts); overlap >= config.ConceptOverlapThreshold {
			candidates = append(candidates, &model.Candidate{
				NoteRID:  other.RID,
				Type:     model.RelationTypeConceptuallyRelated,
				Category: model.CategoryConceptual,
				Score:    overlap,
			})
		}
	}

	return pairOutcome{candidates: candidates}
}

// upsertBidirectional creates the edge pair A to B and B to A with the
// same type. Both writes go through the idempotent upsert.
func (l *Linker) upsertBidirectional(ctx context.Context, from, to uuid.UUID, relType model.RelationType, score float64, metadata model.Metadata) error {
	forward := &model.Relation{FromRID: from, ToRID: to, Type: relType, Score: score, Metadata: metadata}
	if err := l.relations.UpsertRelation(ctx, forward); err != nil {
		return helper.NewError("upsert relation", err)
	}

	backward := &model.Relation{FromRID: to, ToRID: from, Type: relType, Score: score, Metadata: metadata}
	if err := l.relations.UpsertRelation(ctx, backward); err != nil {
		return helper.NewError("upsert relation", err)
	}

	return nil
}
