package similarity

import (
	"github.com/siherrmann/notegraph/model"
)

// classifierRule is one entry of the ordered classification table
type classifierRule struct {
	relType model.RelationType
	matches func(b *model.SimilarityBreakdown, c *model.SimilarityConfig) bool
}

// classifierRules is evaluated top to bottom, first match wins.
// The order is a load-bearing contract; thresholds come from the
// configuration, the ordering itself is fixed.
var classifierRules = []classifierRule{
	{model.RelationTypeHighlyRelated, func(b *model.SimilarityBreakdown, c *model.SimilarityConfig) bool {
		return b.Overall >= c.HighlyRelatedThreshold
	}},
	{model.RelationTypeSemanticallyRelated, func(b *model.SimilarityBreakdown, c *model.SimilarityConfig) bool {
		return b.Semantic >= c.SemanticallyRelatedThreshold
	}},
	{model.RelationTypeTopicallyRelated, func(b *model.SimilarityBreakdown, c *model.SimilarityConfig) bool {
		return b.Topic >= c.TopicallyRelatedThreshold
	}},
	{model.RelationTypeStructurallyRelated, func(b *model.SimilarityBreakdown, c *model.SimilarityConfig) bool {
		return b.Structural >= c.StructurallyRelatedThreshold
	}},
	{model.RelationTypeKeywordRelated, func(b *model.SimilarityBreakdown, c *model.SimilarityConfig) bool {
		return b.Keyword >= c.KeywordRelatedThreshold
	}},
	{model.RelationTypeLooselyRelated, func(b *model.SimilarityBreakdown, c *model.SimilarityConfig) bool {
		return b.Overall >= c.LooselyRelatedThreshold
	}},
}

// Classify maps a similarity breakdown to a relationship type using the
// ordered rule table. The second return value is false when no rule
// matched. Pairs falling into the weak window below the loose threshold
// are reported as WEAKLY_RELATED only when the configuration retains
// weak relationships; such pairs are surfaced for exploration but are
// excluded from default edge creation by the linking engine.
func Classify(breakdown *model.SimilarityBreakdown, config *model.SimilarityConfig) (model.RelationType, bool) {
	for _, rule := range classifierRules {
		if rule.matches(breakdown, config) {
			return rule.relType, true
		}
	}

	if config.EnableWeakRelationships &&
		breakdown.Overall >= config.WeakRelatedThreshold &&
		breakdown.Overall < config.LooselyRelatedThreshold {
		return model.RelationTypeWeaklyRelated, true
	}

	return "", false
}
