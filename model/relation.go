package model

import (
	"time"

	"github.com/google/uuid"
)

// RelationType represents the type of relationship between notes
type RelationType string

const (
	RelationTypeSimilar             RelationType = "SIMILAR"
	RelationTypeHighlyRelated       RelationType = "HIGHLY_RELATED"
	RelationTypeSemanticallyRelated RelationType = "SEMANTICALLY_RELATED"
	RelationTypeTopicallyRelated    RelationType = "TOPICALLY_RELATED"
	RelationTypeStructurallyRelated RelationType = "STRUCTURALLY_RELATED"
	RelationTypeKeywordRelated      RelationType = "KEYWORD_RELATED"
	RelationTypeLooselyRelated      RelationType = "LOOSELY_RELATED"
	RelationTypeWeaklyRelated       RelationType = "WEAKLY_RELATED"
	RelationTypeContains            RelationType = "CONTAINS"
	RelationTypeContainedBy         RelationType = "CONTAINED_BY"
	RelationTypePrerequisite        RelationType = "PREREQUISITE"
	RelationTypeFollows             RelationType = "FOLLOWS"
	RelationTypeConceptuallyRelated RelationType = "CONCEPTUALLY_RELATED"
)

// RelationCategory buckets relationship candidates during analysis
type RelationCategory string

const (
	CategorySemantic     RelationCategory = "semantic"
	CategoryHierarchical RelationCategory = "hierarchical"
	CategorySequential   RelationCategory = "sequential"
	CategoryConceptual   RelationCategory = "conceptual"
	CategoryWeak         RelationCategory = "weak"
)

// Relation represents a directed typed edge between two notes.
// The store treats (from, to, type) as the deduplication key.
type Relation struct {
	ID        int64        `json:"id"`
	FromRID   uuid.UUID    `json:"from_rid"`
	ToRID     uuid.UUID    `json:"to_rid"`
	Type      RelationType `json:"type"`
	Score     float64      `json:"score"`
	Metadata  Metadata     `json:"metadata,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
}

// Candidate is a relationship candidate produced by analysis,
// before caps and edge creation are applied.
type Candidate struct {
	NoteRID  uuid.UUID            `json:"note_rid"`
	Type     RelationType         `json:"type"`
	Category RelationCategory     `json:"category"`
	Score    float64              `json:"score"`
	Details  *SimilarityBreakdown `json:"details,omitempty"`
}
