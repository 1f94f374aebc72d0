package model

import (
	"fmt"
	"strings"
)

// Sensitivity classifies a document chunk and controls which roles may
// retrieve it.
type Sensitivity string

const (
	SensitivityLow    Sensitivity = "low"
	SensitivityMedium Sensitivity = "medium"
	SensitivityHigh   Sensitivity = "high"
)

func ParseSensitivity(s string) (Sensitivity, error) {
	switch Sensitivity(strings.ToLower(strings.TrimSpace(s))) {
	case SensitivityLow:
		return SensitivityLow, nil
	case SensitivityMedium:
		return SensitivityMedium, nil
	case SensitivityHigh:
		return SensitivityHigh, nil
	}
	return "", fmt.Errorf("unknown sensitivity: %s", s)
}

// ChunkMeta is the metadata stored alongside each indexed chunk.
type ChunkMeta struct {
	Source      string      `json:"source"`
	Sensitivity Sensitivity `json:"sensitivity"`
}

// DocumentChunk is the unit of indexing and retrieval. Immutable once stored.
type DocumentChunk struct {
	ID          string      `json:"id"`
	Source      string      `json:"source"`
	Sensitivity Sensitivity `json:"sensitivity"`
	Content     string      `json:"content"`
	Ctime       int64       `json:"ctime"`
}

// ScoredChunk is a chunk with its similarity score from a search.
type ScoredChunk struct {
	DocumentChunk
	Score float32 `json:"score"`
}

// RetrievalResult holds the ranked matches of one search. Transient, never
// persisted.
type RetrievalResult struct {
	Chunks []ScoredChunk `json:"chunks"`
}

func (r *RetrievalResult) Empty() bool {
	return r == nil || len(r.Chunks) == 0
}

// Sources returns the distinct source names in first-seen order.
func (r *RetrievalResult) Sources() []string {
	if r == nil {
		return nil
	}
	seen := make(map[string]struct{}, len(r.Chunks))
	var sources []string
	for _, c := range r.Chunks {
		if _, ok := seen[c.Source]; ok {
			continue
		}
		seen[c.Source] = struct{}{}
		sources = append(sources, c.Source)
	}
	return sources
}
