// ABOUTME: Context assembler that merges the primary chapter and related passages into one prompt context
// ABOUTME: Bounds the primary text and keeps the source list consistent with the labels in the context
package core

import (
	"fmt"
	"strings"

	"github.com/harper/muzakir/internal/models"
)

const (
	// MaxPrimaryChars bounds the primary chapter text, counted in runes
	MaxPrimaryChars   = 12000
	MaxRelatedSources = 3

	TruncationMarker = "[Content truncated...]"
	BlockDelimiter   = "\n\n---\n\n"
	RelatedHeader    = "RELATED CONTENT FROM OTHER CHAPTERS"

	// NoContextMarker stands in for an empty context in the answer prompt
	NoContextMarker = "No relevant context was found in the database for this question."
)

// ContextAssembler builds prompt context. It has no state.
type ContextAssembler struct{}

// NewContextAssembler creates a context assembler
func NewContextAssembler() *ContextAssembler {
	return &ContextAssembler{}
}

// Build combines an optional primary chapter with related passages. Related
// passages from the primary chapter itself are skipped and at most three are
// kept. Sources are deduplicated, primary first.
func (a *ContextAssembler) Build(primary *models.ChapterWithContent, related []models.DocumentMatch) models.AssembledContext {
	var blocks []string
	var sources []string
	seen := make(map[string]bool)
	addSource := func(label string) {
		if !seen[label] {
			seen[label] = true
			sources = append(sources, label)
		}
	}

	if primary != nil {
		label := primary.Label()
		blocks = append(blocks, fmt.Sprintf("PRIMARY SOURCE: %s\n\n%s", label, truncate(primary.Content, MaxPrimaryChars)))
		addSource(label)
	}

	var relatedBlocks []string
	for _, m := range related {
		if len(relatedBlocks) == MaxRelatedSources {
			break
		}
		if primary != nil && m.ChapterID == primary.ID {
			continue
		}
		label := m.Label()
		relatedBlocks = append(relatedBlocks, fmt.Sprintf("[Related Source %d — %s]\n%s", len(relatedBlocks)+1, label, m.Content))
		addSource(label)
	}

	if len(relatedBlocks) > 0 {
		joined := strings.Join(relatedBlocks, BlockDelimiter)
		if primary != nil {
			joined = RelatedHeader + ":\n\n" + joined
		}
		blocks = append(blocks, joined)
	}

	if sources == nil {
		sources = []string{}
	}
	return models.AssembledContext{
		Context: strings.Join(blocks, BlockDelimiter),
		Sources: sources,
	}
}

// truncate keeps the first max runes of s and appends the marker when it cut
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "\n\n" + TruncationMarker
}
