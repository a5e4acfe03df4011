package csg

import (
	"fmt"
	"log"
)

// FoldStats summarises a fold.
type FoldStats struct {
	Pieces  int
	Merged  int
	Skipped int
}

// Apply evaluates op and rejects results without usable geometry.
func Apply(op Operator, a, b Solid, operation Operation) (*Brush, error) {
	result, err := op.Evaluate(a, b, operation)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, fmt.Errorf("%s: %w", operation, ErrEmptyResult)
	}
	if err := result.Geometry().check(); err != nil {
		result.Dispose()
		return nil, fmt.Errorf("%s: %w", operation, err)
	}
	return result, nil
}

// Fold combines brushes left to right with operation. A step that fails is
// logged, its brush disposed, and the accumulator kept as it was; one bad
// piece never aborts the fold. Merged pieces and replaced accumulators are
// disposed as the fold advances. Returns nil for an empty input.
func Fold(op Operator, brushes []*Brush, operation Operation, logger *log.Logger, label string) (*Brush, FoldStats) {
	stats := FoldStats{Pieces: len(brushes)}
	if len(brushes) == 0 {
		return nil, stats
	}
	if logger == nil {
		logger = log.Default()
	}

	acc := brushes[0]
	stats.Merged = 1
	nextLogPercent := 10

	for i := 1; i < len(brushes); i++ {
		piece := brushes[i]
		result, err := Apply(op, acc, piece, operation)
		if err != nil {
			logger.Printf("skipping %s piece %d: %v", label, i, err)
			stats.Skipped++
		} else {
			acc.Dispose()
			acc = result
			stats.Merged++
		}
		piece.Dispose()

		progress := (i + 1) * 100 / len(brushes)
		if progress >= nextLogPercent {
			logger.Printf("%s %s progress: %d%%", label, operation, progress)
			nextLogPercent = ((progress / 10) + 1) * 10
		}
	}

	return acc, stats
}
