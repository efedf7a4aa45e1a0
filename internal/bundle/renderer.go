package bundle

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/cosignet/internal/common"
)

// Renderer produces the completed document bytes from the original bytes
// and the filled field placements. PDF stamping lives outside the core; the
// core only consumes the result.
type Renderer interface {
	Render(ctx context.Context, raw []byte, fields []*Field) ([]byte, error)
}

// PassthroughRenderer returns the original bytes unchanged. Used when no
// stamping collaborator is wired in.
type PassthroughRenderer struct{}

func (PassthroughRenderer) Render(_ context.Context, raw []byte, _ []*Field) ([]byte, error) {
	return raw, nil
}

// Finalize renders and records the completed document artifact. The bundle
// must be completed and all required fields filled.
func Finalize(ctx context.Context, b *Bundle, r Renderer) error {
	if b.RecomputeStatus() != StatusCompleted || !b.IsComplete() {
		return fmt.Errorf("%w: cannot finalize, bundle status is %s", common.ErrIncomplete, b.Status)
	}

	rendered, err := r.Render(ctx, b.Document.Data, b.Fields)
	if err != nil {
		return fmt.Errorf("render completed document: %w", err)
	}

	b.CompletedDocument = &CompletedDocument{
		Data:        rendered,
		CompletedAt: nowFunc().UTC().Format(time.RFC3339),
	}
	b.touch()
	return nil
}
