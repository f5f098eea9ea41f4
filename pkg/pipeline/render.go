package pipeline

import (
	"context"

	"github.com/matzehuels/tangle/pkg/errors"
	"github.com/matzehuels/tangle/pkg/render/nodelink"
	"github.com/matzehuels/tangle/pkg/tangle"
)

// Render draws the bundle graph of a parsed builder in opts.Format.
// Layout errors such as cycles are returned unchanged.
func Render(ctx context.Context, b *tangle.Builder, opts Options) ([]byte, error) {
	opts.SetDefaults()
	if err := ValidateFormat(opts.Format); err != nil {
		return nil, err
	}

	dot, err := nodelink.ToDOT(b.Network(), nodelink.Options{Detailed: opts.Detailed})
	if err != nil {
		return nil, err
	}
	data, err := nodelink.Render(ctx, dot, opts.Format)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render %s", opts.Format)
	}
	return data, nil
}
