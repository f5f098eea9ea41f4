package pipeline

import (
	"github.com/matzehuels/tangle/pkg/graph"
	"github.com/matzehuels/tangle/pkg/tangle"
)

// Parse loads doc into a fresh builder configured by opts. Defaults are
// applied to a copy of opts.
func Parse(doc graph.Document, opts Options) (*tangle.Builder, error) {
	opts.SetDefaults()
	b := tangle.NewBuilder(tangle.WithConfig(opts.Config), tangle.WithKeys(opts.Keys))
	if err := b.AddDocument(doc); err != nil {
		return nil, err
	}
	return b, nil
}
