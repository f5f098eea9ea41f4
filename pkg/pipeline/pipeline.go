// Package pipeline provides the document → layout pipeline for tangle.
//
// This package runs the complete parse → layout → encode sequence used by the
// CLI and the HTTP server, with caching and observability hooks, so every
// entry point produces byte-identical payloads for identical input.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Parse: load a [graph.Document] into a [tangle.Builder]
//  2. Layout: run the layout engine and encode the payload
//  3. Render: optionally draw the bundle graph for debugging (DOT, SVG, PDF, PNG)
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Layout(ctx, doc, pipeline.Options{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.Stdout.Write(result.Payload)
//
// Stages can also be run without a runner:
//
//	b, err := pipeline.Parse(doc, opts)
//	payload, stats, err := pipeline.GenerateLayout(b)
package pipeline

import (
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/tangle/pkg/cache"
	"github.com/matzehuels/tangle/pkg/errors"
	"github.com/matzehuels/tangle/pkg/observability"
	"github.com/matzehuels/tangle/pkg/render"
	"github.com/matzehuels/tangle/pkg/tangle"
)

// DefaultFormat is the default bundle graph output format.
const DefaultFormat = render.FormatDOT

// ValidateFormat checks that a bundle graph output format is supported.
func ValidateFormat(format string) error {
	if !slices.Contains(render.Formats, format) {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: %s)",
			format, strings.Join(render.Formats, ", "))
	}
	return nil
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Layout options
	Config tangle.Config `json:"config"`
	Keys   tangle.Keys   `json:"keys"`

	// Render options
	Format   string `json:"format,omitempty"`
	Detailed bool   `json:"detailed,omitempty"`

	// Refresh skips cache lookups; results are still stored.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	validated bool
}

// ValidateAndSetDefaults applies defaults and validates the options.
// Zero Config fields take their [tangle.DefaultConfig] value; empty key names
// take their [tangle.DefaultKeys] value. The method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	o.SetDefaults()
	if err := o.Config.Validate(); err != nil {
		return err
	}
	if err := o.Keys.Validate(); err != nil {
		return err
	}
	if err := ValidateFormat(o.Format); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetDefaults fills unset fields.
func (o *Options) SetDefaults() {
	o.Config = o.Config.WithDefaults()
	def := tangle.DefaultKeys()
	if o.Keys.EntityID == "" {
		o.Keys.EntityID = def.EntityID
	}
	if o.Keys.Source == "" {
		o.Keys.Source = def.Source
	}
	if o.Keys.Target == "" {
		o.Keys.Target = def.Target
	}
	if o.Keys.RelationshipID == "" {
		o.Keys.RelationshipID = def.RelationshipID
	}
	if o.Format == "" {
		o.Format = DefaultFormat
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{Config: o.Config, Keys: o.Keys}
}

// DOTKeyOpts returns cache key options for bundle graph rendering.
func (o *Options) DOTKeyOpts() cache.DOTKeyOpts {
	return cache.DOTKeyOpts{Keys: o.Keys, Format: o.Format, Detailed: o.Detailed}
}

// =============================================================================
// Results
// =============================================================================

// Result contains the output of a layout run.
type Result struct {
	// Payload is the encoded layout document.
	Payload []byte

	// DocHash is the content hash of the canonical input document.
	DocHash string

	// Stats contains counts and timing.
	Stats Stats

	// CacheHit reports whether Payload came from the cache.
	CacheHit bool
}

// Artifact is a rendered bundle graph.
type Artifact struct {
	Data     []byte
	Format   string
	DocHash  string
	CacheHit bool
}

// Stats contains layout statistics. On a cache hit Columns is zero and
// LayoutTime covers the lookup only.
type Stats struct {
	Entities      int
	Relationships int
	Nodes         int
	Bundles       int
	Links         int
	Columns       int
	LayoutTime    time.Duration
}

func (s Stats) hookStats() observability.LayoutStats {
	return observability.LayoutStats{
		Nodes:   s.Nodes,
		Bundles: s.Bundles,
		Links:   s.Links,
		Columns: s.Columns,
	}
}
