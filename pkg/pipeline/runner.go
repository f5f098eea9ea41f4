package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/tangle/pkg/cache"
	"github.com/matzehuels/tangle/pkg/errors"
	"github.com/matzehuels/tangle/pkg/graph"
	"github.com/matzehuels/tangle/pkg/observability"
)

// Cache key types reported to observability hooks.
const (
	keyTypeLayout = "layout"
	keyTypeDOT    = "dot"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and server use it so caching and logging behave the same.
//
// The Runner is stateless except for the cache and logger; multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL overrides the default entry lifetimes when positive.
	TTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Layout computes the payload for doc, serving it from the cache when an
// identical document was laid out with identical options before.
func (r *Runner) Layout(ctx context.Context, doc graph.Document, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	docHash, err := hashDocument(doc)
	if err != nil {
		return nil, err
	}
	result := &Result{
		DocHash: docHash,
		Stats: Stats{
			Entities:      len(doc.Entities),
			Relationships: len(doc.Relationships),
		},
	}
	key := r.Keyer.LayoutKey(docHash, opts.LayoutKeyOpts())
	start := time.Now()

	if !opts.Refresh {
		if data, ok := r.lookup(ctx, opts.Logger, key, keyTypeLayout); ok {
			if stats, err := payloadStats(data); err == nil {
				result.Payload = data
				result.CacheHit = true
				result.Stats.Nodes = stats.Nodes
				result.Stats.Bundles = stats.Bundles
				result.Stats.Links = stats.Links
				result.Stats.LayoutTime = time.Since(start)
				opts.Logger.Debug("layout cache hit", "hash", shortHash(docHash))
				return result, nil
			}
			// Undecodable entries are recomputed and overwritten.
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	hooks := observability.Layout()
	hooks.OnLayoutStart(ctx, result.Stats.Entities, result.Stats.Relationships)

	var stats Stats
	b, err := Parse(doc, opts)
	if err == nil {
		result.Payload, stats, err = GenerateLayout(b)
	}
	elapsed := time.Since(start)
	hooks.OnLayoutComplete(ctx, stats.hookStats(), elapsed, err)
	if err != nil {
		return nil, err
	}

	result.Stats.Nodes = stats.Nodes
	result.Stats.Bundles = stats.Bundles
	result.Stats.Links = stats.Links
	result.Stats.Columns = stats.Columns
	result.Stats.LayoutTime = elapsed

	opts.Logger.Info("computed layout",
		"nodes", stats.Nodes,
		"bundles", stats.Bundles,
		"columns", stats.Columns,
		"duration", elapsed)

	r.store(ctx, opts.Logger, key, keyTypeLayout, result.Payload, cache.TTLLayout)
	return result, nil
}

// DOT renders the bundle graph of doc in opts.Format, with caching.
func (r *Runner) DOT(ctx context.Context, doc graph.Document, opts Options) (*Artifact, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	docHash, err := hashDocument(doc)
	if err != nil {
		return nil, err
	}
	artifact := &Artifact{Format: opts.Format, DocHash: docHash}
	key := r.Keyer.DOTKey(docHash, opts.DOTKeyOpts())

	if !opts.Refresh {
		if data, ok := r.lookup(ctx, opts.Logger, key, keyTypeDOT); ok {
			artifact.Data = data
			artifact.CacheHit = true
			return artifact, nil
		}
	}

	start := time.Now()
	b, err := Parse(doc, opts)
	if err != nil {
		return nil, err
	}
	if artifact.Data, err = Render(ctx, b, opts); err != nil {
		return nil, err
	}
	opts.Logger.Info("rendered bundle graph",
		"format", opts.Format,
		"bytes", len(artifact.Data),
		"duration", time.Since(start))

	r.store(ctx, opts.Logger, key, keyTypeDOT, artifact.Data, cache.TTLDOT)
	return artifact, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// lookup reads key from the cache. Backend errors are logged and treated as
// misses so a broken cache never fails a layout.
func (r *Runner) lookup(ctx context.Context, logger *log.Logger, key, keyType string) ([]byte, bool) {
	hooks := observability.Cache()
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		logger.Warn("cache read failed", "key", keyType, "err", err)
		hit = false
	}
	if !hit {
		hooks.OnCacheMiss(ctx, keyType)
		return nil, false
	}
	hooks.OnCacheHit(ctx, keyType)
	return data, true
}

func (r *Runner) store(ctx context.Context, logger *log.Logger, key, keyType string, data []byte, ttl time.Duration) {
	if r.TTL > 0 {
		ttl = r.TTL
	}
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		logger.Warn("cache write failed", "key", keyType, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

func hashDocument(doc graph.Document) (string, error) {
	data, err := graph.MarshalDocument(doc)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidInput, err, "encode document")
	}
	return cache.Hash(data), nil
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}
