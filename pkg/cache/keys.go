package cache

import "github.com/matzehuels/tangle/pkg/tangle"

// Keyer derives cache keys. Keys embed a hash of every input that affects the
// cached bytes.
type Keyer interface {
	// LayoutKey is the key of a payload computed from the document with hash
	// docHash.
	LayoutKey(docHash string, opts LayoutKeyOpts) string

	// DOTKey is the key of a rendered bundle graph.
	DOTKey(docHash string, opts DOTKeyOpts) string
}

// LayoutKeyOpts are the layout inputs besides the document.
type LayoutKeyOpts struct {
	Config tangle.Config
	Keys   tangle.Keys
}

// DOTKeyOpts are the debug rendering inputs besides the document.
type DOTKeyOpts struct {
	Keys     tangle.Keys
	Format   string
	Detailed bool
}

// DefaultKeyer produces keys of the form "<kind>:<sha256>".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// LayoutKey implements [Keyer].
func (DefaultKeyer) LayoutKey(docHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", docHash, opts.Config, opts.Keys)
}

// DOTKey implements [Keyer].
func (DefaultKeyer) DOTKey(docHash string, opts DOTKeyOpts) string {
	return hashKey("dot", docHash, opts.Keys, opts.Format, opts.Detailed)
}
