package tangle

import "github.com/matzehuels/tangle/pkg/errors"

// Config holds the geometry constants shared by the layout and the renderer.
// All values are in pixels. Use [DefaultConfig] for the standard drawing.
type Config struct {
	Border                float64 `json:"border" toml:"border" yaml:"border"`
	NodeSpacing           float64 `json:"node_spacing" toml:"node_spacing" yaml:"node_spacing"`
	NodeWidth             float64 `json:"node_width" toml:"node_width" yaml:"node_width"`
	BundleWidth           float64 `json:"bundle_width" toml:"bundle_width" yaml:"bundle_width"`
	OutboundBundleSpacing float64 `json:"outbound_bundle_spacing" toml:"outbound_bundle_spacing" yaml:"outbound_bundle_spacing"`
	BallRadius            float64 `json:"ball_radius" toml:"ball_radius" yaml:"ball_radius"`
	LinkRadius            float64 `json:"link_radius" toml:"link_radius" yaml:"link_radius"`
	TextOffsetX           float64 `json:"text_offset_x" toml:"text_offset_x" yaml:"text_offset_x"`
	TextOffsetY           float64 `json:"text_offset_y" toml:"text_offset_y" yaml:"text_offset_y"`
}

// DefaultConfig returns the standard geometry.
func DefaultConfig() Config {
	return Config{
		Border:                30,
		NodeSpacing:           24,
		NodeWidth:             150,
		BundleWidth:           14,
		OutboundBundleSpacing: 6,
		BallRadius:            4,
		LinkRadius:            16,
		TextOffsetX:           2,
		TextOffsetY:           6,
	}
}

// WithDefaults returns c with every zero field replaced by its
// [DefaultConfig] value, so callers can set only the fields they care about.
// Negative values are kept for [Config.Validate] to reject.
func (c Config) WithDefaults() Config {
	def := DefaultConfig()
	fill := func(v *float64, d float64) {
		if *v == 0 {
			*v = d
		}
	}
	fill(&c.Border, def.Border)
	fill(&c.NodeSpacing, def.NodeSpacing)
	fill(&c.NodeWidth, def.NodeWidth)
	fill(&c.BundleWidth, def.BundleWidth)
	fill(&c.OutboundBundleSpacing, def.OutboundBundleSpacing)
	fill(&c.BallRadius, def.BallRadius)
	fill(&c.LinkRadius, def.LinkRadius)
	fill(&c.TextOffsetX, def.TextOffsetX)
	fill(&c.TextOffsetY, def.TextOffsetY)
	return c
}

// MinLevelOffset is the minimum vertical run a link needs for a legible
// curve: two corners of LinkRadius on each side.
func (c Config) MinLevelOffset() float64 { return 4 * c.LinkRadius }

// Validate rejects negative sizes and a zero node spacing.
func (c Config) Validate() error {
	fields := []struct {
		name  string
		value float64
	}{
		{"border", c.Border},
		{"node_spacing", c.NodeSpacing},
		{"node_width", c.NodeWidth},
		{"bundle_width", c.BundleWidth},
		{"outbound_bundle_spacing", c.OutboundBundleSpacing},
		{"ball_radius", c.BallRadius},
		{"link_radius", c.LinkRadius},
	}
	for _, f := range fields {
		if f.value < 0 {
			return errors.New(errors.ErrCodeInvalidConfig, "%s must not be negative (got %g)", f.name, f.value)
		}
	}
	if c.NodeSpacing == 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "node_spacing must be positive")
	}
	return nil
}
