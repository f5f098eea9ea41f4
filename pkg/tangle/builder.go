package tangle

import (
	"github.com/matzehuels/tangle/pkg/errors"
	"github.com/matzehuels/tangle/pkg/graph"
)

// Keys names the property fields the [Builder] reads identifiers from.
type Keys struct {
	EntityID       string `json:"entity_id" toml:"entity_id" yaml:"entity_id"`
	Source         string `json:"source" toml:"source" yaml:"source"`
	Target         string `json:"target" toml:"target" yaml:"target"`
	RelationshipID string `json:"relationship_id" toml:"relationship_id" yaml:"relationship_id"`
}

// DefaultKeys returns the standard field names: "id" for entities and
// relationships, "source" and "target" for endpoints.
func DefaultKeys() Keys {
	return Keys{
		EntityID:       "id",
		Source:         "source",
		Target:         "target",
		RelationshipID: "id",
	}
}

// Validate checks that every key is usable.
func (k Keys) Validate() error {
	for _, key := range []string{k.EntityID, k.Source, k.Target, k.RelationshipID} {
		if err := errors.ValidatePropertyKey(key); err != nil {
			return err
		}
	}
	return nil
}

// BuilderOption configures a [Builder].
type BuilderOption func(*Builder)

// WithConfig sets the geometry used by the layout.
func WithConfig(cfg Config) BuilderOption { return func(b *Builder) { b.cfg = cfg } }

// WithKeys sets the property field names.
func WithKeys(keys Keys) BuilderOption { return func(b *Builder) { b.keys = keys } }

// Builder is the construction API over property bags. It owns a private
// [Network]; a Builder is used for exactly one layout.
type Builder struct {
	net  *Network
	cfg  Config
	keys Keys
}

// NewBuilder creates a builder with [DefaultConfig] and [DefaultKeys] unless
// overridden by options.
func NewBuilder(opts ...BuilderOption) *Builder {
	b := &Builder{
		net:  NewNetwork(),
		cfg:  DefaultConfig(),
		keys: DefaultKeys(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Network returns the builder's network.
func (b *Builder) Network() *Network { return b.net }

// AddEntity adds a node. props must contain the entity id field; the whole
// bag is echoed into the node's payload row.
func (b *Builder) AddEntity(name string, props map[string]any) error {
	raw, ok := props[b.keys.EntityID]
	if !ok {
		return errors.Malformed("", "entity %q has no %q property", name, b.keys.EntityID)
	}
	id, err := ParseID(raw)
	if err != nil {
		return err
	}
	if err := errors.ValidateTitle(name); err != nil {
		return errors.Malformed(id.String(), "entity %s: %s", id, errors.UserMessage(err))
	}
	return b.net.AddNode(id, name, PropertiesFromMap(props))
}

// AddRelationship adds a parent→child edge from a property bag holding the
// source, target and relationship id fields. A relationship whose source
// equals its target is ignored.
func (b *Builder) AddRelationship(props map[string]any) error {
	source, err := b.endpoint(props, b.keys.Source)
	if err != nil {
		return err
	}
	target, err := b.endpoint(props, b.keys.Target)
	if err != nil {
		return err
	}
	rel, ok := props[b.keys.RelationshipID]
	if !ok {
		return errors.Malformed(source.String(), "relationship %s -> %s has no %q property", source, target, b.keys.RelationshipID)
	}
	return b.net.AddEdge(source, target, rel)
}

func (b *Builder) endpoint(props map[string]any, key string) (ID, error) {
	raw, ok := props[key]
	if !ok {
		return ID{}, errors.Malformed("", "relationship has no %q property", key)
	}
	return ParseID(raw)
}

// AddDocument adds every entity, then every relationship, of doc. It stops
// at the first error.
func (b *Builder) AddDocument(doc graph.Document) error {
	for _, e := range doc.Entities {
		if err := b.AddEntity(e.Name, e.Properties); err != nil {
			return err
		}
	}
	for _, r := range doc.Relationships {
		if err := b.AddRelationship(r); err != nil {
			return err
		}
	}
	return nil
}

// Layout runs the full pipeline and returns the geometry.
func (b *Builder) Layout() (*Layout, error) {
	return Compute(b.net, b.cfg)
}

// Build runs the full pipeline and returns the payload.
func (b *Builder) Build() (graph.Payload, error) {
	l, err := b.Layout()
	if err != nil {
		return graph.Payload{}, err
	}
	return Extract(l), nil
}

// BuildAndExport runs the full pipeline and returns the encoded UTF-8 JSON
// document.
func (b *Builder) BuildAndExport() ([]byte, error) {
	p, err := b.Build()
	if err != nil {
		return nil, err
	}
	data, err := graph.MarshalPayload(p)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode payload")
	}
	return data, nil
}
