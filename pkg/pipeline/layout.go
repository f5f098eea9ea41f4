package pipeline

import (
	"encoding/json"

	"github.com/matzehuels/tangle/pkg/errors"
	"github.com/matzehuels/tangle/pkg/graph"
	"github.com/matzehuels/tangle/pkg/tangle"
)

// GenerateLayout runs the layout engine on a parsed builder and returns the
// encoded payload with its statistics.
func GenerateLayout(b *tangle.Builder) ([]byte, Stats, error) {
	l, err := b.Layout()
	if err != nil {
		return nil, Stats{}, err
	}
	data, err := graph.MarshalPayload(tangle.Extract(l))
	if err != nil {
		return nil, Stats{}, errors.Wrap(errors.ErrCodeInternal, err, "encode payload")
	}

	n := l.Network
	return data, Stats{
		Nodes:   n.NodeCount(),
		Bundles: n.BundleCount(),
		Links:   l.LinkCount(),
		Columns: len(l.Columns),
	}, nil
}

// payloadStats recovers node, bundle and link counts from an encoded payload.
func payloadStats(data []byte) (Stats, error) {
	var p struct {
		Nodes   []json.RawMessage `json:"nodes"`
		Bundles []struct {
			Links []json.RawMessage `json:"links"`
		} `json:"bundles"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		return Stats{}, err
	}
	s := Stats{Nodes: len(p.Nodes), Bundles: len(p.Bundles)}
	for _, b := range p.Bundles {
		s.Links += len(b.Links)
	}
	return s, nil
}
