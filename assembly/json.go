package assembly

import (
	"encoding/json"
	"fmt"
	"os"
)

// FromJSON parses an assembly description from JSON bytes and
// validates it. The format:
//
//	{
//	  "nodes": [
//	    {"label": "root", "children": [1, 2], "metadata": [{"key": "k", "value": "v"}]},
//	    {"label": "part", "link": "part.stp", "transform": [16 reals, column-major]}
//	  ]
//	}
//
// Metadata is an array so pair order survives; transform is optional
// and defaults to identity.
func FromJSON(data []byte) (*Tree, error) {
	var raw struct {
		Nodes []struct {
			Label     string    `json:"label"`
			Link      string    `json:"link"`
			Transform []float64 `json:"transform"`
			Children  []int     `json:"children"`
			Metadata  []struct {
				Key   string `json:"key"`
				Value string `json:"value"`
			} `json:"metadata"`
		} `json:"nodes"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	tree := &Tree{Nodes: make([]Node, len(raw.Nodes))}
	for i, rn := range raw.Nodes {
		n := Node{
			Label:    rn.Label,
			Link:     rn.Link,
			Children: rn.Children,
		}
		if len(rn.Transform) > 0 {
			if len(rn.Transform) != 16 {
				return nil, &ValidationError{Node: i, Msg: fmt.Sprintf("transform must have 16 entries, has %d", len(rn.Transform))}
			}
			var m Matrix
			copy(m[:], rn.Transform)
			n.Transform = &m
		}
		for _, p := range rn.Metadata {
			n.Metadata = append(n.Metadata, Property{Key: p.Key, Value: p.Value})
		}
		tree.Nodes[i] = n
	}

	if err := tree.Validate(); err != nil {
		return nil, err
	}
	return tree, nil
}

// LoadFile reads and parses an assembly description file.
func LoadFile(path string) (*Tree, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read assembly: %w", err)
	}
	return FromJSON(data)
}
