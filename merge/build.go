package merge

import (
	"github.com/weldkit/go-stepweld/assembly"
	"github.com/weldkit/go-stepweld/step"
)

// Loader resolves and parses one linked STEP file. The driver wires
// the resolver, cycle guard, and cancellation check into it.
type Loader func(link string) (*step.Model, error)

// BuildAssembly walks the tree depth-first in child order and
// synthesizes the product structure: the shared context block once,
// then per node its product triple and shape, its metadata
// properties, its absorbed geometry under the node transform, and one
// assembly usage occurrence per parent-child edge. The tree must be
// valid; BuildAssembly does not re-check its shape.
func (m *Merger) BuildAssembly(tree *assembly.Tree, load Loader) error {
	root, err := tree.Root()
	if err != nil {
		return err
	}
	m.contexts()
	_, err = m.buildNode(tree, root, load)
	return err
}

func (m *Merger) buildNode(tree *assembly.Tree, idx int, load Loader) (nodeIDs, error) {
	n := tree.Nodes[idx]
	node := m.createNode(n)

	if n.Link != "" {
		src, err := load(n.Link)
		if err != nil {
			return nodeIDs{}, err
		}
		ids, err := m.Absorb(src)
		if err != nil {
			return nodeIDs{}, &LinkError{Link: n.Link, Err: err}
		}
		if geom, ok := m.selectRoot(src, ids, n.Link); ok {
			tf := assembly.Identity()
			if n.Transform != nil {
				tf = *n.Transform
			}
			m.attach(node, n.Label, n.Link, geom, tf)
		}
	}

	for _, c := range n.Children {
		child, err := m.buildNode(tree, c, load)
		if err != nil {
			return nodeIDs{}, err
		}
		m.connect(tree.Nodes[c].Label, node, child)
	}
	return node, nil
}
