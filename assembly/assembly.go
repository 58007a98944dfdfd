// Package assembly models the product-structure description consumed
// by the merge driver: an ordered tree of nodes, each with an optional
// label, rigid-body transform, key/value metadata, and at most one
// link to an external STEP file.
package assembly

import "fmt"

// Matrix is a 4x4 rigid-body transform in column-major order. The
// upper-left 3x3 block is assumed orthogonal; a non-orthogonal block
// is undefined behavior and must be rejected by whoever produces the
// tree.
type Matrix [16]float64

// Identity returns the identity transform.
func Identity() Matrix {
	return Matrix{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Translation returns column 3, the placement origin.
func (m Matrix) Translation() (x, y, z float64) {
	return m[12], m[13], m[14]
}

// Axis returns column 2, the rotated +Z axis.
func (m Matrix) Axis() (x, y, z float64) {
	return m[8], m[9], m[10]
}

// RefDirection returns column 0, the rotated +X axis.
func (m Matrix) RefDirection() (x, y, z float64) {
	return m[0], m[1], m[2]
}

// affine reports whether the last row is 0 0 0 1.
func (m Matrix) affine() bool {
	return m[3] == 0 && m[7] == 0 && m[11] == 0 && m[15] == 1
}

// Property is one ordered metadata pair.
type Property struct {
	Key   string
	Value string
}

// Node is a single assembly node. Children index into the owning
// tree's node slice. A nil Transform means identity. A node with a
// link must be a leaf.
type Node struct {
	Label     string
	Link      string
	Transform *Matrix
	Children  []int
	Metadata  []Property
}

// Tree is an ordered assembly tree. Exactly one node, at any index,
// is the root: the node no other node lists as a child.
type Tree struct {
	Nodes []Node
}

// ValidationError reports a malformed assembly tree. Node is the index
// of the offending node.
type ValidationError struct {
	Node int
	Msg  string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("assembly: node %d: %s", e.Node, e.Msg)
}

// Root returns the index of the unique node that no other node lists
// as a child. It fails when the tree is empty or the root is not
// unique.
func (t *Tree) Root() (int, error) {
	if len(t.Nodes) == 0 {
		return 0, &ValidationError{Node: 0, Msg: "empty assembly"}
	}
	parents := make([]int, len(t.Nodes))
	for i, n := range t.Nodes {
		for _, c := range n.Children {
			if c < 0 || c >= len(t.Nodes) {
				return 0, &ValidationError{Node: i, Msg: fmt.Sprintf("child index %d out of range", c)}
			}
			parents[c]++
		}
	}
	root := -1
	for i, p := range parents {
		if p > 0 {
			continue
		}
		if root >= 0 {
			return 0, &ValidationError{Node: i, Msg: "multiple root nodes"}
		}
		root = i
	}
	if root < 0 {
		// every node has a parent, so the edges must contain a cycle
		return 0, &ValidationError{Node: 0, Msg: "no root node"}
	}
	return root, nil
}

// Validate checks the tree shape: child indices in range, no duplicate
// child edges, no shared children, exactly one root, every node
// reachable from it, links only on leaves, and transforms affine.
func (t *Tree) Validate() error {
	root, err := t.Root()
	if err != nil {
		return err
	}

	seen := make(map[int]int, len(t.Nodes)) // child index -> parent index
	for i, n := range t.Nodes {
		for _, c := range n.Children {
			if c == i {
				return &ValidationError{Node: i, Msg: "node is its own child"}
			}
			if prev, dup := seen[c]; dup {
				if prev == i {
					return &ValidationError{Node: i, Msg: fmt.Sprintf("duplicate child edge to node %d", c)}
				}
				return &ValidationError{Node: c, Msg: fmt.Sprintf("shared by parents %d and %d", prev, i)}
			}
			seen[c] = i
		}
		if n.Link != "" && len(n.Children) > 0 {
			return &ValidationError{Node: i, Msg: "link on non-leaf node"}
		}
		if n.Transform != nil && !n.Transform.affine() {
			return &ValidationError{Node: i, Msg: "transform last row must be 0 0 0 1"}
		}
	}

	// single parents and one root still allow cycles detached from the
	// root; walking from the root proves there are none
	visited := make([]bool, len(t.Nodes))
	stack := []int{root}
	count := 0
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[i] {
			continue
		}
		visited[i] = true
		count++
		stack = append(stack, t.Nodes[i].Children...)
	}
	if count != len(t.Nodes) {
		for i, ok := range visited {
			if !ok {
				return &ValidationError{Node: i, Msg: "unreachable from root"}
			}
		}
	}
	return nil
}
