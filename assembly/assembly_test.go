package assembly_test

import (
	"testing"

	"github.com/weldkit/go-stepweld/assembly"
	"gotest.tools/assert"
)

func TestValidate(t *testing.T) {
	t.Run("valid tree", func(t *testing.T) {
		tree := &assembly.Tree{Nodes: []assembly.Node{
			{Label: "root", Children: []int{1, 2}},
			{Label: "left", Link: "left.stp"},
			{Label: "right"},
		}}
		assert.NilError(t, tree.Validate())
	})

	t.Run("single node", func(t *testing.T) {
		tree := &assembly.Tree{Nodes: []assembly.Node{{Label: "only"}}}
		assert.NilError(t, tree.Validate())
	})

	t.Run("empty tree", func(t *testing.T) {
		tree := &assembly.Tree{}
		assert.ErrorContains(t, tree.Validate(), "empty assembly")
	})

	t.Run("child index out of range", func(t *testing.T) {
		tree := &assembly.Tree{Nodes: []assembly.Node{
			{Children: []int{5}},
		}}
		assert.ErrorContains(t, tree.Validate(), "out of range")
	})

	t.Run("own child", func(t *testing.T) {
		tree := &assembly.Tree{Nodes: []assembly.Node{
			{Children: []int{1}},
			{Children: []int{1}},
		}}
		assert.ErrorContains(t, tree.Validate(), "own child")
	})

	t.Run("duplicate child edge", func(t *testing.T) {
		tree := &assembly.Tree{Nodes: []assembly.Node{
			{Children: []int{1, 1}},
			{},
		}}
		assert.ErrorContains(t, tree.Validate(), "duplicate child edge")
	})

	t.Run("shared child", func(t *testing.T) {
		tree := &assembly.Tree{Nodes: []assembly.Node{
			{Children: []int{1, 2}},
			{Children: []int{3}},
			{Children: []int{3}},
			{},
		}}
		assert.ErrorContains(t, tree.Validate(), "shared by parents")
	})

	t.Run("multiple roots", func(t *testing.T) {
		tree := &assembly.Tree{Nodes: []assembly.Node{
			{Label: "a"},
			{Label: "b"},
		}}
		assert.ErrorContains(t, tree.Validate(), "multiple root nodes")
	})

	t.Run("cycle", func(t *testing.T) {
		tree := &assembly.Tree{Nodes: []assembly.Node{
			{Label: "root"},
			{Children: []int{2}},
			{Children: []int{1}},
		}}
		assert.ErrorContains(t, tree.Validate(), "unreachable from root")
	})

	t.Run("all nodes parented", func(t *testing.T) {
		tree := &assembly.Tree{Nodes: []assembly.Node{
			{Children: []int{1}},
			{Children: []int{0}},
		}}
		assert.ErrorContains(t, tree.Validate(), "no root node")
	})

	t.Run("link on non-leaf", func(t *testing.T) {
		tree := &assembly.Tree{Nodes: []assembly.Node{
			{Link: "root.stp", Children: []int{1}},
			{},
		}}
		assert.ErrorContains(t, tree.Validate(), "link on non-leaf")
	})

	t.Run("bad transform row", func(t *testing.T) {
		m := assembly.Identity()
		m[15] = 2
		tree := &assembly.Tree{Nodes: []assembly.Node{
			{Transform: &m},
		}}
		assert.ErrorContains(t, tree.Validate(), "last row")
	})
}

func TestRoot(t *testing.T) {
	tree := &assembly.Tree{Nodes: []assembly.Node{
		{Label: "leaf"},
		{Label: "top", Children: []int{0, 2}},
		{Label: "leaf2"},
	}}
	root, err := tree.Root()
	assert.NilError(t, err)
	assert.Equal(t, root, 1)
}

func TestMatrixColumns(t *testing.T) {
	m := assembly.Matrix{
		0, 1, 0, 0, // column 0: rotated +X
		-1, 0, 0, 0,
		0, 0, 1, 0, // column 2: rotated +Z
		-2, 0, 3, 1, // column 3: translation
	}

	x, y, z := m.Translation()
	assert.Equal(t, x, -2.0)
	assert.Equal(t, y, 0.0)
	assert.Equal(t, z, 3.0)

	x, y, z = m.RefDirection()
	assert.Equal(t, x, 0.0)
	assert.Equal(t, y, 1.0)
	assert.Equal(t, z, 0.0)

	x, y, z = m.Axis()
	assert.Equal(t, x, 0.0)
	assert.Equal(t, y, 0.0)
	assert.Equal(t, z, 1.0)
}

func TestIdentity(t *testing.T) {
	m := assembly.Identity()
	x, y, z := m.Translation()
	assert.Equal(t, x, 0.0)
	assert.Equal(t, y, 0.0)
	assert.Equal(t, z, 0.0)
	x, _, _ = m.RefDirection()
	assert.Equal(t, x, 1.0)
	_, _, z = m.Axis()
	assert.Equal(t, z, 1.0)
}
