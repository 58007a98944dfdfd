// Package step reads and writes ISO 10303-21 exchange structures. It
// provides a Part 21 lexer and parser, a symbolic entity model that
// carries unknown entity types without loss, and a deterministic
// emitter. No schema knowledge is built in; AP-specific vocabulary is
// the caller's business.
package step

import (
	sorted "github.com/tobshub/go-sortedmap"
)

// Model is one exchange structure: the header entries, the DATA
// section keyed by entity id, and the next free id. The DATA section
// is kept sorted by id so every traversal runs in ascending id order.
type Model struct {
	Header []Typed
	NextID int64

	data *sorted.SortedMap[int64, *Entity]
}

// NewModel returns an empty model with no header and NextID 1.
func NewModel() *Model {
	return &Model{
		NextID: 1,
		data: sorted.New[int64, *Entity](0, func(a, b *Entity) bool {
			return a.ID < b.ID
		}),
	}
}

// Insert adds a record. It reports false, and leaves the model
// unchanged, when the id is already taken. NextID advances past the
// inserted id.
func (m *Model) Insert(e *Entity) bool {
	if !m.data.Insert(e.ID, e) {
		return false
	}
	if e.ID >= m.NextID {
		m.NextID = e.ID + 1
	}
	return true
}

// Get returns the record with the given id.
func (m *Model) Get(id int64) (*Entity, bool) {
	return m.data.Get(id)
}

// Len returns the number of records in the DATA section.
func (m *Model) Len() int {
	return m.data.Len()
}

// Alloc reserves the next free id and returns it.
func (m *Model) Alloc() int64 {
	id := m.NextID
	m.NextID++
	return id
}

// Entities returns the records in ascending id order.
func (m *Model) Entities() []*Entity {
	out := make([]*Entity, 0, m.data.Len())
	iterCh, err := m.data.IterCh()
	if err != nil {
		// the map is empty
		return out
	}
	for rec := range iterCh.Records() {
		out = append(out, rec.Val)
	}
	return out
}

// Validate checks referential closure: every reference in every record
// must target an id present in the model. The first dangling reference
// found in ascending id order is returned as a *RefError.
func (m *Model) Validate() error {
	for _, e := range m.Entities() {
		for _, ref := range e.Refs() {
			if _, ok := m.Get(ref); !ok {
				return &RefError{From: e.ID, To: ref}
			}
		}
	}
	return nil
}
