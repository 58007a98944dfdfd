package step

// Entity is a single DATA section record: an id, a type name, and a
// symbolic argument tree. A complex instance (several typed blocks
// behind one id) has an empty type name and one Typed argument per
// block.
type Entity struct {
	ID   int64
	Type string
	Args List
}

// NewEntity builds a simple record.
func NewEntity(id int64, name string, args ...Value) *Entity {
	return &Entity{ID: id, Type: name, Args: List(args)}
}

// NewComplex builds a complex instance record.
func NewComplex(id int64, parts ...Typed) *Entity {
	args := make(List, len(parts))
	for i, p := range parts {
		args[i] = p
	}
	return &Entity{ID: id, Args: args}
}

// Complex reports whether the record is a complex instance.
func (e *Entity) Complex() bool {
	return e.Type == ""
}

// Refs returns every entity reference appearing in the argument tree,
// in left-to-right order. References may repeat.
func (e *Entity) Refs() []int64 {
	var refs []int64
	for _, arg := range e.Args {
		refs = appendRefs(refs, arg)
	}
	return refs
}

func appendRefs(refs []int64, v Value) []int64 {
	switch val := v.(type) {
	case Ref:
		refs = append(refs, int64(val))
	case List:
		for _, item := range val {
			refs = appendRefs(refs, item)
		}
	case Typed:
		for _, item := range val.Args {
			refs = appendRefs(refs, item)
		}
	}
	return refs
}

// Rewrite returns a copy of the record with its own id and every
// embedded reference mapped through ids. Ids without a mapping are
// kept unchanged; every other value is copied as is.
func (e *Entity) Rewrite(ids map[int64]int64) *Entity {
	id := e.ID
	if mapped, ok := ids[id]; ok {
		id = mapped
	}
	return &Entity{ID: id, Type: e.Type, Args: rewriteList(e.Args, ids)}
}

func rewriteList(l List, ids map[int64]int64) List {
	out := make(List, len(l))
	for i, v := range l {
		out[i] = rewriteValue(v, ids)
	}
	return out
}

func rewriteValue(v Value, ids map[int64]int64) Value {
	switch val := v.(type) {
	case Ref:
		if mapped, ok := ids[int64(val)]; ok {
			return Ref(mapped)
		}
		return val
	case List:
		return rewriteList(val, ids)
	case Typed:
		return Typed{Name: val.Name, Args: rewriteList(val.Args, ids)}
	default:
		return v
	}
}
