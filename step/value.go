package step

// Value is one node of an entity argument tree. The variants cover
// every Part 21 parameter form, so records of unknown entity types are
// carried without loss.
type Value interface {
	isValue()
}

// Integer is a decimal integer literal.
type Integer int64

// Real is a floating-point literal.
type Real float64

// String is a single-quoted string. The stored text has embedded
// quotes undoubled; control directives such as \X\ sequences are kept
// verbatim.
type String string

// Enum is a dotted enumeration literal, stored without the dots.
type Enum string

// Ref is a reference to another entity, written #N.
type Ref int64

// Omitted is the $ placeholder for an absent optional parameter.
type Omitted struct{}

// Redeclared is the * placeholder for a parameter inherited from a
// supertype.
type Redeclared struct{}

// Binary is a double-quoted binary literal, stored as raw text.
type Binary string

// List is an ordered sequence of values.
type List []Value

// Typed is a named constructor wrapping an argument list. It serves
// both entity instance bodies and SELECT-typed parameters.
type Typed struct {
	Name string
	Args List
}

func (Integer) isValue()    {}
func (Real) isValue()       {}
func (String) isValue()     {}
func (Enum) isValue()       {}
func (Ref) isValue()        {}
func (Omitted) isValue()    {}
func (Redeclared) isValue() {}
func (Binary) isValue()     {}
func (List) isValue()       {}
func (Typed) isValue()      {}

// Equal reports whether two values have identical trees.
func Equal(a, b Value) bool {
	switch av := a.(type) {
	case Integer:
		bv, ok := b.(Integer)
		return ok && av == bv
	case Real:
		bv, ok := b.(Real)
		return ok && av == bv
	case String:
		bv, ok := b.(String)
		return ok && av == bv
	case Enum:
		bv, ok := b.(Enum)
		return ok && av == bv
	case Ref:
		bv, ok := b.(Ref)
		return ok && av == bv
	case Omitted:
		_, ok := b.(Omitted)
		return ok
	case Redeclared:
		_, ok := b.(Redeclared)
		return ok
	case Binary:
		bv, ok := b.(Binary)
		return ok && av == bv
	case List:
		bv, ok := b.(List)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}
		return true
	case Typed:
		bv, ok := b.(Typed)
		return ok && av.Name == bv.Name && Equal(av.Args, bv.Args)
	}
	return false
}
