package merge

import (
	"sort"
	"strings"

	"github.com/weldkit/go-stepweld/step"
)

// geometryRoot names the top of an absorbed file's product-structure
// hierarchy. productDefinition is zero when the root was selected by
// the representation fallback.
type geometryRoot struct {
	productDefinition int64
	shapeRep          int64
}

// findRoots scans a model's product structure for its root nodes: the
// (PRODUCT_DEFINITION, SHAPE_REPRESENTATION) pairs whose product
// definition is never the child of a NEXT_ASSEMBLY_USAGE_OCCURRENCE.
// The walk follows PRODUCT_DEFINITION_SHAPE to its product definition
// and SHAPE_DEFINITION_REPRESENTATION from the shape to the shape
// representation. Results are sorted by product definition id.
func findRoots(src *step.Model) []geometryRoot {
	shapeToShapeRep := make(map[int64]int64) // PRODUCT_DEFINITION_SHAPE -> SHAPE_REPRESENTATION
	type defShape struct{ def, shape int64 }
	var defShapes []defShape
	parented := make(map[int64]bool) // product definitions used as NAUO children

	for _, e := range src.Entities() {
		refs := e.Refs()
		switch e.Type {
		case "SHAPE_DEFINITION_REPRESENTATION":
			if len(refs) == 2 {
				shapeToShapeRep[refs[0]] = refs[1]
			}
		case "PRODUCT_DEFINITION_SHAPE":
			if len(refs) > 0 {
				defShapes = append(defShapes, defShape{def: refs[len(refs)-1], shape: e.ID})
			}
		case "NEXT_ASSEMBLY_USAGE_OCCURRENCE":
			if len(refs) == 2 {
				parented[refs[1]] = true
			}
		}
	}

	var roots []geometryRoot
	for _, ds := range defShapes {
		if parented[ds.def] {
			continue
		}
		shapeRep, ok := shapeToShapeRep[ds.shape]
		if !ok {
			continue
		}
		roots = append(roots, geometryRoot{productDefinition: ds.def, shapeRep: shapeRep})
	}
	sort.Slice(roots, func(i, j int) bool {
		return roots[i].productDefinition < roots[j].productDefinition
	})
	return roots
}

// fallbackRoot returns the highest-id record whose type name, or any
// constructor of a complex instance, ends in REPRESENTATION. It is
// the last resort when the product-structure walk finds nothing.
func fallbackRoot(src *step.Model) (int64, bool) {
	var id int64
	found := false
	for _, e := range src.Entities() {
		if isRepresentation(e) {
			id = e.ID
			found = true
		}
	}
	return id, found
}

func isRepresentation(e *step.Entity) bool {
	if !e.Complex() {
		return strings.HasSuffix(e.Type, "REPRESENTATION")
	}
	for _, part := range e.Args {
		if t, ok := part.(step.Typed); ok && strings.HasSuffix(t.Name, "REPRESENTATION") {
			return true
		}
	}
	return false
}

// selectRoot picks the geometry root of a freshly absorbed source
// and maps it through the absorption ids. The product-structure walk
// wins; when it finds several roots the lowest product definition id
// is attached and the rest are reported. A heuristic fallback and an
// empty result are both logged as warnings.
func (m *Merger) selectRoot(src *step.Model, ids map[int64]int64, link string) (geometryRoot, bool) {
	roots := findRoots(src)
	if len(roots) > 0 {
		if len(roots) > 1 {
			m.log.Warn().
				Str("link", link).
				Int("roots", len(roots)).
				Msg("multiple geometry roots, attaching the first")
		}
		r := roots[0]
		return geometryRoot{
			productDefinition: ids[r.productDefinition],
			shapeRep:          ids[r.shapeRep],
		}, true
	}
	if id, ok := fallbackRoot(src); ok {
		m.log.Warn().
			Str("link", link).
			Int64("id", ids[id]).
			Msg("geometry root heuristically selected")
		return geometryRoot{shapeRep: ids[id]}, true
	}
	m.log.Warn().Str("link", link).Msg("no geometry root found")
	return geometryRoot{}, false
}
