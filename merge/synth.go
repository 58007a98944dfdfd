package merge

import (
	"fmt"

	"github.com/weldkit/go-stepweld/assembly"
	"github.com/weldkit/go-stepweld/step"
)

// nodeIDs are the entities synthesized for one assembly node that
// later syntheses refer back to.
type nodeIDs struct {
	productDefinition int64
	shapeRep          int64
	shape             int64
}

// add synthesizes a simple record under the next free id.
func (m *Merger) add(name string, args ...step.Value) int64 {
	id := m.dest.Alloc()
	m.dest.Insert(step.NewEntity(id, name, args...))
	return id
}

// addComplex synthesizes a complex instance under the next free id.
func (m *Merger) addComplex(parts ...step.Typed) int64 {
	id := m.dest.Alloc()
	m.dest.Insert(step.NewComplex(id, parts...))
	return id
}

func str(s string) step.String { return step.String(s) }

func ref(id int64) step.Ref { return step.Ref(id) }

func reals(fs ...float64) step.List {
	l := make(step.List, len(fs))
	for i, f := range fs {
		l[i] = step.Real(f)
	}
	return l
}

// contexts synthesizes the shared context block on first use:
// application context and protocol, product and definition contexts,
// the three SI unit complexes, the length uncertainty, and the
// geometric representation context. All nodes and placements share
// these entities.
func (m *Merger) contexts() *sharedContext {
	if m.shared != nil {
		return m.shared
	}
	c := &sharedContext{}
	c.appContext = m.add("APPLICATION_CONTEXT",
		str("Configuration controlled 3D designs of mechanical parts and assemblies"))
	m.add("APPLICATION_PROTOCOL_DEFINITION",
		str("international standard"),
		str("configuration_control_3d_design_ed2_mim"),
		step.Integer(2004),
		ref(c.appContext))
	c.productContext = m.add("PRODUCT_CONTEXT",
		str(""), ref(c.appContext), str("mechanical"))
	c.definitionContext = m.add("PRODUCT_DEFINITION_CONTEXT",
		str("part_definition"), ref(c.appContext), str(""))
	c.solidAngleUnit = m.addComplex(
		step.Typed{Name: "NAMED_UNIT", Args: step.List{step.Redeclared{}}},
		step.Typed{Name: "SI_UNIT", Args: step.List{step.Omitted{}, step.Enum("STERADIAN")}},
		step.Typed{Name: "SOLID_ANGLE_UNIT", Args: step.List{}},
	)
	c.lengthUnit = m.addComplex(
		step.Typed{Name: "LENGTH_UNIT", Args: step.List{}},
		step.Typed{Name: "NAMED_UNIT", Args: step.List{step.Redeclared{}}},
		step.Typed{Name: "SI_UNIT", Args: step.List{step.Enum("MILLI"), step.Enum("METRE")}},
	)
	c.planeAngleUnit = m.addComplex(
		step.Typed{Name: "NAMED_UNIT", Args: step.List{step.Redeclared{}}},
		step.Typed{Name: "PLANE_ANGLE_UNIT", Args: step.List{}},
		step.Typed{Name: "SI_UNIT", Args: step.List{step.Omitted{}, step.Enum("RADIAN")}},
	)
	c.uncertainty = m.add("UNCERTAINTY_MEASURE_WITH_UNIT",
		step.Typed{Name: "LENGTH_MEASURE", Args: step.List{step.Real(1e-13)}},
		ref(c.lengthUnit),
		str("distance accuracy value"),
		str("edge curve and vertex point accuracy"))
	c.geometric = m.addComplex(
		step.Typed{Name: "GEOMETRIC_REPRESENTATION_CONTEXT", Args: step.List{step.Integer(3)}},
		step.Typed{Name: "GLOBAL_UNCERTAINTY_ASSIGNED_CONTEXT", Args: step.List{step.List{ref(c.uncertainty)}}},
		step.Typed{Name: "GLOBAL_UNIT_ASSIGNED_CONTEXT", Args: step.List{
			step.List{ref(c.lengthUnit), ref(c.planeAngleUnit), ref(c.solidAngleUnit)},
		}},
		step.Typed{Name: "REPRESENTATION_CONTEXT", Args: step.List{str(""), str("")}},
	)
	m.shared = c
	return c
}

// createNode synthesizes the product-structure entities of one
// assembly node: the PRODUCT / PRODUCT_DEFINITION_FORMATION /
// PRODUCT_DEFINITION triple, the node's shape, an empty shape
// representation in the shared geometric context, and one
// PROPERTY_DEFINITION chain per metadata pair, in pair order.
func (m *Merger) createNode(n assembly.Node) nodeIDs {
	c := m.contexts()
	product := m.add("PRODUCT",
		str(n.Label), str(n.Label), str(""), step.List{ref(c.productContext)})
	formation := m.add("PRODUCT_DEFINITION_FORMATION",
		str(""), str(""), ref(product))
	pd := m.add("PRODUCT_DEFINITION",
		str(""), str(""), ref(formation), ref(c.definitionContext))
	shape := m.add("PRODUCT_DEFINITION_SHAPE",
		str(""), step.Omitted{}, ref(pd))
	shapeRep := m.add("SHAPE_REPRESENTATION",
		str(n.Label), step.List{}, ref(c.geometric))
	m.add("SHAPE_DEFINITION_REPRESENTATION", ref(shape), ref(shapeRep))

	for _, p := range n.Metadata {
		propDef := m.add("PROPERTY_DEFINITION",
			str(p.Key), str(""), ref(pd))
		item := m.add("DESCRIPTIVE_REPRESENTATION_ITEM",
			str(p.Key), str(p.Value))
		rep := m.add("REPRESENTATION",
			str(""), step.List{ref(item)}, step.Omitted{})
		m.add("PROPERTY_DEFINITION_REPRESENTATION", ref(propDef), ref(rep))
	}

	return nodeIDs{productDefinition: pd, shapeRep: shapeRep, shape: shape}
}

// connect synthesizes the NEXT_ASSEMBLY_USAGE_OCCURRENCE that makes
// child a component of parent.
func (m *Merger) connect(childLabel string, parent, child nodeIDs) {
	m.add("NEXT_ASSEMBLY_USAGE_OCCURRENCE",
		str(childLabel), str(""), str(childLabel),
		ref(parent.productDefinition), ref(child.productDefinition),
		str(childLabel))
}

// attach places absorbed geometry under an assembly node. It
// synthesizes the placement chain decomposed from the transform
// (origin from column 3, axis from column 2, ref-direction from
// column 0), an ITEM_DEFINED_TRANSFORMATION over that placement, the
// shape relationship between the absorbed representation and the
// node's, and the CONTEXT_DEPENDENT_SHAPE_REPRESENTATION tying the
// relationship to the node's shape. Returns the placement id.
// Translation components pass through without unit conversion.
func (m *Merger) attach(node nodeIDs, label, link string, geom geometryRoot, tf assembly.Matrix) int64 {
	px, py, pz := tf.Translation()
	ax, ay, az := tf.Axis()
	rx, ry, rz := tf.RefDirection()

	point := m.add("CARTESIAN_POINT", str(""), reals(px, py, pz))
	axis := m.add("DIRECTION", str(""), reals(ax, ay, az))
	refDir := m.add("DIRECTION", str(""), reals(rx, ry, rz))
	placement := m.add("AXIS2_PLACEMENT_3D",
		str(""), ref(point), ref(axis), ref(refDir))
	transformation := m.add("ITEM_DEFINED_TRANSFORMATION",
		str(""), str(""), ref(placement), ref(placement))
	relationship := m.addComplex(
		step.Typed{Name: "REPRESENTATION_RELATIONSHIP", Args: step.List{
			str("Child > Parent"),
			str(fmt.Sprintf("%s > %s", link, label)),
			ref(geom.shapeRep),
			ref(node.shapeRep),
		}},
		step.Typed{Name: "REPRESENTATION_RELATIONSHIP_WITH_TRANSFORMATION", Args: step.List{ref(transformation)}},
		step.Typed{Name: "SHAPE_REPRESENTATION_RELATIONSHIP", Args: step.List{}},
	)
	m.add("CONTEXT_DEPENDENT_SHAPE_REPRESENTATION",
		ref(relationship), ref(node.shape))

	m.placements++
	return placement
}
