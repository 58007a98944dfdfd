// Package merge composes a single monolithic STEP file from an
// assembly tree. It absorbs the DATA sections of linked STEP files
// under fresh entity ids and synthesizes the product-structure
// entities (products, placements, assembly occurrences, properties)
// that wire the absorbed geometry into a legal assembly.
package merge

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/weldkit/go-stepweld/step"
)

// ap203Schema is the schema identifier written into FILE_SCHEMA.
const ap203Schema = "AP203_CONFIGURATION_CONTROLLED_3D_DESIGN_OF_MECHANICAL_PARTS_AND_ASSEMBLIES_MIM_LF { 1 0 10303 403 1 1 4 }"

// FileMeta carries the seven FILE_NAME header fields of the merged
// output.
type FileMeta struct {
	Name              string
	Timestamp         time.Time
	Author            string
	Organization      string
	Preprocessor      string
	OriginatingSystem string
	Authorization     string
}

// Merger builds one destination model. Entities are only added and
// ids only allocated upward, so the result is deterministic for a
// given sequence of absorptions and syntheses.
type Merger struct {
	dest *step.Model
	log  zerolog.Logger

	shared     *sharedContext
	placements int
}

// sharedContext holds the ids of the context entities synthesized
// once per merged model: application context and protocol, product
// and definition contexts, the SI units, and the geometric
// representation context.
type sharedContext struct {
	appContext        int64
	productContext    int64
	definitionContext int64
	solidAngleUnit    int64
	lengthUnit        int64
	planeAngleUnit    int64
	uncertainty       int64
	geometric         int64
}

// New returns a merger over a fresh model with an empty DATA section
// and a placeholder header. Warnings go to log; pass zerolog.Nop()
// to discard them.
func New(log zerolog.Logger) *Merger {
	dest := step.NewModel()
	dest.Header = []step.Typed{
		{Name: "FILE_DESCRIPTION", Args: step.List{
			step.List{step.String("")},
			step.String("2;1"),
		}},
		fileName(FileMeta{}),
		{Name: "FILE_SCHEMA", Args: step.List{
			step.List{step.String(ap203Schema)},
		}},
	}
	return &Merger{dest: dest, log: log}
}

// Model returns the destination model.
func (m *Merger) Model() *step.Model {
	return m.dest
}

// Placements returns the number of geometry placements synthesized so
// far, one per attached linked file.
func (m *Merger) Placements() int {
	return m.placements
}

// Absorb copies every record of src into the destination under fresh
// ids and returns the id mapping. The source must be referentially
// closed; the first dangling reference, in ascending id order, aborts
// the absorption with a *step.RefError. Source records are untouched.
func (m *Merger) Absorb(src *step.Model) (map[int64]int64, error) {
	if err := src.Validate(); err != nil {
		return nil, err
	}
	entities := src.Entities()
	ids := make(map[int64]int64, len(entities))
	for _, e := range entities {
		ids[e.ID] = m.dest.Alloc()
	}
	for _, e := range entities {
		m.dest.Insert(e.Rewrite(ids))
	}
	return ids, nil
}

// Finalize replaces the FILE_NAME header entry with the given
// metadata. The other header entries keep their placeholder values.
func (m *Merger) Finalize(meta FileMeta) {
	for i, h := range m.dest.Header {
		if h.Name == "FILE_NAME" {
			m.dest.Header[i] = fileName(meta)
		}
	}
}

func fileName(meta FileMeta) step.Typed {
	stamp := ""
	if !meta.Timestamp.IsZero() {
		stamp = meta.Timestamp.Format(time.RFC3339)
	}
	return step.Typed{Name: "FILE_NAME", Args: step.List{
		step.String(meta.Name),
		step.String(stamp),
		step.List{step.String(meta.Author)},
		step.List{step.String(meta.Organization)},
		step.String(meta.Preprocessor),
		step.String(meta.OriginatingSystem),
		step.String(meta.Authorization),
	}}
}
