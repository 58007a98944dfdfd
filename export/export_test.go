package export_test

import (
	"path/filepath"
	"testing"

	"gotest.tools/assert"

	"github.com/weldkit/go-stepweld/export"
	"github.com/weldkit/go-stepweld/step"
)

const fixture = `ISO-10303-21;
HEADER;
FILE_DESCRIPTION((''),'2;1');
ENDSEC;
DATA;
#1=CARTESIAN_POINT('',(0.,0.,0.));
#2=DIRECTION('',(0.,0.,1.));
#3=DIRECTION('',(1.,0.,0.));
#4=AXIS2_PLACEMENT_3D('',#1,#2,#3);
ENDSEC;
END-ISO-10303-21;
`

func openStore(t *testing.T) *export.Store {
	t.Helper()
	store, err := export.Open(filepath.Join(t.TempDir(), "graph.sqlite"))
	assert.NilError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestDump(t *testing.T) {
	model, err := step.Parse([]byte(fixture))
	assert.NilError(t, err)

	store := openStore(t)
	runID, err := store.Dump("fixture.stp", model)
	assert.NilError(t, err)
	assert.Assert(t, runID != "")

	runs, err := store.Runs()
	assert.NilError(t, err)
	assert.Equal(t, len(runs), 1)
	assert.Equal(t, runs[0].ID, runID)
	assert.Equal(t, runs[0].File, "fixture.stp")

	entities, err := store.Entities(runID)
	assert.NilError(t, err)
	assert.Equal(t, len(entities), 4)
	assert.Equal(t, entities[0].ID, int64(1))
	assert.Equal(t, entities[0].Type, "CARTESIAN_POINT")
	assert.Equal(t, entities[0].Def, "CARTESIAN_POINT('',(0.,0.,0.))")
	assert.Equal(t, entities[3].Type, "AXIS2_PLACEMENT_3D")

	edges, err := store.Edges(runID)
	assert.NilError(t, err)
	assert.Equal(t, len(edges), 3)
	for i, e := range edges {
		assert.Equal(t, e.From, int64(4))
		assert.Equal(t, e.To, int64(i+1))
	}
}

func TestDump_MultipleRuns(t *testing.T) {
	model, err := step.Parse([]byte(fixture))
	assert.NilError(t, err)

	store := openStore(t)
	first, err := store.Dump("a.stp", model)
	assert.NilError(t, err)
	second, err := store.Dump("b.stp", model)
	assert.NilError(t, err)
	assert.Assert(t, first != second)

	runs, err := store.Runs()
	assert.NilError(t, err)
	assert.Equal(t, len(runs), 2)

	entities, err := store.Entities(first)
	assert.NilError(t, err)
	assert.Equal(t, len(entities), 4)
}
