package systems

import (
	"fmt"
	"testing"

	"github.com/solarbyte/helios/engine/assets"
	"github.com/solarbyte/helios/engine/core"
	"github.com/solarbyte/helios/engine/math"
	"github.com/solarbyte/helios/engine/resources"
	"github.com/solarbyte/helios/engine/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAssets(t *testing.T) *assets.AssetManager {
	t.Helper()
	require.NoError(t, core.MetricsInitialize())
	am, err := assets.NewAssetManager()
	require.NoError(t, err)
	t.Cleanup(func() { _ = am.Shutdown() })
	return am
}

func registerMaterial(am *assets.AssetManager, name string, roughness float32) resources.MaterialHandle {
	h := am.RegisterMaterial()
	am.CompleteMaterial(h, resources.MaterialFromConfig(&resources.MaterialConfig{
		Name:      name,
		Roughness: roughness,
	}))
	return h
}

// registerLineMesh registers a two-vertex mesh along X. The average
// first-vertex distance is length/2, which makes the refinement threshold
// easy to steer in tests.
func registerLineMesh(am *assets.AssetManager, name string, origin math.Vec3, length float32) resources.MeshHandle {
	h := am.RegisterMesh()
	am.CompleteMesh(h, &resources.MeshGeometry{
		Name: name,
		Attributes: []resources.VertexAttribute{
			{ID: resources.AttributePosition, ComponentCount: 3, Data: []float32{
				origin.X, origin.Y, origin.Z,
				origin.X + length, origin.Y, origin.Z,
			}},
		},
		Indices: []uint32{0, 1},
	})
	return h
}

func TestMarkerExpansion(t *testing.T) {
	g := scene.NewGraph()
	root := g.CreateEntity("root", scene.InvalidEntityID)
	child := g.CreateEntity("child", root.ID)
	grandchild := g.CreateEntity("grandchild", child.ID)
	root.AddMarker(scene.MarkerAutoInstanceMaterialRecursive)
	root.AddMarker(scene.MarkerAutoInstanceMeshRecursive)

	mes, err := NewMarkerExpansionSystem()
	require.NoError(t, err)
	mes.Expand(g)

	for _, e := range []*scene.Entity{child, grandchild} {
		assert.True(t, e.HasMarker(scene.MarkerAutoInstanceMaterial), e.Name)
		assert.True(t, e.HasMarker(scene.MarkerAutoInstanceMesh), e.Name)
	}
	assert.False(t, root.HasMarker(scene.MarkerAutoInstanceMaterialRecursive))
	assert.False(t, root.HasMarker(scene.MarkerAutoInstanceMeshRecursive))

	// A second pass has nothing left to expand.
	child.RemoveMarker(scene.MarkerAutoInstanceMaterial)
	mes.Expand(g)
	assert.False(t, child.HasMarker(scene.MarkerAutoInstanceMaterial))
}

func TestMarkerExpansionChildlessRoot(t *testing.T) {
	g := scene.NewGraph()
	root := g.CreateEntity("root", scene.InvalidEntityID)
	root.AddMarker(scene.MarkerAutoInstanceMaterialRecursive)

	mes, _ := NewMarkerExpansionSystem()
	mes.Expand(g)

	// The recursive marker is consumed even when there is nothing to
	// distribute it to.
	assert.False(t, root.HasMarker(scene.MarkerAutoInstanceMaterialRecursive))
}

func TestMaterialConsolidationFirstSeenWins(t *testing.T) {
	am := newTestAssets(t)
	g := scene.NewGraph()

	handles := make([]resources.MaterialHandle, 3)
	entities := make([]*scene.Entity, 3)
	for i := range handles {
		handles[i] = registerMaterial(am, fmt.Sprintf("mat_%d", i), 0.5)
		entities[i] = g.CreateEntity(fmt.Sprintf("e_%d", i), scene.InvalidEntityID)
		entities[i].Material = handles[i]
		entities[i].AddMarker(scene.MarkerAutoInstanceMaterial)
	}

	mis, err := NewMaterialInstanceSystem(am)
	require.NoError(t, err)
	mis.Consolidate(g)

	// The earliest-created entity's handle becomes canonical.
	for _, e := range entities {
		assert.Equal(t, handles[0], e.Material)
		assert.False(t, e.HasMarker(scene.MarkerAutoInstanceMaterial))
	}
	assert.Equal(t, uint32(2), mis.DuplicateCount())
	assert.Equal(t, 1, mis.UniqueCount())
}

func TestMaterialConsolidationDistinctMaterialsKept(t *testing.T) {
	am := newTestAssets(t)
	g := scene.NewGraph()

	a := g.CreateEntity("a", scene.InvalidEntityID)
	a.Material = registerMaterial(am, "rough", 0.9)
	a.AddMarker(scene.MarkerAutoInstanceMaterial)

	b := g.CreateEntity("b", scene.InvalidEntityID)
	b.Material = registerMaterial(am, "smooth", 0.1)
	b.AddMarker(scene.MarkerAutoInstanceMaterial)

	mis, _ := NewMaterialInstanceSystem(am)
	mis.Consolidate(g)

	assert.NotEqual(t, a.Material, b.Material)
	assert.Equal(t, uint32(0), mis.DuplicateCount())
	assert.Equal(t, 2, mis.UniqueCount())
}

func TestMaterialConsolidationManyEntities(t *testing.T) {
	am := newTestAssets(t)
	g := scene.NewGraph()

	for i := 0; i < 100; i++ {
		e := g.CreateEntity(fmt.Sprintf("e_%d", i), scene.InvalidEntityID)
		// Ten distinct parameter sets, each loaded ten times.
		e.Material = registerMaterial(am, fmt.Sprintf("m_%d", i), float32(i%10)/10.0)
		e.AddMarker(scene.MarkerAutoInstanceMaterial)
	}

	mis, _ := NewMaterialInstanceSystem(am)
	mis.Consolidate(g)

	assert.Equal(t, uint32(90), mis.DuplicateCount())
	assert.Equal(t, 10, mis.UniqueCount())
}

func TestMaterialConsolidationRetriesUnloaded(t *testing.T) {
	am := newTestAssets(t)
	g := scene.NewGraph()

	pending := am.RegisterMaterial()
	e := g.CreateEntity("pending", scene.InvalidEntityID)
	e.Material = pending
	e.AddMarker(scene.MarkerAutoInstanceMaterial)

	mis, _ := NewMaterialInstanceSystem(am)
	mis.Consolidate(g)

	// Data has not streamed in yet; the marker survives for a later pass.
	assert.True(t, e.HasMarker(scene.MarkerAutoInstanceMaterial))
	assert.Equal(t, 0, mis.UniqueCount())

	am.CompleteMaterial(pending, resources.MaterialFromConfig(&resources.MaterialConfig{Name: "late"}))
	mis.Consolidate(g)

	assert.False(t, e.HasMarker(scene.MarkerAutoInstanceMaterial))
	assert.Equal(t, 1, mis.UniqueCount())
}

func TestMaterialConsolidationIdempotent(t *testing.T) {
	am := newTestAssets(t)
	g := scene.NewGraph()

	for i := 0; i < 3; i++ {
		e := g.CreateEntity(fmt.Sprintf("e_%d", i), scene.InvalidEntityID)
		e.Material = registerMaterial(am, fmt.Sprintf("m_%d", i), 0.5)
		e.AddMarker(scene.MarkerAutoInstanceMaterial)
	}

	mis, _ := NewMaterialInstanceSystem(am)
	mis.Consolidate(g)
	dup, uniq := mis.DuplicateCount(), mis.UniqueCount()

	mis.Consolidate(g)
	assert.Equal(t, dup, mis.DuplicateCount())
	assert.Equal(t, uniq, mis.UniqueCount())
}

func TestMeshConsolidationRewritesDuplicate(t *testing.T) {
	am := newTestAssets(t)
	g := scene.NewGraph()

	canonical := g.CreateEntity("canonical", scene.InvalidEntityID)
	canonical.Mesh = registerLineMesh(am, "line", math.NewVec3Zero(), 1.0)
	canonical.Extents = math.Extents3D{Min: math.NewVec3Zero(), Max: math.NewVec3(1, 0, 0)}
	canonical.AddMarker(scene.MarkerAutoInstanceMesh)

	// Same geometry baked 5 units along X, 2 up, 3 back.
	dup := g.CreateEntity("dup", scene.InvalidEntityID)
	dup.Mesh = registerLineMesh(am, "line_baked", math.NewVec3(5, 2, -3), 1.0)
	dup.AddMarker(scene.MarkerAutoInstanceMesh)

	mis, err := NewMeshInstanceSystem(am)
	require.NoError(t, err)
	mis.Consolidate(g)

	assert.Equal(t, canonical.Mesh, dup.Mesh)
	assert.True(t, dup.Transform.Position.Compare(math.NewVec3(5, 2, -3), 1e-4))
	assert.Equal(t, canonical.Extents, dup.Extents)
	assert.False(t, dup.HasMarker(scene.MarkerAutoInstanceMesh))
	assert.Equal(t, uint32(1), mis.DuplicateCount())
	assert.Equal(t, 1, mis.UniqueCount())
}

func TestMeshConsolidationPreservesParentLink(t *testing.T) {
	am := newTestAssets(t)
	g := scene.NewGraph()

	root := g.CreateEntity("root", scene.InvalidEntityID)
	root.Transform.SetPosition(math.NewVec3(-18, 0, 0))

	canonical := g.CreateEntity("canonical", root.ID)
	canonical.Mesh = registerLineMesh(am, "line", math.NewVec3Zero(), 1.0)
	canonical.AddMarker(scene.MarkerAutoInstanceMesh)

	dup := g.CreateEntity("dup", root.ID)
	dup.Mesh = registerLineMesh(am, "line_baked", math.NewVec3(5, 2, -3), 1.0)
	dup.AddMarker(scene.MarkerAutoInstanceMesh)

	mis, _ := NewMeshInstanceSystem(am)
	mis.Consolidate(g)

	// The rewrite keeps the entity attached to its parent transform, so it
	// still inherits the root's placement like its unprocessed sibling.
	require.NotNil(t, dup.Transform.Parent)
	assert.Same(t, root.Transform, dup.Transform.Parent)

	world := dup.Transform.GetWorld()
	assert.InDelta(t, -13.0, world.Data[12], 1e-4)
	assert.InDelta(t, 2.0, world.Data[13], 1e-4)
	assert.InDelta(t, -3.0, world.Data[14], 1e-4)

	sibling := canonical.Transform.GetWorld()
	assert.InDelta(t, -18.0, sibling.Data[12], 1e-4)
}

func TestMeshConsolidationEpsilonBoundary(t *testing.T) {
	am := newTestAssets(t)
	g := scene.NewGraph()

	// avg first-vertex distance of a two-vertex line is length/2.
	base := g.CreateEntity("base", scene.InvalidEntityID)
	base.Mesh = registerLineMesh(am, "base", math.NewVec3Zero(), 1.0)
	base.AddMarker(scene.MarkerAutoInstanceMesh)

	// 0.0011 away from the canonical average: outside the threshold, so
	// this stays its own record.
	outside := g.CreateEntity("outside", scene.InvalidEntityID)
	outside.Mesh = registerLineMesh(am, "outside", math.NewVec3(9, 9, 9), 1.0022)
	outside.AddMarker(scene.MarkerAutoInstanceMesh)

	// 0.0009 away: inside the threshold, collapses onto the canonical.
	inside := g.CreateEntity("inside", scene.InvalidEntityID)
	inside.Mesh = registerLineMesh(am, "inside", math.NewVec3(4, 4, 4), 1.0018)
	inside.AddMarker(scene.MarkerAutoInstanceMesh)

	mis, _ := NewMeshInstanceSystem(am)
	mis.Consolidate(g)

	assert.NotEqual(t, base.Mesh, outside.Mesh)
	assert.Equal(t, base.Mesh, inside.Mesh)
	assert.Equal(t, uint32(1), mis.DuplicateCount())
	// base and outside are separate records under one shared structural
	// signature, so the signature count stays at 1.
	assert.Equal(t, 1, mis.UniqueCount())
}

func TestMeshConsolidationStructuralMismatch(t *testing.T) {
	am := newTestAssets(t)
	g := scene.NewGraph()

	line := g.CreateEntity("line", scene.InvalidEntityID)
	line.Mesh = registerLineMesh(am, "line", math.NewVec3Zero(), 1.0)
	line.AddMarker(scene.MarkerAutoInstanceMesh)

	// Same vertex count but an extra attribute: different structure.
	other := g.CreateEntity("other", scene.InvalidEntityID)
	h := am.RegisterMesh()
	am.CompleteMesh(h, &resources.MeshGeometry{
		Name: "textured_line",
		Attributes: []resources.VertexAttribute{
			{ID: resources.AttributePosition, ComponentCount: 3, Data: []float32{0, 0, 0, 1, 0, 0}},
			{ID: resources.AttributeTexcoord, ComponentCount: 2, Data: []float32{0, 0, 1, 0}},
		},
		Indices: []uint32{0, 1},
	})
	other.Mesh = h
	other.AddMarker(scene.MarkerAutoInstanceMesh)

	mis, _ := NewMeshInstanceSystem(am)
	mis.Consolidate(g)

	assert.NotEqual(t, line.Mesh, other.Mesh)
	assert.Equal(t, uint32(0), mis.DuplicateCount())
	assert.Equal(t, 2, mis.UniqueCount())
}

func TestMeshConsolidationRetriesUnloaded(t *testing.T) {
	am := newTestAssets(t)
	g := scene.NewGraph()

	pending := am.RegisterMesh()
	e := g.CreateEntity("pending", scene.InvalidEntityID)
	e.Mesh = pending
	e.AddMarker(scene.MarkerAutoInstanceMesh)

	mis, _ := NewMeshInstanceSystem(am)
	mis.Consolidate(g)
	assert.True(t, e.HasMarker(scene.MarkerAutoInstanceMesh))
	assert.Equal(t, 0, mis.UniqueCount())
}

func TestMeshConsolidationSkipsUnmarked(t *testing.T) {
	am := newTestAssets(t)
	g := scene.NewGraph()

	e := g.CreateEntity("plain", scene.InvalidEntityID)
	e.Mesh = registerLineMesh(am, "plain", math.NewVec3Zero(), 1.0)

	mis, _ := NewMeshInstanceSystem(am)
	mis.Consolidate(g)
	assert.Equal(t, 0, mis.UniqueCount())
}
