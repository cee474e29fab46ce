package loaders

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/solarbyte/helios/engine/resources"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeModelFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.obj")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func loadGeometries(t *testing.T, content string) []*resources.MeshGeometry {
	t.Helper()
	ml := &ModelLoader{}
	res, err := ml.Load(writeModelFile(t, content), resources.ResourceTypeModel, nil)
	require.NoError(t, err)
	geometries, ok := res.Data.([]*resources.MeshGeometry)
	require.True(t, ok)
	return geometries
}

func TestModelLoaderTriangle(t *testing.T) {
	geometries := loadGeometries(t, `o tri
v 0.0 0.0 0.0
v 1.0 0.0 0.0
v 0.0 1.0 0.0
vt 0.0 0.0
vt 1.0 0.0
vt 0.0 1.0
vn 0.0 0.0 1.0
usemtl paint
f 1/1/1 2/2/1 3/3/1
`)

	require.Len(t, geometries, 1)
	g := geometries[0]
	assert.Equal(t, "tri", g.Name)
	assert.Equal(t, "paint", g.MaterialName)
	assert.Equal(t, 3, g.VertexCount())
	assert.Equal(t, []uint32{0, 1, 2}, g.Indices)

	normal := g.Attribute(resources.AttributeNormal)
	require.NotNil(t, normal)
	assert.InDelta(t, 1.0, normal.Data[2], 1e-5)

	assert.InDelta(t, 0.0, g.Extents.Min.X, 1e-6)
	assert.InDelta(t, 1.0, g.Extents.Max.X, 1e-6)
	assert.InDelta(t, 1.0, g.Extents.Max.Y, 1e-6)
}

func TestModelLoaderQuadTriangulation(t *testing.T) {
	geometries := loadGeometries(t, `v 0.0 0.0 0.0
v 1.0 0.0 0.0
v 1.0 1.0 0.0
v 0.0 1.0 0.0
f 1 2 3 4
`)

	require.Len(t, geometries, 1)
	g := geometries[0]
	// Fan triangulation: two triangles sharing the first vertex.
	assert.Equal(t, []uint32{0, 1, 2, 0, 2, 3}, g.Indices)
	assert.Equal(t, 4, g.VertexCount())
}

func TestModelLoaderNegativeIndices(t *testing.T) {
	geometries := loadGeometries(t, `v 0.0 0.0 0.0
v 1.0 0.0 0.0
v 0.0 1.0 0.0
f -3 -2 -1
`)

	require.Len(t, geometries, 1)
	assert.Equal(t, []uint32{0, 1, 2}, geometries[0].Indices)
}

func TestModelLoaderGeneratedNormals(t *testing.T) {
	// No vn lines at all; face normals are generated.
	geometries := loadGeometries(t, `v 0.0 0.0 0.0
v 1.0 0.0 0.0
v 0.0 1.0 0.0
f 1 2 3
`)

	require.Len(t, geometries, 1)
	normal := geometries[0].Attribute(resources.AttributeNormal)
	require.NotNil(t, normal)
	// The triangle lies in the XY plane; its normal points along +Z.
	assert.InDelta(t, 0.0, normal.Data[0], 1e-5)
	assert.InDelta(t, 0.0, normal.Data[1], 1e-5)
	assert.InDelta(t, 1.0, normal.Data[2], 1e-5)
}

func TestModelLoaderMultipleGroups(t *testing.T) {
	geometries := loadGeometries(t, `o first
v 0.0 0.0 0.0
v 1.0 0.0 0.0
v 0.0 1.0 0.0
f 1 2 3
o second
v 0.0 0.0 1.0
v 1.0 0.0 1.0
v 0.0 1.0 1.0
f 4 5 6
`)

	require.Len(t, geometries, 2)
	assert.Equal(t, "first", geometries[0].Name)
	assert.Equal(t, "second", geometries[1].Name)
	assert.Equal(t, 3, geometries[0].VertexCount())
	assert.Equal(t, 3, geometries[1].VertexCount())
}

func TestModelLoaderVertexDeduplication(t *testing.T) {
	// Two triangles sharing an edge; shared refs must collapse onto the
	// same vertex.
	geometries := loadGeometries(t, `v 0.0 0.0 0.0
v 1.0 0.0 0.0
v 1.0 1.0 0.0
v 0.0 1.0 0.0
f 1 2 3
f 1 3 4
`)

	require.Len(t, geometries, 1)
	assert.Equal(t, 4, geometries[0].VertexCount())
	assert.Equal(t, []uint32{0, 1, 2, 0, 2, 3}, geometries[0].Indices)
}

func TestModelLoaderBadFace(t *testing.T) {
	ml := &ModelLoader{}
	_, err := ml.Load(writeModelFile(t, "v 0 0 0\nf 1 2 9\n"), resources.ResourceTypeModel, nil)
	assert.Error(t, err)
}
