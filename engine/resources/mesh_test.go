package resources

import (
	"testing"

	"github.com/solarbyte/helios/engine/math"
	"github.com/stretchr/testify/assert"
)

// triangleMesh builds a single-triangle mesh with positions offset by the
// given amount, mimicking the same asset baked into different placements.
func triangleMesh(name string, offset math.Vec3) *MeshGeometry {
	base := []float32{
		0, 0, 0,
		3, 0, 0,
		0, 4, 0,
	}
	positions := make([]float32, len(base))
	for i := 0; i < len(base); i += 3 {
		positions[i] = base[i] + offset.X
		positions[i+1] = base[i+1] + offset.Y
		positions[i+2] = base[i+2] + offset.Z
	}
	return &MeshGeometry{
		Name: name,
		Attributes: []VertexAttribute{
			{ID: AttributePosition, ComponentCount: 3, Data: positions},
			{ID: AttributeNormal, ComponentCount: 3, Data: make([]float32, len(positions))},
		},
		Indices: []uint32{0, 1, 2},
	}
}

func TestStructuralFingerprintIgnoresPlacement(t *testing.T) {
	a := triangleMesh("a", math.NewVec3Zero())
	b := triangleMesh("b", math.NewVec3(100, -20, 5))

	assert.Equal(t, a.StructuralFingerprint(), b.StructuralFingerprint())
}

func TestStructuralFingerprintSensitiveToLayout(t *testing.T) {
	base := triangleMesh("base", math.NewVec3Zero())

	extra := triangleMesh("extra", math.NewVec3Zero())
	extra.Attributes = append(extra.Attributes, VertexAttribute{
		ID: AttributeTexcoord, ComponentCount: 2, Data: make([]float32, 6),
	})
	assert.NotEqual(t, base.StructuralFingerprint(), extra.StructuralFingerprint())

	bigger := triangleMesh("bigger", math.NewVec3Zero())
	bigger.Attributes[0].Data = append(bigger.Attributes[0].Data, 1, 2, 3)
	assert.NotEqual(t, base.StructuralFingerprint(), bigger.StructuralFingerprint())
}

func TestMidpoint(t *testing.T) {
	m := triangleMesh("m", math.NewVec3Zero())
	mid := m.Midpoint()
	assert.InDelta(t, 1.0, mid.X, 1e-5)
	assert.InDelta(t, 4.0/3.0, mid.Y, 1e-5)
	assert.InDelta(t, 0.0, mid.Z, 1e-5)

	shifted := triangleMesh("s", math.NewVec3(10, 0, -2))
	mid = shifted.Midpoint()
	assert.InDelta(t, 11.0, mid.X, 1e-4)
	assert.InDelta(t, 4.0/3.0, mid.Y, 1e-4)
	assert.InDelta(t, -2.0, mid.Z, 1e-4)
}

func TestFirstVertexDistances(t *testing.T) {
	m := triangleMesh("m", math.NewVec3Zero())
	first, avg := m.FirstVertexDistances()

	assert.True(t, first.Compare(math.NewVec3Zero(), math.K_FLOAT_EPSILON))
	// Distances from the first vertex: 0, 3 and 4.
	assert.InDelta(t, 7.0/3.0, avg, 1e-5)
}

func TestFirstVertexDistancesPlacementInvariant(t *testing.T) {
	a := triangleMesh("a", math.NewVec3Zero())
	b := triangleMesh("b", math.NewVec3(-50, 12, 7))

	_, avgA := a.FirstVertexDistances()
	_, avgB := b.FirstVertexDistances()
	assert.InDelta(t, avgA, avgB, 1e-4)
}

func TestDegenerateMesh(t *testing.T) {
	empty := &MeshGeometry{Name: "empty"}

	assert.Equal(t, 0, empty.VertexCount())
	assert.True(t, empty.Midpoint().Compare(math.NewVec3Zero(), math.K_FLOAT_EPSILON))

	first, avg := empty.FirstVertexDistances()
	assert.True(t, first.Compare(math.NewVec3Zero(), math.K_FLOAT_EPSILON))
	assert.Zero(t, avg)

	// A position attribute with a bogus component count is also degenerate.
	bogus := &MeshGeometry{
		Attributes: []VertexAttribute{{ID: AttributePosition, ComponentCount: 2, Data: []float32{1, 2, 3, 4}}},
	}
	assert.True(t, bogus.Midpoint().Compare(math.NewVec3Zero(), math.K_FLOAT_EPSILON))
}
