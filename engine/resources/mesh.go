package resources

import (
	"hash/fnv"

	"github.com/solarbyte/helios/engine/math"
)

/** @brief The name of the default geometry. */
const DefaultGeometryName string = "default"

/** @brief Identifies a vertex attribute within a mesh. */
type VertexAttributeID uint32

const (
	/** @brief Vertex positions; three float32 components. */
	AttributePosition VertexAttributeID = iota
	/** @brief Vertex normals; three float32 components. */
	AttributeNormal
	/** @brief Texture coordinates; two float32 components. */
	AttributeTexcoord
	/** @brief Vertex colours; four float32 components. */
	AttributeColour
	/** @brief Vertex tangents; three float32 components. */
	AttributeTangent
)

/**
 * @brief A single vertex attribute: its identifying tag, the number of
 * float32 components per vertex and the raw component data.
 */
type VertexAttribute struct {
	ID             VertexAttributeID
	ComponentCount uint32
	Data           []float32
}

/**
 * @brief Mesh geometry in the world: a set of vertex attributes plus an
 * indexed triangle list. Attributes are stored in a fixed canonical order
 * (position, normal, texcoord, ...) so that equal layouts digest equal.
 */
type MeshGeometry struct {
	/** @brief The geometry generation. Incremented every time the geometry changes. */
	Generation uint16
	/** @brief The geometry name. */
	Name string
	/** @brief The vertex attributes. */
	Attributes []VertexAttribute
	/** @brief The index buffer. */
	Indices []uint32
	/** @brief The extents of the geometry in local coordinates. */
	Extents math.Extents3D
	/** @brief The name of the material used by the geometry. */
	MaterialName string
}

// Attribute returns the attribute with the given id, or nil.
func (g *MeshGeometry) Attribute(id VertexAttributeID) *VertexAttribute {
	for i := range g.Attributes {
		if g.Attributes[i].ID == id {
			return &g.Attributes[i]
		}
	}
	return nil
}

// VertexCount returns the number of vertices in the position attribute.
func (g *MeshGeometry) VertexCount() int {
	pos := g.Attribute(AttributePosition)
	if pos == nil || pos.ComponentCount == 0 {
		return 0
	}
	return len(pos.Data) / int(pos.ComponentCount)
}

/**
 * @brief Computes a 64-bit digest over the mesh's attribute layout: the
 * attribute count and, for each attribute, its identifying tag and raw byte
 * length. Two meshes with the same fingerprint have the same layout and
 * size but may still differ in actual vertex data, e.g. two placements of
 * the same asset baked into world space.
 */
func (g *MeshGeometry) StructuralFingerprint() uint64 {
	h := fnv.New64a()
	hashUint32(h, uint32(len(g.Attributes)))
	for i := range g.Attributes {
		hashUint32(h, uint32(g.Attributes[i].ID))
		hashUint32(h, uint32(len(g.Attributes[i].Data)*4))
	}
	return h.Sum64()
}

/**
 * @brief Returns the centroid of all vertex positions. A mesh with a
 * missing or malformed position attribute yields a zero midpoint.
 */
func (g *MeshGeometry) Midpoint() math.Vec3 {
	pos := g.positions()
	if len(pos) == 0 {
		return math.NewVec3Zero()
	}
	// Accumulate in float64; large baked scenes overflow float32 precision.
	var mx, my, mz float64
	for _, p := range pos {
		mx += float64(p.X)
		my += float64(p.Y)
		mz += float64(p.Z)
	}
	n := float64(len(pos))
	return math.NewVec3(float32(mx/n), float32(my/n), float32(mz/n))
}

/**
 * @brief Returns the position of the first vertex and the average Euclidean
 * distance from the first vertex to every vertex. A mesh with no usable
 * position attribute yields a zero vertex and a zero average.
 */
func (g *MeshGeometry) FirstVertexDistances() (math.Vec3, float32) {
	pos := g.positions()
	if len(pos) == 0 {
		return math.NewVec3Zero(), 0
	}
	firstVert := pos[0]
	var avg float64
	for _, p := range pos {
		avg += float64(firstVert.Distance(p))
	}
	return firstVert, float32(avg / float64(len(pos)))
}

// positions returns the position attribute decoded as points, or nil for
// degenerate meshes.
func (g *MeshGeometry) positions() []math.Vec3 {
	attr := g.Attribute(AttributePosition)
	if attr == nil || attr.ComponentCount != 3 {
		return nil
	}
	count := len(attr.Data) / 3
	out := make([]math.Vec3, 0, count)
	for i := 0; i+2 < len(attr.Data); i += 3 {
		out = append(out, math.NewVec3(attr.Data[i], attr.Data[i+1], attr.Data[i+2]))
	}
	return out
}
