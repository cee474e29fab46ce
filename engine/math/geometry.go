package math

// GeometryGenerateNormals computes face normals for the given indexed
// triangle list, writing them back into the vertex array. Used by model
// loaders when the source file carries no normals.
func GeometryGenerateNormals(vertices []Vertex3D, indices []uint32) {
	for i := 0; i+2 < len(indices); i += 3 {
		i0 := indices[i+0]
		i1 := indices[i+1]
		i2 := indices[i+2]

		edge1 := vertices[i1].Position.Sub(vertices[i0].Position)
		edge2 := vertices[i2].Position.Sub(vertices[i0].Position)

		c := edge1.Cross(edge2)
		normal := c.Normalize()

		// NOTE: This just generates a face normal. Smoothing out should be done in a separate pass if desired.
		vertices[i0].Normal = normal
		vertices[i1].Normal = normal
		vertices[i2].Normal = normal
	}
}

// GeometryCalculateExtents returns the axis-aligned bounding box of the
// given vertex positions.
func GeometryCalculateExtents(positions []Vec3) Extents3D {
	if len(positions) == 0 {
		return Extents3D{}
	}
	extents := Extents3D{Min: positions[0], Max: positions[0]}
	for _, p := range positions[1:] {
		extents.Min.X = Min(extents.Min.X, p.X)
		extents.Min.Y = Min(extents.Min.Y, p.Y)
		extents.Min.Z = Min(extents.Min.Z, p.Z)
		extents.Max.X = Max(extents.Max.X, p.X)
		extents.Max.Y = Max(extents.Max.Y, p.Y)
		extents.Max.Z = Max(extents.Max.Z, p.Z)
	}
	return extents
}
