package loaders

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/solarbyte/helios/engine/core"
	"github.com/solarbyte/helios/engine/math"
	"github.com/solarbyte/helios/engine/resources"
)

type ModelLoader struct{}

// Load parses a wavefront OBJ file into one MeshGeometry per object group.
// Only the subset of OBJ the engine's own assets use is supported: v, vt,
// vn, f (with negative indices allowed), o/g and usemtl.
func (ml *ModelLoader) Load(path string, assetType resources.ResourceType, params interface{}) (*resources.Resource, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	geometries, err := parseOBJ(file, strings.TrimSuffix(filepath.Base(path), ".obj"))
	if err != nil {
		return nil, err
	}

	return &resources.Resource{
		Name:     "model",
		FullPath: path,
		DataSize: uint64(len(geometries)),
		Data:     geometries,
	}, nil
}

func (ml *ModelLoader) Unload(*resources.Resource) error {
	return nil
}

type objGroup struct {
	name     string
	material string
	vertices []math.Vertex3D
	indices  []uint32
	// Deduplicates identical position/texcoord/normal triples.
	lookup map[string]uint32
	hasNormals bool
}

func parseOBJ(file *os.File, defaultName string) ([]*resources.MeshGeometry, error) {
	var positions []math.Vec3
	var texcoords []math.Vec2
	var normals []math.Vec3

	current := &objGroup{name: defaultName, lookup: make(map[string]uint32)}
	groups := []*objGroup{current}

	scanner := bufio.NewScanner(file)
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		switch fields[0] {
		case "v":
			v, err := parseFloats(fields[1:], 3)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNumber, err)
			}
			positions = append(positions, math.NewVec3(v[0], v[1], v[2]))
		case "vt":
			v, err := parseFloats(fields[1:], 2)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNumber, err)
			}
			texcoords = append(texcoords, math.NewVec2(v[0], v[1]))
		case "vn":
			v, err := parseFloats(fields[1:], 3)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNumber, err)
			}
			normals = append(normals, math.NewVec3(v[0], v[1], v[2]))
		case "o", "g":
			if len(current.vertices) > 0 {
				current = &objGroup{name: defaultName, lookup: make(map[string]uint32)}
				groups = append(groups, current)
			}
			if len(fields) > 1 {
				current.name = fields[1]
			}
		case "usemtl":
			if len(fields) > 1 {
				current.material = fields[1]
			}
		case "f":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: face with fewer than 3 vertices", lineNumber)
			}
			// Triangulate as a fan.
			for i := 2; i < len(fields)-1; i++ {
				for _, ref := range []string{fields[1], fields[i], fields[i+1]} {
					index, err := current.vertex(ref, positions, texcoords, normals)
					if err != nil {
						return nil, fmt.Errorf("line %d: %w", lineNumber, err)
					}
					current.indices = append(current.indices, index)
				}
			}
		default:
			// s, mtllib and friends are irrelevant here.
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	geometries := make([]*resources.MeshGeometry, 0, len(groups))
	for _, group := range groups {
		if len(group.vertices) == 0 {
			continue
		}
		if !group.hasNormals {
			math.GeometryGenerateNormals(group.vertices, group.indices)
		}
		geometries = append(geometries, group.build())
	}
	if len(geometries) == 0 {
		core.LogWarn("model '%s' contains no geometry", defaultName)
	}
	return geometries, nil
}

// vertex resolves a face vertex reference of the form v, v/vt, v//vn or
// v/vt/vn into a deduplicated vertex index.
func (g *objGroup) vertex(ref string, positions []math.Vec3, texcoords []math.Vec2, normals []math.Vec3) (uint32, error) {
	if index, ok := g.lookup[ref]; ok {
		return index, nil
	}

	parts := strings.Split(ref, "/")
	vertex := math.Vertex3D{}

	pi, err := objIndex(parts[0], len(positions))
	if err != nil {
		return 0, err
	}
	vertex.Position = positions[pi]

	if len(parts) > 1 && parts[1] != "" {
		ti, err := objIndex(parts[1], len(texcoords))
		if err != nil {
			return 0, err
		}
		vertex.Texcoord = texcoords[ti]
	}
	if len(parts) > 2 && parts[2] != "" {
		ni, err := objIndex(parts[2], len(normals))
		if err != nil {
			return 0, err
		}
		vertex.Normal = normals[ni]
		g.hasNormals = true
	}

	index := uint32(len(g.vertices))
	g.vertices = append(g.vertices, vertex)
	g.lookup[ref] = index
	return index, nil
}

func objIndex(s string, count int) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid index '%s'", s)
	}
	if i < 0 {
		i = count + i
	} else {
		i = i - 1
	}
	if i < 0 || i >= count {
		return 0, fmt.Errorf("index '%s' out of range", s)
	}
	return i, nil
}

func parseFloats(fields []string, minimum int) ([]float32, error) {
	if len(fields) < minimum {
		return nil, fmt.Errorf("expected %d values, got %d", minimum, len(fields))
	}
	out := make([]float32, 0, minimum)
	for _, f := range fields[:minimum] {
		v, err := strconv.ParseFloat(f, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid value '%s'", f)
		}
		out = append(out, float32(v))
	}
	return out, nil
}

// build converts the group's interleaved vertices into the attribute-array
// form the mesh consolidation systems fingerprint. Attributes are emitted
// in canonical order: position, normal, texcoord.
func (g *objGroup) build() *resources.MeshGeometry {
	count := len(g.vertices)
	position := make([]float32, 0, count*3)
	normal := make([]float32, 0, count*3)
	texcoord := make([]float32, 0, count*2)
	points := make([]math.Vec3, 0, count)

	for _, v := range g.vertices {
		position = append(position, v.Position.X, v.Position.Y, v.Position.Z)
		normal = append(normal, v.Normal.X, v.Normal.Y, v.Normal.Z)
		texcoord = append(texcoord, v.Texcoord.X, v.Texcoord.Y)
		points = append(points, v.Position)
	}

	return &resources.MeshGeometry{
		Name: g.name,
		Attributes: []resources.VertexAttribute{
			{ID: resources.AttributePosition, ComponentCount: 3, Data: position},
			{ID: resources.AttributeNormal, ComponentCount: 3, Data: normal},
			{ID: resources.AttributeTexcoord, ComponentCount: 2, Data: texcoord},
		},
		Indices:      g.indices,
		Extents:      math.GeometryCalculateExtents(points),
		MaterialName: g.material,
	}
}
