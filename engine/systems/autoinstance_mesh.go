package systems

import (
	"github.com/chewxy/math32"
	"github.com/solarbyte/helios/engine/assets"
	"github.com/solarbyte/helios/engine/core"
	"github.com/solarbyte/helios/engine/math"
	"github.com/solarbyte/helios/engine/resources"
	"github.com/solarbyte/helios/engine/scene"
)

/**
 * @brief Two candidate meshes whose average first-vertex distance differs
 * by less than this are treated as the same geometry at different
 * placements.
 */
const avgVertDistEpsilon float32 = 0.001

/**
 * @brief The statistics snapshot kept per structurally-unique,
 * geometrically-distinct mesh signature. Immutable after creation.
 */
type meshRecord struct {
	mesh        resources.MeshHandle
	midpoint    math.Vec3
	firstVert   math.Vec3
	extents     math.Extents3D
	avgVertDist float32
}

/**
 * @brief Detects meshes that are the same geometry baked into different
 * world placements and rewrites their consumers to instance one canonical
 * mesh at a recovered transform.
 *
 * The structural fingerprint only proves two meshes share an attribute
 * layout and size; the same asset placed in different tiles of a large
 * scene has identical structure but shifted vertex data. The per-record
 * average first-vertex distance is translation-invariant, so it refines
 * structural matches into true duplicate-by-placement matches. Within one
 * candidate list no two records sit within epsilon of each other; such a
 * pair would have been unified at insertion.
 */
type MeshInstanceSystem struct {
	assets     *assets.AssetManager
	instances  map[uint64][]*meshRecord
	duplicates uint32
}

func NewMeshInstanceSystem(am *assets.AssetManager) (*MeshInstanceSystem, error) {
	return &MeshInstanceSystem{
		assets:    am,
		instances: make(map[uint64][]*meshRecord),
	}, nil
}

func (mis *MeshInstanceSystem) Shutdown() error {
	return nil
}

/**
 * @brief Processes every entity carrying the mesh auto-instance marker.
 *
 * A match rewrites the entity to reference the canonical mesh: its
 * translation becomes the offset between the two centroids (the canonical
 * geometry, authored around its own centroid, moved to this instance's
 * world placement), its bounding box is overwritten with the record's and
 * its mesh handle with the record's. No match appends a new record under
 * the same structural fingerprint. Markers are cleared on successful
 * processing only; unresolved meshes are retried on a later pass.
 */
func (mis *MeshInstanceSystem) Consolidate(graph *scene.Graph) {
	processed := false
	for _, entity := range graph.Entities() {
		if !entity.HasMarker(scene.MarkerAutoInstanceMesh) || entity.Mesh.IsNil() {
			continue
		}
		geometry, ok := mis.assets.ResolveMesh(entity.Mesh)
		if !ok {
			// Still streaming in; retry next pass.
			continue
		}
		processed = true

		fingerprint := geometry.StructuralFingerprint()
		midpoint := geometry.Midpoint()
		firstVert, avgVertDist := geometry.FirstVertexDistances()

		records, bucketExists := mis.instances[fingerprint]
		if !bucketExists {
			mis.addRecord(fingerprint, entity, midpoint, firstVert, avgVertDist)
		} else {
			found := false
			for _, record := range records {
				if math32.Abs(record.avgVertDist-avgVertDist) >= avgVertDistEpsilon {
					continue
				}
				found = true

				// The shortest-arc rotation between the two
				// first-vertex-from-centroid directions. Computed for
				// diagnostics only and deliberately not applied: first
				// vertices of two placements are not guaranteed to
				// correspond, so the recovered rotation is unreliable.
				rotation := calculateRotation(record.midpoint, midpoint, record.firstVert, firstVert)
				core.LogDebug("mesh instance '%s' estimated rotation (%f, %f, %f, %f), not applied",
					geometry.Name, rotation.X, rotation.Y, rotation.Z, rotation.W)

				// Mutate in place so the parent link survives and any
				// child transform still sees this object.
				entity.Transform.SetPositionRotationScale(midpoint.Sub(record.midpoint), math.NewQuatIdentity(), math.NewVec3One())
				entity.Extents = record.extents
				entity.Mesh = record.mesh
				mis.duplicates++
				break
			}
			if !found {
				mis.addRecord(fingerprint, entity, midpoint, firstVert, avgVertDist)
			}
		}
		entity.RemoveMarker(scene.MarkerAutoInstanceMesh)
	}

	if processed {
		core.LogInfo("Duplicate mesh instances found: %d", mis.duplicates)
		core.LogInfo("Total unique meshes: %d", len(mis.instances))
		core.MetricsMeshInstances(mis.duplicates, uint32(len(mis.instances)))
	}
}

func (mis *MeshInstanceSystem) addRecord(fingerprint uint64, entity *scene.Entity, midpoint, firstVert math.Vec3, avgVertDist float32) {
	mis.instances[fingerprint] = append(mis.instances[fingerprint], &meshRecord{
		mesh:        entity.Mesh,
		midpoint:    midpoint,
		firstVert:   firstVert,
		extents:     entity.Extents,
		avgVertDist: avgVertDist,
	})
}

// DuplicateCount returns how many duplicate meshes were rewritten since the
// system was created.
func (mis *MeshInstanceSystem) DuplicateCount() uint32 {
	return mis.duplicates
}

// UniqueCount returns how many structurally-unique mesh signatures are
// known. A signature may hold several records when distinct geometries
// share an attribute layout.
func (mis *MeshInstanceSystem) UniqueCount() int {
	return len(mis.instances)
}

// calculateRotation returns the shortest-arc rotation that would turn the
// candidate's first-vertex-from-centroid direction into the canonical
// record's.
func calculateRotation(midpoint1, midpoint2, vertex1, vertex2 math.Vec3) math.Quaternion {
	// Direction from midpoint to the first vertex of each mesh
	dir1 := vertex1.Sub(midpoint1)
	dir2 := vertex2.Sub(midpoint2)
	if dir1.LengthSquared() < math.K_FLOAT_EPSILON || dir2.LengthSquared() < math.K_FLOAT_EPSILON {
		return math.NewQuatIdentity()
	}
	return dir2.RotationTo(dir1)
}
