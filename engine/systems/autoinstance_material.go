package systems

import (
	"github.com/solarbyte/helios/engine/assets"
	"github.com/solarbyte/helios/engine/core"
	"github.com/solarbyte/helios/engine/resources"
	"github.com/solarbyte/helios/engine/scene"
)

/**
 * @brief Capability required of a material type to participate in
 * consolidation: a stable digest over its full visual parameter set.
 */
type FingerprintedMaterial interface {
	Fingerprint() uint64
}

/**
 * @brief Detects materials that are visually identical and rewrites their
 * consumers to share one canonical material.
 *
 * Scene imports routinely produce hundreds of near-identical material
 * instances; folding them onto one canonical resource lets the renderer
 * batch their consumers. The table lives for the duration of a scene: it
 * grows monotonically and is owned and mutated exclusively by this system,
 * so no locking discipline is required.
 */
type MaterialInstanceSystem struct {
	assets *assets.AssetManager
	// Canonical material per fingerprint; first-seen wins.
	instances  map[uint64]resources.MaterialHandle
	duplicates uint32
}

func NewMaterialInstanceSystem(am *assets.AssetManager) (*MaterialInstanceSystem, error) {
	return &MaterialInstanceSystem{
		assets:    am,
		instances: make(map[uint64]resources.MaterialHandle),
	}, nil
}

func (mis *MaterialInstanceSystem) Shutdown() error {
	return nil
}

/**
 * @brief Processes every entity carrying the material auto-instance marker.
 *
 * A fingerprint hit rewrites the entity's material handle to the canonical
 * one; a miss registers the entity's material as canonical. The marker is
 * cleared once the entity has been processed, so each entity is handled at
 * most once as assets stream in across frames. Entities whose material has
 * not finished loading keep their marker and are retried on a later pass.
 */
func (mis *MaterialInstanceSystem) Consolidate(graph *scene.Graph) {
	processed := false
	for _, entity := range graph.Entities() {
		if !entity.HasMarker(scene.MarkerAutoInstanceMaterial) || entity.Material.IsNil() {
			continue
		}
		material, ok := mis.assets.ResolveMaterial(entity.Material)
		if !ok {
			// Still streaming in; retry next pass.
			continue
		}
		processed = true

		fingerprint := fingerprintOf(material)
		if canonical, hit := mis.instances[fingerprint]; hit {
			entity.Material = canonical
			mis.duplicates++
		} else {
			mis.instances[fingerprint] = entity.Material
		}
		entity.RemoveMarker(scene.MarkerAutoInstanceMaterial)
	}

	if processed {
		core.LogInfo("Duplicate material instances found: %d", mis.duplicates)
		core.LogInfo("Total unique materials: %d", len(mis.instances))
		core.MetricsMaterialInstances(mis.duplicates, uint32(len(mis.instances)))
	}
}

// DuplicateCount returns how many duplicate materials were rewritten since
// the system was created.
func (mis *MaterialInstanceSystem) DuplicateCount() uint32 {
	return mis.duplicates
}

// UniqueCount returns how many canonical materials are known.
func (mis *MaterialInstanceSystem) UniqueCount() int {
	return len(mis.instances)
}

func fingerprintOf(m FingerprintedMaterial) uint64 {
	return m.Fingerprint()
}
