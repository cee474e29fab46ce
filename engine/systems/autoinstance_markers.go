package systems

import (
	"github.com/solarbyte/helios/engine/scene"
)

/**
 * @brief Expands recursive auto-instance markers into per-entity markers.
 *
 * A scene import tags only the root entity; this pass distributes the
 * matching non-recursive marker over the whole descendant tree and removes
 * the recursive marker from the root. Once expanded the recursive marker is
 * gone, so repeated passes are no-ops. Must run before the instance tables
 * in the same frame so newly streamed-in subtrees are picked up.
 */
type MarkerExpansionSystem struct{}

func NewMarkerExpansionSystem() (*MarkerExpansionSystem, error) {
	return &MarkerExpansionSystem{}, nil
}

func (mes *MarkerExpansionSystem) Shutdown() error {
	return nil
}

func (mes *MarkerExpansionSystem) Expand(graph *scene.Graph) {
	for _, entity := range graph.Entities() {
		if entity.HasMarker(scene.MarkerAutoInstanceMaterialRecursive) {
			graph.WalkDescendants(entity.ID, func(e *scene.Entity) {
				e.AddMarker(scene.MarkerAutoInstanceMaterial)
			})
			entity.RemoveMarker(scene.MarkerAutoInstanceMaterialRecursive)
		}
		if entity.HasMarker(scene.MarkerAutoInstanceMeshRecursive) {
			graph.WalkDescendants(entity.ID, func(e *scene.Entity) {
				e.AddMarker(scene.MarkerAutoInstanceMesh)
			})
			entity.RemoveMarker(scene.MarkerAutoInstanceMeshRecursive)
		}
	}
}
