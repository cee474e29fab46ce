package systems

import (
	"github.com/solarbyte/helios/engine/assets"
	"github.com/solarbyte/helios/engine/core"
	"github.com/solarbyte/helios/engine/resources"
	"github.com/solarbyte/helios/engine/scene"
)

/**
 * @brief One-shot fixups applied over a freshly imported scene subtree.
 *
 * Imported scenes bring their own lights and cameras and bake alpha-masked
 * foliage as thin opaque sheets. This pass gives alpha-masked materials
 * diffuse transmission and double-sided shading, tags their entities as
 * transmitted-shadow receivers, and despawns any light or camera the
 * application did not place itself.
 */
type ScenePostProcessSystem struct {
	assets *assets.AssetManager
}

func NewScenePostProcessSystem(am *assets.AssetManager) (*ScenePostProcessSystem, error) {
	return &ScenePostProcessSystem{assets: am}, nil
}

func (pps *ScenePostProcessSystem) Shutdown() error {
	return nil
}

func (pps *ScenePostProcessSystem) Apply(graph *scene.Graph) {
	for _, root := range graph.Entities() {
		if !root.HasMarker(scene.MarkerPostProcessScene) {
			continue
		}
		// The subtree may still be streaming in; keep the marker until
		// children exist.
		if len(root.Children) == 0 {
			continue
		}

		var doomed []scene.EntityID
		graph.WalkDescendants(root.ID, func(e *scene.Entity) {
			if !e.Material.IsNil() {
				if material, ok := pps.assets.ResolveMaterial(e.Material); ok {
					if material.AlphaMode == resources.AlphaModeMask {
						material.DiffuseTransmission = 0.6
						material.DoubleSided = true
						material.CullMode = resources.FaceCullModeNone
						material.Thickness = 0.2
						material.Generation++
						e.AddMarker(scene.MarkerTransmittedShadowReceiver)
					}
				}
			}

			// Remove imported lights and cameras.
			if e.Light != nil && !e.HasMarker(scene.MarkerEngineLight) {
				doomed = append(doomed, e.ID)
			}
			if e.Camera != nil {
				doomed = append(doomed, e.ID)
			}
		})

		for _, id := range doomed {
			if _, ok := graph.Get(id); !ok {
				// Already removed together with a doomed ancestor.
				continue
			}
			if err := graph.DestroyRecursive(id); err != nil {
				core.LogError(err.Error())
			}
		}
		root.RemoveMarker(scene.MarkerPostProcessScene)
	}
}
