package systems

import (
	"github.com/solarbyte/helios/engine/assets"
	"github.com/solarbyte/helios/engine/scene"
)

type SystemManager struct {
	markerExpansionSystem  *MarkerExpansionSystem
	scenePostProcessSystem *ScenePostProcessSystem
	materialInstanceSystem *MaterialInstanceSystem
	meshInstanceSystem     *MeshInstanceSystem
	autoInstancing         bool
}

func NewSystemManager(am *assets.AssetManager) (*SystemManager, error) {
	mes, err := NewMarkerExpansionSystem()
	if err != nil {
		return nil, err
	}
	pps, err := NewScenePostProcessSystem(am)
	if err != nil {
		return nil, err
	}
	mats, err := NewMaterialInstanceSystem(am)
	if err != nil {
		return nil, err
	}
	meshes, err := NewMeshInstanceSystem(am)
	if err != nil {
		return nil, err
	}
	return &SystemManager{
		markerExpansionSystem:  mes,
		scenePostProcessSystem: pps,
		materialInstanceSystem: mats,
		meshInstanceSystem:     meshes,
		autoInstancing:         true,
	}, nil
}

// SetAutoInstancing toggles the material and mesh consolidation passes.
// Marker expansion and scene post-processing always run.
func (sm *SystemManager) SetAutoInstancing(enabled bool) {
	sm.autoInstancing = enabled
}

/**
 * @brief Runs one synchronous processing pass over the scene graph.
 *
 * Ordering matters: recursive markers must expand before the instance
 * tables consume them, and scene post-processing must strip imported
 * lights/cameras before anything else reads the subtree.
 */
func (sm *SystemManager) Update(graph *scene.Graph, deltaTime float64) error {
	sm.markerExpansionSystem.Expand(graph)
	sm.scenePostProcessSystem.Apply(graph)
	if sm.autoInstancing {
		sm.materialInstanceSystem.Consolidate(graph)
		sm.meshInstanceSystem.Consolidate(graph)
	}
	return nil
}

func (sm *SystemManager) MaterialInstances() *MaterialInstanceSystem {
	return sm.materialInstanceSystem
}

func (sm *SystemManager) MeshInstances() *MeshInstanceSystem {
	return sm.meshInstanceSystem
}

func (sm *SystemManager) Shutdown() error {
	if err := sm.meshInstanceSystem.Shutdown(); err != nil {
		return err
	}
	if err := sm.materialInstanceSystem.Shutdown(); err != nil {
		return err
	}
	if err := sm.scenePostProcessSystem.Shutdown(); err != nil {
		return err
	}
	if err := sm.markerExpansionSystem.Shutdown(); err != nil {
		return err
	}
	return nil
}
