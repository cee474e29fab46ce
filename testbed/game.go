package testbed

import (
	"fmt"

	"github.com/solarbyte/helios/engine"
	"github.com/solarbyte/helios/engine/core"
	"github.com/solarbyte/helios/engine/math"
	"github.com/solarbyte/helios/engine/resources"
	"github.com/solarbyte/helios/engine/scene"
)

// Number of crate copies spawned under the imported scene root. Every copy
// gets its own freshly loaded material and mesh, the way a naive importer
// would produce them, so the consolidation passes have real work to do.
const crateCount = 12

type TestGame struct {
	*engine.Game
}

type gameState struct {
	sceneRoot scene.EntityID

	summaryLogged bool
}

func NewTestGame(cfg *engine.ApplicationConfig) *TestGame {
	tg := &TestGame{
		Game: &engine.Game{
			ApplicationConfig: cfg,
			State: &gameState{
				sceneRoot: scene.InvalidEntityID,
			},
		},
	}

	tg.FnInitialize = tg.Initialize
	tg.FnUpdate = tg.Update
	tg.FnShutdown = tg.Shutdown

	return tg
}

func (g *TestGame) Initialize(e *engine.Engine) error {
	core.LogDebug("TestGame Initialize fn....")

	graph := e.Graph()
	state := g.State.(*gameState)

	// Imported scene. The root carries the recursive instancing markers plus
	// the post-process marker so every pass gets exercised.
	root := graph.CreateEntity("scene_root", scene.InvalidEntityID)
	root.AddMarker(scene.MarkerAutoInstanceMaterialRecursive)
	root.AddMarker(scene.MarkerAutoInstanceMeshRecursive)
	root.AddMarker(scene.MarkerPostProcessScene)
	state.sceneRoot = root.ID

	for i := 0; i < crateCount; i++ {
		if err := g.spawnCrate(e, root.ID, i); err != nil {
			return err
		}
	}

	// A light and camera that came in with the scene file. Post-processing
	// removes both, since the engine supplies its own below.
	importedLight := graph.CreateEntity("imported_point_light", root.ID)
	importedLight.Light = &resources.Light{
		Type:      resources.LightTypePoint,
		Colour:    math.NewVec4(1.0, 1.0, 1.0, 1.0),
		Intensity: 500.0,
		Range:     20.0,
	}
	importedCamera := graph.CreateEntity("imported_camera", root.ID)
	importedCamera.Camera = &resources.Camera{
		FieldOfView: math.K_PI / 4.0,
	}

	g.spawnLights(graph)

	camera := graph.CreateEntity("main_camera", scene.InvalidEntityID)
	camera.Camera = &resources.Camera{
		FieldOfView: math.K_PI / 3.0,
		Exposure:    -2.0,
		HDR:         true,
	}
	camera.Transform = math.TransformFromPosition(math.NewVec3(10.5, 5.0, 9.5))

	return nil
}

// spawnCrate loads a crate material and model from disk and hangs the
// resulting entity under parent. Loading per copy is deliberate: each copy
// owns distinct handles over identical data, exactly what the instancing
// passes exist to collapse.
func (g *TestGame) spawnCrate(e *engine.Engine, parent scene.EntityID, index int) error {
	materialName := "crate"
	if index%3 == 0 {
		// Every third crate uses the alpha-masked foliage material so the
		// post-process pass has transmission work to do as well.
		materialName = "foliage"
	}

	mat, err := e.Assets().LoadMaterial(materialName)
	if err != nil {
		core.LogError("failed to load material '%s'", materialName)
		return err
	}
	meshes, err := e.Assets().LoadModel("crate")
	if err != nil {
		core.LogError("failed to load crate model")
		return err
	}
	if len(meshes) == 0 {
		return fmt.Errorf("crate model contains no geometry")
	}

	entity := e.Graph().CreateEntity(fmt.Sprintf("crate_%d", index), parent)
	entity.Material = mat
	entity.Mesh = meshes[0]
	// SetPosition rather than a fresh Transform: the parent link to the
	// scene root must survive.
	entity.Transform.SetPosition(math.NewVec3(float32(index%4)*3.0, 0.0, float32(index/4)*3.0))

	mesh, ok := e.Assets().ResolveMesh(meshes[0])
	if !ok {
		// LoadModel completes synchronously, so this cannot happen short
		// of a bug in the asset manager.
		return core.ErrResourceNotLoaded
	}
	entity.Extents = mesh.Extents
	return nil
}

// spawnLights creates the engine-owned light rig. Each light is tagged so
// scene post-processing leaves it alone.
func (g *TestGame) spawnLights(graph *scene.Graph) {
	sun := graph.CreateEntity("sun", scene.InvalidEntityID)
	sun.Light = &resources.Light{
		Type:             resources.LightTypeDirectional,
		Colour:           math.NewVec4(0.95, 0.69268, 0.537758, 1.0),
		Intensity:        100000.0,
		ShadowsEnabled:   true,
		ShadowDepthBias:  0.04,
		ShadowNormalBias: 1.8,
	}
	sun.Transform = math.TransformFromRotation(math.NewQuatFromEulerXYZ(-1.8327503, -0.41924718, 0.0))
	sun.AddMarker(scene.MarkerEngineLight)

	sky := graph.CreateEntity("sky_fill", scene.InvalidEntityID)
	sky.Light = &resources.Light{
		Type:      resources.LightTypePoint,
		Colour:    math.NewVec4(0.4, 0.55, 0.9, 1.0),
		Intensity: 8000.0,
		Range:     60.0,
		Radius:    1.5,
	}
	sky.Transform = math.TransformFromPosition(math.NewVec3(0.0, 18.0, 0.0))
	sky.AddMarker(scene.MarkerEngineLight)

	spot := graph.CreateEntity("spot", scene.InvalidEntityID)
	spot.Light = &resources.Light{
		Type:           resources.LightTypeSpot,
		Colour:         math.NewVec4(1.0, 0.95, 0.8, 1.0),
		Intensity:      30000.0,
		Range:          35.0,
		InnerAngle:     math.K_PI / 8.0,
		OuterAngle:     math.K_PI / 5.0,
		ShadowsEnabled: true,
	}
	spot.Transform = math.TransformFromPosition(math.NewVec3(-6.0, 10.0, 4.0))
	spot.AddMarker(scene.MarkerEngineLight)
}

func (g *TestGame) Update(e *engine.Engine, deltaTime float64) error {
	state := g.State.(*gameState)

	// Once the passes have drained the root's markers, report what they did.
	if !state.summaryLogged {
		root, ok := e.Graph().Get(state.sceneRoot)
		if ok && root.Markers == 0 {
			dupMat, uniqMat, dupMesh, uniqMesh := core.MetricsInstanceCounts()
			core.LogInfo("scene consolidated: materials %d unique (%d collapsed), meshes %d unique (%d collapsed), %d entities",
				uniqMat, dupMat, uniqMesh, dupMesh, e.Graph().Count())
			context := core.EventContext{}
			context.Data.U32[0] = uint32(state.sceneRoot)
			core.EventFire(core.EVENT_CODE_SCENE_LOADED, g, context)
			state.summaryLogged = true
		}
	}

	return nil
}

func (g *TestGame) Shutdown(e *engine.Engine) error {
	core.LogDebug("TestGame Shutdown fn....")
	return nil
}
