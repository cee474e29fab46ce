package engine

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/solarbyte/helios/engine/assets"
	"github.com/solarbyte/helios/engine/core"
	"github.com/solarbyte/helios/engine/scene"
	"github.com/solarbyte/helios/engine/systems"
)

type Stage uint8

const (
	// Engine is in an uninitialized state
	EngineStageUninitialized Stage = iota
	// Engine is currently booting up
	EngineStageBooting
	// Engine completed boot process and is ready to be initialized
	EngineStageBootComplete
	// Engine is currently initializing
	EngineStageInitializing
	// Engine initialization is complete
	EngineStageInitialized
	// Engine is currently running
	EngineStageRunning
	// Engine is in the process of shutting down
	EngineStageShuttingDown
)

type Engine struct {
	currentStage  Stage
	gameInstance  *Game
	isRunning     bool
	isSuspended   bool
	assetManager  *assets.AssetManager
	systemManager *systems.SystemManager
	sceneGraph    *scene.Graph
	clock         *core.Clock
	lastTime      float64
	frameCount    uint64
}

func New(g *Game) (*Engine, error) {
	am, err := assets.NewAssetManager()
	if err != nil {
		core.LogError(err.Error())
		return nil, err
	}

	sm, err := systems.NewSystemManager(am)
	if err != nil {
		core.LogError(err.Error())
		return nil, err
	}

	return &Engine{
		currentStage:  EngineStageUninitialized,
		gameInstance:  g,
		clock:         core.NewClock(),
		assetManager:  am,
		systemManager: sm,
		sceneGraph:    scene.NewGraph(),
		isRunning:     true,
		isSuspended:   false,
		lastTime:      0,
	}, nil
}

func (e *Engine) Initialize() error {
	e.currentStage = EngineStageInitializing

	// initialize events
	if !core.EventInitialize() {
		return fmt.Errorf("failed to initialize the event system")
	}
	if err := core.MetricsInitialize(); err != nil {
		return err
	}

	// register some events
	core.EventRegister(core.EVENT_CODE_APPLICATION_QUIT, e, e.onEvent)
	core.EventRegister(core.EVENT_CODE_ASSET_RELOADED, e, e.onAssetReloaded)

	// initialize subsystems
	wd, err := os.Getwd()
	if err != nil {
		return err
	}
	assetsDir := e.gameInstance.ApplicationConfig.AssetsDir
	if !filepath.IsAbs(assetsDir) {
		assetsDir = filepath.Join(wd, assetsDir)
	}
	if err := e.assetManager.Initialize(assetsDir); err != nil {
		return err
	}

	e.systemManager.SetAutoInstancing(e.gameInstance.ApplicationConfig.AutoInstancing)

	if e.gameInstance.FnInitialize != nil {
		if err := e.gameInstance.FnInitialize(e); err != nil {
			return err
		}
	}

	e.currentStage = EngineStageInitialized
	return nil
}

func (e *Engine) Run() error {
	e.currentStage = EngineStageRunning
	e.clock.Start()
	e.clock.Update()
	e.lastTime = e.clock.ElapsedSeconds()

	var targetFrameSeconds float64
	if rate := e.gameInstance.ApplicationConfig.TargetFrameRate; rate > 0 {
		targetFrameSeconds = 1.0 / float64(rate)
	}

	for e.isRunning {
		if !e.isSuspended {
			// Update clock and get delta time.
			e.clock.Update()

			currentTime := e.clock.ElapsedSeconds()
			delta := currentTime - e.lastTime

			// Run the per-frame processing passes over the scene graph.
			if err := e.systemManager.Update(e.sceneGraph, delta); err != nil {
				core.LogError("systems update failed, shutting down: %s", err.Error())
				e.isRunning = false
				break
			}

			if e.gameInstance.FnUpdate != nil {
				if err := e.gameInstance.FnUpdate(e, delta); err != nil {
					core.LogError("game update failed, shutting down: %s", err.Error())
					e.isRunning = false
					break
				}
			}

			// Figure out how long the frame took and, if time is left
			// within the frame budget, give it back to the OS.
			e.clock.Update()
			frameElapsed := e.clock.ElapsedSeconds() - currentTime
			core.MetricsUpdate(frameElapsed)
			if remaining := targetFrameSeconds - frameElapsed; remaining > 0 {
				time.Sleep(time.Duration(remaining * float64(time.Second)))
			}

			e.frameCount++
			if limit := e.gameInstance.ApplicationConfig.MaxFrames; limit > 0 && e.frameCount >= limit {
				e.isRunning = false
			}

			// Update last time
			e.lastTime = currentTime
		}
	}

	return e.Shutdown()
}

func (e *Engine) Shutdown() error {
	if e.currentStage == EngineStageShuttingDown {
		return nil
	}
	e.currentStage = EngineStageShuttingDown
	e.isRunning = false

	if e.gameInstance.FnShutdown != nil {
		if err := e.gameInstance.FnShutdown(e); err != nil {
			core.LogError(err.Error())
		}
	}
	if err := e.systemManager.Shutdown(); err != nil {
		return err
	}
	if err := e.assetManager.Shutdown(); err != nil {
		return err
	}
	return core.EventShutdown()
}

// Graph returns the scene graph owned by the engine.
func (e *Engine) Graph() *scene.Graph {
	return e.sceneGraph
}

// Assets returns the asset manager owned by the engine.
func (e *Engine) Assets() *assets.AssetManager {
	return e.assetManager
}

// Systems returns the system manager owned by the engine.
func (e *Engine) Systems() *systems.SystemManager {
	return e.systemManager
}

func (e *Engine) onEvent(code core.SystemEventCode, sender interface{}, listener interface{}, data core.EventContext) bool {
	switch code {
	case core.EVENT_CODE_APPLICATION_QUIT:
		core.LogInfo("EVENT_CODE_APPLICATION_QUIT received, shutting down.")
		e.isRunning = false
		return true
	}
	return false
}

func (e *Engine) onAssetReloaded(code core.SystemEventCode, sender interface{}, listener interface{}, data core.EventContext) bool {
	core.LogDebug("asset changed on disk: %s", data.Data.C[0])
	return false
}
