package assets

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/solarbyte/helios/engine/assets/loaders"
	"github.com/solarbyte/helios/engine/core"
	"github.com/solarbyte/helios/engine/resources"
)

type AssetInfo struct {
	Path       string
	Type       resources.ResourceType
	LastLoaded time.Time
}

/**
 * @brief Owns all loaded resource data and the handle→data mapping. Handles
 * are registered eagerly; the data behind them may stream in on a later
 * frame, so resolution can legitimately fail with "not yet loaded".
 */
type AssetManager struct {
	assetsDir string
	assets    map[string]AssetInfo
	loaders   map[resources.ResourceType]Loader

	materials       map[resources.MaterialHandle]*resources.Material
	materialsByName map[string]resources.MaterialHandle
	meshes          map[resources.MeshHandle]*resources.MeshGeometry
	meshesByName    map[string]resources.MeshHandle

	mutex sync.RWMutex

	done     chan struct{}
	fsnotify *fsnotify.Watcher
	isClosed bool
}

func NewAssetManager() (*AssetManager, error) {
	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &AssetManager{
		assets:          make(map[string]AssetInfo),
		loaders:         make(map[resources.ResourceType]Loader),
		materials:       make(map[resources.MaterialHandle]*resources.Material),
		materialsByName: make(map[string]resources.MaterialHandle),
		meshes:          make(map[resources.MeshHandle]*resources.MeshGeometry),
		meshesByName:    make(map[string]resources.MeshHandle),
		fsnotify:        fsWatch,
		done:            make(chan struct{}),
	}, nil
}

func (am *AssetManager) Initialize(assetsDir string) error {
	am.assetsDir = assetsDir

	// Register loaders
	am.registerLoader(resources.ResourceTypeMaterial, &loaders.MaterialLoader{})
	am.registerLoader(resources.ResourceTypeModel, &loaders.ModelLoader{})
	am.registerLoader(resources.ResourceTypeTexture, &loaders.TextureLoader{})

	go am.start()

	if err := am.addRecursive(assetsDir); err != nil {
		return err
	}
	return nil
}

func (am *AssetManager) Shutdown() error {
	if am.isClosed {
		return errors.New("asset manager already closed")
	}
	am.isClosed = true
	close(am.done)
	return nil
}

// AddRecursive starts watching the named directory and all sub-directories.
func (am *AssetManager) addRecursive(name string) error {
	if am.isClosed {
		return errors.New("fsnotify instance already closed")
	}
	return am.watchRecursive(name, false)
}

// Register loaders for each asset type
func (am *AssetManager) registerLoader(assetType resources.ResourceType, loader Loader) {
	am.loaders[assetType] = loader
}

// ------------------------------------------
// Handle registration and resolution
// ------------------------------------------

// RegisterMaterial reserves a handle whose data streams in later via
// CompleteMaterial.
func (am *AssetManager) RegisterMaterial() resources.MaterialHandle {
	return resources.MaterialHandle(core.NewResourceID())
}

// CompleteMaterial attaches loaded data to a previously registered handle.
// Re-completing a handle that already has data is a reload; the incoming
// material picks up the next generation.
func (am *AssetManager) CompleteMaterial(h resources.MaterialHandle, mat *resources.Material) {
	am.mutex.Lock()
	defer am.mutex.Unlock()
	if prev, ok := am.materials[h]; ok && prev != nil && mat != nil {
		mat.Generation = prev.Generation + 1
	}
	am.materials[h] = mat
	if mat != nil {
		am.materialsByName[mat.Name] = h
	}
}

// RegisterMesh reserves a handle whose data streams in later via CompleteMesh.
func (am *AssetManager) RegisterMesh() resources.MeshHandle {
	return resources.MeshHandle(core.NewResourceID())
}

func (am *AssetManager) CompleteMesh(h resources.MeshHandle, geometry *resources.MeshGeometry) {
	am.mutex.Lock()
	defer am.mutex.Unlock()
	if prev, ok := am.meshes[h]; ok && prev != nil && geometry != nil {
		geometry.Generation = prev.Generation + 1
	}
	am.meshes[h] = geometry
	if geometry != nil {
		am.meshesByName[geometry.Name] = h
	}
}

// ResolveMaterial returns the data behind a material handle. The second
// return is false while the asset has not finished loading; callers should
// retry on a later frame rather than treat this as an error.
func (am *AssetManager) ResolveMaterial(h resources.MaterialHandle) (*resources.Material, bool) {
	am.mutex.RLock()
	defer am.mutex.RUnlock()
	mat, ok := am.materials[h]
	if !ok || mat == nil {
		return nil, false
	}
	return mat, true
}

// ResolveMesh returns the geometry behind a mesh handle, or false while it
// has not finished loading.
func (am *AssetManager) ResolveMesh(h resources.MeshHandle) (*resources.MeshGeometry, bool) {
	am.mutex.RLock()
	defer am.mutex.RUnlock()
	geometry, ok := am.meshes[h]
	if !ok || geometry == nil {
		return nil, false
	}
	return geometry, true
}

// MaterialByName returns the handle of a loaded material by its name.
func (am *AssetManager) MaterialByName(name string) (resources.MaterialHandle, bool) {
	am.mutex.RLock()
	defer am.mutex.RUnlock()
	h, ok := am.materialsByName[name]
	return h, ok
}

// MeshByName returns the handle of a loaded mesh by its geometry name.
func (am *AssetManager) MeshByName(name string) (resources.MeshHandle, bool) {
	am.mutex.RLock()
	defer am.mutex.RUnlock()
	h, ok := am.meshesByName[name]
	return h, ok
}

// ------------------------------------------
// File loading
// ------------------------------------------

// LoadMaterial loads a .hmt material file from the asset directory and
// returns a completed handle.
func (am *AssetManager) LoadMaterial(filename string) (resources.MaterialHandle, error) {
	path := filepath.Join(am.assetsDir, "materials", fmt.Sprintf("%s.hmt", filename))
	loader := am.loaders[resources.ResourceTypeMaterial]

	res, err := loader.Load(path, resources.ResourceTypeMaterial, nil)
	if err != nil {
		return resources.MaterialHandle{}, err
	}
	cfg, ok := res.Data.(*resources.MaterialConfig)
	if !ok {
		return resources.MaterialHandle{}, fmt.Errorf("material loader returned unexpected data for '%s'", path)
	}

	h := am.RegisterMaterial()
	am.CompleteMaterial(h, resources.MaterialFromConfig(cfg))
	am.trackAsset(path, resources.ResourceTypeMaterial)
	return h, nil
}

// LoadModel loads an .obj model file and returns one completed mesh handle
// per geometry in the file.
func (am *AssetManager) LoadModel(filename string) ([]resources.MeshHandle, error) {
	path := filepath.Join(am.assetsDir, "models", fmt.Sprintf("%s.obj", filename))
	loader := am.loaders[resources.ResourceTypeModel]

	res, err := loader.Load(path, resources.ResourceTypeModel, nil)
	if err != nil {
		return nil, err
	}
	geometries, ok := res.Data.([]*resources.MeshGeometry)
	if !ok {
		return nil, fmt.Errorf("model loader returned unexpected data for '%s'", path)
	}

	handles := make([]resources.MeshHandle, 0, len(geometries))
	for _, g := range geometries {
		h := am.RegisterMesh()
		am.CompleteMesh(h, g)
		handles = append(handles, h)
	}
	am.trackAsset(path, resources.ResourceTypeModel)
	return handles, nil
}

func (am *AssetManager) trackAsset(path string, assetType resources.ResourceType) {
	am.mutex.Lock()
	defer am.mutex.Unlock()
	am.assets[path] = AssetInfo{
		Path:       path,
		Type:       assetType,
		LastLoaded: time.Now(),
	}
}

// ------------------------------------------
// Directory watching
// ------------------------------------------

func (am *AssetManager) start() {
	for {
		select {

		case e := <-am.fsnotify.Events:
			s, err := os.Stat(e.Name)
			if err == nil && s != nil && s.IsDir() {
				if e.Op&fsnotify.Create != 0 {
					am.watchRecursive(e.Name, false)
				}
			}
			// Handle create or modify events
			if e.Op&(fsnotify.Create|fsnotify.Write) != 0 {
				am.handleFileEvent(e.Name)
			}
			//Can't stat a deleted directory, so just pretend that it's always a directory and
			//try to remove from the watch list...  we really have no clue if it's a directory or not...
			if e.Op&fsnotify.Remove != 0 {
				am.removeAsset(e.Name)
				am.fsnotify.Remove(e.Name)
			}

		case e := <-am.fsnotify.Errors:
			core.LogError(e.Error())

		case <-am.done:
			am.fsnotify.Close()
			return
		}
	}
}

// watchRecursive adds all directories under the given one to the watch list.
// this is probably a very racey process. What if a file is added to a folder before we get the watch added?
func (am *AssetManager) watchRecursive(path string, unWatch bool) error {
	err := filepath.Walk(path, func(walkPath string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if fi.IsDir() {
			if unWatch {
				if err = am.fsnotify.Remove(walkPath); err != nil {
					return err
				}
			} else {
				if err = am.fsnotify.Add(walkPath); err != nil {
					return err
				}
			}
		} else {
			am.handleFileEvent(walkPath)
		}
		return nil
	})
	return err
}

// Handle the creation or modification of a file. Modified files that
// back already-loaded assets are announced so their consumers can reload.
func (am *AssetManager) handleFileEvent(path string) {
	assetType := determineAssetType(path)
	if assetType == resources.ResourceTypeNone {
		return
	}

	am.mutex.Lock()
	_, known := am.assets[path]
	am.assets[path] = AssetInfo{
		Path:       path,
		Type:       assetType,
		LastLoaded: time.Now(),
	}
	am.mutex.Unlock()

	if known {
		am.reloadAsset(path, assetType)
		context := core.EventContext{}
		context.Data.C[0] = path
		core.EventFire(core.EVENT_CODE_ASSET_RELOADED, am, context)
	}
}

// reloadAsset re-parses a modified file and swaps the fresh data in behind
// the handles already in circulation, so consumers pick the change up
// without re-loading. The swap bumps the resource generation.
func (am *AssetManager) reloadAsset(path string, assetType resources.ResourceType) {
	loader, ok := am.loaders[assetType]
	if !ok {
		return
	}
	res, err := loader.Load(path, assetType, nil)
	if err != nil {
		core.LogWarn("reload of '%s' failed: %s", path, err.Error())
		return
	}

	switch assetType {
	case resources.ResourceTypeMaterial:
		cfg, ok := res.Data.(*resources.MaterialConfig)
		if !ok {
			return
		}
		if h, found := am.MaterialByName(cfg.Name); found {
			am.CompleteMaterial(h, resources.MaterialFromConfig(cfg))
		}
	case resources.ResourceTypeModel:
		geometries, ok := res.Data.([]*resources.MeshGeometry)
		if !ok {
			return
		}
		for _, g := range geometries {
			if h, found := am.MeshByName(g.Name); found {
				am.CompleteMesh(h, g)
			}
		}
	}
}

// Remove the asset from the index if it was deleted
func (am *AssetManager) removeAsset(path string) {
	am.mutex.Lock()
	defer am.mutex.Unlock()

	delete(am.assets, path)
}

func determineAssetType(path string) resources.ResourceType {
	switch filepath.Ext(path) {
	case ".hmt":
		return resources.ResourceTypeMaterial
	case ".obj", ".mtl":
		return resources.ResourceTypeModel
	case ".png", ".jpg", ".bmp", ".webp":
		return resources.ResourceTypeTexture
	case ".toml":
		return resources.ResourceTypeConfig
	default:
		return resources.ResourceTypeNone
	}
}
