package engine

import (
	"os"

	"github.com/pelletier/go-toml/v2"
)

/**
 * @brief Application-level configuration, loaded from a TOML file in the
 * working directory.
 */
type ApplicationConfig struct {
	/** @brief The application name. */
	Name string `toml:"name"`
	/** @brief Directory holding materials, models and textures. */
	AssetsDir string `toml:"assets_dir"`
	/** @brief Upper bound on frames per second. 0 leaves the loop uncapped. */
	TargetFrameRate uint32 `toml:"target_frame_rate"`
	/** @brief Enables the auto-instancing (dedup) passes. */
	AutoInstancing bool `toml:"auto_instancing"`
	/** @brief Stop after this many frames. 0 runs until a quit event. */
	MaxFrames uint64 `toml:"max_frames"`
}

func LoadApplicationConfig(path string) (*ApplicationConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := &ApplicationConfig{
		Name:           "helios",
		AssetsDir:      "assets",
		AutoInstancing: true,
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

type Game struct {
	ApplicationConfig *ApplicationConfig
	State             interface{}
	FnInitialize      Initialize
	FnUpdate          Update
	FnShutdown        Shutdown
}

type Initialize func(engine *Engine) error
type Update func(engine *Engine, deltaTime float64) error
type Shutdown func(engine *Engine) error
