package loaders

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"unsafe"

	"github.com/solarbyte/helios/engine/core"
	"github.com/solarbyte/helios/engine/math"
	"github.com/solarbyte/helios/engine/resources"
)

type MaterialLoader struct{}

func (ml *MaterialLoader) Load(path string, assetType resources.ResourceType, params interface{}) (*resources.Resource, error) {
	mCfg, err := parseHMTFile(path)
	if err != nil {
		return nil, err
	}
	return &resources.Resource{
		Name:     "material",
		FullPath: path,
		DataSize: uint64(unsafe.Sizeof(resources.MaterialConfig{})),
		Data:     mCfg,
	}, nil
}

func parseHMTFile(filename string) (*resources.MaterialConfig, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	materialConfig := &resources.MaterialConfig{}

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Skip comments and empty lines
		if strings.HasPrefix(line, "#") || line == "" {
			continue
		}

		// Split key-value pairs by the first "=" sign
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			core.LogWarn("skipping invalid line: %s", line)
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		// Parse each field based on the key
		switch key {
		case "name":
			materialConfig.Name = value
		case "diffuse_colour":
			colour, err := parseColour(value)
			if err != nil {
				return nil, fmt.Errorf("invalid diffuse_colour: %w", err)
			}
			materialConfig.DiffuseColour = colour
		case "emissive_colour":
			colour, err := parseColour(value)
			if err != nil {
				return nil, fmt.Errorf("invalid emissive_colour: %w", err)
			}
			materialConfig.EmissiveColour = colour
		case "shininess":
			shininess, err := strconv.ParseFloat(value, 32)
			if err != nil {
				return nil, fmt.Errorf("invalid shininess value: %s", value)
			}
			materialConfig.Shininess = float32(shininess)
		case "roughness":
			roughness, err := strconv.ParseFloat(value, 32)
			if err != nil {
				return nil, fmt.Errorf("invalid roughness value: %s", value)
			}
			materialConfig.Roughness = float32(roughness)
		case "metallic":
			metallic, err := strconv.ParseFloat(value, 32)
			if err != nil {
				return nil, fmt.Errorf("invalid metallic value: %s", value)
			}
			materialConfig.Metallic = float32(metallic)
		case "alpha_mode":
			materialConfig.AlphaMode = value
		case "alpha_cutoff":
			cutoff, err := strconv.ParseFloat(value, 32)
			if err != nil {
				return nil, fmt.Errorf("invalid alpha_cutoff value: %s", value)
			}
			materialConfig.AlphaCutoff = float32(cutoff)
		case "diffuse_map_name":
			materialConfig.DiffuseMapName = value
		case "specular_map_name":
			materialConfig.SpecularMapName = value
		case "normal_map_name":
			materialConfig.NormalMapName = value
		case "emissive_map_name":
			materialConfig.EmissiveMapName = value
		case "autorelease":
			autoRelease, err := strconv.ParseBool(value)
			if err != nil {
				return nil, fmt.Errorf("invalid autorelease value: %s", value)
			}
			materialConfig.AutoRelease = autoRelease
		default:
			core.LogError("Unknown key '%s' found in file. Skipping...", key)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	// Perform validation
	if err := validateMaterial(materialConfig); err != nil {
		return nil, err
	}
	return materialConfig, nil
}

func parseColour(value string) (math.Vec4, error) {
	colourValues := strings.Fields(value)
	if len(colourValues) != 4 {
		return math.Vec4{}, fmt.Errorf("expected 4 values, got %d", len(colourValues))
	}
	out := math.Vec4{}
	for i, v := range colourValues {
		f, err := strconv.ParseFloat(v, 32)
		if err != nil {
			return math.Vec4{}, fmt.Errorf("invalid colour value: %s", v)
		}
		switch i {
		case 0:
			out.X = float32(f)
		case 1:
			out.Y = float32(f)
		case 2:
			out.Z = float32(f)
		case 3:
			out.W = float32(f)
		}
	}
	return out, nil
}

func validateMaterial(material *resources.MaterialConfig) error {
	if material.Name == "" {
		return fmt.Errorf("material name is required")
	}

	// Check that DiffuseColour values are within [0.0, 1.0] range
	if !isValidColour(material.DiffuseColour) {
		return fmt.Errorf("diffuse_colour values must be between 0.0 and 1.0")
	}

	// Check shininess for a non-negative value
	if material.Shininess < 0 {
		return fmt.Errorf("shininess must be a non-negative value")
	}

	switch material.AlphaMode {
	case "", "opaque", "mask", "blend", "premultiplied", "add", "multiply":
	default:
		return fmt.Errorf("unknown alpha_mode: %s", material.AlphaMode)
	}

	if material.AlphaCutoff < 0.0 || material.AlphaCutoff > 1.0 {
		return fmt.Errorf("alpha_cutoff must be between 0.0 and 1.0")
	}

	return nil
}

// Helper function to validate colour fields (must be between 0.0 and 1.0)
func isValidColour(v math.Vec4) bool {
	return inRange(v.X) && inRange(v.Y) && inRange(v.Z) && inRange(v.W)
}

// Check if a float32 value is within [0.0, 1.0]
func inRange(value float32) bool {
	return value >= 0.0 && value <= 1.0
}

func (ml *MaterialLoader) Unload(*resources.Resource) error {
	return nil
}
