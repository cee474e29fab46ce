package resources

import (
	"hash/fnv"

	"github.com/solarbyte/helios/engine/math"
)

/** @brief The name of the default material. */
const DefaultMaterialName string = "default"

/** @brief Controls how a material's alpha channel is interpreted. */
type AlphaMode int

const (
	/** @brief Alpha is ignored; the surface is fully opaque. */
	AlphaModeOpaque AlphaMode = iota
	/** @brief Texels below the cutoff are discarded. */
	AlphaModeMask
	/** @brief Standard alpha blending. */
	AlphaModeBlend
	/** @brief Blending with premultiplied alpha. */
	AlphaModePremultiplied
	/** @brief Additive blending. */
	AlphaModeAdd
	/** @brief Multiplicative blending. */
	AlphaModeMultiply
)

// Per-variant fold salts for alpha modes that carry no payload.
const (
	alphaOpaqueSalt        uint32 = 798573452
	alphaBlendSalt         uint32 = 1345634567
	alphaPremultipliedSalt uint32 = 297897363
	alphaAddSalt           uint32 = 36345667
	alphaMultiplySalt      uint32 = 48967896
)

/**
 * @brief Material configuration typically loaded from
 * a file or created in code to load a material from.
 */
type MaterialConfig struct {
	/** @brief The name of the material. */
	Name string
	/** @brief Indicates if the material should be automatically released when no references to it remain. */
	AutoRelease bool
	/** @brief The diffuse colour of the material. */
	DiffuseColour math.Vec4
	/** @brief The emissive colour of the material. */
	EmissiveColour math.Vec4
	/** @brief The shininess of the material. */
	Shininess float32
	/** @brief The perceptual roughness of the material. */
	Roughness float32
	/** @brief The metalness of the material. */
	Metallic float32
	/** @brief The alpha mode. One of opaque, mask, blend, premultiplied, add, multiply. */
	AlphaMode string
	/** @brief The alpha cutoff, used when AlphaMode is mask. */
	AlphaCutoff float32
	/** @brief The diffuse map name. */
	DiffuseMapName string
	/** @brief The specular map name. */
	SpecularMapName string
	/** @brief The normal map name. */
	NormalMapName string
	/** @brief The emissive map name. */
	EmissiveMapName string
}

/**
 * @brief A material, which represents various properties
 * of a surface in the world such as texture, colour,
 * bumpiness, shininess and more.
 */
type Material struct {
	/** @brief The material id. */
	ID uint32
	/** @brief The material generation. Incremented every time the material is changed. */
	Generation uint32
	/** @brief The material name. */
	Name string
	/** @brief The diffuse colour. */
	DiffuseColour math.Vec4
	/** @brief The diffuse texture map. */
	DiffuseMap *TextureMap
	/** @brief The emissive colour. */
	EmissiveColour math.Vec4
	/** @brief The emissive texture map. */
	EmissiveMap *TextureMap
	/** @brief The specular texture map. */
	SpecularMap *TextureMap
	/** @brief The normal texture map. */
	NormalMap *TextureMap
	/** @brief Indicates if the normal map's y component should be flipped. */
	FlipNormalMapY bool
	/** @brief The material shininess, determines how concentrated the specular lighting is. */
	Shininess float32
	/** @brief The perceptual roughness. */
	Roughness float32
	/** @brief The metalness. */
	Metallic float32
	/** @brief The specular reflectance at normal incidence. */
	Reflectance float32
	/** @brief How much light passes diffusely through the surface. */
	DiffuseTransmission float32
	/** @brief How much light passes specularly through the surface. */
	SpecularTransmission float32
	/** @brief The thickness of the volume beneath the surface. */
	Thickness float32
	/** @brief The index of refraction. */
	IOR float32
	/** @brief The distance at which attenuation colour takes full effect. */
	AttenuationDistance float32
	/** @brief The colour light is attenuated to when passing through. */
	AttenuationColour math.Vec4
	/** @brief Indicates if both sides of geometry are shaded. */
	DoubleSided bool
	/** @brief The face culling mode. */
	CullMode FaceCullMode
	/** @brief Indicates if lighting is skipped entirely. */
	Unlit bool
	/** @brief Indicates if the material participates in fog. */
	FogEnabled bool
	/** @brief The alpha mode. */
	AlphaMode AlphaMode
	/** @brief The alpha cutoff, used when AlphaMode is AlphaModeMask. */
	AlphaCutoff float32
	/** @brief The depth bias applied when rendering. */
	DepthBias float32
	/** @brief Synced to the renderer's current frame number when the material has been applied that frame. */
	RenderFrameNumber uint32
}

// MaterialFromConfig builds a material from its file configuration.
// Fields the config format does not cover keep their zero defaults.
func MaterialFromConfig(cfg *MaterialConfig) *Material {
	m := &Material{
		Name:           cfg.Name,
		DiffuseColour:  cfg.DiffuseColour,
		EmissiveColour: cfg.EmissiveColour,
		Shininess:      cfg.Shininess,
		Roughness:      cfg.Roughness,
		Metallic:       cfg.Metallic,
		AlphaCutoff:    cfg.AlphaCutoff,
		CullMode:       FaceCullModeBack,
		FogEnabled:     true,
		IOR:            1.5,
	}
	switch cfg.AlphaMode {
	case "", "opaque":
		m.AlphaMode = AlphaModeOpaque
	case "mask":
		m.AlphaMode = AlphaModeMask
	case "blend":
		m.AlphaMode = AlphaModeBlend
	case "premultiplied":
		m.AlphaMode = AlphaModePremultiplied
	case "add":
		m.AlphaMode = AlphaModeAdd
	case "multiply":
		m.AlphaMode = AlphaModeMultiply
	}
	if cfg.DiffuseMapName != "" {
		m.DiffuseMap = newTextureMap(cfg.DiffuseMapName, TextureUseMapDiffuse)
	}
	if cfg.SpecularMapName != "" {
		m.SpecularMap = newTextureMap(cfg.SpecularMapName, TextureUseMapSpecular)
	}
	if cfg.NormalMapName != "" {
		m.NormalMap = newTextureMap(cfg.NormalMapName, TextureUseMapNormal)
	}
	if cfg.EmissiveMapName != "" {
		m.EmissiveMap = newTextureMap(cfg.EmissiveMapName, TextureUseMapEmissive)
	}
	return m
}

func newTextureMap(name string, use TextureUse) *TextureMap {
	return &TextureMap{
		Texture:       &Texture{Name: name},
		Use:           use,
		FilterMinify:  TextureFilterModeLinear,
		FilterMagnify: TextureFilterModeLinear,
		RepeatU:       TextureRepeatRepeat,
		RepeatV:       TextureRepeatRepeat,
	}
}

/**
 * @brief Computes a stable 64-bit digest over every visually relevant field
 * of the material, in fixed field order. Two materials with identical visual
 * parameters always produce the same fingerprint. Identity fields (id,
 * generation, name) are deliberately excluded.
 */
func (m *Material) Fingerprint() uint64 {
	h := fnv.New64a()

	hashVec4(h, m.DiffuseColour)
	hashTextureMap(h, m.DiffuseMap)
	hashVec4(h, m.EmissiveColour)
	hashTextureMap(h, m.EmissiveMap)
	hashTextureMap(h, m.SpecularMap)
	hashFloat32(h, m.Shininess)
	hashFloat32(h, m.Roughness)
	hashFloat32(h, m.Metallic)
	hashFloat32(h, m.Reflectance)
	hashFloat32(h, m.DiffuseTransmission)
	hashFloat32(h, m.SpecularTransmission)
	hashFloat32(h, m.Thickness)
	hashFloat32(h, m.IOR)
	hashFloat32(h, m.AttenuationDistance)
	hashVec4(h, m.AttenuationColour)
	hashTextureMap(h, m.NormalMap)
	hashBool(h, m.FlipNormalMapY)
	hashBool(h, m.DoubleSided)
	hashUint32(h, uint32(m.CullMode))
	hashBool(h, m.Unlit)
	hashBool(h, m.FogEnabled)
	switch m.AlphaMode {
	case AlphaModeOpaque:
		hashUint32(h, alphaOpaqueSalt)
	case AlphaModeMask:
		hashFloat32(h, m.AlphaCutoff)
	case AlphaModeBlend:
		hashUint32(h, alphaBlendSalt)
	case AlphaModePremultiplied:
		hashUint32(h, alphaPremultipliedSalt)
	case AlphaModeAdd:
		hashUint32(h, alphaAddSalt)
	case AlphaModeMultiply:
		hashUint32(h, alphaMultiplySalt)
	}
	hashFloat32(h, m.DepthBias)

	return h.Sum64()
}
