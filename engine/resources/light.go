package resources

import "github.com/solarbyte/helios/engine/math"

type LightType int

const (
	/** @brief A light infinitely far away, lighting along a single direction. */
	LightTypeDirectional LightType = iota
	/** @brief A light radiating in all directions from a point. */
	LightTypePoint
	/** @brief A cone-shaped light. */
	LightTypeSpot
)

/**
 * @brief Light source data attached to a scene entity. Which fields apply
 * depends on the light type.
 */
type Light struct {
	Type LightType
	/** @brief The light colour, linear RGB plus intensity multiplier in W. */
	Colour math.Vec4
	/** @brief Illuminance in lux for directional lights, luminous intensity otherwise. */
	Intensity float32
	/** @brief The maximum range of point and spot lights. */
	Range float32
	/** @brief The physical radius of point lights, softens shadows. */
	Radius float32
	/** @brief Inner cone angle of spot lights, in radians. */
	InnerAngle float32
	/** @brief Outer cone angle of spot lights, in radians. */
	OuterAngle float32
	ShadowsEnabled   bool
	ShadowDepthBias  float32
	ShadowNormalBias float32
}

/**
 * @brief Camera data attached to a scene entity. The render backend
 * consumes this; the engine core only carries it.
 */
type Camera struct {
	/** @brief Vertical field of view, in radians. */
	FieldOfView float32
	/** @brief Exposure compensation in stops. */
	Exposure float32
	HDR      bool
}
