package raster

import (
	"math"

	"mvp-renderer/internal/mathutil"
)

// LightConfig holds precomputed lighting parameters. Directions are in world
// space and point from the surface towards the light.
type LightConfig struct {
	LightDir  mathutil.Vec3
	RimDir    mathutil.Vec3
	Ambient   float64
	Hemi      float64
	Direct    float64
	Rim       float64
	Exposure  float64
	InvGamma  float64
}

// DefaultLightConfig returns a key light from above-right-front and a rim
// light from behind.
func DefaultLightConfig() LightConfig {
	return LightConfig{
		LightDir: mathutil.Vec3{0.45, 0.65, 0.35}.Normalize(),
		RimDir:   mathutil.Vec3{-0.4, 0.3, -0.55}.Normalize(),
		Ambient:  0.35,
		Hemi:     0.25,
		Direct:   0.85,
		Rim:      0.25,
		Exposure: 1.05,
		InvGamma: 1.0 / 2.2,
	}
}

// ComputeShade returns the combined lighting scalar for a unit face normal.
func (lc *LightConfig) ComputeShade(normal mathutil.Vec3) float64 {
	ndl := math.Max(normal.Dot(lc.LightDir), 0)
	ndlRim := math.Max(normal.Dot(lc.RimDir), 0)

	// Hemisphere fill: sky above, ground below
	hemi := normal[1]*0.5 + 0.5

	return lc.Ambient + hemi*lc.Hemi + ndl*lc.Direct + ndlRim*lc.Rim
}

// Precomputed sRGB-to-linear lookup table (256 entries).
var srgbToLinear [256]float64

func init() {
	for i := 0; i < 256; i++ {
		srgbToLinear[i] = math.Pow(float64(i)/255.0, 2.2)
	}
}

// ACESTonemap applies ACES Filmic tone mapping to a linear value.
func ACESTonemap(x float64) float64 {
	return (x * (2.51*x + 0.03)) / (x*(2.43*x+0.59) + 0.14)
}

// shadeTexel converts an sRGB texel to a lit, tone-mapped sRGB colour.
func (lc *LightConfig) shadeTexel(r, g, b uint8, shade float64) (uint8, uint8, uint8) {
	k := shade * lc.Exposure
	tr := ACESTonemap(srgbToLinear[r] * k)
	tg := ACESTonemap(srgbToLinear[g] * k)
	tb := ACESTonemap(srgbToLinear[b] * k)
	return clamp255(math.Pow(tr, lc.InvGamma) * 255),
		clamp255(math.Pow(tg, lc.InvGamma) * 255),
		clamp255(math.Pow(tb, lc.InvGamma) * 255)
}

func clamp255(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
