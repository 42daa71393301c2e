package render

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"naivemip/internal/models"
)

// Ray-march parameters shared with fragmentShaderSource.
const (
	MarchSteps    = 256
	MarchStepSize = float32(1.0 / 256.0)
)

// eye is the point rays are cast away from, in clip space.
var eye = mgl32.Vec3{0, 0, -1}

// FragmentRay returns the ray the fragment shader casts from a fragment at
// clip-space position p.
func FragmentRay(p mgl32.Vec3) (origin, dir mgl32.Vec3) {
	return p, p.Sub(eye).Normalize().Mul(-1)
}

// ObjectToTexture maps the cube's object space onto [0,1]^3.
func ObjectToTexture(p mgl32.Vec3) mgl32.Vec3 {
	const e = float32(CubeHalfExtent)
	return mgl32.Vec3{
		(p[0] + e) / (2 * e),
		(p[1] + e) / (2 * e),
		(p[2] + e) / (2 * e),
	}
}

// SampleNearest reads vol the way the GPU does with nearest filtering and
// a black border: u maps to columns, v to rows and w to slices, and any
// coordinate outside [0,1) returns 0.
func SampleNearest(vol models.Volume, uvw mgl32.Vec3) float32 {
	x, ok := texel(uvw[0], vol.Dims.Cols)
	if !ok {
		return 0
	}
	y, ok := texel(uvw[1], vol.Dims.Rows)
	if !ok {
		return 0
	}
	z, ok := texel(uvw[2], vol.Dims.Depth)
	if !ok {
		return 0
	}
	return float32(vol.At(x, y, z)) / 255
}

func texel(c float32, n int) (int, bool) {
	if math.IsNaN(float64(c)) {
		return 0, false
	}
	i := int(math.Floor(float64(c) * float64(n)))
	if i < 0 || i >= n {
		return 0, false
	}
	return i, true
}

// MarchMIP computes on the CPU the value the fragment shader writes for a
// fragment at clip-space position frag, given the inverse model transform.
func MarchMIP(vol models.Volume, inverse mgl32.Mat4, frag mgl32.Vec3) float32 {
	origin, dir := FragmentRay(frag)

	var t, maxVal float32
	for i := 0; i < MarchSteps; i++ {
		pos := origin.Add(dir.Mul(t))
		obj := inverse.Mul4x1(pos.Vec4(1)).Vec3()
		if v := SampleNearest(vol, ObjectToTexture(obj)); v > maxVal {
			maxVal = v
		}
		t += MarchStepSize
	}
	return maxVal
}
