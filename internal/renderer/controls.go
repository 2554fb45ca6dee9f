package renderer

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

const polarEpsilon = 1e-6

// OrbitControls keeps a camera on a sphere around Target. Input accumulates
// into a delta that Update applies once per frame, eased when damping is on.
type OrbitControls struct {
	Camera        *Camera
	Target        mgl32.Vec3
	EnableDamping bool
	DampingFactor float32
	RotateSpeed   float32
	ZoomSpeed     float32
	MinDistance   float32
	MaxDistance   float32

	radius      float32
	theta       float32 // azimuth around +Y, from +Z towards +X
	phi         float32 // polar angle from +Y
	deltaTheta  float32
	deltaPhi    float32
	scale       float32
	initialized bool
}

func NewOrbitControls(camera *Camera) *OrbitControls {
	return &OrbitControls{
		Camera:        camera,
		DampingFactor: 0.05,
		RotateSpeed:   1.0,
		ZoomSpeed:     1.0,
		MinDistance:   0,
		MaxDistance:   math32.Inf(1),
		scale:         1,
	}
}

// SetTarget moves the orbit center and re-derives the spherical position.
func (oc *OrbitControls) SetTarget(target mgl32.Vec3) {
	oc.Target = target
	oc.sync()
}

func (oc *OrbitControls) sync() {
	offset := oc.Camera.Position.Sub(oc.Target)
	oc.radius = offset.Len()
	if oc.radius == 0 {
		oc.theta, oc.phi = 0, math32.Pi/2
	} else {
		oc.theta = math32.Atan2(offset.X(), offset.Z())
		oc.phi = math32.Acos(mgl32.Clamp(offset.Y()/oc.radius, -1, 1))
	}
	oc.initialized = true
}

// RotateLeft orbits horizontally by angle radians.
func (oc *OrbitControls) RotateLeft(angle float32) {
	oc.deltaTheta -= angle * oc.RotateSpeed
}

// RotateUp orbits vertically by angle radians.
func (oc *OrbitControls) RotateUp(angle float32) {
	oc.deltaPhi -= angle * oc.RotateSpeed
}

// Drag converts a pointer movement in pixels to rotation, a full viewport
// height being one full turn.
func (oc *OrbitControls) Drag(dx, dy float32, viewportHeight int32) {
	if viewportHeight <= 0 {
		return
	}
	h := float32(viewportHeight)
	oc.RotateLeft(2 * math32.Pi * dx / h)
	oc.RotateUp(2 * math32.Pi * dy / h)
}

// Scroll dollies in for positive wheel steps, out for negative ones.
func (oc *OrbitControls) Scroll(steps float32) {
	factor := math32.Pow(0.95, oc.ZoomSpeed*math32.Abs(steps))
	if steps > 0 {
		oc.scale *= factor
	} else if steps < 0 {
		oc.scale /= factor
	}
}

// Update applies pending input and repositions the camera. It reports whether
// the camera moved.
func (oc *OrbitControls) Update() bool {
	if !oc.initialized {
		oc.sync()
	}
	before := oc.Camera.Position

	if oc.EnableDamping {
		oc.theta += oc.deltaTheta * oc.DampingFactor
		oc.phi += oc.deltaPhi * oc.DampingFactor
	} else {
		oc.theta += oc.deltaTheta
		oc.phi += oc.deltaPhi
	}
	oc.phi = mgl32.Clamp(oc.phi, polarEpsilon, math32.Pi-polarEpsilon)

	oc.radius = mgl32.Clamp(oc.radius*oc.scale, oc.MinDistance, oc.MaxDistance)

	sinPhi := math32.Sin(oc.phi)
	offset := mgl32.Vec3{
		oc.radius * sinPhi * math32.Sin(oc.theta),
		oc.radius * math32.Cos(oc.phi),
		oc.radius * sinPhi * math32.Cos(oc.theta),
	}
	oc.Camera.Position = oc.Target.Add(offset)
	oc.Camera.LookAt(oc.Target)

	if oc.EnableDamping {
		oc.deltaTheta *= 1 - oc.DampingFactor
		oc.deltaPhi *= 1 - oc.DampingFactor
	} else {
		oc.deltaTheta, oc.deltaPhi = 0, 0
	}
	oc.scale = 1

	return !before.ApproxEqualThreshold(oc.Camera.Position, 1e-7)
}

// Distance is the current orbit radius.
func (oc *OrbitControls) Distance() float32 {
	return oc.radius
}
