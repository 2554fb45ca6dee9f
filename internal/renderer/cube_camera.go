package renderer

import (
	"github.com/go-gl/mathgl/mgl32"
)

// CubeRenderer renders a scene into the six faces of a cube camera target.
type CubeRenderer interface {
	RenderCube(scene *Scene, cube *CubeCamera)
}

// Per face look direction and up vector, in GL cube map face order.
var cubeFaceAxes = [6]struct{ dir, up mgl32.Vec3 }{
	FacePosX: {mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, -1, 0}},
	FaceNegX: {mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{0, -1, 0}},
	FacePosY: {mgl32.Vec3{0, 1, 0}, mgl32.Vec3{0, 0, 1}},
	FaceNegY: {mgl32.Vec3{0, -1, 0}, mgl32.Vec3{0, 0, -1}},
	FacePosZ: {mgl32.Vec3{0, 0, 1}, mgl32.Vec3{0, -1, 0}},
	FaceNegZ: {mgl32.Vec3{0, 0, -1}, mgl32.Vec3{0, -1, 0}},
}

// CubeCamera captures the surroundings of a point into a cube texture usable
// as a reflection map.
type CubeCamera struct {
	Position mgl32.Vec3
	Near     float32
	Far      float32
	Target   *Texture

	// Follow, when set, moves the capture point to the model every update
	// and hides the model while capturing.
	Follow *Model
	// Framebuffer objects, owned by the renderer
	FBO, DepthRBO uint32
}

func NewCubeCamera(near, far float32, size int) *CubeCamera {
	return &CubeCamera{
		Near:   near,
		Far:    far,
		Target: NewCubeRenderTarget("cube-camera", size),
	}
}

// Attach makes the capture follow model.
func (cc *CubeCamera) Attach(model *Model) {
	cc.Follow = model
}

// Projection is the 90 degree square frustum shared by all faces.
func (cc *CubeCamera) Projection() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(90), 1, cc.Near, cc.Far)
}

// FaceViews returns the view matrix of every face from the capture point.
func (cc *CubeCamera) FaceViews() [6]mgl32.Mat4 {
	var views [6]mgl32.Mat4
	for i, axis := range cubeFaceAxes {
		views[i] = mgl32.LookAtV(cc.Position, cc.Position.Add(axis.dir), axis.up)
	}
	return views
}

// Update re-renders the environment around the capture point.
func (cc *CubeCamera) Update(r CubeRenderer, scene *Scene) {
	if cc.Follow != nil {
		cc.Position = cc.Follow.WorldPosition()
		visible := cc.Follow.Visible
		cc.Follow.Visible = false
		defer func() { cc.Follow.Visible = visible }()
	}
	r.RenderCube(scene, cc)
}
