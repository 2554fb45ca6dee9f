package renderer

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

// MaxShadowMaps must match MAX_SHADOWS in the fragment shader.
const MaxShadowMaps = 2

// Shadow maps use the texture units after the material slots.
const shadowUnit = int32(SlotCount)

// ShadowMatrix is the light space transform of a directional light: an
// orthographic box from Shadow placed at Position and aimed at the origin.
func (l *Light) ShadowMatrix() mgl32.Mat4 {
	eye := l.Position
	if eye.Len() == 0 {
		eye = mgl32.Vec3{0, 1, 0}
	}
	up := mgl32.Vec3{0, 1, 0}
	if math32.Abs(eye.Normalize().Dot(up)) > 0.99 {
		up = mgl32.Vec3{0, 0, -1}
	}
	view := mgl32.LookAtV(eye, mgl32.Vec3{}, up)
	sc := l.Shadow
	projection := mgl32.Ortho(sc.Left, sc.Right, sc.Bottom, sc.Top, sc.Near, sc.Far)
	return projection.Mul4(view)
}

// shadowMap is a depth texture and the framebuffer rendering into it.
type shadowMap struct {
	fbo, depth    uint32
	width, height int32
}

func newShadowMap(width, height int32) (*shadowMap, error) {
	sm := &shadowMap{width: width, height: height}
	var cleanup Unwind
	defer cleanup.Unwind()

	gl.GenTextures(1, &sm.depth)
	cleanup.Add(func() { gl.DeleteTextures(1, &sm.depth) })
	gl.BindTexture(gl.TEXTURE_2D, sm.depth)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.DEPTH_COMPONENT24, width, height, 0, gl.DEPTH_COMPONENT, gl.FLOAT, nil)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_BORDER)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_BORDER)
	border := [4]float32{1, 1, 1, 1}
	gl.TexParameterfv(gl.TEXTURE_2D, gl.TEXTURE_BORDER_COLOR, &border[0])
	gl.BindTexture(gl.TEXTURE_2D, 0)

	gl.GenFramebuffers(1, &sm.fbo)
	cleanup.Add(func() { gl.DeleteFramebuffers(1, &sm.fbo) })
	gl.BindFramebuffer(gl.FRAMEBUFFER, sm.fbo)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.TEXTURE_2D, sm.depth, 0)
	gl.DrawBuffer(gl.NONE)
	gl.ReadBuffer(gl.NONE)
	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	if status != gl.FRAMEBUFFER_COMPLETE {
		return nil, fmt.Errorf("shadow framebuffer incomplete: 0x%x", status)
	}
	cleanup.Discard()
	return sm, nil
}

func (sm *shadowMap) delete() {
	gl.DeleteFramebuffers(1, &sm.fbo)
	gl.DeleteTextures(1, &sm.depth)
	sm.fbo, sm.depth = 0, 0
}
