package renderer

import (
	"PBRShowcase/internal/logger"
	"fmt"
	"math"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// OpenGLRenderer is a forward renderer drawing every mesh with the standard
// PBR shader.
type OpenGLRenderer struct {
	shader      Shader
	depthShader Shader
	uploaded    []*Model
	cubes       []*CubeCamera
	shadows     map[*Light]*shadowMap
	width       int32
	height      int32
}

func NewOpenGLRenderer() *OpenGLRenderer {
	return &OpenGLRenderer{shadows: make(map[*Light]*shadowMap)}
}

// Init expects the window's GL context to be current.
func (rend *OpenGLRenderer) Init(width, height int32) error {
	if err := gl.Init(); err != nil {
		return fmt.Errorf("opengl init: %w", err)
	}
	rend.shader = InitStandardShader()
	if err := rend.shader.Compile(); err != nil {
		return err
	}
	rend.depthShader = InitDepthShader()
	if err := rend.depthShader.Compile(); err != nil {
		rend.shader.Delete()
		return err
	}
	gl.Enable(gl.TEXTURE_CUBE_MAP_SEAMLESS)
	rend.UpdateViewport(width, height)
	logger.Log.Info("OpenGL render initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.Bool("debug", Debug))
	if Debug {
		logger.Log.Debug("Debug rendering: wireframe scene and GL error checks",
			zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))))
	}
	return nil
}

// UpdateViewport updates the OpenGL viewport to match the current window size
func (rend *OpenGLRenderer) UpdateViewport(width, height int32) {
	rend.width, rend.height = width, height
	gl.Viewport(0, 0, width, height)
}

func (rend *OpenGLRenderer) Render(scene *Scene, camera *Camera) {
	scene.UpdateMatrices()
	ls := collectLights(scene)
	rend.renderShadows(scene, ls)

	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.Viewport(0, 0, rend.width, rend.height)
	rend.drawScene(scene, ls, camera.GetViewMatrix(), camera.GetProjectionMatrix(), camera.Position)
	if Debug {
		for _, code := range drainErrors(gl.GetError) {
			logger.Log.Warn("GL error", zap.String("code", fmt.Sprintf("0x%04x", code)))
		}
	}
}

// maxGLErrors bounds drainErrors when no context is current, where
// glGetError may keep failing.
const maxGLErrors = 16

// drainErrors pops queued error codes until get reports none.
func drainErrors(get func() uint32) []uint32 {
	var codes []uint32
	for len(codes) < maxGLErrors {
		code := get()
		if code == gl.NO_ERROR {
			break
		}
		codes = append(codes, code)
	}
	return codes
}

// renderShadows fills the depth map of every shadow casting light with the
// shadow casting meshes.
func (rend *OpenGLRenderer) renderShadows(scene *Scene, ls lightState) {
	if len(ls.shadowCasters) == 0 {
		return
	}
	rend.depthShader.Use()
	u := rend.depthShader.Uniforms
	gl.Enable(gl.DEPTH_TEST)
	gl.Enable(gl.POLYGON_OFFSET_FILL)
	gl.PolygonOffset(2, 4)

	for i, light := range ls.shadowCasters {
		sm, err := rend.ensureShadowMap(light)
		if err != nil {
			logger.Log.Error("Shadow map unavailable", zap.String("light", light.Name), zap.Error(err))
			continue
		}
		gl.BindFramebuffer(gl.FRAMEBUFFER, sm.fbo)
		gl.Viewport(0, 0, sm.width, sm.height)
		gl.Clear(gl.DEPTH_BUFFER_BIT)
		u.SetMat4("lightSpace", ls.lightSpace[i])

		scene.Traverse(func(model *Model) {
			if !model.Visible || !model.CastShadow || !model.IsMesh() {
				return
			}
			if model.VAO == 0 {
				rend.uploadModel(model)
			}
			u.SetMat4("model", model.ModelMatrix)
			gl.BindVertexArray(model.VAO)
			gl.DrawElements(gl.TRIANGLES, int32(len(model.Faces)), gl.UNSIGNED_INT, nil)
		})
	}
	gl.BindVertexArray(0)
	gl.Disable(gl.POLYGON_OFFSET_FILL)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
}

// ensureShadowMap returns the depth map of light, recreating it when the
// configured map size changed.
func (rend *OpenGLRenderer) ensureShadowMap(light *Light) (*shadowMap, error) {
	width := int32(max(light.Shadow.MapWidth, 1))
	height := int32(max(light.Shadow.MapHeight, 1))
	if sm, ok := rend.shadows[light]; ok {
		if sm.width == width && sm.height == height {
			return sm, nil
		}
		sm.delete()
		delete(rend.shadows, light)
	}
	sm, err := newShadowMap(width, height)
	if err != nil {
		return nil, err
	}
	rend.shadows[light] = sm
	logger.Log.Info("Shadow map created",
		zap.String("light", light.Name),
		zap.Int32("width", width),
		zap.Int32("height", height))
	return sm, nil
}

// RenderCube draws the scene six times into the cube camera target and
// rebuilds its mip chain so rough materials can sample blurred levels.
func (rend *OpenGLRenderer) RenderCube(scene *Scene, cube *CubeCamera) {
	if err := rend.ensureCubeTarget(cube); err != nil {
		logger.Log.Error("Cube render target unavailable", zap.Error(err))
		return
	}
	scene.UpdateMatrices()
	ls := collectLights(scene)

	size := int32(cube.Target.Size)
	projection := cube.Projection()
	gl.BindFramebuffer(gl.FRAMEBUFFER, cube.FBO)
	gl.Viewport(0, 0, size, size)
	for face, view := range cube.FaceViews() {
		gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0,
			gl.TEXTURE_CUBE_MAP_POSITIVE_X+uint32(face), cube.Target.ID, 0)
		rend.drawScene(scene, ls, view, projection, cube.Position)
	}
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.Viewport(0, 0, rend.width, rend.height)

	gl.BindTexture(gl.TEXTURE_CUBE_MAP, cube.Target.ID)
	gl.GenerateMipmap(gl.TEXTURE_CUBE_MAP)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, 0)
}

func (rend *OpenGLRenderer) ensureCubeTarget(cube *CubeCamera) error {
	if cube.FBO != 0 {
		return nil
	}
	rend.cubes = append(rend.cubes, cube)
	var cleanup Unwind
	defer cleanup.Unwind()

	if err := rend.UploadTexture(cube.Target); err != nil {
		return err
	}
	cleanup.Add(func() { rend.DeleteTexture(cube.Target) })
	size := int32(cube.Target.Size)

	gl.GenFramebuffers(1, &cube.FBO)
	cleanup.Add(func() {
		gl.DeleteFramebuffers(1, &cube.FBO)
		cube.FBO = 0
		rend.cubes = rend.cubes[:len(rend.cubes)-1]
	})
	gl.BindFramebuffer(gl.FRAMEBUFFER, cube.FBO)
	gl.GenRenderbuffers(1, &cube.DepthRBO)
	cleanup.Add(func() {
		gl.DeleteRenderbuffers(1, &cube.DepthRBO)
		cube.DepthRBO = 0
	})
	gl.BindRenderbuffer(gl.RENDERBUFFER, cube.DepthRBO)
	gl.RenderbufferStorage(gl.RENDERBUFFER, gl.DEPTH_COMPONENT24, size, size)
	gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.RENDERBUFFER, cube.DepthRBO)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_CUBE_MAP_POSITIVE_X, cube.Target.ID, 0)

	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	if status != gl.FRAMEBUFFER_COMPLETE {
		return fmt.Errorf("cube framebuffer incomplete: 0x%x", status)
	}
	cleanup.Discard()
	logger.Log.Info("Cube render target created", zap.Int32("size", size))
	return nil
}

func (rend *OpenGLRenderer) drawScene(scene *Scene, ls lightState, view, projection mgl32.Mat4, viewPos mgl32.Vec3) {
	bg := scene.Background
	gl.ClearColor(bg[0], bg[1], bg[2], 1.0)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	gl.Enable(gl.DEPTH_TEST)

	shader := &rend.shader
	shader.Use()
	u := shader.Uniforms
	u.SetMat4("viewProjection", projection.Mul4(view))
	u.SetVec3("viewPos", viewPos)
	rend.setLightUniforms(u, ls)
	rend.setFogUniforms(u, scene.Fog)
	if Debug {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
		defer gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
	}

	scene.Traverse(func(model *Model) {
		if !model.Visible || !model.IsMesh() || model.Material == nil {
			return
		}
		if model.VAO == 0 {
			rend.uploadModel(model)
		}
		rend.prepareMaterial(model.Material)
		u.SetMat4("model", model.ModelMatrix)
		u.SetBool("receiveShadow", model.ReceiveShadow)
		rend.setMaterialUniforms(u, model.Material)

		gl.DepthMask(model.Material.DepthWrite)
		gl.BindVertexArray(model.VAO)
		gl.DrawElements(gl.TRIANGLES, int32(len(model.Faces)), gl.UNSIGNED_INT, nil)
		gl.BindVertexArray(0)
	})
	gl.DepthMask(true)
}

// lightState is the per frame light input of the standard shader.
type lightState struct {
	ambient       mgl32.Vec3
	hasHemisphere bool
	hemiSky       mgl32.Vec3
	hemiGround    mgl32.Vec3
	hemiDirection mgl32.Vec3
	dirDirections []mgl32.Vec3
	dirColors     []mgl32.Vec3
	// dirShadow[i] indexes shadowCasters for directional light i, or is -1.
	dirShadow     []int32
	shadowCasters []*Light
	lightSpace    []mgl32.Mat4
}

// collectLights sums ambient lights, picks the first hemisphere light and
// keeps at most MaxDirectionalLights directional lights, the first
// MaxShadowMaps shadow casting ones getting a shadow map.
func collectLights(scene *Scene) lightState {
	var ls lightState
	for _, l := range scene.VisibleLights(AmbientLight) {
		ls.ambient = ls.ambient.Add(l.Color.Mul(l.Intensity))
	}
	if hemis := scene.VisibleLights(HemisphereLight); len(hemis) > 0 {
		h := hemis[0]
		ls.hasHemisphere = true
		ls.hemiSky = h.Color.Mul(h.Intensity)
		ls.hemiGround = h.GroundColor.Mul(h.Intensity)
		ls.hemiDirection = mgl32.Vec3{0, 1, 0}
		if h.Position.Len() > 0 {
			ls.hemiDirection = h.Position.Normalize()
		}
	}
	dirs := scene.VisibleLights(DirectionalLight)
	if len(dirs) > MaxDirectionalLights {
		dirs = dirs[:MaxDirectionalLights]
	}
	for _, l := range dirs {
		ls.dirDirections = append(ls.dirDirections, l.Direction())
		ls.dirColors = append(ls.dirColors, l.Color.Mul(l.Intensity))
		shadow := int32(-1)
		if l.CastShadow && len(ls.shadowCasters) < MaxShadowMaps {
			shadow = int32(len(ls.shadowCasters))
			ls.shadowCasters = append(ls.shadowCasters, l)
			ls.lightSpace = append(ls.lightSpace, l.ShadowMatrix())
		}
		ls.dirShadow = append(ls.dirShadow, shadow)
	}
	return ls
}

func (rend *OpenGLRenderer) setLightUniforms(u *UniformCache, ls lightState) {
	u.SetVec3("ambientColor", ls.ambient)
	u.SetBool("hasHemisphere", ls.hasHemisphere)
	if ls.hasHemisphere {
		u.SetVec3("hemiSky", ls.hemiSky)
		u.SetVec3("hemiGround", ls.hemiGround)
		u.SetVec3("hemiDirection", ls.hemiDirection)
	}
	u.SetInt("numDirLights", int32(len(ls.dirDirections)))
	for i := range ls.dirDirections {
		u.SetVec3(fmt.Sprintf("dirLightDirection[%d]", i), ls.dirDirections[i])
		u.SetVec3(fmt.Sprintf("dirLightColor[%d]", i), ls.dirColors[i])

		// Maps are created by the main pass, so a capture before the first
		// frame renders unshadowed.
		shadow := ls.dirShadow[i]
		if shadow >= 0 && rend.shadows[ls.shadowCasters[shadow]] == nil {
			shadow = -1
		}
		u.SetInt(fmt.Sprintf("dirShadow[%d]", i), shadow)
	}
	for k := 0; k < MaxShadowMaps; k++ {
		u.SetInt(fmt.Sprintf("shadowMap%d", k), shadowUnit+int32(k))
		gl.ActiveTexture(gl.TEXTURE0 + uint32(shadowUnit) + uint32(k))
		if k >= len(ls.shadowCasters) || rend.shadows[ls.shadowCasters[k]] == nil {
			gl.BindTexture(gl.TEXTURE_2D, 0)
			continue
		}
		gl.BindTexture(gl.TEXTURE_2D, rend.shadows[ls.shadowCasters[k]].depth)
		u.SetMat4(fmt.Sprintf("lightSpace[%d]", k), ls.lightSpace[k])
	}
	gl.ActiveTexture(gl.TEXTURE0)
}

func (rend *OpenGLRenderer) setFogUniforms(u *UniformCache, fog *Fog) {
	u.SetBool("hasFog", fog != nil)
	if fog == nil {
		return
	}
	u.SetVec3("fogColor", fog.Color)
	u.SetFloat("fogNear", fog.Near)
	u.SetFloat("fogFar", fog.Far)
}

// prepareMaterial uploads textures that changed since the last frame.
func (rend *OpenGLRenderer) prepareMaterial(m *Material) {
	if !m.NeedsUpdate() {
		return
	}
	for _, slot := range AllSlots() {
		tex := m.Texture(slot)
		if tex == nil || tex.RenderTarget || (!tex.NeedsUpdate && tex.ID != 0) {
			continue
		}
		if err := rend.UploadTexture(tex); err != nil {
			logger.Log.Error("Texture upload failed",
				zap.String("material", m.Name),
				zap.Stringer("slot", slot),
				zap.Error(err))
		}
	}
	m.ClearNeedsUpdate()
}

func (rend *OpenGLRenderer) setMaterialUniforms(u *UniformCache, m *Material) {
	u.SetInt("shading", int32(m.Shading))
	u.SetVec3("diffuseColor", mgl32.Vec3(m.DiffuseColor))
	u.SetFloat("roughness", m.Roughness)
	u.SetFloat("metalness", m.Metalness)
	u.SetFloat("exposure", m.Exposure)
	u.SetFloat("alpha", m.Alpha)
	u.SetFloat("shininess", m.Shininess)
	u.SetFloat("envMapIntensity", m.EnvMapIntensity)

	for _, slot := range AllSlots() {
		names := slotUniforms[slot]
		tex := m.Texture(slot)
		bound := tex != nil && tex.ID != 0
		u.SetBool(names.has, bound)
		u.SetInt(names.sampler, int32(slot))

		gl.ActiveTexture(gl.TEXTURE0 + uint32(slot))
		target := uint32(gl.TEXTURE_2D)
		if slot == SlotEnvMap {
			target = gl.TEXTURE_CUBE_MAP
		}
		if bound {
			gl.BindTexture(target, tex.ID)
		} else {
			gl.BindTexture(target, 0)
		}
	}
	if env := m.Texture(SlotEnvMap); env != nil {
		u.SetInt("envMapping", int32(env.Mapping))
		u.SetFloat("envMaxLod", float32(math.Log2(float64(max(env.Width(), 1)))))
	}
	gl.ActiveTexture(gl.TEXTURE0)
}

func (rend *OpenGLRenderer) uploadModel(model *Model) {
	gl.GenVertexArrays(1, &model.VAO)
	gl.BindVertexArray(model.VAO)

	gl.GenBuffers(1, &model.VBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, model.VBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(model.InterleavedData)*4, gl.Ptr(model.InterleavedData), gl.STATIC_DRAW)

	gl.GenBuffers(1, &model.EBO)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, model.EBO)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(model.Faces)*4, gl.Ptr(model.Faces), gl.STATIC_DRAW)

	stride := int32(FloatsPerVertex * 4)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, stride, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(1, 2, gl.FLOAT, false, stride, gl.PtrOffset(3*4))
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(2, 3, gl.FLOAT, false, stride, gl.PtrOffset(5*4))
	gl.EnableVertexAttribArray(2)
	gl.BindVertexArray(0)

	rend.uploaded = append(rend.uploaded, model)
	logger.Log.Debug("Model uploaded",
		zap.String("name", model.Name),
		zap.Int("vertices", model.VertexCount()))
}

// UploadTexture creates or refreshes the GPU copy of tex.
func (rend *OpenGLRenderer) UploadTexture(tex *Texture) error {
	if tex.ID == 0 {
		gl.GenTextures(1, &tex.ID)
	}

	switch tex.Target {
	case Texture2D:
		if len(tex.Images) != 1 {
			return fmt.Errorf("texture %s: expected 1 image, got %d", tex.Name, len(tex.Images))
		}
		img := tex.Images[0]
		gl.BindTexture(gl.TEXTURE_2D, tex.ID)
		gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA,
			int32(img.Rect.Dx()), int32(img.Rect.Dy()),
			0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
		gl.GenerateMipmap(gl.TEXTURE_2D)
		gl.BindTexture(gl.TEXTURE_2D, 0)

	case TextureCube:
		gl.BindTexture(gl.TEXTURE_CUBE_MAP, tex.ID)
		for face := 0; face < 6; face++ {
			target := uint32(gl.TEXTURE_CUBE_MAP_POSITIVE_X + face)
			if tex.RenderTarget {
				size := int32(tex.Size)
				gl.TexImage2D(target, 0, gl.RGBA8, size, size, 0, gl.RGBA, gl.UNSIGNED_BYTE, nil)
				continue
			}
			if len(tex.Images) != 6 {
				gl.BindTexture(gl.TEXTURE_CUBE_MAP, 0)
				return fmt.Errorf("cube texture %s: expected 6 faces, got %d", tex.Name, len(tex.Images))
			}
			img := tex.Images[face]
			gl.TexImage2D(target, 0, gl.RGBA,
				int32(img.Rect.Dx()), int32(img.Rect.Dy()),
				0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
		}
		gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
		gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
		gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_R, gl.CLAMP_TO_EDGE)
		gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
		gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
		gl.GenerateMipmap(gl.TEXTURE_CUBE_MAP)
		gl.BindTexture(gl.TEXTURE_CUBE_MAP, 0)
	}

	tex.NeedsUpdate = false
	logger.Log.Debug("Texture uploaded", zap.String("name", tex.Name), zap.Uint32("id", tex.ID))
	return nil
}

func (rend *OpenGLRenderer) DeleteTexture(tex *Texture) {
	if tex.ID == 0 {
		return
	}
	gl.DeleteTextures(1, &tex.ID)
	tex.ID = 0
	tex.NeedsUpdate = true
}

// ReleaseCube frees the framebuffer, depth buffer and texture of a cube
// camera target.
func (rend *OpenGLRenderer) ReleaseCube(cube *CubeCamera) {
	for i, c := range rend.cubes {
		if c == cube {
			rend.cubes = append(rend.cubes[:i], rend.cubes[i+1:]...)
			break
		}
	}
	if cube.FBO != 0 {
		gl.DeleteFramebuffers(1, &cube.FBO)
		cube.FBO = 0
	}
	if cube.DepthRBO != 0 {
		gl.DeleteRenderbuffers(1, &cube.DepthRBO)
		cube.DepthRBO = 0
	}
	rend.DeleteTexture(cube.Target)
}

func (rend *OpenGLRenderer) Cleanup() {
	for len(rend.cubes) > 0 {
		rend.ReleaseCube(rend.cubes[0])
	}
	for light, sm := range rend.shadows {
		sm.delete()
		delete(rend.shadows, light)
	}
	for _, model := range rend.uploaded {
		gl.DeleteVertexArrays(1, &model.VAO)
		gl.DeleteBuffers(1, &model.VBO)
		gl.DeleteBuffers(1, &model.EBO)
		model.VAO, model.VBO, model.EBO = 0, 0, 0
	}
	rend.uploaded = nil
	rend.shader.Delete()
	rend.depthShader.Delete()
	logger.Log.Info("OpenGL renderer cleaned up")
}
