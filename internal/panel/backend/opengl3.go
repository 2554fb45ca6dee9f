package backend

import (
	"PBRShowcase/internal/renderer"
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/inkyblackness/imgui-go/v4"
)

// OpenGL3 draws imgui draw data with a dedicated shader program.
type OpenGL3 struct {
	imguiIO imgui.IO

	fontTexture    uint32
	program        uint32
	attribTex      int32
	attribProjMtx  int32
	attribPos      int32
	attribUV       int32
	attribColor    int32
	vboHandle      uint32
	elementsHandle uint32
}

// NewOpenGL3 creates the GL objects. The GL context must be current.
func NewOpenGL3(io imgui.IO) (*OpenGL3, error) {
	r := &OpenGL3{imguiIO: io}
	if err := r.createDeviceObjects(); err != nil {
		return nil, err
	}
	io.SetBackendFlags(io.GetBackendFlags() | imgui.BackendFlagsRendererHasVtxOffset)
	return r, nil
}

func (r *OpenGL3) Dispose() {
	if r.vboHandle != 0 {
		gl.DeleteBuffers(1, &r.vboHandle)
	}
	if r.elementsHandle != 0 {
		gl.DeleteBuffers(1, &r.elementsHandle)
	}
	if r.program != 0 {
		gl.DeleteProgram(r.program)
	}
	if r.fontTexture != 0 {
		gl.DeleteTextures(1, &r.fontTexture)
		r.imguiIO.Fonts().SetTextureID(0)
	}
	r.vboHandle, r.elementsHandle, r.program, r.fontTexture = 0, 0, 0, 0
}

// Render translates the imgui draw data to OpenGL3 commands.
func (r *OpenGL3) Render(displaySize, framebufferSize [2]float32, drawData imgui.DrawData) {
	displayWidth, displayHeight := displaySize[0], displaySize[1]
	fbWidth, fbHeight := framebufferSize[0], framebufferSize[1]
	if fbWidth <= 0 || fbHeight <= 0 {
		return
	}
	drawData.ScaleClipRects(imgui.Vec2{X: fbWidth / displayWidth, Y: fbHeight / displayHeight})

	lastBlend := gl.IsEnabled(gl.BLEND)
	lastCull := gl.IsEnabled(gl.CULL_FACE)
	lastDepth := gl.IsEnabled(gl.DEPTH_TEST)
	lastScissor := gl.IsEnabled(gl.SCISSOR_TEST)

	gl.Enable(gl.BLEND)
	gl.BlendEquation(gl.FUNC_ADD)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.Disable(gl.CULL_FACE)
	gl.Disable(gl.DEPTH_TEST)
	gl.Enable(gl.SCISSOR_TEST)
	gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)

	gl.Viewport(0, 0, int32(fbWidth), int32(fbHeight))
	orthoProjection := [4][4]float32{
		{2.0 / displayWidth, 0.0, 0.0, 0.0},
		{0.0, 2.0 / -displayHeight, 0.0, 0.0},
		{0.0, 0.0, -1.0, 0.0},
		{-1.0, 1.0, 0.0, 1.0},
	}
	gl.UseProgram(r.program)
	gl.Uniform1i(r.attribTex, 0)
	gl.UniformMatrix4fv(r.attribProjMtx, 1, false, &orthoProjection[0][0])
	gl.BindSampler(0, 0)

	var vao uint32
	gl.GenVertexArrays(1, &vao)
	gl.BindVertexArray(vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vboHandle)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, r.elementsHandle)
	vertexSize, vertexOffsetPos, vertexOffsetUV, vertexOffsetCol := imgui.VertexBufferLayout()
	gl.EnableVertexAttribArray(uint32(r.attribPos))
	gl.EnableVertexAttribArray(uint32(r.attribUV))
	gl.EnableVertexAttribArray(uint32(r.attribColor))
	gl.VertexAttribPointer(uint32(r.attribPos), 2, gl.FLOAT, false, int32(vertexSize), gl.PtrOffset(vertexOffsetPos))
	gl.VertexAttribPointer(uint32(r.attribUV), 2, gl.FLOAT, false, int32(vertexSize), gl.PtrOffset(vertexOffsetUV))
	gl.VertexAttribPointer(uint32(r.attribColor), 4, gl.UNSIGNED_BYTE, true, int32(vertexSize), gl.PtrOffset(vertexOffsetCol))

	indexSize := imgui.IndexBufferLayout()
	drawType := uint32(gl.UNSIGNED_SHORT)
	if indexSize == 4 {
		drawType = gl.UNSIGNED_INT
	}

	for _, list := range drawData.CommandLists() {
		vertexBuffer, vertexBufferSize := list.VertexBuffer()
		gl.BufferData(gl.ARRAY_BUFFER, vertexBufferSize, vertexBuffer, gl.STREAM_DRAW)
		indexBuffer, indexBufferSize := list.IndexBuffer()
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, indexBufferSize, indexBuffer, gl.STREAM_DRAW)

		for _, cmd := range list.Commands() {
			if cmd.HasUserCallback() {
				cmd.CallUserCallback(list)
				continue
			}
			gl.BindTexture(gl.TEXTURE_2D, uint32(cmd.TextureID()))
			clip := cmd.ClipRect()
			gl.Scissor(int32(clip.X), int32(fbHeight)-int32(clip.W), int32(clip.Z-clip.X), int32(clip.W-clip.Y))
			gl.DrawElementsBaseVertex(gl.TRIANGLES, int32(cmd.ElementCount()), drawType,
				gl.PtrOffset(cmd.IndexOffset()*indexSize), int32(cmd.VertexOffset()))
		}
	}
	gl.DeleteVertexArrays(1, &vao)

	restore := func(capability uint32, enabled bool) {
		if enabled {
			gl.Enable(capability)
		} else {
			gl.Disable(capability)
		}
	}
	restore(gl.BLEND, lastBlend)
	restore(gl.CULL_FACE, lastCull)
	restore(gl.DEPTH_TEST, lastDepth)
	restore(gl.SCISSOR_TEST, lastScissor)
}

func (r *OpenGL3) createDeviceObjects() error {
	vs, err := renderer.GenShader(panelVertexShader, gl.VERTEX_SHADER)
	if err != nil {
		return fmt.Errorf("panel vertex shader: %w", err)
	}
	fs, err := renderer.GenShader(panelFragmentShader, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vs)
		return fmt.Errorf("panel fragment shader: %w", err)
	}
	r.program, err = renderer.GenShaderProgram(vs, fs)
	if err != nil {
		return fmt.Errorf("panel program: %w", err)
	}

	r.attribTex = gl.GetUniformLocation(r.program, gl.Str("Texture\x00"))
	r.attribProjMtx = gl.GetUniformLocation(r.program, gl.Str("ProjMtx\x00"))
	r.attribPos = gl.GetAttribLocation(r.program, gl.Str("Position\x00"))
	r.attribUV = gl.GetAttribLocation(r.program, gl.Str("UV\x00"))
	r.attribColor = gl.GetAttribLocation(r.program, gl.Str("Color\x00"))

	gl.GenBuffers(1, &r.vboHandle)
	gl.GenBuffers(1, &r.elementsHandle)

	r.createFontsTexture()
	return nil
}

func (r *OpenGL3) createFontsTexture() {
	fonts := r.imguiIO.Fonts()
	image := fonts.TextureDataRGBA32()

	gl.GenTextures(1, &r.fontTexture)
	gl.BindTexture(gl.TEXTURE_2D, r.fontTexture)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, 0)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, int32(image.Width), int32(image.Height),
		0, gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(image.Pixels))
	gl.BindTexture(gl.TEXTURE_2D, 0)

	fonts.SetTextureID(imgui.TextureID(r.fontTexture))
}

const panelVertexShader = `#version 410 core
uniform mat4 ProjMtx;
in vec2 Position;
in vec2 UV;
in vec4 Color;
out vec2 Frag_UV;
out vec4 Frag_Color;
void main() {
    Frag_UV = UV;
    Frag_Color = Color;
    gl_Position = ProjMtx * vec4(Position.xy, 0, 1);
}
`

const panelFragmentShader = `#version 410 core
uniform sampler2D Texture;
in vec2 Frag_UV;
in vec4 Frag_Color;
out vec4 Out_Color;
void main() {
    Out_Color = Frag_Color * texture(Texture, Frag_UV.st);
}
`
