package renderer

var Debug bool = false

// Render is what the frame loop needs from a rendering backend.
type Render interface {
	Uploader
	CubeRenderer
	Init(width, height int32) error
	Render(scene *Scene, camera *Camera)
	// ReleaseCube frees the GPU resources of a cube camera target.
	ReleaseCube(cube *CubeCamera)
	UpdateViewport(width, height int32)
	Cleanup()
}
