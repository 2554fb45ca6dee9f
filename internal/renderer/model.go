package renderer

import (
	"github.com/go-gl/mathgl/mgl32"
)

// FloatsPerVertex is the interleaved layout: position(3) uv(2) normal(3).
const FloatsPerVertex = 8

type Model struct {
	// HOT DATA - Accessed every frame in render loop
	ModelMatrix mgl32.Mat4 // World transform, includes parents
	Position    mgl32.Vec3
	Rotation    mgl32.Vec3 // Euler XYZ in radians
	Orientation mgl32.Quat // Applied before Rotation, set by loaders
	Scale       mgl32.Vec3
	Material    *Material
	VAO         uint32
	VBO         uint32
	EBO         uint32
	IsDirty     bool // Transform changed since the last matrix update
	Visible     bool

	// MEDIUM DATA
	CastShadow    bool
	ReceiveShadow bool
	Children      []*Model
	parent        *Model

	// COLD DATA
	Name            string
	SourcePath      string
	InterleavedData []float32 // [x,y,z,u,v,nx,ny,nz] per vertex
	Faces           []uint32
}

// CreateModel builds a mesh model from interleaved vertex data.
func CreateModel(name string, interleaved []float32, faces []uint32) *Model {
	return &Model{
		Name:            name,
		Scale:           mgl32.Vec3{1, 1, 1},
		Orientation:     mgl32.QuatIdent(),
		InterleavedData: interleaved,
		Faces:           faces,
		ModelMatrix:     mgl32.Ident4(),
		Visible:         true,
		IsDirty:         true,
	}
}

// NewGroup returns an empty model used to parent other models.
func NewGroup(name string) *Model {
	return CreateModel(name, nil, nil)
}

// IsMesh reports whether the model has geometry to draw.
func (m *Model) IsMesh() bool {
	return len(m.Faces) > 0
}

func (m *Model) VertexCount() int {
	return len(m.InterleavedData) / FloatsPerVertex
}

// SetPosition sets the position of the model
func (m *Model) SetPosition(x, y, z float32) {
	m.Position = mgl32.Vec3{x, y, z}
	m.IsDirty = true
}

func (m *Model) SetScale(x, y, z float32) {
	m.Scale = mgl32.Vec3{x, y, z}
	m.IsDirty = true
}

// SetRotation sets Euler angles in radians.
func (m *Model) SetRotation(x, y, z float32) {
	m.Rotation = mgl32.Vec3{x, y, z}
	m.IsDirty = true
}

// Add parents child to m.
func (m *Model) Add(child *Model) {
	if child.parent != nil {
		child.parent.remove(child)
	}
	child.parent = m
	child.IsDirty = true
	m.Children = append(m.Children, child)
}

func (m *Model) Parent() *Model {
	return m.parent
}

func (m *Model) remove(child *Model) {
	for i, c := range m.Children {
		if c == child {
			m.Children = append(m.Children[:i], m.Children[i+1:]...)
			child.parent = nil
			return
		}
	}
}

// Traverse visits m and all its descendants depth first.
func (m *Model) Traverse(fn func(*Model)) {
	fn(m)
	for _, c := range m.Children {
		c.Traverse(fn)
	}
}

// LocalMatrix is translation * rotation * scale.
func (m *Model) LocalMatrix() mgl32.Mat4 {
	scale := mgl32.Scale3D(m.Scale[0], m.Scale[1], m.Scale[2])
	q := mgl32.AnglesToQuat(m.Rotation[0], m.Rotation[1], m.Rotation[2], mgl32.XYZ)
	if m.Orientation != (mgl32.Quat{}) {
		q = q.Mul(m.Orientation)
	}
	rotation := q.Mat4()
	translation := mgl32.Translate3D(m.Position[0], m.Position[1], m.Position[2])
	return translation.Mul4(rotation).Mul4(scale)
}

// UpdateMatrices recomputes world matrices for m and its subtree.
func (m *Model) UpdateMatrices(parentWorld mgl32.Mat4) {
	m.ModelMatrix = parentWorld.Mul4(m.LocalMatrix())
	m.IsDirty = false
	for _, c := range m.Children {
		c.UpdateMatrices(m.ModelMatrix)
	}
}

// WorldPosition is the translation part of the world matrix.
func (m *Model) WorldPosition() mgl32.Vec3 {
	return m.ModelMatrix.Col(3).Vec3()
}
