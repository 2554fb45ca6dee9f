package loader

import (
	"PBRShowcase/internal/logger"
	"PBRShowcase/internal/renderer"
	"fmt"
	"io"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"go.uber.org/zap"
)

// ParseGLTF decodes a glTF or GLB stream. External buffers are resolved
// relative to dir. Only triangle primitives are kept, and glTF materials are
// replaced by standard materials.
func ParseGLTF(r io.Reader, name, dir string, opts Options) (*renderer.Model, error) {
	doc := new(gltf.Document)
	if err := gltf.NewDecoderFS(r, os.DirFS(dir)).Decode(doc); err != nil {
		return nil, fmt.Errorf("gltf decode %s: %w", name, err)
	}

	meshPrims := make([][]*renderer.Model, len(doc.Meshes))
	for mi, gm := range doc.Meshes {
		for pi, prim := range gm.Primitives {
			mesh, err := loadPrimitive(doc, gm.Name, pi, prim, opts)
			if err != nil {
				logger.Log.Warn("Skipping glTF primitive",
					zap.Int("mesh", mi),
					zap.Int("primitive", pi),
					zap.Error(err))
				continue
			}
			meshPrims[mi] = append(meshPrims[mi], mesh)
		}
	}

	nodes := make([]*renderer.Model, len(doc.Nodes))
	for i, gn := range doc.Nodes {
		nodeName := gn.Name
		if nodeName == "" {
			nodeName = fmt.Sprintf("node_%d", i)
		}
		n := renderer.NewGroup(nodeName)

		t := gn.TranslationOrDefault()
		n.SetPosition(float32(t[0]), float32(t[1]), float32(t[2]))
		s := gn.ScaleOrDefault()
		n.SetScale(float32(s[0]), float32(s[1]), float32(s[2]))
		q := gn.RotationOrDefault() // x, y, z, w
		n.Orientation = mgl32.Quat{W: float32(q[3]), V: mgl32.Vec3{float32(q[0]), float32(q[1]), float32(q[2])}}

		if gn.Mesh != nil && *gn.Mesh < len(meshPrims) {
			for _, p := range meshPrims[*gn.Mesh] {
				n.Add(p)
			}
		}
		nodes[i] = n
	}

	hasParent := make([]bool, len(nodes))
	for i, gn := range doc.Nodes {
		for _, c := range gn.Children {
			if c < len(nodes) {
				nodes[i].Add(nodes[c])
				hasParent[c] = true
			}
		}
	}

	root := renderer.NewGroup(name)
	if doc.Scene != nil && *doc.Scene < len(doc.Scenes) {
		for _, idx := range doc.Scenes[*doc.Scene].Nodes {
			if idx < len(nodes) {
				root.Add(nodes[idx])
			}
		}
	} else {
		for i, n := range nodes {
			if !hasParent[i] {
				root.Add(n)
			}
		}
	}

	meshes := 0
	root.Traverse(func(m *renderer.Model) {
		if m.IsMesh() {
			meshes++
		}
	})
	if meshes == 0 {
		return nil, fmt.Errorf("%s: %w", name, ErrNoGeometry)
	}
	return root, nil
}

func loadPrimitive(doc *gltf.Document, meshName string, primIdx int, prim *gltf.Primitive, opts Options) (*renderer.Model, error) {
	if prim.Mode != gltf.PrimitiveTriangles {
		return nil, fmt.Errorf("primitive mode %d not supported", prim.Mode)
	}
	name := fmt.Sprintf("%s_%d", meshName, primIdx)

	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return nil, fmt.Errorf("no POSITION attribute")
	}
	positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return nil, fmt.Errorf("positions: %w", err)
	}

	var normals [][3]float32
	var uvs [][2]float32
	if idx, ok := prim.Attributes[gltf.NORMAL]; ok {
		normals, _ = modeler.ReadNormal(doc, doc.Accessors[idx], nil)
	}
	if idx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
		uvs, _ = modeler.ReadTextureCoord(doc, doc.Accessors[idx], nil)
	}

	interleaved := make([]float32, 0, len(positions)*renderer.FloatsPerVertex)
	for i, p := range positions {
		interleaved = append(interleaved, p[0], p[1], p[2])
		if i < len(uvs) {
			interleaved = append(interleaved, uvs[i][0], uvs[i][1])
		} else {
			interleaved = append(interleaved, 0, 0)
		}
		if i < len(normals) {
			interleaved = append(interleaved, normals[i][0], normals[i][1], normals[i][2])
		} else {
			interleaved = append(interleaved, 0, 1, 0)
		}
	}

	var indices []uint32
	if prim.Indices != nil {
		indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
		if err != nil {
			return nil, fmt.Errorf("indices: %w", err)
		}
	} else {
		indices = make([]uint32, len(positions))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}

	if opts.RecalculateNormals || len(normals) == 0 {
		RecalculateNormals(interleaved, indices)
	}
	mesh := renderer.CreateModel(name, interleaved, indices)
	mesh.Material = renderer.NewStandardMaterial(name)
	return mesh, nil
}
