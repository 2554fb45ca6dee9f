package loader

import (
	"PBRShowcase/internal/logger"
	"PBRShowcase/internal/renderer"
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

var ErrNoGeometry = errors.New("model has no faces")

type FaceVertex struct {
	VertexIdx   int32
	TexCoordIdx int32
	NormalIdx   int32
}

// objMesh collects the faces of one "o" or "g" block. Vertex attributes are
// shared by the whole file, so indices into them stay global.
type objMesh struct {
	name  string
	faces []FaceVertex
}

// ParseOBJ decodes Wavefront OBJ geometry. Materials (mtllib/usemtl) are
// ignored; every mesh gets its own standard material.
func ParseOBJ(r io.Reader, name string, opts Options) (*renderer.Model, error) {
	var vertices, textureCoords, normals []float32
	current := &objMesh{name: name}
	meshes := []*objMesh{current}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 || strings.HasPrefix(parts[0], "#") {
			continue
		}
		switch parts[0] {
		case "v":
			vertex, err := parseFloats(parts[1:], 3)
			if err != nil {
				return nil, fmt.Errorf("line %d: vertex: %w", line, err)
			}
			vertices = append(vertices, vertex...)
		case "vn":
			normal, err := parseFloats(parts[1:], 3)
			if err != nil {
				return nil, fmt.Errorf("line %d: normal: %w", line, err)
			}
			normals = append(normals, normal...)
		case "vt":
			texCoord, err := parseFloats(parts[1:], 2)
			if err != nil {
				return nil, fmt.Errorf("line %d: texture coordinate: %w", line, err)
			}
			textureCoords = append(textureCoords, texCoord...)
		case "f":
			counts := [3]int{len(vertices) / 3, len(textureCoords) / 2, len(normals) / 3}
			faceVertices, err := parseFace(parts[1:], counts)
			if err != nil {
				return nil, fmt.Errorf("line %d: face: %w", line, err)
			}
			current.faces = append(current.faces, faceVertices...)
		case "o", "g":
			meshName := name
			if len(parts) > 1 {
				meshName = strings.Join(parts[1:], " ")
			}
			if len(current.faces) == 0 {
				current.name = meshName
				continue
			}
			current = &objMesh{name: meshName}
			meshes = append(meshes, current)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	root := renderer.NewGroup(name)
	for _, m := range meshes {
		if len(m.faces) == 0 {
			continue
		}
		interleaved, indices := unifyIndices(m.faces, vertices, textureCoords, normals)
		if opts.RecalculateNormals || len(normals) == 0 {
			RecalculateNormals(interleaved, indices)
		}
		mesh := renderer.CreateModel(m.name, interleaved, indices)
		mesh.Material = renderer.NewStandardMaterial(m.name)
		root.Add(mesh)
	}
	if len(root.Children) == 0 {
		return nil, fmt.Errorf("%s: %w", name, ErrNoGeometry)
	}
	return root, nil
}

// unifyIndices turns OBJ's separate position/uv/normal indices into one
// interleaved vertex buffer with a single index per corner.
func unifyIndices(faces []FaceVertex, vertices, textureCoords, normals []float32) ([]float32, []uint32) {
	type vertexKey struct {
		v, vt, vn int32
	}
	vertexMap := make(map[vertexKey]uint32)
	interleaved := make([]float32, 0, len(faces)*renderer.FloatsPerVertex)
	indices := make([]uint32, 0, len(faces))

	for _, fv := range faces {
		key := vertexKey{fv.VertexIdx, fv.TexCoordIdx, fv.NormalIdx}
		if idx, ok := vertexMap[key]; ok {
			indices = append(indices, idx)
			continue
		}
		idx := uint32(len(interleaved) / renderer.FloatsPerVertex)
		vertexMap[key] = idx

		if fv.VertexIdx >= 0 && int(fv.VertexIdx)*3+2 < len(vertices) {
			interleaved = append(interleaved, vertices[fv.VertexIdx*3:fv.VertexIdx*3+3]...)
		} else {
			logger.Log.Warn("Vertex index out of bounds",
				zap.Int32("vertexIdx", fv.VertexIdx),
				zap.Int("vertices", len(vertices)/3))
			interleaved = append(interleaved, 0, 0, 0)
		}

		if fv.TexCoordIdx >= 0 && int(fv.TexCoordIdx)*2+1 < len(textureCoords) {
			interleaved = append(interleaved, textureCoords[fv.TexCoordIdx*2:fv.TexCoordIdx*2+2]...)
		} else {
			interleaved = append(interleaved, 0, 0)
		}

		if fv.NormalIdx >= 0 && int(fv.NormalIdx)*3+2 < len(normals) {
			interleaved = append(interleaved, normals[fv.NormalIdx*3:fv.NormalIdx*3+3]...)
		} else {
			interleaved = append(interleaved, 0, 1, 0)
		}
		indices = append(indices, idx)
	}
	return interleaved, indices
}

func parseFloats(parts []string, want int) ([]float32, error) {
	if len(parts) < want {
		return nil, fmt.Errorf("expected %d values, got %d", want, len(parts))
	}
	values := make([]float32, want)
	for i := 0; i < want; i++ {
		val, err := strconv.ParseFloat(parts[i], 32)
		if err != nil {
			return nil, fmt.Errorf("invalid value %q: %w", parts[i], err)
		}
		values[i] = float32(val)
	}
	return values, nil
}

// resolveIndex converts a 1-based (or negative, relative) OBJ index to a
// 0-based one.
func resolveIndex(s string, count int) (int32, error) {
	idx, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid index %q: %w", s, err)
	}
	switch {
	case idx > 0:
		return int32(idx - 1), nil
	case idx < 0:
		return int32(int64(count) + idx), nil
	}
	return 0, errors.New("invalid index 0")
}

// parseFace reads one face and triangulates quads and larger polygons as a
// fan. counts holds the number of positions, uvs and normals seen so far.
func parseFace(parts []string, counts [3]int) ([]FaceVertex, error) {
	if len(parts) < 3 {
		return nil, fmt.Errorf("face needs 3 vertices, got %d", len(parts))
	}
	face := make([]FaceVertex, 0, len(parts))
	for _, part := range parts {
		vals := strings.Split(part, "/")
		fv := FaceVertex{TexCoordIdx: -1, NormalIdx: -1}

		var err error
		if fv.VertexIdx, err = resolveIndex(vals[0], counts[0]); err != nil {
			return nil, err
		}
		if len(vals) > 1 && vals[1] != "" {
			if fv.TexCoordIdx, err = resolveIndex(vals[1], counts[1]); err != nil {
				return nil, err
			}
		}
		if len(vals) > 2 && vals[2] != "" {
			if fv.NormalIdx, err = resolveIndex(vals[2], counts[2]); err != nil {
				return nil, err
			}
		}
		face = append(face, fv)
	}

	if len(face) == 3 {
		return face, nil
	}
	triangulated := make([]FaceVertex, 0, (len(face)-2)*3)
	for i := 1; i < len(face)-1; i++ {
		triangulated = append(triangulated, face[0], face[i], face[i+1])
	}
	return triangulated, nil
}

// RecalculateNormals overwrites the normals of interleaved vertex data with
// the normalized sum of adjacent face normals.
func RecalculateNormals(interleaved []float32, indices []uint32) {
	const stride = renderer.FloatsPerVertex
	const normalOffset = 5
	vertexCount := len(interleaved) / stride
	if vertexCount == 0 || len(indices) == 0 {
		return
	}

	position := func(i uint32) mgl32.Vec3 {
		o := int(i) * stride
		return mgl32.Vec3{interleaved[o], interleaved[o+1], interleaved[o+2]}
	}
	sums := make([]mgl32.Vec3, vertexCount)
	for i := 0; i+2 < len(indices); i += 3 {
		a, b, c := indices[i], indices[i+1], indices[i+2]
		if int(a) >= vertexCount || int(b) >= vertexCount || int(c) >= vertexCount {
			logger.Log.Warn("Index out of bounds while computing normals",
				zap.Uint32("a", a), zap.Uint32("b", b), zap.Uint32("c", c))
			continue
		}
		v0 := position(a)
		normal := position(b).Sub(v0).Cross(position(c).Sub(v0))
		sums[a] = sums[a].Add(normal)
		sums[b] = sums[b].Add(normal)
		sums[c] = sums[c].Add(normal)
	}

	for i, n := range sums {
		if n.Len() == 0 {
			n = mgl32.Vec3{0, 1, 0}
		}
		n = n.Normalize()
		o := i*stride + normalOffset
		interleaved[o], interleaved[o+1], interleaved[o+2] = n[0], n[1], n[2]
	}
}
