package loader

import (
	"PBRShowcase/internal/logger"
	"PBRShowcase/internal/renderer"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

var ErrUnsupportedFormat = errors.New("unsupported model format")

// Options tune model decoding.
type Options struct {
	// RecalculateNormals replaces file normals with smoothed face normals.
	// Meshes without normals always get them computed.
	RecalculateNormals bool
}

// LoadModel reads an OBJ, glTF or GLB file. The result is a group named after
// the file whose children are the meshes.
func LoadModel(path string, opts Options) (*renderer.Model, error) {
	if err := checkFormat(path); err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return decode(file, path, opts)
}

func checkFormat(path string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".obj", ".gltf", ".glb":
		return nil
	}
	return fmt.Errorf("%s: %w", filepath.Base(path), ErrUnsupportedFormat)
}

func decode(r io.Reader, path string, opts Options) (*renderer.Model, error) {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	var model *renderer.Model
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".obj":
		model, err = ParseOBJ(r, name, opts)
	case ".gltf", ".glb":
		model, err = ParseGLTF(r, name, filepath.Dir(path), opts)
	default:
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), ErrUnsupportedFormat)
	}
	if err != nil {
		return nil, err
	}
	model.SourcePath = path

	meshes, vertices := 0, 0
	model.Traverse(func(m *renderer.Model) {
		if m.IsMesh() {
			meshes++
			vertices += m.VertexCount()
		}
	})
	logger.Log.Info("Model loaded",
		zap.String("path", path),
		zap.Int("meshes", meshes),
		zap.Int("vertices", vertices))
	return model, nil
}
