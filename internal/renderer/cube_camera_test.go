package renderer

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

type recordingCubeRenderer struct {
	calls        int
	position     mgl32.Vec3
	followHidden bool
}

func (r *recordingCubeRenderer) RenderCube(scene *Scene, cube *CubeCamera) {
	r.calls++
	r.position = cube.Position
	if cube.Follow != nil {
		r.followHidden = !cube.Follow.Visible
	}
}

func TestNewCubeCamera(t *testing.T) {
	cc := NewCubeCamera(1, 10000, 128)

	if cc.Target == nil || cc.Target.Target != TextureCube {
		t.Fatal("Cube camera should own a cube render target")
	}
	if !cc.Target.RenderTarget {
		t.Error("Target should be flagged as a render target")
	}
	if cc.Target.Width() != 128 {
		t.Errorf("Expected size 128, got %d", cc.Target.Width())
	}
}

func TestCubeCameraFaceViewsAreOrthonormal(t *testing.T) {
	cc := NewCubeCamera(1, 10000, 128)
	cc.Position = mgl32.Vec3{1, 2, 3}

	for i, view := range cc.FaceViews() {
		rot := view.Mat3()
		should := rot.Mul3(rot.Transpose())
		if !should.ApproxEqualThreshold(mgl32.Ident3(), 1e-5) {
			t.Errorf("Face %d rotation is not orthonormal: %v", i, rot)
		}
		// The capture point maps to the view origin.
		origin := view.Mul4x1(cc.Position.Vec4(1))
		if origin.Vec3().Len() > 1e-4 {
			t.Errorf("Face %d: capture point should be at view origin, got %v", i, origin)
		}
	}
}

func TestCubeCameraFaceLooksDownItsAxis(t *testing.T) {
	cc := NewCubeCamera(1, 10000, 128)

	views := cc.FaceViews()
	p := views[FacePosX].Mul4x1(mgl32.Vec4{5, 0, 0, 1})

	if math.Abs(float64(p.Z()+5)) > 1e-4 {
		t.Errorf("+X face should see +X points straight ahead, got %v", p)
	}
}

func TestCubeCameraUpdateFollowsModel(t *testing.T) {
	cc := NewCubeCamera(1, 10000, 128)
	model := CreateModel("cutter", nil, nil)
	model.SetPosition(4, 5, 6)
	model.UpdateMatrices(mgl32.Ident4())
	cc.Attach(model)
	r := &recordingCubeRenderer{}

	cc.Update(r, NewScene())

	if r.calls != 1 {
		t.Fatalf("Expected one cube render, got %d", r.calls)
	}
	if r.position != (mgl32.Vec3{4, 5, 6}) {
		t.Errorf("Expected capture at model position, got %v", r.position)
	}
	if !r.followHidden {
		t.Error("Followed model should be hidden during capture")
	}
	if !model.Visible {
		t.Error("Followed model should be visible again after capture")
	}
}
