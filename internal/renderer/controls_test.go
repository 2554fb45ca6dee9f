package renderer

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func newTestControls() (*Camera, *OrbitControls) {
	cam := NewPerspectiveCamera(800, 600)
	cam.Position = mgl32.Vec3{3, 2, 0}
	oc := NewOrbitControls(cam)
	oc.SetTarget(mgl32.Vec3{0, 0.7, 0})
	return cam, oc
}

func TestOrbitControlsUpdateWithoutInputKeepsPosition(t *testing.T) {
	cam, oc := newTestControls()
	start := cam.Position

	oc.Update()

	if !cam.Position.ApproxEqualThreshold(start, 1e-4) {
		t.Errorf("Expected position %v, got %v", start, cam.Position)
	}
	if cam.Target != oc.Target {
		t.Errorf("Camera should look at the orbit target, got %v", cam.Target)
	}
}

func TestOrbitControlsRotateKeepsDistance(t *testing.T) {
	cam, oc := newTestControls()
	dist := cam.Position.Sub(oc.Target).Len()

	oc.RotateLeft(0.5)
	oc.RotateUp(0.2)
	if !oc.Update() {
		t.Error("Update should report movement after rotation")
	}

	got := cam.Position.Sub(oc.Target).Len()
	if math.Abs(float64(got-dist)) > 1e-4 {
		t.Errorf("Expected distance %f, got %f", dist, got)
	}
}

func TestOrbitControlsDampingEasesOut(t *testing.T) {
	cam, oc := newTestControls()
	oc.EnableDamping = true
	oc.RotateLeft(1)

	oc.Update()
	first := cam.Position
	oc.Update()
	second := cam.Position
	oc.Update()
	third := cam.Position

	step1 := second.Sub(first).Len()
	step2 := third.Sub(second).Len()
	if step1 == 0 || step2 == 0 {
		t.Fatal("Damped controls should keep moving for several frames")
	}
	if step2 >= step1 {
		t.Errorf("Damped steps should shrink, got %f then %f", step1, step2)
	}
}

func TestOrbitControlsScrollZooms(t *testing.T) {
	_, oc := newTestControls()
	oc.Update()
	before := oc.Distance()

	oc.Scroll(1)
	oc.Update()

	if oc.Distance() >= before {
		t.Errorf("Scrolling in should reduce distance, %f -> %f", before, oc.Distance())
	}
}

func TestOrbitControlsPolarClamp(t *testing.T) {
	cam, oc := newTestControls()

	oc.RotateUp(100)
	oc.Update()

	if cam.Position.Y() <= oc.Target.Y() {
		t.Errorf("Camera should stay above target when pushed past the pole, got %v", cam.Position)
	}
}
