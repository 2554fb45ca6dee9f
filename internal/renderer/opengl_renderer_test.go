package renderer

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestCollectLightsSumsAmbient(t *testing.T) {
	scene := NewScene()
	scene.AddLight(CreateAmbientLight(mgl32.Vec3{1, 1, 1}, 0.5))
	scene.AddLight(CreateAmbientLight(mgl32.Vec3{1, 0, 0}, 0.25))

	ls := collectLights(scene)

	expected := mgl32.Vec3{0.75, 0.5, 0.5}
	if !ls.ambient.ApproxEqual(expected) {
		t.Errorf("Expected ambient %v, got %v", expected, ls.ambient)
	}
	if ls.hasHemisphere {
		t.Error("Expected no hemisphere light")
	}
}

func TestCollectLightsSkipsHidden(t *testing.T) {
	scene := NewScene()
	sun := CreateDirectionalLight(mgl32.Vec3{0, 10, 0}, mgl32.Vec3{1, 1, 1}, 1)
	sun.Visible = false
	scene.AddLight(sun)

	ls := collectLights(scene)

	if len(ls.dirDirections) != 0 {
		t.Errorf("Expected 0 directional lights, got %d", len(ls.dirDirections))
	}
}

func TestCollectLightsCapsDirectional(t *testing.T) {
	scene := NewScene()
	for i := 0; i < MaxDirectionalLights+2; i++ {
		scene.AddLight(CreateDirectionalLight(mgl32.Vec3{0, 1, 0}, mgl32.Vec3{1, 1, 1}, 1))
	}

	ls := collectLights(scene)

	if len(ls.dirDirections) != MaxDirectionalLights {
		t.Errorf("Expected %d directional lights, got %d", MaxDirectionalLights, len(ls.dirDirections))
	}
	if !ls.dirDirections[0].ApproxEqual(mgl32.Vec3{0, -1, 0}) {
		t.Errorf("Expected direction (0,-1,0), got %v", ls.dirDirections[0])
	}
}

func TestCollectLightsHemisphere(t *testing.T) {
	scene := NewScene()
	hemi := CreateHemisphereLight(HexColor(0xffffff), HexColor(0x444444), 2)
	hemi.Position = mgl32.Vec3{0, 20, 0}
	scene.AddLight(hemi)

	ls := collectLights(scene)

	if !ls.hasHemisphere {
		t.Fatal("Expected hemisphere light")
	}
	if !ls.hemiDirection.ApproxEqual(mgl32.Vec3{0, 1, 0}) {
		t.Errorf("Expected direction (0,1,0), got %v", ls.hemiDirection)
	}
	if !ls.hemiSky.ApproxEqual(mgl32.Vec3{2, 2, 2}) {
		t.Errorf("Expected sky (2,2,2), got %v", ls.hemiSky)
	}
}

func TestCollectLightsAssignsShadowMaps(t *testing.T) {
	scene := NewScene()
	var lights []*Light
	for i := 0; i < MaxShadowMaps+2; i++ {
		l := CreateDirectionalLight(mgl32.Vec3{0, 1, float32(i)}, mgl32.Vec3{1, 1, 1}, 1)
		l.CastShadow = i != 1
		scene.AddLight(l)
		lights = append(lights, l)
	}

	ls := collectLights(scene)

	expected := []int32{0, -1, 1, -1}
	for i, want := range expected {
		if ls.dirShadow[i] != want {
			t.Errorf("Expected light %d shadow index %d, got %d", i, want, ls.dirShadow[i])
		}
	}
	if len(ls.shadowCasters) != MaxShadowMaps || ls.shadowCasters[1] != lights[2] {
		t.Errorf("Expected casters 0 and 2, got %v", ls.shadowCasters)
	}
	if len(ls.lightSpace) != MaxShadowMaps {
		t.Errorf("Expected %d light space matrices, got %d", MaxShadowMaps, len(ls.lightSpace))
	}
}

func TestCollectLightsHiddenCasterHasNoShadow(t *testing.T) {
	scene := NewScene()
	l := CreateDirectionalLight(mgl32.Vec3{0, 1, 0}, mgl32.Vec3{1, 1, 1}, 1)
	l.CastShadow = true
	l.Visible = false
	scene.AddLight(l)

	if ls := collectLights(scene); len(ls.shadowCasters) != 0 {
		t.Errorf("Expected no shadow casters, got %d", len(ls.shadowCasters))
	}
}

func TestDrainErrors(t *testing.T) {
	queue := []uint32{0x0500, 0x0502}
	get := func() uint32 {
		if len(queue) == 0 {
			return 0
		}
		code := queue[0]
		queue = queue[1:]
		return code
	}

	codes := drainErrors(get)
	if len(codes) != 2 || codes[0] != 0x0500 || codes[1] != 0x0502 {
		t.Errorf("Expected [0x500 0x502], got %v", codes)
	}

	stuck := drainErrors(func() uint32 { return 0x0502 })
	if len(stuck) != maxGLErrors {
		t.Errorf("Expected %d codes from a stuck queue, got %d", maxGLErrors, len(stuck))
	}
}
