package showcase

import (
	"PBRShowcase/internal/panel"
	"PBRShowcase/internal/renderer"
	"fmt"
	"strconv"
)

// Panel folder names.
const (
	FolderAmbient  = "Ambient Light"
	FolderMaterial = "Material"
	FolderStats    = "Stats"
)

const lightRange = 20

func (s *Showcase) buildPanel() {
	p := s.ctx.Panel

	ambient := p.AddFolder(FolderAmbient)
	ambient.AddCheckbox("visible", &s.Ambient.Visible)
	ambient.AddSlider("intensity", &s.Ambient.Intensity, 0, 1)

	for i, l := range s.Directional {
		if !s.Config.Directional[i].Panel {
			continue
		}
		addLightFolder(p.AddFolder(l.Name), l)
	}

	material := p.AddFolder(FolderMaterial)
	material.Open = true
	s.Switchboard.Bind(material)

	stats := p.AddFolder(FolderStats)
	stats.AddText("frame", s.ctx.Stats.String)
	stats.AddText("objects", func() string { return strconv.Itoa(s.ctx.Scene.ObjectCount()) })
	stats.AddText("textures", func() string {
		st := s.ctx.Textures.GetStats()
		return fmt.Sprintf("%d (%d hits)", st.ActiveTextures, st.CacheHits)
	})
}

func addLightFolder(f *panel.Folder, l *renderer.Light) {
	f.AddCheckbox("visible", &l.Visible)
	f.AddCheckbox("castShadow", &l.CastShadow)
	f.AddSlider("intensity", &l.Intensity, 0, 1)
	f.AddSlider("x", &l.Position[0], -lightRange, lightRange)
	f.AddSlider("y", &l.Position[1], -lightRange, lightRange)
	f.AddSlider("z", &l.Position[2], -lightRange, lightRange)
}
