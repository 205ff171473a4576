package material

import (
	"testing"

	"github.com/df07/go-sphere-raytracer/pkg/core"
)

func TestDescribe(t *testing.T) {
	metal, _ := NewMetal(core.NewVec3(0.8, 0.6, 0.2), 0.25)
	glass, _ := NewDielectric(1.5)

	tests := []struct {
		name     string
		material core.Material
		wantType string
		wantKey  string
		wantVal  interface{}
	}{
		{"lambertian", NewLambertian(core.NewVec3(1, 0, 0)), "lambertian", "color", "#ff0000"},
		{"metal", metal, "metal", "fuzz", 0.25},
		{"dielectric", glass, "dielectric", "refractionIndex", 1.5},
		{"unknown", nil, "unknown", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotType, props := Describe(tt.material)
			if gotType != tt.wantType {
				t.Errorf("type = %q, want %q", gotType, tt.wantType)
			}
			if tt.wantKey == "" {
				return
			}
			if props[tt.wantKey] != tt.wantVal {
				t.Errorf("%s = %v, want %v", tt.wantKey, props[tt.wantKey], tt.wantVal)
			}
		})
	}
}

func TestDescribe_ColorClamped(t *testing.T) {
	_, props := Describe(NewLambertian(core.NewVec3(2, -1, 0.5)))
	if props["color"] != "#ff007f" {
		t.Errorf("color = %v, want #ff007f", props["color"])
	}
}
