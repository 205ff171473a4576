package material

import (
	"fmt"

	"github.com/df07/go-sphere-raytracer/pkg/core"
)

// Describe returns a material's type name and its user-facing properties
func Describe(mat core.Material) (string, map[string]interface{}) {
	properties := make(map[string]interface{})

	switch m := mat.(type) {
	case *Lambertian:
		properties["albedo"] = [3]float64{m.Albedo.X(), m.Albedo.Y(), m.Albedo.Z()}
		properties["color"] = hexColor(m.Albedo)
		return "lambertian", properties

	case *Metal:
		properties["albedo"] = [3]float64{m.Albedo.X(), m.Albedo.Y(), m.Albedo.Z()}
		properties["color"] = hexColor(m.Albedo)
		properties["fuzz"] = m.Fuzz
		return "metal", properties

	case *Dielectric:
		properties["refractionIndex"] = m.RefractionIndex
		properties["color"] = "#ffffff" // Clear glass
		return "dielectric", properties

	default:
		return "unknown", properties
	}
}

func hexColor(c core.Vec3) string {
	c = c.Clamp(0, 1)
	return fmt.Sprintf("#%02x%02x%02x", int(c.X()*255), int(c.Y()*255), int(c.Z()*255))
}
