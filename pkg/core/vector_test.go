package core

import (
	"math"
	"math/rand"
	"testing"

	"github.com/golang/geo/r3"
)

const backendTolerance = 1e-12

// closeEnough compares with an absolute tolerance that scales for large magnitudes
func closeEnough(a, b float64) bool {
	if math.IsNaN(a) || math.IsNaN(b) {
		return math.IsNaN(a) && math.IsNaN(b)
	}
	scale := math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
	return math.Abs(a-b) <= backendTolerance*scale
}

func sameComponents[A Vector[A], B Vector[B]](a A, b B) bool {
	return closeEnough(a.X(), b.X()) && closeEnough(a.Y(), b.Y()) && closeEnough(a.Z(), b.Z())
}

func matchesReference[A Vector[A]](a A, ref r3.Vector) bool {
	return closeEnough(a.X(), ref.X) && closeEnough(a.Y(), ref.Y) && closeEnough(a.Z(), ref.Z)
}

type vectorPair struct {
	scalarA, scalarB ScalarVec3
	packedA, packedB PackedVec3
	refA, refB       r3.Vector
	s                float64
}

func randomVectorPairs(n int, seed int64) []vectorPair {
	random := rand.New(rand.NewSource(seed))
	component := func() float64 {
		// Magnitudes spread over [0.1, 10), never exactly zero
		return (random.Float64()*2 - 1) * math.Pow(10, float64(random.Intn(3)-1))
	}
	pairs := make([]vectorPair, n)
	for i := range pairs {
		ax, ay, az := component(), component(), component()
		bx, by, bz := component(), component(), component()
		pairs[i] = vectorPair{
			scalarA: NewScalarVec3(ax, ay, az),
			scalarB: NewScalarVec3(bx, by, bz),
			packedA: NewPackedVec3(ax, ay, az),
			packedB: NewPackedVec3(bx, by, bz),
			refA:    r3.Vector{X: ax, Y: ay, Z: az},
			refB:    r3.Vector{X: bx, Y: by, Z: bz},
			s:       component(),
		}
	}
	return pairs
}

func TestBackends_Accessors(t *testing.T) {
	s := NewScalarVec3(1.5, -2.25, 3.125)
	p := NewPackedVec3(1.5, -2.25, 3.125)

	if s.X() != 1.5 || s.Y() != -2.25 || s.Z() != 3.125 {
		t.Errorf("scalar accessors returned %v", s)
	}
	if p.X() != 1.5 || p.Y() != -2.25 || p.Z() != 3.125 {
		t.Errorf("packed accessors returned %v", p)
	}
}

func TestBackends_Equivalence(t *testing.T) {
	pairs := randomVectorPairs(2000, 7)

	tests := []struct {
		name  string
		check func(p vectorPair) bool
	}{
		{"add", func(p vectorPair) bool {
			return sameComponents(p.scalarA.Add(p.scalarB), p.packedA.Add(p.packedB)) &&
				matchesReference(p.scalarA.Add(p.scalarB), p.refA.Add(p.refB))
		}},
		{"subtract", func(p vectorPair) bool {
			return sameComponents(p.scalarA.Subtract(p.scalarB), p.packedA.Subtract(p.packedB)) &&
				matchesReference(p.scalarA.Subtract(p.scalarB), p.refA.Sub(p.refB))
		}},
		{"multiply vec", func(p vectorPair) bool {
			return sameComponents(p.scalarA.MultiplyVec(p.scalarB), p.packedA.MultiplyVec(p.packedB))
		}},
		{"divide vec", func(p vectorPair) bool {
			return sameComponents(p.scalarA.DivideVec(p.scalarB), p.packedA.DivideVec(p.packedB))
		}},
		{"multiply scalar", func(p vectorPair) bool {
			return sameComponents(p.scalarA.Multiply(p.s), p.packedA.Multiply(p.s)) &&
				matchesReference(p.scalarA.Multiply(p.s), p.refA.Mul(p.s))
		}},
		{"divide scalar", func(p vectorPair) bool {
			return sameComponents(p.scalarA.Divide(p.s), p.packedA.Divide(p.s))
		}},
		{"negate", func(p vectorPair) bool {
			return sameComponents(p.scalarA.Negate(), p.packedA.Negate()) &&
				matchesReference(p.scalarA.Negate(), p.refA.Mul(-1))
		}},
		{"dot", func(p vectorPair) bool {
			return closeEnough(p.scalarA.Dot(p.scalarB), p.packedA.Dot(p.packedB)) &&
				closeEnough(p.scalarA.Dot(p.scalarB), p.refA.Dot(p.refB))
		}},
		{"cross", func(p vectorPair) bool {
			return sameComponents(p.scalarA.Cross(p.scalarB), p.packedA.Cross(p.packedB)) &&
				matchesReference(p.scalarA.Cross(p.scalarB), p.refA.Cross(p.refB))
		}},
		{"length", func(p vectorPair) bool {
			return closeEnough(p.scalarA.Length(), p.packedA.Length()) &&
				closeEnough(p.scalarA.Length(), p.refA.Norm())
		}},
		{"length squared", func(p vectorPair) bool {
			return closeEnough(p.scalarA.LengthSquared(), p.packedA.LengthSquared()) &&
				closeEnough(p.scalarA.LengthSquared(), p.refA.Norm2())
		}},
		{"unit vector", func(p vectorPair) bool {
			return sameComponents(p.scalarA.UnitVector(), p.packedA.UnitVector()) &&
				matchesReference(p.scalarA.UnitVector(), p.refA.Normalize())
		}},
		{"near zero", func(p vectorPair) bool {
			return p.scalarA.Multiply(1e-12).NearZero() == p.packedA.Multiply(1e-12).NearZero()
		}},
		{"reflect", func(p vectorPair) bool {
			return sameComponents(p.scalarA.Reflect(p.scalarB.UnitVector()), p.packedA.Reflect(p.packedB.UnitVector()))
		}},
		{"refract", func(p vectorPair) bool {
			return sameComponents(p.scalarA.Refract(p.scalarB.UnitVector(), 1/1.5), p.packedA.Refract(p.packedB.UnitVector(), 1/1.5))
		}},
		{"sqrt", func(p vectorPair) bool {
			return sameComponents(p.scalarA.Sqrt(), p.packedA.Sqrt())
		}},
		{"clamp", func(p vectorPair) bool {
			return sameComponents(p.scalarA.Clamp(0, 0.999), p.packedA.Clamp(0, 0.999))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for i, p := range pairs {
				if !tt.check(p) {
					t.Fatalf("pair %d: backends disagree for a=%v b=%v s=%g", i, p.scalarA, p.scalarB, p.s)
				}
			}
		})
	}
}

func TestBackends_ReflectMatchesFormula(t *testing.T) {
	v := NewVec3(1, -1, 0)
	n := NewVec3(0, 1, 0)

	got := v.Reflect(n)
	want := NewVec3(1, 1, 0)
	if got != want {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestBackends_RefractStraightThrough(t *testing.T) {
	// Normal incidence is not bent regardless of the ratio
	v := NewVec3(0, -2, 0)
	n := NewVec3(0, 1, 0)

	got := v.Refract(n, 1/1.5)
	if math.Abs(got.X()) > 1e-12 || math.Abs(got.Z()) > 1e-12 || math.Abs(got.Y()+1) > 1e-12 {
		t.Errorf("Expected (0, -1, 0), got %v", got)
	}
}

func TestBackends_RefractSnellsLaw(t *testing.T) {
	eta := 1 / 1.5
	incident := NewVec3(1, -1, 0)
	n := NewVec3(0, 1, 0)

	refracted := incident.Refract(n, eta).UnitVector()

	sinIn := math.Abs(incident.UnitVector().X())
	sinOut := math.Abs(refracted.X())
	if math.Abs(sinOut-eta*sinIn) > 1e-12 {
		t.Errorf("Snell's law violated: sin_out=%g, eta*sin_in=%g", sinOut, eta*sinIn)
	}
	if refracted.Y() >= 0 {
		t.Errorf("Refracted ray should continue through the surface, got %v", refracted)
	}
}

func TestVec3_UnitVectorHasUnitLength(t *testing.T) {
	for i, p := range randomVectorPairs(1000, 11) {
		if l := p.scalarA.UnitVector().Length(); math.Abs(l-1) > 1e-12 {
			t.Fatalf("scalar %d: |unit(%v)| = %.15f", i, p.scalarA, l)
		}
		if l := p.packedA.UnitVector().Length(); math.Abs(l-1) > 1e-12 {
			t.Fatalf("packed %d: |unit(%v)| = %.15f", i, p.packedA, l)
		}
	}
}

func TestVec3_UnitVectorOfZeroIsNaN(t *testing.T) {
	u := NewVec3(0, 0, 0).UnitVector()
	if !math.IsNaN(u.X()) || !math.IsNaN(u.Y()) || !math.IsNaN(u.Z()) {
		t.Errorf("Expected NaN components, got %v", u)
	}

	if _, err := SafeUnitVector(NewVec3(0, 0, 0)); err != ErrZeroLength {
		t.Errorf("Expected ErrZeroLength, got %v", err)
	}
	if u, err := SafeUnitVector(NewVec3(0, 3, 4)); err != nil || math.Abs(u.Length()-1) > 1e-12 {
		t.Errorf("Expected unit vector, got %v (err %v)", u, err)
	}
}

func TestVec3_NearZero(t *testing.T) {
	tests := []struct {
		name     string
		vector   Vec3
		expected bool
	}{
		{"zero", NewVec3(0, 0, 0), true},
		{"tiny", NewVec3(1e-9, -1e-9, 5e-9), true},
		{"at epsilon", NewVec3(1e-8, 0, 0), false},
		{"one large component", NewVec3(0, 0, 1e-3), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.vector.NearZero(); got != tt.expected {
				t.Errorf("NearZero(%v) = %t, expected %t", tt.vector, got, tt.expected)
			}
		})
	}
}

func TestPackedVec3_PadLaneStaysZero(t *testing.T) {
	v := NewPackedVec3(1, 2, 3).DivideVec(NewPackedVec3(4, 5, 6)).Divide(2).Negate()
	if v.lanes[padLane] != 0 {
		t.Errorf("Pad lane should stay zero, got %g", v.lanes[padLane])
	}
	if v != NewPackedVec3(-0.125, -0.2, -0.25) {
		t.Errorf("Unexpected result %v", v)
	}
}

func TestVectorBackend(t *testing.T) {
	info := VectorBackend()
	if info.Name != "scalar" && info.Name != "packed" {
		t.Errorf("Unexpected backend name %q", info.Name)
	}
	if info.HostSIMD && info.HostFeature == "" {
		t.Error("HostSIMD set without a feature name")
	}
	if info.String() == "" {
		t.Error("Expected a non-empty description")
	}
}
