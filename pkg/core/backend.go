package core

import (
	"errors"
	"fmt"

	"golang.org/x/sys/cpu"
)

// ErrZeroLength is returned when a direction that must be normalised has no length
var ErrZeroLength = errors.New("vector has zero length")

// BackendInfo describes the active vector backend and the host's SIMD support
type BackendInfo struct {
	Name        string // "scalar" or "packed"
	HostSIMD    bool   // Host CPU advertises a 256-bit (x86) or 128-bit (arm64) vector unit
	HostFeature string // Name of the detected feature, empty if none
}

// VectorBackend reports which Vec3 backend this binary was built with
func VectorBackend() BackendInfo {
	info := BackendInfo{Name: activeBackend}
	switch {
	case cpu.X86.HasAVX2:
		info.HostSIMD, info.HostFeature = true, "avx2"
	case cpu.X86.HasAVX:
		info.HostSIMD, info.HostFeature = true, "avx"
	case cpu.ARM64.HasASIMD:
		info.HostSIMD, info.HostFeature = true, "asimd"
	}
	return info
}

func (b BackendInfo) String() string {
	if !b.HostSIMD {
		return fmt.Sprintf("%s (host simd: none)", b.Name)
	}
	return fmt.Sprintf("%s (host simd: %s)", b.Name, b.HostFeature)
}

// SafeUnitVector normalises v, returning ErrZeroLength instead of NaN components.
// Use it where a direction comes from configuration rather than from the renderer.
func SafeUnitVector(v Vec3) (Vec3, error) {
	if v.LengthSquared() == 0 {
		return Vec3{}, ErrZeroLength
	}
	return v.UnitVector(), nil
}
