package dxil

import (
	"fmt"
	"strings"
)

// ShaderKind identifies what kind of shader a function is.
type ShaderKind uint8

const (
	ShaderKindPixel ShaderKind = iota
	ShaderKindVertex
	ShaderKindGeometry
	ShaderKindHull
	ShaderKindDomain
	ShaderKindCompute
	ShaderKindLibrary
	ShaderKindInvalid
)

var kindAbbrevs = [...]string{
	ShaderKindPixel:    "ps",
	ShaderKindVertex:   "vs",
	ShaderKindGeometry: "gs",
	ShaderKindHull:     "hs",
	ShaderKindDomain:   "ds",
	ShaderKindCompute:  "cs",
	ShaderKindLibrary:  "lib",
	ShaderKindInvalid:  "invalid",
}

// Name returns the profile abbreviation for the kind ("ps", "vs", ...).
func (k ShaderKind) Name() string {
	if int(k) < len(kindAbbrevs) {
		return kindAbbrevs[k]
	}
	return "invalid"
}

// ShaderModel is a versioned shader capability tier, e.g. pixel shader 6.0.
type ShaderModel struct {
	kind  ShaderKind
	major uint8
	minor uint8
}

// Kind returns the shader kind the model targets.
func (sm *ShaderModel) Kind() ShaderKind { return sm.kind }

// Major returns the major version.
func (sm *ShaderModel) Major() uint8 { return sm.major }

// Minor returns the minor version.
func (sm *ShaderModel) Minor() uint8 { return sm.minor }

// Name returns the profile string, e.g. "ps_6_0".
func (sm *ShaderModel) Name() string {
	return fmt.Sprintf("%s_%d_%d", sm.kind.Name(), sm.major, sm.minor)
}

// IsValid reports whether the model names a real profile.
func (sm *ShaderModel) IsValid() bool { return sm.kind != ShaderKindInvalid }

var invalidShaderModel = &ShaderModel{kind: ShaderKindInvalid}

// shaderModels enumerates the supported profiles. Lookups return pointers
// into this table so models compare by identity.
var shaderModels = buildShaderModelTable()

func buildShaderModelTable() []*ShaderModel {
	kinds := []ShaderKind{
		ShaderKindPixel, ShaderKindVertex, ShaderKindGeometry,
		ShaderKindHull, ShaderKindDomain, ShaderKindCompute,
		ShaderKindLibrary,
	}
	versions := [][2]uint8{
		{5, 0}, {5, 1},
		{6, 0}, {6, 1}, {6, 2}, {6, 3}, {6, 4}, {6, 5}, {6, 6}, {6, 7},
	}
	var out []*ShaderModel
	for _, k := range kinds {
		for _, v := range versions {
			if k == ShaderKindLibrary && v[0] < 6 {
				// Library profiles start at SM 6.x.
				continue
			}
			out = append(out, &ShaderModel{kind: k, major: v[0], minor: v[1]})
		}
	}
	return out
}

// GetShaderModelByName resolves a profile string like "ps_6_0". Unknown
// profiles resolve to the invalid model rather than nil so callers can
// report a kind mismatch uniformly.
func GetShaderModelByName(name string) *ShaderModel {
	parts := strings.Split(name, "_")
	if len(parts) != 3 {
		return invalidShaderModel
	}
	for _, sm := range shaderModels {
		if sm.kind.Name() == parts[0] &&
			fmt.Sprintf("%d", sm.major) == parts[1] &&
			fmt.Sprintf("%d", sm.minor) == parts[2] {
			return sm
		}
	}
	return invalidShaderModel
}
