package dxil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetShaderModelByName(t *testing.T) {
	tests := []struct {
		name  string
		kind  ShaderKind
		major uint8
		minor uint8
	}{
		{"ps_6_0", ShaderKindPixel, 6, 0},
		{"vs_5_1", ShaderKindVertex, 5, 1},
		{"hs_6_3", ShaderKindHull, 6, 3},
		{"cs_6_6", ShaderKindCompute, 6, 6},
		{"lib_6_3", ShaderKindLibrary, 6, 3},
	}
	for _, tt := range tests {
		sm := GetShaderModelByName(tt.name)
		require.True(t, sm.IsValid(), tt.name)
		assert.Equal(t, tt.kind, sm.Kind())
		assert.Equal(t, tt.major, sm.Major())
		assert.Equal(t, tt.minor, sm.Minor())
		assert.Equal(t, tt.name, sm.Name())
	}
}

func TestGetShaderModelByNameInvalid(t *testing.T) {
	for _, name := range []string{"", "ps", "ps_6", "ps_9_9", "xx_6_0", "lib_5_1"} {
		sm := GetShaderModelByName(name)
		assert.False(t, sm.IsValid(), "%q should not resolve", name)
		assert.Equal(t, ShaderKindInvalid, sm.Kind())
	}
}

func TestShaderModelIdentity(t *testing.T) {
	// Lookups return pointers into one table, so models compare with ==.
	assert.Same(t, GetShaderModelByName("ps_6_0"), GetShaderModelByName("ps_6_0"))
}

func TestShaderKindName(t *testing.T) {
	assert.Equal(t, "ps", ShaderKindPixel.Name())
	assert.Equal(t, "hs", ShaderKindHull.Name())
	assert.Equal(t, "lib", ShaderKindLibrary.Name())
	assert.Equal(t, "invalid", ShaderKindInvalid.Name())
}
