package hostinfo

import (
	"strings"
	"testing"
)

func TestString(t *testing.T) {
	tests := []struct {
		info Info
		want string
	}{
		{Info{}, "unknown cpu (0 logical cores, simd: none)"},
		{Info{Brand: "Test CPU", LogicalCores: 8, FMA3: true, AVX2: true}, "Test CPU (8 logical cores, simd: fma3,avx2)"},
		{Info{Brand: "Big", LogicalCores: 64, AVX512: true}, "Big (64 logical cores, simd: avx512)"},
	}
	for _, tt := range tests {
		if got := tt.info.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestDetect(t *testing.T) {
	info := Detect()
	if info.LogicalCores < 0 || info.PhysicalCores < 0 {
		t.Errorf("negative core count: %+v", info)
	}
	if info.Brand != strings.TrimSpace(info.Brand) {
		t.Errorf("brand not trimmed: %q", info.Brand)
	}
	if !strings.Contains(info.String(), "logical cores") {
		t.Errorf("unexpected description %q", info.String())
	}
}
