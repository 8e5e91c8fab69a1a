// Package hostinfo describes the CPU a run executes on, so training logs
// can be compared across machines.
package hostinfo

import (
	"fmt"
	"strings"

	"github.com/klauspost/cpuid/v2"
)

// Info is a snapshot of the host CPU.
type Info struct {
	Brand         string
	Vendor        string
	PhysicalCores int
	LogicalCores  int
	FMA3          bool
	AVX2          bool
	AVX512        bool
}

// Detect reads the CPU description from cpuid.
func Detect() Info {
	c := cpuid.CPU
	return Info{
		Brand:         strings.TrimSpace(c.BrandName),
		Vendor:        c.VendorString,
		PhysicalCores: c.PhysicalCores,
		LogicalCores:  c.LogicalCores,
		FMA3:          c.Supports(cpuid.FMA3),
		AVX2:          c.Supports(cpuid.AVX2),
		AVX512:        c.Supports(cpuid.AVX512F, cpuid.AVX512DQ),
	}
}

// Features lists the SIMD extensions found, in a fixed order.
func (i Info) Features() []string {
	var out []string
	if i.FMA3 {
		out = append(out, "fma3")
	}
	if i.AVX2 {
		out = append(out, "avx2")
	}
	if i.AVX512 {
		out = append(out, "avx512")
	}
	return out
}

func (i Info) String() string {
	brand := i.Brand
	if brand == "" {
		brand = "unknown cpu"
	}
	feats := "none"
	if f := i.Features(); len(f) > 0 {
		feats = strings.Join(f, ",")
	}
	return fmt.Sprintf("%s (%d logical cores, simd: %s)", brand, i.LogicalCores, feats)
}
