// Copyright 2024 Richard Kelsey. All rights reserved.
// See file LICENSE for notices and license.

// Architecture profiles: the per-class capacities and ABI limits the
// engine is run against, plus the rules for instructions that pin
// fixed physical registers.

package front

import (
	"fmt"
	"sort"

	"github.com/s48/regpressure/pressure"
)

type ArchProfileT struct {
	Name string
	GPR  *pressure.RegisterClassT
	FPR  *pressure.RegisterClassT

	// Fixed registers pinned by an integer divide or remainder
	// (AX and DX on x86) and by a shift with a non-constant count
	// (CX on x86).
	divPinned   []string
	shiftPinned []string
}

func (arch *ArchProfileT) Classes() []*pressure.RegisterClassT {
	return []*pressure.RegisterClassT{arch.GPR, arch.FPR}
}

// System V AMD64: sixteen general registers minus the stack and
// frame pointers, sixteen vector registers.  Twelve callee-saved
// slots for call-crossing values.

func sysvAmd64() *ArchProfileT {
	return &ArchProfileT{
		Name:        "sysv-amd64",
		GPR:         &pressure.RegisterClassT{Name: "gpr", Capacity: 14, AbiLimit: 12},
		FPR:         &pressure.RegisterClassT{Name: "fpr", Capacity: 16},
		divPinned:   []string{"ax", "dx"},
		shiftPinned: []string{"cx"},
	}
}

// RV32E: the embedded RISC-V profile with sixteen integer registers,
// ten of them allocatable and only s0/s1 callee-saved.  No float
// register file; float values always overflow to memory.

func rv32e() *ArchProfileT {
	return &ArchProfileT{
		Name: "rv32e",
		GPR:  &pressure.RegisterClassT{Name: "gpr", Capacity: 10, AbiLimit: 2},
		FPR:  &pressure.RegisterClassT{Name: "fpr", Capacity: 0},
	}
}

var archProfiles = map[string]func() *ArchProfileT{
	"sysv-amd64": sysvAmd64,
	"rv32e":      rv32e,
}

// Each lookup returns a fresh profile; the class pointers it holds
// key the per-class maps for every unit analyzed against it.

func LookupArch(name string) (*ArchProfileT, error) {
	factory := archProfiles[name]
	if factory == nil {
		return nil, fmt.Errorf("unknown architecture '%s' (have %v)", name, ArchNames())
	}
	return factory(), nil
}

func ArchNames() []string {
	names := make([]string, 0, len(archProfiles))
	for name := range archProfiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
