// Copyright 2024 Richard Kelsey. All rights reserved.
// See file LICENSE for notices and license.

// Turning a function's SSA into the engine's inputs: one live
// interval per register-worthy value, the call-site points, and the
// fixed-register usage tallies.
//
// Program points are instruction indices in block order.  Each value
// gets a single [def, lastLive) range; lifetime holes are folded in,
// which makes the intervals conservative but keeps the engine's
// single-range model.

package front

import (
	"go/token"
	"go/types"

	"golang.org/x/tools/go/ssa"

	"github.com/s48/regpressure/pressure"
	"github.com/s48/regpressure/util"
)

type blockInfoT struct {
	block *ssa.BasicBlock
	start int
	end   int // exclusive

	use     util.SetT[ssa.Value] // used before any def in the block
	def     util.SetT[ssa.Value]
	phiUse  util.SetT[ssa.Value] // passed to a successor's phi
	liveOut util.SetT[ssa.Value]
}

func makeBlockInfo(block *ssa.BasicBlock) *blockInfoT {
	return &blockInfoT{
		block:   block,
		use:     util.NewSet[ssa.Value](),
		def:     util.NewSet[ssa.Value](),
		phiUse:  util.NewSet[ssa.Value](),
		liveOut: util.NewSet[ssa.Value](),
	}
}

type extractorT struct {
	arch       *ArchProfileT
	blocks     []*blockInfoT
	blockInfos map[*ssa.BasicBlock]*blockInfoT

	valueOrder []ssa.Value // tracked values in definition order
	defPoint   map[ssa.Value]int
	endPoint   map[ssa.Value]int
	callSites  []int
	physRegs   map[*pressure.RegisterClassT]util.SetT[string]
}

// Builds the unit for one function.  The returned unit owns its
// interval slice; nothing in it refers back to the SSA.

func AnalyzeFunction(function *ssa.Function, arch *ArchProfileT) *pressure.UnitT {
	ext := &extractorT{
		arch:       arch,
		blockInfos: map[*ssa.BasicBlock]*blockInfoT{},
		defPoint:   map[ssa.Value]int{},
		endPoint:   map[ssa.Value]int{},
		physRegs:   map[*pressure.RegisterClassT]util.SetT[string]{},
	}
	ext.scan(function)
	ext.flowLiveness()
	return ext.makeUnit(function)
}

// Whether the value competes for a register at all.  Constants,
// globals, and function references are rematerializable and never
// occupy a slot; tuple-typed values are carried by their extracts.

func (ext *extractorT) tracked(value ssa.Value) bool {
	switch value.(type) {
	case nil, *ssa.Const, *ssa.Global, *ssa.Function, *ssa.Builtin:
		return false
	}
	return ext.arch.classOf(value.Type()) != nil
}

func (arch *ArchProfileT) classOf(typ types.Type) *pressure.RegisterClassT {
	switch underlying := typ.Underlying().(type) {
	case *types.Basic:
		if underlying.Info()&(types.IsFloat|types.IsComplex) != 0 {
			return arch.FPR
		}
		return arch.GPR
	case *types.Tuple:
		return nil
	default:
		// Pointers, slices, interfaces, and the rest live in
		// general registers (as one or more words; we count one).
		return arch.GPR
	}
}

func (ext *extractorT) define(value ssa.Value, point int) {
	if _, defined := ext.defPoint[value]; defined {
		return
	}
	ext.defPoint[value] = point
	if ext.endPoint[value] < point+1 {
		ext.endPoint[value] = point + 1 // a dead def still occupies its slot briefly
	}
	ext.valueOrder = append(ext.valueOrder, value)
}

// Numbers the instructions and fills in the per-block use/def sets,
// call sites, use end points, and fixed-register tallies, all in one
// walk.

func (ext *extractorT) scan(function *ssa.Function) {
	for _, param := range function.Params {
		if ext.tracked(param) {
			ext.define(param, 0)
		}
	}
	for _, freeVar := range function.FreeVars {
		if ext.tracked(freeVar) {
			ext.define(freeVar, 0)
		}
	}

	// Blocks first, so that a phi can reach the info of a
	// predecessor that numbering has not visited yet (back edges).
	for _, block := range function.Blocks {
		info := makeBlockInfo(block)
		ext.blocks = append(ext.blocks, info)
		ext.blockInfos[block] = info
	}

	point := 0
	rands := []*ssa.Value{}
	for _, info := range ext.blocks {
		block := info.block
		info.start = point

		for _, instruction := range block.Instrs {
			if phi, isPhi := instruction.(*ssa.Phi); isPhi {
				for i, edge := range phi.Edges {
					if ext.tracked(edge) {
						ext.blockInfos[block.Preds[i]].phiUse.Add(edge)
					}
				}
			} else {
				rands = instruction.Operands(rands[:0])
				for _, rand := range rands {
					value := *rand
					if value == nil || !ext.tracked(value) {
						continue
					}
					if !info.def.Contains(value) {
						info.use.Add(value)
					}
					if ext.endPoint[value] < point+1 {
						ext.endPoint[value] = point + 1
					}
				}
			}

			if _, isCall := instruction.(ssa.CallInstruction); isCall {
				ext.callSites = append(ext.callSites, point)
			}
			ext.notePinnedRegs(instruction)

			if value, isValue := instruction.(ssa.Value); isValue && ext.tracked(value) {
				info.def.Add(value)
				ext.define(value, point)
			}
			point += 1
		}
		info.end = point
	}
}

// Instructions that pin specific physical registers.  Only distinct
// registers count; three divisions still pin the same two registers.

func (ext *extractorT) notePinnedRegs(instruction ssa.Instruction) {
	binop, isBinop := instruction.(*ssa.BinOp)
	if !isBinop {
		return
	}
	var pinned []string
	switch binop.Op {
	case token.QUO, token.REM:
		if isInteger(binop.X.Type()) {
			pinned = ext.arch.divPinned
		}
	case token.SHL, token.SHR:
		if _, isConst := binop.Y.(*ssa.Const); !isConst {
			pinned = ext.arch.shiftPinned
		}
	}
	if len(pinned) == 0 {
		return
	}
	class := ext.arch.classOf(binop.Type())
	if ext.physRegs[class] == nil {
		ext.physRegs[class] = util.NewSet[string]()
	}
	ext.physRegs[class].Add(pinned...)
}

func isInteger(typ types.Type) bool {
	basic, isBasic := typ.Underlying().(*types.Basic)
	return isBasic && basic.Info()&types.IsInteger != 0
}

// Iterates block liveness to a fixed point, the same change loop the
// register allocator uses for its live sets.  Sets only grow, so a
// size comparison detects change.

func (ext *extractorT) flowLiveness() {
	change := true
	for change {
		change = false
		for i := len(ext.blocks) - 1; 0 <= i; i-- {
			info := ext.blocks[i]
			out := util.NewSet[ssa.Value]().Union(info.phiUse)
			for _, successor := range info.block.Succs {
				next := ext.blockInfos[successor]
				out = out.Union(next.use.Union(next.liveOut.Difference(next.def)))
			}
			if len(info.liveOut) < len(out) {
				info.liveOut = out
				change = true
			}
		}
	}
}

func (ext *extractorT) makeUnit(function *ssa.Function) *pressure.UnitT {
	for _, info := range ext.blocks {
		for value := range info.liveOut {
			if ext.endPoint[value] < info.end {
				ext.endPoint[value] = info.end
			}
		}
	}

	intervals := make([]pressure.IntervalT, 0, len(ext.valueOrder))
	for id, value := range ext.valueOrder {
		intervals = append(intervals, pressure.IntervalT{
			Id:    id,
			Class: ext.arch.classOf(value.Type()),
			Start: ext.defPoint[value],
			End:   ext.endPoint[value],
		})
	}

	physRegUses := map[*pressure.RegisterClassT]int{}
	for class, registers := range ext.physRegs {
		physRegUses[class] = len(registers)
	}

	return &pressure.UnitT{
		Name:        function.Name(),
		Intervals:   intervals,
		CallSites:   ext.callSites, // ascending by construction
		PhysRegUses: physRegUses,
	}
}
