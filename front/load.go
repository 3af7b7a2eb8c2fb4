// Copyright 2024 Richard Kelsey. All rights reserved.
// See file LICENSE for notices and license.

// Loading Go source and building the SSA the liveness pass walks.

package front

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"sort"

	"golang.org/x/tools/go/packages"
	"golang.org/x/tools/go/ssa"
	"golang.org/x/tools/go/ssa/ssautil"
)

// Loads the packages matching the patterns and returns the bodies of
// their functions, sorted by name for deterministic report order.

func LoadFunctions(directory string, patterns ...string) ([]*ssa.Function, error) {
	mode := packages.NeedName |
		packages.NeedFiles |
		packages.NeedCompiledGoFiles |
		packages.NeedImports |
		packages.NeedDeps |
		packages.NeedTypes |
		packages.NeedSyntax |
		packages.NeedTypesInfo
	packageConf := &packages.Config{Mode: mode, Dir: directory}
	peckages, err := packages.Load(packageConf, patterns...)
	if err != nil {
		return nil, fmt.Errorf("loading %v: %w", patterns, err)
	}
	if 0 < packages.PrintErrors(peckages) {
		return nil, fmt.Errorf("packages %v had errors", patterns)
	}

	program, _ := ssautil.Packages(peckages, ssa.SanityCheckFunctions)
	program.Build()

	functions := []*ssa.Function{}
	for function := range ssautil.AllFunctions(program) {
		if function.Blocks != nil && function.Synthetic == "" {
			functions = append(functions, function)
		}
	}
	sortFunctions(functions)
	return functions, nil
}

// Builds a single in-memory file with no imports.  Used by tests and
// by callers that already have the source in hand.

func BuildFile(fileName string, source string) ([]*ssa.Function, error) {
	fileSet := token.NewFileSet()
	file, err := parser.ParseFile(fileSet, fileName, source, parser.SkipObjectResolution)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", fileName, err)
	}

	typesPackage := types.NewPackage("app", "app")
	ssaPackage, _, err := ssautil.BuildPackage(&types.Config{},
		fileSet, typesPackage, []*ast.File{file}, ssa.SanityCheckFunctions)
	if err != nil {
		return nil, fmt.Errorf("type checking %s: %w", fileName, err)
	}

	functions := []*ssa.Function{}
	for _, member := range ssaPackage.Members {
		if function, isFunction := member.(*ssa.Function); isFunction && function.Blocks != nil {
			functions = append(functions, function)
		}
	}
	sortFunctions(functions)
	return functions, nil
}

func sortFunctions(functions []*ssa.Function) {
	sort.Slice(functions, func(i int, j int) bool {
		return functions[i].String() < functions[j].String()
	})
}
