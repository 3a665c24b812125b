package depgraph

import (
	"path/filepath"
	"sort"
	"strings"
)

// PackageRootStem is the file stem that marks a directory as an importable
// package (__init__.py for the default extension). Such a file names its
// directory rather than itself.
const PackageRootStem = "__init__"

// ModuleIndex maps dotted module identifiers to the absolute path of the file defining them.
// It is built once before extraction and only read afterwards.
type ModuleIndex map[string]string

// Collision records two files that mapped to the same module identifier.
// The later file in walk order wins.
type Collision struct {
	Module  string `json:"module"`
	Kept    string `json:"kept"`
	Dropped string `json:"dropped"`
}

// ModuleName computes the dotted module identifier of filePath relative to root.
// It reports false for files that do not name a module, such as a package-root
// file located directly at root or a file outside root.
func ModuleName(root, filePath, ext string) (string, bool) {
	rel, err := filepath.Rel(root, filePath)
	if err != nil {
		return "", false
	}
	rel = filepath.ToSlash(rel)
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return "", false
	}

	ext = NormalizeExtension(ext)
	rootFile := PackageRootStem + ext
	if rel == rootFile || strings.HasSuffix(rel, "/"+rootFile) {
		rel = strings.TrimSuffix(strings.TrimSuffix(rel, rootFile), "/")
	} else {
		rel = strings.TrimSuffix(rel, ext)
	}

	module := strings.TrimLeft(strings.ReplaceAll(strings.Trim(rel, "/"), "/", "."), ".")
	if module == "" {
		return "", false
	}
	return module, true
}

// BuildModuleIndex names every discovered file. Files are applied in the order
// given, so a later file overwrites an earlier one with the same identifier;
// each overwrite is reported as a Collision.
func BuildModuleIndex(root string, filePaths []string, ext string) (ModuleIndex, []Collision) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		absRoot = root
	}

	index := make(ModuleIndex, len(filePaths))
	var collisions []Collision
	for _, filePath := range filePaths {
		module, ok := ModuleName(absRoot, filePath, ext)
		if !ok {
			continue
		}
		if previous, exists := index[module]; exists && previous != filePath {
			collisions = append(collisions, Collision{Module: module, Kept: filePath, Dropped: previous})
		}
		index[module] = filePath
	}

	return index, collisions
}

// Modules returns the index keys in sorted order.
func (idx ModuleIndex) Modules() []string {
	modules := make([]string, 0, len(idx))
	for module := range idx {
		modules = append(modules, module)
	}
	sort.Strings(modules)
	return modules
}

// Contains reports whether module is internal to the analyzed tree.
func (idx ModuleIndex) Contains(module string) bool {
	_, ok := idx[module]
	return ok
}
