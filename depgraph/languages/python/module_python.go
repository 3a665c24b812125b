package python

import (
	"sort"
	"strings"
)

// ResolveRelative anchors a `from` import of the given level against module.
// It reports false when the level climbs above the top of module's package path.
func ResolveRelative(module string, level int, name string) (string, bool) {
	parts := strings.Split(module, ".")
	if level > len(parts) {
		return "", false
	}

	var base []string
	if level > 0 {
		base = parts[:len(parts)-level]
	}

	return joinModule(strings.Join(base, "."), name), true
}

func joinModule(base, name string) string {
	if base == "" {
		return name
	}
	return base + "." + name
}

// ExtractImports returns the distinct, sorted import targets named by statements,
// with relative imports resolved against module.
//
// Relative imports that cannot be anchored are dropped; dropped reports how many.
func ExtractImports(module string, statements []Statement) (targets []string, dropped int) {
	seen := make(map[string]bool)
	add := func(target string) {
		if target != "" && !seen[target] {
			seen[target] = true
			targets = append(targets, target)
		}
	}

	for _, stmt := range statements {
		switch stmt.Kind {
		case KindAbsoluteImport:
			for _, name := range stmt.Names {
				add(name)
			}
		case KindFromImport:
			if stmt.Module != "" {
				target, ok := ResolveRelative(module, stmt.Level, stmt.Module)
				if !ok {
					dropped++
					continue
				}
				add(target)
				continue
			}
			for _, name := range stmt.Names {
				target, ok := ResolveRelative(module, stmt.Level, name)
				if !ok {
					dropped++
					break
				}
				add(target)
			}
		}
	}

	sort.Strings(targets)
	return targets, dropped
}
