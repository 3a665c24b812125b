package python

import "strings"

// IsTestModule reports whether a dotted module identifier names test code:
// test_*.py, *_test.py, conftest.py, or anything under a test/tests package.
func IsTestModule(module string) bool {
	if module == "" {
		return false
	}

	parts := strings.Split(module, ".")
	last := parts[len(parts)-1]
	if strings.HasPrefix(last, "test_") || strings.HasSuffix(last, "_test") || last == "conftest" {
		return true
	}

	for _, part := range parts {
		if part == "test" || part == "tests" {
			return true
		}
	}
	return false
}
