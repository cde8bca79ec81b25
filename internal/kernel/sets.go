package kernel

import (
	"fmt"
	"slices"
	"strings"

	"gonum.org/v1/gonum/blas/gonum"
)

// sets holds the constructors this binary was built with.
var sets = map[string]func() *Set{
	"gonum": Gonum,
}

// Gonum returns the pure Go reference kernels.
func Gonum() *Set {
	return New("gonum", gonum.Implementation{})
}

// Available returns the names accepted by ByName, sorted.
func Available() []string {
	names := make([]string, 0, len(sets))
	for name := range sets {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// ByName returns a kernel set by name. The empty name selects Default.
func ByName(name string) (*Set, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" || name == "default" {
		return Default(), nil
	}
	if ctor, ok := sets[name]; ok {
		return ctor(), nil
	}
	return nil, fmt.Errorf("unknown kernel set %q (available: %s)", name, strings.Join(Available(), ", "))
}
