package matcher

import (
	"errors"
	"fmt"
)

// ErrDuplicateCapture is returned by Validate for a pattern that can bind one
// key twice in a single match.
var ErrDuplicateCapture = errors.New("duplicate capture key")

// Validate checks that no successful match of m binds a capture key more
// than once. The same key may appear in different AnyOf alternatives.
func Validate(m Matcher) error {
	if m == nil {
		return errors.New("nil matcher")
	}
	for _, path := range m.Keys() {
		seen := make(map[string]struct{}, len(path))
		for _, k := range path {
			if _, dup := seen[k]; dup {
				return fmt.Errorf("%w: %q", ErrDuplicateCapture, k)
			}
			seen[k] = struct{}{}
		}
	}
	return nil
}

// Require returns the keys every successful match of m binds.
func Require(m Matcher) []string {
	paths := m.Keys()
	if len(paths) == 0 {
		return nil
	}
	count := map[string]int{}
	for _, path := range paths {
		seen := map[string]bool{}
		for _, k := range path {
			if !seen[k] {
				seen[k] = true
				count[k]++
			}
		}
	}
	var out []string
	for _, k := range paths[0] {
		if count[k] == len(paths) {
			out = append(out, k)
			count[k] = 0
		}
	}
	return out
}
