package languages

import m "github.com/mvp-joe/codefold/internal/matcher"

// JSON returns the JSON pattern set. JSON has scopes but no declarations.
func JSON() *Language {
	return &Language{
		Name:       "json",
		Aliases:    []string{"JSON"},
		Extensions: []string{".json"},
		Scopes: m.AnyOf(
			delimited(m.Exact("object"), "{"),
			delimited(m.Exact("array"), "["),
		),
	}
}
