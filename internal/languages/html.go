package languages

import (
	m "github.com/mvp-joe/codefold/internal/matcher"
	"github.com/mvp-joe/codefold/internal/scope"
)

// HTML returns the HTML pattern set. An element folds after its start tag,
// and only when it has an end tag.
func HTML() *Language {
	return &Language{
		Name:       "html",
		Aliases:    []string{"HTML"},
		Extensions: []string{".html", ".htm"},
		Scopes: m.Node(m.OneOf("element", "script_element", "style_element"),
			m.Capture(scope.KeyScope), m.InField("children"),
			m.With(
				m.Node(m.Exact("start_tag"), m.Capture(scope.KeyPrefix)),
				m.Node(m.Exact("end_tag")),
			)),
	}
}
