// Package tokens turns a backend token stream plus the original source text
// into the line-by-line token model the renderer draws.
package tokens

// Kind is the display category of a token.
type Kind string

const (
	KindKeyword     Kind = "keyword"
	KindVariable    Kind = "variable"
	KindFunction    Kind = "function"
	KindType        Kind = "type"
	KindProperty    Kind = "property"
	KindLiteral     Kind = "literal"
	KindString      Kind = "string"
	KindNumber      Kind = "number"
	KindComment     Kind = "comment"
	KindOperator    Kind = "operator"
	KindPunctuation Kind = "punctuation"
	KindTag         Kind = "tag"
	KindAttribute   Kind = "attribute"
	KindSpace       Kind = "space"
	KindPlain       Kind = "plain"
)

// knownKinds maps backend type tags to kinds. "identifier" is the tag some
// backends use for variables.
var knownKinds = map[string]Kind{
	"keyword":     KindKeyword,
	"variable":    KindVariable,
	"identifier":  KindVariable,
	"function":    KindFunction,
	"type":        KindType,
	"property":    KindProperty,
	"literal":     KindLiteral,
	"string":      KindString,
	"number":      KindNumber,
	"comment":     KindComment,
	"operator":    KindOperator,
	"punctuation": KindPunctuation,
	"tag":         KindTag,
	"attribute":   KindAttribute,
	"space":       KindSpace,
	"plain":       KindPlain,
}

// ParseKind resolves a backend type tag.
func ParseKind(tag string) (Kind, bool) {
	k, ok := knownKinds[tag]
	return k, ok
}
