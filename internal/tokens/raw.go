package tokens

import (
	"errors"
	"fmt"

	"github.com/buger/jsonparser"

	"github.com/mvp-joe/codefold/internal/syntax"
)

var (
	// ErrMalformedToken marks a token record with missing or ill-typed fields.
	ErrMalformedToken = errors.New("malformed token")
	// ErrUnknownKind marks a token whose type tag has no Kind.
	ErrUnknownKind = errors.New("unknown token kind")
	// ErrOutOfBounds marks a token addressing text outside the source.
	ErrOutOfBounds = errors.New("token out of bounds")
	// ErrUnsorted marks a token starting inside text already consumed.
	ErrUnsorted = errors.New("tokens not sorted")
)

// RawToken is one record of the backend's token stream.
type RawToken struct {
	Type  string          `json:"type"`
	Start syntax.Position `json:"start"`
	End   syntax.Position `json:"end"`
}

// Span returns the region the token covers.
func (t RawToken) Span() syntax.Span {
	return syntax.Span{Start: t.Start, End: t.End}
}

// DecodeRaw decodes the backend payload
//
//	[{"type": "keyword", "start": [0, 0], "end": [0, 3]}, ...]
func DecodeRaw(payload []byte) ([]RawToken, error) {
	value, dt, _, err := jsonparser.Get(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	if dt != jsonparser.Array {
		return nil, fmt.Errorf("%w: payload is %s, want array", ErrMalformedToken, dt)
	}

	raw := []RawToken{}
	var firstErr error
	index := 0
	_, err = jsonparser.ArrayEach(value, func(item []byte, dt jsonparser.ValueType, _ int, _ error) {
		defer func() { index++ }()
		if firstErr != nil {
			return
		}
		if dt != jsonparser.Object {
			firstErr = fmt.Errorf("%w: record %d is %s, want object", ErrMalformedToken, index, dt)
			return
		}
		tok, err := decodeRecord(item)
		if err != nil {
			firstErr = fmt.Errorf("record %d: %w", index, err)
			return
		}
		raw = append(raw, tok)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return raw, nil
}

func decodeRecord(item []byte) (RawToken, error) {
	typ, err := jsonparser.GetString(item, "type")
	if err != nil {
		return RawToken{}, fmt.Errorf("%w: type: %v", ErrMalformedToken, err)
	}

	start, err := recordPosition(item, "start")
	if err != nil {
		return RawToken{}, err
	}
	end, err := recordPosition(item, "end")
	if err != nil {
		return RawToken{}, err
	}
	if end.Less(start) {
		return RawToken{}, fmt.Errorf("%w: ends at %s before its start %s", ErrMalformedToken, end, start)
	}

	return RawToken{Type: typ, Start: start, End: end}, nil
}

func recordPosition(item []byte, key string) (syntax.Position, error) {
	value, dt, _, err := jsonparser.Get(item, key)
	if err != nil {
		return syntax.Position{}, fmt.Errorf("%w: %s: %v", ErrMalformedToken, key, err)
	}
	if dt != jsonparser.Array {
		return syntax.Position{}, fmt.Errorf("%w: %s is %s, want [line, char]", ErrMalformedToken, key, dt)
	}
	p, err := syntax.ParsePosition(value)
	if err != nil {
		return syntax.Position{}, fmt.Errorf("%w: %s: %v", ErrMalformedToken, key, err)
	}
	return p, nil
}
