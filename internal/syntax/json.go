package syntax

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/buger/jsonparser"
)

// ErrMalformedTree is wrapped by every FromJSON failure.
var ErrMalformedTree = errors.New("malformed syntax tree")

// MaxDepth bounds tree nesting accepted by FromJSON.
const MaxDepth = 1024

// Keys with a fixed meaning in the wire format. Every other key holding an
// object or an array of objects is a child slot.
const (
	keyType  = "type"
	keyStart = "start"
	keyEnd   = "end"
	keyText  = "text"
)

// FromJSON builds a tree from the parse backend's payload:
//
//	{"type": "...", "start": [line, char], "end": [line, char], "<field>": [{...}, ...]}
//
// A nil node is returned together with an error wrapping ErrMalformedTree
// when the payload does not have that shape.
func FromJSON(payload []byte) (*Node, error) {
	value, dt, _, err := jsonparser.Get(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedTree, err)
	}
	if dt != jsonparser.Object {
		return nil, fmt.Errorf("%w: root is %s, want object", ErrMalformedTree, dt)
	}
	return decodeNode(value, 0)
}

func decodeNode(data []byte, depth int) (*Node, error) {
	if depth > MaxDepth {
		return nil, fmt.Errorf("%w: nesting deeper than %d", ErrMalformedTree, MaxDepth)
	}

	n := &Node{}
	var haveType, haveStart, haveEnd bool
	var start, end Position

	err := jsonparser.ObjectEach(data, func(key, value []byte, dt jsonparser.ValueType, _ int) error {
		name := string(key)
		switch name {
		case keyType:
			if dt != jsonparser.String {
				return fmt.Errorf("%w: %q is %s, want string", ErrMalformedTree, keyType, dt)
			}
			s, err := jsonparser.ParseString(value)
			if err != nil {
				return fmt.Errorf("%w: %v", ErrMalformedTree, err)
			}
			n.Type = s
			haveType = true
		case keyStart:
			p, err := decodePosition(value, dt)
			if err != nil {
				return fmt.Errorf("%w: %q: %v", ErrMalformedTree, keyStart, err)
			}
			start, haveStart = p, true
		case keyEnd:
			p, err := decodePosition(value, dt)
			if err != nil {
				return fmt.Errorf("%w: %q: %v", ErrMalformedTree, keyEnd, err)
			}
			end, haveEnd = p, true
		case keyText:
			switch dt {
			case jsonparser.String:
				s, err := jsonparser.ParseString(value)
				if err != nil {
					return fmt.Errorf("%w: %v", ErrMalformedTree, err)
				}
				n.Text = s
			case jsonparser.Null:
			default:
				return fmt.Errorf("%w: %q is %s, want string", ErrMalformedTree, keyText, dt)
			}
		default:
			switch dt {
			case jsonparser.Object:
				child, err := decodeNode(value, depth+1)
				if err != nil {
					return err
				}
				n.Fields = append(n.Fields, Field{Name: name, Nodes: []*Node{child}})
			case jsonparser.Array:
				nodes, ok, err := decodeSlot(value, depth+1)
				if err != nil {
					return fmt.Errorf("field %q: %w", name, err)
				}
				if ok {
					n.Fields = append(n.Fields, Field{Name: name, Nodes: nodes})
				}
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrMalformedTree) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrMalformedTree, err)
	}

	switch {
	case !haveType:
		return nil, fmt.Errorf("%w: missing %q", ErrMalformedTree, keyType)
	case !haveStart:
		return nil, fmt.Errorf("%w: missing %q", ErrMalformedTree, keyStart)
	case !haveEnd:
		return nil, fmt.Errorf("%w: missing %q", ErrMalformedTree, keyEnd)
	}

	span, ok := NewSpan(start, end)
	if !ok {
		return nil, fmt.Errorf("%w: %s node starts at %s after its end %s", ErrMalformedTree, n.Type, start, end)
	}
	n.Span = span
	return n, nil
}

// decodeSlot decodes an array of nodes. Arrays holding only scalars are
// attributes and report ok == false; arrays mixing nodes and scalars are
// malformed.
func decodeSlot(data []byte, depth int) (nodes []*Node, ok bool, err error) {
	objects, scalars := 0, 0
	var firstErr error

	_, perr := jsonparser.ArrayEach(data, func(value []byte, dt jsonparser.ValueType, _ int, _ error) {
		if firstErr != nil {
			return
		}
		if dt != jsonparser.Object {
			scalars++
			return
		}
		objects++
		child, err := decodeNode(value, depth)
		if err != nil {
			firstErr = err
			return
		}
		nodes = append(nodes, child)
	})
	if perr != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrMalformedTree, perr)
	}
	if firstErr != nil {
		return nil, false, firstErr
	}

	switch {
	case objects > 0 && scalars > 0:
		return nil, false, fmt.Errorf("%w: slot mixes nodes and scalars", ErrMalformedTree)
	case scalars > 0:
		return nil, false, nil
	}
	return nodes, true, nil
}

// ParsePosition decodes a JSON [line, char] pair.
func ParsePosition(raw []byte) (Position, error) {
	value, dt, _, err := jsonparser.Get(raw)
	if err != nil {
		return Position{}, err
	}
	return decodePosition(value, dt)
}

func decodePosition(data []byte, dt jsonparser.ValueType) (Position, error) {
	if dt != jsonparser.Array {
		return Position{}, fmt.Errorf("got %s, want [line, char]", dt)
	}

	var coords []int64
	var firstErr error
	_, err := jsonparser.ArrayEach(data, func(value []byte, vt jsonparser.ValueType, _ int, _ error) {
		if firstErr != nil {
			return
		}
		if vt != jsonparser.Number {
			firstErr = fmt.Errorf("coordinate is %s, want number", vt)
			return
		}
		v, err := jsonparser.ParseInt(value)
		if err != nil {
			firstErr = err
			return
		}
		coords = append(coords, v)
	})
	if err != nil {
		return Position{}, err
	}
	if firstErr != nil {
		return Position{}, firstErr
	}
	if len(coords) != 2 {
		return Position{}, fmt.Errorf("got %d coordinates, want 2", len(coords))
	}
	if coords[0] < 0 || coords[1] < 0 {
		return Position{}, fmt.Errorf("negative coordinate %v", coords)
	}
	return Position{Line: int(coords[0]), Char: int(coords[1])}, nil
}

// MarshalJSON encodes the node in the same wire shape FromJSON reads.
func (n *Node) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := n.encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (n *Node) encode(buf *bytes.Buffer) error {
	typ, err := json.Marshal(n.Type)
	if err != nil {
		return err
	}
	fmt.Fprintf(buf, `{"type":%s,"start":[%d,%d],"end":[%d,%d]`,
		typ, n.Span.Start.Line, n.Span.Start.Char, n.Span.End.Line, n.Span.End.Char)

	if n.Text != "" {
		text, err := json.Marshal(n.Text)
		if err != nil {
			return err
		}
		buf.WriteString(`,"text":`)
		buf.Write(text)
	}

	for _, f := range n.Fields {
		name, err := json.Marshal(f.Name)
		if err != nil {
			return err
		}
		buf.WriteByte(',')
		buf.Write(name)
		buf.WriteString(":[")
		for i, child := range f.Nodes {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := child.encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	}

	buf.WriteByte('}')
	return nil
}
