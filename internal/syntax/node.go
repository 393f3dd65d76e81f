package syntax

// ChildrenField is the slot the backends use for children that the grammar
// does not attach to a named field.
const ChildrenField = "children"

// Node is one node of a parsed syntax tree.
//
// Type tags and field names come from the grammar and are opaque here. A tree
// is never mutated after it has been built, so nodes may be shared freely
// between goroutines.
type Node struct {
	Type   string
	Span   Span
	Text   string  // leaf text when the backend supplies it
	Fields []Field // child slots in document order
}

// Field is a named child slot holding zero or more nodes.
type Field struct {
	Name  string
	Nodes []*Node
}

// Start is the node's start position.
func (n *Node) Start() Position { return n.Span.Start }

// End is the node's end position.
func (n *Node) End() Position { return n.Span.End }

// Field returns the nodes of the named slot, or nil when the slot is absent.
func (n *Node) Field(name string) []*Node {
	if n == nil {
		return nil
	}
	for _, f := range n.Fields {
		if f.Name == name {
			return f.Nodes
		}
	}
	return nil
}

// HasField reports whether the node carries a slot with the given name,
// even an empty one.
func (n *Node) HasField(name string) bool {
	if n == nil {
		return false
	}
	for _, f := range n.Fields {
		if f.Name == name {
			return true
		}
	}
	return false
}

// Children returns the nodes of every slot, slot by slot in document order.
func (n *Node) Children() []*Node {
	if n == nil {
		return nil
	}
	var out []*Node
	for _, f := range n.Fields {
		out = append(out, f.Nodes...)
	}
	return out
}

// IsLeaf reports whether the node has no children.
func (n *Node) IsLeaf() bool {
	for _, f := range n.Fields {
		if len(f.Nodes) > 0 {
			return false
		}
	}
	return true
}

// Walk visits root and its descendants in pre-order. When fn returns false
// the children of that node are skipped.
func Walk(root *Node, fn func(*Node) bool) {
	if root == nil {
		return
	}
	if !fn(root) {
		return
	}
	for _, f := range root.Fields {
		for _, child := range f.Nodes {
			Walk(child, fn)
		}
	}
}

// Count returns the number of nodes in the tree rooted at root.
func Count(root *Node) int {
	total := 0
	Walk(root, func(*Node) bool {
		total++
		return true
	})
	return total
}
