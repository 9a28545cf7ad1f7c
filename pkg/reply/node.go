// Package reply models a bus method reply as a neutral tree of typed nodes.
//
// Decoders for a concrete bus library build Node trees; consumers walk them
// without knowing anything about the wire encoding.
package reply

import "fmt"

// Kind is the type tag of a Node.
type Kind int

const (
	Invalid Kind = iota
	String
	ObjectPath
	Variant
	Array
	Struct
	DictEntry
	Other
)

var kindNames = map[Kind]string{
	Invalid:    "invalid",
	String:     "string",
	ObjectPath: "object-path",
	Variant:    "variant",
	Array:      "array",
	Struct:     "struct",
	DictEntry:  "dict-entry",
	Other:      "other",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Node is one value of a reply. Text is set for String and ObjectPath,
// Children for containers (a DictEntry always has exactly key and value),
// Raw for Other.
type Node struct {
	Kind     Kind
	Text     string
	Children []Node
	Raw      interface{}
}

func NewString(s string) Node {
	return Node{Kind: String, Text: s}
}

func NewObjectPath(p string) Node {
	return Node{Kind: ObjectPath, Text: p}
}

func NewVariant(inner Node) Node {
	return Node{Kind: Variant, Children: []Node{inner}}
}

func NewArray(items ...Node) Node {
	return Node{Kind: Array, Children: items}
}

func NewStruct(fields ...Node) Node {
	return Node{Kind: Struct, Children: fields}
}

func NewEntry(key, value Node) Node {
	return Node{Kind: DictEntry, Children: []Node{key, value}}
}

func NewOther(raw interface{}) Node {
	return Node{Kind: Other, Raw: raw}
}

// Is reports whether the node carries the given kind.
func (n Node) Is(k Kind) bool {
	return n.Kind == k
}

// Len returns the number of direct children.
func (n Node) Len() int {
	return len(n.Children)
}

// Entry returns the key and value of a DictEntry node. ok is false for any
// other kind or for a malformed entry.
func (n Node) Entry() (key Node, value Node, ok bool) {
	if n.Kind != DictEntry || len(n.Children) != 2 {
		return Node{}, Node{}, false
	}
	return n.Children[0], n.Children[1], true
}

// Unwrap strips any number of Variant layers.
func (n Node) Unwrap() Node {
	for n.Kind == Variant {
		if len(n.Children) == 0 {
			return Node{}
		}
		n = n.Children[0]
	}
	return n
}

// AsString returns the text of a String node after unwrapping variants.
func (n Node) AsString() (string, bool) {
	n = n.Unwrap()
	if n.Kind != String {
		return "", false
	}
	return n.Text, true
}

// Walk visits n and its descendants depth-first in order. depth is 0 for n.
// Returning false from fn skips the children of the visited node.
func Walk(n Node, fn func(n Node, depth int) bool) {
	walk(n, 0, fn)
}

func walk(n Node, depth int, fn func(Node, int) bool) {
	if !fn(n, depth) {
		return
	}
	for _, child := range n.Children {
		walk(child, depth+1, fn)
	}
}

func (n Node) String() string {
	switch n.Kind {
	case String:
		return fmt.Sprintf("%q", n.Text)
	case ObjectPath:
		return "@" + n.Text
	case Other:
		return fmt.Sprintf("<%v>", n.Raw)
	case Invalid:
		return "<invalid>"
	}

	left, right := "[", "]"
	switch n.Kind {
	case Struct:
		left, right = "(", ")"
	case DictEntry:
		left, right = "{", "}"
	case Variant:
		left, right = "<", ">"
	}

	s := left
	for i, child := range n.Children {
		if i > 0 {
			s += ", "
		}
		s += child.String()
	}
	return s + right
}
