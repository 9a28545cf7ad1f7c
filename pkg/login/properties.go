package login

import (
	"sessionprobe/pkg/reply"
)

// Value is a dynamically typed property value. Only strings are modelled
// explicitly; everything else is carried as OtherValue and never matched.
type Value interface {
	isValue()
}

// StringValue is a string-typed property.
type StringValue string

// OtherValue is any property whose type is not a string.
type OtherValue struct {
	Node reply.Node
}

func (StringValue) isValue() {}
func (OtherValue) isValue()  {}

// PropertySet maps property names to values for one session.
type PropertySet map[string]Value

// DecodeProperties reads the reply of Properties.GetAll. It returns false
// when the reply is not array-shaped. Entries that are not well-formed
// string-keyed dict entries are skipped.
func DecodeProperties(n reply.Node) (PropertySet, bool) {
	if !n.Is(reply.Array) {
		return nil, false
	}

	props := make(PropertySet, n.Len())
	for _, child := range n.Children {
		key, value, ok := child.Entry()
		if !ok || !key.Is(reply.String) {
			continue
		}
		value = value.Unwrap()
		if value.Is(reply.String) {
			props[key.Text] = StringValue(value.Text)
		} else {
			props[key.Text] = OtherValue{Node: value}
		}
	}
	return props, true
}

// Lookup returns the value of a string-typed property.
func (p PropertySet) Lookup(key string) (string, bool) {
	s, ok := p[key].(StringValue)
	return string(s), ok
}

// OwnedBy reports whether the Name property equals user exactly.
func (p PropertySet) OwnedBy(user string) bool {
	name, ok := p.Lookup("Name")
	return ok && name == user
}

// IsGraphical reports whether the Type property names a windowed session.
func (p PropertySet) IsGraphical() bool {
	kind, ok := p.Lookup("Type")
	if !ok {
		return false
	}
	return kind == TypeX11 || kind == TypeWayland
}
