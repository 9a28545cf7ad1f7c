package bus

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/godbus/dbus/v5"

	"sessionprobe/pkg/reply"
)

// Decode converts the body of a method reply into a reply tree. Only the
// first body value is kept; an empty body yields an Invalid node.
func Decode(body []interface{}) reply.Node {
	if len(body) == 0 {
		return reply.Node{}
	}
	return FromValue(body[0])
}

// FromValue converts one value as produced by godbus into a reply node.
//
// godbus decodes D-Bus structs into []interface{} and every other array into
// a typed slice, so []interface{} is mapped to Struct and the remaining
// slices to Array. Maps become an Array of DictEntry nodes ordered by key.
func FromValue(v interface{}) reply.Node {
	switch x := v.(type) {
	case nil:
		return reply.Node{}
	case string:
		return reply.NewString(x)
	case dbus.ObjectPath:
		return reply.NewObjectPath(string(x))
	case dbus.Variant:
		return reply.NewVariant(FromValue(x.Value()))
	case []interface{}:
		fields := make([]reply.Node, 0, len(x))
		for _, f := range x {
			fields = append(fields, FromValue(f))
		}
		return reply.NewStruct(fields...)
	case []byte:
		return reply.NewOther(x)
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		items := make([]reply.Node, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			items = append(items, FromValue(rv.Index(i).Interface()))
		}
		return reply.NewArray(items...)

	case reflect.Map:
		keys := rv.MapKeys()
		sort.Slice(keys, func(i, j int) bool {
			return fmt.Sprint(keys[i].Interface()) < fmt.Sprint(keys[j].Interface())
		})
		entries := make([]reply.Node, 0, len(keys))
		for _, k := range keys {
			entries = append(entries, reply.NewEntry(
				FromValue(k.Interface()),
				FromValue(rv.MapIndex(k).Interface()),
			))
		}
		return reply.NewArray(entries...)
	}

	return reply.NewOther(v)
}
