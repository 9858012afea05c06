package ir

import (
	"strconv"
	"strings"
)

// Key identifies a node by its structural path from the root, for example
// "/vstack/1.button". A segment is the child index (or "#id" for views that
// declare an identity) followed by the child's view kind. Keys are stable
// for a given view tree shape.
type Key string

// Root returns the key of a root node of the given view kind.
func Root(viewKind string) Key {
	return Key("/" + viewKind)
}

// Child returns the key of the child at index with the given view kind.
func (k Key) Child(index int, viewKind string) Key {
	return Key(string(k) + "/" + strconv.Itoa(index) + "." + viewKind)
}

// idEscaper percent-encodes the characters that delimit key segments so an
// identity can never split or alias a segment.
var idEscaper = strings.NewReplacer("%", "%25", "/", "%2F", ".", "%2E")

// Identified returns the key of a child that declares its own identity.
// Separator characters in id are percent-encoded.
func (k Key) Identified(id, viewKind string) Key {
	return Key(string(k) + "/#" + idEscaper.Replace(id) + "." + viewKind)
}

// Parent returns the key of the enclosing node, or "" for a root.
func (k Key) Parent() Key {
	i := strings.LastIndexByte(string(k), '/')
	if i <= 0 {
		return ""
	}
	return k[:i]
}

// Depth returns the number of path segments; a root has depth 1.
func (k Key) Depth() int {
	return strings.Count(string(k), "/")
}

func (k Key) String() string { return string(k) }
