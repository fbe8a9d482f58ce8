package cblock

import (
	"fmt"
	"strings"
)

// DefaultNamespace is the namespace assumed for block and item keys without one.
const DefaultNamespace = "minecraft"

// BehaviorNamespace is the namespace assumed for behavior type keys without one.
const BehaviorNamespace = "cblock"

// Key is a namespaced identifier such as "minecraft:bedrock".
// The zero Key is invalid and reports IsZero.
type Key struct {
	Namespace string
	Path      string
}

// ParseKey parses "namespace:path", falling back to DefaultNamespace.
func ParseKey(s string) (Key, error) {
	return ParseKeyDefault(s, DefaultNamespace)
}

// ParseKeyDefault parses "namespace:path" using ns when no namespace is present.
func ParseKeyDefault(s, ns string) (Key, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Key{}, fmt.Errorf("cblock: empty key")
	}
	namespace, path, found := strings.Cut(s, ":")
	if !found {
		namespace, path = ns, s
	}
	if namespace == "" || path == "" || strings.Contains(path, ":") {
		return Key{}, fmt.Errorf("cblock: malformed key %q", s)
	}
	return Key{Namespace: strings.ToLower(namespace), Path: strings.ToLower(path)}, nil
}

// MustKey is ParseKey that panics on malformed input. Intended for constants.
func MustKey(s string) Key {
	k, err := ParseKey(s)
	if err != nil {
		panic(err)
	}
	return k
}

// IsZero reports whether k is the zero key.
func (k Key) IsZero() bool {
	return k.Namespace == "" && k.Path == ""
}

// String returns "namespace:path".
func (k Key) String() string {
	if k.IsZero() {
		return ""
	}
	return k.Namespace + ":" + k.Path
}
