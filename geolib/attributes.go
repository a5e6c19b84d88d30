package geolib

import "strings"

// AttributeMap is a result of IP lookup: a mapping of attribute names
// to values. Values are scalars (string, number, bool) or nested maps.
// There is no fixed schema, different providers fill different keys.
type AttributeMap map[string]interface{}

// Value returns a value for the given key path. A path is either an
// exact key or a dot-separated walk through nested maps like
// "location.lat". Exact key wins. Second return value is false if
// there is no such value.
func (a AttributeMap) Value(path string) (interface{}, bool) {
	if a == nil {
		return nil, false
	}

	if value, ok := a[path]; ok {
		return value, true
	}

	var current interface{} = a

	for _, chunk := range strings.Split(path, ".") {
		switch node := current.(type) {
		case AttributeMap:
			value, ok := node[chunk]
			if !ok {
				return nil, false
			}

			current = value
		case map[string]interface{}:
			value, ok := node[chunk]
			if !ok {
				return nil, false
			}

			current = value
		default:
			return nil, false
		}
	}

	return current, true
}

// String returns a string representation of the value at the path. It
// returns an empty string for absent values and values which are not
// strings.
func (a AttributeMap) String(path string) string {
	value, _ := a.Value(path)
	str, _ := value.(string)

	return str
}
