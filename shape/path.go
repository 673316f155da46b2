package shape

import (
	"fmt"
	"strings"
)

// Path locates a value inside a document. Elements are object keys (string)
// or array indices (int).
type Path []interface{}

// Key returns a copy of p extended with an object key.
func (p Path) Key(k string) Path {
	return p.with(k)
}

// Index returns a copy of p extended with an array index.
func (p Path) Index(i int) Path {
	return p.with(i)
}

func (p Path) with(elem interface{}) Path {
	out := make(Path, len(p)+1)
	copy(out, p)
	out[len(p)] = elem
	return out
}

// String renders the path in dotted form, e.g. "__schema.types[3].kind".
// The empty path renders as "$".
func (p Path) String() string {
	if len(p) == 0 {
		return "$"
	}
	var sb strings.Builder
	for i, elem := range p {
		switch elem := elem.(type) {
		case int:
			fmt.Fprintf(&sb, "[%d]", elem)
		case string:
			if i > 0 {
				sb.WriteByte('.')
			}
			sb.WriteString(elem)
		default:
			fmt.Fprintf(&sb, "[%v]", elem)
		}
	}
	return sb.String()
}
