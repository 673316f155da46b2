package shape

import (
	"sort"
	"strconv"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// failure is a single failed keyword, located both in the value and in the
// node that emitted the keyword.
type failure struct {
	keyword []string
	value   interface{}
	path    Path
	message string
}

func (f failure) is(keyword ...string) bool {
	if len(f.keyword) != len(keyword) {
		return false
	}
	for i, k := range keyword {
		if k != "" && f.keyword[i] != k {
			return false
		}
	}
	return true
}

var pointerUnescaper = strings.NewReplacer("~1", "/", "~0", "~")

func splitPointer(ptr string) []string {
	ptr = strings.TrimPrefix(ptr, "/")
	if ptr == "" {
		return nil
	}
	tokens := strings.Split(ptr, "/")
	for i, tok := range tokens {
		tokens[i] = pointerUnescaper.Replace(tok)
	}
	return tokens
}

// collect walks the error tree down to the failed keywords and lets the
// owning nodes explain them.
func (c *checker) collect(cs *compiled, verr *jsonschema.ValidationError, v interface{}, root Path) {
	if len(verr.Causes) > 0 {
		for _, cause := range verr.Causes {
			c.collect(cs, cause, v, root)
		}
		return
	}

	value, path := resolve(v, root, verr.InstanceLocation)
	f := failure{value: value, path: path, message: verr.Message}

	var loc []string
	if i := strings.IndexByte(verr.AbsoluteKeywordLocation, '#'); i >= 0 {
		loc = splitPointer(verr.AbsoluteKeywordLocation[i+1:])
	}
	if len(loc) < 2 || loc[0] != "$defs" {
		c.unexpected(f)
		return
	}
	n, ok := cs.nodes[loc[1]]
	if !ok {
		c.unexpected(f)
		return
	}
	f.keyword = loc[2:]
	n.explain(c, f)
}

// resolve follows a JSON pointer into v, returning the value it designates
// and the matching Path.
func resolve(v interface{}, root Path, ptr string) (interface{}, Path) {
	path := append(Path(nil), root...)
	for _, tok := range splitPointer(ptr) {
		switch cur := v.(type) {
		case []interface{}:
			i, err := strconv.Atoi(tok)
			if err != nil || i < 0 || i >= len(cur) {
				return nil, path.Key(tok)
			}
			v, path = cur[i], path.Index(i)
		case map[string]interface{}:
			v, path = cur[tok], path.Key(tok)
		default:
			v, path = nil, path.Key(tok)
		}
	}
	return v, path
}

// rank orders one path element: declared object keys by declaration, then
// undeclared keys by name; array elements by index.
type rank struct {
	pos  int
	name string
}

func (r rank) less(o rank) bool {
	if r.pos != o.pos {
		return r.pos < o.pos
	}
	return r.name < o.name
}

// ranks follows path through n and v, ranking each element.
func ranks(n node, v interface{}, path Path) []rank {
	out := make([]rank, len(path))
	for i, elem := range path {
		n = dispatch(n, v)
		var child node
		switch n := n.(type) {
		case *objectNode:
			key, _ := elem.(string)
			out[i] = rank{pos: len(n.keys), name: key}
			if j, ok := n.index[key]; ok {
				out[i] = rank{pos: j}
				child = n.keys[j].Schema.n
			}
		case *arrayNode:
			j, _ := elem.(int)
			out[i] = rank{pos: j}
			child = n.elem
		}
		switch cur := v.(type) {
		case map[string]interface{}:
			key, _ := elem.(string)
			v = cur[key]
		case []interface{}:
			if j, ok := elem.(int); ok && j >= 0 && j < len(cur) {
				v = cur[j]
			} else {
				v = nil
			}
		default:
			v = nil
		}
		n = child
	}
	return out
}

// dispatch unwraps nullable nodes and selects the union variant v uses.
func dispatch(n node, v interface{}) node {
	for {
		switch t := n.(type) {
		case *nullableNode:
			n = t.inner
		case *unionNode:
			obj, _ := v.(map[string]interface{})
			tag, _ := obj[t.discriminant].(string)
			variant, ok := t.variants[tag]
			if !ok {
				return n
			}
			n = variant
		default:
			return n
		}
	}
}

// sorted returns the collected issues in depth-first order over the value,
// trimmed to the issue budget. The first skip path elements are the root
// prefix given to CheckAt.
func (c *checker) sorted(n node, v interface{}, skip int) Issues {
	type keyed struct {
		issue Issue
		ranks []rank
	}
	items := make([]keyed, len(c.issues))
	for i, issue := range c.issues {
		var rel Path
		if len(issue.Path) >= skip {
			rel = issue.Path[skip:]
		}
		items[i] = keyed{issue: issue, ranks: ranks(n, v, rel)}
	}

	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		for k := 0; k < len(a.ranks) && k < len(b.ranks); k++ {
			if a.ranks[k] != b.ranks[k] {
				return a.ranks[k].less(b.ranks[k])
			}
		}
		if len(a.ranks) != len(b.ranks) {
			return len(a.ranks) < len(b.ranks)
		}
		if a.issue.Code != b.issue.Code {
			return a.issue.Code < b.issue.Code
		}
		return a.issue.Message < b.issue.Message
	})

	issues := make(Issues, len(items))
	for i, item := range items {
		issues[i] = item.issue
	}
	if limit := c.opts.maxIssues; limit > 0 && len(issues) > limit {
		issues = issues[:limit]
	}
	return issues
}
