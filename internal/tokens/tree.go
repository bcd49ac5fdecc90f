package tokens

import (
	"encoding/json"
	"sort"
	"strconv"
)

// Tree is the schema form of a token set: nested string-keyed maps whose
// leaves are strings or numbers.
type Tree map[string]any

// Keys returns the tree's keys in sorted order.
func (t Tree) Keys() []string {
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Clone deep-copies the map structure. Leaves are immutable values.
func (t Tree) Clone() Tree {
	if t == nil {
		return nil
	}
	out := make(Tree, len(t))
	for k, v := range t {
		out[k] = cloneValue(v)
	}
	return out
}

// Lookup follows path through nested maps.
func (t Tree) Lookup(path ...string) (any, bool) {
	var node any = t
	for _, segment := range path {
		m, ok := AsTree(node)
		if !ok {
			return nil, false
		}
		node, ok = m[segment]
		if !ok {
			return nil, false
		}
	}
	return node, true
}

// AsTree reports whether v is a nested branch and returns it as a Tree.
func AsTree(v any) (Tree, bool) {
	switch m := v.(type) {
	case Tree:
		return m, true
	case map[string]any:
		return Tree(m), true
	case map[string]string:
		out := make(Tree, len(m))
		for k, s := range m {
			out[k] = s
		}
		return out, true
	default:
		return nil, false
	}
}

// LeafValue renders a terminal value. Only strings and numbers are terminal.
func LeafValue(v any) (string, bool) {
	switch n := v.(type) {
	case string:
		return n, true
	case json.Number:
		return n.String(), true
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(n), 'f', -1, 32), true
	case int:
		return strconv.Itoa(n), true
	case int32:
		return strconv.FormatInt(int64(n), 10), true
	case int64:
		return strconv.FormatInt(n, 10), true
	case uint:
		return strconv.FormatUint(uint64(n), 10), true
	case uint32:
		return strconv.FormatUint(uint64(n), 10), true
	case uint64:
		return strconv.FormatUint(n, 10), true
	default:
		return "", false
	}
}

// Sanitize returns a copy of tree in which every leaf is a string or number.
// Any other leaf (arrays, bools, nulls, structs) yields an InvalidTokenShape
// diagnostic; the default for that path is substituted when the default
// token tree has one, otherwise the branch is dropped.
func Sanitize(tree Tree) (Tree, Diagnostics) {
	var diags Diagnostics
	out := sanitizeBranch(nil, tree, &diags)
	return out, diags
}

func sanitizeBranch(path []string, tree Tree, diags *Diagnostics) Tree {
	out := make(Tree, len(tree))
	for _, key := range tree.Keys() {
		childPath := appendPath(path, key)
		if v, ok := sanitizeValue(childPath, tree[key], diags); ok {
			out[key] = v
		}
	}
	return out
}

func sanitizeValue(path []string, v any, diags *Diagnostics) (any, bool) {
	if branch, ok := AsTree(v); ok {
		return sanitizeBranch(path, branch, diags), true
	}
	if _, ok := LeafValue(v); ok {
		return v, true
	}

	def, found := defaultAt(path)
	if found {
		diags.add(KindInvalidTokenShape, path, "unsupported %s value, default substituted", shapeName(v))
		return def, true
	}
	diags.add(KindInvalidTokenShape, path, "unsupported %s value, branch skipped", shapeName(v))
	return nil, false
}

func shapeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case []any, []string, []float64:
		return "array"
	default:
		return "non-terminal"
	}
}

func cloneValue(v any) any {
	if branch, ok := AsTree(v); ok {
		return branch.Clone()
	}
	return v
}

func appendPath(path []string, key string) []string {
	out := make([]string, len(path)+1)
	copy(out, path)
	out[len(path)] = key
	return out
}
