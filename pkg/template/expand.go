// Package template expands {{ name }} placeholders inside configuration
// values.
//
// Expansion rebuilds the input structure and never mutates it. Mapping keys
// are left alone; only string scalars are rewritten. A scalar that is
// exactly one placeholder takes the variable's value as-is when that value
// is a map or a slice, so structured variables survive expansion.
package template

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// Vars is the variable context used for expansion.
type Vars map[string]any

// Names returns the variable names in sorted order.
func (v Vars) Names() []string {
	names := make([]string, 0, len(v))
	for name := range v {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ExpandTemplates returns a copy of raw with every placeholder replaced.
func ExpandTemplates(raw map[string]any, vars Vars) (map[string]any, error) {
	if raw == nil {
		return nil, nil
	}
	out, err := newExpander(vars).value(raw, nil)
	if err != nil {
		return nil, err
	}
	return out.(map[string]any), nil
}

// ExpandValue expands an arbitrary decoded YAML value: maps, slices,
// strings and anything else (returned unchanged).
func ExpandValue(v any, vars Vars) (any, error) {
	return newExpander(vars).value(v, nil)
}

// ExpandString substitutes every placeholder in s. Values are stringified.
func ExpandString(s string, vars Vars) (string, error) {
	e := newExpander(vars)
	out, err := e.render(NewLexer(s).Tokenize(), nil)
	if err != nil {
		return "", err
	}
	return out, nil
}

// Placeholders returns the identifiers referenced by s in order of
// appearance, without duplicates.
func Placeholders(s string) []string {
	var names []string
	seen := make(map[string]bool)
	for _, tok := range NewLexer(s).Tokenize() {
		if tok.Type == TokenPlaceholder && !seen[tok.Value] {
			seen[tok.Value] = true
			names = append(names, tok.Value)
		}
	}
	return names
}

type expander struct {
	vars Vars
}

func newExpander(vars Vars) *expander {
	return &expander{vars: vars}
}

func (e *expander) value(v any, path []any) (any, error) {
	switch val := v.(type) {
	case string:
		return e.scalar(val, path)
	case map[string]any:
		out := make(map[string]any, len(val))
		for _, k := range sortedKeys(val) {
			x, err := e.value(val[k], appendPath(path, k))
			if err != nil {
				return nil, err
			}
			out[k] = x
		}
		return out, nil
	case map[any]any:
		keys := make([]any, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool { return fmt.Sprint(keys[i]) < fmt.Sprint(keys[j]) })
		out := make(map[any]any, len(val))
		for _, k := range keys {
			x, err := e.value(val[k], appendPath(path, fmt.Sprint(k)))
			if err != nil {
				return nil, err
			}
			out[k] = x
		}
		return out, nil
	case map[string]string:
		generic := make(map[string]any, len(val))
		for k, s := range val {
			generic[k] = s
		}
		out, err := e.value(generic, path)
		if err != nil {
			return nil, err
		}
		return narrowMap(out.(map[string]any)), nil
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			x, err := e.value(item, appendPath(path, i))
			if err != nil {
				return nil, err
			}
			out[i] = x
		}
		return out, nil
	case []string:
		out := make([]any, len(val))
		for i, item := range val {
			x, err := e.scalar(item, appendPath(path, i))
			if err != nil {
				return nil, err
			}
			out[i] = x
		}
		return narrowSlice(out), nil
	default:
		return deepCopy(v), nil
	}
}

// scalar expands one string. It returns s itself when s has no placeholders.
func (e *expander) scalar(s string, path []any) (any, error) {
	tokens := NewLexer(s).Tokenize()
	if !hasPlaceholder(tokens) {
		return s, nil
	}

	// tokens is [placeholder, EOF] when the scalar is a single placeholder.
	if len(tokens) == 2 && tokens[0].Type == TokenPlaceholder {
		val, err := e.lookup(tokens[0], path)
		if err != nil {
			return nil, err
		}
		if isStructured(val) {
			return deepCopy(val), nil
		}
		return stringify(val), nil
	}

	return e.render(tokens, path)
}

func (e *expander) render(tokens []Token, path []any) (string, error) {
	var b strings.Builder
	for _, tok := range tokens {
		switch tok.Type {
		case TokenText:
			b.WriteString(tok.Value)
		case TokenPlaceholder:
			val, err := e.lookup(tok, path)
			if err != nil {
				return "", err
			}
			b.WriteString(stringify(val))
		}
	}
	return b.String(), nil
}

func (e *expander) lookup(tok Token, path []any) (any, error) {
	val, ok := e.vars[tok.Value]
	if !ok {
		return nil, &MissingVariableError{
			Name:      tok.Value,
			Path:      append([]any(nil), path...),
			Pos:       tok.Pos,
			Available: e.vars.Names(),
		}
	}
	return val, nil
}

func hasPlaceholder(tokens []Token) bool {
	for _, tok := range tokens {
		if tok.Type == TokenPlaceholder {
			return true
		}
	}
	return false
}

// stringify renders a substituted value. nil renders as the empty string.
func stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}

func isStructured(v any) bool {
	if v == nil {
		return false
	}
	switch reflect.TypeOf(v).Kind() {
	case reflect.Map, reflect.Slice, reflect.Array:
		_, isBytes := v.([]byte)
		return !isBytes
	default:
		return false
	}
}

func appendPath(path []any, elem any) []any {
	out := make([]any, len(path), len(path)+1)
	copy(out, path)
	return append(out, elem)
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// narrowSlice returns a []string when every element is a string.
func narrowSlice(items []any) any {
	out := make([]string, len(items))
	for i, item := range items {
		s, ok := item.(string)
		if !ok {
			return items
		}
		out[i] = s
	}
	return out
}

// narrowMap returns a map[string]string when every value is a string.
func narrowMap(m map[string]any) any {
	out := make(map[string]string, len(m))
	for k, v := range m {
		s, ok := v.(string)
		if !ok {
			return m
		}
		out[k] = s
	}
	return out
}

// deepCopy copies maps, slices and arrays recursively so the result shares
// no memory with v. Other values are returned as they are.
func deepCopy(v any) any {
	if v == nil {
		return nil
	}
	return copyValue(reflect.ValueOf(v)).Interface()
}

func copyValue(rv reflect.Value) reflect.Value {
	switch rv.Kind() {
	case reflect.Map:
		if rv.IsNil() {
			return rv
		}
		out := reflect.MakeMapWithSize(rv.Type(), rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out.SetMapIndex(iter.Key(), copyValue(iter.Value()))
		}
		return out
	case reflect.Slice:
		if rv.IsNil() {
			return rv
		}
		out := reflect.MakeSlice(rv.Type(), rv.Len(), rv.Len())
		for i := range rv.Len() {
			out.Index(i).Set(copyValue(rv.Index(i)))
		}
		return out
	case reflect.Array:
		out := reflect.New(rv.Type()).Elem()
		for i := range rv.Len() {
			out.Index(i).Set(copyValue(rv.Index(i)))
		}
		return out
	case reflect.Interface:
		if rv.IsNil() {
			return rv
		}
		out := reflect.New(rv.Type()).Elem()
		out.Set(copyValue(rv.Elem()))
		return out
	default:
		return rv
	}
}
