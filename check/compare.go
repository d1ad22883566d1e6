package check

import (
	"fmt"
	"reflect"
	"strings"
)

// guard runs a comparison and converts any panic (for example comparing
// uncomparable dynamic types with ==) into an *InfraError.
func guard(op string, cmp func() bool) (eq bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &InfraError{Op: op, Reason: fmt.Sprint(r)}
		}
	}()
	return cmp(), nil
}

// identityEqual is the identity/primitive branch: primitives compare by
// value, reference kinds (maps, slices, funcs) by identity of the
// underlying object, never by structure.
func identityEqual(l, r any) bool {
	lv, rv := reflect.ValueOf(l), reflect.ValueOf(r)
	if lv.IsValid() && rv.IsValid() && (isRefKind(lv.Kind()) || isRefKind(rv.Kind())) {
		if lv.Kind() != rv.Kind() || lv.Type() != rv.Type() {
			return false
		}
		if lv.Kind() == reflect.Slice {
			if lv.Len() != rv.Len() {
				return false
			}
			// Zero-size allocations can share an address, so a data
			// pointer is no identity for empty slices; only nil is.
			if lv.Len() == 0 {
				return lv.IsNil() && rv.IsNil()
			}
		}
		return lv.Pointer() == rv.Pointer()
	}
	return l == r
}

func isRefKind(k reflect.Kind) bool {
	switch k {
	case reflect.Map, reflect.Slice, reflect.Func:
		return true
	default:
		return false
	}
}

// structuralEqual is the structural branch: nested maps and sequences are
// compared element-wise at arbitrary depth, numbers compare across numeric
// types, everything else falls back to reflect.DeepEqual.
func structuralEqual(l, r any) bool {
	if l == nil || r == nil {
		return l == nil && r == nil
	}

	if lf, ok := number(l); ok {
		rf, ok := number(r)
		if !ok {
			return false
		}
		return lf == rf
	}

	switch lv := l.(type) {
	case map[string]any:
		rv, ok := r.(map[string]any)
		if !ok || len(lv) != len(rv) {
			return false
		}
		for k, v := range lv {
			other, ok := rv[k]
			if !ok || !structuralEqual(v, other) {
				return false
			}
		}
		return true
	case []any:
		rv, ok := r.([]any)
		if !ok || len(lv) != len(rv) {
			return false
		}
		for i := range lv {
			if !structuralEqual(lv[i], rv[i]) {
				return false
			}
		}
		return true
	default:
		return reflect.DeepEqual(l, r)
	}
}

// isComposite reports whether v is object-like rather than a primitive.
func isComposite(v any) bool {
	if v == nil {
		return false
	}
	switch reflect.ValueOf(v).Kind() {
	case reflect.Map, reflect.Slice, reflect.Array, reflect.Struct, reflect.Pointer:
		return true
	default:
		return false
	}
}

// contains resolves membership for Includes. Only strings and sequences
// expose a membership capability.
func contains(container, item any) (bool, error) {
	switch c := container.(type) {
	case string:
		return strings.Contains(c, fmt.Sprint(item)), nil
	case nil:
		return false, &InfraError{Op: "includes", Reason: "container is nil"}
	}

	rv := reflect.ValueOf(container)
	if k := rv.Kind(); k != reflect.Slice && k != reflect.Array {
		return false, &InfraError{Op: "includes", Reason: fmt.Sprintf("container %T has no membership check", container)}
	}

	for i := 0; i < rv.Len(); i++ {
		elem := rv.Index(i).Interface()
		var eq bool
		var err error
		if isComposite(elem) && isComposite(item) {
			eq, err = guard("includes", func() bool { return structuralEqual(elem, item) })
		} else {
			eq, err = guard("includes", func() bool { return identityEqual(elem, item) })
		}
		if err != nil {
			return false, err
		}
		if eq {
			return true, nil
		}
	}
	return false, nil
}

func storableVar(v any) bool {
	switch v.(type) {
	case string, bool:
		return true
	}
	_, ok := number(v)
	return ok
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}
