package binder

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

var (
	errNotPointer = errors.New("target must be a non-nil pointer")
	errNotStruct  = errors.New("target must be a pointer to struct")
)

// bindToStruct copies values into the exported fields of the struct v
// points to. Fields are matched by tagName; failures wrap bindErr.
func bindToStruct(v any, tagName string, values map[string][]string, bindErr error) error {
	target, err := structOf(v)
	if err != nil {
		return fmt.Errorf("%w: %v", bindErr, err)
	}

	rt := target.Type()
	for i := range rt.NumField() {
		sf := rt.Field(i)
		if !sf.IsExported() {
			continue
		}
		name, skip := parseFieldTag(sf, tagName)
		if skip {
			continue
		}
		raw := values[name]
		if len(raw) == 0 {
			continue
		}
		if err := assign(target.Field(i), raw); err != nil {
			return fmt.Errorf("%w: field %s: %v", bindErr, sf.Name, err)
		}
	}
	return nil
}

func structOf(v any) (reflect.Value, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return reflect.Value{}, errNotPointer
	}
	if rv.Elem().Kind() != reflect.Struct {
		return reflect.Value{}, errNotStruct
	}
	return rv.Elem(), nil
}

// parseFieldTag returns the parameter name for field. An untagged field
// binds by its lowercased name; "-" skips it.
func parseFieldTag(field reflect.StructField, tagName string) (name string, skip bool) {
	tag, ok := field.Tag.Lookup(tagName)
	switch {
	case !ok || tag == "":
		return strings.ToLower(field.Name), false
	case tag == "-":
		return "", true
	}
	name, _, _ = strings.Cut(tag, ",")
	return name, false
}

// assign stores raw into dst. Pointers are allocated on demand; slices
// take every value, with comma-separated values split.
func assign(dst reflect.Value, raw []string) error {
	switch dst.Kind() {
	case reflect.Pointer:
		if dst.IsNil() {
			dst.Set(reflect.New(dst.Type().Elem()))
		}
		return assign(dst.Elem(), raw)
	case reflect.Slice:
		var parts []string
		for _, v := range raw {
			for _, p := range strings.Split(v, ",") {
				parts = append(parts, strings.TrimSpace(p))
			}
		}
		out := reflect.MakeSlice(dst.Type(), len(parts), len(parts))
		for i, p := range parts {
			if err := assignScalar(out.Index(i), p); err != nil {
				return err
			}
		}
		dst.Set(out)
		return nil
	default:
		return assignScalar(dst, raw[0])
	}
}

func assignScalar(dst reflect.Value, s string) error {
	if dst.Kind() == reflect.Pointer {
		return assign(dst, []string{s})
	}

	bits := 0
	switch dst.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		bits = dst.Type().Bits()
	}

	switch dst.Kind() {
	case reflect.String:
		dst.SetString(s)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(s, 10, bits)
		if err != nil {
			return fmt.Errorf("invalid integer %q", s)
		}
		dst.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(s, 10, bits)
		if err != nil {
			return fmt.Errorf("invalid unsigned integer %q", s)
		}
		dst.SetUint(n)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(s, bits)
		if err != nil {
			return fmt.Errorf("invalid number %q", s)
		}
		dst.SetFloat(f)
	case reflect.Bool:
		b, err := parseBool(s)
		if err != nil {
			return err
		}
		dst.SetBool(b)
	default:
		return fmt.Errorf("unsupported kind %s", dst.Kind())
	}
	return nil
}

// parseBool extends strconv.ParseBool with the on/off and yes/no forms
// that browsers and query strings use.
func parseBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "on", "yes":
		return true, nil
	case "off", "no":
		return false, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("invalid bool %q", s)
	}
	return b, nil
}
