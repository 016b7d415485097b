package pipeline

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Params maps parameter names to their values in match order. A name bound
// by one frame has a single value; a name repeated across frames keeps
// every value.
type Params map[string][]string

// BuildParams zips parallel name/value sequences. A missing value is
// recorded as the empty string.
func BuildParams(names, values []string) Params {
	params := make(Params, len(names))
	for i, name := range names {
		var value string
		if i < len(values) {
			value = values[i]
		}
		params[name] = append(params[name], value)
	}
	return params
}

// Get returns the first value bound to name.
func (p Params) Get(name string) string {
	if values := p[name]; len(values) > 0 {
		return values[0]
	}
	return ""
}

// Values returns every value bound to name.
func (p Params) Values(name string) []string {
	return p[name]
}

// Has reports whether name is bound.
func (p Params) Has(name string) bool {
	_, ok := p[name]
	return ok
}

// Decode populates a struct from the params. The target must be a pointer
// to a struct; fields opt in with a `param:"name"` tag.
//
// Example:
//
//	var p struct {
//	    ID   int      `param:"id"`
//	    Path []string `param:"splat"`
//	}
//	err := state.Params.Decode(&p)
func (p Params) Decode(target any) error {
	if target == nil {
		return nil
	}

	v := reflect.ValueOf(target)
	if v.Kind() != reflect.Ptr {
		return fmt.Errorf("target must be a pointer, got %s", v.Kind())
	}

	v = v.Elem()
	if v.Kind() != reflect.Struct {
		return fmt.Errorf("target must be a pointer to struct, got pointer to %s", v.Kind())
	}

	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		name := field.Tag.Get("param")
		if name == "" {
			continue
		}

		values, ok := p[name]
		if !ok || len(values) == 0 {
			continue
		}

		fieldValue := v.Field(i)
		if !fieldValue.CanSet() {
			continue
		}

		if err := setField(fieldValue, values); err != nil {
			return fmt.Errorf("parsing param %q: %w", name, err)
		}
	}

	return nil
}

// setField sets a field from the values bound to one name. Scalar fields
// take the first value.
func setField(field reflect.Value, values []string) error {
	value := values[0]

	switch field.Kind() {
	case reflect.String:
		field.SetString(value)

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(value, 10, field.Type().Bits())
		if err != nil {
			return fmt.Errorf("invalid integer: %s", value)
		}
		field.SetInt(n)

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(value, 10, field.Type().Bits())
		if err != nil {
			return fmt.Errorf("invalid unsigned integer: %s", value)
		}
		field.SetUint(n)

	case reflect.Float32, reflect.Float64:
		n, err := strconv.ParseFloat(value, field.Type().Bits())
		if err != nil {
			return fmt.Errorf("invalid float: %s", value)
		}
		field.SetFloat(n)

	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean: %s", value)
		}
		field.SetBool(b)

	case reflect.Slice:
		if field.Type().Elem().Kind() != reflect.String {
			return fmt.Errorf("unsupported slice element type: %s", field.Type().Elem().Kind())
		}
		// Repeated names fill the slice; a single splat value splits on "/".
		parts := values
		if len(values) == 1 {
			parts = nil
			if value != "" {
				parts = strings.Split(value, "/")
			}
		}
		field.Set(reflect.ValueOf(append([]string(nil), parts...)))

	default:
		return fmt.Errorf("unsupported type: %s", field.Kind())
	}

	return nil
}
