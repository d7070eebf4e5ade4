package router

import (
	"net/url"
	"reflect"
	"strconv"
	"strings"

	"github.com/vango-dev/vroute/internal/errors"
	"github.com/vango-dev/vroute/pkg/pathmatch"
)

// BindParams copies the params of m into the fields of target tagged with
// `param:"name"`. target must be a pointer to a struct. Values are
// percent-decoded. Fields whose param did not participate in the match keep
// their value. A nil m binds nothing.
//
//	var p struct {
//	    ID   int      `param:"id"`
//	    Path []string `param:"path"`
//	}
//	err := router.BindParams(match, &p)
//
// Supported field kinds are string, the integer and float kinds, bool, and
// []string, which receives the value split on "/".
func BindParams(m *pathmatch.Match, target any) error {
	v := reflect.ValueOf(target)
	if v.Kind() != reflect.Pointer || v.IsNil() || v.Elem().Kind() != reflect.Struct {
		return errors.New("R013").WithDetail("BindParams needs a non-nil pointer to a struct.")
	}
	if m == nil {
		return nil
	}

	v = v.Elem()
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		name := field.Tag.Get("param")
		if name == "" {
			continue
		}

		raw, ok := m.Params[name]
		if !ok {
			continue
		}

		fv := v.Field(i)
		if !fv.CanSet() {
			continue
		}

		value, err := url.PathUnescape(raw)
		if err != nil {
			value = raw
		}
		if err := setField(fv, value); err != nil {
			return errors.New("R013").
				WithRoute(m.Path).
				WithDetail("Param \"" + name + "\": " + err.Error()).
				Wrap(err)
		}
	}

	return nil
}

// setField sets a field value from a string.
func setField(field reflect.Value, value string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(value, 10, field.Type().Bits())
		if err != nil {
			return errors.Newf(errors.CategoryPattern, "invalid integer: %s", value)
		}
		field.SetInt(n)

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(value, 10, field.Type().Bits())
		if err != nil {
			return errors.Newf(errors.CategoryPattern, "invalid unsigned integer: %s", value)
		}
		field.SetUint(n)

	case reflect.Float32, reflect.Float64:
		n, err := strconv.ParseFloat(value, field.Type().Bits())
		if err != nil {
			return errors.Newf(errors.CategoryPattern, "invalid float: %s", value)
		}
		field.SetFloat(n)

	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return errors.Newf(errors.CategoryPattern, "invalid boolean: %s", value)
		}
		field.SetBool(b)

	case reflect.Slice:
		if field.Type().Elem().Kind() != reflect.String {
			return errors.Newf(errors.CategoryPattern, "unsupported slice element type: %s", field.Type().Elem().Kind())
		}
		// "a/b/c" from a repeated param becomes ["a", "b", "c"]
		var parts []string
		if value != "" {
			parts = strings.Split(value, "/")
		}
		field.Set(reflect.ValueOf(parts))

	default:
		return errors.Newf(errors.CategoryPattern, "unsupported type: %s", field.Kind())
	}

	return nil
}
