// Package env renders caarlos0/env tagged config structs back into .env lines.
package env

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"
)

var durationType = reflect.TypeOf(time.Duration(0))

// Option tweaks MarshalEnv output.
type Option func(*options)

type options struct {
	redact   map[string]bool
	defaults bool
}

// WithRedacted masks the values of the given keys.
func WithRedacted(keys ...string) Option {
	return func(o *options) {
		for _, k := range keys {
			o.redact[k] = true
		}
	}
}

// WithZeroValues keeps keys whose value is the zero value.
func WithZeroValues() Option {
	return func(o *options) { o.defaults = true }
}

// MarshalEnv reflects over the struct pointed to by c and emits KEY=value
// lines from its env tags, descending into nested structs.
func MarshalEnv(c any, opts ...Option) (string, error) {
	o := &options{redact: make(map[string]bool)}
	for _, opt := range opts {
		opt(o)
	}

	v := reflect.ValueOf(c)
	if v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Struct {
		return "", fmt.Errorf("expected pointer to struct, got %T", c)
	}

	var lines []string
	collect(v.Elem(), o, &lines)

	result := strings.Join(lines, "\n")
	if result != "" {
		result += "\n"
	}
	return result, nil
}

func collect(v reflect.Value, o *options, lines *[]string) {
	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		val := v.Field(i)

		tag := field.Tag.Get("env")
		if tag == "" {
			if val.Kind() == reflect.Struct && val.Type() != durationType {
				collect(val, o, lines)
			}
			continue
		}

		// "KEY,required,notEmpty" or "KEY"
		key := strings.Split(tag, ",")[0]
		if key == "" {
			continue
		}

		if val.IsZero() && !o.defaults {
			continue
		}

		str := formatValue(val)
		if o.redact[key] && str != "" {
			str = "********"
		}
		*lines = append(*lines, fmt.Sprintf("%s=%s", key, str))
	}
}

func formatValue(v reflect.Value) string {
	if v.Type() == durationType {
		return time.Duration(v.Int()).String()
	}

	switch v.Kind() {
	case reflect.String:
		return v.String()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(v.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(v.Uint(), 10)
	case reflect.Float32:
		return strconv.FormatFloat(v.Float(), 'f', -1, 32)
	case reflect.Float64:
		return strconv.FormatFloat(v.Float(), 'f', -1, 64)
	case reflect.Bool:
		return strconv.FormatBool(v.Bool())
	default:
		return fmt.Sprintf("%v", v.Interface())
	}
}
