// Package envconf loads configuration structs from environment variables.
//
//	type Config struct {
//		Port    uint16        `env:"APP_PORT" default:"8080"`
//		Backend string        `env:"STORE_BACKEND" default:"postgres" enum:"postgres,redis"`
//		DSN     string        `env:"PG_DSN"`
//		Timeout time.Duration `env:"APP_TIMEOUT" default:"10s"`
//		Store   StoreConfig   // untagged structs are walked recursively
//	}
package envconf

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"slices"
	"strings"
)

var (
	ErrMissingRequired = errors.New("missing required environment variable")
	ErrUnsupportedType = errors.New("unsupported field type")
	ErrNotAllowed      = errors.New("value not allowed")
)

// Load fills the exported fields of the struct pointed to by dst from the
// environment. A field tagged `env:"NAME"` is required unless it also carries a
// `default:"..."` tag. An `enum:"a,b"` tag restricts the accepted values.
//
// Every problem is reported, not only the first, joined with errors.Join.
func Load(dst any) error {
	if dst == nil {
		return errors.New("destination is nil")
	}

	v := reflect.ValueOf(dst)
	if v.Kind() != reflect.Pointer || v.IsNil() {
		return errors.New("destination must be a non-nil pointer to a struct")
	}

	if v.Elem().Kind() != reflect.Struct {
		return errors.New("destination must point to a struct")
	}

	var l loader

	l.walk(v.Elem(), "")

	return errors.Join(l.errs...)
}

type loader struct {
	errs []error
}

func (l *loader) walk(v reflect.Value, path string) {
	t := v.Type()

	for i := range t.NumField() {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}

		fv := v.Field(i)
		name := sf.Name

		if path != "" {
			name = path + "." + sf.Name
		}

		tag := sf.Tag.Get("env")
		if tag == "" || tag == "-" {
			l.nested(fv, name)
			continue
		}

		l.field(fv, sf.Tag, tag, name)
	}
}

// nested descends into untagged struct and pointer-to-struct fields.
// time.Duration and other scalars without a tag are left alone.
func (l *loader) nested(fv reflect.Value, name string) {
	switch {
	case fv.Kind() == reflect.Struct && fv.Type() != durationType:
		l.walk(fv, name)
	case fv.Kind() == reflect.Pointer && fv.Type().Elem().Kind() == reflect.Struct:
		if fv.IsNil() {
			fv.Set(reflect.New(fv.Type().Elem()))
		}

		l.walk(fv.Elem(), name)
	}
}

func (l *loader) field(fv reflect.Value, tags reflect.StructTag, key, name string) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		def, hasDefault := tags.Lookup("default")
		if !hasDefault {
			l.errs = append(l.errs, fmt.Errorf("%w: %s (field %s)", ErrMissingRequired, key, name))
			return
		}

		// An empty default leaves the zero value in place for any type.
		if def == "" {
			return
		}

		raw = def
	}

	enum, restricted := tags.Lookup("enum")
	if restricted {
		allowed := strings.Split(enum, ",")
		if !slices.Contains(allowed, raw) {
			l.errs = append(l.errs, fmt.Errorf("%w: %s=%q (field %s), want one of %s",
				ErrNotAllowed, key, raw, name, strings.Join(allowed, ", ")))

			return
		}
	}

	err := setValue(fv, raw)
	if err != nil {
		l.errs = append(l.errs, fmt.Errorf("parse %s for field %s: %w", key, name, err))
	}
}
