package envconf

import (
	"encoding"
	"fmt"
	"reflect"
	"strconv"
	"time"
)

var durationType = reflect.TypeOf(time.Duration(0))

// setValue parses raw into fv. TextUnmarshaler wins over the kind switch, so
// types like slog.Level parse from their names.
//
//nolint:cyclop
func setValue(fv reflect.Value, raw string) error {
	if !fv.CanSet() {
		return fmt.Errorf("field not settable: %w", ErrUnsupportedType)
	}

	if fv.CanAddr() {
		u, ok := fv.Addr().Interface().(encoding.TextUnmarshaler)
		if ok {
			err := u.UnmarshalText([]byte(raw))
			if err != nil {
				return fmt.Errorf("unmarshal text: %w", err)
			}

			return nil
		}
	}

	if fv.Kind() == reflect.Pointer {
		elem := reflect.New(fv.Type().Elem())

		err := setValue(elem.Elem(), raw)
		if err != nil {
			return err
		}

		fv.Set(elem)

		return nil
	}

	if fv.Type() == durationType {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return fmt.Errorf("parse duration: %w", err)
		}

		fv.SetInt(int64(d))

		return nil
	}

	var err error

	switch fv.Kind() {
	case reflect.String:
		fv.SetString(raw)
	case reflect.Bool:
		var b bool

		b, err = strconv.ParseBool(raw)
		fv.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		var n int64

		n, err = strconv.ParseInt(raw, 10, fv.Type().Bits())
		fv.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		var n uint64

		n, err = strconv.ParseUint(raw, 10, fv.Type().Bits())
		fv.SetUint(n)
	case reflect.Float32, reflect.Float64:
		var f float64

		f, err = strconv.ParseFloat(raw, fv.Type().Bits())
		fv.SetFloat(f)
	default:
		return fmt.Errorf("%s: %w", fv.Type(), ErrUnsupportedType)
	}

	if err != nil {
		return fmt.Errorf("parse %s: %w", fv.Kind(), err)
	}

	return nil
}
