package models

import (
	"reflect"
	"strings"
)

// SetStringField assigns value to the string field whose JSON name is field.
// target must be a pointer to a struct. The id field is never writable.
func SetStringField(target interface{}, field, value string) error {
	fv, err := stringField(target, field)
	if err != nil {
		return err
	}
	fv.SetString(value)
	return nil
}

// GetStringField reads the string field whose JSON name is field
func GetStringField(target interface{}, field string) (string, error) {
	fv, err := stringField(target, field)
	if err != nil {
		return "", err
	}
	return fv.String(), nil
}

func stringField(target interface{}, field string) (reflect.Value, error) {
	if field == "" || field == "id" {
		return reflect.Value{}, ErrUnknownField
	}
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Ptr || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return reflect.Value{}, ErrUnknownField
	}
	rv = rv.Elem()
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		name := strings.Split(sf.Tag.Get("json"), ",")[0]
		if name != field {
			continue
		}
		if sf.Type.Kind() != reflect.String {
			return reflect.Value{}, ErrUnknownField
		}
		return rv.Field(i), nil
	}
	return reflect.Value{}, ErrUnknownField
}

// ItemID returns the id of a list element, or "" when it has none
func ItemID(target interface{}) string {
	rv := reflect.ValueOf(target)
	if rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return ""
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return ""
	}
	f := rv.FieldByName("ID")
	if !f.IsValid() || f.Kind() != reflect.String {
		return ""
	}
	return f.String()
}
