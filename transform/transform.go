package transform

import (
	"reflect"
	"strings"
)

// StructTrimSpace runs [strings.TrimSpace] on all string fields in the struct
// recursively, including string slices, nested structs and pointers to them.
func StructTrimSpace(v any) {
	walk(reflect.ValueOf(v), strings.TrimSpace)
}

// StructStringFunc applies f to every string field in the struct recursively.
func StructStringFunc(v any, f func(string) string) {
	walk(reflect.ValueOf(v), f)
}

// Strings applies f to every element and drops the ones f maps to "".
func Strings(in []string, f func(string) string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = f(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func walk(v reflect.Value, f func(string) string) { //nolint:revive // reflection walker is inherently complex
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return
	}
	for i := range v.NumField() {
		field := v.Field(i)
		if !field.CanSet() {
			continue
		}
		switch field.Kind() {
		case reflect.String:
			field.SetString(f(field.String()))
		case reflect.Struct:
			walk(field.Addr(), f)
		case reflect.Pointer:
			if field.IsNil() {
				continue
			}
			if field.Elem().Kind() == reflect.String {
				field.Elem().SetString(f(field.Elem().String()))
				continue
			}
			walk(field, f)
		case reflect.Slice:
			for j := range field.Len() {
				elem := field.Index(j)
				switch elem.Kind() {
				case reflect.String:
					elem.SetString(f(elem.String()))
				case reflect.Struct:
					walk(elem.Addr(), f)
				case reflect.Pointer:
					if !elem.IsNil() && elem.Elem().Kind() == reflect.String {
						elem.Elem().SetString(f(elem.Elem().String()))
						continue
					}
					walk(elem, f)
				}
			}
		}
	}
}
