package client

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Param is a single query parameter. A nil Value, or a nil pointer, is
// left out of the query string.
type Param struct {
	Key   string
	Value any
}

// Params is an ordered query parameter list; the encoded query keeps this
// order.
type Params []Param

// Add appends a parameter and returns the extended list.
func (p Params) Add(key string, value any) Params {
	return append(p, Param{Key: key, Value: value})
}

// Encode renders the parameters as key=value pairs joined by "&". Keys are
// written verbatim. Booleans render as true/false; every other value is
// formatted and escaped like JavaScript's encodeURIComponent.
func (p Params) Encode() string {
	var b strings.Builder
	for _, param := range p {
		value, ok := render(param.Value)
		if !ok {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('&')
		}
		b.WriteString(param.Key)
		b.WriteByte('=')
		b.WriteString(value)
	}
	return b.String()
}

func render(value any) (string, bool) {
	if value == nil {
		return "", false
	}

	rv := reflect.ValueOf(value)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return "", false
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Bool:
		return strconv.FormatBool(rv.Bool()), true
	case reflect.String:
		return encodeURIComponent(rv.String()), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10), true
	case reflect.Float32, reflect.Float64:
		return encodeURIComponent(strconv.FormatFloat(rv.Float(), 'f', -1, 64)), true
	default:
		return encodeURIComponent(fmt.Sprint(rv.Interface())), true
	}
}

// encodeURIComponent escapes everything except A-Z a-z 0-9 - _ . ! ~ * ' ( ).
// url.QueryEscape differs on space, !, ', (, ) and *.
func encodeURIComponent(s string) string {
	const hex = "0123456789ABCDEF"

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUnreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0x0f])
	}
	return b.String()
}

func isUnreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	return strings.IndexByte("-_.!~*'()", c) >= 0
}
