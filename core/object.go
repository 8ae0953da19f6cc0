package core

import (
	"fmt"
	"sort"
	"strings"
)

// Object is any value the PDF object model can hold. Concrete types are
// Null, Bool, Int, Real, String, Name, Array, Dict, *Stream, and Ref;
// consumers discriminate with type switches.
type Object interface {
	// String renders the object in a PDF-like notation for logs and errors.
	String() string
}

// Null is the PDF null object. Missing dictionary entries resolve to Null.
type Null struct{}

func (Null) String() string { return "null" }

// Bool is a PDF boolean.
type Bool bool

func (b Bool) String() string {
	if b {
		return "true"
	}
	return "false"
}

// Int is a PDF integer.
type Int int64

func (i Int) String() string { return fmt.Sprintf("%d", int64(i)) }

// Real is a PDF real number.
type Real float64

func (r Real) String() string { return fmt.Sprintf("%g", float64(r)) }

// String is a PDF string: a byte sequence, not necessarily text.
type String string

func (s String) String() string { return "(" + string(s) + ")" }

// Name is a PDF name object, stored without the leading slash.
type Name string

func (n Name) String() string { return "/" + string(n) }

// Array is an ordered collection of objects.
type Array []Object

func (a Array) String() string {
	parts := make([]string, len(a))
	for i, obj := range a {
		parts[i] = objString(obj)
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// Ref is an indirect reference "num gen R" to an object stored elsewhere in
// the file.
type Ref struct {
	Num int
	Gen int
}

func (r Ref) String() string { return fmt.Sprintf("%d %d R", r.Num, r.Gen) }

// Dict is a PDF dictionary with name keys stored without the leading slash.
type Dict map[string]Object

func (d Dict) String() string {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString("<<")
	for _, k := range keys {
		fmt.Fprintf(&b, " /%s %s", k, objString(d[k]))
	}
	b.WriteString(" >>")
	return b.String()
}

// Get returns the entry for key, or Null when absent.
func (d Dict) Get(key string) Object {
	if obj, ok := d[key]; ok && obj != nil {
		return obj
	}
	return Null{}
}

// Has reports whether key is present.
func (d Dict) Has(key string) bool {
	_, ok := d[key]
	return ok
}

// Name returns the name entry for key.
func (d Dict) Name(key string) (string, bool) {
	if n, ok := d.Get(key).(Name); ok {
		return string(n), true
	}
	return "", false
}

// Int returns the integer entry for key.
func (d Dict) Int(key string) (int, bool) {
	if i, ok := d.Get(key).(Int); ok {
		return int(i), true
	}
	return 0, false
}

// Number returns the numeric entry for key, accepting Int or Real.
func (d Dict) Number(key string) (float64, bool) {
	switch v := d.Get(key).(type) {
	case Int:
		return float64(v), true
	case Real:
		return float64(v), true
	}
	return 0, false
}

// Bool returns the boolean entry for key.
func (d Dict) Bool(key string) (bool, bool) {
	if b, ok := d.Get(key).(Bool); ok {
		return bool(b), true
	}
	return false, false
}

// Text returns the string entry for key.
func (d Dict) Text(key string) (string, bool) {
	if s, ok := d.Get(key).(String); ok {
		return string(s), true
	}
	return "", false
}

// Array returns the array entry for key.
func (d Dict) Array(key string) (Array, bool) {
	if a, ok := d.Get(key).(Array); ok {
		return a, true
	}
	return nil, false
}

// Dict returns the dictionary entry for key.
func (d Dict) Dict(key string) (Dict, bool) {
	if sub, ok := d.Get(key).(Dict); ok {
		return sub, true
	}
	return nil, false
}

// Ref returns the indirect-reference entry for key.
func (d Dict) Ref(key string) (Ref, bool) {
	if r, ok := d.Get(key).(Ref); ok {
		return r, true
	}
	return Ref{}, false
}

// Stream is a dictionary with an attached byte payload. Raw holds the bytes
// exactly as stored in the file; Decode applies the /Filter chain.
type Stream struct {
	Dict Dict
	Raw  []byte

	decoded []byte // cached Decode result
}

func (s *Stream) String() string {
	return fmt.Sprintf("stream(%s, %d bytes)", s.Dict.String(), len(s.Raw))
}

// IndirectObject is a numbered object as it appears in the file body:
// "num gen obj ... endobj".
type IndirectObject struct {
	Num int
	Gen int
	Obj Object
}

func (io IndirectObject) String() string {
	return fmt.Sprintf("%d %d obj %s", io.Num, io.Gen, objString(io.Obj))
}

// Numeric returns obj as a float64 when it is an Int or Real.
func Numeric(obj Object) (float64, bool) {
	switch v := obj.(type) {
	case Int:
		return float64(v), true
	case Real:
		return float64(v), true
	}
	return 0, false
}

func objString(obj Object) string {
	if obj == nil {
		return "null"
	}
	return obj.String()
}
