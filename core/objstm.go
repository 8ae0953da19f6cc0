package core

import (
	"fmt"
)

// ObjStm unpacks an object stream (/Type /ObjStm): N objects stored back to
// back in one compressed payload, preceded by a header of "num offset" pairs.
// The header is parsed eagerly; individual objects are parsed on demand and
// cached by index.
type ObjStm struct {
	data    []byte
	first   int
	nums    []int
	offsets []int
	cache   map[int]Object
}

// NewObjStm decodes stm and parses its header. The stream must carry
// /Type /ObjStm with /N and /First entries.
func NewObjStm(stm *Stream) (*ObjStm, error) {
	if typ, _ := stm.Dict.Name("Type"); typ != "ObjStm" {
		return nil, fmt.Errorf("stream type is /%s, want /ObjStm", typ)
	}
	n, ok := stm.Dict.Int("N")
	if !ok || n < 0 {
		return nil, fmt.Errorf("object stream: missing /N")
	}
	first, ok := stm.Dict.Int("First")
	if !ok || first < 0 {
		return nil, fmt.Errorf("object stream: missing /First")
	}

	data, err := stm.Decode()
	if err != nil {
		return nil, fmt.Errorf("object stream: %w", err)
	}
	if first > len(data) {
		return nil, fmt.Errorf("object stream: /First %d beyond %d decoded bytes", first, len(data))
	}

	o := &ObjStm{
		data:    data,
		first:   first,
		nums:    make([]int, 0, n),
		offsets: make([]int, 0, n),
		cache:   map[int]Object{},
	}

	lx := NewLexer(data[:first])
	for i := 0; i < n; i++ {
		lx.SkipSpace()
		numObj, err := lx.Number()
		if err != nil {
			return nil, fmt.Errorf("object stream header pair %d: %w", i, err)
		}
		lx.SkipSpace()
		offObj, err := lx.Number()
		if err != nil {
			return nil, fmt.Errorf("object stream header pair %d: %w", i, err)
		}
		num, ok1 := numObj.(Int)
		off, ok2 := offObj.(Int)
		if !ok1 || !ok2 || off < 0 {
			return nil, fmt.Errorf("object stream header pair %d: %s %s", i, numObj, offObj)
		}
		o.nums = append(o.nums, int(num))
		o.offsets = append(o.offsets, int(off))
	}
	return o, nil
}

// Len returns the number of objects in the stream.
func (o *ObjStm) Len() int { return len(o.nums) }

// Nums returns the object numbers in storage order.
func (o *ObjStm) Nums() []int { return o.nums }

// At parses the object at index idx, returning its object number alongside.
// Objects inside a stream cannot themselves be streams or carry generation
// numbers, so the parsed value is used directly.
func (o *ObjStm) At(idx int) (int, Object, error) {
	if idx < 0 || idx >= len(o.nums) {
		return 0, nil, fmt.Errorf("object stream index %d out of range [0,%d)", idx, len(o.nums))
	}
	if obj, ok := o.cache[idx]; ok {
		return o.nums[idx], obj, nil
	}

	start := o.first + o.offsets[idx]
	if start > len(o.data) {
		return 0, nil, fmt.Errorf("object stream: offset %d beyond %d decoded bytes", start, len(o.data))
	}

	p := NewParser(o.data)
	p.Seek(start)
	obj, err := p.ParseObject()
	if err != nil {
		return 0, nil, fmt.Errorf("object stream index %d (object %d): %w", idx, o.nums[idx], err)
	}
	o.cache[idx] = obj
	return o.nums[idx], obj, nil
}

// ByNumber parses the object with the given object number.
func (o *ObjStm) ByNumber(num int) (Object, error) {
	for i, n := range o.nums {
		if n == num {
			_, obj, err := o.At(i)
			return obj, err
		}
	}
	return nil, fmt.Errorf("object %d not in object stream", num)
}
