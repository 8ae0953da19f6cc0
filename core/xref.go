package core

import (
	"bytes"
	"fmt"
	"regexp"
)

// Entry kinds in the cross-reference index.
const (
	EntryFree     = iota // unused object slot
	EntryInFile          // object stored at a byte offset
	EntryInStream        // object stored inside an object stream
)

// XrefEntry locates one indirect object.
type XrefEntry struct {
	Kind   int
	Offset int // EntryInFile: byte offset of "num gen obj"
	Gen    int // EntryInFile: generation number
	StmNum int // EntryInStream: object number of the containing stream
	StmIdx int // EntryInStream: index within the stream
}

// Xref is the merged cross-reference index for a document. Incremental
// updates chain with /Prev; the newest section wins for every object number
// and for every trailer key.
type Xref struct {
	Entries map[int]XrefEntry
	Trailer Dict
}

// Lookup returns the entry for an object number.
func (x *Xref) Lookup(num int) (XrefEntry, bool) {
	e, ok := x.Entries[num]
	return e, ok
}

// startxrefWindow is how far back from the end of the file the startxref
// keyword is searched for.
const startxrefWindow = 1024

var startxrefRe = regexp.MustCompile(`startxref\s+(\d+)`)

// FindStartXref scans the tail of buf for the startxref keyword and returns
// the offset it declares. The last occurrence in the window wins, matching
// incrementally updated files.
func FindStartXref(buf []byte) (int, error) {
	from := len(buf) - startxrefWindow
	if from < 0 {
		from = 0
	}
	matches := startxrefRe.FindAllSubmatch(buf[from:], -1)
	if len(matches) == 0 {
		return 0, fmt.Errorf("startxref not found in final %d bytes", len(buf)-from)
	}
	last := matches[len(matches)-1]
	var offset int
	for _, c := range last[1] {
		offset = offset*10 + int(c-'0')
	}
	if offset <= 0 || offset >= len(buf) {
		return 0, fmt.Errorf("startxref offset %d out of range", offset)
	}
	return offset, nil
}

// LoadXref builds the merged cross-reference index for buf, following the
// /Prev chain across incremental updates and handling classic tables,
// cross-reference streams, and hybrid files carrying both. When no usable
// index exists the document is reindexed by scanning for object headers.
func LoadXref(buf []byte) (*Xref, error) {
	x := &Xref{Entries: map[int]XrefEntry{}, Trailer: Dict{}}

	offset, err := FindStartXref(buf)
	if err != nil {
		return rebuildXref(buf, err)
	}

	seen := map[int]bool{}
	for offset > 0 {
		if seen[offset] {
			return nil, fmt.Errorf("cross-reference chain loops at offset %d", offset)
		}
		seen[offset] = true

		trailer, err := x.loadSection(buf, offset)
		if err != nil {
			if len(x.Entries) > 0 {
				break // keep what the newer sections gave us
			}
			return rebuildXref(buf, err)
		}
		x.mergeTrailer(trailer)

		if stm, ok := trailer.Int("XRefStm"); ok && !seen[stm] {
			seen[stm] = true
			if hybrid, err := x.loadSection(buf, stm); err == nil {
				x.mergeTrailer(hybrid)
			}
		}

		offset = 0
		if prev, ok := trailer.Int("Prev"); ok {
			offset = prev
		}
	}

	if len(x.Entries) == 0 {
		return rebuildXref(buf, fmt.Errorf("cross-reference sections are empty"))
	}
	return x, nil
}

// loadSection parses one cross-reference section, either a classic table or
// a cross-reference stream, and returns its trailer dictionary.
func (x *Xref) loadSection(buf []byte, offset int) (Dict, error) {
	lx := NewLexer(buf)
	lx.Seek(offset)
	if lx.Match("xref") {
		return x.loadTable(lx)
	}
	return x.loadStream(buf, offset)
}

// loadTable parses a classic table: subsections of "first count" headers
// followed by fixed-form entries, then the trailer dictionary.
func (x *Xref) loadTable(lx *Lexer) (Dict, error) {
	for {
		if lx.Match("trailer") {
			break
		}
		lx.SkipSpace()
		firstObj, err := lx.Number()
		if err != nil {
			return nil, fmt.Errorf("cross-reference subsection: %w", err)
		}
		lx.SkipSpace()
		countObj, err := lx.Number()
		if err != nil {
			return nil, fmt.Errorf("cross-reference subsection: %w", err)
		}
		first, ok1 := firstObj.(Int)
		count, ok2 := countObj.(Int)
		if !ok1 || !ok2 || first < 0 || count < 0 {
			return nil, fmt.Errorf("cross-reference subsection header %s %s", firstObj, countObj)
		}

		for i := 0; i < int(count); i++ {
			lx.SkipSpace()
			offObj, err := lx.Number()
			if err != nil {
				return nil, fmt.Errorf("cross-reference entry %d: %w", int(first)+i, err)
			}
			lx.SkipSpace()
			genObj, err := lx.Number()
			if err != nil {
				return nil, fmt.Errorf("cross-reference entry %d: %w", int(first)+i, err)
			}
			lx.SkipSpace()
			flag := lx.Keyword()

			num := int(first) + i
			off, _ := offObj.(Int)
			gen, _ := genObj.(Int)
			switch flag {
			case "n":
				x.add(num, XrefEntry{Kind: EntryInFile, Offset: int(off), Gen: int(gen)})
			case "f":
				x.add(num, XrefEntry{Kind: EntryFree, Gen: int(gen)})
			default:
				return nil, fmt.Errorf("cross-reference entry %d: flag %q", num, flag)
			}
		}
	}

	p := &Parser{lx: lx}
	obj, err := p.ParseObject()
	if err != nil {
		return nil, fmt.Errorf("trailer: %w", err)
	}
	trailer, ok := obj.(Dict)
	if !ok {
		return nil, fmt.Errorf("trailer is %s, want dictionary", obj)
	}
	return trailer, nil
}

// loadStream parses a cross-reference stream: a /Type/XRef stream whose
// decoded payload holds binary entries shaped by /W, covering the object
// ranges in /Index.
func (x *Xref) loadStream(buf []byte, offset int) (Dict, error) {
	p := NewParser(buf)
	ind, err := p.ParseIndirectObject(offset)
	if err != nil {
		return nil, fmt.Errorf("cross-reference stream: %w", err)
	}
	stm, ok := ind.Obj.(*Stream)
	if !ok {
		return nil, fmt.Errorf("object %d at offset %d is not a stream", ind.Num, offset)
	}
	if typ, _ := stm.Dict.Name("Type"); typ != "XRef" {
		return nil, fmt.Errorf("stream at offset %d has type /%s, want /XRef", offset, typ)
	}

	widths, ok := stm.Dict.Array("W")
	if !ok || len(widths) < 3 {
		return nil, fmt.Errorf("cross-reference stream: missing /W")
	}
	var w [3]int
	for i := 0; i < 3; i++ {
		n, ok := widths[i].(Int)
		if !ok || n < 0 || n > 8 {
			return nil, fmt.Errorf("cross-reference stream: /W[%d] = %s", i, widths[i])
		}
		w[i] = int(n)
	}
	rowLen := w[0] + w[1] + w[2]
	if rowLen == 0 {
		return nil, fmt.Errorf("cross-reference stream: /W is all zero")
	}

	size, _ := stm.Dict.Int("Size")
	index, ok := stm.Dict.Array("Index")
	if !ok {
		index = Array{Int(0), Int(size)}
	}
	if len(index)%2 != 0 {
		return nil, fmt.Errorf("cross-reference stream: /Index has %d elements", len(index))
	}

	data, err := stm.Decode()
	if err != nil {
		return nil, fmt.Errorf("cross-reference stream: %w", err)
	}

	pos := 0
	read := func(width int) int {
		v := 0
		for i := 0; i < width; i++ {
			v = v<<8 | int(data[pos])
			pos++
		}
		return v
	}

	for pair := 0; pair+1 < len(index); pair += 2 {
		first, ok1 := index[pair].(Int)
		count, ok2 := index[pair+1].(Int)
		if !ok1 || !ok2 {
			return nil, fmt.Errorf("cross-reference stream: /Index pair %s %s", index[pair], index[pair+1])
		}
		for i := 0; i < int(count); i++ {
			if pos+rowLen > len(data) {
				return nil, fmt.Errorf("cross-reference stream: data ends inside entry for object %d", int(first)+i)
			}
			kind := EntryInFile // width-zero type field defaults to 1
			if w[0] > 0 {
				kind = read(w[0])
			}
			f2 := read(w[1])
			f3 := read(w[2])

			num := int(first) + i
			switch kind {
			case EntryFree:
				x.add(num, XrefEntry{Kind: EntryFree, Gen: f3})
			case EntryInFile:
				x.add(num, XrefEntry{Kind: EntryInFile, Offset: f2, Gen: f3})
			case EntryInStream:
				x.add(num, XrefEntry{Kind: EntryInStream, StmNum: f2, StmIdx: f3})
			default:
				// Unknown entry types are reserved; treat as free.
				x.add(num, XrefEntry{Kind: EntryFree})
			}
		}
	}
	return stm.Dict, nil
}

// add records an entry unless a newer section already placed one.
func (x *Xref) add(num int, e XrefEntry) {
	if _, exists := x.Entries[num]; !exists {
		x.Entries[num] = e
	}
}

// mergeTrailer folds trailer keys in, newest section winning.
func (x *Xref) mergeTrailer(trailer Dict) {
	for k, v := range trailer {
		if _, exists := x.Trailer[k]; !exists {
			x.Trailer[k] = v
		}
	}
}

var objHeaderRe = regexp.MustCompile(`(?m)^[ \t]*(\d+)[ \t]+(\d+)[ \t]+obj\b`)

// rebuildXref reindexes a document whose cross-reference data is missing or
// unusable by scanning the whole buffer for object headers. The highest
// generation of each object number wins, and the trailer is recovered from
// the last trailer dictionary or a /Type/Catalog object.
func rebuildXref(buf []byte, cause error) (*Xref, error) {
	x := &Xref{Entries: map[int]XrefEntry{}, Trailer: Dict{}}

	for _, loc := range objHeaderRe.FindAllSubmatchIndex(buf, -1) {
		start := loc[0]
		for start < len(buf) && (buf[start] == ' ' || buf[start] == '\t') {
			start++
		}
		num := atoiBytes(buf[loc[2]:loc[3]])
		gen := atoiBytes(buf[loc[4]:loc[5]])
		if prev, ok := x.Entries[num]; !ok || gen >= prev.Gen {
			x.Entries[num] = XrefEntry{Kind: EntryInFile, Offset: start, Gen: gen}
		}
	}
	if len(x.Entries) == 0 {
		return nil, fmt.Errorf("cross-reference index unusable and no objects found: %w", cause)
	}

	// Prefer an explicit trailer; otherwise synthesize /Root from the catalog.
	if idx := bytes.LastIndex(buf, []byte("trailer")); idx >= 0 {
		p := NewParser(buf)
		p.Seek(idx + len("trailer"))
		if obj, err := p.ParseObject(); err == nil {
			if d, ok := obj.(Dict); ok {
				x.Trailer = d
			}
		}
	}
	if _, ok := x.Trailer.Ref("Root"); !ok {
		p := NewParser(buf)
		for num, e := range x.Entries {
			ind, err := p.ParseIndirectObject(e.Offset)
			if err != nil {
				continue
			}
			if d, ok := ind.Obj.(Dict); ok {
				if typ, _ := d.Name("Type"); typ == "Catalog" {
					x.Trailer["Root"] = Ref{Num: num, Gen: e.Gen}
					break
				}
			}
		}
	}
	if _, ok := x.Trailer.Ref("Root"); !ok {
		return nil, fmt.Errorf("cross-reference rebuild found no document catalog: %w", cause)
	}
	return x, nil
}

func atoiBytes(b []byte) int {
	n := 0
	for _, c := range b {
		n = n*10 + int(c-'0')
	}
	return n
}
