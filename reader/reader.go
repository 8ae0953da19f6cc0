package reader

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/tsawler/pagina/core"
	"github.com/tsawler/pagina/pages"
)

var headerRe = regexp.MustCompile(`%PDF-(\d+\.\d+)`)

// Reader is an open PDF document: the raw bytes, the merged cross-reference
// index, and a cache of loaded objects.
type Reader struct {
	buf     []byte
	path    string
	version string
	xref    *core.Xref
	cache   map[int]core.Object
	objStms map[int]*core.ObjStm
	tree    *pages.Tree
}

var _ pages.Resolver = (*Reader)(nil)

// Open reads the file at path into memory and prepares it for object access.
func Open(path string) (*Reader, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open document: %w", err)
	}
	r, err := FromBytes(buf)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	r.path = path
	return r, nil
}

// FromReader consumes rd fully and prepares the document for object access.
func FromReader(rd io.Reader) (*Reader, error) {
	buf, err := io.ReadAll(rd)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	return FromBytes(buf)
}

// FromBytes prepares an in-memory document for object access.
func FromBytes(buf []byte) (*Reader, error) {
	r := &Reader{
		buf:     buf,
		cache:   map[int]core.Object{},
		objStms: map[int]*core.ObjStm{},
	}

	head := buf
	if len(head) > 1024 {
		head = head[:1024]
	}
	m := headerRe.FindSubmatch(head)
	if m == nil {
		return nil, fmt.Errorf("not a PDF document: missing %%PDF header")
	}
	r.version = string(m[1])

	xref, err := core.LoadXref(buf)
	if err != nil {
		return nil, fmt.Errorf("cross-reference index: %w", err)
	}
	r.xref = xref

	if r.xref.Trailer.Has("Encrypt") {
		return nil, fmt.Errorf("encrypted documents are not supported")
	}
	return r, nil
}

// Close releases the document buffer and the decoded-object caches. The
// reader must not be used afterward. It never fails; it exists so callers
// can treat file-backed and in-memory documents uniformly.
func (r *Reader) Close() error {
	r.buf = nil
	r.cache = nil
	r.objStms = nil
	r.tree = nil
	return nil
}

// Path returns the file path the document was opened from, if any.
func (r *Reader) Path() string { return r.path }

// Version returns the version from the document header, like "1.7".
func (r *Reader) Version() string { return r.version }

// Trailer returns the merged trailer dictionary.
func (r *Reader) Trailer() core.Dict { return r.xref.Trailer }

// Size returns the document length in bytes.
func (r *Reader) Size() int { return len(r.buf) }

// Object loads the object with the given number. References to free or
// absent objects yield Null, as the file format prescribes.
func (r *Reader) Object(num int) (core.Object, error) {
	if obj, ok := r.cache[num]; ok {
		return obj, nil
	}

	entry, ok := r.xref.Lookup(num)
	if !ok || entry.Kind == core.EntryFree {
		return core.Null{}, nil
	}

	var obj core.Object
	switch entry.Kind {
	case core.EntryInFile:
		ind, err := r.parseAt(entry.Offset)
		if err != nil {
			return nil, fmt.Errorf("object %d: %w", num, err)
		}
		if ind.Num != num {
			return nil, fmt.Errorf("object %d: offset %d holds object %d", num, entry.Offset, ind.Num)
		}
		obj = ind.Obj

	case core.EntryInStream:
		stm, err := r.objStm(entry.StmNum)
		if err != nil {
			return nil, fmt.Errorf("object %d: %w", num, err)
		}
		got, inner, err := stm.At(entry.StmIdx)
		if err == nil && got != num {
			inner, err = stm.ByNumber(num)
		}
		if err != nil {
			return nil, fmt.Errorf("object %d: %w", num, err)
		}
		obj = inner

	default:
		return core.Null{}, nil
	}

	if stm, ok := obj.(*core.Stream); ok {
		r.normalizeStream(stm)
	}
	r.cache[num] = obj
	return obj, nil
}

// parseAt parses the indirect object at a byte offset with /Length
// resolution wired up.
func (r *Reader) parseAt(offset int) (*core.IndirectObject, error) {
	p := core.NewParser(r.buf)
	p.Resolve = func(ref core.Ref) (core.Object, error) {
		return r.Object(ref.Num)
	}
	return p.ParseIndirectObject(offset)
}

// objStm loads and caches the object stream with the given object number.
func (r *Reader) objStm(num int) (*core.ObjStm, error) {
	if stm, ok := r.objStms[num]; ok {
		return stm, nil
	}
	obj, err := r.Object(num)
	if err != nil {
		return nil, err
	}
	raw, ok := obj.(*core.Stream)
	if !ok {
		return nil, fmt.Errorf("object stream %d is %T", num, obj)
	}
	stm, err := core.NewObjStm(raw)
	if err != nil {
		return nil, fmt.Errorf("object stream %d: %w", num, err)
	}
	r.objStms[num] = stm
	return stm, nil
}

// normalizeStream resolves indirect /Filter and /DecodeParms entries so the
// stream can decode itself without a resolver.
func (r *Reader) normalizeStream(stm *core.Stream) {
	for _, key := range []string{"Filter", "DecodeParms", "DP"} {
		obj := stm.Dict.Get(key)
		if _, isRef := obj.(core.Ref); !isRef {
			if arr, isArr := obj.(core.Array); isArr {
				for i, elem := range arr {
					if resolved, err := r.Resolve(elem); err == nil {
						arr[i] = resolved
					}
				}
			}
			continue
		}
		if resolved, err := r.Resolve(obj); err == nil {
			if _, isNull := resolved.(core.Null); !isNull {
				stm.Dict[key] = resolved
			}
		}
	}
}

// Resolve chases an indirect reference; direct objects come back unchanged.
func (r *Reader) Resolve(obj core.Object) (core.Object, error) {
	ref, ok := obj.(core.Ref)
	if !ok {
		return obj, nil
	}
	return r.Object(ref.Num)
}

// ResolveDeep resolves obj and every reference nested inside it, producing
// containers free of Ref values. Reference cycles are cut by substituting
// Null at the point of recurrence.
func (r *Reader) ResolveDeep(obj core.Object) (core.Object, error) {
	return r.resolveDeep(obj, map[core.Ref]bool{})
}

func (r *Reader) resolveDeep(obj core.Object, active map[core.Ref]bool) (core.Object, error) {
	switch v := obj.(type) {
	case core.Ref:
		if active[v] {
			return core.Null{}, nil
		}
		active[v] = true
		defer delete(active, v)
		inner, err := r.Object(v.Num)
		if err != nil {
			return nil, err
		}
		return r.resolveDeep(inner, active)

	case core.Array:
		out := make(core.Array, len(v))
		for i, elem := range v {
			resolved, err := r.resolveDeep(elem, active)
			if err != nil {
				return nil, err
			}
			out[i] = resolved
		}
		return out, nil

	case core.Dict:
		out := make(core.Dict, len(v))
		for k, elem := range v {
			resolved, err := r.resolveDeep(elem, active)
			if err != nil {
				return nil, err
			}
			out[k] = resolved
		}
		return out, nil

	default:
		return obj, nil
	}
}

// Catalog returns the document catalog from the trailer's /Root.
func (r *Reader) Catalog() (core.Dict, error) {
	root, ok := r.xref.Trailer.Ref("Root")
	if !ok {
		if d, isDict := r.xref.Trailer.Get("Root").(core.Dict); isDict {
			return d, nil
		}
		return nil, fmt.Errorf("trailer has no /Root")
	}
	obj, err := r.Object(root.Num)
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	dict, ok := obj.(core.Dict)
	if !ok {
		return nil, fmt.Errorf("catalog is %T, want dictionary", obj)
	}
	return dict, nil
}

// Info returns the document information dictionary, or nil when absent.
func (r *Reader) Info() core.Dict {
	obj, err := r.Resolve(r.xref.Trailer.Get("Info"))
	if err != nil {
		return nil
	}
	dict, _ := obj.(core.Dict)
	return dict
}

// Title returns the document title. Preference order: the /Title metadata
// entry, then the file name without its extension. Empty when neither
// exists.
func (r *Reader) Title() string {
	if info := r.Info(); info != nil {
		if obj, err := r.Resolve(info.Get("Title")); err == nil {
			if s, ok := obj.(core.String); ok {
				if title := strings.TrimSpace(core.DecodeText(s)); title != "" {
					return title
				}
			}
		}
	}
	if r.path != "" {
		base := filepath.Base(r.path)
		return strings.TrimSuffix(base, filepath.Ext(base))
	}
	return ""
}

// pageTree lazily builds the flattened page tree.
func (r *Reader) pageTree() (*pages.Tree, error) {
	if r.tree != nil {
		return r.tree, nil
	}
	catalog, err := r.Catalog()
	if err != nil {
		return nil, err
	}
	rootObj, err := r.Resolve(catalog.Get("Pages"))
	if err != nil {
		return nil, fmt.Errorf("page tree root: %w", err)
	}
	root, ok := rootObj.(core.Dict)
	if !ok {
		return nil, fmt.Errorf("page tree root is %T, want dictionary", rootObj)
	}
	r.tree = pages.NewTree(root, r)
	return r.tree, nil
}

// Pages returns the document's pages in order.
func (r *Reader) Pages() ([]*pages.Page, error) {
	tree, err := r.pageTree()
	if err != nil {
		return nil, err
	}
	return tree.Pages()
}

// Page returns the page at a 0-based index.
func (r *Reader) Page(index int) (*pages.Page, error) {
	tree, err := r.pageTree()
	if err != nil {
		return nil, err
	}
	return tree.Page(index)
}

// PageCount returns the number of pages, or 0 when the tree is unusable.
func (r *Reader) PageCount() int {
	list, err := r.Pages()
	if err != nil {
		return 0
	}
	return len(list)
}
