package pages

import (
	"bytes"
	"fmt"

	"github.com/tsawler/pagina/core"
)

// Resolver chases indirect references to the objects they point at. Direct
// objects come back unchanged.
type Resolver interface {
	Resolve(obj core.Object) (core.Object, error)
}

// letterBox is the fallback media box for pages that never declare one, even
// through inheritance.
var letterBox = [4]float64{0, 0, 612, 792}

// maxTreeDepth bounds traversal of hostile or corrupt page trees.
const maxTreeDepth = 64

// Page is one leaf of the page tree with inherited attributes applied.
// Boxes are in PDF user space: origin bottom-left, y increasing upward.
type Page struct {
	Number    int // 1-based
	Dict      core.Dict
	MediaBox  [4]float64
	CropBox   [4]float64
	Rotate    int // normalized to 0, 90, 180, or 270
	Resources core.Dict

	contents []*core.Stream
	resolver Resolver
}

// Width returns the media box width.
func (p *Page) Width() float64 { return p.MediaBox[2] - p.MediaBox[0] }

// Height returns the media box height.
func (p *Page) Height() float64 { return p.MediaBox[3] - p.MediaBox[1] }

// Content decodes the page's content streams and joins them. Multiple
// streams form one logical stream, so a separating newline is inserted
// between them.
func (p *Page) Content() ([]byte, error) {
	if len(p.contents) == 0 {
		return nil, nil
	}
	if len(p.contents) == 1 {
		return p.contents[0].Decode()
	}

	var buf bytes.Buffer
	for i, stm := range p.contents {
		data, err := stm.Decode()
		if err != nil {
			return nil, fmt.Errorf("content stream %d: %w", i, err)
		}
		if i > 0 {
			buf.WriteByte('\n')
		}
		buf.Write(data)
	}
	return buf.Bytes(), nil
}

// XObjects returns the page's /XObject resource dictionary, or nil.
func (p *Page) XObjects() core.Dict {
	if p.Resources == nil {
		return nil
	}
	obj, err := p.resolver.Resolve(p.Resources.Get("XObject"))
	if err != nil {
		return nil
	}
	dict, _ := obj.(core.Dict)
	return dict
}

// Font returns the font dictionary for a /Font resource name, or nil.
func (p *Page) Font(name string) core.Dict {
	if p.Resources == nil {
		return nil
	}
	fonts, err := p.resolver.Resolve(p.Resources.Get("Font"))
	if err != nil {
		return nil
	}
	fontsDict, ok := fonts.(core.Dict)
	if !ok {
		return nil
	}
	obj, err := p.resolver.Resolve(fontsDict.Get(name))
	if err != nil {
		return nil
	}
	dict, _ := obj.(core.Dict)
	return dict
}

// Tree walks a page tree root and produces the flattened page list.
type Tree struct {
	root  core.Dict
	res   Resolver
	pages []*Page
}

// NewTree returns a tree over the /Pages root dictionary.
func NewTree(root core.Dict, res Resolver) *Tree {
	return &Tree{root: root, res: res}
}

// Count returns the declared page count, falling back to the flattened
// length when /Count is missing or wrong.
func (t *Tree) Count() int {
	if n, ok := t.root.Int("Count"); ok && n >= 0 {
		return n
	}
	pages, err := t.Pages()
	if err != nil {
		return 0
	}
	return len(pages)
}

// Pages returns the flattened page list in document order. The walk is done
// once and cached.
func (t *Tree) Pages() ([]*Page, error) {
	if t.pages != nil {
		return t.pages, nil
	}
	t.pages = []*Page{}
	seen := map[core.Ref]bool{}
	if err := t.walk(t.root, inherited{}, seen, 0); err != nil {
		return nil, err
	}
	return t.pages, nil
}

// Page returns the page at a 0-based index.
func (t *Tree) Page(index int) (*Page, error) {
	pages, err := t.Pages()
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(pages) {
		return nil, fmt.Errorf("page index %d out of range [0,%d)", index, len(pages))
	}
	return pages[index], nil
}

// inherited carries the inheritable attributes seen on the path from the
// root down to a leaf.
type inherited struct {
	mediaBox  core.Array
	cropBox   core.Array
	resources core.Dict
	rotate    core.Object
}

// absorb overlays the attributes a node declares onto the inherited set.
func (in inherited) absorb(node core.Dict, res Resolver) inherited {
	if arr, ok := resolveArray(res, node.Get("MediaBox")); ok {
		in.mediaBox = arr
	}
	if arr, ok := resolveArray(res, node.Get("CropBox")); ok {
		in.cropBox = arr
	}
	if obj, err := res.Resolve(node.Get("Resources")); err == nil {
		if d, ok := obj.(core.Dict); ok {
			in.resources = d
		}
	}
	if node.Has("Rotate") {
		if obj, err := res.Resolve(node.Get("Rotate")); err == nil {
			in.rotate = obj
		}
	}
	return in
}

func (t *Tree) walk(node core.Dict, in inherited, seen map[core.Ref]bool, depth int) error {
	if depth > maxTreeDepth {
		return fmt.Errorf("page tree deeper than %d levels", maxTreeDepth)
	}
	in = in.absorb(node, t.res)

	// Nodes with /Kids are interior even when /Type is missing.
	kidsObj, err := t.res.Resolve(node.Get("Kids"))
	if err != nil {
		return fmt.Errorf("page tree /Kids: %w", err)
	}
	if kids, ok := kidsObj.(core.Array); ok {
		for i, kid := range kids {
			if ref, isRef := kid.(core.Ref); isRef {
				if seen[ref] {
					continue // reference cycle
				}
				seen[ref] = true
			}
			kidObj, err := t.res.Resolve(kid)
			if err != nil {
				return fmt.Errorf("page tree kid %d: %w", i, err)
			}
			kidDict, ok := kidObj.(core.Dict)
			if !ok {
				return fmt.Errorf("page tree kid %d is %T, want dictionary", i, kidObj)
			}
			if err := t.walk(kidDict, in, seen, depth+1); err != nil {
				return err
			}
		}
		return nil
	}

	if typ, _ := node.Name("Type"); typ == "Pages" {
		return fmt.Errorf("pages node %d has no /Kids", len(t.pages))
	}
	return t.leaf(node, in)
}

// leaf materializes one page with its effective attributes.
func (t *Tree) leaf(node core.Dict, in inherited) error {
	p := &Page{
		Number:    len(t.pages) + 1,
		Dict:      node,
		Resources: in.resources,
		resolver:  t.res,
	}

	p.MediaBox = boxOrDefault(in.mediaBox, letterBox)
	p.CropBox = boxOrDefault(in.cropBox, p.MediaBox)
	p.Rotate = normalizeRotation(in.rotate)

	contents, err := t.res.Resolve(node.Get("Contents"))
	if err != nil {
		return fmt.Errorf("page %d /Contents: %w", p.Number, err)
	}
	switch v := contents.(type) {
	case *core.Stream:
		p.contents = []*core.Stream{v}
	case core.Array:
		for i, elem := range v {
			obj, err := t.res.Resolve(elem)
			if err != nil {
				return fmt.Errorf("page %d /Contents[%d]: %w", p.Number, i, err)
			}
			if stm, ok := obj.(*core.Stream); ok {
				p.contents = append(p.contents, stm)
			}
		}
	}

	t.pages = append(t.pages, p)
	return nil
}

func resolveArray(res Resolver, obj core.Object) (core.Array, bool) {
	resolved, err := res.Resolve(obj)
	if err != nil {
		return nil, false
	}
	arr, ok := resolved.(core.Array)
	return arr, ok
}

// boxOrDefault converts a 4-element array into a normalized box where
// (x0,y0) is the lower-left corner.
func boxOrDefault(arr core.Array, def [4]float64) [4]float64 {
	if len(arr) != 4 {
		return def
	}
	var box [4]float64
	for i, elem := range arr {
		v, ok := core.Numeric(elem)
		if !ok {
			return def
		}
		box[i] = v
	}
	if box[0] > box[2] {
		box[0], box[2] = box[2], box[0]
	}
	if box[1] > box[3] {
		box[1], box[3] = box[3], box[1]
	}
	return box
}

// normalizeRotation clamps /Rotate to a right-angle multiple in [0,360).
func normalizeRotation(obj core.Object) int {
	n, ok := obj.(core.Int)
	if !ok {
		return 0
	}
	r := int(n) % 360
	if r < 0 {
		r += 360
	}
	if r%90 != 0 {
		return 0
	}
	return r
}
