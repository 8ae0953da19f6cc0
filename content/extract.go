package content

import (
	"fmt"
	"math"

	"golang.org/x/text/unicode/norm"

	"github.com/tsawler/pagina/contentstream"
	"github.com/tsawler/pagina/core"
	"github.com/tsawler/pagina/font"
	"github.com/tsawler/pagina/model"
	"github.com/tsawler/pagina/pages"
)

// maxFormDepth bounds nested form XObject execution.
const maxFormDepth = 8

// Placement records where a named image XObject was painted on the page.
type Placement struct {
	Name string
	Rect model.Rect
}

// Result holds everything a page's content stream painted that the layout
// stages care about.
type Result struct {
	Spans      []model.Span
	Segments   []model.Segment
	Placements []Placement
}

// Extractor interprets one page's content stream.
type Extractor struct {
	pageNo int
	height float64

	st    state
	stack []state

	// current path, already in device space with y flipped
	path     []model.Segment
	start    [2]float64
	cur      [2]float64
	hasPoint bool

	out Result
}

// Extract walks the page's content stream and reports the text spans, line
// segments, and image placements it paints, all in top-left coordinates.
func Extract(page *pages.Page, res pages.Resolver) (Result, error) {
	data, err := page.Content()
	if err != nil {
		return Result{}, fmt.Errorf("page %d content: %w", page.Number, err)
	}
	ops, err := contentstream.NewParser(data).Parse()
	if err != nil {
		return Result{}, fmt.Errorf("page %d content: %w", page.Number, err)
	}

	e := &Extractor{
		pageNo: page.Number - 1,
		height: page.Height(),
		st:     newState(),
	}
	if err := e.walk(ops, newFrame(page.Resources, res), 0); err != nil {
		return Result{}, fmt.Errorf("page %d content: %w", page.Number, err)
	}
	return e.out, nil
}

// frame is the resource context for one content stream: the page's own
// dictionary at the top level, a form's for nested execution. Fonts are
// cached per frame because Tf tends to re-select the same few names.
type frame struct {
	resources core.Dict
	res       pages.Resolver
	fonts     map[string]*font.Font
}

func newFrame(resources core.Dict, res pages.Resolver) *frame {
	return &frame{resources: resources, res: res, fonts: make(map[string]*font.Font)}
}

func (f *frame) lookup(category, name string) core.Object {
	if f.resources == nil {
		return core.Null{}
	}
	cat, err := f.res.Resolve(f.resources.Get(category))
	if err != nil {
		return core.Null{}
	}
	dict, ok := cat.(core.Dict)
	if !ok {
		return core.Null{}
	}
	obj, err := f.res.Resolve(dict.Get(name))
	if err != nil {
		return core.Null{}
	}
	return obj
}

// font loads and caches a font resource. A missing or broken font is cached
// as nil so text shown with it still advances and decodes byte-wise.
func (f *frame) font(name string) *font.Font {
	if fnt, ok := f.fonts[name]; ok {
		return fnt
	}
	var fnt *font.Font
	if dict, ok := f.lookup("Font", name).(core.Dict); ok {
		if loaded, err := font.Load(name, dict, f.res); err == nil {
			fnt = loaded
		}
	}
	f.fonts[name] = fnt
	return fnt
}

func (e *Extractor) walk(ops []contentstream.Operation, fr *frame, depth int) error {
	for _, op := range ops {
		if err := e.step(op, fr, depth); err != nil {
			return err
		}
	}
	return nil
}

func (e *Extractor) step(op contentstream.Operation, fr *frame, depth int) error {
	switch op.Operator {
	case "q":
		e.stack = append(e.stack, e.st)
	case "Q":
		// restores without a matching save are ignored
		if n := len(e.stack); n > 0 {
			e.st = e.stack[n-1]
			e.stack = e.stack[:n-1]
		}
	case "cm":
		if m, ok := op.Numbers(6); ok {
			e.st.ctm = e.st.ctm.Mul(model.Matrix{m[0], m[1], m[2], m[3], m[4], m[5]})
		}
	case "w":
		if v, ok := op.Number(0); ok {
			e.st.lineWidth = v
		}

	case "BT":
		e.st.beginText()
	case "Tf":
		name, ok := op.Name(0)
		size, sizeOK := op.Number(1)
		if ok && sizeOK {
			e.st.text.font = fr.font(name)
			e.st.text.size = size
		}
	case "Td":
		if v, ok := op.Numbers(2); ok {
			e.st.nextLine(v[0], v[1])
		}
	case "TD":
		if v, ok := op.Numbers(2); ok {
			e.st.text.leading = -v[1]
			e.st.nextLine(v[0], v[1])
		}
	case "Tm":
		if m, ok := op.Numbers(6); ok {
			e.st.setTextMatrix(model.Matrix{m[0], m[1], m[2], m[3], m[4], m[5]})
		}
	case "T*":
		e.st.nextLine(0, -e.st.text.leading)
	case "TL":
		if v, ok := op.Number(0); ok {
			e.st.text.leading = v
		}
	case "Tc":
		if v, ok := op.Number(0); ok {
			e.st.text.charSp = v
		}
	case "Tw":
		if v, ok := op.Number(0); ok {
			e.st.text.wordSp = v
		}
	case "Tz":
		if v, ok := op.Number(0); ok {
			e.st.text.hscale = v
		}
	case "Ts":
		if v, ok := op.Number(0); ok {
			e.st.text.rise = v
		}
	case "Tr":
		if v, ok := op.Number(0); ok {
			e.st.text.render = int(v)
		}

	case "Tj":
		if s, ok := op.Text(0); ok {
			e.showText([]byte(s))
		}
	case "'":
		if s, ok := op.Text(0); ok {
			e.st.nextLine(0, -e.st.text.leading)
			e.showText([]byte(s))
		}
	case `"`:
		wordSp, ok0 := op.Number(0)
		charSp, ok1 := op.Number(1)
		s, ok2 := op.Text(2)
		if ok0 && ok1 && ok2 {
			e.st.text.wordSp = wordSp
			e.st.text.charSp = charSp
			e.st.nextLine(0, -e.st.text.leading)
			e.showText([]byte(s))
		}
	case "TJ":
		if arr, ok := op.Array(0); ok {
			e.showArray(arr)
		}

	case "m":
		if v, ok := op.Numbers(2); ok {
			e.moveTo(v[0], v[1])
		}
	case "l":
		if v, ok := op.Numbers(2); ok {
			e.lineTo(v[0], v[1])
		}
	case "c":
		// curves contribute their endpoints only
		if v, ok := op.Numbers(6); ok {
			e.curveTo(v[4], v[5])
		}
	case "v", "y":
		if v, ok := op.Numbers(4); ok {
			e.curveTo(v[2], v[3])
		}
	case "h":
		e.closePath()
	case "re":
		if v, ok := op.Numbers(4); ok {
			e.rect(v[0], v[1], v[2], v[3])
		}

	case "S":
		e.paint(e.strokeWidth(), false)
	case "s":
		e.paint(e.strokeWidth(), true)
	case "f", "F", "f*":
		// filling closes open subpaths
		e.paint(0, true)
	case "B", "B*":
		e.paint(e.strokeWidth(), false)
	case "b", "b*":
		e.paint(e.strokeWidth(), true)
	case "n":
		e.clearPath()

	case "Do":
		if name, ok := op.Name(0); ok {
			return e.doXObject(name, fr, depth)
		}
	}
	return nil
}

// showText emits one span for a string shown by Tj, TJ, ' or " and moves
// the text matrix past it. Invisible render modes still produce spans;
// scanned documents often carry their recognized text that way.
func (e *Extractor) showText(data []byte) {
	if len(data) == 0 {
		return
	}
	ts := &e.st.text

	var text string
	if ts.font != nil {
		text = ts.font.Decode(data)
	} else {
		text = latin1(data)
	}
	adv := e.advanceFor(data)

	trm := e.st.ctm.Mul(ts.tm)
	x0, y0 := trm.Apply(0, ts.rise)
	x1, _ := trm.Apply(adv, ts.rise)
	size := e.st.effectiveSize()

	e.st.advance(adv)

	text = norm.NFC.String(text)
	if text == "" {
		return
	}

	base := e.flip(y0)
	rect := model.NewRect(math.Min(x0, x1), base-0.8*size, math.Max(x0, x1), base+0.2*size)
	e.out.Spans = append(e.out.Spans, model.Span{
		Text: text,
		Rect: rect,
		Size: size,
		Bold: ts.font != nil && ts.font.Bold,
		Page: e.pageNo,
	})
}

// showArray handles TJ: strings are shown, numbers pull the text matrix
// back by thousandths of the font size.
func (e *Extractor) showArray(arr core.Array) {
	for _, el := range arr {
		if s, ok := el.(core.String); ok {
			e.showText([]byte(s))
			continue
		}
		if n, ok := core.Numeric(el); ok {
			e.st.advance(-n / 1000 * e.st.text.size * e.st.text.hscale / 100)
		}
	}
}

// advanceFor computes the text-space displacement of a shown string. With
// no usable font each byte is guessed at half an em.
func (e *Extractor) advanceFor(data []byte) float64 {
	ts := &e.st.text
	scale := ts.hscale / 100
	if ts.font == nil {
		return float64(len(data)) * (0.5*ts.size + ts.charSp) * scale
	}
	var total float64
	for _, code := range ts.font.Codes(data) {
		w := ts.font.Width(code)/1000*ts.size + ts.charSp
		if code == 32 && !ts.font.Composite() {
			w += ts.wordSp
		}
		total += w
	}
	return total * scale
}

func (e *Extractor) moveTo(x, y float64) {
	px, py := e.st.ctm.Apply(x, y)
	e.cur = [2]float64{px, py}
	e.start = e.cur
	e.hasPoint = true
}

func (e *Extractor) lineTo(x, y float64) {
	if !e.hasPoint {
		e.moveTo(x, y)
		return
	}
	px, py := e.st.ctm.Apply(x, y)
	e.addSegment(e.cur[0], e.cur[1], px, py)
	e.cur = [2]float64{px, py}
}

func (e *Extractor) curveTo(x, y float64) {
	if !e.hasPoint {
		return
	}
	px, py := e.st.ctm.Apply(x, y)
	e.cur = [2]float64{px, py}
}

func (e *Extractor) closePath() {
	if !e.hasPoint || e.cur == e.start {
		return
	}
	e.addSegment(e.cur[0], e.cur[1], e.start[0], e.start[1])
	e.cur = e.start
}

func (e *Extractor) rect(x, y, w, h float64) {
	x0, y0 := e.st.ctm.Apply(x, y)
	x1, y1 := e.st.ctm.Apply(x+w, y)
	x2, y2 := e.st.ctm.Apply(x+w, y+h)
	x3, y3 := e.st.ctm.Apply(x, y+h)
	e.addSegment(x0, y0, x1, y1)
	e.addSegment(x1, y1, x2, y2)
	e.addSegment(x2, y2, x3, y3)
	e.addSegment(x3, y3, x0, y0)
	e.cur = [2]float64{x0, y0}
	e.start = e.cur
	e.hasPoint = true
}

// addSegment records one device-space edge, flipping into top-left
// coordinates. Width is filled in when the path is painted.
func (e *Extractor) addSegment(x0, y0, x1, y1 float64) {
	e.path = append(e.path, model.Segment{
		X0: x0, Y0: e.flip(y0),
		X1: x1, Y1: e.flip(y1),
	})
}

func (e *Extractor) strokeWidth() float64 {
	return e.st.lineWidth * e.st.ctm.ScaleMagnitude()
}

func (e *Extractor) paint(width float64, close bool) {
	if close {
		e.closePath()
	}
	for i := range e.path {
		e.path[i].Width = width
	}
	e.out.Segments = append(e.out.Segments, e.path...)
	e.clearPath()
}

func (e *Extractor) clearPath() {
	e.path = nil
	e.hasPoint = false
}

func (e *Extractor) doXObject(name string, fr *frame, depth int) error {
	stm, ok := fr.lookup("XObject", name).(*core.Stream)
	if !ok {
		return nil
	}
	switch sub, _ := stm.Dict.Name("Subtype"); sub {
	case "Image":
		e.placeImage(name)
	case "Form":
		return e.runForm(name, stm, fr, depth)
	}
	return nil
}

// placeImage records the bounding box of the image's unit square under the
// current transform.
func (e *Extractor) placeImage(name string) {
	x0, y0 := e.st.ctm.Apply(0, 0)
	x1, y1 := e.st.ctm.Apply(1, 0)
	x2, y2 := e.st.ctm.Apply(1, 1)
	x3, y3 := e.st.ctm.Apply(0, 1)
	left := math.Min(math.Min(x0, x1), math.Min(x2, x3))
	right := math.Max(math.Max(x0, x1), math.Max(x2, x3))
	bottom := math.Min(math.Min(y0, y1), math.Min(y2, y3))
	top := math.Max(math.Max(y0, y1), math.Max(y2, y3))
	e.out.Placements = append(e.out.Placements, Placement{
		Name: name,
		Rect: model.NewRect(left, e.flip(top), right, e.flip(bottom)),
	})
}

// runForm executes a form XObject body with the form's matrix and resources,
// then restores the surrounding state.
func (e *Extractor) runForm(name string, stm *core.Stream, fr *frame, depth int) error {
	if depth+1 >= maxFormDepth {
		return nil
	}
	data, err := stm.Decode()
	if err != nil {
		return fmt.Errorf("form %s: %w", name, err)
	}
	ops, err := contentstream.NewParser(data).Parse()
	if err != nil {
		return fmt.Errorf("form %s: %w", name, err)
	}

	saved := e.st
	savedStack := len(e.stack)

	if m, ok := formMatrix(stm.Dict); ok {
		e.st.ctm = e.st.ctm.Mul(m)
	}
	inner := fr
	if resObj, resErr := fr.res.Resolve(stm.Dict.Get("Resources")); resErr == nil {
		if resDict, ok := resObj.(core.Dict); ok {
			inner = newFrame(resDict, fr.res)
		}
	}

	walkErr := e.walk(ops, inner, depth+1)

	e.st = saved
	if len(e.stack) > savedStack {
		e.stack = e.stack[:savedStack]
	}
	return walkErr
}

func formMatrix(dict core.Dict) (model.Matrix, bool) {
	arr, ok := dict.Array("Matrix")
	if !ok || len(arr) != 6 {
		return model.Matrix{}, false
	}
	var m model.Matrix
	for i, el := range arr {
		n, ok := core.Numeric(el)
		if !ok {
			return model.Matrix{}, false
		}
		m[i] = n
	}
	return m, true
}

func (e *Extractor) flip(y float64) float64 {
	return e.height - y
}

func latin1(data []byte) string {
	runes := make([]rune, len(data))
	for i, b := range data {
		runes[i] = rune(b)
	}
	return string(runes)
}
