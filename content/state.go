package content

import (
	"github.com/tsawler/pagina/font"
	"github.com/tsawler/pagina/model"
)

// textState is the text-space half of the graphics state.
type textState struct {
	font    *font.Font
	size    float64
	charSp  float64
	wordSp  float64
	hscale  float64 // horizontal scaling, percent
	leading float64
	rise    float64
	render  int
	tm      model.Matrix // text matrix
	tlm     model.Matrix // text line matrix
}

// state is one graphics state snapshot. It is a value type, so saving at q
// and restoring at Q is a plain copy.
type state struct {
	ctm       model.Matrix
	lineWidth float64
	text      textState
}

func newState() state {
	return state{
		ctm:       model.Identity(),
		lineWidth: 1,
		text: textState{
			hscale: 100,
			tm:     model.Identity(),
			tlm:    model.Identity(),
		},
	}
}

// beginText resets the text matrices at BT.
func (s *state) beginText() {
	s.text.tm = model.Identity()
	s.text.tlm = model.Identity()
}

// setTextMatrix handles Tm, which replaces both matrices.
func (s *state) setTextMatrix(m model.Matrix) {
	s.text.tm = m
	s.text.tlm = m
}

// nextLine handles Td: the translation applies ahead of the line matrix and
// the text matrix restarts there.
func (s *state) nextLine(tx, ty float64) {
	s.text.tlm = s.text.tlm.Mul(model.Translation(tx, ty))
	s.text.tm = s.text.tlm
}

// advance moves the text matrix along the baseline after text is shown or a
// TJ adjustment is applied.
func (s *state) advance(tx float64) {
	s.text.tm = s.text.tm.Mul(model.Translation(tx, 0))
}

// effectiveSize is the font size scaled by the text matrix. A document that
// selects a 1pt font and scales it through Tm still reports its rendered
// size.
func (s *state) effectiveSize() float64 {
	return s.text.size * s.text.tm.ScaleMagnitude()
}
