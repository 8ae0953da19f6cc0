package web

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/tsawler/pagina/layout"
	"github.com/tsawler/pagina/model"
)

const (
	// pagePenalty scales page distance in the placement key so that any
	// same-page candidate beats any cross-page one.
	pagePenalty = 10000
	// crossPageDelta is the vertical-distance component used for tables on
	// a different page than the section anchor.
	crossPageDelta = 1e6
)

// TableAffinity maps a 1-based section number to the table kinds that may be
// placed in it. A table whose kind is affine to no section stays unplaced but
// remains reachable through Document.Tables.
type TableAffinity map[int][]model.TableKind

// DefaultTableAffinity routes detected tables into the first four sections,
// where requirement documents keep their stakeholder, dependency, and
// specification tables.
func DefaultTableAffinity() TableAffinity {
	all := []model.TableKind{model.TableKeyword, model.TableGridVector, model.TableGridText}
	return TableAffinity{1: all, 2: all, 3: all, 4: all}
}

// ImageRule selects the presentation chrome for diagram images placed in a
// section.
type ImageRule int

const (
	// RuleDiagram renders placed images with system-architecture chrome.
	RuleDiagram ImageRule = iota + 1
	// RuleFlowchart renders placed images with process-flowchart chrome.
	RuleFlowchart
)

// ImageRules maps a 1-based section number to the chrome used for diagram
// images placed there. Sections without a rule receive no images.
type ImageRules map[int]ImageRule

// DefaultImageRules places architecture diagrams in section 3 and flowcharts
// in section 5.
func DefaultImageRules() ImageRules {
	return ImageRules{3: RuleDiagram, 5: RuleFlowchart}
}

// Options configure assembly and rendering. Nil maps fall back to the
// defaults; to disable placement entirely, pass empty non-nil maps.
type Options struct {
	Affinity   TableAffinity
	ImageRules ImageRules
}

func (o Options) withDefaults() Options {
	if o.Affinity == nil {
		o.Affinity = DefaultTableAffinity()
	}
	if o.ImageRules == nil {
		o.ImageRules = DefaultImageRules()
	}
	return o
}

// Input carries everything the assembler folds into a document: the
// classified, column-reordered, reflowed line stream plus the detected
// tables and the classified image population.
type Input struct {
	Title     string
	Lines     []model.Line
	Tables    []model.Table
	Images    []model.Image
	PageCount int
	Warnings  []model.Warning
}

// Assemble folds the line stream into a document.
//
// Every main-title line opens a new section and contributes one TOC entry,
// so the TOC length always equals the main-title count. Heading lines become
// body blocks and move the section anchor; the first plain paragraph after a
// main title sets the anchor when no heading has. Lines seen before the first
// main title land in Document.Preamble. After the fold, tables are assigned
// to their nearest affine sections and diagram images are attached to the
// sections named by the image rules.
func Assemble(in Input, opts Options) *model.Document {
	opts = opts.withDefaults()

	doc := &model.Document{
		Title:     in.Title,
		PageCount: in.PageCount,
		Warnings:  in.Warnings,
	}
	for i := range in.Tables {
		t := in.Tables[i]
		doc.Tables = append(doc.Tables, &t)
	}
	for i := range in.Images {
		im := in.Images[i]
		doc.Images = append(doc.Images, &im)
	}

	var (
		current *model.Section
		secNo   int
	)
	finalize := func() {
		if current != nil {
			doc.Sections = append(doc.Sections, *current)
			current = nil
		}
	}
	appendBlock := func(b model.Block) {
		if current != nil {
			current.Body = append(current.Body, b)
		} else {
			doc.Preamble = append(doc.Preamble, b)
		}
	}

	for _, ln := range in.Lines {
		switch ln.Kind {
		case model.MainTitle:
			finalize()
			secNo++
			current = &model.Section{
				Title:  ln.Text,
				Anchor: fmt.Sprintf("section-%d", secNo),
			}
			doc.TOC = append(doc.TOC, model.TOCEntry{Title: ln.Text, Anchor: current.Anchor, Level: 1})

		case model.SectionHeader, model.SubsectionHeader, model.BoldHeader:
			appendBlock(model.Block{
				Kind:  model.BlockHeading,
				Text:  ln.Text,
				Level: headingLevel(ln.Kind),
				Page:  ln.Page,
				Y:     ln.Y0,
			})
			if current != nil {
				current.AnchorPage, current.AnchorY, current.HasAnchor = ln.Page, ln.Y0, true
			}

		default:
			// Single-character paragraphs are extraction artifacts.
			if len(strings.TrimSpace(ln.Text)) <= 1 {
				continue
			}
			if item, ok := layout.ParseListItem(ln.Text, ln.X0); ok {
				appendBlock(model.Block{
					Kind:   model.BlockItem,
					Text:   item.Text,
					Level:  item.Level,
					Marker: itemMarker(item.Kind),
					Page:   ln.Page,
					Y:      ln.Y0,
				})
				continue
			}
			appendBlock(model.Block{Kind: model.BlockParagraph, Text: ln.Text, Page: ln.Page, Y: ln.Y0})
			if current != nil && !current.HasAnchor {
				current.AnchorPage, current.AnchorY, current.HasAnchor = ln.Page, ln.Y0, true
			}
		}
	}
	finalize()

	placeTables(doc, opts.Affinity)
	placeImages(doc, opts.ImageRules)
	return doc
}

// headingLevel maps a classified heading kind to its HTML heading level.
func headingLevel(k model.Kind) int {
	switch k {
	case model.SubsectionHeader:
		return 3
	case model.BoldHeader:
		return 4
	default:
		return 2
	}
}

func itemMarker(k layout.ListKind) model.ListMarker {
	if k == layout.Numbered {
		return model.MarkerNumber
	}
	return model.MarkerBullet
}

// placeTables assigns each table to the affine section nearest to it. Every
// table lands in at most one section: the one minimizing the placement key.
// Within a section, tables are ordered by the same key.
func placeTables(doc *model.Document, affinity TableAffinity) {
	for _, t := range doc.Tables {
		best := -1
		var bestPenalty, bestDelta float64
		for i := range doc.Sections {
			if !kindAllowed(affinity[i+1], t.Kind) {
				continue
			}
			penalty, delta := placementKey(t, &doc.Sections[i])
			if best < 0 || penalty < bestPenalty || (penalty == bestPenalty && delta < bestDelta) {
				best, bestPenalty, bestDelta = i, penalty, delta
			}
		}
		if best >= 0 {
			doc.Sections[best].Tables = append(doc.Sections[best].Tables, t)
		}
	}

	for i := range doc.Sections {
		sec := &doc.Sections[i]
		sort.SliceStable(sec.Tables, func(a, b int) bool {
			pa, da := placementKey(sec.Tables[a], sec)
			pb, db := placementKey(sec.Tables[b], sec)
			if pa != pb {
				return pa < pb
			}
			return da < db
		})
	}
}

// placementKey scores a table against a section anchor; smaller means
// nearer. A table on the anchor page scores (0, |Δy|); one on another page
// scores by page distance alone. Sections without an anchor attract tables
// only when no anchored section competes for them.
func placementKey(t *model.Table, sec *model.Section) (penalty, delta float64) {
	if !sec.HasAnchor {
		return math.Inf(1), math.Inf(1)
	}
	if t.Page != sec.AnchorPage {
		return math.Abs(float64(t.Page-sec.AnchorPage)) * pagePenalty, crossPageDelta
	}
	return 0, math.Abs(t.Y - sec.AnchorY)
}

func kindAllowed(kinds []model.TableKind, k model.TableKind) bool {
	for _, want := range kinds {
		if want == k {
			return true
		}
	}
	return false
}

// placeImages attaches the document's diagram images to every section that
// has an image rule. Watermarks and plain inline images never enter a
// section; they stay reachable through Document.Images.
func placeImages(doc *model.Document, rules ImageRules) {
	var diagrams []*model.Image
	for _, im := range doc.Images {
		if im.Diagram && !im.Watermark {
			diagrams = append(diagrams, im)
		}
	}
	if len(diagrams) == 0 {
		return
	}
	for i := range doc.Sections {
		if _, ok := rules[i+1]; ok {
			doc.Sections[i].Images = append([]*model.Image(nil), diagrams...)
		}
	}
}
