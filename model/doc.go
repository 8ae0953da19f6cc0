// Package model defines the shared records that flow through the conversion
// pipeline: geometric primitives, extracted spans and drawing lines, classified
// text lines, detected tables, classified images, and the assembled document.
//
// Records are treated as values. Pipeline stages receive a slice, derive a new
// slice, and return it; nothing mutates a record after the stage that created
// it. Two conversions never share state.
package model
