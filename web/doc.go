// Package web turns a classified line stream into the final document model
// and renders it as a standalone HTML page.
//
// Assemble folds lines into sections, emits the table of contents, and places
// detected tables and diagram images by anchor proximity. Render produces the
// complete page: embedded stylesheet, fixed navigation, sectioned body with
// reconstructed lists, professional tables, and base64-inlined images.
//
// RewriteTitle and SplitSections operate on already-rendered documents, so a
// stored conversion can be renamed or broken into per-section pages without
// rerunning the pipeline.
package web
