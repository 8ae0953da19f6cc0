// Package reader opens PDF documents and resolves their object graphs.
//
// The whole file is held in memory, which keeps object loading a matter of
// seeking into a byte slice:
//
//	r, err := reader.Open("document.pdf")
//	if err != nil {
//	    return err
//	}
//	pages, err := r.Pages()
//
// The Reader implements pages.Resolver, chasing indirect references through
// the cross-reference index with an object cache in front. Objects stored in
// compressed object streams are unpacked transparently. Image XObjects are
// extracted with ExtractImages, which re-encodes raster data as PNG and
// passes JPEG payloads through untouched.
//
// Encrypted documents are rejected at open time.
package reader
