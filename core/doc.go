// Package core implements the low-level PDF file format: the object model
// (booleans, numbers, strings, names, arrays, dictionaries, streams, and
// indirect references), a tokenizer and parser for objects serialized in a
// file, cross-reference tables and streams, and stream filter decoding.
//
// The package works over an in-memory byte buffer. Offsets from the
// cross-reference table index directly into that buffer, which keeps random
// object access cheap and makes damaged-offset recovery a matter of
// re-scanning a slice.
package core
