// Package document provides the editor-side document handle that the
// detection pipeline classifies.
//
// A Document carries the attributes detection reads (identity and backing
// path), an option block of feature toggles that disable actions flip, and a
// small document-scoped flag store used for durable per-document markers such
// as the detection state.
package document
