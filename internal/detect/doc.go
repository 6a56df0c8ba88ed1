// Package detect implements large-file detection: rule evaluation against a
// document's probed size and path, and the deferred-disable state machine
// that drives a document through its open/load cycle.
//
// Detection runs entirely inside the host's event dispatch. The Registrar
// wires a persistent pre-load subscription per configured rule/pattern pair
// and a one-shot post-load continuation per matched document. The Processor
// guarantees each document is processed at most once, even across reloads,
// via the document's detection-state flag.
package detect
