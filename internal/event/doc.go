// Package event provides the synchronous event bus the detection pipeline
// hangs off.
//
// The bus models the host editor's trigger mechanism: pre-load subscriptions
// are persistent and fire on every matching document open; post-load
// continuations are one-shot subscriptions that cancel themselves after
// delivery. Delivery is strictly synchronous and ordered — Publish invokes
// matching handlers in priority order in the caller's goroutine, and the
// first handler error aborts delivery and propagates to the publisher.
// Handler panics are recovered and surfaced as PanicError.
package event
