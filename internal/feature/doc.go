// Package feature defines the named, independently disableable editor
// capabilities that large-file detection turns off, and the registry used to
// resolve configured feature names into concrete descriptors.
//
// A feature's deferred/immediate classification is fixed at registration
// time: immediate features are disabled before the document's content
// finishes loading, deferred ones only after.
package feature
