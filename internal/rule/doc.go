// Package rule defines the size/pattern rules that drive large-file
// detection.
//
// A rule pairs a size threshold (in rounded size-units) with a set of path
// glob patterns and an ordered list of feature names. Rules are immutable
// once loaded and are evaluated independently of one another; there is no
// cross-rule merging, sorting, or short-circuiting contract.
package rule
