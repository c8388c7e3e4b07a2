// Package ignore decides whether a path is skipped during repository
// discovery.
//
// Patterns follow a practical subset of gitignore syntax:
//
//	build/          directory-only match
//	/vendor         anchored at the scan root
//	docs/generated  substring match anywhere in the path
//	cache**.bin      contains "cache" and ends with ".bin"
//	*.pyc           glob, * matches any run of characters
//	node_modules    path segment match
//	!keep.log       negation
//
// Only * is special; ? and [ match themselves.
//
// [Rules.WithDirs] adds directory names that are pruned when a walk entry's
// base name equals them exactly, without any pattern matching.
//
// Patterns are evaluated in order and the last matching pattern decides.
// This is not gitignore's precedence model: a negation re-includes a path
// even when one of its parent directories was excluded, and there is no
// escaping of '!' or '#'.
//
// A [Rules] value is immutable and safe for concurrent use.
package ignore
