// Package cursor holds the platform neutral cursor model.
//
// An Icon is one bitmap of a fixed size plus its hotspot. A Cursor is a set of
// icons keyed by their pixel size, and an Animated cursor is an ordered list
// of cursors with a delay in milliseconds each. All format codecs and theme
// builders exchange these types.
package cursor
