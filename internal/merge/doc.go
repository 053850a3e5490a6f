// Package merge implements the combining rules for grocery items: quantity
// arithmetic, duplicate detection and fusion, and positional reordering.
package merge
