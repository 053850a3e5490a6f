// Package classify assigns grocery items to store sections. It matches
// normalized item names against the learned keyword catalog first and falls
// back to the language model when no rule applies, persisting successful
// model answers as new keywords so the same item never needs the model twice.
package classify
