// Package stats aggregates corpus-level statistics over a view of the
// utterance collection.
//
// Compute produces the character alphabet, the whitespace-token vocabulary,
// and an equal-width duration histogram for whatever view it is handed. It is
// a pure function: the same view and options always yield identical output,
// including ordering, so statistics can be compared across dataset variants
// and repeated runs. Characters are compared by exact code point with no
// normalization; case folding and punctuation stripping for vocabulary tokens
// are opt-in.
package stats
