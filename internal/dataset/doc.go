// Package dataset holds the in-memory utterance collection and answers
// sort/filter queries over it.
//
// An Index is built once from loaded manifest records and is immutable
// afterwards; all queries operate on View values, which are ordered
// subsequences of the original record positions. Views never mutate the
// backing collection, so any number of readers can query concurrently.
// Durations the manifest omits are resolved lazily through a prober and
// memoized per record.
package dataset
