// Package manifest parses line-delimited JSON dataset manifests into utterance
// records.
//
// Each manifest line describes one utterance: an audio file reference, a
// transcript, an optional duration, and arbitrary extra fields that are passed
// through untouched in their original order. Malformed lines are skipped and
// counted rather than failing the load; the load as a whole fails only when
// the file cannot be read or yields zero valid records.
package manifest
