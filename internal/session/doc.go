// Package session owns the mutable state of one interactive analysis session:
// the active view (sort key + filter) over an immutable dataset index, the
// corpus statistics for that view, and the per-utterance feature extraction
// entry point.
//
// One session is active at a time, enforced with a lock file. View state is
// explicit: every query evaluates against the view the session currently
// holds, and statistics are rebuilt from scratch whenever the view changes so
// they can never go stale.
package session
