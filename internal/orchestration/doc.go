// Package orchestration coordinates one fetch cycle: it fans the three
// resource fetches out concurrently, joins them, merges every outcome into a
// single Aggregate and hands that aggregate to a listener exactly once. It
// decouples fetching from presentation via the Listener, ProgressReporter and
// ResultPresenter interfaces.
package orchestration
