package scrape

import "errors"

// Sentinel kinds for capture errors. ErrCapture covers hard failures
// (network, bad status, unparsable body); ErrNoResult means the page
// was reachable but row extraction yielded nothing usable, which
// callers treat as "skip this cycle" rather than a hard error.
var (
	ErrCapture  = errors.New("leaderboard capture failed")
	ErrNoResult = errors.New("no usable rows extracted")
)
