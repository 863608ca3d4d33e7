package ranking

import "errors"

// Precondition violations on Insert/Remove. These are programming errors:
// the concurrency envelope (internal/leaderboard) guards against them on
// every call path and they should never surface in normal operation.
var (
	ErrDuplicate = errors.New("ranking: customer already present")
	ErrAbsent    = errors.New("ranking: customer not present")
)
