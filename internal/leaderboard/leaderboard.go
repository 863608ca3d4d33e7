// Package leaderboard implements the concurrency envelope around the Score
// Map and the Ranking Index, and exposes the three external operations as
// the Core type.
//
// Two lock tiers, taken in one fixed order (stripe, then structural), so
// that concurrent updates to the same customer serialize without blocking
// unrelated customers, while the ranking index's structural invariants are
// protected by a single readers/writer lock:
//
//  1. Stripe lock: one of StripeCount exclusive locks, selected by
//     |id| mod StripeCount.
//  2. Structural lock: a single sync.RWMutex over the Ranking Index,
//     held exclusively for Insert/Remove/UpdateScore and shared for
//     RangeByRank/Neighbors/Count.
//
// No operation performs I/O while holding either lock, and there is no
// cancellation channel inside the core; timeout enforcement is left to the
// caller.
package leaderboard

import (
	"sync"

	"rankcore/internal/ranking"
	"rankcore/internal/scoremap"
)

// DefaultStripeCount is the recommended build-time stripe count: 4,096, a
// power of two.
const DefaultStripeCount = 4096

// Entry mirrors ranking.Entry; re-exported here so callers of Core never
// need to import the internal ranking package directly.
type Entry = ranking.Entry

// Score mirrors ranking.Score.
type Score = ranking.Score

// ScoreFromFloat64 converts a decimal delta (as decoded from JSON) into a
// Score, rounding to the nearest representable unit.
func ScoreFromFloat64(f float64) Score {
	return ranking.ScoreFromFloat64(f)
}

// NewScoreFromUnits builds a Score from a whole-number-plus-fraction pair,
// e.g. NewScoreFromUnits(12, 3400) == 12.34.
func NewScoreFromUnits(whole int64, fraction int64) Score {
	return ranking.NewScoreFromUnits(whole, fraction)
}

// ChangeEvent describes the effect of one UpdateScore call, for callers
// that want to react to leaderboard movement (e.g. the live WebSocket
// broadcaster in internal/api). Rank is 0 and Removed is true when the
// customer dropped out of the leaderboard.
type ChangeEvent struct {
	CustomerID int64
	Score      Score
	Rank       int
	Removed    bool
}

// Core is the concurrency envelope plus the two structures it guards. It
// is the sole type callers construct; everything in internal/ranking and
// internal/scoremap is reached only through it.
//
// Listener, if set before Core is shared across goroutines, is invoked
// (outside the structural lock, while the customer's stripe lock is still
// held) after every UpdateScore call that changes observable state. It
// must not block.
type Core struct {
	stripes    []sync.Mutex
	structural sync.RWMutex

	scores   *scoremap.Map
	index    *ranking.Index
	Listener func(ChangeEvent)
}

// NewCore constructs a Core with the given stripe count. Pass
// DefaultStripeCount unless a caller has a specific reason to change it.
func NewCore(stripeCount int) *Core {
	if stripeCount <= 0 {
		stripeCount = DefaultStripeCount
	}
	return &Core{
		stripes: make([]sync.Mutex, stripeCount),
		scores:  scoremap.New(stripeCount),
		index:   ranking.NewIndex(),
	}
}

func (c *Core) stripeFor(id int64) int {
	h := id
	if h < 0 {
		h = -h
	}
	// -math.MinInt64 is still negative, so the remainder can be too.
	s := int(h % int64(len(c.stripes)))
	if s < 0 {
		s = -s
	}
	return s
}

// UpdateScore applies delta to customer id's cumulative score and returns
// the resulting score, following this update path:
//
//  1. Acquire the stripe lock for id.
//  2. Read the current score from the Score Map.
//  3. If absent and delta > 0: insert into the ranking index, record in
//     the map. If absent and delta <= 0: no-op, return delta.
//  4. If present: compute newScore = current + delta. If newScore <= 0,
//     remove from both structures. Otherwise update the ranking index in
//     place or via remove+reinsert, and record the new score.
//
// Callers are expected to have already validated -1000 <= delta <= 1000;
// Core itself places no bound on delta beyond Score's own overflow panic.
func (c *Core) UpdateScore(id int64, delta Score) Score {
	shard := c.stripeFor(id)

	c.stripes[shard].Lock()
	defer c.stripes[shard].Unlock()

	old, hadOld := c.scores.Get(shard, id)
	if !hadOld {
		if !delta.IsPositive() {
			return delta
		}
		c.structural.Lock()
		// Insert can only fail with ErrDuplicate, which would mean the
		// score map and ranking index have desynchronized, a structural
		// invariant violation, not a condition normal operation reaches.
		if err := c.index.Insert(id, delta); err != nil {
			c.structural.Unlock()
			panic(err)
		}
		rank := c.index.RankOf(id)
		c.structural.Unlock()
		c.scores.Set(shard, id, delta)
		c.notify(ChangeEvent{CustomerID: id, Score: delta, Rank: rank})
		return delta
	}

	if delta == 0 {
		// A zero delta for a participant is a no-op, fast-pathed into a
		// read-only verification rather than a structural mutation.
		c.structural.RLock()
		_, stillPresent := c.index.ScoreOf(id)
		c.structural.RUnlock()
		if !stillPresent {
			// Score map and index disagree; treat as the documented
			// drop-on-<=0 outcome rather than surfacing an error here.
			c.scores.Remove(shard, id)
			return old
		}
		return old
	}

	newScore := old.Add(delta)

	if !newScore.IsPositive() {
		c.structural.Lock()
		if err := c.index.Remove(id); err != nil {
			c.structural.Unlock()
			panic(err)
		}
		c.structural.Unlock()
		c.scores.Remove(shard, id)
		c.notify(ChangeEvent{CustomerID: id, Score: newScore, Removed: true})
		return newScore
	}

	c.structural.Lock()
	if err := c.index.UpdateScore(id, newScore); err != nil {
		c.structural.Unlock()
		panic(err)
	}
	rank := c.index.RankOf(id)
	c.structural.Unlock()
	c.scores.Set(shard, id, newScore)
	c.notify(ChangeEvent{CustomerID: id, Score: newScore, Rank: rank})
	return newScore
}

// notify invokes the Listener, if set. Callers run it after releasing the
// structural lock but before their deferred stripe unlock.
func (c *Core) notify(evt ChangeEvent) {
	if c.Listener != nil {
		c.Listener(evt)
	}
}

// GetByRank returns entries with start <= rank <= end, clamped to the
// current participant count. Returns empty on an invalid range.
func (c *Core) GetByRank(start, end int) []Entry {
	c.structural.RLock()
	defer c.structural.RUnlock()
	return c.index.RangeByRank(start, end)
}

// GetNeighbors returns up entries immediately preceding id, id itself,
// then down entries immediately following, in ascending rank order.
// Returns empty if id is absent. up and down must be non-negative;
// negative values are treated as zero.
func (c *Core) GetNeighbors(id int64, up, down int) []Entry {
	if up < 0 {
		up = 0
	}
	if down < 0 {
		down = 0
	}
	c.structural.RLock()
	defer c.structural.RUnlock()
	return c.index.Neighbors(id, up, down)
}

// Count returns the current participant count.
func (c *Core) Count() int {
	c.structural.RLock()
	defer c.structural.RUnlock()
	return c.index.Count()
}
