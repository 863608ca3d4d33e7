package ranking

import (
	"math/rand"
	"sort"
	"testing"
)

func TestIndex_Empty(t *testing.T) {
	idx := NewIndex()
	if idx.Count() != 0 {
		t.Fatalf("expected empty index, got count %d", idx.Count())
	}
	if got := idx.RangeByRank(1, 10); got != nil {
		t.Fatalf("expected nil range on empty index, got %v", got)
	}
	if got := idx.Neighbors(1, 3, 3); got != nil {
		t.Fatalf("expected nil neighbors on empty index, got %v", got)
	}
}

func TestIndex_BasicInsertAndRank(t *testing.T) {
	idx := NewIndex()
	scores := map[int64]Score{
		1: NewScoreFromUnits(100, 0),
		2: NewScoreFromUnits(300, 0),
		3: NewScoreFromUnits(200, 0),
	}
	for id, s := range scores {
		if err := idx.Insert(id, s); err != nil {
			t.Fatalf("Insert(%d): %v", id, err)
		}
	}

	got := idx.RangeByRank(1, 3)
	want := []int64{2, 3, 1} // descending score order
	if len(got) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(got))
	}
	for i, id := range want {
		if got[i].CustomerID != id {
			t.Errorf("rank %d: expected customer %d, got %d", i+1, id, got[i].CustomerID)
		}
		if got[i].Rank != i+1 {
			t.Errorf("rank %d: expected Rank field %d, got %d", i+1, i+1, got[i].Rank)
		}
	}

	if err := idx.Insert(2, NewScoreFromUnits(1, 0)); err != ErrDuplicate {
		t.Errorf("expected ErrDuplicate re-inserting present id, got %v", err)
	}
}

func TestIndex_TieBreakByCustomerID(t *testing.T) {
	idx := NewIndex()
	tie := NewScoreFromUnits(50, 0)
	_ = idx.Insert(20, tie)
	_ = idx.Insert(5, tie)
	_ = idx.Insert(10, tie)

	got := idx.RangeByRank(1, 3)
	want := []int64{5, 10, 20} // equal score, ascending id
	for i, id := range want {
		if got[i].CustomerID != id {
			t.Errorf("position %d: expected %d, got %d", i, id, got[i].CustomerID)
		}
	}
}

func TestIndex_Neighbors(t *testing.T) {
	idx := NewIndex()
	for i := int64(1); i <= 10; i++ {
		_ = idx.Insert(i, NewScoreFromUnits(100-i, 0)) // id 1 has the highest score
	}

	// id 5 sits at rank 5.
	got := idx.Neighbors(5, 2, 2)
	wantIDs := []int64{3, 4, 5, 6, 7}
	if len(got) != len(wantIDs) {
		t.Fatalf("expected %d neighbors, got %d: %v", len(wantIDs), len(got), got)
	}
	for i, id := range wantIDs {
		if got[i].CustomerID != id {
			t.Errorf("position %d: expected %d, got %d", i, id, got[i].CustomerID)
		}
	}

	// Near the top edge, up is clamped by availability rather than erroring.
	got = idx.Neighbors(1, 5, 1)
	if got[0].CustomerID != 1 || len(got) != 2 {
		t.Errorf("expected target first with only 1 follower, got %v", got)
	}

	if got := idx.Neighbors(999, 1, 1); got != nil {
		t.Errorf("expected nil neighbors for absent id, got %v", got)
	}
}

func TestIndex_UpdateScore_InPlaceAndReorder(t *testing.T) {
	idx := NewIndex()
	_ = idx.Insert(1, NewScoreFromUnits(100, 0))
	_ = idx.Insert(2, NewScoreFromUnits(200, 0))
	_ = idx.Insert(3, NewScoreFromUnits(300, 0))

	// 1 stays last: in-place mutation, no reorder.
	if err := idx.UpdateScore(1, NewScoreFromUnits(150, 0)); err != nil {
		t.Fatalf("UpdateScore: %v", err)
	}
	if rank := idx.RankOf(1); rank != 3 {
		t.Errorf("expected rank 3 after in-place update, got %d", rank)
	}

	// 1 jumps to the top: must reorder past 2 and 3.
	if err := idx.UpdateScore(1, NewScoreFromUnits(1000, 0)); err != nil {
		t.Fatalf("UpdateScore: %v", err)
	}
	if rank := idx.RankOf(1); rank != 1 {
		t.Errorf("expected rank 1 after reorder, got %d", rank)
	}
	got := idx.RangeByRank(1, 3)
	if got[0].CustomerID != 1 || got[1].CustomerID != 3 || got[2].CustomerID != 2 {
		t.Errorf("unexpected order after reorder: %v", got)
	}

	if err := idx.UpdateScore(999, NewScoreFromUnits(1, 0)); err != ErrAbsent {
		t.Errorf("expected ErrAbsent for unknown id, got %v", err)
	}
}

func TestIndex_RemoveOnNonPositiveDelta(t *testing.T) {
	idx := NewIndex()
	_ = idx.Insert(1, NewScoreFromUnits(100, 0))
	_ = idx.Insert(2, NewScoreFromUnits(200, 0))

	if err := idx.Remove(1); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if idx.Contains(1) {
		t.Error("expected id 1 to be gone")
	}
	if idx.Count() != 1 {
		t.Errorf("expected count 1, got %d", idx.Count())
	}
	if err := idx.Remove(1); err != ErrAbsent {
		t.Errorf("expected ErrAbsent removing twice, got %v", err)
	}

	// Re-insertion after removal must reorder cleanly.
	if err := idx.Insert(1, NewScoreFromUnits(500, 0)); err != nil {
		t.Fatalf("re-Insert: %v", err)
	}
	if rank := idx.RankOf(1); rank != 1 {
		t.Errorf("expected rank 1 after re-insert, got %d", rank)
	}
}

// TestIndex_LargeScale_MatchesMaterializedSort inserts a large population at
// random scores and checks the index's rank order against a plain sort of
// the same data, along with span/rank consistency invariants.
func TestIndex_LargeScale_MatchesMaterializedSort(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping large-scale skip list test in short mode")
	}

	const n = 100_000
	rng := rand.New(rand.NewSource(42))

	idx := NewIndex()
	type pair struct {
		id    int64
		score Score
	}
	all := make([]pair, 0, n)
	for i := int64(1); i <= n; i++ {
		s := NewScoreFromUnits(rng.Int63n(1_000_000), rng.Int63n(10000))
		all = append(all, pair{id: i, score: s})
		if err := idx.Insert(i, s); err != nil {
			t.Fatalf("Insert(%d): %v", i, err)
		}
	}

	sort.Slice(all, func(i, j int) bool {
		if all[i].score != all[j].score {
			return all[i].score > all[j].score
		}
		return all[i].id < all[j].id
	})

	got := idx.RangeByRank(1, n)
	if len(got) != n {
		t.Fatalf("expected %d entries, got %d", n, len(got))
	}
	for i := range all {
		if got[i].CustomerID != all[i].id {
			t.Fatalf("rank %d: expected customer %d, got %d", i+1, all[i].id, got[i].CustomerID)
		}
		if got[i].Rank != i+1 {
			t.Fatalf("rank %d: Rank field mismatch, got %d", i+1, got[i].Rank)
		}
		if rank := idx.RankOf(all[i].id); rank != i+1 {
			t.Fatalf("RankOf(%d): expected %d, got %d", all[i].id, i+1, rank)
		}
	}

	// Membership equivalence.
	for _, p := range all {
		if !idx.Contains(p.id) {
			t.Fatalf("expected index to contain %d", p.id)
		}
	}
	if idx.Count() != n {
		t.Fatalf("expected count %d, got %d", n, idx.Count())
	}
}

func TestIndex_ForEach_MatchesCanonicalOrder(t *testing.T) {
	idx := NewIndex()
	type pair struct {
		id    int64
		score Score
	}
	seed := []pair{
		{5, NewScoreFromUnits(10, 0)},
		{1, NewScoreFromUnits(30, 0)},
		{3, NewScoreFromUnits(30, 0)},
		{2, NewScoreFromUnits(20, 0)},
	}
	for _, p := range seed {
		if err := idx.Insert(p.id, p.score); err != nil {
			t.Fatalf("Insert(%d): %v", p.id, err)
		}
	}

	var walked []Entry
	idx.ForEach(func(e Entry) bool {
		walked = append(walked, e)
		return true
	})

	want := idx.RangeByRank(1, idx.Count())
	if len(walked) != len(want) {
		t.Fatalf("ForEach produced %d entries, RangeByRank produced %d", len(walked), len(want))
	}
	for i := range want {
		if walked[i] != want[i] {
			t.Errorf("position %d: ForEach gave %+v, RangeByRank gave %+v", i, walked[i], want[i])
		}
	}

	// Early termination: fn returning false stops the walk partway through.
	var partial []Entry
	idx.ForEach(func(e Entry) bool {
		partial = append(partial, e)
		return len(partial) < 2
	})
	if len(partial) != 2 {
		t.Fatalf("expected ForEach to stop after 2 entries, got %d", len(partial))
	}
}

func TestIndex_UpdateScore_IdempotentZeroDelta(t *testing.T) {
	idx := NewIndex()
	_ = idx.Insert(1, NewScoreFromUnits(100, 0))
	before := idx.RankOf(1)
	if err := idx.UpdateScore(1, NewScoreFromUnits(100, 0)); err != nil {
		t.Fatalf("UpdateScore with unchanged score: %v", err)
	}
	if after := idx.RankOf(1); after != before {
		t.Errorf("rank changed on a no-op update: %d -> %d", before, after)
	}
}

func TestLess_CanonicalOrdering(t *testing.T) {
	hi := NewScoreFromUnits(10, 0)
	lo := NewScoreFromUnits(5, 0)
	if !less(hi, 2, lo, 1) {
		t.Error("higher score should precede lower score regardless of id")
	}
	if less(lo, 1, hi, 2) {
		t.Error("lower score must not precede higher score")
	}
	if !less(hi, 1, hi, 2) {
		t.Error("tied score should order by ascending id")
	}
}
