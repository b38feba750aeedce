package scoreboard_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"forest-quiz-hub/internal/domain"
	"forest-quiz-hub/internal/infra/memory"
	"forest-quiz-hub/internal/scoreboard"
)

var base = time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)

func TestClassifyFiveQuestions(t *testing.T) {
	want := map[int]domain.Tier{
		5: domain.TierTop,
		4: domain.TierMid,
		3: domain.TierMid,
		2: domain.TierBase,
		1: domain.TierBase,
		0: domain.TierBase,
	}
	for score, tier := range want {
		got, err := scoreboard.Classify(score, 5)
		if err != nil {
			t.Fatalf("classify %d/5: %v", score, err)
		}
		if got != tier {
			t.Fatalf("classify %d/5: expected %s, got %s", score, tier, got)
		}
	}
}

func TestClassifyMidBoundaryInclusive(t *testing.T) {
	// ceil(0.6*T) for T = 1..12
	thresholds := []int{1, 2, 2, 3, 3, 4, 5, 5, 6, 6, 7, 8}
	for i, threshold := range thresholds {
		total := i + 1
		got, err := scoreboard.Classify(threshold, total)
		if err != nil {
			t.Fatalf("classify %d/%d: %v", threshold, total, err)
		}
		wantTier := domain.TierMid
		if threshold == total {
			wantTier = domain.TierTop
		}
		if got != wantTier {
			t.Fatalf("classify %d/%d: expected %s, got %s", threshold, total, wantTier, got)
		}
		if threshold > 0 {
			below, _ := scoreboard.Classify(threshold-1, total)
			if below != domain.TierBase {
				t.Fatalf("classify %d/%d: expected base below threshold, got %s", threshold-1, total, below)
			}
		}
	}
}

func TestClassifyRejectsInvalidScores(t *testing.T) {
	for _, tc := range [][2]int{{6, 5}, {-1, 5}, {0, 0}} {
		if _, err := scoreboard.Classify(tc[0], tc[1]); !errors.Is(err, domain.ErrInvalidScore) {
			t.Fatalf("classify %d/%d: expected ErrInvalidScore, got %v", tc[0], tc[1], err)
		}
	}
}

func TestOutcomeCarriesGlyph(t *testing.T) {
	out, err := scoreboard.Outcome(5, 5)
	if err != nil {
		t.Fatalf("outcome: %v", err)
	}
	if out.Tier != domain.TierTop || out.Glyph != domain.TierTop.Glyph() {
		t.Fatalf("unexpected outcome %+v", out)
	}
}

func TestAccuracyPercentRounds(t *testing.T) {
	cases := map[[2]int]int{{5, 5}: 100, {3, 5}: 60, {1, 3}: 33, {2, 3}: 67, {1, 8}: 13}
	for in, want := range cases {
		if got := scoreboard.AccuracyPercent(in[0], in[1]); got != want {
			t.Fatalf("accuracy %d/%d: expected %d, got %d", in[0], in[1], want, got)
		}
	}
}

func TestRecordKeepsScoreThenRecencyOrder(t *testing.T) {
	ctx := context.Background()
	engine := scoreboard.NewEngine(memory.NewLeaderboardStore())

	record(t, engine, "three", 3, base)
	record(t, engine, "five", 5, base.Add(time.Minute))
	record(t, engine, "four", 4, base.Add(2*time.Minute))

	entries, err := engine.Entries(ctx)
	if err != nil {
		t.Fatalf("entries: %v", err)
	}
	assertNames(t, entries, "five", "four", "three")
}

func TestRecordTieBreaks(t *testing.T) {
	ctx := context.Background()
	engine := scoreboard.NewEngine(memory.NewLeaderboardStore())

	record(t, engine, "older", 4, base)
	record(t, engine, "newer", 4, base.Add(time.Hour))
	record(t, engine, "first-same-instant", 2, base)
	record(t, engine, "second-same-instant", 2, base)

	entries, err := engine.Entries(ctx)
	if err != nil {
		t.Fatalf("entries: %v", err)
	}
	assertNames(t, entries, "newer", "older", "second-same-instant", "first-same-instant")
}

func TestRecordBuildsAttemptRecord(t *testing.T) {
	ctx := context.Background()
	engine := scoreboard.NewEngine(memory.NewLeaderboardStore(), scoreboard.WithIDGenerator(func() string { return "rec-1" }))

	out, _ := scoreboard.Outcome(3, 5)
	rec, err := engine.Record(ctx, scoreboard.Attempt{
		Identity:    domain.Identity{DisplayName: "  Ada "},
		Outcome:     out,
		DomainName:  "Amazon Rainforest",
		TopicName:   "Detecting Forest Density",
		CompletedAt: base,
	})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if rec.ID != "rec-1" || rec.DisplayName != "Ada" || rec.AccuracyPercent != 60 || rec.Tier != domain.TierMid || rec.Seq != 1 {
		t.Fatalf("unexpected record %+v", rec)
	}
}

func TestRecordRejectsAnonymous(t *testing.T) {
	engine := scoreboard.NewEngine(memory.NewLeaderboardStore())
	out, _ := scoreboard.Outcome(3, 5)
	_, err := engine.Record(context.Background(), scoreboard.Attempt{Outcome: out, CompletedAt: base})
	if !errors.Is(err, domain.ErrMalformedIdentity) {
		t.Fatalf("expected malformed identity, got %v", err)
	}
}

func TestCapacityEvictsLowestRanked(t *testing.T) {
	ctx := context.Background()
	store := memory.NewLeaderboardStore()
	engine := scoreboard.NewEngine(store)

	for i := 0; i < scoreboard.DefaultCapacity; i++ {
		record(t, engine, fmt.Sprintf("player-%02d", i), 3+i%3, base.Add(time.Duration(i)*time.Minute))
	}
	if store.Len() != scoreboard.DefaultCapacity {
		t.Fatalf("expected full board, got %d", store.Len())
	}
	before, _ := engine.Entries(ctx)

	rec := record(t, engine, "straggler", 0, base.Add(time.Hour))
	if store.Len() != scoreboard.DefaultCapacity {
		t.Fatalf("expected board capped at %d, got %d", scoreboard.DefaultCapacity, store.Len())
	}
	after, _ := engine.Entries(ctx)
	for i := range before {
		if before[i].ID != after[i].ID {
			t.Fatalf("expected board unchanged at %d: %s vs %s", i, before[i].ID, after[i].ID)
		}
	}
	if _, ok, _ := engine.RankOf(ctx, rec.DisplayName); ok {
		t.Fatalf("expected evicted entry to be unrankable")
	}

	record(t, engine, "champion", 5, base.Add(2*time.Hour))
	if rank, ok, _ := engine.RankOf(ctx, "champion"); !ok || rank != 1 {
		t.Fatalf("expected champion at rank 1, got %d (found=%v)", rank, ok)
	}
	if store.Len() != scoreboard.DefaultCapacity {
		t.Fatalf("expected board capped after eviction, got %d", store.Len())
	}
}

func TestWithCapacity(t *testing.T) {
	ctx := context.Background()
	engine := scoreboard.NewEngine(memory.NewLeaderboardStore(), scoreboard.WithCapacity(2))
	record(t, engine, "a", 1, base)
	record(t, engine, "b", 2, base)
	record(t, engine, "c", 3, base)

	entries, _ := engine.Entries(ctx)
	assertNames(t, entries, "c", "b")
}

func TestRankOf(t *testing.T) {
	ctx := context.Background()
	engine := scoreboard.NewEngine(memory.NewLeaderboardStore())

	record(t, engine, "Grace", 4, base)
	record(t, engine, "Ada", 5, base.Add(time.Minute))
	record(t, engine, "Grace", 2, base.Add(2*time.Minute))

	if rank, ok, err := engine.RankOf(ctx, "Ada"); err != nil || !ok || rank != 1 {
		t.Fatalf("expected Ada at 1, got %d ok=%v err=%v", rank, ok, err)
	}
	if rank, ok, _ := engine.RankOf(ctx, "Grace"); !ok || rank != 2 {
		t.Fatalf("expected Grace's best entry at 2, got %d ok=%v", rank, ok)
	}
	if _, ok, err := engine.RankOf(ctx, "Linus"); ok || err != nil {
		t.Fatalf("expected unknown name to be not found, got ok=%v err=%v", ok, err)
	}
}

func TestFilteredViewFiltersBeforeLimiting(t *testing.T) {
	ctx := context.Background()
	engine := scoreboard.NewEngine(memory.NewLeaderboardStore())

	for i := 0; i < 12; i++ {
		record(t, engine, fmt.Sprintf("top-%02d", i), 5, base.Add(time.Duration(i)*time.Minute))
	}
	record(t, engine, "mid-a", 4, base)
	record(t, engine, "mid-b", 3, base.Add(time.Minute))
	record(t, engine, "base-a", 1, base)

	all, err := engine.FilteredView(ctx, domain.AllTiers(), 10)
	if err != nil {
		t.Fatalf("view: %v", err)
	}
	if len(all) != 10 || all[0].DisplayName != "top-11" {
		t.Fatalf("unexpected global view %+v", all)
	}

	mid, err := engine.FilteredView(ctx, domain.OnlyTier(domain.TierMid), 10)
	if err != nil {
		t.Fatalf("view: %v", err)
	}
	assertNames(t, mid, "mid-a", "mid-b")

	defaults, _ := engine.FilteredView(ctx, domain.AllTiers(), 0)
	if len(defaults) != scoreboard.DefaultViewLimit {
		t.Fatalf("expected default limit %d, got %d", scoreboard.DefaultViewLimit, len(defaults))
	}
}

func TestSeedDerivesTiers(t *testing.T) {
	ctx := context.Background()
	engine := scoreboard.NewEngine(memory.NewLeaderboardStore())

	err := engine.Seed(ctx, []domain.AttemptRecord{
		{DisplayName: "Carlos Silva", Score: 2, TotalQuestions: 5, CompletedAt: base},
		{DisplayName: "Alex Chen", Score: 5, TotalQuestions: 5, CompletedAt: base},
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	entries, _ := engine.Entries(ctx)
	assertNames(t, entries, "Alex Chen", "Carlos Silva")
	if entries[0].Tier != domain.TierTop || entries[1].Tier != domain.TierBase || entries[1].AccuracyPercent != 40 {
		t.Fatalf("unexpected seeded rows %+v", entries)
	}

	if err := engine.Seed(ctx, []domain.AttemptRecord{{DisplayName: "bad", Score: 9, TotalQuestions: 5}}); !errors.Is(err, domain.ErrInvalidScore) {
		t.Fatalf("expected invalid seed to fail, got %v", err)
	}
}

func TestStoreErrorsPropagate(t *testing.T) {
	engine := scoreboard.NewEngine(failingStore{})
	out, _ := scoreboard.Outcome(1, 5)
	_, err := engine.Record(context.Background(), scoreboard.Attempt{Identity: domain.Identity{DisplayName: "Ada"}, Outcome: out})
	if !errors.Is(err, errStore) {
		t.Fatalf("expected store error, got %v", err)
	}
}

var errStore = errors.New("store down")

type failingStore struct{}

func (failingStore) Load(context.Context) ([]domain.AttemptRecord, error) { return nil, errStore }
func (failingStore) Save(context.Context, []domain.AttemptRecord) error   { return errStore }

func record(t *testing.T, engine *scoreboard.Engine, name string, score int, at time.Time) domain.AttemptRecord {
	t.Helper()
	out, err := scoreboard.Outcome(score, 5)
	if err != nil {
		t.Fatalf("outcome: %v", err)
	}
	rec, err := engine.Record(context.Background(), scoreboard.Attempt{
		Identity:    domain.Identity{DisplayName: name},
		Outcome:     out,
		DomainName:  "Sundarbans",
		TopicName:   "Detecting Changes Over Time",
		CompletedAt: at,
	})
	if err != nil {
		t.Fatalf("record %s: %v", name, err)
	}
	return rec
}

func assertNames(t *testing.T, records []domain.AttemptRecord, names ...string) {
	t.Helper()
	if len(records) != len(names) {
		t.Fatalf("expected %d records, got %d", len(names), len(records))
	}
	for i, name := range names {
		if records[i].DisplayName != name {
			t.Fatalf("position %d: expected %s, got %s", i+1, name, records[i].DisplayName)
		}
	}
}
