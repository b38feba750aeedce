package memory

import (
	"context"
	"testing"

	"forest-quiz-hub/internal/domain"
)

func TestLeaderboardStoreCopiesOnLoadAndSave(t *testing.T) {
	ctx := context.Background()
	store := NewLeaderboardStore()

	in := []domain.AttemptRecord{{ID: "a", DisplayName: "Ada", Score: 5}}
	if err := store.Save(ctx, in); err != nil {
		t.Fatalf("save: %v", err)
	}
	in[0].DisplayName = "mutated"

	out, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(out) != 1 || out[0].DisplayName != "Ada" {
		t.Fatalf("expected stored copy to be unaffected, got %+v", out)
	}

	out[0].Score = 0
	again, _ := store.Load(ctx)
	if again[0].Score != 5 {
		t.Fatalf("expected loaded slice to be a copy, got score %d", again[0].Score)
	}
	if store.Len() != 1 {
		t.Fatalf("expected 1 row, got %d", store.Len())
	}
}
