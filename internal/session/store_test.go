package session

import (
	"errors"
	"testing"
	"time"

	"github.com/lmoreno/pbigen/internal/core"
)

func sampleResult() core.GenerationResult {
	return core.GenerationResult{
		Summary: "one story",
		Items: []core.BacklogItem{
			{Title: "Holidays - Policies - US 1.1 - Remove sum validation"},
		},
	}
}

func TestCreateAndGet(t *testing.T) {
	store := NewStore(time.Hour)

	created := store.Create(core.GenerationRequest{Description: "d"}, nil, sampleResult())
	if created.ID == "" {
		t.Fatal("expected a session ID")
	}

	got, err := store.Get(created.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Result.Items[0].Title != created.Result.Items[0].Title {
		t.Error("session should round-trip the result")
	}
}

func TestGetUnknown(t *testing.T) {
	store := NewStore(time.Hour)
	if _, err := store.Get("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}
}

func TestGetExpired(t *testing.T) {
	store := NewStore(-time.Second)
	created := store.Create(core.GenerationRequest{Description: "d"}, nil, sampleResult())

	if _, err := store.Get(created.ID); !errors.Is(err, ErrExpired) {
		t.Errorf("Get() error = %v, want ErrExpired", err)
	}
	if store.Count() != 0 {
		t.Error("expired session should be removed on access")
	}
}

func TestUpdateItem(t *testing.T) {
	store := NewStore(time.Hour)
	created := store.Create(core.GenerationRequest{Description: "d"}, nil, sampleResult())

	edited := created.Result.Items[0]
	edited.Objective = "Allow overlapping policies"
	if err := store.UpdateItem(created.ID, 0, edited); err != nil {
		t.Fatalf("UpdateItem() error = %v", err)
	}

	got, _ := store.Get(created.ID)
	if got.Result.Items[0].Objective != "Allow overlapping policies" {
		t.Error("edit should persist in the session")
	}
}

func TestUpdateItemOutOfRange(t *testing.T) {
	store := NewStore(time.Hour)
	created := store.Create(core.GenerationRequest{Description: "d"}, nil, sampleResult())

	if err := store.UpdateItem(created.ID, 5, core.BacklogItem{Title: "t"}); !errors.Is(err, ErrItemNotFound) {
		t.Errorf("UpdateItem() error = %v, want ErrItemNotFound", err)
	}
}

func TestUpdateItemEmptyTitle(t *testing.T) {
	store := NewStore(time.Hour)
	created := store.Create(core.GenerationRequest{Description: "d"}, nil, sampleResult())

	err := store.UpdateItem(created.ID, 0, core.BacklogItem{})
	if !core.IsValidation(err) {
		t.Errorf("UpdateItem() error = %v, want ValidationError", err)
	}
}

func TestSetHostedURLs(t *testing.T) {
	store := NewStore(time.Hour)
	created := store.Create(core.GenerationRequest{Description: "d"}, nil, sampleResult())

	if err := store.SetHostedURLs(created.ID, map[int]string{1: "https://dev.azure.com/att/1"}); err != nil {
		t.Fatalf("SetHostedURLs() error = %v", err)
	}

	got, _ := store.Get(created.ID)
	if got.HostedURLs[1] != "https://dev.azure.com/att/1" {
		t.Error("hosted URL should persist in the session")
	}
}
