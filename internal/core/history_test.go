package core

import (
	"errors"
	"fmt"
	"testing"
)

func testItem(preview string) HistoryItem {
	return NewHistoryItem(preview, AnalysisResult{
		IsPhishing:           false,
		RiskLevel:            RiskLow,
		SuspiciousIndicators: []string{},
		Recommendation:       "none",
		Summary:              "ok",
		TechnicalDetails:     "details",
	})
}

func TestHistoryStore_NewestFirst(t *testing.T) {
	store := NewHistoryStore()

	store.Record(testItem("first"))
	store.Record(testItem("second"))
	store.Record(testItem("third"))

	items := store.Items()
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	if items[0].EmailPreview != "third" || items[2].EmailPreview != "first" {
		t.Errorf("items not in newest-first order: %v", previews(items))
	}
}

func TestHistoryStore_EvictsOldestBeyondCapacity(t *testing.T) {
	store := NewHistoryStore()

	for i := 0; i < HistoryCapacity+1; i++ {
		store.Record(testItem(fmt.Sprintf("email-%d", i)))
	}

	items := store.Items()
	if len(items) != HistoryCapacity {
		t.Fatalf("expected %d items after overflow, got %d", HistoryCapacity, len(items))
	}
	// The first recorded item is gone; the newest is in front.
	if items[0].EmailPreview != fmt.Sprintf("email-%d", HistoryCapacity) {
		t.Errorf("expected newest item first, got %q", items[0].EmailPreview)
	}
	for _, item := range items {
		if item.EmailPreview == "email-0" {
			t.Error("oldest item should have been evicted")
		}
	}
	if items[len(items)-1].EmailPreview != "email-1" {
		t.Errorf("expected email-1 as oldest survivor, got %q", items[len(items)-1].EmailPreview)
	}
}

func TestHistoryStore_SelectByID(t *testing.T) {
	store := NewHistoryStore()

	wanted := testItem("wanted")
	store.Record(testItem("other"))
	store.Record(wanted)

	got, err := store.Select(wanted.ID)
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if got.EmailPreview != "wanted" {
		t.Errorf("expected preview %q, got %q", "wanted", got.EmailPreview)
	}
}

func TestHistoryStore_SelectUnknownID(t *testing.T) {
	store := NewHistoryStore()
	store.Record(testItem("only"))

	_, err := store.Select("no-such-id")
	if !errors.Is(err, ErrHistoryNotFound) {
		t.Fatalf("expected ErrHistoryNotFound, got %v", err)
	}
}

func TestHistoryStore_ItemsReturnsCopy(t *testing.T) {
	store := NewHistoryStore()
	store.Record(testItem("original"))

	items := store.Items()
	items[0].EmailPreview = "mutated"

	if store.Items()[0].EmailPreview != "original" {
		t.Error("mutating the returned slice leaked into the store")
	}
}

func previews(items []HistoryItem) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.EmailPreview
	}
	return out
}
