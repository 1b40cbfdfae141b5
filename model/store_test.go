// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package model_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/mdhender/fnrenum/model"
)

func newStore(t *testing.T) *model.Store {
	t.Helper()
	store, err := model.NewStore(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStore_RecordRun(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	createdAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	doc := &model.Document{
		Name:      "notes.md",
		SHA256:    "abc123",
		Slots:     3,
		CreatedAt: createdAt,
	}
	remaps := []*model.Remap{
		{Original: "2", Renumbered: "1"},
		{Original: "1", Renumbered: "2"},
		{Original: "9", Renumbered: "3", Orphan: true},
	}
	id, err := store.RecordRun(ctx, doc, remaps)
	if err != nil {
		t.Fatalf("RecordRun: %v", err)
	}
	if id == 0 || doc.ID != id {
		t.Fatalf("RecordRun: id = %d, doc.ID = %d", id, doc.ID)
	}

	got, err := store.DocumentBySHA256(ctx, "abc123")
	if err != nil {
		t.Fatalf("DocumentBySHA256: %v", err)
	}
	want := &model.Document{
		ID:        id,
		Name:      "notes.md",
		SHA256:    "abc123",
		Slots:     3,
		CreatedAt: createdAt,
		Remaps: []*model.Remap{
			{DocumentID: id, Seq: 1, Original: "2", Renumbered: "1"},
			{DocumentID: id, Seq: 2, Original: "1", Renumbered: "2"},
			{DocumentID: id, Seq: 3, Original: "9", Renumbered: "3", Orphan: true},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("DocumentBySHA256 mismatch (-want +got):\n%s", diff)
	}
}

func TestStore_DocumentBySHA256_NotFound(t *testing.T) {
	store := newStore(t)
	got, err := store.DocumentBySHA256(context.Background(), "missing")
	if err != nil {
		t.Fatalf("DocumentBySHA256: %v", err)
	}
	if got != nil {
		t.Fatalf("DocumentBySHA256 = %+v, want nil", got)
	}
}

func TestStore_Documents(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	for _, name := range []string{"a.md", "b.md", "a.md"} {
		doc := &model.Document{Name: name, SHA256: "sum-" + name, IgnoreNonnumeric: name == "b.md"}
		if _, err := store.RecordRun(ctx, doc, nil); err != nil {
			t.Fatalf("RecordRun(%s): %v", name, err)
		}
	}

	docs, err := store.Documents(ctx)
	if err != nil {
		t.Fatalf("Documents: %v", err)
	}
	if len(docs) != 3 {
		t.Fatalf("Documents: got %d, want 3", len(docs))
	}
	// newest first
	if docs[0].ID != 3 || docs[2].ID != 1 {
		t.Errorf("Documents: ids %d..%d, want 3..1", docs[0].ID, docs[2].ID)
	}
	if !docs[1].IgnoreNonnumeric {
		t.Errorf("Documents[1].IgnoreNonnumeric = false, want true")
	}

	// the latest run wins for a repeated hash
	got, err := store.DocumentBySHA256(ctx, "sum-a.md")
	if err != nil {
		t.Fatalf("DocumentBySHA256: %v", err)
	}
	if got == nil || got.ID != 3 {
		t.Fatalf("DocumentBySHA256: got %+v, want id 3", got)
	}

	stats, err := store.TableStats(ctx)
	if err != nil {
		t.Fatalf("TableStats: %v", err)
	}
	if stats["documents"] != 3 || stats["remaps"] != 0 {
		t.Errorf("TableStats = %v, want documents 3, remaps 0", stats)
	}
}

func TestStore_RecordRun_DuplicateOriginal(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	doc := &model.Document{Name: "dup.md", SHA256: "dup"}
	remaps := []*model.Remap{
		{Original: "1", Renumbered: "2"},
		{Original: "1", Renumbered: "3"},
	}
	if _, err := store.RecordRun(ctx, doc, remaps); err == nil {
		t.Fatalf("RecordRun with duplicate original: want error")
	}

	// the transaction is rolled back
	docs, err := store.Documents(ctx)
	if err != nil {
		t.Fatalf("Documents: %v", err)
	}
	if len(docs) != 0 {
		t.Fatalf("Documents: got %d, want 0", len(docs))
	}
}
