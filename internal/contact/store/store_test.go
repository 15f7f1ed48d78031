package store_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/Its-donkey/folio/internal/contact"
	"github.com/Its-donkey/folio/internal/contact/store"
	"github.com/google/go-cmp/cmp"
)

func openStores(t *testing.T) map[string]store.Store {
	t.Helper()
	dir := t.TempDir()
	stores := map[string]store.Store{}
	for driver, name := range map[string]string{"json": "messages.json", "sqlite": "messages.db"} {
		s, err := store.Open(driver, filepath.Join(dir, "data", name))
		if err != nil {
			t.Fatalf("open %s store: %v", driver, err)
		}
		t.Cleanup(func() { s.Close() })
		stores[driver] = s
	}
	return stores
}

func TestStoresSaveAndListNewestFirst(t *testing.T) {
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	msgs := []contact.Message{
		{Name: "Ada", Email: "ada@example.com", Subject: "Hi", Message: "First"},
		{Name: "Grace", Email: "grace@example.com", Subject: "Hello", Message: "Second"},
		{Name: "Linus", Email: "linus@example.com", Subject: "Hey", Message: "Third"},
	}

	for driver, s := range openStores(t) {
		ctx := context.Background()
		empty, err := s.Recent(ctx, 10)
		if err != nil {
			t.Fatalf("%s: recent on empty store: %v", driver, err)
		}
		if len(empty) != 0 {
			t.Fatalf("%s: expected no records, got %d", driver, len(empty))
		}

		var saved []store.Record
		for i, msg := range msgs {
			rec := store.NewRecord(msg, base.Add(time.Duration(i)*time.Minute), "abc123")
			if rec.ID == "" {
				t.Fatalf("%s: expected generated record id", driver)
			}
			if err := s.Save(ctx, rec); err != nil {
				t.Fatalf("%s: save: %v", driver, err)
			}
			saved = append(saved, rec)
		}

		got, err := s.Recent(ctx, 2)
		if err != nil {
			t.Fatalf("%s: recent: %v", driver, err)
		}
		want := []store.Record{saved[2], saved[1]}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("%s: recent mismatch (-want +got):\n%s", driver, diff)
		}

		all, err := s.Recent(ctx, 0)
		if err != nil {
			t.Fatalf("%s: recent all: %v", driver, err)
		}
		if len(all) != 3 || all[2].Contact() != msgs[0] {
			t.Fatalf("%s: expected all records oldest last, got %+v", driver, all)
		}
	}
}

func TestJSONStorePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "messages.json")
	first, err := store.NewJSONStore(path)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	rec := store.NewRecord(contact.Message{Name: "Ada", Email: "a@x.com", Subject: "Hi", Message: "Hello"}, time.Now(), "")
	if err := first.Save(context.Background(), rec); err != nil {
		t.Fatalf("save: %v", err)
	}
	first.Close()
	if err := first.Save(context.Background(), rec); err != store.ErrClosed {
		t.Fatalf("expected ErrClosed after close, got %v", err)
	}

	second, err := store.NewJSONStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	got, err := second.Recent(context.Background(), 0)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(got) != 1 || got[0].ID != rec.ID {
		t.Fatalf("expected persisted record, got %+v", got)
	}
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	if _, err := store.Open("mongo", filepath.Join(t.TempDir(), "x")); err == nil {
		t.Fatalf("expected unknown driver error")
	}
}
