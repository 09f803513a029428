package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/verte-zerg/fltrdr/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	return openAt(t, filepath.Join(t.TempDir(), "nested", "history.db"))
}

func openAt(t *testing.T, path string) *Store {
	t.Helper()
	st, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() {
		if err := st.Close(); err != nil {
			t.Fatalf("close: %v", err)
		}
	})
	return st
}

func TestInsertAndListSessions(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC)

	files := []string{"a.txt", "b.txt", "a.txt"}
	for i, file := range files {
		_, err := st.InsertSession(ctx, model.ReadingSession{
			StartedAt:  base.Add(time.Duration(i) * time.Hour),
			EndedAt:    base.Add(time.Duration(i)*time.Hour + 10*time.Minute),
			File:       file,
			Words:      100 * (i + 1),
			ActiveMs:   60000,
			AverageWPM: 200 + i*10,
			Progress:   10 * (i + 1),
		})
		if err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	all, err := st.ListSessions(ctx, model.HistoryFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 || all[0].Words != 100 || all[2].Words != 300 {
		t.Fatalf("unexpected sessions %+v", all)
	}
	if !all[0].EndedAt.Equal(base.Add(10 * time.Minute)) {
		t.Fatalf("unexpected ended_at %v", all[0].EndedAt)
	}

	onlyA, err := st.ListSessions(ctx, model.HistoryFilter{File: "a.txt"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(onlyA) != 2 || onlyA[1].AverageWPM != 220 {
		t.Fatalf("unexpected filtered sessions %+v", onlyA)
	}

	last, err := st.ListSessions(ctx, model.HistoryFilter{Last: 2})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(last) != 2 || last[0].File != "b.txt" || last[1].Words != 300 {
		t.Fatalf("unexpected last sessions %+v", last)
	}
}

func TestListFiles(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC)
	for i, file := range []string{"a.txt", "a.txt", "b.txt"} {
		_, err := st.InsertSession(ctx, model.ReadingSession{
			StartedAt: base,
			EndedAt:   base.Add(time.Duration(i) * time.Hour),
			File:      file,
			Words:     50,
			ActiveMs:  1000,
			Progress:  20 * (i + 1),
		})
		if err != nil {
			t.Fatalf("insert: %v", err)
		}
	}
	files, err := st.ListFiles(ctx)
	if err != nil {
		t.Fatalf("list files: %v", err)
	}
	if len(files) != 2 || files[0].File != "b.txt" {
		t.Fatalf("unexpected files %+v", files)
	}
	if files[1].Sessions != 2 || files[1].Words != 100 || files[1].Progress != 40 {
		t.Fatalf("unexpected totals %+v", files[1])
	}
}

func TestReopenKeepsHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	st, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	now := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)
	if _, err := st.InsertSession(context.Background(), model.ReadingSession{
		StartedAt: now,
		EndedAt:   now.Add(time.Minute),
		File:      "book.txt",
		Words:     10,
	}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := st.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	st = openAt(t, path)
	var version int
	if err := st.db.QueryRow(`PRAGMA user_version`).Scan(&version); err != nil {
		t.Fatalf("version: %v", err)
	}
	if version != len(migrations) {
		t.Fatalf("expected schema version %d, got %d", len(migrations), version)
	}
	sessions, err := st.ListSessions(context.Background(), model.HistoryFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(sessions) != 1 || sessions[0].File != "book.txt" {
		t.Fatalf("expected the stored session after reopen, got %+v", sessions)
	}
}

func TestOpenRejectsNewerSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	st := openAt(t, path)
	if _, err := st.db.Exec(`PRAGMA user_version = 99`); err != nil {
		t.Fatalf("set version: %v", err)
	}
	if err := st.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, err := Open(path); err == nil {
		t.Fatalf("expected error for newer schema")
	}
}
