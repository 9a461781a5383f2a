package store

import (
	"fmt"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestStore(t *testing.T) *MessageStore {
	t.Helper()
	// named per-test memory db so pooled connections share state
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	s := New(db)
	if err := s.Migrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return s
}

func TestCreateAssignsIncreasingIDs(t *testing.T) {
	s := newTestStore(t)

	var lastID uint
	var lastTS int64
	for i := 0; i < 5; i++ {
		msg, err := s.Create("temp=21.5", nil, "")
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if msg.ID <= lastID {
			t.Fatalf("expected id > %d, got %d", lastID, msg.ID)
		}
		if ts := msg.ServerTimestamp.UnixNano(); ts < lastTS {
			t.Fatalf("server timestamp went backwards: %d < %d", ts, lastTS)
		} else {
			lastTS = ts
		}
		lastID = msg.ID
	}
}

func TestCreateDefaultsSource(t *testing.T) {
	s := newTestStore(t)

	msg, err := s.Create("hello", nil, "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if msg.Source != "esp32_color_sensor" {
		t.Fatalf("expected default source, got %q", msg.Source)
	}

	msg, err = s.Create("hello", nil, "bench_rig")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if msg.Source != "bench_rig" {
		t.Fatalf("expected explicit source kept, got %q", msg.Source)
	}
}

func TestRoundTrip(t *testing.T) {
	s := newTestStore(t)

	ts := "2025-03-01T10:00:00"
	created, err := s.Create("temp=21.5", &ts, "esp32_color_sensor")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := s.GetByID(created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Message != "temp=21.5" || got.Source != "esp32_color_sensor" {
		t.Fatalf("round trip mismatch: %+v", got)
	}
	if got.ClientTimestamp == nil || *got.ClientTimestamp != ts {
		t.Fatalf("client timestamp mismatch: %v", got.ClientTimestamp)
	}
}

func TestListPaginationNewestFirst(t *testing.T) {
	s := newTestStore(t)

	for i := 0; i < 10; i++ {
		if _, err := s.Create("msg", nil, ""); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	// pages of 3 must reproduce the full newest-first order
	var seen []uint
	for offset := 0; ; offset += 3 {
		page, err := s.List(3, offset)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(page) == 0 {
			break
		}
		if len(page) > 3 {
			t.Fatalf("page larger than limit: %d", len(page))
		}
		for _, m := range page {
			seen = append(seen, m.ID)
		}
	}

	if len(seen) != 10 {
		t.Fatalf("expected 10 ids across pages, got %d", len(seen))
	}
	for i := 1; i < len(seen); i++ {
		if seen[i] >= seen[i-1] {
			t.Fatalf("ids not strictly descending: %v", seen)
		}
	}
}

func TestGetLatest(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.GetLatest(); !IsNotFound(err) {
		t.Fatalf("expected not found on empty store, got %v", err)
	}

	s.Create("first", nil, "")
	last, _ := s.Create("second", nil, "")

	got, err := s.GetLatest()
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if got.ID != last.ID || got.Message != "second" {
		t.Fatalf("expected newest row, got %+v", got)
	}
}

func TestSearchCaseInsensitiveSubstring(t *testing.T) {
	s := newTestStore(t)

	s.Create("Hello World", nil, "")
	s.Create("unrelated", nil, "")

	for _, q := range []string{"hello", "WORLD", "lo Wo"} {
		msgs, err := s.Search(q, 10)
		if err != nil {
			t.Fatalf("search %q: %v", q, err)
		}
		if len(msgs) != 1 || msgs[0].Message != "Hello World" {
			t.Fatalf("search %q: expected the one match, got %v", q, msgs)
		}
	}

	msgs, err := s.Search("absent", 10)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(msgs) != 0 {
		t.Fatalf("expected no matches, got %v", msgs)
	}
}

func TestSearchNewestFirstCapped(t *testing.T) {
	s := newTestStore(t)

	for i := 0; i < 5; i++ {
		s.Create("needle", nil, "")
	}
	msgs, err := s.Search("needle", 3)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(msgs) != 3 {
		t.Fatalf("expected limit applied, got %d", len(msgs))
	}
	if msgs[0].ID < msgs[1].ID || msgs[1].ID < msgs[2].ID {
		t.Fatalf("expected newest-first, got %v", msgs)
	}
}

func TestStats(t *testing.T) {
	s := newTestStore(t)

	st, err := s.Stats()
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if st.TotalMessages != 0 || st.FirstMessageTime != nil || st.LastMessageTime != nil {
		t.Fatalf("expected empty stats, got %+v", st)
	}

	first, _ := s.Create("a", nil, "")
	last, _ := s.Create("b", nil, "")

	st, err = s.Stats()
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if st.TotalMessages != 2 {
		t.Fatalf("expected total 2, got %d", st.TotalMessages)
	}
	if !st.FirstMessageTime.Equal(first.ServerTimestamp) || !st.LastMessageTime.Equal(last.ServerTimestamp) {
		t.Fatalf("stats timestamps mismatch: %+v", st)
	}
}

func TestDeleteByID(t *testing.T) {
	s := newTestStore(t)

	msg, _ := s.Create("doomed", nil, "")
	deleted, err := s.DeleteByID(msg.ID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if deleted.ID != msg.ID || deleted.Message != "doomed" {
		t.Fatalf("expected deleted record echoed, got %+v", deleted)
	}
	if _, err := s.GetByID(msg.ID); !IsNotFound(err) {
		t.Fatalf("expected row gone, got %v", err)
	}

	if _, err := s.DeleteByID(9999); !IsNotFound(err) {
		t.Fatalf("expected not found for unknown id, got %v", err)
	}
}

func TestDeleteAllReturnsPriorCount(t *testing.T) {
	s := newTestStore(t)

	for i := 0; i < 4; i++ {
		s.Create("x", nil, "")
	}
	count, err := s.DeleteAll()
	if err != nil {
		t.Fatalf("delete all: %v", err)
	}
	if count != 4 {
		t.Fatalf("expected prior count 4, got %d", count)
	}

	msgs, err := s.List(10, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(msgs) != 0 {
		t.Fatalf("expected empty store, got %d rows", len(msgs))
	}
}
