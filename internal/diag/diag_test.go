package diag

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
)

// captureHandler records log records for assertion in tests.
type captureHandler struct {
	mu      sync.Mutex
	records []map[string]slog.Value
}

func (h *captureHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *captureHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	m := map[string]slog.Value{
		"msg":   slog.StringValue(r.Message),
		"level": slog.StringValue(r.Level.String()),
	}
	r.Attrs(func(a slog.Attr) bool {
		m[a.Key] = a.Value
		return true
	})
	h.records = append(h.records, m)
	return nil
}

func (h *captureHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h *captureHandler) WithGroup(string) slog.Handler      { return h }

func (h *captureHandler) recordsFor(msg string) []map[string]slog.Value {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []map[string]slog.Value
	for _, m := range h.records {
		if m["msg"].String() == msg {
			out = append(out, m)
		}
	}
	return out
}

type lineSink struct{ lines []string }

func (s *lineSink) Record(_ context.Context, line string) { s.lines = append(s.lines, line) }

func TestLogSink_warns(t *testing.T) {
	h := &captureHandler{}
	LogSink{Logger: slog.New(h)}.Record(context.Background(), "Failed to read from sensor")

	recs := h.recordsFor("diagnostic")
	if len(recs) != 1 {
		t.Fatalf("got %d diagnostic records; want 1", len(recs))
	}
	if recs[0]["level"].String() != "WARN" || recs[0]["line"].String() != "Failed to read from sensor" {
		t.Errorf("record = %v", recs[0])
	}
}

func TestMulti_fansOut(t *testing.T) {
	a, b := &lineSink{}, &lineSink{}
	Multi{a, nil, b, Discard{}}.Record(context.Background(), "x")
	if len(a.lines) != 1 || len(b.lines) != 1 {
		t.Errorf("a = %v b = %v; want one line each", a.lines, b.lines)
	}
}

func openTestJournal(t *testing.T, h *captureHandler) *Journal {
	t.Helper()
	j, err := OpenJournal(context.Background(), filepath.Join(t.TempDir(), "diag", "journal.db"), slog.New(h))
	if err != nil {
		t.Fatalf("OpenJournal: %v", err)
	}
	t.Cleanup(func() { _ = j.Close() })
	return j
}

func TestJournal_recordAndRecent(t *testing.T) {
	ctx := context.Background()
	j := openTestJournal(t, &captureHandler{})
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := clockwork.NewFakeClockAt(start)
	j.clock = clock

	for _, line := range []string{"first", "second", "third"} {
		j.Record(ctx, line)
		clock.Advance(2 * time.Second)
	}

	got, err := j.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != 2 || got[0].Line != "third" || got[1].Line != "second" {
		t.Fatalf("Recent(2) = %+v; want third, second", got)
	}
	if !got[0].At.Equal(start.Add(4 * time.Second)) {
		t.Errorf("newest at = %v; want %v", got[0].At, start.Add(4*time.Second))
	}

	n, err := j.Count(ctx)
	if err != nil || n != 3 {
		t.Errorf("Count() = %d, %v; want 3, nil", n, err)
	}
	if none, _ := j.Recent(ctx, 0); none != nil {
		t.Errorf("Recent(0) = %v; want nil", none)
	}
}

func TestJournal_migrationsAppliedOnce(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "journal.db")

	h := &captureHandler{}
	j, err := OpenJournal(ctx, path, slog.New(h))
	if err != nil {
		t.Fatalf("OpenJournal: %v", err)
	}
	j.Record(ctx, "kept across restarts")
	_ = j.Close()
	if got := len(h.recordsFor("migration applied")); got != 2 {
		t.Errorf("first open applied %d migrations; want 2", got)
	}

	h2 := &captureHandler{}
	j2, err := OpenJournal(ctx, path, slog.New(h2))
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer func() { _ = j2.Close() }()
	if got := len(h2.recordsFor("migration applied")); got != 0 {
		t.Errorf("reopen applied %d migrations; want 0", got)
	}
	entries, err := j2.Recent(ctx, 10)
	if err != nil || len(entries) != 1 || entries[0].Line != "kept across restarts" {
		t.Errorf("Recent after reopen = %+v, %v", entries, err)
	}
}

func TestJournal_inMemory(t *testing.T) {
	ctx := context.Background()
	j, err := OpenJournal(ctx, ":memory:", slog.New(&captureHandler{}))
	if err != nil {
		t.Fatalf("OpenJournal(:memory:): %v", err)
	}
	defer func() { _ = j.Close() }()
	if err := j.Append(ctx, "x"); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if n, _ := j.Count(ctx); n != 1 {
		t.Errorf("Count() = %d; want 1", n)
	}
}

func TestJournal_sqlIsTraced(t *testing.T) {
	h := &captureHandler{}
	j := openTestJournal(t, h)
	if err := j.Append(context.Background(), "traced"); err != nil {
		t.Fatalf("Append: %v", err)
	}
	recs := h.recordsFor("sql")
	if len(recs) == 0 {
		t.Fatal("expected sql debug records")
	}
	last := recs[len(recs)-1]
	if last["op"].String() != "exec" {
		t.Errorf("op = %q; want exec", last["op"].String())
	}
	if last["sql"].String() != `INSERT INTO read_failures (at, line) VALUES (?, ?)` {
		t.Errorf("sql = %q", last["sql"].String())
	}
}

func TestJournal_recordLogsStorageErrors(t *testing.T) {
	h := &captureHandler{}
	j := openTestJournal(t, h)
	_ = j.Close()

	j.Record(context.Background(), "lost")
	if len(h.recordsFor("diagnostic journal write failed")) != 1 {
		t.Error("expected a logged journal write failure")
	}
}

func TestBuildDSN(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{in: "diag.db", want: "file:diag.db?_foreign_keys=on&_busy_timeout=5000&_journal_mode=WAL"},
		{in: "file:x.db?cache=shared", want: "file:x.db?cache=shared&_foreign_keys=on&_busy_timeout=5000&_journal_mode=WAL"},
	}
	for _, tt := range tests {
		got, err := buildDSN(tt.in)
		if err != nil {
			t.Fatalf("buildDSN(%q) error = %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("buildDSN(%q) = %q; want %q", tt.in, got, tt.want)
		}
	}
	if _, err := buildDSN(""); err == nil {
		t.Error("buildDSN(\"\") error = nil; want error")
	}
}
