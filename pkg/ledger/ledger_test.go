package ledger

import (
	"context"
	"strings"
	"testing"

	"malscraper/pkg/blob"
	"malscraper/pkg/logger"
)

func TestKey(t *testing.T) {
	if got := Key("output/", "users_1"); got != "output/progress_users_1.txt" {
		t.Errorf("Unexpected key: %s", got)
	}
}

func TestLoadAbsent(t *testing.T) {
	store := blob.NewMemStore()

	l := Load(context.Background(), store, "output/progress_users_1.txt", logger.GetLogger())
	if l.DoneCount() != 0 {
		t.Errorf("Expected empty ledger on first run, got %d done", l.DoneCount())
	}
}

func TestMarkDoneAndIsDone(t *testing.T) {
	l := New()

	if l.IsDone("alice") {
		t.Error("alice should not be done yet")
	}

	l.MarkStart("alice")
	if l.IsDone("alice") {
		t.Error("START must not count as done")
	}

	l.MarkDone("alice")
	if !l.IsDone("alice") {
		t.Error("alice should be done")
	}
}

func TestCaseNormalization(t *testing.T) {
	l := New()
	l.MarkDone("AliceChan")

	// Comparison is lowercase-normalized regardless of the recorded casing
	if !l.IsDone("alicechan") {
		t.Error("Expected lowercase lookup to match")
	}
	if !l.IsDone("ALICECHAN") {
		t.Error("Expected uppercase lookup to match")
	}
	if !l.IsDone(" AliceChan ") {
		t.Error("Expected whitespace-trimmed lookup to match")
	}
}

func TestPending(t *testing.T) {
	l := New()
	l.MarkDone("bob")

	pending := l.Pending([]string{"alice", "Bob", "carol"})
	if len(pending) != 2 {
		t.Fatalf("Expected 2 pending users, got %d", len(pending))
	}
	if pending[0] != "alice" || pending[1] != "carol" {
		t.Errorf("Expected [alice carol] in order, got %v", pending)
	}
}

func TestPersistAndReload(t *testing.T) {
	store := blob.NewMemStore()
	ctx := context.Background()
	key := Key("output/", "users_1")
	log := logger.GetLogger()

	l := New()
	l.MarkStart("alice")
	l.MarkDone("alice")
	l.MarkStart("bob")

	if err := l.Persist(ctx, store, key); err != nil {
		t.Fatalf("Persist failed: %v", err)
	}

	data, err := store.Download(ctx, key)
	if err != nil {
		t.Fatalf("Download failed: %v", err)
	}
	text := string(data)
	if !strings.Contains(text, "DONE alice") {
		t.Errorf("Expected DONE alice line, got:\n%s", text)
	}
	if !strings.Contains(text, "START bob") {
		t.Errorf("Expected START bob line, got:\n%s", text)
	}

	reloaded := Load(ctx, store, key, log)
	if !reloaded.IsDone("alice") {
		t.Error("alice should survive a reload")
	}
	if reloaded.IsDone("bob") {
		t.Error("bob only started, must not be done after reload")
	}
	if reloaded.DoneCount() != 1 {
		t.Errorf("Expected 1 done user, got %d", reloaded.DoneCount())
	}
}

func TestDoneMeansResolvedNotHadData(t *testing.T) {
	store := blob.NewMemStore()
	ctx := context.Background()
	key := Key("output/", "users_1")
	log := logger.GetLogger()

	// A user whose extraction returned zero records is still done and must
	// never be reprocessed on a later resume.
	l := New()
	l.MarkDone("emptyuser")
	if err := l.Persist(ctx, store, key); err != nil {
		t.Fatalf("Persist failed: %v", err)
	}

	reloaded := Load(ctx, store, key, log)
	pending := reloaded.Pending([]string{"emptyuser"})
	if len(pending) != 0 {
		t.Errorf("Expected no pending users, got %v", pending)
	}
}
