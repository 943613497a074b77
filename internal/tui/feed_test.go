package tui

import (
	"testing"

	"github.com/tinytelemetry/shiplog/internal/model"
)

func rec(level, msg string) model.LogRecord {
	return model.NewLogRecord(level, "main", []byte{0xaa, 0xbb, 0xcc, 0xdd, 0xee, 0xff}, msg)
}

func TestFeed_EvictsOldestAtCapacity(t *testing.T) {
	t.Parallel()

	f := NewFeed(nil, 3)
	for _, m := range []string{"a", "b", "c", "d", "e"} {
		f.Add(rec("INFO", m))
	}

	got := f.Records()
	if len(got) != 3 {
		t.Fatalf("len(Records) = %d, want 3", len(got))
	}
	for i, want := range []string{"c", "d", "e"} {
		if got[i].Message != want {
			t.Errorf("Records[%d] = %q, want %q", i, got[i].Message, want)
		}
	}
	if f.Total() != 5 {
		t.Errorf("Total = %d, want 5", f.Total())
	}
}

func TestFeed_DefaultCapacity(t *testing.T) {
	t.Parallel()

	if got := NewFeed(nil, 0).capacity; got != DefaultCapacity {
		t.Fatalf("capacity = %d, want %d", got, DefaultCapacity)
	}
}

func TestFeed_CountsOrder(t *testing.T) {
	t.Parallel()

	f := NewFeed(nil, 10)
	f.Add(rec("ERROR", "x"))
	f.Add(rec("NOTICE", "x"))
	f.Add(rec("INFO", "x"))
	f.Add(rec("err", "x"))
	f.Add(rec("AUDIT", "x"))
	f.Add(rec("warn", "x"))

	want := []LevelCount{
		{"DEBUG", 0}, {"INFO", 1}, {"WARNING", 1}, {"ERROR", 2}, {"CRITICAL", 0},
		{"AUDIT", 1}, {"NOTICE", 1},
	}
	got := f.Counts()
	if len(got) != len(want) {
		t.Fatalf("Counts = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Counts[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestFeed_WaitDeliversThenCloses(t *testing.T) {
	t.Parallel()

	ch := make(chan model.LogRecord, 1)
	f := NewFeed(ch, 10)

	ch <- rec("INFO", "hello")
	msg := f.Wait()()
	rm, ok := msg.(RecordMsg)
	if !ok {
		t.Fatalf("Wait() = %T, want RecordMsg", msg)
	}
	if rm.Record.Message != "hello" {
		t.Errorf("record message = %q", rm.Record.Message)
	}

	close(ch)
	if _, ok := f.Wait()().(FeedClosedMsg); !ok {
		t.Fatal("Wait() after close did not return FeedClosedMsg")
	}
	f.MarkClosed()
	if f.Wait() != nil {
		t.Fatal("Wait() on closed feed returned a command")
	}
}

func TestFeed_NilChannel(t *testing.T) {
	t.Parallel()

	if NewFeed(nil, 1).Wait() != nil {
		t.Fatal("Wait() on nil channel returned a command")
	}
}

func TestFeed_Dropped(t *testing.T) {
	t.Parallel()

	f := NewFeed(nil, 1)
	if f.Dropped() != 0 {
		t.Fatalf("Dropped without source = %d", f.Dropped())
	}
	f.dropped = func() uint64 { return 7 }
	if f.Dropped() != 7 {
		t.Fatalf("Dropped = %d, want 7", f.Dropped())
	}
}
