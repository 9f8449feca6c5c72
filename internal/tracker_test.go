package internal_test

import (
	"log/slog"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/zephyrtronium/protocore/internal"
)

func TestTrackerAcquire(t *testing.T) {
	tr := internal.NewTracker(slog.New(slog.DiscardHandler))
	a := tr.Acquire("a", nil)
	b := tr.Acquire("b", nil)
	if a.ID == b.ID {
		t.Errorf("handles share ID %d", a.ID)
	}
	if a.Count() != 1 || !a.Live() {
		t.Errorf("new handle has count %d", a.Count())
	}
	if n := tr.LiveCount(); n != 2 {
		t.Errorf("want 2 live, got %d", n)
	}
}

func TestTrackerBindDrop(t *testing.T) {
	tr := internal.NewTracker(nil)
	var released []string
	tr.OnRelease = func(h *internal.Handle) { released = append(released, h.Name) }
	h := tr.Acquire("h", nil)
	tr.Bind(h)
	if h.Count() != 2 {
		t.Errorf("count after bind without temporary: want 2, got %d", h.Count())
	}
	tr.Drop(h)
	if tr.LiveCount() != 1 || len(released) != 0 {
		t.Errorf("handle released early: live %d, released %q", tr.LiveCount(), released)
	}
	tr.Drop(h)
	if tr.LiveCount() != 0 || h.Live() {
		t.Errorf("handle not released at zero: live %d, count %d", tr.LiveCount(), h.Count())
	}
	if diff := cmp.Diff([]string{"h"}, released); diff != "" {
		t.Errorf("wrong releases (-want +got):\n%s", diff)
	}
	// Dead handles are inert.
	tr.Bind(h)
	tr.Drop(h)
	if h.Count() != 0 || len(released) != 1 {
		t.Errorf("dead handle changed: count %d, released %q", h.Count(), released)
	}
}

func TestTrackerTemporaries(t *testing.T) {
	tr := internal.NewTracker(nil)
	caller := &internal.Frame{}
	callee := &internal.Frame{}

	// A temporary adopted by a binding does not add to the count.
	h := tr.Acquire("adopted", callee)
	tr.Bind(h)
	if h.Count() != 1 {
		t.Errorf("adopting binding changed count to %d", h.Count())
	}
	tr.Settle(callee)
	if !h.Live() {
		t.Error("settling released an adopted handle")
	}

	// An unadopted temporary dies when its frame settles.
	u := tr.Acquire("unadopted", callee)
	tr.Settle(callee)
	if u.Live() {
		t.Error("unadopted temporary survived settle")
	}

	// Hold transfers a temporary between frames without changing the count.
	m := tr.Acquire("moved", callee)
	tr.Hold(m, caller)
	if m.Count() != 1 {
		t.Errorf("transferring temporary changed count to %d", m.Count())
	}
	tr.Settle(callee)
	if !m.Live() {
		t.Error("old owner released a transferred temporary")
	}
	tr.Settle(caller)
	if m.Live() {
		t.Error("new owner did not release its temporary")
	}

	// Hold on a bound handle adds a reference.
	tr.Hold(h, caller)
	if h.Count() != 2 {
		t.Errorf("holding bound handle: want count 2, got %d", h.Count())
	}
	tr.Settle(caller)
	if h.Count() != 1 {
		t.Errorf("settling held handle: want count 1, got %d", h.Count())
	}
	if tr.LiveCount() != 1 {
		t.Errorf("want 1 live handle, got %d", tr.LiveCount())
	}
}

func TestTrackerLiveOrder(t *testing.T) {
	tr := internal.NewTracker(nil)
	var hs []*internal.Handle
	for _, name := range []string{"a", "b", "c", "d"} {
		hs = append(hs, tr.Acquire(name, nil))
	}
	tr.Drop(hs[1])
	var got []string
	for _, h := range tr.Live() {
		got = append(got, h.Name)
	}
	if diff := cmp.Diff([]string{"a", "c", "d"}, got); diff != "" {
		t.Errorf("wrong live handles (-want +got):\n%s", diff)
	}
}

func TestTrackerPin(t *testing.T) {
	tr := internal.NewTracker(nil)
	f := &internal.Frame{}

	// A pinned temporary survives settling and becomes a temporary again.
	h := tr.Acquire("h", f)
	tr.Pin(h)
	tr.Settle(f)
	if h.Count() != 1 || !h.Live() {
		t.Fatalf("pinned handle after settle: count %d", h.Count())
	}
	tr.Unpin(h, f)
	if h.Count() != 1 {
		t.Errorf("unpinned handle: want count 1, got %d", h.Count())
	}
	tr.Settle(f)
	if h.Live() {
		t.Errorf("unpinned temporary not settled: count %d", h.Count())
	}

	// Unpinning a handle that still has its temporary drops the pin.
	g := tr.Acquire("g", f)
	tr.Pin(g)
	tr.Unpin(g, f)
	if g.Count() != 1 {
		t.Errorf("redundant pin: want count 1, got %d", g.Count())
	}

	// Dead handles are inert.
	tr.Settle(f)
	tr.Pin(g)
	tr.Unpin(g, f)
	if g.Live() || tr.LiveCount() != 0 {
		t.Errorf("dead handle revived: count %d, live %d", g.Count(), tr.LiveCount())
	}
}
