package internal

import (
	"log/slog"
	"slices"
	"strconv"

	"github.com/iancoleman/orderedmap"
)

// Handle is a reference-counted diagnostic record. Its count is the number of
// variable bindings through which it is reachable, plus one while it is held
// as an unadopted temporary.
type Handle struct {
	// ID is the handle's unique ID within its tracker.
	ID uint64
	// Name is the name given at acquisition.
	Name string

	count int
	// owner is the frame holding the handle's temporary reference, or nil.
	owner *Frame
}

// Count returns the handle's current strong count.
func (h *Handle) Count() int {
	return h.count
}

// Live reports whether the handle has not been released.
func (h *Handle) Live() bool {
	return h.count > 0
}

// Tracker is a synchronous handle registry. Counts change only through its
// methods, and a handle is evicted the instant its count reaches zero.
type Tracker struct {
	// live maps handle IDs to live handles in acquisition order.
	live *orderedmap.OrderedMap
	next uint64

	// OnRelease, if not nil, is called with each handle as it is evicted.
	OnRelease func(*Handle)
	// Logger receives trace events when Trace is set.
	Logger *slog.Logger
	Trace  bool
}

// NewTracker creates an empty tracker.
func NewTracker(logger *slog.Logger) *Tracker {
	return &Tracker{live: orderedmap.New(), Logger: logger}
}

func (t *Tracker) key(h *Handle) string {
	return strconv.FormatUint(h.ID, 10)
}

func (t *Tracker) trace(msg string, h *Handle) {
	if t.Trace && t.Logger != nil {
		t.Logger.Debug(msg, slog.Uint64("handle", h.ID), slog.String("name", h.Name), slog.Int("count", h.count))
	}
}

// Acquire registers a new handle with count 1. If owner is not nil, that
// count is a temporary reference held by the frame, which the first binding
// of the handle adopts.
func (t *Tracker) Acquire(name string, owner *Frame) *Handle {
	t.next++
	h := &Handle{ID: t.next, Name: name, count: 1, owner: owner}
	if owner != nil {
		owner.temps = append(owner.temps, h)
	}
	t.live.Set(t.key(h), h)
	t.trace("handle acquired", h)
	return h
}

// Bind records a new binding of h. A binding first adopts a pending
// temporary reference; otherwise it adds one to the count.
func (t *Tracker) Bind(h *Handle) {
	if !h.Live() {
		return
	}
	if h.owner != nil {
		h.owner = nil
	} else {
		h.count++
	}
	t.trace("handle bound", h)
}

// Drop records the loss of one reference to h, evicting it if none remain.
func (t *Tracker) Drop(h *Handle) {
	if !h.Live() {
		return
	}
	h.count--
	t.trace("handle dropped", h)
	if h.count == 0 {
		h.owner = nil
		t.live.Delete(t.key(h))
		if t.OnRelease != nil {
			t.OnRelease(h)
		}
	}
}

// Hold gives frame a temporary reference to h, adding one to the count
// unless another frame's temporary is transferred instead.
func (t *Tracker) Hold(h *Handle, frame *Frame) {
	if !h.Live() {
		return
	}
	if h.owner == nil {
		h.count++
	}
	h.owner = frame
	frame.temps = append(frame.temps, h)
}

// Pin adds a reference to h that belongs to no frame, keeping it live while
// a frame's temporaries are settled.
func (t *Tracker) Pin(h *Handle) {
	if !h.Live() {
		return
	}
	h.count++
	t.trace("handle pinned", h)
}

// Unpin turns a reference added by Pin into a temporary of frame. If h
// already has a temporary, the pinned reference is dropped instead.
func (t *Tracker) Unpin(h *Handle, frame *Frame) {
	if !h.Live() {
		return
	}
	if h.owner != nil {
		t.Drop(h)
		return
	}
	h.owner = frame
	frame.temps = append(frame.temps, h)
}

// Settle drops every temporary reference still held by frame.
func (t *Tracker) Settle(frame *Frame) {
	temps := frame.temps
	frame.temps = nil
	for _, h := range temps {
		if h.owner == frame {
			h.owner = nil
			t.Drop(h)
		}
	}
}

// LiveCount returns the number of handles with a non-zero count.
func (t *Tracker) LiveCount() int {
	return len(t.live.Keys())
}

// Live returns the live handles in acquisition order.
func (t *Tracker) Live() []*Handle {
	keys := slices.Clone(t.live.Keys())
	r := make([]*Handle, 0, len(keys))
	for _, k := range keys {
		h, _ := t.live.Get(k)
		r = append(r, h.(*Handle))
	}
	return r
}

// NewHook creates a hook object wrapping a freshly acquired handle. The
// handle's initial reference is a temporary of the current frame.
func (vm *VM) NewHook(name string) *Object {
	h := vm.Tracker.Acquire(name, vm.Frame())
	return vm.ObjectWith(vm.HookProto, h, HookTag)
}

// bindValue records a binding of v in e if it refers to a handle or a
// closure.
func (vm *VM) bindValue(e *Env, v Value) {
	escapeTo(v, e)
	if h := v.Handle(); h != nil {
		vm.Tracker.Bind(h)
	}
}

// dropValue records the loss of a binding of v if it refers to a handle.
func (vm *VM) dropValue(v Value) {
	if h := v.Handle(); h != nil {
		vm.Tracker.Drop(h)
	}
}
