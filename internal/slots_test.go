package internal_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/zephyrtronium/protocore/internal"
	"github.com/zephyrtronium/protocore/testutils"
)

func TestSetOwn(t *testing.T) {
	vm := testutils.VM()
	obj := vm.NewObject()
	if err := obj.SetOwn("a", internal.NumberValue(1)); err != nil {
		t.Fatal(err)
	}
	p, ok := obj.GetOwn("a")
	if !ok {
		t.Fatal("no property a after SetOwn")
	}
	if *p != internal.DefaultAttrs.With(internal.NumberValue(1)) {
		t.Errorf("wrong descriptor %+v", *p)
	}
	if err := obj.SetOwn("a", internal.NumberValue(2)); err != nil {
		t.Fatal(err)
	}
	if v := obj.Get("a"); v.Float() != 2 {
		t.Errorf("wrong value after update: %v", v)
	}

	obj.DefineOwn("ro", internal.Property{Value: internal.NumberValue(3), Enumerable: true})
	err := obj.SetOwn("ro", internal.NumberValue(4))
	if !errors.Is(err, internal.ErrNotWritable) {
		t.Errorf("want ErrNotWritable, got %v", err)
	}
	if v := obj.Get("ro"); v.Float() != 3 {
		t.Errorf("read-only property changed to %v", v)
	}

	obj.PreventExtensions()
	err = obj.SetOwn("new", internal.TrueValue)
	if !errors.Is(err, internal.ErrNotExtensible) {
		t.Errorf("want ErrNotExtensible, got %v", err)
	}
	if obj.HasOwn("new") {
		t.Error("property added to non-extensible object")
	}
	if err := obj.SetOwn("a", internal.NumberValue(5)); err != nil {
		t.Errorf("cannot update existing property of non-extensible object: %v", err)
	}
}

func TestDefineOwn(t *testing.T) {
	vm := testutils.VM()
	cases := map[string]struct {
		old  internal.Property
		new  internal.Property
		want error
	}{
		"Configurable": {
			old: internal.DefaultAttrs.With(internal.NumberValue(1)),
			new: internal.FrozenAttrs.With(internal.NumberValue(2)),
		},
		"FrozenSame": {
			old: internal.FrozenAttrs.With(internal.NumberValue(1)),
			new: internal.FrozenAttrs.With(internal.NumberValue(1)),
		},
		"FrozenValue": {
			old:  internal.FrozenAttrs.With(internal.NumberValue(1)),
			new:  internal.FrozenAttrs.With(internal.NumberValue(2)),
			want: internal.ErrNotWritable,
		},
		"MakeConfigurable": {
			old:  internal.FrozenAttrs.With(internal.NumberValue(1)),
			new:  internal.HiddenAttrs.With(internal.NumberValue(1)),
			want: internal.ErrNotConfigurable,
		},
		"WritableNonConfigurable": {
			old: internal.Property{Value: internal.NumberValue(1), Writable: true},
			new: internal.Property{Value: internal.NumberValue(2)},
		},
		"ChangeEnumerable": {
			old:  internal.Property{Value: internal.NumberValue(1), Writable: true},
			new:  internal.Property{Value: internal.NumberValue(1), Writable: true, Enumerable: true},
			want: internal.ErrNotConfigurable,
		},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			obj := vm.NewObject()
			if err := obj.DefineOwn("k", c.old); err != nil {
				t.Fatal(err)
			}
			err := obj.DefineOwn("k", c.new)
			if !errors.Is(err, c.want) {
				t.Fatalf("want error %v, got %v", c.want, err)
			}
			p, _ := obj.GetOwn("k")
			want := c.new
			if c.want != nil {
				want = c.old
			}
			if *p != want {
				t.Errorf("wrong descriptor: want %+v, got %+v", want, *p)
			}
		})
	}
}

func TestRemoveOwn(t *testing.T) {
	vm := testutils.VM()
	obj := vm.NewObject()
	obj.SetOwn("a", internal.NumberValue(1))
	obj.DefineOwn("fixed", internal.Property{Value: internal.NumberValue(2), Enumerable: true})
	if !obj.RemoveOwn("a") {
		t.Error("could not remove configurable property")
	}
	if obj.HasOwn("a") {
		t.Error("property survived removal")
	}
	if obj.RemoveOwn("fixed") {
		t.Error("removed non-configurable property")
	}
	if v := obj.Get("fixed"); v.Float() != 2 {
		t.Errorf("non-configurable property changed to %v", v)
	}
	if !obj.RemoveOwn("missing") {
		t.Error("removing a missing property reported failure")
	}
}

func TestLookup(t *testing.T) {
	vm := testutils.VM()
	base := vm.NewObject()
	base.SetOwn("x", internal.NumberValue(1))
	derived := vm.ObjectWith(base, nil, internal.ObjectTag)
	derived.SetOwn("y", internal.NumberValue(2))
	p, owner := derived.Lookup("x")
	if p == nil || owner != base {
		t.Errorf("x: want owner %p, got %v from %p", base, p, owner)
	}
	if _, ok := derived.GetOwn("x"); ok {
		t.Error("inherited property reported as own")
	}
	if !derived.Has("toString") {
		t.Error("Object.prototype methods not inherited")
	}
	if p, owner := derived.Lookup("missing"); p != nil || owner != nil {
		t.Errorf("missing property found: %v on %p", p, owner)
	}
	if v := derived.Get("missing"); !v.IsUndefined() {
		t.Errorf("missing property is %v, not undefined", v)
	}
}

func TestOwnKeysOrder(t *testing.T) {
	vm := testutils.VM()
	obj := vm.NewObject()
	for _, k := range []string{"z", "a", "m", "b"} {
		obj.SetOwn(k, internal.TrueValue)
	}
	obj.RemoveOwn("a")
	obj.SetOwn("a", internal.TrueValue)
	obj.SetOwn("z", internal.FalseValue)
	want := []string{"z", "m", "b", "a"}
	if diff := cmp.Diff(want, obj.OwnKeys()); diff != "" {
		t.Errorf("wrong key order (-want +got):\n%s", diff)
	}
}

func TestEnumerate(t *testing.T) {
	vm := testutils.VM()
	top := vm.NewObject()
	top.SetOwn("t1", internal.TrueValue)
	top.SetOwn("shadowed", internal.TrueValue)
	top.SetOwn("hidden", internal.TrueValue)
	mid := vm.ObjectWith(top, nil, internal.ObjectTag)
	mid.SetOwn("m1", internal.TrueValue)
	mid.DefineOwn("hidden", internal.HiddenAttrs.With(internal.TrueValue))
	low := vm.ObjectWith(mid, nil, internal.ObjectTag)
	low.SetOwn("x", internal.TrueValue)
	low.SetOwn("shadowed", internal.TrueValue)
	low.SetOwn("y", internal.TrueValue)

	want := []string{"x", "shadowed", "y", "m1", "t1"}
	if diff := cmp.Diff(want, low.Enumerate().Keys()); diff != "" {
		t.Errorf("wrong keys (-want +got):\n%s", diff)
	}
}

func TestEnumerateMutation(t *testing.T) {
	vm := testutils.VM()
	obj := vm.NewObject()
	for _, k := range []string{"a", "b", "c", "d"} {
		obj.SetOwn(k, internal.TrueValue)
	}
	it := obj.Enumerate()
	var got []string
	for k, ok := it.Next(); ok; k, ok = it.Next() {
		got = append(got, k)
		if k == "a" {
			obj.RemoveOwn("c")
			obj.RemoveOwn("a")
			obj.SetOwn("a", internal.TrueValue)
			obj.SetOwn("e", internal.TrueValue)
		}
	}
	want := []string{"a", "b", "d"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("wrong keys (-want +got):\n%s", diff)
	}
	for i := 0; i < 3; i++ {
		if k, ok := it.Next(); ok {
			t.Errorf("exhausted iterator produced %q", k)
		}
	}
}

func TestForeachProperty(t *testing.T) {
	vm := testutils.VM()
	obj := vm.NewObject()
	for _, k := range []string{"a", "b", "c"} {
		obj.SetOwn(k, internal.TrueValue)
	}
	var got []string
	obj.ForeachProperty(func(key string, p *internal.Property) bool {
		got = append(got, key)
		obj.RemoveOwn("b")
		return key != "c"
	})
	if diff := cmp.Diff([]string{"a", "c"}, got); diff != "" {
		t.Errorf("wrong keys (-want +got):\n%s", diff)
	}
}

func BenchmarkGet(b *testing.B) {
	vm := testutils.VM()
	obj := vm.NewObject()
	for i := 0; i < 8; i++ {
		obj = vm.ObjectWith(obj, nil, internal.ObjectTag)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		obj.Get("toString")
	}
}
