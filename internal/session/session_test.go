package session

import "testing"

func TestStoreGetSetClear(t *testing.T) {
	store := NewStore()

	if _, ok := store.Get(1); ok {
		t.Fatal("expected no session for fresh store")
	}

	sess := New(At(FamilyRegister, "name"))
	sess.Data["name"] = "Іван Петренко"
	store.Set(1, sess)

	got, ok := store.Get(1)
	if !ok {
		t.Fatal("expected session after Set")
	}
	if got.Step != At(FamilyRegister, "name") {
		t.Errorf("step = %+v", got.Step)
	}
	if name, _ := got.Data.String("name"); name != "Іван Петренко" {
		t.Errorf("name = %q", name)
	}
	if !store.InProgress(1) {
		t.Error("InProgress = false, want true")
	}

	store.Clear(1)
	if _, ok := store.Get(1); ok {
		t.Fatal("expected session gone after Clear")
	}
	if store.InProgress(1) {
		t.Error("InProgress = true after Clear")
	}
}

func TestStoreIsolatedPerUser(t *testing.T) {
	store := NewStore()
	store.Set(1, New(At(FamilyNeed, "description")))
	store.Set(2, New(At(FamilyPray, "description")))

	a, _ := store.Get(1)
	b, _ := store.Get(2)
	if a.Step.Family != FamilyNeed || b.Step.Family != FamilyPray {
		t.Fatalf("sessions mixed: %+v %+v", a.Step, b.Step)
	}
}

func TestStepConfirmRoundTrip(t *testing.T) {
	base := At(FamilyAnnounce, "text")
	confirm := base.WithConfirm()
	if !confirm.Confirm {
		t.Fatal("WithConfirm did not set flag")
	}
	if confirm.Base() != base {
		t.Fatalf("Base() = %+v, want %+v", confirm.Base(), base)
	}
	if base.IsZero() {
		t.Error("named step reported zero")
	}
	if !(Step{}).IsZero() {
		t.Error("zero step not reported zero")
	}
}

func TestDataTypedGetters(t *testing.T) {
	d := Data{"id": int64(7), "name": "x", "confirmed": true}
	if v, ok := d.Int64("id"); !ok || v != 7 {
		t.Errorf("Int64 = %d, %v", v, ok)
	}
	if _, ok := d.Int64("name"); ok {
		t.Error("Int64 on string should fail")
	}
	if !d.Bool("confirmed") || d.Bool("absent") {
		t.Error("Bool getter wrong")
	}
}

func TestRouteTableLastNotificationWins(t *testing.T) {
	rt := NewRouteTable()

	if _, ok := rt.Target(10, KindNeed); ok {
		t.Fatal("expected empty table")
	}

	rt.SetTarget(10, KindNeed, 100)
	rt.SetTarget(10, KindNeed, 200)

	id, ok := rt.Target(10, KindNeed)
	if !ok || id != 200 {
		t.Fatalf("target = %d, %v; want most recent 200", id, ok)
	}
}

func TestRouteTableKindsIndependent(t *testing.T) {
	rt := NewRouteTable()
	rt.SetTarget(10, KindNeed, 1)
	rt.SetTarget(10, KindPrayer, 2)

	if id, _ := rt.Target(10, KindNeed); id != 1 {
		t.Errorf("need target = %d", id)
	}
	if id, _ := rt.Target(10, KindPrayer); id != 2 {
		t.Errorf("prayer target = %d", id)
	}

	rt.ClearTarget(10, KindNeed)
	if _, ok := rt.Target(10, KindNeed); ok {
		t.Error("need target should be cleared")
	}
	if _, ok := rt.Target(10, KindPrayer); !ok {
		t.Error("prayer target should survive need clear")
	}
}
