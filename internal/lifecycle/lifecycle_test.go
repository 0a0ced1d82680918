package lifecycle

import (
	"errors"
	"testing"

	"churchbot/internal/domain"
)

func TestArchivedRecordAllowsOnlyDelete(t *testing.T) {
	if !errors.Is(CanReply(domain.StatusNew, true), ErrArchived) {
		t.Error("reply on archived record must fail with ErrArchived")
	}
	if !errors.Is(CanComplete(domain.StatusWaiting, true), ErrArchived) {
		t.Error("complete on archived record must fail with ErrArchived")
	}
	if !errors.Is(CanMarkWaiting(domain.StatusNew, true), ErrArchived) {
		t.Error("waiting sweep on archived record must fail with ErrArchived")
	}
	if err := CanDelete(); err != nil {
		t.Errorf("delete must stay available: %v", err)
	}

	acts := Actions(domain.StatusNew, true)
	if len(acts) != 1 || acts[0] != ActionDelete {
		t.Errorf("archived actions = %v, want only delete", acts)
	}
}

func TestWaitingOnlyFromNew(t *testing.T) {
	if err := CanMarkWaiting(domain.StatusNew, false); err != nil {
		t.Errorf("new record: %v", err)
	}
	for _, s := range []domain.Status{domain.StatusWaiting, domain.StatusReplied, domain.StatusDone} {
		if !errors.Is(CanMarkWaiting(s, false), ErrBadTransition) {
			t.Errorf("status %q must not move to waiting", s)
		}
	}
}

func TestDoneIsTerminal(t *testing.T) {
	if !errors.Is(CanReply(domain.StatusDone, false), ErrBadTransition) {
		t.Error("reply after done must be rejected")
	}
	if !errors.Is(CanComplete(domain.StatusDone, false), ErrBadTransition) {
		t.Error("double completion must be rejected")
	}
}

func TestActionVisibility(t *testing.T) {
	acts := Actions(domain.StatusNew, false)
	want := []Action{ActionWaiting, ActionReply, ActionDone, ActionDelete}
	if len(acts) != len(want) {
		t.Fatalf("actions = %v, want %v", acts, want)
	}
	for i := range want {
		if acts[i] != want[i] {
			t.Errorf("actions[%d] = %v, want %v", i, acts[i], want[i])
		}
	}

	for _, a := range Actions(domain.StatusReplied, false) {
		if a == ActionReply {
			t.Error("replied record must hide the reply button")
		}
		if a == ActionWaiting {
			t.Error("replied record must hide the waiting button")
		}
	}
	for _, a := range Actions(domain.StatusWaiting, false) {
		if a == ActionWaiting {
			t.Error("waiting record must hide the waiting button")
		}
	}
	for _, a := range Actions(domain.StatusDone, false) {
		if a == ActionReply || a == ActionDone {
			t.Errorf("done record must not offer %v", a)
		}
	}
}
