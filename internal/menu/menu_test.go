package menu

import (
	"strings"
	"testing"

	"churchbot/internal/domain"
)

func TestMainMenuDynamicButton(t *testing.T) {
	guest := Main(false)
	if guest.Reply[1][1] != BtnRegister {
		t.Errorf("guest menu button = %q, want %q", guest.Reply[1][1], BtnRegister)
	}

	member := Main(true)
	if member.Reply[1][1] != BtnMyProfile {
		t.Errorf("member menu button = %q, want %q", member.Reply[1][1], BtnMyProfile)
	}

	// The rest of the layout must not depend on registration.
	if guest.Reply[0][0] != member.Reply[0][0] || guest.Reply[0][1] != member.Reply[0][1] {
		t.Error("first row must be identical for guests and members")
	}
}

func TestRecordActionsFollowLifecycle(t *testing.T) {
	active := RecordActions("need", 42, domain.StatusNew, false)
	row := active.Inline[0]
	if len(row) != 4 {
		t.Fatalf("active record row = %d buttons, want 4", len(row))
	}
	if row[0].Data != "status|42|waiting" {
		t.Errorf("waiting data = %q", row[0].Data)
	}
	if row[1].Data != "reply_need|42" {
		t.Errorf("reply data = %q", row[1].Data)
	}

	archived := RecordActions("need", 42, domain.StatusNew, true)
	row = archived.Inline[0]
	if len(row) != 1 || row[0].Data != "delete_need|42" {
		t.Errorf("archived record row = %+v, want single delete button", row)
	}

	done := RecordActions("prayer", 7, domain.StatusDone, false)
	for _, b := range done.Inline[0] {
		if strings.HasPrefix(b.Data, "reply_") || strings.HasPrefix(b.Data, "done_") {
			t.Errorf("done record must not offer %q", b.Data)
		}
	}
}

func TestCallbackPayloadSeparator(t *testing.T) {
	kbs := []Keyboard{
		MemberMove(5),
		MemberMoveConfirm(5),
		LiteratureActions(6),
		PrayerActions(7),
		RegisterBaptism(),
		FormatPicker("members"),
		FormatPickerWithArchive("needs"),
		AnnounceAudience(),
		Lessons([]domain.Lesson{{ID: 1, Title: "Основи віри"}}),
	}
	for _, kb := range kbs {
		for _, row := range kb.Inline {
			for _, b := range row {
				if b.Data == "" {
					t.Errorf("button %q has empty payload", b.Text)
					continue
				}
				if strings.Contains(b.Data, "_") && !strings.Contains(b.Data, "|") {
					t.Errorf("payload %q carries params without separator", b.Data)
				}
			}
		}
	}
}

func TestLessonsKeyboardNumbering(t *testing.T) {
	kb := Lessons([]domain.Lesson{
		{ID: 10, Title: "Основи віри"},
		{ID: 25, Title: "Любов до ближнього"},
	})
	if len(kb.Inline) != 2 {
		t.Fatalf("rows = %d, want 2", len(kb.Inline))
	}
	if kb.Inline[0][0].Text != "1. Основи віри" {
		t.Errorf("first button = %q", kb.Inline[0][0].Text)
	}
	if kb.Inline[1][0].Data != "lesson|25" {
		t.Errorf("second payload = %q, want lesson id not ordinal", kb.Inline[1][0].Data)
	}
}

func TestIsGlobalButton(t *testing.T) {
	for _, label := range []string{BtnRegister, BtnMyProfile, BtnPrayer, BtnLessons, BtnLiterature, BtnHelp, BtnChurchChat} {
		if !IsGlobalButton(label) {
			t.Errorf("%q must be a global button", label)
		}
	}
	for _, label := range []string{BtnWriteReply, BtnConfirmSend, "так", "привіт"} {
		if IsGlobalButton(label) {
			t.Errorf("%q must not be a global button", label)
		}
	}
}
