// Package engine is the conversational core of the bot. It routes free-text
// messages, inline-button presses, and document uploads to the multi-turn
// form the user is currently in, applies validation, performs repository and
// messenger side effects, and computes the next session state.
package engine

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"churchbot/core/logger"
	"churchbot/internal/domain"
	"churchbot/internal/menu"
	"churchbot/internal/session"
)

// Form stage names, grouped by family.
const (
	stageName          = "name"
	stageBaptismChoice = "baptism_choice"
	stageBaptismDate   = "baptism_date"
	stageBirthday      = "birthday"
	stagePhone         = "phone"

	stageTypeSelection    = "type_selection"
	stageGuestName        = "guest_name"
	stageGuestPhone       = "guest_phone"
	stageGuestDescription = "guest_description"
	stageDescription      = "description"
	stageReplyText        = "reply_text"
	stageDoneText         = "done_text"

	stageAnonymous        = "anonymous"
	stageClarifyText      = "clarify_text"
	stageClarifyReplyText = "clarify_reply_text"
	stageFinalReplyText   = "final_reply_text"

	stageRequest = "request"

	stageAudience = "audience"
	stageText     = "text"

	stageLessonName = "lesson_name"
	stageFile       = "file"
)

// Session data keys.
const (
	keyName          = "name"
	keyBaptized      = "baptized"
	keyBaptism       = "baptism"
	keyBirthday      = "birthday"
	keyPhone         = "phone"
	keyNeedType      = "need_type"
	keyMemberName    = "member_name"
	keyMemberBaptism = "member_baptism"
	keyMemberPhone   = "member_phone"
	keyRecordID      = "record_id"
	keyTargetUser    = "target_user"
	keyAdminID       = "admin_id"
	keyAudience      = "audience"
	keyPendingText   = "pending_text"
	keyConfirmed     = "confirmed"
	keyPreview       = "preview"
	keyRewritePrompt = "rewrite_prompt"
	keyLessonTitle   = "lesson_title"
	keyLessonID      = "lesson_id"
	keyNewLessonID   = "new_lesson_id"
	keyMessageID     = "message_id"
)

// Deps carries the collaborators the engine needs.
type Deps struct {
	Sessions *session.Store
	Routes   *session.RouteTable
	Roles    RoleProvider
	Msg      Messenger
	Export   Exporter

	Members    domain.MemberRepo
	Needs      domain.NeedRepo
	Prayers    domain.PrayerRepo
	Literature domain.LiteratureRepo
	Lessons    domain.LessonRepo

	AdminIDs []int64
	ChatURL  string

	IDs *IDAllocator
	Log *slog.Logger
	Now func() time.Time
}

// Engine dispatches inbound chat events. One instance serves all users;
// per-user state lives in the session store and route table.
type Engine struct {
	sessions *session.Store
	routes   *session.RouteTable
	roles    RoleProvider
	msg      Messenger
	export   Exporter

	members    domain.MemberRepo
	needs      domain.NeedRepo
	prayers    domain.PrayerRepo
	literature domain.LiteratureRepo
	lessons    domain.LessonRepo

	adminIDs []int64
	chatURL  string

	ids      *IDAllocator
	log      *slog.Logger
	now      func() time.Time
	registry *StepRegistry
	specs    []callbackSpec
}

// New wires an Engine and registers every form stage and callback pattern.
func New(d Deps) *Engine {
	e := &Engine{
		sessions:   d.Sessions,
		routes:     d.Routes,
		roles:      d.Roles,
		msg:        d.Msg,
		export:     d.Export,
		members:    d.Members,
		needs:      d.Needs,
		prayers:    d.Prayers,
		literature: d.Literature,
		lessons:    d.Lessons,
		adminIDs:   d.AdminIDs,
		chatURL:    d.ChatURL,
		ids:        d.IDs,
		log:        d.Log,
		now:        d.Now,
	}
	if e.ids == nil {
		e.ids = NewIDAllocator()
	}
	if e.log == nil {
		e.log = slog.Default()
	}
	if e.now == nil {
		e.now = time.Now
	}
	e.registry = NewStepRegistry()
	e.registerSteps()
	e.specs = e.callbackSpecs()
	return e
}

func (e *Engine) registerSteps() {
	r := e.registry

	r.Register(session.FamilyRegister, stageName, e.registerName)
	r.Register(session.FamilyRegister, stageBaptismChoice, e.registerBaptismChoiceText)
	r.Register(session.FamilyRegister, stageBaptismDate, e.registerBaptismDate)
	r.Register(session.FamilyRegister, stageBirthday, e.registerBirthday)
	r.Register(session.FamilyRegister, stagePhone, e.registerPhone)

	r.Register(session.FamilyNeed, stageTypeSelection, e.needTypeSelection)
	r.Register(session.FamilyNeed, stageGuestName, e.needGuestName)
	r.Register(session.FamilyNeed, stageGuestPhone, e.needGuestPhone)
	r.Register(session.FamilyNeed, stageGuestDescription, e.needGuestDescription)
	r.Register(session.FamilyNeed, stageDescription, e.needDescription)
	r.Register(session.FamilyNeed, stageReplyText, e.needReplyText)
	r.Register(session.FamilyNeed, stageDoneText, e.needDoneText)

	r.Register(session.FamilyPray, stageAnonymous, e.prayAnonymous)
	r.Register(session.FamilyPray, stageDescription, e.prayDescription)
	r.Register(session.FamilyPray, stageClarifyText, e.prayClarifyText)
	r.Register(session.FamilyPray, stageClarifyReplyText, e.prayClarifyReplyText)
	r.Register(session.FamilyPray, stageFinalReplyText, e.prayFinalReplyText)
	r.Register(session.FamilyPray, stageDoneText, e.prayDoneText)

	r.Register(session.FamilyLiterature, stageRequest, e.literatureRequest)
	r.Register(session.FamilyLiterature, stageClarifyText, e.literatureClarifyText)
	r.Register(session.FamilyLiterature, stageClarifyReplyText, e.literatureClarifyReplyText)
	r.Register(session.FamilyLiterature, stageReplyText, e.literatureReplyText)

	r.Register(session.FamilyAnnounce, stageAudience, e.announceAwaitingAudience)
	r.Register(session.FamilyAnnounce, stageText, e.announceText)

	r.Register(session.FamilyLesson, stageLessonName, e.uploadLessonName)
	r.Register(session.FamilyLesson, stageFile, e.uploadLessonAwaitingFile)
}

// HandleText routes a free-text message. The boolean reports whether the
// message was consumed; unconsumed messages fall through to the outer
// router's default behavior.
//
// Precedence: confirmation sub-state, then always-live menu buttons, then
// the active form stage, then the lesson-number shortcut.
func (e *Engine) HandleText(ctx context.Context, in Incoming) (bool, error) {
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return false, nil
	}

	sess, active := e.sessions.Get(in.UserID)
	if active && sess.Step.Confirm {
		return true, e.handleConfirm(ctx, in, sess, text)
	}

	if menu.IsGlobalButton(text) {
		return true, e.handleGlobalButton(ctx, in, text)
	}
	if text == menu.BtnWriteReply && e.roles.IsAdmin(in.UserID) {
		return true, e.startRoutedNeedReply(ctx, in)
	}

	if active {
		h, ok := e.registry.Resolve(sess.Step)
		if !ok {
			logger.LogEvent(ctx, e.log, slog.LevelWarn, "session.unknown_stage",
				slog.String("family", string(sess.Step.Family)),
				slog.String("stage", sess.Step.Stage))
			e.sessions.Clear(in.UserID)
			return false, nil
		}
		return true, h(ctx, in, sess, text)
	}

	if handled, err := e.lessonByNumber(ctx, in, text); handled {
		return true, err
	}
	return false, nil
}

// HandleDocument routes a file upload. Only the lesson-upload and
// literature-reply stages expect files; anything else passes through.
func (e *Engine) HandleDocument(ctx context.Context, doc DocumentEvent) (bool, error) {
	sess, ok := e.sessions.Get(doc.UserID)
	if !ok {
		return false, nil
	}
	switch {
	case sess.Step.Family == session.FamilyLesson && sess.Step.Stage == stageFile:
		return true, e.uploadLessonFile(ctx, doc, sess)
	case sess.Step.Family == session.FamilyLiterature && sess.Step.Stage == stageReplyText && !sess.Step.Confirm:
		return true, e.literatureReplyDocument(ctx, doc, sess)
	}
	return false, nil
}

func (e *Engine) handleGlobalButton(ctx context.Context, in Incoming, label string) error {
	switch label {
	case menu.BtnRegister:
		return e.StartRegister(ctx, in)
	case menu.BtnMyProfile:
		return e.Me(ctx, in)
	case menu.BtnAskHelp, menu.BtnSubmitNeed:
		return e.StartNeed(ctx, in)
	case menu.BtnPrayer:
		return e.StartPray(ctx, in)
	case menu.BtnLessons:
		return e.ShowLessons(ctx, in)
	case menu.BtnLiterature:
		return e.StartLiterature(ctx, in)
	case menu.BtnContacts, menu.BtnContactsAlt:
		return e.Contact(ctx, in)
	case menu.BtnHelp:
		return e.Help(ctx, in)
	case menu.BtnBibleSupport:
		return e.msg.SendText(ctx, in.ChatID,
			"📖 Біблія та духовна підтримка\n\nОберіть, що вас цікавить:", menu.BibleSupport())
	case menu.BtnChurchChat:
		return e.msg.SendText(ctx, in.ChatID,
			"💬 Приєднуйтесь до чату церкви:\n"+e.chatURL, menu.Contact())
	case menu.BtnBackToMain, menu.BtnExitToMain:
		e.sessions.Clear(in.UserID)
		kb, err := e.mainMenu(ctx, in.UserID)
		if err != nil {
			kb = menu.Main(false)
		}
		return e.msg.SendText(ctx, in.ChatID, "🏠 Повернулися до головного меню", kb)
	}
	return nil
}

// mainMenu builds the main menu for a user, looking up registration state.
func (e *Engine) mainMenu(ctx context.Context, userID int64) (menu.Keyboard, error) {
	_, err := e.members.FindByID(ctx, userID)
	switch {
	case err == nil:
		return menu.Main(true), nil
	case err == domain.ErrNotFound:
		return menu.Main(false), nil
	default:
		return menu.Main(false), err
	}
}

// failSession clears the session and reports a recoverable error to the
// user. The in-progress form is discarded.
func (e *Engine) failSession(ctx context.Context, in Incoming, cause error) error {
	e.sessions.Clear(in.UserID)
	logger.LogEvent(ctx, e.log, slog.LevelError, "engine.session_failed",
		slog.Int64("user_id", in.UserID),
		slog.String("err", cause.Error()))
	kb, _ := e.mainMenu(ctx, in.UserID)
	if err := e.msg.SendText(ctx, in.ChatID, "⚠️ Сталася помилка. Спробуйте, будь ласка, пізніше.", kb); err != nil {
		return err
	}
	return cause
}

func parseID(s string) (int64, bool) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
