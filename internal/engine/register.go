package engine

import (
	"context"
	"fmt"

	"churchbot/internal/domain"
	"churchbot/internal/menu"
	"churchbot/internal/session"
)

const baptismNotYet = "Ще не хрещений"

// StartRegister begins the member registration form.
func (e *Engine) StartRegister(ctx context.Context, in Incoming) error {
	existing, err := e.members.FindByID(ctx, in.UserID)
	if err == nil {
		return e.msg.SendText(ctx, in.ChatID,
			fmt.Sprintf("✅ %s, ви вже зареєстровані!", existing.Name), menu.Main(true))
	}
	if err != domain.ErrNotFound {
		return e.failSession(ctx, in, err)
	}

	if e.sessions.InProgress(in.UserID) {
		return e.msg.SendText(ctx, in.ChatID,
			"Ви вже проходите реєстрацію. Будь ласка, завершіть її.", menu.Main(false))
	}

	e.sessions.Set(in.UserID, session.New(session.At(session.FamilyRegister, stageName)))
	if err := e.msg.SendText(ctx, in.ChatID, "🟢 Давай скоріш починати!", menu.Main(false)); err != nil {
		return err
	}
	return e.msg.SendText(ctx, in.ChatID,
		"Введіть, будь ласка, ваше повне ім'я та прізвище:", menu.Keyboard{})
}

func (e *Engine) registerName(ctx context.Context, in Incoming, sess session.Session, text string) error {
	name := ValidateName(text)
	if name == "" {
		return e.msg.SendText(ctx, in.ChatID,
			"⚠️ Будь ласка, введіть коректне ім'я (2-100 символів, тільки букви, пробіли, дефіси).",
			menu.Keyboard{})
	}
	sess.Data[keyName] = name
	sess.Step = session.At(session.FamilyRegister, stageBaptismChoice)
	e.sessions.Set(in.UserID, sess)
	return e.msg.SendText(ctx, in.ChatID, "🔰 Чи ви вже хрещені?", menu.RegisterBaptism())
}

// registerBaptismChoiceText catches free text while the baptism buttons are
// on screen.
func (e *Engine) registerBaptismChoiceText(ctx context.Context, in Incoming, _ session.Session, _ string) error {
	return e.msg.SendText(ctx, in.ChatID,
		"🔰 Оберіть, будь ласка, відповідь кнопкою нижче:", menu.RegisterBaptism())
}

// registerBaptismChoice applies the inline baptism answer. Candidates skip
// the baptism-date stage.
func (e *Engine) registerBaptismChoice(ctx context.Context, cb CallbackEvent, baptized bool) error {
	sess, ok := e.sessions.Get(cb.UserID)
	if !ok || sess.Step.Family != session.FamilyRegister {
		return e.msg.AnswerCallback(ctx, cb.CallbackID, "⚠️ Реєстрація не активна. Почніть з /register")
	}

	sess.Data[keyBaptized] = baptized
	if baptized {
		sess.Step = session.At(session.FamilyRegister, stageBaptismDate)
		e.sessions.Set(cb.UserID, sess)
		if err := e.msg.AnswerCallback(ctx, cb.CallbackID, "✅ Обрано: у Христі"); err != nil {
			return err
		}
		return e.msg.SendText(ctx, cb.ChatID,
			"📅 Вкажіть дату вашого хрещення (у форматі ДД-ММ-РРРР):", menu.Keyboard{})
	}

	sess.Data[keyBaptism] = baptismNotYet
	sess.Step = session.At(session.FamilyRegister, stageBirthday)
	e.sessions.Set(cb.UserID, sess)
	if err := e.msg.AnswerCallback(ctx, cb.CallbackID, "⏳ Обрано: Ще не хрещений"); err != nil {
		return err
	}
	return e.msg.SendText(ctx, cb.ChatID,
		"🎂 Вкажіть дату вашого народження (у форматі ДД-ММ-РРРР):", menu.Keyboard{})
}

func (e *Engine) registerBaptismDate(ctx context.Context, in Incoming, sess session.Session, text string) error {
	date := ValidateDate(text, false)
	if date == "" {
		return e.msg.SendText(ctx, in.ChatID,
			"⚠️ Будь ласка, введіть коректну дату у форматі ДД-ММ-РРРР (наприклад: 15-03-2020).",
			menu.Keyboard{})
	}
	sess.Data[keyBaptism] = date
	sess.Step = session.At(session.FamilyRegister, stageBirthday)
	e.sessions.Set(in.UserID, sess)
	return e.msg.SendText(ctx, in.ChatID,
		"🎂 Вкажіть дату вашого народження (у форматі ДД-ММ-РРРР):", menu.Keyboard{})
}

func (e *Engine) registerBirthday(ctx context.Context, in Incoming, sess session.Session, text string) error {
	date := ValidateDate(text, false)
	if date == "" {
		return e.msg.SendText(ctx, in.ChatID,
			"⚠️ Будь ласка, введіть коректну дату у форматі ДД-ММ-РРРР (наприклад: 15-03-1990).",
			menu.Keyboard{})
	}
	sess.Data[keyBirthday] = date
	sess.Step = session.At(session.FamilyRegister, stagePhone)
	e.sessions.Set(in.UserID, sess)
	return e.msg.SendText(ctx, in.ChatID,
		"📞 Вкажіть ваш номер телефону (+380...):", menu.Keyboard{})
}

func (e *Engine) registerPhone(ctx context.Context, in Incoming, sess session.Session, text string) error {
	phone := NormalizePhone(text)
	if phone == "" {
		return e.msg.SendText(ctx, in.ChatID,
			"⚠️ Будь ласка, введіть коректний номер телефону у форматі +380XXXXXXXXX або 0XXXXXXXXX.",
			menu.Keyboard{})
	}

	name, _ := sess.Data.String(keyName)
	baptism, _ := sess.Data.String(keyBaptism)
	if baptism == "" {
		baptism = baptismNotYet
	}
	birthday, _ := sess.Data.String(keyBirthday)

	m := &domain.Member{
		TelegramID: in.UserID,
		Name:       name,
		Baptized:   sess.Data.Bool(keyBaptized),
		Baptism:    baptism,
		Birthday:   birthday,
		Phone:      phone,
		CreatedAt:  e.now(),
	}
	if err := e.members.Insert(ctx, m); err != nil {
		return e.failSession(ctx, in, fmt.Errorf("register member: %w", err))
	}

	e.sessions.Clear(in.UserID)
	success := fmt.Sprintf("✅ Дякуємо, %s! Ви успішно зареєстровані. Ми молимося за вас! 🙏", m.Name)
	if m.Baptized {
		success = fmt.Sprintf("✅ Дякуємо, %s! Ви успішно зареєстровані як член церкви.", m.Name)
	}
	return e.msg.SendText(ctx, in.ChatID, success, menu.Main(true))
}
