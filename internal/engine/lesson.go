package engine

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"churchbot/internal/domain"
	"churchbot/internal/menu"
	"churchbot/internal/session"
)

// ShowLessons lists the available bible lessons as buttons.
func (e *Engine) ShowLessons(ctx context.Context, in Incoming) error {
	lessons, err := e.lessons.List(ctx)
	if err != nil {
		return e.failSession(ctx, in, fmt.Errorf("list lessons: %w", err))
	}
	if len(lessons) == 0 {
		kb, _ := e.mainMenu(ctx, in.UserID)
		return e.msg.SendText(ctx, in.ChatID, "📭 Наразі немає доступних уроків.", kb)
	}
	return e.msg.SendText(ctx, in.ChatID, "📚 Оберіть урок:", menu.Lessons(lessons))
}

// lessonByNumber is the free-text shortcut: a bare positive number outside
// any form is treated as a lesson ordinal.
func (e *Engine) lessonByNumber(ctx context.Context, in Incoming, text string) (bool, error) {
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || n < 1 {
		return false, nil
	}

	lessons, err := e.lessons.List(ctx)
	if err != nil {
		return true, e.failSession(ctx, in, fmt.Errorf("list lessons: %w", err))
	}
	if n > len(lessons) {
		return true, e.msg.SendText(ctx, in.ChatID,
			"⚠️ Урок з таким номером не знайдено.", menu.Keyboard{})
	}
	return true, e.sendLesson(ctx, in.ChatID, &lessons[n-1])
}

// lessonCallback sends the PDF for a lesson button press.
func (e *Engine) lessonCallback(ctx context.Context, cb CallbackEvent, lessonID int64) error {
	lesson, err := e.lessons.FindByID(ctx, lessonID)
	if err == domain.ErrNotFound {
		return e.msg.AnswerCallback(ctx, cb.CallbackID, "⚠️ Урок не знайдено")
	}
	if err != nil {
		return err
	}
	if lesson.PDFFileID == "" {
		return e.msg.AnswerCallback(ctx, cb.CallbackID, "⚠️ PDF файл для цього уроку ще не завантажено")
	}
	if err := e.msg.AnswerCallback(ctx, cb.CallbackID, "📄 Надсилаю PDF файл..."); err != nil {
		return err
	}
	return e.sendLesson(ctx, cb.ChatID, lesson)
}

func (e *Engine) sendLesson(ctx context.Context, chatID int64, lesson *domain.Lesson) error {
	if lesson.PDFFileID == "" {
		return e.msg.SendText(ctx, chatID,
			"⚠️ PDF файл для цього уроку ще не завантажено", menu.Keyboard{})
	}
	if err := e.msg.SendDocument(ctx, chatID, lesson.PDFFileID, ""); err != nil {
		return e.msg.SendText(ctx, chatID,
			"⚠️ Не вдалося надіслати PDF файл. Зверніться до адміністратора.", menu.Keyboard{})
	}
	return nil
}

// StartUploadLesson begins the lesson upload flow for an administrator.
func (e *Engine) StartUploadLesson(ctx context.Context, in Incoming) error {
	e.sessions.Set(in.UserID, session.New(session.At(session.FamilyLesson, stageLessonName)))
	return e.msg.SendText(ctx, in.ChatID,
		"📚 Завантаження нового PDF уроку\n\nВведіть назву уроку (наприклад: 'Основи віри' або 'Урок 1: Любов до ближнього'):",
		menu.Keyboard{})
}

func (e *Engine) uploadLessonName(ctx context.Context, in Incoming, sess session.Session, text string) error {
	title := strings.TrimSpace(text)
	if len([]rune(title)) < 3 {
		return e.msg.SendText(ctx, in.ChatID,
			"⚠️ Назва уроку повинна містити мінімум 3 символи. Спробуйте ще раз:", menu.Keyboard{})
	}

	lessons, err := e.lessons.List(ctx)
	if err != nil {
		return e.failSession(ctx, in, fmt.Errorf("list lessons: %w", err))
	}

	var prompt string
	for _, l := range lessons {
		if strings.EqualFold(l.Title, title) {
			sess.Data[keyLessonID] = l.ID
			prompt = fmt.Sprintf("📎 Знайдено існуючий урок: %s\n\nТепер надішліть PDF файл для цього уроку:", l.Title)
			break
		}
	}
	if prompt == "" {
		var maxID int64
		for _, l := range lessons {
			if l.ID > maxID {
				maxID = l.ID
			}
		}
		sess.Data[keyLessonTitle] = title
		sess.Data[keyNewLessonID] = maxID + 1
		prompt = fmt.Sprintf("📎 Створюється новий урок: %s\n\nТепер надішліть PDF файл для цього уроку:", title)
	}

	sess.Step = session.At(session.FamilyLesson, stageFile)
	e.sessions.Set(in.UserID, sess)
	return e.msg.SendText(ctx, in.ChatID, prompt, menu.Keyboard{})
}

// uploadLessonAwaitingFile catches free text while a PDF is expected.
func (e *Engine) uploadLessonAwaitingFile(ctx context.Context, in Incoming, _ session.Session, _ string) error {
	return e.msg.SendText(ctx, in.ChatID,
		"⚠️ Будь ласка, надішліть PDF файл як документ.", menu.Keyboard{})
}

// uploadLessonFile stores the uploaded PDF as a new lesson or replaces the
// file of an existing one.
func (e *Engine) uploadLessonFile(ctx context.Context, doc DocumentEvent, sess session.Session) error {
	if !strings.HasSuffix(strings.ToLower(doc.FileName), ".pdf") {
		return e.msg.SendText(ctx, doc.ChatID,
			"⚠️ Файл повинен бути PDF формату (.pdf)", menu.Keyboard{})
	}
	in := Incoming{UserID: doc.UserID, ChatID: doc.ChatID}

	if lessonID, ok := sess.Data.Int64(keyLessonID); ok {
		existing, err := e.lessons.FindByID(ctx, lessonID)
		if err == domain.ErrNotFound {
			e.sessions.Clear(doc.UserID)
			return e.msg.SendText(ctx, doc.ChatID, "⚠️ Помилка: урок не знайдено.", menu.Keyboard{})
		}
		if err != nil {
			return e.failSession(ctx, in, err)
		}
		if err := e.lessons.ReplaceFile(ctx, lessonID, doc.FileID, doc.FileName, e.now()); err != nil {
			return e.failSession(ctx, in, fmt.Errorf("replace lesson file: %w", err))
		}
		e.sessions.Clear(doc.UserID)
		return e.msg.SendText(ctx, doc.ChatID,
			fmt.Sprintf("✅ PDF файл успішно оновлено!\n\n📖 Урок: %s\n📄 Файл: %s", existing.Title, doc.FileName),
			menu.Keyboard{})
	}

	title, _ := sess.Data.String(keyLessonTitle)
	nextID, ok := sess.Data.Int64(keyNewLessonID)
	if !ok {
		return e.failSession(ctx, in, fmt.Errorf("lesson session missing next id"))
	}
	lesson := &domain.Lesson{
		ID:          nextID,
		Title:       title,
		PDFFileID:   doc.FileID,
		PDFFileName: doc.FileName,
		UploadedAt:  e.now(),
	}
	if err := e.lessons.Insert(ctx, lesson); err != nil {
		return e.failSession(ctx, in, fmt.Errorf("insert lesson: %w", err))
	}

	e.sessions.Clear(doc.UserID)
	return e.msg.SendText(ctx, doc.ChatID,
		fmt.Sprintf("✅ Новий урок успішно створено!\n\n📖 Урок: %s\n📄 Файл: %s\n\nКористувачі тепер зможуть отримати цей PDF через команду /lessons.",
			lesson.Title, doc.FileName),
		menu.Keyboard{})
}
