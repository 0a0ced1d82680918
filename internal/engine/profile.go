package engine

import (
	"context"
	"fmt"

	"churchbot/internal/domain"
	"churchbot/internal/menu"
)

const helpMessage = "/start — почати спілкування з ботом\n" +
	"/help — показати довідку\n" +
	"/register — зареєструватися в системі\n" +
	"/me — подивитися свої дані\n" +
	"/need — подати заявку на допомогу\n" +
	"/pray — додати молитвенну потребу\n" +
	"/lessons — отримати біблійний урок\n" +
	"/literature — знайти духовну літературу\n" +
	"/contacts — контакти служителів"

const helpMessageForAdmins = helpMessage +
	"\n\n*Команди для служителів:*\n" +
	"/members — список членів церкви (хрещені)\n" +
	"/candidates — список нехрещених\n" +
	"/needs — усі заявки на допомогу\n" +
	"/prayers — список молитвенних потреб\n" +
	"/literature_requests — відкриті запити на літературу\n" +
	"/announce — зробити оголошення\n" +
	"/upload_lesson — завантажити PDF урок"

const welcomeMessage = "📖 Вітаю! Я — внутрішній бот-помічник Церкви Христової. " +
	"Моє завдання — допомагати братам і сестрам у служінні:\n" +
	"• вести облік членів церкви;\n" +
	"• приймати заявки на матеріальну чи духовну допомогу;\n" +
	"• фіксувати молитвені потреби;\n" +
	"• надсилати біблійні уроки й повідомлення громади.\n\n" +
	"Використовуйте кнопки нижче для навігації."

// Start handles the /start command.
func (e *Engine) Start(ctx context.Context, in Incoming) error {
	kb, _ := e.mainMenu(ctx, in.UserID)
	greeting := fmt.Sprintf("Привіт, %s. Тебе вітає Церква Христова в Вінниці. ✝️", in.FirstName)
	if err := e.msg.SendText(ctx, in.ChatID, greeting, kb); err != nil {
		return err
	}
	return e.msg.SendText(ctx, in.ChatID, welcomeMessage, kb)
}

// Help handles the /help command. Admins see the extended listing.
func (e *Engine) Help(ctx context.Context, in Incoming) error {
	text := helpMessage
	if e.roles.IsAdmin(in.UserID) {
		text = helpMessageForAdmins
	}
	kb, _ := e.mainMenu(ctx, in.UserID)
	return e.msg.SendText(ctx, in.ChatID, text, kb)
}

// Me handles the /me command.
func (e *Engine) Me(ctx context.Context, in Incoming) error {
	member, err := e.members.FindByID(ctx, in.UserID)
	if err == domain.ErrNotFound {
		return e.msg.SendText(ctx, in.ChatID, "Вибачте, ви ще не зареєстровані ❌", menu.Main(false))
	}
	if err != nil {
		return e.failSession(ctx, in, err)
	}
	return e.msg.SendText(ctx, in.ChatID, profileCard(member), menu.Main(true))
}

// Contact handles the /contacts command and the contact button.
func (e *Engine) Contact(ctx context.Context, in Incoming) error {
	text := "📞 *Зв'язатися з нами*\n\n" +
		"Напишіть вашу потребу через кнопку «🙏 Попросити допомогу», " +
		"і служителі з вами зв'яжуться.\n\n" +
		"💬 Також ви можете приєднатися до чату церкви кнопкою нижче."
	return e.msg.SendText(ctx, in.ChatID, text, menu.Contact())
}
