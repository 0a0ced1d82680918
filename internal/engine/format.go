package engine

import (
	"fmt"
	"time"

	"churchbot/internal/domain"
)

const cardTimeLayout = "02.01.2006, 15:04"

func formatTime(t time.Time) string {
	return t.Format(cardTimeLayout)
}

func needCard(n *domain.Need) string {
	return fmt.Sprintf(
		"🙋‍♂️ *%s*\n📅 Хрещення: %s\n📞 %s\n📖 %s\n🕓 %s\n⚙️ *Статус:* %s",
		n.Name, n.Baptism, n.Phone, n.Description, formatTime(n.CreatedAt), n.Status,
	)
}

func needAdminNotification(n *domain.Need) string {
	return fmt.Sprintf(
		"📬 *Нова заявка на допомогу!*\n\n🙋‍♂️ Ім'я: %s\n📅 Хрещення: %s\n📞 Телефон: %s\n📖 Потреба: %s\n🕓 Дата подання: %s",
		n.Name, n.Baptism, n.Phone, n.Description, formatTime(n.CreatedAt),
	)
}

func prayerName(p *domain.Prayer) string {
	if p.Name == nil || *p.Name == "" {
		return "Анонімно"
	}
	return *p.Name
}

func prayerCard(p *domain.Prayer) string {
	return fmt.Sprintf(
		"🙏 *%s*\n📖 %s\n🕓 %s\n⚙️ *Статус:* %s",
		prayerName(p), p.Description, formatTime(p.CreatedAt), p.Status,
	)
}

func prayerAdminNotification(p *domain.Prayer) string {
	who := "Анонімно"
	if p.Name != nil && *p.Name != "" {
		who = "Ім'я: " + *p.Name
	}
	return fmt.Sprintf(
		"🙏 *Нова молитвенна потреба!*\n\n👤 %s\n📖 Потреба: %s\n🕓 Дата подання: %s",
		who, p.Description, formatTime(p.CreatedAt),
	)
}

func literatureAdminNotification(r *domain.LiteratureRequest) string {
	name := "Не вказано"
	if r.Name != nil && *r.Name != "" {
		name = *r.Name
	}
	return fmt.Sprintf(
		"📚 *Новий запит на літературу!*\n\n👤 Ім'я: %s\n📖 Запит: %s\n🕓 Дата подання: %s",
		name, r.Request, formatTime(r.CreatedAt),
	)
}

func literatureCard(r *domain.LiteratureRequest) string {
	name := "Не вказано"
	if r.Name != nil && *r.Name != "" {
		name = *r.Name
	}
	return fmt.Sprintf(
		"📚 *%s*\n📖 %s\n🕓 %s\n⚙️ *Статус:* %s",
		name, r.Request, formatTime(r.CreatedAt), r.Status,
	)
}

func memberCard(m *domain.Member) string {
	baptism := m.Baptism
	if baptism == "" {
		baptism = "не вказано"
	}
	birthday := m.Birthday
	if birthday == "" {
		birthday = "не вказано"
	}
	phone := m.Phone
	if phone == "" {
		phone = "не вказано"
	}
	return fmt.Sprintf(
		"👤 *%s*\n📅 Хрещення: %s\n🎂 День народження: %s\n📞 %s",
		m.Name, baptism, birthday, phone,
	)
}

func profileCard(m *domain.Member) string {
	baptism := m.Baptism
	if baptism == "" {
		if m.Baptized {
			baptism = "не вказано"
		} else {
			baptism = "Ще не хрещений"
		}
	}
	birthday := m.Birthday
	if birthday == "" {
		birthday = "не вказано"
	}
	return fmt.Sprintf(
		"👤 *Ваш профіль*\n\n📛 Ім'я: %s\n📅 Хрещення: %s\n🎂 День народження: %s\n📞 Телефон: %s",
		m.Name, baptism, birthday, m.Phone,
	)
}
