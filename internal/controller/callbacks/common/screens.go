package common

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/Freeeeeet/appointment_scheduler/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/appointment_scheduler/internal/controller/callbacks/common/keyboard"
	"github.com/Freeeeeet/appointment_scheduler/internal/model"
	"github.com/go-telegram/bot/models"
)

const (
	slotsPerRow = 4
	datesPerRow = 3
)

// BuildProfessionalsScreen первый шаг записи: выбор специалиста
func BuildProfessionalsScreen(pros []*model.Professional) (string, *models.InlineKeyboardMarkup) {
	if len(pros) == 0 {
		return "😔 Сейчас нет специалистов, к которым можно записаться.",
			keyboard.NewBuilder().AddBackToMainButton().Build()
	}

	kb := keyboard.NewBuilder()
	for _, p := range pros {
		kb.Row(keyboard.Button("👤 "+p.Name, fmt.Sprintf("%s%d", BookProfessional, p.ID)))
	}
	kb.Row(keyboard.CancelButton(BookAbort))

	return "📝 <b>Запись</b>\n\nВыберите специалиста:", kb.Build()
}

// BuildServicesScreen выбор услуги
func BuildServicesScreen(pro *model.Professional, services []*model.Service) (string, *models.InlineKeyboardMarkup) {
	kb := keyboard.NewBuilder()
	for _, s := range services {
		label := fmt.Sprintf("%s · %s · %s", s.Name, formatting.FormatDuration(s.DurationMinutes), formatting.FormatPriceShort(s.PriceCents))
		kb.Row(keyboard.Button(label, fmt.Sprintf("%s%d", BookService, s.ID)))
	}
	kb.Row(keyboard.BackButton(BookStart), keyboard.CancelButton(BookAbort))

	text := fmt.Sprintf("📝 <b>Запись</b>\n\n👤 Специалист: %s\n\nВыберите услугу:", html.EscapeString(pro.Name))
	if len(services) == 0 {
		text = "😔 Нет доступных услуг."
	}
	return text, kb.Build()
}

// BuildDatesScreen выбор даты из ближайших days дней начиная с today
func BuildDatesScreen(pro *model.Professional, svc *model.Service, today time.Time, days int) (string, *models.InlineKeyboardMarkup) {
	buttons := make([]models.InlineKeyboardButton, 0, days)
	for i := range days {
		day := today.AddDate(0, 0, i)
		buttons = append(buttons, keyboard.Button(formatting.FormatDayButton(day), BookDate+DateToken(day)))
	}

	kb := keyboard.NewBuilder().
		Grid(buttons, datesPerRow).
		Row(keyboard.BackButton(fmt.Sprintf("%s%d", BookProfessional, pro.ID)), keyboard.CancelButton(BookAbort))

	text := fmt.Sprintf(
		"📝 <b>Запись</b>\n\n👤 Специалист: %s\n💼 Услуга: %s\n\nВыберите дату:",
		html.EscapeString(pro.Name),
		html.EscapeString(svc.Name),
	)
	return text, kb.Build()
}

// BuildSlotsScreen выбор времени начала
func BuildSlotsScreen(pro *model.Professional, svc *model.Service, date time.Time, free []string) (string, *models.InlineKeyboardMarkup) {
	buttons := make([]models.InlineKeyboardButton, 0, len(free))
	for _, clock := range free {
		buttons = append(buttons, keyboard.Button(clock, BookSlot+SlotToken(clock)))
	}

	kb := keyboard.NewBuilder().
		Grid(buttons, slotsPerRow).
		Row(keyboard.BackButton(fmt.Sprintf("%s%d", BookService, svc.ID)), keyboard.CancelButton(BookAbort))

	header := fmt.Sprintf(
		"📝 <b>Запись</b>\n\n👤 Специалист: %s\n💼 Услуга: %s\n📅 %s, %s\n\n",
		html.EscapeString(pro.Name),
		html.EscapeString(svc.Name),
		formatting.GetWeekdayName(int(date.Weekday())),
		formatting.FormatDate(date),
	)
	if len(free) == 0 {
		return header + "😔 На этот день свободного времени нет. Выберите другую дату.", kb.Build()
	}
	return header + fmt.Sprintf("Свободно %d %s. Выберите время:", len(free), formatting.PluralizeSlots(len(free))), kb.Build()
}

// BuildConfirmScreen итог перед созданием записи
func BuildConfirmScreen(pro *model.Professional, svc *model.Service, date time.Time, start, notes string) (string, *models.InlineKeyboardMarkup) {
	var sb strings.Builder
	sb.WriteString("📝 <b>Подтвердите запись</b>\n\n")
	fmt.Fprintf(&sb, "👤 Специалист: %s\n", html.EscapeString(pro.Name))
	fmt.Fprintf(&sb, "💼 Услуга: %s (%s)\n", html.EscapeString(svc.Name), formatting.FormatDuration(svc.DurationMinutes))
	fmt.Fprintf(&sb, "📅 Дата: %s, %s\n", formatting.GetWeekdayName(int(date.Weekday())), formatting.FormatDate(date))
	fmt.Fprintf(&sb, "🕐 Время: %s\n", start)
	fmt.Fprintf(&sb, "💰 Стоимость: %s\n", formatting.FormatPrice(svc.PriceCents))
	if notes != "" {
		fmt.Fprintf(&sb, "💬 Комментарий: %s\n", html.EscapeString(notes))
	}

	kb := keyboard.NewBuilder().
		Row(keyboard.ConfirmButton(BookConfirm)).
		Row(keyboard.Button("💬 Комментарий", BookNotes)).
		Row(keyboard.BackButton(BookDate+DateToken(date)), keyboard.CancelButton(BookAbort))

	return sb.String(), kb.Build()
}

// FormatAppointment карточка записи
func FormatAppointment(a *model.Appointment) string {
	display := formatting.GetAppointmentStatusDisplay(a.Status)

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s <b>Запись #%d</b>\n", display.Emoji, a.ID)
	if a.Professional != nil {
		fmt.Fprintf(&sb, "👤 %s\n", html.EscapeString(a.Professional.Name))
	}
	if a.Service != nil {
		fmt.Fprintf(&sb, "💼 %s\n", html.EscapeString(a.Service.Name))
	}
	fmt.Fprintf(&sb, "📅 %s, %s\n", formatting.FormatDate(a.StartsAt), formatting.FormatTimeRange(a.StartsAt, a.EndsAt))
	fmt.Fprintf(&sb, "📊 Статус: %s", display.Text)
	if a.Notes != "" {
		fmt.Fprintf(&sb, "\n💬 %s", html.EscapeString(a.Notes))
	}
	return sb.String()
}

// BuildMyAppointmentsScreen предстоящие записи клиента с кнопками отмены
func BuildMyAppointmentsScreen(list []*model.Appointment) (string, *models.InlineKeyboardMarkup) {
	if len(list) == 0 {
		kb := keyboard.NewBuilder().Row(keyboard.Button("➕ Записаться", BookStart)).Build()
		return "📅 У вас нет предстоящих записей.", kb
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "📅 <b>Ваши записи</b> (%d %s)\n\n", len(list), formatting.PluralizeAppointments(len(list)))

	kb := keyboard.NewBuilder()
	for i, a := range list {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(FormatAppointment(a))

		if Cancellable(a.Status) {
			label := fmt.Sprintf("❌ Отменить #%d (%s)", a.ID, formatting.FormatDateTime(a.StartsAt))
			kb.Row(keyboard.Button(label, fmt.Sprintf("%s%d", CancelAppointment, a.ID)))
		}
	}
	kb.Row(keyboard.Button("➕ Записаться ещё", BookStart))

	return sb.String(), kb.Build()
}

// BuildCancelConfirmScreen подтверждение отмены
func BuildCancelConfirmScreen(a *model.Appointment) (string, *models.InlineKeyboardMarkup) {
	text := "❓ <b>Отменить запись?</b>\n\n" + FormatAppointment(a)
	kb := keyboard.NewBuilder().
		Row(keyboard.YesNoButtons(fmt.Sprintf("%s%d", ConfirmCancel, a.ID), MyAppointments)...).
		Build()
	return text, kb
}

// BuildDayProfessionalsScreen выбор специалиста для просмотра дня
func BuildDayProfessionalsScreen(pros []*model.Professional) (string, *models.InlineKeyboardMarkup) {
	if len(pros) == 0 {
		return "😔 Специалистов пока нет.", keyboard.NewBuilder().AddBackToMainButton().Build()
	}
	kb := keyboard.NewBuilder()
	for _, p := range pros {
		kb.Row(keyboard.Button("👤 "+p.Name, fmt.Sprintf("%s%d", DayProfessional, p.ID)))
	}
	return "🗓 <b>Расписание дня</b>\n\nВыберите специалиста:", kb.Build()
}

// BuildDayDatesScreen выбор даты для просмотра дня
func BuildDayDatesScreen(pro *model.Professional, today time.Time, days int) (string, *models.InlineKeyboardMarkup) {
	buttons := make([]models.InlineKeyboardButton, 0, days)
	for i := range days {
		day := today.AddDate(0, 0, i)
		buttons = append(buttons, keyboard.Button(
			formatting.FormatDayButton(day),
			fmt.Sprintf("%s%d:%s", DayDate, pro.ID, DateToken(day)),
		))
	}
	kb := keyboard.NewBuilder().Grid(buttons, datesPerRow).AddBackButton(DayStart).Build()
	return fmt.Sprintf("🗓 <b>Расписание дня</b>\n\n👤 %s\n\nВыберите дату:", html.EscapeString(pro.Name)), kb
}

// Cancellable клиент может отменить запись сам только до начала приёма
func Cancellable(status model.AppointmentStatus) bool {
	return status == model.AppointmentStatusScheduled || status == model.AppointmentStatusConfirmed
}
