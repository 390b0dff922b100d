package formatting

import (
	"fmt"
	"time"
)

// FormatDateTime форматирует дату и время
func FormatDateTime(t time.Time) string {
	return t.Format("02.01.2006 15:04")
}

// FormatDate форматирует только дату
func FormatDate(t time.Time) string {
	return t.Format("02.01.2006")
}

// FormatDayButton короткая подпись дня для кнопки: "Пн 19.10"
func FormatDayButton(t time.Time) string {
	return GetWeekdayShortName(int(t.Weekday())) + " " + t.Format("02.01")
}

// FormatTime форматирует только время
func FormatTime(t time.Time) string {
	return t.Format("15:04")
}

// FormatTimeRange форматирует диапазон времени
func FormatTimeRange(start, end time.Time) string {
	return fmt.Sprintf("%s-%s", start.Format("15:04"), end.Format("15:04"))
}

// FormatDuration форматирует длительность в минутах
func FormatDuration(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%d мин", minutes)
	}
	hours := minutes / 60
	mins := minutes % 60
	if mins == 0 {
		return fmt.Sprintf("%d ч", hours)
	}
	return fmt.Sprintf("%d ч %d мин", hours, mins)
}

var (
	weekdayNames      = []string{"Воскресенье", "Понедельник", "Вторник", "Среда", "Четверг", "Пятница", "Суббота"}
	weekdayShortNames = []string{"Вс", "Пн", "Вт", "Ср", "Чт", "Пт", "Сб"}
	monthNames        = []string{"Январь", "Февраль", "Март", "Апрель", "Май", "Июнь", "Июль", "Август", "Сентябрь", "Октябрь", "Ноябрь", "Декабрь"}
)

// GetWeekdayName возвращает название дня недели на русском
func GetWeekdayName(weekday int) string {
	if weekday >= 0 && weekday < len(weekdayNames) {
		return weekdayNames[weekday]
	}
	return "Неизвестно"
}

// GetWeekdayShortName возвращает краткое название дня недели на русском
func GetWeekdayShortName(weekday int) string {
	if weekday >= 0 && weekday < len(weekdayShortNames) {
		return weekdayShortNames[weekday]
	}
	return "?"
}

// GetMonthName название месяца на русском
func GetMonthName(month time.Month) string {
	if month >= time.January && month <= time.December {
		return monthNames[month-1]
	}
	return "?"
}
