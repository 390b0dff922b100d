package common

import (
	"bytes"
	"image/color"
	"strconv"
	"sync"
	"time"

	"github.com/Freeeeeet/appointment_scheduler/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/appointment_scheduler/internal/service"
	"github.com/Freeeeeet/appointment_scheduler/internal/slots"
	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// FontStyle определяет стиль шрифта
type FontStyle string

const (
	FontStyleDefault FontStyle = ""
	FontStyleBold    FontStyle = "bold"
)

// Размеры и отступы
const (
	dayImageWidth   = 900
	dayImageHeight  = 1100
	dayHeaderHeight = 110
	dayFooterHeight = 70
	hourLabelsWidth = 90
	slotsColumnX    = 650 // колонка свободных слотов справа
	blockRadius     = 6.0
	minBlockHeight  = 6.0
	defaultFromHour = 8
	defaultToHour   = 20
)

// Размеры шрифтов
const (
	dayTitleFontSize  = 30.0
	subtitleFontSize  = 20.0
	hourLabelFontSize = 18.0
	blockFontSize     = 16.0
	legendFontSize    = 15.0
)

// Цветовая схема
var (
	bgColor          = color.RGBA{245, 246, 248, 255}
	textColor        = color.RGBA{80, 85, 90, 220}
	hourLabelColor   = color.RGBA{110, 115, 120, 200}
	hourLineColor    = color.NRGBA{150, 150, 150, 255}
	closedColor      = color.NRGBA{220, 220, 220, 255}
	shiftColor       = color.RGBA{214, 236, 196, 255}
	appointmentColor = color.RGBA{255, 182, 193, 255}
	vacationColor    = color.RGBA{158, 158, 158, 200}
	freeSlotColor    = color.RGBA{133, 193, 85, 220}
	currentTimeColor = color.NRGBA{255, 80, 80, 200}
	blockTextColor   = color.RGBA{20, 24, 28, 230}
)

var (
	fontsOnce   sync.Once
	parsedFonts map[FontStyle]*opentype.Font
)

// loadFont ставит Go-шрифт нужного стиля, basicfont если разбор не удался
func loadFont(dc *gg.Context, size float64, style FontStyle) {
	fontsOnce.Do(func() {
		parsedFonts = make(map[FontStyle]*opentype.Font, 2)
		for s, data := range map[FontStyle][]byte{FontStyleDefault: goregular.TTF, FontStyleBold: gobold.TTF} {
			if f, err := opentype.Parse(data); err == nil {
				parsedFonts[s] = f
			}
		}
	})

	if f, ok := parsedFonts[style]; ok {
		face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
		if err == nil {
			dc.SetFontFace(face)
			return
		}
	}
	dc.SetFontFace(basicfont.Face7x13)
}

// hourRange отображаемые часы [start, end)
type hourRange struct {
	start int
	end   int
}

func (r hourRange) total() int { return r.end - r.start }

// dayLayout пересчитывает время дня в координату Y
type dayLayout struct {
	day        time.Time
	hours      hourRange
	top        float64
	hourHeight float64
}

func (l dayLayout) y(t time.Time) float64 {
	minutes := t.Sub(l.day).Minutes()
	return l.top + (minutes/60-float64(l.hours.start))*l.hourHeight
}

func (l dayLayout) clockY(c slots.Clock) float64 {
	return l.top + (float64(c)/60-float64(l.hours.start))*l.hourHeight
}

// GenerateDayImage рисует день специалиста: смены, записи, отпуска и свободные слоты.
// now нужен для линии текущего времени.
func GenerateDayImage(schedule *service.DaySchedule, professionalName string, now time.Time) ([]byte, error) {
	day := slots.StartOfDay(schedule.Date)
	hours := calculateHourRange(schedule)

	dc := gg.NewContext(dayImageWidth, dayImageHeight)
	dc.SetColor(bgColor)
	dc.Clear()

	height := float64(dayImageHeight - dayHeaderHeight - dayFooterHeight)
	layout := dayLayout{
		day:        day,
		hours:      hours,
		top:        dayHeaderHeight,
		hourHeight: height / float64(hours.total()),
	}

	drawDayHeader(dc, day, professionalName, len(schedule.Slots))
	drawHourGrid(dc, layout)
	drawShifts(dc, layout, schedule.Shifts)
	drawBusy(dc, layout, schedule.Commitments.Vacations, vacationColor, "Отпуск")
	drawBusy(dc, layout, schedule.Commitments.Appointments, appointmentColor, "Занято")
	drawFreeSlots(dc, layout, schedule.Slots, schedule.Duration)
	drawCurrentTime(dc, layout, now)
	drawLegend(dc)

	return encodeImage(dc)
}

// calculateHourRange часы от начала первой смены до конца последней с запасом в час
func calculateHourRange(schedule *service.DaySchedule) hourRange {
	if len(schedule.Shifts) == 0 {
		return hourRange{start: defaultFromHour, end: defaultToHour}
	}

	from, to := slots.EndOfDay, slots.Midnight
	for _, s := range schedule.Shifts {
		from = min(from, s.Start)
		to = max(to, s.End)
	}

	start := max(from.Hour()-1, 0)
	end := to.Hour() + 1
	if to.Minute() > 0 {
		end++
	}
	end = min(end, 24)
	if end <= start {
		end = min(start+1, 24)
	}
	return hourRange{start: start, end: end}
}

func drawDayHeader(dc *gg.Context, day time.Time, professionalName string, free int) {
	title := formatting.GetWeekdayName(int(day.Weekday())) + ", " + formatting.FormatDate(day)

	loadFont(dc, dayTitleFontSize, FontStyleBold)
	dc.SetColor(textColor)
	dc.DrawStringAnchored(title, dayImageWidth/2, 40, 0.5, 0.5)

	loadFont(dc, subtitleFontSize, FontStyleDefault)
	subtitle := professionalName
	if free > 0 {
		subtitle += " · свободно " + strconv.Itoa(free) + " " + formatting.PluralizeSlots(free)
	}
	dc.DrawStringAnchored(subtitle, dayImageWidth/2, 80, 0.5, 0.5)
}

func drawHourGrid(dc *gg.Context, l dayLayout) {
	loadFont(dc, hourLabelFontSize, FontStyleDefault)

	// весь день "закрыт", смены рисуются поверх
	dc.SetColor(closedColor)
	dc.DrawRectangle(hourLabelsWidth, l.top, slotsColumnX-hourLabelsWidth-10, float64(l.hours.total())*l.hourHeight)
	dc.Fill()

	for i := 0; i <= l.hours.total(); i++ {
		y := l.top + float64(i)*l.hourHeight
		dc.SetColor(hourLineColor)
		dc.SetLineWidth(0.3)
		dc.DrawLine(hourLabelsWidth, y, dayImageWidth-20, y)
		dc.Stroke()

		if i < l.hours.total() {
			dc.SetColor(hourLabelColor)
			dc.DrawStringAnchored(slots.Clock((l.hours.start+i)*60).String(), hourLabelsWidth-10, y, 1, 0.5)
		}
	}
}

func drawShifts(dc *gg.Context, l dayLayout, shifts []slots.Shift) {
	dc.SetColor(shiftColor)
	for _, s := range shifts {
		y1, y2 := l.clockY(s.Start), l.clockY(s.End)
		dc.DrawRectangle(hourLabelsWidth, y1, slotsColumnX-hourLabelsWidth-10, y2-y1)
		dc.Fill()
	}
}

func drawBusy(dc *gg.Context, l dayLayout, intervals []slots.Interval, fill color.Color, label string) {
	bounds := slots.DayBounds(l.day)
	x := float64(hourLabelsWidth + 12)
	w := float64(slotsColumnX - hourLabelsWidth - 34)

	for _, iv := range intervals {
		start, end := iv.Start, iv.End
		if start.Before(bounds.Start) {
			start = bounds.Start
		}
		if end.After(bounds.End) {
			end = bounds.End
		}
		y1, y2 := l.y(start), l.y(end)
		h := max(y2-y1, minBlockHeight)

		dc.SetColor(fill)
		dc.DrawRoundedRectangle(x, y1+1, w, h-2, blockRadius)
		dc.Fill()

		if h >= blockFontSize+4 {
			loadFont(dc, blockFontSize, FontStyleBold)
			dc.SetColor(blockTextColor)
			dc.DrawStringAnchored(label+" "+formatting.FormatTimeRange(iv.Start, iv.End), x+10, y1+h/2, 0, 0.5)
		}
	}
}

func drawFreeSlots(dc *gg.Context, l dayLayout, free []slots.Clock, duration time.Duration) {
	loadFont(dc, blockFontSize, FontStyleDefault)
	for _, c := range free {
		y := l.clockY(c)
		dc.SetColor(freeSlotColor)
		dc.DrawCircle(slotsColumnX+8, y, 5)
		dc.Fill()

		dc.SetColor(blockTextColor)
		dc.DrawStringAnchored(c.String()+"-"+c.Add(duration).String(), slotsColumnX+22, y, 0, 0.5)
	}
}

func drawCurrentTime(dc *gg.Context, l dayLayout, now time.Time) {
	now = now.In(l.day.Location())
	if !slots.StartOfDay(now).Equal(l.day) {
		return
	}
	y := l.y(now)
	if y < l.top || y > l.top+float64(l.hours.total())*l.hourHeight {
		return
	}
	dc.SetColor(currentTimeColor)
	dc.SetLineWidth(2)
	dc.DrawLine(hourLabelsWidth, y, dayImageWidth-20, y)
	dc.Stroke()
}

func drawLegend(dc *gg.Context) {
	items := []struct {
		c    color.Color
		text string
	}{
		{shiftColor, "Рабочее время"},
		{appointmentColor, "Занято"},
		{vacationColor, "Отпуск"},
		{freeSlotColor, "Свободно"},
	}

	loadFont(dc, legendFontSize, FontStyleDefault)
	y := float64(dayImageHeight - dayFooterHeight/2)
	x := float64(hourLabelsWidth)
	for _, it := range items {
		dc.SetColor(it.c)
		dc.DrawRoundedRectangle(x, y-9, 18, 18, 4)
		dc.Fill()
		dc.SetColor(textColor)
		dc.DrawStringAnchored(it.text, x+26, y, 0, 0.5)
		w, _ := dc.MeasureString(it.text)
		x += 26 + w + 30
	}
}

// encodeImage кодирует холст в PNG
func encodeImage(dc *gg.Context) ([]byte, error) {
	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
