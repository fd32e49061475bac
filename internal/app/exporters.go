package app

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/klabast/wb-services/holiday-planner/internal/planner"
)

// CSVHeader is the first row of a CSV export
var CSVHeader = []string{"date", "kind", "content", "created_at", "completed", "rating"}

// icsEscaper escapes TEXT values per RFC 5545 section 3.3.11
var icsEscaper = strings.NewReplacer(`\`, `\\`, ";", `\;`, ",", `\,`, "\r\n", `\n`, "\n", `\n`)

// WriteICS writes the document as an iCalendar file. Every plan becomes an
// all-day VTODO; days with achievements, notes or a rating get a VEVENT.
// reminder is an optional HH:MM alarm time on the day itself.
func WriteICS(w io.Writer, doc planner.Document, reminder string) error {
	ew := &errWriter{w: w}
	stamp := time.Now().UTC().Format("20060102T150405Z")

	// ICS header
	ew.println("BEGIN:VCALENDAR")
	ew.println("VERSION:2.0")
	ew.printf("PRODID:%s\n", ICSProductID)
	ew.println("X-WR-CALNAME:Holiday Planner")
	ew.printf("X-WR-TIMEZONE:%s\n", ICSTimezone)
	ew.println("CALSCALE:GREGORIAN")

	for _, date := range doc.Dates() {
		day, err := planner.ParseDate(date)
		if err != nil {
			continue
		}
		rec, ok := doc.Day(date)
		if !ok {
			continue
		}
		start := day.Format("20060102")
		end := day.AddDate(0, 0, 1).Format("20060102")

		for i, plan := range rec.Plans {
			ew.println("BEGIN:VTODO")
			ew.printf("UID:%s-plan-%d@%s\n", date, i, ICSDomain)
			ew.printf("DTSTAMP:%s\n", stamp)
			ew.printf("DTSTART;VALUE=DATE:%s\n", start)
			ew.printf("DUE;VALUE=DATE:%s\n", end)
			ew.printf("SUMMARY:%s\n", icsEscaper.Replace(plan.Content))
			if plan.Completed {
				ew.println("STATUS:COMPLETED")
			} else {
				ew.println("STATUS:NEEDS-ACTION")
				if reminder != "" {
					AddAlarm(ew, day, 0, reminder, icsEscaper.Replace(plan.Content))
				}
			}
			ew.println("END:VTODO")
		}

		if len(rec.Achievements) == 0 && rec.Notes == "" && rec.Rating == 0 {
			continue
		}
		lines := make([]string, 0, len(rec.Achievements)+1)
		for _, a := range rec.Achievements {
			lines = append(lines, "- "+a.Content)
		}
		if rec.Notes != "" {
			lines = append(lines, rec.Notes)
		}

		// Event - all-day event
		ew.println("BEGIN:VEVENT")
		ew.printf("UID:%s-day@%s\n", date, ICSDomain)
		ew.printf("DTSTAMP:%s\n", stamp)
		ew.printf("DTSTART;VALUE=DATE:%s\n", start)
		ew.printf("DTEND;VALUE=DATE:%s\n", end)
		ew.printf("SUMMARY:Holiday %s (%d/%d)\n", date, rec.Rating, planner.MaxRating)
		if len(lines) > 0 {
			ew.printf("DESCRIPTION:%s\n", icsEscaper.Replace(strings.Join(lines, "\n")))
		}
		ew.println("END:VEVENT")
	}

	ew.println("END:VCALENDAR")
	return ew.err
}

// AddAlarm adds an alarm/reminder to an ICS event
func AddAlarm(w io.Writer, eventDate time.Time, daysBefore int, alarmTime string, description string) {
	// Parse alarm time (HH:MM format)
	parts := strings.Split(alarmTime, ":")
	if len(parts) != 2 {
		return
	}

	hour, err1 := strconv.Atoi(parts[0])
	minute, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil {
		return
	}

	// Event is at 00:00 on eventDate, alarm should be at alarmTime on (eventDate - daysBefore)
	alarmDate := eventDate.AddDate(0, 0, -daysBefore)
	alarmDateTime := time.Date(alarmDate.Year(), alarmDate.Month(), alarmDate.Day(), hour, minute, 0, 0, time.UTC)
	eventStart := time.Date(eventDate.Year(), eventDate.Month(), eventDate.Day(), 0, 0, 0, 0, time.UTC)
	duration := alarmDateTime.Sub(eventStart)

	// Format as ISO 8601 duration, negative for triggers before the event
	totalMinutes := int(duration.Minutes())
	isNegative := totalMinutes < 0
	if isNegative {
		totalMinutes = -totalMinutes
	}

	days := totalMinutes / (24 * 60)
	remainingMinutes := totalMinutes % (24 * 60)
	hours := remainingMinutes / 60
	minutes := remainingMinutes % 60

	var trigger string
	if isNegative {
		trigger = fmt.Sprintf("-P%dDT%dH%dM", days, hours, minutes)
	} else {
		trigger = fmt.Sprintf("P%dDT%dH%dM", days, hours, minutes)
	}

	fmt.Fprintln(w, "BEGIN:VALARM")
	fmt.Fprintln(w, "ACTION:DISPLAY")
	fmt.Fprintf(w, "DESCRIPTION:Reminder: %s\n", description)
	fmt.Fprintf(w, "TRIGGER:%s\n", trigger)
	fmt.Fprintln(w, "END:VALARM")
}

// WriteCSV writes one row per plan and achievement, plus a "day" row
// carrying rating and notes for every date.
func WriteCSV(w io.Writer, doc planner.Document) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return err
	}

	for _, date := range doc.Dates() {
		rec, ok := doc.Day(date)
		if !ok {
			continue
		}
		rows := [][]string{{date, "day", rec.Notes, "", "", strconv.Itoa(rec.Rating)}}
		for _, p := range rec.Plans {
			rows = append(rows, []string{date, "plan", p.Content, p.CreatedAt, strconv.FormatBool(p.Completed), ""})
		}
		for _, a := range rec.Achievements {
			rows = append(rows, []string{date, "achievement", a.Content, a.CreatedAt, "", ""})
		}
		if err := cw.WriteAll(rows); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteJSON writes the document together with its stats and period overview
func WriteJSON(w io.Writer, doc planner.Document, period planner.Period) error {
	export := Export{
		Period:   newPeriodResponse(period),
		Stats:    doc.Stats(),
		Overview: doc.Overview(period),
		Data:     doc,
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(export)
}

// errWriter keeps the first write error so ICS generation reads linearly
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(p)
	e.err = err
	return n, err
}

func (e *errWriter) println(s string) {
	fmt.Fprintln(e, s)
}

func (e *errWriter) printf(format string, args ...any) {
	fmt.Fprintf(e, format, args...)
}
