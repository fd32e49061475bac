package planner

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// TimeFormat is the layout of created_at stamps
const TimeFormat = "15:04"

// now is swapped out in tests
var now = time.Now

// EnsureDay returns the record for date, inserting a default one if needed
func (doc Document) EnsureDay(date string) *DayRecord {
	rec, ok := doc[date]
	if !ok || rec == nil {
		rec = NewDayRecord()
		doc[date] = rec
	}
	return rec
}

// Day returns the record for date without creating it
func (doc Document) Day(date string) (*DayRecord, bool) {
	rec, ok := doc[date]
	if !ok || rec == nil {
		return nil, false
	}
	return rec, true
}

// AddPlan appends an open plan stamped with the current local time
func (doc Document) AddPlan(date, content string) error {
	content, err := requireContent(date, content)
	if err != nil {
		return err
	}
	rec := doc.EnsureDay(date)
	rec.Plans = append(rec.Plans, Plan{
		Content:   content,
		Completed: false,
		CreatedAt: now().Format(TimeFormat),
	})
	return nil
}

// CompletePlan marks the plan at index as completed
func (doc Document) CompletePlan(date string, index int) error {
	rec, ok := doc.Day(date)
	if !ok || index < 0 || index >= len(rec.Plans) {
		return indexError("plan", date, index)
	}
	rec.Plans[index].Completed = true
	return nil
}

// DeletePlan removes the plan at index, shifting later plans down
func (doc Document) DeletePlan(date string, index int) error {
	rec, ok := doc.Day(date)
	if !ok || index < 0 || index >= len(rec.Plans) {
		return indexError("plan", date, index)
	}
	rec.Plans = append(rec.Plans[:index], rec.Plans[index+1:]...)
	return nil
}

// AddAchievement appends an achievement stamped with the current local time
func (doc Document) AddAchievement(date, content string) error {
	content, err := requireContent(date, content)
	if err != nil {
		return err
	}
	rec := doc.EnsureDay(date)
	rec.Achievements = append(rec.Achievements, Achievement{
		Content:   content,
		CreatedAt: now().Format(TimeFormat),
	})
	return nil
}

// DeleteAchievement removes the achievement at index
func (doc Document) DeleteAchievement(date string, index int) error {
	rec, ok := doc.Day(date)
	if !ok || index < 0 || index >= len(rec.Achievements) {
		return indexError("achievement", date, index)
	}
	rec.Achievements = append(rec.Achievements[:index], rec.Achievements[index+1:]...)
	return nil
}

// SetRating overwrites the day rating. Values outside [MinRating, MaxRating]
// are rejected and leave the record untouched.
func (doc Document) SetRating(date string, rating int) error {
	if date == "" {
		return fmt.Errorf("%w: date is required", ErrValidation)
	}
	if rating < MinRating || rating > MaxRating {
		return fmt.Errorf("%w: rating %d outside %d-%d", ErrValidation, rating, MinRating, MaxRating)
	}
	doc.EnsureDay(date).Rating = rating
	return nil
}

// SetNotes overwrites the day notes
func (doc Document) SetNotes(date, text string) error {
	if date == "" {
		return fmt.Errorf("%w: date is required", ErrValidation)
	}
	doc.EnsureDay(date).Notes = text
	return nil
}

// Merge copies every date of partial into doc, replacing existing records
// wholesale. It returns the merged dates in sorted order.
func (doc Document) Merge(partial Document) []string {
	dates := make([]string, 0, len(partial))
	for date, rec := range partial {
		if rec == nil {
			rec = NewDayRecord()
		}
		doc[date] = rec
		dates = append(dates, date)
	}
	sort.Strings(dates)
	return dates
}

// Dates returns the dates present in the document in sorted order
func (doc Document) Dates() []string {
	dates := make([]string, 0, len(doc))
	for date := range doc {
		dates = append(dates, date)
	}
	sort.Strings(dates)
	return dates
}

func requireContent(date, content string) (string, error) {
	if date == "" {
		return "", fmt.Errorf("%w: date is required", ErrValidation)
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return "", fmt.Errorf("%w: content is required", ErrValidation)
	}
	return content, nil
}

func indexError(kind, date string, index int) error {
	return fmt.Errorf("%w: %s %d on %s", ErrIndexOutOfRange, kind, index, date)
}
