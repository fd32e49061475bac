package app

import "github.com/klabast/wb-services/holiday-planner/internal/planner"

// ContentRequest adds a plan or an achievement
type ContentRequest struct {
	Date    string `json:"date" validate:"required,datetime=2006-01-02"`
	Content string `json:"content" validate:"required"`
}

// RatingRequest sets the rating of a day
type RatingRequest struct {
	Date   string `json:"date" validate:"required,datetime=2006-01-02"`
	Rating *int   `json:"rating" validate:"required,min=0,max=10"`
}

// MemoRequest sets the notes of a day using the legacy field name
type MemoRequest struct {
	Date string  `json:"date" validate:"required,datetime=2006-01-02"`
	Memo *string `json:"memo" validate:"required"`
}

// NotesRequest sets the notes of a day
type NotesRequest struct {
	Date  string  `json:"date" validate:"required,datetime=2006-01-02"`
	Notes *string `json:"notes" validate:"required"`
}

// Result is the body returned by every mutating endpoint
type Result struct {
	Success     bool     `json:"success"`
	Error       string   `json:"error,omitempty"`
	Message     string   `json:"message,omitempty"`
	SyncedDates []string `json:"synced_dates,omitempty"`
}

// PeriodResponse describes the configured holiday window
type PeriodResponse struct {
	Start string   `json:"start"`
	End   string   `json:"end"`
	Days  int      `json:"days"`
	Dates []string `json:"dates"`
}

// Export is the body of a JSON export
type Export struct {
	Period   PeriodResponse       `json:"period"`
	Stats    planner.Stats        `json:"stats"`
	Overview []planner.DaySummary `json:"overview"`
	Data     planner.Document     `json:"data"`
}

func newPeriodResponse(p planner.Period) PeriodResponse {
	return PeriodResponse{
		Start: p.Start.Format(planner.DateLayout),
		End:   p.End().Format(planner.DateLayout),
		Days:  p.Days,
		Dates: p.Dates(),
	}
}
