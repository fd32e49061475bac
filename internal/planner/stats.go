package planner

const (
	MinRating = 0
	MaxRating = 10
)

// Stats summarizes every date present in a document
type Stats struct {
	TotalPlans        int     `json:"total_plans"`
	CompletedPlans    int     `json:"completed_plans"`
	CompletionRate    float64 `json:"completion_rate"`
	TotalAchievements int     `json:"total_achievements"`
	AverageRating     float64 `json:"avg_rating"`
}

// DaySummary is one row of the per-day overview
type DaySummary struct {
	Date           string  `json:"date"`
	HasData        bool    `json:"has_data"`
	Plans          int     `json:"plans"`
	CompletedPlans int     `json:"completed_plans"`
	CompletionRate float64 `json:"completion_rate"`
	Achievements   int     `json:"achievements"`
	Rating         int     `json:"rating"`
	Notes          string  `json:"notes,omitempty"`
}

// Stats computes totals across all dates present. Both ratios divide by at
// least one, so an empty document reports zeros.
func (doc Document) Stats() Stats {
	var st Stats
	ratingSum := 0
	for _, rec := range doc {
		if rec == nil {
			continue
		}
		st.TotalPlans += len(rec.Plans)
		st.CompletedPlans += rec.CompletedPlans()
		st.TotalAchievements += len(rec.Achievements)
		ratingSum += rec.Rating
	}
	st.CompletionRate = percent(st.CompletedPlans, st.TotalPlans)
	st.AverageRating = float64(ratingSum) / float64(max(len(doc), 1))
	return st
}

// Overview returns one summary per date of the period, in order.
// Dates without a record are reported with HasData false.
func (doc Document) Overview(p Period) []DaySummary {
	dates := p.Dates()
	out := make([]DaySummary, 0, len(dates))
	for _, date := range dates {
		out = append(out, doc.Summary(date))
	}
	return out
}

// Summary returns the overview row for one date
func (doc Document) Summary(date string) DaySummary {
	rec, ok := doc.Day(date)
	if !ok {
		return DaySummary{Date: date}
	}
	completed := rec.CompletedPlans()
	return DaySummary{
		Date:           date,
		HasData:        true,
		Plans:          len(rec.Plans),
		CompletedPlans: completed,
		CompletionRate: percent(completed, len(rec.Plans)),
		Achievements:   len(rec.Achievements),
		Rating:         rec.Rating,
		Notes:          rec.Notes,
	}
}

func percent(part, total int) float64 {
	return float64(part) / float64(max(total, 1)) * 100
}
