package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const scenarioJSON = `{"2024-10-02": {"plans":[{"content":"hike","completed":false,"created_at":"09:00"}], "achievements":[], "rating":7, "notes":"great day"}}`

func TestStatsEmptyDocument(t *testing.T) {
	assert.Equal(t, Stats{}, Document{}.Stats())
	assert.Equal(t, Stats{}, Document(nil).Stats())
}

func TestStatsScenario(t *testing.T) {
	doc, err := Decode([]byte(scenarioJSON))
	require.NoError(t, err)

	st := doc.Stats()
	assert.Equal(t, 1, st.TotalPlans)
	assert.Equal(t, 0, st.CompletedPlans)
	assert.InDelta(t, 0.0, st.CompletionRate, 1e-9)
	assert.Equal(t, 0, st.TotalAchievements)
	assert.InDelta(t, 7.0, st.AverageRating, 1e-9)

	require.NoError(t, doc.CompletePlan("2024-10-02", 0))

	st = doc.Stats()
	assert.Equal(t, 1, st.CompletedPlans)
	assert.InDelta(t, 100.0, st.CompletionRate, 1e-9)
}

func TestStatsAcrossDays(t *testing.T) {
	doc := Document{}
	require.NoError(t, doc.AddPlan("2025-10-02", "a"))
	require.NoError(t, doc.AddPlan("2025-10-02", "b"))
	require.NoError(t, doc.AddPlan("2025-10-03", "c"))
	require.NoError(t, doc.AddPlan("2025-10-03", "d"))
	require.NoError(t, doc.CompletePlan("2025-10-02", 0))
	require.NoError(t, doc.AddAchievement("2025-10-03", "x"))
	require.NoError(t, doc.SetRating("2025-10-02", 6))
	require.NoError(t, doc.SetRating("2025-10-03", 9))
	doc.EnsureDay("2025-10-04") // counts toward the rating average

	st := doc.Stats()
	assert.Equal(t, 4, st.TotalPlans)
	assert.Equal(t, 1, st.CompletedPlans)
	assert.InDelta(t, 25.0, st.CompletionRate, 1e-9)
	assert.Equal(t, 1, st.TotalAchievements)
	assert.InDelta(t, 5.0, st.AverageRating, 1e-9)
}

func TestOverview(t *testing.T) {
	doc := Document{}
	require.NoError(t, doc.AddPlan("2025-10-03", "a"))
	require.NoError(t, doc.AddPlan("2025-10-03", "b"))
	require.NoError(t, doc.CompletePlan("2025-10-03", 1))
	require.NoError(t, doc.SetRating("2025-10-03", 8))
	doc.EnsureDay("2025-12-25") // outside the period

	p, err := NewPeriod("2025-10-02", 3)
	require.NoError(t, err)

	rows := doc.Overview(p)
	require.Len(t, rows, 3)
	assert.Equal(t, DaySummary{Date: "2025-10-02"}, rows[0])
	assert.Equal(t, DaySummary{
		Date:           "2025-10-03",
		HasData:        true,
		Plans:          2,
		CompletedPlans: 1,
		CompletionRate: 50,
		Rating:         8,
	}, rows[1])
	assert.Equal(t, "2025-10-04", rows[2].Date)
	assert.False(t, rows[2].HasData)
}
