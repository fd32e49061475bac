package planner

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixClock(t *testing.T, hh, mm int) {
	t.Helper()
	prev := now
	now = func() time.Time { return time.Date(2025, 10, 2, hh, mm, 0, 0, time.Local) }
	t.Cleanup(func() { now = prev })
}

func TestEnsureDayDefaults(t *testing.T) {
	doc := Document{}
	rec := doc.EnsureDay("2025-10-05")

	assert.Empty(t, rec.Plans)
	assert.NotNil(t, rec.Plans)
	assert.Empty(t, rec.Achievements)
	assert.NotNil(t, rec.Achievements)
	assert.Equal(t, 0, rec.Rating)
	assert.Equal(t, "", rec.Notes)
	assert.Len(t, doc, 1)

	// second call returns the same record
	rec.Rating = 4
	assert.Same(t, rec, doc.EnsureDay("2025-10-05"))
}

func TestAddPlan(t *testing.T) {
	fixClock(t, 9, 5)
	doc := Document{}

	require.NoError(t, doc.AddPlan("2025-10-02", "  등산 가기  "))
	rec := doc["2025-10-02"]
	require.Len(t, rec.Plans, 1)
	assert.Equal(t, Plan{Content: "등산 가기", Completed: false, CreatedAt: "09:05"}, rec.Plans[0])
}

func TestAddPlanRejectsEmptyContent(t *testing.T) {
	tests := []struct {
		name    string
		date    string
		content string
	}{
		{name: "empty", date: "2025-10-02", content: ""},
		{name: "whitespace", date: "2025-10-02", content: "   \t"},
		{name: "missing date", date: "", content: "hike"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := Document{}
			err := doc.AddPlan(tt.date, tt.content)
			require.ErrorIs(t, err, ErrValidation)
			assert.Empty(t, doc, "validation failure must not create the day")

			err = doc.AddAchievement(tt.date, tt.content)
			require.ErrorIs(t, err, ErrValidation)
			assert.Empty(t, doc)
		})
	}
}

func TestCompleteLastPlanLeavesOthers(t *testing.T) {
	doc := Document{}
	for _, c := range []string{"a", "b", "c"} {
		require.NoError(t, doc.AddPlan("2025-10-03", c))
	}
	last := len(doc["2025-10-03"].Plans) - 1

	require.NoError(t, doc.CompletePlan("2025-10-03", last))

	plans := doc["2025-10-03"].Plans
	assert.False(t, plans[0].Completed)
	assert.False(t, plans[1].Completed)
	assert.True(t, plans[2].Completed)
}

func TestCompletePlanOutOfRange(t *testing.T) {
	doc := Document{}
	require.NoError(t, doc.AddPlan("2025-10-03", "a"))

	for _, idx := range []int{-1, 1, 5} {
		err := doc.CompletePlan("2025-10-03", idx)
		assert.ErrorIs(t, err, ErrIndexOutOfRange, "index %d", idx)
	}
	assert.ErrorIs(t, doc.CompletePlan("2025-10-09", 0), ErrIndexOutOfRange)
	_, created := doc["2025-10-09"]
	assert.False(t, created, "failed completion must not create the day")
}

func TestDeletePlanShiftsIndices(t *testing.T) {
	fixClock(t, 10, 0)
	doc := Document{}
	for _, c := range []string{"a", "b", "c", "d"} {
		require.NoError(t, doc.AddPlan("2025-10-04", c))
	}

	require.NoError(t, doc.DeletePlan("2025-10-04", 1))

	got := doc["2025-10-04"].Plans
	want := []Plan{
		{Content: "a", CreatedAt: "10:00"},
		{Content: "c", CreatedAt: "10:00"},
		{Content: "d", CreatedAt: "10:00"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("plans after delete mismatch (-want +got):\n%s", diff)
	}
}

func TestDeletePlanOutOfRangeMutatesNothing(t *testing.T) {
	doc := Document{}
	require.NoError(t, doc.AddPlan("2025-10-04", "a"))
	require.NoError(t, doc.AddPlan("2025-10-04", "b"))
	before := doc["2025-10-04"].Clone()

	err := doc.DeletePlan("2025-10-04", 2)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrIndexOutOfRange))
	assert.Equal(t, before, doc["2025-10-04"])
}

func TestAchievements(t *testing.T) {
	fixClock(t, 21, 30)
	doc := Document{}
	require.NoError(t, doc.AddAchievement("2025-10-06", "책 한 권 완독"))
	require.NoError(t, doc.AddAchievement("2025-10-06", "5km run"))

	assert.Equal(t, []Achievement{
		{Content: "책 한 권 완독", CreatedAt: "21:30"},
		{Content: "5km run", CreatedAt: "21:30"},
	}, doc["2025-10-06"].Achievements)

	require.NoError(t, doc.DeleteAchievement("2025-10-06", 0))
	assert.Equal(t, []Achievement{{Content: "5km run", CreatedAt: "21:30"}}, doc["2025-10-06"].Achievements)

	assert.ErrorIs(t, doc.DeleteAchievement("2025-10-06", 1), ErrIndexOutOfRange)
}

func TestSetRating(t *testing.T) {
	doc := Document{}
	require.NoError(t, doc.SetRating("2025-10-07", 8))
	assert.Equal(t, 8, doc["2025-10-07"].Rating)

	for _, r := range []int{-1, 11, 100} {
		err := doc.SetRating("2025-10-07", r)
		assert.ErrorIs(t, err, ErrValidation, "rating %d", r)
	}
	assert.Equal(t, 8, doc["2025-10-07"].Rating)

	assert.NoError(t, doc.SetRating("2025-10-08", 0))
	assert.NoError(t, doc.SetRating("2025-10-08", 10))
}

func TestSetNotes(t *testing.T) {
	doc := Document{}
	require.NoError(t, doc.SetNotes("2025-10-07", "가족과 송편 만들기"))
	assert.Equal(t, "가족과 송편 만들기", doc["2025-10-07"].Notes)

	require.NoError(t, doc.SetNotes("2025-10-07", ""))
	assert.Equal(t, "", doc["2025-10-07"].Notes)

	assert.ErrorIs(t, doc.SetNotes("", "x"), ErrValidation)
}

func TestMergeReplacesWholesale(t *testing.T) {
	doc := Document{
		"2024-10-02": {Plans: []Plan{{Content: "hike", CreatedAt: "09:00"}}, Achievements: []Achievement{}, Rating: 7, Notes: "great day"},
		"2024-10-03": {Plans: []Plan{{Content: "old", CreatedAt: "08:00"}}, Achievements: []Achievement{}, Rating: 2},
	}
	incoming := Document{
		"2024-10-03": {Plans: []Plan{}, Achievements: []Achievement{{Content: "new", CreatedAt: "12:00"}}, Rating: 9},
		"2024-10-04": nil,
	}

	synced := doc.Merge(incoming)

	assert.Equal(t, []string{"2024-10-03", "2024-10-04"}, synced)
	assert.Equal(t, 7, doc["2024-10-02"].Rating)
	assert.Equal(t, "great day", doc["2024-10-02"].Notes)
	assert.Empty(t, doc["2024-10-03"].Plans, "merge is shallow: lists are not combined")
	assert.Equal(t, 9, doc["2024-10-03"].Rating)
	assert.Equal(t, NewDayRecord(), doc["2024-10-04"])
}

func TestDates(t *testing.T) {
	doc := Document{"2025-10-05": NewDayRecord(), "2025-10-02": NewDayRecord(), "2025-10-11": NewDayRecord()}
	assert.Equal(t, []string{"2025-10-02", "2025-10-05", "2025-10-11"}, doc.Dates())
}
