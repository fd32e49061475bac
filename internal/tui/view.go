package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/klabast/wb-services/holiday-planner/internal/planner"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	headingStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	doneStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Strikethrough(true)
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("78"))
	panelStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

// View implements tea.Model
func (m Model) View() string {
	var b strings.Builder

	date := m.currentDate()
	b.WriteString(titleStyle.Render(fmt.Sprintf("Holiday Planner  %s  (%d/%d)", date, m.day+1, len(m.dates))))
	b.WriteString("\n\n")

	rec, ok := m.doc.Day(date)
	if !ok {
		rec = planner.NewDayRecord()
	}

	lists := lipgloss.JoinHorizontal(lipgloss.Top,
		panelStyle.Render(m.renderPlans(rec)),
		panelStyle.Render(m.renderAchievements(rec)),
	)
	b.WriteString(lists)
	b.WriteString("\n")

	b.WriteString(headingStyle.Render("Rating "))
	b.WriteString(RatingBar(rec.Rating))
	b.WriteString("\n")
	b.WriteString(headingStyle.Render("Notes  "))
	if rec.Notes == "" {
		b.WriteString(dimStyle.Render("(none)"))
	} else {
		b.WriteString(rec.Notes)
	}
	b.WriteString("\n\n")

	st := m.doc.Stats()
	b.WriteString(dimStyle.Render(fmt.Sprintf("Total: %d plans, %d completed (%.1f%%), %d achievements, avg rating %.1f",
		st.TotalPlans, st.CompletedPlans, st.CompletionRate, st.TotalAchievements, st.AverageRating)))
	b.WriteString("\n")

	if m.showOverview {
		b.WriteString("\n")
		b.WriteString(OverviewTable(m.doc.Overview(m.period)))
		b.WriteString("\n")
	}

	if m.mode == modeInput {
		b.WriteString("\n")
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	switch {
	case m.err != nil:
		b.WriteString(errorStyle.Render("Error: " + m.err.Error()))
	case m.status != "":
		b.WriteString(statusStyle.Render(m.status))
	}
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m Model) renderPlans(rec *planner.DayRecord) string {
	var b strings.Builder
	b.WriteString(headingStyle.Render(fmt.Sprintf("Plans %d/%d", rec.CompletedPlans(), len(rec.Plans))))
	b.WriteString("\n")
	if len(rec.Plans) == 0 {
		b.WriteString(dimStyle.Render("no plans yet"))
	}
	for i, p := range rec.Plans {
		check := "[ ]"
		line := p.Content
		if p.Completed {
			check = "[x]"
			line = doneStyle.Render(line)
		}
		row := fmt.Sprintf("%s %s %s", check, line, dimStyle.Render(p.CreatedAt))
		b.WriteString(m.cursorLine(focusPlans, i, row))
	}
	return b.String()
}

func (m Model) renderAchievements(rec *planner.DayRecord) string {
	var b strings.Builder
	b.WriteString(headingStyle.Render(fmt.Sprintf("Achievements %d", len(rec.Achievements))))
	b.WriteString("\n")
	if len(rec.Achievements) == 0 {
		b.WriteString(dimStyle.Render("nothing recorded"))
	}
	for i, a := range rec.Achievements {
		row := fmt.Sprintf("★ %s %s", a.Content, dimStyle.Render(a.CreatedAt))
		b.WriteString(m.cursorLine(focusAchievements, i, row))
	}
	return b.String()
}

func (m Model) cursorLine(list listFocus, i int, row string) string {
	if m.focus == list && m.cursor == i {
		return selectedStyle.Render("> ") + row + "\n"
	}
	return "  " + row + "\n"
}

// RatingBar renders a rating as filled and empty stars
func RatingBar(rating int) string {
	filled := min(max(rating, 0), planner.MaxRating)
	return strings.Repeat("★", filled) + dimStyle.Render(strings.Repeat("☆", planner.MaxRating-filled)) +
		fmt.Sprintf(" %d/%d", rating, planner.MaxRating)
}

// OverviewTable renders one row per day of the period
func OverviewTable(rows []planner.DaySummary) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(dimStyle).
		Headers("Date", "Plans", "Done", "Rate", "Achievements", "Rating").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headingStyle.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})

	for _, r := range rows {
		if !r.HasData {
			t.Row(r.Date, "-", "-", "-", "-", "-")
			continue
		}
		t.Row(r.Date,
			fmt.Sprint(r.Plans),
			fmt.Sprint(r.CompletedPlans),
			fmt.Sprintf("%.0f%%", r.CompletionRate),
			fmt.Sprint(r.Achievements),
			fmt.Sprintf("%d/%d", r.Rating, planner.MaxRating),
		)
	}
	return t.String()
}
