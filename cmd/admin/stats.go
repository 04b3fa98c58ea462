package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/snbtku/backend/leaderboard"
	"github.com/snbtku/backend/practice/practicedomain"
	"github.com/snbtku/backend/tryout/tryoutdomain"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Underline(true).MarginBottom(1)
	labelStyle = lipgloss.NewStyle().Width(22).Foreground(lipgloss.Color("8"))
	valueStyle = lipgloss.NewStyle().Bold(true)
	boxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

type userStats struct {
	Name         string
	Practice     practicedomain.PracticeStats
	Tryouts      tryoutdomain.TryoutStats
	Progress     leaderboard.Entry
	LastActivity time.Time
}

func renderSection(title string, rows [][2]string) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")
	for _, r := range rows {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(r[0]), valueStyle.Render(r[1])))
		b.WriteString("\n")
	}
	return boxStyle.Render(strings.TrimRight(b.String(), "\n"))
}

func renderUserStats(s userStats, now time.Time) string {
	last := "belum ada"
	if !s.LastActivity.IsZero() {
		last = humanize.RelTime(s.LastActivity, now, "lalu", "lagi")
	}

	practice := renderSection("Latihan", [][2]string{
		{"Soal dijawab", humanize.Comma(int64(s.Practice.AnsweredQuestions))},
		{"Akurasi", fmt.Sprintf("%d%%", s.Practice.Accuracy)},
		{"Rata-rata waktu", s.Practice.AverageTime},
		{"Streak", fmt.Sprintf("%d hari", s.Practice.Streak)},
		{"Terakhir", last},
	})
	tryouts := renderSection("Try-out", [][2]string{
		{"Selesai", humanize.Comma(int64(s.Tryouts.Completed))},
		{"Rata-rata skor", fmt.Sprintf("%d", s.Tryouts.AverageScore)},
		{"Skor terbaik", fmt.Sprintf("%d", s.Tryouts.BestScore)},
		{"Peringkat terakhir", rankLabel(s.Tryouts.Rank)},
	})
	progress := renderSection("Progres", [][2]string{
		{"XP", humanize.Comma(int64(s.Progress.Xp))},
		{"Level", fmt.Sprintf("%d", s.Progress.Level)},
		{"Peringkat", rankLabel(s.Progress.Rank)},
	})

	header := titleStyle.Render(s.Name)
	return lipgloss.JoinVertical(lipgloss.Left, header,
		lipgloss.JoinHorizontal(lipgloss.Top, practice, " ", tryouts, " ", progress))
}

func rankLabel(rank int) string {
	if rank <= 0 {
		return "-"
	}
	return humanize.Ordinal(rank)
}
