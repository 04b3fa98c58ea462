package progress

import (
	"fmt"
	"math"
	"time"
)

var indonesianMonths = [...]string{
	"Januari", "Februari", "Maret", "April", "Mei", "Juni",
	"Juli", "Agustus", "September", "Oktober", "November", "Desember",
}

// FormatMinSec renders seconds as m:SS, flooring fractions.
func FormatMinSec(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}
	total := int64(math.Floor(seconds))
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

// FormatIndonesianDate renders t like "2 Januari 2024".
func FormatIndonesianDate(t time.Time) string {
	return fmt.Sprintf("%d %s %d", t.Day(), indonesianMonths[t.Month()-1], t.Year())
}

// RelativeDate describes then relative to now in Indonesian.
func RelativeDate(then, now time.Time) string {
	days := DaysBetween(then, now)
	switch {
	case days <= 0:
		return "Hari ini"
	case days == 1:
		return "Kemarin"
	case days < 7:
		return fmt.Sprintf("%d hari lalu", days)
	case days < 30:
		return fmt.Sprintf("%d minggu lalu", days/7)
	default:
		return FormatIndonesianDate(then.In(now.Location()))
	}
}

// Percent returns round(num/den*100), or 0 when den is 0.
func Percent(num, den float64) int {
	if den == 0 {
		return 0
	}
	return int(math.Round(num / den * 100))
}
