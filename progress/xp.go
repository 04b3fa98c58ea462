package progress

import "math"

const (
	XpPerCorrectAnswer = 10
	xpPerLevelUnit     = 50
)

func PracticeXp(totalCorrect int) int {
	if totalCorrect < 0 {
		return 0
	}
	return totalCorrect * XpPerCorrectAnswer
}

func TryoutXp(aggregateScore int) int {
	if aggregateScore < 0 {
		return 0
	}
	return aggregateScore
}

// Level is 1 + floor(sqrt(xp/50)).
func Level(xp int) int {
	if xp <= 0 {
		return 1
	}
	return 1 + int(math.Floor(math.Sqrt(float64(xp)/xpPerLevelUnit)))
}
