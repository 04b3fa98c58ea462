// Package snbt holds the exam vocabulary shared by questions, try-outs and
// learning materials.
package snbt

import (
	"fmt"
	"slices"
)

type Subtest string

const (
	SubtestTPS        Subtest = "TPS"
	SubtestLiterasi   Subtest = "Literasi"
	SubtestMatematika Subtest = "Matematika"
)

var Subtests = []Subtest{SubtestTPS, SubtestLiterasi, SubtestMatematika}

func (s Subtest) Valid() bool {
	return slices.Contains(Subtests, s)
}

type Difficulty string

const (
	DifficultyEasy   Difficulty = "Mudah"
	DifficultyMedium Difficulty = "Menengah"
	DifficultyHard   Difficulty = "Sulit"
)

var Difficulties = []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}

func (d Difficulty) Valid() bool {
	return slices.Contains(Difficulties, d)
}

// FilterAll is the filter value meaning "no restriction".
const FilterAll = "all"

// NormalizeFilter maps "" and "all" to "".
func NormalizeFilter(v string) string {
	if v == FilterAll {
		return ""
	}
	return v
}

func ParseSubtest(s string) (Subtest, error) {
	st := Subtest(s)
	if !st.Valid() {
		return "", fmt.Errorf("unknown subtest %q", s)
	}
	return st, nil
}

func ParseDifficulty(s string) (Difficulty, error) {
	d := Difficulty(s)
	if !d.Valid() {
		return "", fmt.Errorf("unknown difficulty %q", s)
	}
	return d, nil
}
