package tryoutdomain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/snbtku/backend/snbt"
)

type Status string

const (
	StatusAvailable Status = "available"
	StatusScheduled Status = "scheduled"
	StatusPremium   Status = "premium"
	StatusCompleted Status = "completed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusAvailable, StatusScheduled, StatusPremium, StatusCompleted:
		return true
	}
	return false
}

// AnyTimeLabel is how an unscheduled start time is written.
const AnyTimeLabel = "Kapan saja"

// StartTime is either "any time" or a concrete instant.
type StartTime struct {
	Anytime bool
	At      time.Time
}

func AnyTime() StartTime { return StartTime{Anytime: true} }

func StartsAt(t time.Time) StartTime { return StartTime{At: t} }

func (s StartTime) String() string {
	if s.Anytime {
		return AnyTimeLabel
	}
	return s.At.Format(time.RFC3339)
}

func ParseStartTime(v string) (StartTime, error) {
	v = strings.TrimSpace(v)
	if v == "" || v == AnyTimeLabel {
		return AnyTime(), nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return StartTime{}, fmt.Errorf("start time must be %q or RFC3339: %w", AnyTimeLabel, err)
	}
	return StartsAt(t), nil
}

func (s StartTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *StartTime) UnmarshalJSON(data []byte) error {
	var v string
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	parsed, err := ParseStartTime(v)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

type Subtest struct {
	Name        snbt.Subtest `json:"name"`
	Duration    int          `json:"duration"`  // minutes
	Questions   int          `json:"questions"` // declared count
	QuestionIDs []string     `json:"questionIds,omitempty"`
}

type Tryout struct {
	ID           string          `json:"id"`
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	Duration     int             `json:"duration"` // minutes
	Participants int             `json:"participants"`
	Difficulty   snbt.Difficulty `json:"difficulty"`
	Status       Status          `json:"status"`
	StartTime    StartTime       `json:"startTime"`
	Subtests     []Subtest       `json:"subtests"`
	IsPublic     bool            `json:"isPublic"`
	IsPremium    bool            `json:"isPremium"`
	CreatedBy    string          `json:"createdBy"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

func (t *Tryout) Validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return errors.New("tryout title must not be empty")
	}
	if !t.Difficulty.Valid() {
		return fmt.Errorf("unknown difficulty %q", t.Difficulty)
	}
	if !t.Status.Valid() {
		return fmt.Errorf("unknown status %q", t.Status)
	}
	if t.Duration < 0 {
		return errors.New("duration must not be negative")
	}
	seen := make(map[snbt.Subtest]bool, len(t.Subtests))
	for _, st := range t.Subtests {
		if !st.Name.Valid() {
			return fmt.Errorf("unknown subtest %q", st.Name)
		}
		if seen[st.Name] {
			return fmt.Errorf("subtest %q listed twice", st.Name)
		}
		seen[st.Name] = true
		if st.Questions < 0 || st.Duration < 0 {
			return fmt.Errorf("subtest %q has negative counts", st.Name)
		}
	}
	return nil
}

func (t *Tryout) Subtest(name snbt.Subtest) (Subtest, bool) {
	for _, st := range t.Subtests {
		if st.Name == name {
			return st, true
		}
	}
	return Subtest{}, false
}

// HasSubtest reports whether the tryout includes the named subtest.
func (t *Tryout) HasSubtest(name string) bool {
	_, ok := t.Subtest(snbt.Subtest(name))
	return ok
}

// WithQuestions assigns question ids per subtest. Subtests missing from
// the map get an empty list.
func (t Tryout) WithQuestions(questions map[snbt.Subtest][]string) Tryout {
	subtests := make([]Subtest, len(t.Subtests))
	for i, st := range t.Subtests {
		st.QuestionIDs = append([]string(nil), questions[st.Name]...)
		subtests[i] = st
	}
	t.Subtests = subtests
	return t
}

type Filter struct {
	Status     string
	Difficulty string
	Subtest    string
}

func (f Filter) Normalized() Filter {
	return Filter{
		Status:     snbt.NormalizeFilter(f.Status),
		Difficulty: snbt.NormalizeFilter(f.Difficulty),
		Subtest:    snbt.NormalizeFilter(f.Subtest),
	}
}

func (f Filter) Matches(t Tryout) bool {
	f = f.Normalized()
	if f.Status != "" && string(t.Status) != f.Status {
		return false
	}
	if f.Difficulty != "" && string(t.Difficulty) != f.Difficulty {
		return false
	}
	if f.Subtest != "" && !t.HasSubtest(f.Subtest) {
		return false
	}
	return true
}
