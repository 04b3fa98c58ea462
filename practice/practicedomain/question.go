package practicedomain

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/snbtku/backend/snbt"
)

type QuestionKind string

const (
	KindMultipleChoice QuestionKind = "multiple-choice"
	KindShortAnswer    QuestionKind = "short-answer"
	KindTrueFalse      QuestionKind = "true-false"
	KindMatching       QuestionKind = "matching"
)

type Question struct {
	ID          string
	Text        string
	Explanation string
	Difficulty  snbt.Difficulty
	Subtest     snbt.Subtest
	Topic       string
	CreatedBy   string
	CreatedAt   time.Time
	Body        QuestionBody
}

// QuestionBody is the answer shape of a question. Implemented only by
// MultipleChoice, ShortAnswer, TrueFalse and Matching.
type QuestionBody interface {
	Kind() QuestionKind
	grade(r Response) bool
	validate() error
}

type AnswerOption struct {
	ID        string `json:"id" toml:"id"`
	Text      string `json:"text" toml:"text"`
	IsCorrect bool   `json:"isCorrect" toml:"is_correct"`
}

type MultipleChoice struct {
	Options []AnswerOption
}

type ShortAnswer struct {
	CorrectAnswer     string
	AcceptableAnswers []string
}

type TrueFalse struct {
	CorrectAnswer bool
}

type MatchingPair struct {
	Left  string `json:"left" toml:"left"`
	Right string `json:"right" toml:"right"`
}

type Matching struct {
	Pairs []MatchingPair
}

func (MultipleChoice) Kind() QuestionKind { return KindMultipleChoice }
func (ShortAnswer) Kind() QuestionKind    { return KindShortAnswer }
func (TrueFalse) Kind() QuestionKind      { return KindTrueFalse }
func (Matching) Kind() QuestionKind       { return KindMatching }

func (mc MultipleChoice) validate() error {
	if len(mc.Options) < 2 {
		return errors.New("multiple-choice question needs at least two options")
	}
	seen := make(map[string]bool, len(mc.Options))
	correct := 0
	for _, o := range mc.Options {
		if o.ID == "" {
			return errors.New("option id must not be empty")
		}
		if seen[o.ID] {
			return fmt.Errorf("duplicate option id %q", o.ID)
		}
		seen[o.ID] = true
		if o.IsCorrect {
			correct++
		}
	}
	if correct == 0 {
		return errors.New("multiple-choice question has no correct option")
	}
	return nil
}

func (sa ShortAnswer) validate() error {
	if normalizeText(sa.CorrectAnswer) == "" {
		return errors.New("short-answer question needs an expected answer")
	}
	return nil
}

func (TrueFalse) validate() error { return nil }

func (m Matching) validate() error {
	if len(m.Pairs) == 0 {
		return errors.New("matching question needs at least one pair")
	}
	return nil
}

// Validate checks the fields an author must provide.
func (q *Question) Validate() error {
	if q.Text == "" {
		return errors.New("question text must not be empty")
	}
	if !q.Subtest.Valid() {
		return fmt.Errorf("unknown subtest %q", q.Subtest)
	}
	if !q.Difficulty.Valid() {
		return fmt.Errorf("unknown difficulty %q", q.Difficulty)
	}
	if q.Body == nil {
		return errors.New("question has no answer shape")
	}
	return q.Body.validate()
}

type questionJSON struct {
	ID                string          `json:"id"`
	Type              QuestionKind    `json:"type"`
	Text              string          `json:"text"`
	Explanation       string          `json:"explanation"`
	Difficulty        snbt.Difficulty `json:"difficulty"`
	Subtest           snbt.Subtest    `json:"subtest"`
	Topic             string          `json:"topic"`
	CreatedBy         string          `json:"createdBy,omitempty"`
	CreatedAt         time.Time       `json:"createdAt"`
	Options           []AnswerOption  `json:"options,omitempty"`
	CorrectAnswer     json.RawMessage `json:"correctAnswer,omitempty"`
	AcceptableAnswers []string        `json:"acceptableAnswers,omitempty"`
	Pairs             []MatchingPair  `json:"pairs,omitempty"`
}

func (q Question) MarshalJSON() ([]byte, error) {
	out := questionJSON{
		ID:          q.ID,
		Text:        q.Text,
		Explanation: q.Explanation,
		Difficulty:  q.Difficulty,
		Subtest:     q.Subtest,
		Topic:       q.Topic,
		CreatedBy:   q.CreatedBy,
		CreatedAt:   q.CreatedAt,
	}
	var err error
	switch b := q.Body.(type) {
	case MultipleChoice:
		out.Type = KindMultipleChoice
		out.Options = b.Options
	case ShortAnswer:
		out.Type = KindShortAnswer
		out.CorrectAnswer, err = json.Marshal(b.CorrectAnswer)
		out.AcceptableAnswers = b.AcceptableAnswers
	case TrueFalse:
		out.Type = KindTrueFalse
		out.CorrectAnswer, err = json.Marshal(b.CorrectAnswer)
	case Matching:
		out.Type = KindMatching
		out.Pairs = b.Pairs
	case nil:
	default:
		return nil, fmt.Errorf("unknown question body %T", q.Body)
	}
	if err != nil {
		return nil, err
	}
	return json.Marshal(out)
}

func (q *Question) UnmarshalJSON(data []byte) error {
	var in questionJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	body, err := decodeBody(in)
	if err != nil {
		return err
	}
	*q = Question{
		ID:          in.ID,
		Text:        in.Text,
		Explanation: in.Explanation,
		Difficulty:  in.Difficulty,
		Subtest:     in.Subtest,
		Topic:       in.Topic,
		CreatedBy:   in.CreatedBy,
		CreatedAt:   in.CreatedAt,
		Body:        body,
	}
	return nil
}

func decodeBody(in questionJSON) (QuestionBody, error) {
	switch in.Type {
	case KindMultipleChoice:
		return MultipleChoice{Options: in.Options}, nil
	case KindShortAnswer:
		var expected string
		if len(in.CorrectAnswer) > 0 {
			if err := json.Unmarshal(in.CorrectAnswer, &expected); err != nil {
				return nil, fmt.Errorf("short-answer correctAnswer must be a string: %w", err)
			}
		}
		return ShortAnswer{CorrectAnswer: expected, AcceptableAnswers: in.AcceptableAnswers}, nil
	case KindTrueFalse:
		var expected bool
		if len(in.CorrectAnswer) > 0 {
			if err := json.Unmarshal(in.CorrectAnswer, &expected); err != nil {
				return nil, fmt.Errorf("true-false correctAnswer must be a boolean: %w", err)
			}
		}
		return TrueFalse{CorrectAnswer: expected}, nil
	case KindMatching:
		return Matching{Pairs: in.Pairs}, nil
	default:
		return nil, fmt.Errorf("unknown question type %q", in.Type)
	}
}
