package main

import (
	"fmt"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/snbtku/backend/practice/practicedomain"
	"github.com/snbtku/backend/snbt"
	"github.com/snbtku/backend/tryout/tryoutdomain"
)

type questionSetFile struct {
	Set struct {
		Title         string `toml:"title"`
		Description   string `toml:"description"`
		Subtest       string `toml:"subtest"`
		Difficulty    string `toml:"difficulty"`
		Topic         string `toml:"topic"`
		EstimatedTime string `toml:"estimated_time"`
		IsPublic      *bool  `toml:"is_public"`
	} `toml:"set"`
	Questions []questionEntry `toml:"questions"`
}

type questionEntry struct {
	Type        string `toml:"type"`
	Text        string `toml:"text"`
	Explanation string `toml:"explanation"`
	// Difficulty and Topic default to the set's values.
	Difficulty        string                        `toml:"difficulty"`
	Topic             string                        `toml:"topic"`
	Options           []practicedomain.AnswerOption `toml:"options"`
	CorrectAnswer     any                           `toml:"correct_answer"`
	AcceptableAnswers []string                      `toml:"acceptable_answers"`
	Pairs             []practicedomain.MatchingPair `toml:"pairs"`
}

// parseQuestionSetFile reads a question set and its questions. Every
// question belongs to the set's subtest.
func parseQuestionSetFile(data []byte, author string) (practicedomain.QuestionSet, []practicedomain.Question, error) {
	var f questionSetFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return practicedomain.QuestionSet{}, nil, fmt.Errorf("parse toml: %w", err)
	}

	subtest, err := snbt.ParseSubtest(f.Set.Subtest)
	if err != nil {
		return practicedomain.QuestionSet{}, nil, err
	}
	difficulty, err := snbt.ParseDifficulty(f.Set.Difficulty)
	if err != nil {
		return practicedomain.QuestionSet{}, nil, err
	}
	set := practicedomain.QuestionSet{
		Title:         f.Set.Title,
		Description:   f.Set.Description,
		Subtest:       subtest,
		Difficulty:    difficulty,
		Topic:         f.Set.Topic,
		EstimatedTime: f.Set.EstimatedTime,
		IsPublic:      f.Set.IsPublic == nil || *f.Set.IsPublic,
		CreatedBy:     author,
	}
	if len(f.Questions) == 0 {
		return set, nil, fmt.Errorf("question set %q has no questions", set.Title)
	}

	questions := make([]practicedomain.Question, 0, len(f.Questions))
	for i, e := range f.Questions {
		q, err := e.toQuestion(set, author)
		if err != nil {
			return set, nil, fmt.Errorf("question %d: %w", i+1, err)
		}
		questions = append(questions, q)
	}
	return set, questions, nil
}

func (e questionEntry) toQuestion(set practicedomain.QuestionSet, author string) (practicedomain.Question, error) {
	q := practicedomain.Question{
		Text:        strings.TrimSpace(e.Text),
		Explanation: strings.TrimSpace(e.Explanation),
		Difficulty:  set.Difficulty,
		Subtest:     set.Subtest,
		Topic:       set.Topic,
		CreatedBy:   author,
	}
	if e.Difficulty != "" {
		d, err := snbt.ParseDifficulty(e.Difficulty)
		if err != nil {
			return q, err
		}
		q.Difficulty = d
	}
	if e.Topic != "" {
		q.Topic = e.Topic
	}

	switch practicedomain.QuestionKind(e.Type) {
	case practicedomain.KindMultipleChoice:
		q.Body = practicedomain.MultipleChoice{Options: e.Options}
	case practicedomain.KindShortAnswer:
		expected, ok := e.CorrectAnswer.(string)
		if !ok {
			return q, fmt.Errorf("short-answer correct_answer must be a string")
		}
		q.Body = practicedomain.ShortAnswer{CorrectAnswer: expected, AcceptableAnswers: e.AcceptableAnswers}
	case practicedomain.KindTrueFalse:
		expected, ok := e.CorrectAnswer.(bool)
		if !ok {
			return q, fmt.Errorf("true-false correct_answer must be a boolean")
		}
		q.Body = practicedomain.TrueFalse{CorrectAnswer: expected}
	case practicedomain.KindMatching:
		q.Body = practicedomain.Matching{Pairs: e.Pairs}
	default:
		return q, fmt.Errorf("unknown question type %q", e.Type)
	}

	if err := q.Validate(); err != nil {
		return q, err
	}
	return q, nil
}

type tryoutFile struct {
	Tryout struct {
		Title       string `toml:"title"`
		Description string `toml:"description"`
		Duration    int    `toml:"duration"`
		Difficulty  string `toml:"difficulty"`
		Status      string `toml:"status"`
		StartTime   string `toml:"start_time"`
		IsPublic    *bool  `toml:"is_public"`
		IsPremium   bool   `toml:"is_premium"`
		Subtests    []struct {
			Name        string   `toml:"name"`
			Duration    int      `toml:"duration"`
			Questions   int      `toml:"questions"`
			QuestionIDs []string `toml:"question_ids"`
		} `toml:"subtests"`
	} `toml:"tryout"`
}

// parseTryoutFile returns the tryout and, per subtest, the question ids
// to attach. A subtest without ids keeps its declared question count.
func parseTryoutFile(data []byte, author string) (tryoutdomain.Tryout, map[snbt.Subtest][]string, error) {
	var f tryoutFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return tryoutdomain.Tryout{}, nil, fmt.Errorf("parse toml: %w", err)
	}
	in := f.Tryout

	difficulty, err := snbt.ParseDifficulty(in.Difficulty)
	if err != nil {
		return tryoutdomain.Tryout{}, nil, err
	}
	status := tryoutdomain.StatusAvailable
	if in.Status != "" {
		status = tryoutdomain.Status(in.Status)
	}
	start, err := tryoutdomain.ParseStartTime(in.StartTime)
	if err != nil {
		return tryoutdomain.Tryout{}, nil, err
	}

	t := tryoutdomain.Tryout{
		Title:       in.Title,
		Description: in.Description,
		Duration:    in.Duration,
		Difficulty:  difficulty,
		Status:      status,
		StartTime:   start,
		IsPublic:    in.IsPublic == nil || *in.IsPublic,
		IsPremium:   in.IsPremium,
		CreatedBy:   author,
	}
	questions := make(map[snbt.Subtest][]string)
	for _, st := range in.Subtests {
		name, err := snbt.ParseSubtest(st.Name)
		if err != nil {
			return t, nil, err
		}
		declared := st.Questions
		if declared == 0 {
			declared = len(st.QuestionIDs)
		}
		t.Subtests = append(t.Subtests, tryoutdomain.Subtest{
			Name:      name,
			Duration:  st.Duration,
			Questions: declared,
		})
		if len(st.QuestionIDs) > 0 {
			questions[name] = st.QuestionIDs
		}
	}
	if t.Duration == 0 {
		for _, st := range t.Subtests {
			t.Duration += st.Duration
		}
	}
	if err := t.Validate(); err != nil {
		return t, nil, err
	}
	return t, questions, nil
}
