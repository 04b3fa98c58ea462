package practicedomain

import (
	"strings"
)

func normalizeText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func textMatches(a, b string) bool {
	return strings.EqualFold(normalizeText(a), normalizeText(b))
}

func (mc MultipleChoice) grade(r Response) bool {
	id, ok := r.(TextResponse)
	if !ok {
		return false
	}
	for _, o := range mc.Options {
		if o.ID == string(id) {
			return o.IsCorrect
		}
	}
	return false
}

func (sa ShortAnswer) grade(r Response) bool {
	text, ok := r.(TextResponse)
	if !ok || normalizeText(string(text)) == "" {
		return false
	}
	if textMatches(string(text), sa.CorrectAnswer) {
		return true
	}
	for _, alt := range sa.AcceptableAnswers {
		if textMatches(string(text), alt) {
			return true
		}
	}
	return false
}

func (tf TrueFalse) grade(r Response) bool {
	b, ok := r.(BoolResponse)
	return ok && bool(b) == tf.CorrectAnswer
}

func (m Matching) grade(r Response) bool {
	list, ok := r.(ListResponse)
	if !ok || len(list) != len(m.Pairs) {
		return false
	}
	for i, p := range m.Pairs {
		if !textMatches(list[i], p.Right) {
			return false
		}
	}
	return true
}

// Grade reports whether r answers q correctly. A response of the wrong
// shape is incorrect.
func Grade(q Question, r Response) bool {
	if q.Body == nil || r == nil {
		return false
	}
	return q.Body.grade(r)
}

// GradeAnswers grades submitted answers in submission order. Answers to
// questions outside allowed or missing from questions are dropped, and only
// the first answer per question is kept.
func GradeAnswers(allowed []string, questions map[string]Question, submitted []SubmittedAnswer) []UserAnswer {
	inSet := make(map[string]bool, len(allowed))
	for _, id := range allowed {
		inSet[id] = true
	}
	seen := make(map[string]bool, len(submitted))
	graded := make([]UserAnswer, 0, len(submitted))
	for _, s := range submitted {
		if !inSet[s.QuestionID] || seen[s.QuestionID] {
			continue
		}
		q, ok := questions[s.QuestionID]
		if !ok {
			continue
		}
		seen[s.QuestionID] = true
		graded = append(graded, UserAnswer{
			QuestionID: s.QuestionID,
			Answer:     s.Answer,
			IsCorrect:  Grade(q, s.Answer),
			TimeSpent:  max(s.TimeSpent, 0),
		})
	}
	return graded
}
