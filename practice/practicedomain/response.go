package practicedomain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Response is what a student submitted for one question: a string, a
// boolean or a list of strings.
type Response interface {
	isResponse()
}

type TextResponse string
type BoolResponse bool
type ListResponse []string

func (TextResponse) isResponse() {}
func (BoolResponse) isResponse() {}
func (ListResponse) isResponse() {}

// ParseResponse decodes a JSON string, boolean or string array.
func ParseResponse(raw json.RawMessage) (Response, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, fmt.Errorf("answer is missing")
	}
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, err
		}
		return TextResponse(s), nil
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(raw, &b); err != nil {
			return nil, err
		}
		return BoolResponse(b), nil
	case '[':
		var l []string
		if err := json.Unmarshal(raw, &l); err != nil {
			return nil, err
		}
		return ListResponse(l), nil
	}
	return nil, fmt.Errorf("answer must be a string, boolean or list of strings")
}

type UserAnswer struct {
	QuestionID string   `json:"questionId"`
	Answer     Response `json:"answer"`
	IsCorrect  bool     `json:"isCorrect"`
	TimeSpent  float64  `json:"timeSpent"`
}

func (a *UserAnswer) UnmarshalJSON(data []byte) error {
	var in struct {
		QuestionID string          `json:"questionId"`
		Answer     json.RawMessage `json:"answer"`
		IsCorrect  bool            `json:"isCorrect"`
		TimeSpent  float64         `json:"timeSpent"`
	}
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	// a stored answer may be empty when the question was skipped
	var resp Response
	if trimmed := bytes.TrimSpace(in.Answer); len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null")) {
		parsed, err := ParseResponse(in.Answer)
		if err != nil {
			return fmt.Errorf("question %s: %w", in.QuestionID, err)
		}
		resp = parsed
	}
	*a = UserAnswer{
		QuestionID: in.QuestionID,
		Answer:     resp,
		IsCorrect:  in.IsCorrect,
		TimeSpent:  in.TimeSpent,
	}
	return nil
}

// SubmittedAnswer is an ungraded answer as it arrives from a student.
type SubmittedAnswer struct {
	QuestionID string
	Answer     Response
	TimeSpent  float64
}
