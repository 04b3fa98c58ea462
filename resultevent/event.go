package resultevent

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/klauspost/compress/zstd"
)

type Kind string

const (
	KindPractice Kind = "practice"
	KindTryout   Kind = "tryout"
)

// ResultCompleted is emitted once a practice or tryout result is stored.
type ResultCompleted struct {
	ResultID    string    `json:"resultId"`
	UserID      string    `json:"userId"`
	Kind        Kind      `json:"kind"`
	Correct     int       `json:"correct"`
	Total       int       `json:"total"`
	Score       int       `json:"score"`
	CompletedAt time.Time `json:"completedAt"`
}

func (e ResultCompleted) Validate() error {
	if e.ResultID == "" || e.UserID == "" {
		return errors.New("result event needs result and user ids")
	}
	if e.Kind != KindPractice && e.Kind != KindTryout {
		return fmt.Errorf("unknown result kind %q", e.Kind)
	}
	return nil
}

type Publisher interface {
	Publish(ctx context.Context, ev ResultCompleted) error
}

var (
	zstdEncoder, _ = zstd.NewWriter(nil)
	zstdDecoder, _ = zstd.NewReader(nil)
)

// Encode marshals ev to JSON, compresses it with zstd and base64 encodes
// it so it fits an SQS text body.
func Encode(ev ResultCompleted) (string, error) {
	raw, err := json.Marshal(ev)
	if err != nil {
		return "", fmt.Errorf("failed to marshal result event: %w", err)
	}
	compressed := zstdEncoder.EncodeAll(raw, make([]byte, 0, len(raw)))
	return base64.StdEncoding.EncodeToString(compressed), nil
}

func Decode(body string) (ResultCompleted, error) {
	var ev ResultCompleted
	compressed, err := base64.StdEncoding.DecodeString(body)
	if err != nil {
		return ev, fmt.Errorf("failed to decode base64 body: %w", err)
	}
	raw, err := zstdDecoder.DecodeAll(compressed, nil)
	if err != nil {
		return ev, fmt.Errorf("failed to decompress body: %w", err)
	}
	if err := json.Unmarshal(raw, &ev); err != nil {
		return ev, fmt.Errorf("failed to unmarshal result event: %w", err)
	}
	return ev, ev.Validate()
}
