package ddbutil

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/guregu/dynamo/v2"
)

// ErrInvalidCursor is returned for page tokens that did not come from a
// previous page.
var ErrInvalidCursor = errors.New("invalid cursor")

type cursorAttr struct {
	S *string `json:"s,omitempty"`
	N *string `json:"n,omitempty"`
}

// EncodeCursor turns a LastEvaluatedKey into an opaque URL-safe token.
// Only string and number key attributes are supported.
func EncodeCursor(key dynamo.PagingKey) (string, error) {
	if len(key) == 0 {
		return "", nil
	}
	attrs := make(map[string]cursorAttr, len(key))
	for name, av := range key {
		switch v := av.(type) {
		case *types.AttributeValueMemberS:
			s := v.Value
			attrs[name] = cursorAttr{S: &s}
		case *types.AttributeValueMemberN:
			n := v.Value
			attrs[name] = cursorAttr{N: &n}
		default:
			return "", fmt.Errorf("unsupported key attribute type %T for %q", av, name)
		}
	}
	raw, err := json.Marshal(attrs)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

// DecodeCursor reverses EncodeCursor. An empty cursor yields a nil key.
func DecodeCursor(cursor string) (dynamo.PagingKey, error) {
	if cursor == "" {
		return nil, nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCursor, err)
	}
	var attrs map[string]cursorAttr
	if err := json.Unmarshal(raw, &attrs); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCursor, err)
	}
	key := make(dynamo.PagingKey, len(attrs))
	for name, a := range attrs {
		switch {
		case a.S != nil:
			key[name] = &types.AttributeValueMemberS{Value: *a.S}
		case a.N != nil:
			key[name] = &types.AttributeValueMemberN{Value: *a.N}
		default:
			return nil, fmt.Errorf("%w: attribute %q has no value", ErrInvalidCursor, name)
		}
	}
	return key, nil
}

// OffsetCursor and ParseOffset page in-memory slices with the same opaque
// token shape callers see from the store.
func OffsetCursor(offset int) string {
	return base64.RawURLEncoding.EncodeToString([]byte(strconv.Itoa(offset)))
}

func ParseOffset(cursor string) (int, error) {
	if cursor == "" {
		return 0, nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidCursor, err)
	}
	n, err := strconv.Atoi(string(raw))
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: bad offset %q", ErrInvalidCursor, raw)
	}
	return n, nil
}

// PageSlice returns items[offset:offset+limit] and the cursor of the next
// page, empty on the last page.
func PageSlice[T any](items []T, cursor string, limit int) ([]T, string, error) {
	offset, err := ParseOffset(cursor)
	if err != nil {
		return nil, "", err
	}
	if offset >= len(items) {
		return []T{}, "", nil
	}
	end := min(offset+limit, len(items))
	next := ""
	if end < len(items) {
		next = OffsetCursor(end)
	}
	return items[offset:end], next, nil
}
