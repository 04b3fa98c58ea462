package ddbutil

import (
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/guregu/dynamo/v2"
)

// GlobalPartition is the constant partition value of the gsi1 indexes used
// for table-wide ordering.
const GlobalPartition = "all"

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

func NewDB(client *dynamodb.Client) *dynamo.DB {
	return dynamo.NewFromIface(client)
}

func Millis(t time.Time) int64 {
	return t.UnixMilli()
}

func FromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

// PageSize clamps a requested page size into [1, MaxPageSize].
func PageSize(n int) int {
	if n <= 0 {
		return DefaultPageSize
	}
	if n > MaxPageSize {
		return MaxPageSize
	}
	return n
}
