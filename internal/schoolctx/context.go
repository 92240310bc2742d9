package schoolctx

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
)

// SchoolContextKey is the request context key for the active school ID.
type SchoolContextKey struct{}

// WithSchoolID stores the school ID in the context.
func WithSchoolID(ctx context.Context, schoolID int64) context.Context {
	return context.WithValue(ctx, SchoolContextKey{}, schoolID)
}

// SchoolIDFromContext returns the school ID from context, if set.
func SchoolIDFromContext(ctx context.Context) (snowflake.ID, bool) {
	if ctx == nil {
		return 0, false
	}

	value := ctx.Value(SchoolContextKey{})
	if value == nil {
		return 0, false
	}
	switch typed := value.(type) {
	case int64:
		return snowflake.ID(typed), true
	case snowflake.ID:
		return typed, true
	case string:
		parsed, err := snowflake.ParseString(strings.TrimSpace(typed))
		if err == nil {
			return parsed, true
		}
	}
	return 0, false
}
