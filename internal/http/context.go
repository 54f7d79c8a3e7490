package http

import "context"

type contextKey string

const (
	groupIDContextKey  contextKey = "group_id"
	memberIDContextKey contextKey = "member_id"
	dateContextKey     contextKey = "date"
)

// ContextWithGroupID injects the group identifier resolved from the request path.
func ContextWithGroupID(ctx context.Context, groupID string) context.Context {
	return context.WithValue(ctx, groupIDContextKey, groupID)
}

// GroupIDFromContext extracts a group identifier previously associated with the context.
func GroupIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(groupIDContextKey).(string)
	return id, ok
}

// ContextWithMemberID injects the member identifier resolved from the request path.
func ContextWithMemberID(ctx context.Context, memberID string) context.Context {
	return context.WithValue(ctx, memberIDContextKey, memberID)
}

// MemberIDFromContext extracts a member identifier previously associated with the context.
func MemberIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(memberIDContextKey).(string)
	return id, ok
}

// ContextWithDate injects the calendar date resolved from the request path.
func ContextWithDate(ctx context.Context, date string) context.Context {
	return context.WithValue(ctx, dateContextKey, date)
}

// DateFromContext extracts a calendar date previously associated with the context.
func DateFromContext(ctx context.Context) (string, bool) {
	date, ok := ctx.Value(dateContextKey).(string)
	return date, ok
}
