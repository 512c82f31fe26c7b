package audit

import "context"

type pagePathKey struct{}

// WithPagePath records the path of the page the action was triggered from.
func WithPagePath(ctx context.Context, path string) context.Context {
	return context.WithValue(ctx, pagePathKey{}, path)
}

// PagePath returns the path stored by WithPagePath.
func PagePath(ctx context.Context) (string, bool) {
	path, ok := ctx.Value(pagePathKey{}).(string)
	return path, ok && path != ""
}

// contextExtractor extracts string values from context.
// It returns (value, found) where found indicates if extraction succeeded.
type contextExtractor func(context.Context) (string, bool)

type actorKey struct{}

// Actor is the user an action is attributed to.
type Actor struct {
	ID    string
	Email string
}

// WithActor attributes entries recorded with ctx to the given user. The
// recorder's extractors, when set, take precedence.
func WithActor(ctx context.Context, id, email string) context.Context {
	return context.WithValue(ctx, actorKey{}, Actor{ID: id, Email: email})
}

// ActorFrom returns the actor stored by WithActor.
func ActorFrom(ctx context.Context) (Actor, bool) {
	a, ok := ctx.Value(actorKey{}).(Actor)
	return a, ok
}
