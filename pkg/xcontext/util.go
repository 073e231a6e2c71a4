package xcontext

import "context"

type (
	adminKey     struct{}
	sessionIDKey struct{}
	responseKey  struct{}
	errorKey     struct{}
)

func WithError(ctx context.Context, err error) context.Context {
	return context.WithValue(ctx, errorKey{}, err)
}

func Error(ctx context.Context) error {
	err, _ := ctx.Value(errorKey{}).(error)
	return err
}

func WithResponse(ctx context.Context, resp any) context.Context {
	return context.WithValue(ctx, responseKey{}, resp)
}

func Response(ctx context.Context) any {
	return ctx.Value(responseKey{})
}

// WithRequestAdmin stores the email of the authenticated admin.
func WithRequestAdmin(ctx context.Context, email string) context.Context {
	return context.WithValue(ctx, adminKey{}, email)
}

func RequestAdmin(ctx context.Context) string {
	email, _ := ctx.Value(adminKey{}).(string)
	return email
}

func WithSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sessionIDKey{}, id)
}

func SessionID(ctx context.Context) string {
	id, _ := ctx.Value(sessionIDKey{}).(string)
	return id
}
