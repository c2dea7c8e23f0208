package tenantctx

import "context"

// User is the staff identity half of a tenant context.
type User struct {
	ID   string
	Role string
}

// TenantContext is the per-request identity every gated operation consumes.
// It is immutable once attached and lives exactly as long as the request or
// stream that carries it; it is never persisted.
type TenantContext struct {
	TenantID       string
	User           User
	MembershipRole string
}

type contextKey struct{}

// WithTenantContext returns a child context carrying tc. Nested calls shadow
// the outer value for their subtree only; the parent context is untouched.
func WithTenantContext(ctx context.Context, tc TenantContext) context.Context {
	return context.WithValue(ctx, contextKey{}, tc)
}

// FromContext reports the tenant context attached to ctx, if any. Callers must
// treat ok == false as an authorization failure, never as a default tenant.
func FromContext(ctx context.Context) (TenantContext, bool) {
	tc, ok := ctx.Value(contextKey{}).(TenantContext)
	if !ok || tc.TenantID == "" {
		return TenantContext{}, false
	}
	return tc, true
}
