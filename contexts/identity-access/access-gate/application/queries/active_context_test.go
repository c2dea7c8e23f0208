package queries

import (
	"context"
	"errors"
	"testing"
	"time"

	"lawdesk/contexts/identity-access/access-gate/adapters/memory"
	"lawdesk/contexts/identity-access/access-gate/domain/entities"
	domainerrors "lawdesk/contexts/identity-access/access-gate/domain/errors"
	"lawdesk/internal/shared/tenantctx"
)

func TestEstablishBuildsTenantContext(t *testing.T) {
	store := memory.NewStore()
	store.SeedUser(entities.User{ID: "user-1", Role: "LAWYER", IsActive: true})
	store.SeedMembership(entities.Membership{
		TenantID: "tenant-a", UserID: "user-1", Role: "MEMBER", Status: entities.MembershipStatusActive,
	})

	useCase := ActiveContextUseCase{Members: store}
	tc, err := useCase.Establish(context.Background(), "tenant-a", "user-1")
	if err != nil {
		t.Fatalf("establish failed: %v", err)
	}
	if tc.TenantID != "tenant-a" || tc.User.ID != "user-1" || tc.User.Role != "LAWYER" || tc.MembershipRole != "MEMBER" {
		t.Fatalf("unexpected context: %+v", tc)
	}
}

func TestEstablishRejectsUnknownUser(t *testing.T) {
	useCase := ActiveContextUseCase{Members: memory.NewStore()}

	_, err := useCase.Establish(context.Background(), "tenant-a", "ghost")
	var authErr *domainerrors.AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("err = %v, want AuthError", err)
	}
}

func TestEstablishRejectsInactiveUser(t *testing.T) {
	store := memory.NewStore()
	store.SeedUser(entities.User{ID: "user-1", Role: "LAWYER", IsActive: false})
	store.SeedMembership(entities.Membership{
		TenantID: "tenant-a", UserID: "user-1", Role: "MEMBER", Status: entities.MembershipStatusActive,
	})

	useCase := ActiveContextUseCase{Members: store}
	_, err := useCase.Establish(context.Background(), "tenant-a", "user-1")
	var authErr *domainerrors.AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("err = %v, want AuthError for inactive user", err)
	}
}

func TestEstablishRejectsNonActiveMembership(t *testing.T) {
	store := memory.NewStore()
	store.SeedUser(entities.User{ID: "user-1", Role: "LAWYER", IsActive: true})
	store.SeedMembership(entities.Membership{
		TenantID: "tenant-a", UserID: "user-1", Role: "MEMBER", Status: entities.MembershipStatusSuspended,
	})

	useCase := ActiveContextUseCase{Members: store}
	_, err := useCase.Establish(context.Background(), "tenant-a", "user-1")
	var permErr *domainerrors.PermissionError
	if !errors.As(err, &permErr) {
		t.Fatalf("err = %v, want PermissionError for suspended membership", err)
	}
	if got := domainerrors.PublicErrorMessage(err, "insufficient permission"); got != "no access to this workspace" {
		t.Fatalf("public message = %q", got)
	}
}

func TestEstablishRejectsMembershipFromOtherTenant(t *testing.T) {
	store := memory.NewStore()
	store.SeedUser(entities.User{ID: "user-1", Role: "LAWYER", IsActive: true})
	store.SeedMembership(entities.Membership{
		TenantID: "tenant-a", UserID: "user-1", Role: "MEMBER", Status: entities.MembershipStatusActive,
	})

	useCase := ActiveContextUseCase{Members: store}
	_, err := useCase.Establish(context.Background(), "tenant-b", "user-1")
	var permErr *domainerrors.PermissionError
	if !errors.As(err, &permErr) {
		t.Fatalf("err = %v, want PermissionError for foreign tenant", err)
	}
}

func TestEstablishValidatesIdentifiers(t *testing.T) {
	useCase := ActiveContextUseCase{Members: memory.NewStore()}

	if _, err := useCase.Establish(context.Background(), " ", "user-1"); !errors.Is(err, domainerrors.ErrInvalidTenantID) {
		t.Fatalf("blank tenant err = %v", err)
	}
	if _, err := useCase.Establish(context.Background(), "tenant-a", ""); !errors.Is(err, domainerrors.ErrInvalidUserID) {
		t.Fatalf("blank user err = %v", err)
	}
}

func TestResolveRequiresAttachedContext(t *testing.T) {
	useCase := ActiveContextUseCase{Members: memory.NewStore()}

	_, err := useCase.Resolve(context.Background())
	var authErr *domainerrors.AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("err = %v, want AuthError for bare context", err)
	}

	want := tenantctx.TenantContext{TenantID: "tenant-a", User: tenantctx.User{ID: "user-1"}}
	ctx := tenantctx.WithTenantContext(context.Background(), want)
	got, err := useCase.Resolve(ctx)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if got.TenantID != want.TenantID || got.User.ID != want.User.ID {
		t.Fatalf("resolved %+v, want %+v", got, want)
	}
}

func TestRequireMasksPermissionKey(t *testing.T) {
	useCase := CheckPermissionUseCase{Table: nil, Clock: fixedQueryClock{now: time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC)}}

	err := useCase.Require(tenantctx.TenantContext{TenantID: "tenant-a"}, "case:delete")
	if err == nil {
		t.Fatal("expected denial")
	}
	public := domainerrors.PublicErrorMessage(err, "insufficient permission")
	if public != "insufficient permission" {
		t.Fatalf("public message = %q", public)
	}
	if public == err.Error() {
		t.Fatal("public message must differ from the internal message carrying the key")
	}
}

type fixedQueryClock struct {
	now time.Time
}

func (f fixedQueryClock) Now() time.Time { return f.now }
