package customer

import (
	"context"
	"testing"
	"time"

	"fuel-storefront/internal/db/dbtest"
	customerrepo "fuel-storefront/internal/repository/customer"
	tokenrepo "fuel-storefront/internal/repository/token"
)

func TestSignupLoginLogout_Integration(t *testing.T) {
	pool := dbtest.Pool(t)
	ctx := context.Background()

	svc := New(customerrepo.NewPostgres(pool, nil), tokenrepo.NewPostgres(pool), time.Hour, nil)

	cust, err := svc.Signup(ctx, validSignup())
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if cust == nil || cust.ID == "" {
		t.Fatalf("expected created customer, got %+v", cust)
	}

	_, access, err := svc.Login(ctx, "DRIVER@example.com", "secret1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if access == "" {
		t.Fatalf("expected token")
	}

	got, err := svc.LookupByToken(ctx, access)
	if err != nil || got.ID != cust.ID {
		t.Fatalf("lookup: %+v err %v", got, err)
	}

	updated, err := svc.UpdateProfile(ctx, cust.ID, ProfileInput{FullName: "Juan", Phone: "0917", Address: "Davao City"})
	if err != nil || updated.Address != "Davao City" {
		t.Fatalf("update profile: %+v err %v", updated, err)
	}

	if err := svc.Logout(ctx, access); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := svc.LookupByToken(ctx, access); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}
