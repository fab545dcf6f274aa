package request

import (
	"errors"
	"testing"

	"github.com/NMHx2005/lms-backend-sub006/internal/domain/entities"
)

func TestCheckoutRequest_ResolvePurpose(t *testing.T) {
	cases := map[string]entities.Purpose{
		"PKG":     entities.PurposePackage,
		" pkg ":   entities.PurposePackage,
		"package": entities.PurposePackage,
		"COURSE":  entities.PurposeCourse,
		"course":  entities.PurposeCourse,
	}
	for in, want := range cases {
		got, err := CheckoutRequest{Purpose: in}.ResolvePurpose()
		if err != nil || got != want {
			t.Fatalf("%q: expected %s, got %s (%v)", in, want, got, err)
		}
	}

	if _, err := (CheckoutRequest{Purpose: "gift"}).ResolvePurpose(); !errors.Is(err, ErrInvalidPurpose) {
		t.Fatalf("expected ErrInvalidPurpose, got %v", err)
	}
}

func TestCheckoutRequest_ResolveLocale(t *testing.T) {
	if got, err := (CheckoutRequest{Locale: " EN "}).ResolveLocale(); err != nil || got != "en" {
		t.Fatalf("expected en, got %q (%v)", got, err)
	}
	if got, err := (CheckoutRequest{}).ResolveLocale(); err != nil || got != "" {
		t.Fatalf("empty locale falls back to the gateway default, got %q (%v)", got, err)
	}
	if _, err := (CheckoutRequest{Locale: "fr"}).ResolveLocale(); !errors.Is(err, ErrInvalidLocale) {
		t.Fatalf("expected ErrInvalidLocale, got %v", err)
	}
}
