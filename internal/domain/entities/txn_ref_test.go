package entities

import (
	"errors"
	"testing"
	"time"
)

func TestParseTxnRef(t *testing.T) {
	ref, err := ParseTxnRef("PKG_1700000000000_teacher123_pkgABC")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ref.Purpose != PurposePackage || ref.OwnerID != "teacher123" || ref.TargetID != "pkgABC" {
		t.Fatalf("unexpected ref: %+v", ref)
	}
	if !ref.IssuedAt.Equal(time.UnixMilli(1700000000000)) {
		t.Fatalf("unexpected issued at: %v", ref.IssuedAt)
	}
	if ref.String() != "PKG_1700000000000_teacher123_pkgABC" {
		t.Fatalf("round trip mismatch: %s", ref.String())
	}

	ref, err = ParseTxnRef("COURSE_1700000000000_u1_course_with_underscores")
	if err != nil || ref.TargetID != "course_with_underscores" {
		t.Fatalf("unexpected ref: %+v %v", ref, err)
	}

	for _, bad := range []string{"", "PKG", "PKG_abc_u_t", "XYZ_1700000000000_u_t", "PKG_1700000000000__t"} {
		if _, err := ParseTxnRef(bad); !errors.Is(err, ErrInvalidTxnRef) {
			t.Fatalf("expected ErrInvalidTxnRef for %q, got %v", bad, err)
		}
	}
}
