package request

import (
	"errors"
	"strings"

	"github.com/NMHx2005/lms-backend-sub006/internal/domain/entities"
)

var (
	ErrInvalidPurpose = errors.New("invalid purpose")
	ErrInvalidLocale  = errors.New("invalid locale")
)

// CheckoutRequest opens a gateway checkout. The amount is never part of the
// payload: it is read from the catalog.
type CheckoutRequest struct {
	Purpose  string `json:"purpose" binding:"required" example:"PKG"`
	TargetID string `json:"target_id" binding:"required" example:"pkgABC"`
	BankCode string `json:"bank_code,omitempty" example:"NCB"`
	Locale   string `json:"locale,omitempty" example:"vn"`
}

// ResolvePurpose accepts the txn ref prefixes in any case, plus "package".
func (r CheckoutRequest) ResolvePurpose() (entities.Purpose, error) {
	v := strings.ToUpper(strings.TrimSpace(r.Purpose))
	if v == "PACKAGE" {
		v = string(entities.PurposePackage)
	}
	p := entities.Purpose(v)
	if !p.Valid() {
		return "", ErrInvalidPurpose
	}
	return p, nil
}

func (r CheckoutRequest) ResolveLocale() (string, error) {
	switch v := strings.ToLower(strings.TrimSpace(r.Locale)); v {
	case "", "vn", "en":
		return v, nil
	}
	return "", ErrInvalidLocale
}
