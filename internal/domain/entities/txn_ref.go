package entities

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Purpose is the first segment of a TxnRef.
type Purpose string

const (
	PurposePackage Purpose = "PKG"
	PurposeCourse  Purpose = "COURSE"
)

func (p Purpose) Valid() bool {
	return p == PurposePackage || p == PurposeCourse
}

var ErrInvalidTxnRef = errors.New("invalid txn_ref")

// TxnRef is the caller generated correlation token:
// <purpose>_<unix millis>_<owner id>_<target id>.
type TxnRef struct {
	Purpose  Purpose
	IssuedAt time.Time
	OwnerID  string
	TargetID string
}

func NewTxnRef(purpose Purpose, issuedAt time.Time, ownerID, targetID string) TxnRef {
	return TxnRef{Purpose: purpose, IssuedAt: issuedAt, OwnerID: ownerID, TargetID: targetID}
}

func (r TxnRef) String() string {
	return fmt.Sprintf("%s_%d_%s_%s", r.Purpose, r.IssuedAt.UnixMilli(), r.OwnerID, r.TargetID)
}

// ParseTxnRef splits a TxnRef. The target id may itself contain underscores.
func ParseTxnRef(raw string) (TxnRef, error) {
	parts := strings.SplitN(strings.TrimSpace(raw), "_", 4)
	if len(parts) != 4 {
		return TxnRef{}, ErrInvalidTxnRef
	}
	purpose := Purpose(parts[0])
	if !purpose.Valid() {
		return TxnRef{}, fmt.Errorf("%w: unknown purpose %q", ErrInvalidTxnRef, parts[0])
	}
	millis, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil || millis <= 0 {
		return TxnRef{}, fmt.Errorf("%w: bad timestamp %q", ErrInvalidTxnRef, parts[1])
	}
	if parts[2] == "" || parts[3] == "" {
		return TxnRef{}, ErrInvalidTxnRef
	}
	return TxnRef{
		Purpose:  purpose,
		IssuedAt: time.UnixMilli(millis).UTC(),
		OwnerID:  parts[2],
		TargetID: parts[3],
	}, nil
}
