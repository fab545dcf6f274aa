package payments

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"net/url"
	"sort"
	"strings"

	"github.com/NMHx2005/lms-backend-sub006/internal/usecase/interfaces"
)

const (
	vnpPrefix         = "vnp_"
	vnpSecureHash     = "vnp_SecureHash"
	vnpSecureHashType = "vnp_SecureHashType"
)

var ErrMissingHashSecret = errors.New("missing vnpay hash secret")

// VNPaySigner signs and verifies gateway parameter sets with HMAC-SHA512.
type VNPaySigner struct {
	secret []byte
}

func NewVNPaySigner(secret string) (*VNPaySigner, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, ErrMissingHashSecret
	}
	return &VNPaySigner{secret: []byte(secret)}, nil
}

// Canonicalize keeps vnp_ keys with a value (signature fields excluded),
// sorts them and joins the query-escaped pairs with '&'.
func Canonicalize(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k, v := range params {
		if !strings.HasPrefix(k, vnpPrefix) || k == vnpSecureHash || k == vnpSecureHashType {
			continue
		}
		if v == "" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(k))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(params[k]))
	}
	return b.String()
}

// Sign returns the lowercase hex HMAC-SHA512 of data.
func (s *VNPaySigner) Sign(data string) string {
	mac := hmac.New(sha512.New, s.secret)
	mac.Write([]byte(data))
	return hex.EncodeToString(mac.Sum(nil))
}

// SignParams signs the canonical form of params.
func (s *VNPaySigner) SignParams(params map[string]string) string {
	return s.Sign(Canonicalize(params))
}

// Verify recomputes the signature over params and compares it with the
// received vnp_SecureHash in constant time.
func (s *VNPaySigner) Verify(params map[string]string) interfaces.SignatureCheck {
	return s.verifyData(Canonicalize(params), params[vnpSecureHash])
}

func (s *VNPaySigner) verifyData(data, received string) interfaces.SignatureCheck {
	expected := s.Sign(data)
	received = strings.TrimSpace(received)
	check := interfaces.SignatureCheck{Expected: expected, Received: received}
	if received == "" {
		return check
	}
	check.Valid = hmac.Equal([]byte(expected), []byte(strings.ToLower(received)))
	return check
}
