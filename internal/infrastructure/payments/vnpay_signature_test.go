package payments

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalize(t *testing.T) {
	t.Run("drops signature fields, empty values and foreign keys", func(t *testing.T) {
		got := Canonicalize(map[string]string{
			"vnp_TxnRef":         "T1",
			"vnp_Amount":         "1000",
			"vnp_BankCode":       "",
			"vnp_SecureHash":     "abc",
			"vnp_SecureHashType": "HmacSHA512",
			"utm_source":         "mail",
		})
		assert.Equal(t, "vnp_Amount=1000&vnp_TxnRef=T1", got)
	})

	t.Run("query escapes values", func(t *testing.T) {
		got := Canonicalize(map[string]string{
			"vnp_OrderInfo": "Thanh toan goi PKG&1",
			"vnp_ReturnUrl": "https://lms.local/return?x=1",
		})
		assert.Equal(t, "vnp_OrderInfo=Thanh+toan+goi+PKG%261&vnp_ReturnUrl=https%3A%2F%2Flms.local%2Freturn%3Fx%3D1", got)
	})

	t.Run("order independent", func(t *testing.T) {
		a := Canonicalize(map[string]string{"vnp_B": "2", "vnp_A": "1", "vnp_C": "3"})
		b := Canonicalize(map[string]string{"vnp_C": "3", "vnp_A": "1", "vnp_B": "2"})
		assert.Equal(t, a, b)
	})
}

func TestVNPaySigner(t *testing.T) {
	t.Run("rejects empty secret", func(t *testing.T) {
		_, err := NewVNPaySigner("  ")
		assert.ErrorIs(t, err, ErrMissingHashSecret)
	})

	signer, err := NewVNPaySigner("secret")
	require.NoError(t, err)

	params := map[string]string{
		"vnp_Amount": "49900000",
		"vnp_TxnRef": "PKG_1700000000000_teacher123_pkgABC",
	}
	const want = "1129332d71735515e866861f073058d9fd011bb758809cf20d147b8bfba2e60c22a35d2f83b06a93fe123df0f15c4c2b92c82720be3c1c4e3f6863d6ec2c632c"

	t.Run("known digest", func(t *testing.T) {
		assert.Equal(t, want, signer.SignParams(params))
	})

	t.Run("verifies own signature", func(t *testing.T) {
		signed := copyParams(params)
		signed["vnp_SecureHash"] = want
		signed["vnp_SecureHashType"] = "HmacSHA512"
		check := signer.Verify(signed)
		assert.True(t, check.Valid)
		assert.Equal(t, want, check.Expected)
	})

	t.Run("accepts uppercase hex", func(t *testing.T) {
		signed := copyParams(params)
		signed["vnp_SecureHash"] = strings.ToUpper(want)
		assert.True(t, signer.Verify(signed).Valid)
	})

	t.Run("rejects tampered amount", func(t *testing.T) {
		signed := copyParams(params)
		signed["vnp_SecureHash"] = want
		signed["vnp_Amount"] = "100"
		assert.False(t, signer.Verify(signed).Valid)
	})

	t.Run("rejects missing hash", func(t *testing.T) {
		check := signer.Verify(copyParams(params))
		assert.False(t, check.Valid)
		assert.Empty(t, check.Received)
	})

	t.Run("rejects other secret", func(t *testing.T) {
		other, err := NewVNPaySigner("other")
		require.NoError(t, err)
		signed := copyParams(params)
		signed["vnp_SecureHash"] = want
		assert.False(t, other.Verify(signed).Valid)
	})
}

func TestVNPaySigner_DetectsAnySingleChange(t *testing.T) {
	signer, err := NewVNPaySigner("secret")
	require.NoError(t, err)

	ipn := map[string]string{
		"vnp_Amount":            "49900000",
		"vnp_BankCode":          "NCB",
		"vnp_BankTranNo":        "VNP14226112",
		"vnp_CardType":          "ATM",
		"vnp_OrderInfo":         "Thanh toan goi pkgABC",
		"vnp_PayDate":           "20231115052000",
		"vnp_ResponseCode":      "00",
		"vnp_TmnCode":           "LMSTEST1",
		"vnp_TransactionNo":     "14226112",
		"vnp_TransactionStatus": "00",
		"vnp_TxnRef":            "PKG_1700000000000_teacher123_pkgABC",
	}
	signed := copyParams(ipn)
	signed["vnp_SecureHash"] = signer.SignParams(ipn)
	require.True(t, signer.Verify(signed).Valid)

	type mutation struct {
		name  string
		apply func(map[string]string)
	}
	var cases []mutation
	for key := range ipn {
		cases = append(cases,
			mutation{name: "change " + key, apply: func(m map[string]string) { m[key] += "1" }},
			mutation{name: "drop " + key, apply: func(m map[string]string) { delete(m, key) }},
		)
	}
	cases = append(cases, mutation{
		name:  "add vnp_ key",
		apply: func(m map[string]string) { m["vnp_Extra"] = "x" },
	})

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := copyParams(signed)
			tc.apply(m)
			assert.False(t, signer.Verify(m).Valid)
		})
	}

	t.Run("unsigned foreign key is ignored", func(t *testing.T) {
		m := copyParams(signed)
		m["utm_source"] = "mail"
		assert.True(t, signer.Verify(m).Valid)
	})
}

func copyParams(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
