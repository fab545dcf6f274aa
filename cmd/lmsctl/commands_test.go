package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/NMHx2005/lms-backend-sub006/internal/infrastructure/payments"
	"github.com/NMHx2005/lms-backend-sub006/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionQuery(t *testing.T) {
	zone := payments.GatewayZone(7 * time.Hour)
	const ref = "PKG_1700000000000_teacher123_pkgABC"

	t.Run("date from txn ref", func(t *testing.T) {
		q, err := transactionQuery(ref, "", zone)
		require.NoError(t, err)
		assert.Equal(t, ref, q.TxnRef)
		assert.True(t, q.TransactionDate.Equal(time.UnixMilli(1700000000000)))
	})

	t.Run("explicit date in gateway zone", func(t *testing.T) {
		q, err := transactionQuery(ref, "20231115051320", zone)
		require.NoError(t, err)
		assert.True(t, q.TransactionDate.Equal(time.UnixMilli(1700000000000)))
	})

	t.Run("bad date", func(t *testing.T) {
		_, err := transactionQuery(ref, "2023-11-15", zone)
		assert.Error(t, err)
	})

	t.Run("bad ref", func(t *testing.T) {
		_, err := transactionQuery("nope", "", zone)
		assert.Error(t, err)
	})
}

func TestSignCmd(t *testing.T) {
	t.Setenv("VNPAY_HASH_SECRET", "secret")

	signer, err := payments.NewVNPaySigner("secret")
	require.NoError(t, err)
	params := map[string]string{"vnp_Amount": "49900000", "vnp_TxnRef": "PKG_1700000000000_teacher123_pkgABC"}
	params["vnp_SecureHash"] = signer.SignParams(params)

	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"sign", "vnp_Amount=49900000&vnp_TxnRef=PKG_1700000000000_teacher123_pkgABC&vnp_SecureHash=" + params["vnp_SecureHash"]})
	require.NoError(t, root.Execute())

	var got struct {
		Canonical string `json:"canonical"`
		Signature string `json:"signature"`
		Valid     bool   `json:"valid"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, "vnp_Amount=49900000&vnp_TxnRef=PKG_1700000000000_teacher123_pkgABC", got.Canonical)
	assert.Equal(t, params["vnp_SecureHash"], got.Signature)
	assert.True(t, got.Valid)
}

func TestRootCmd_Subcommands(t *testing.T) {
	root := newRootCmd()
	for _, name := range []string{"reconcile", "query", "sweep", "sign"} {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, cmd.Name())
	}
}

type stubSweeper struct {
	usecase.IReconciliationUseCase
	sum usecase.SweepSummary
	err error
}

func (s stubSweeper) SweepExpired(context.Context) (usecase.SweepSummary, error) {
	return s.sum, s.err
}

func TestRecordingSweeper(t *testing.T) {
	r := &recordingSweeper{IReconciliationUseCase: stubSweeper{sum: usecase.SweepSummary{Checked: 3, Discrepancies: 1}}}
	assert.False(t, r.ran)

	_, err := r.SweepExpired(context.Background())
	require.NoError(t, err)
	assert.True(t, r.ran)
	assert.Equal(t, 3, r.summary.Checked)

	boom := errors.New("boom")
	r = &recordingSweeper{IReconciliationUseCase: stubSweeper{err: boom}}
	_, err = r.SweepExpired(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.True(t, r.ran)
}
