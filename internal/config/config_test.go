package config

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookupFrom(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestFromLookup_Defaults(t *testing.T) {
	cfg, err := FromLookup(lookupFrom(map[string]string{}))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 15*time.Minute, cfg.VNPay.ExpireAfter)
	assert.Equal(t, 7*time.Hour, cfg.VNPay.UTCOffset)
	assert.Equal(t, 10*time.Second, cfg.VNPay.QueryTimeout)
	assert.Equal(t, "2.1.0", cfg.VNPay.Version)
	assert.Equal(t, "payments", cfg.Tables.Payments)
	assert.Equal(t, int32(50), cfg.Reconcile.BatchSize)
	assert.True(t, cfg.Reconcile.Enabled)
	assert.Empty(t, cfg.Kafka.Brokers)
}

func TestFromLookup_Overrides(t *testing.T) {
	cfg, err := FromLookup(lookupFrom(map[string]string{
		"VNPAY_TMN_CODE":       "TMN01",
		"VNPAY_HASH_SECRET":    "secret",
		"VNPAY_EXPIRE_AFTER":   "30m",
		"KAFKA_BROKERS":        "k1:9092, k2:9092",
		"RECONCILE_ENABLED":    "false",
		"PAYMENTS_TABLE":       "lms-payments",
		"RECONCILE_BATCH_SIZE": "10",
	}))
	require.NoError(t, err)

	assert.Equal(t, "TMN01", cfg.VNPay.TmnCode)
	assert.Equal(t, 30*time.Minute, cfg.VNPay.ExpireAfter)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.False(t, cfg.Reconcile.Enabled)
	assert.Equal(t, "lms-payments", cfg.Tables.Payments)
	assert.Equal(t, int32(10), cfg.Reconcile.BatchSize)
}

func TestFromLookup_InvalidDuration(t *testing.T) {
	_, err := FromLookup(lookupFrom(map[string]string{"VNPAY_EXPIRE_AFTER": "fifteen"}))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg, err := FromLookup(lookupFrom(map[string]string{}))
	require.NoError(t, err)

	err = cfg.Validate()
	assert.True(t, errors.Is(err, ErrMissingHashSecret))
	assert.True(t, errors.Is(err, ErrMissingTmnCode))
	assert.True(t, errors.Is(err, ErrMissingJWTSecret))

	cfg.VNPay.HashSecret = "secret"
	cfg.VNPay.TmnCode = "TMN01"
	cfg.JWTSecret = "jwt"
	assert.NoError(t, cfg.Validate())
}
