package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var (
	ErrMissingHashSecret = errors.New("missing VNPAY_HASH_SECRET")
	ErrMissingTmnCode    = errors.New("missing VNPAY_TMN_CODE")
	ErrMissingJWTSecret  = errors.New("missing JWT_SECRET")
)

// Config holds every effective setting of the service. Components receive the
// part they need through their constructors; nothing reads the environment
// after Load returns.
type Config struct {
	Port        string
	AppEnv      string
	LogLevel    string
	CORSOrigins []string
	JWTSecret   string

	// FrontendResultURL, when set, receives the browser after the gateway
	// return redirect.
	FrontendResultURL string

	AWS       AWSConfig
	Tables    TablesConfig
	VNPay     VNPayConfig
	Reconcile ReconcileConfig
	Redis     RedisConfig
	Kafka     KafkaConfig
}

type AWSConfig struct {
	Region           string
	AccessKeyID      string
	SecretAccessKey  string
	DynamoDBEndpoint string
}

type TablesConfig struct {
	Payments      string
	Orders        string
	Bills         string
	Subscriptions string
	Plans         string
	Courses       string
	GatewayEvents string
}

type VNPayConfig struct {
	TmnCode    string
	HashSecret string
	PayURL     string
	QueryURL   string
	ReturnURL  string
	Version    string
	Locale     string
	CurrCode   string
	OrderType  string
	// ExpireAfter is the checkout validity window sent as vnp_ExpireDate.
	ExpireAfter time.Duration
	// UTCOffset is the gateway clock offset; timestamps never use the host zone.
	UTCOffset    time.Duration
	QueryTimeout time.Duration
	ServerIP     string
}

type ReconcileConfig struct {
	Enabled   bool
	Cron      string
	Grace     time.Duration
	BatchSize int32
	LockTTL   time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type KafkaConfig struct {
	Brokers      []string
	SettledTopic string
}

// Load reads .env (if present) and the process environment.
func Load() (Config, error) {
	_ = godotenv.Load()
	return FromLookup(os.LookupEnv)
}

// FromLookup builds a Config from an arbitrary lookup function.
func FromLookup(lookup func(string) (string, bool)) (Config, error) {
	e := env{lookup: lookup}
	cfg := Config{
		Port:              e.str("PORT", "8080"),
		AppEnv:            e.str("APP_ENV", "development"),
		LogLevel:          e.str("LOG_LEVEL", "info"),
		CORSOrigins:       e.list("CORS_ORIGINS", []string{"http://localhost:5173"}),
		JWTSecret:         e.str("JWT_SECRET", ""),
		FrontendResultURL: e.str("FRONTEND_RESULT_URL", ""),
		AWS: AWSConfig{
			Region:           e.str("AWS_REGION", "us-east-1"),
			AccessKeyID:      e.str("AWS_ACCESS_KEY_ID", "local"),
			SecretAccessKey:  e.str("AWS_SECRET_ACCESS_KEY", "local"),
			DynamoDBEndpoint: e.str("DYNAMODB_ENDPOINT", ""),
		},
		Tables: TablesConfig{
			Payments:      e.str("PAYMENTS_TABLE", "payments"),
			Orders:        e.str("ORDERS_TABLE", "orders"),
			Bills:         e.str("BILLS_TABLE", "bills"),
			Subscriptions: e.str("SUBSCRIPTIONS_TABLE", "subscriptions"),
			Plans:         e.str("PLANS_TABLE", "plans"),
			Courses:       e.str("COURSES_TABLE", "courses"),
			GatewayEvents: e.str("GATEWAY_EVENTS_TABLE", "gateway_events"),
		},
		VNPay: VNPayConfig{
			TmnCode:    e.str("VNPAY_TMN_CODE", ""),
			HashSecret: e.str("VNPAY_HASH_SECRET", ""),
			PayURL:     e.str("VNPAY_PAY_URL", "https://sandbox.vnpayment.vn/paymentv2/vpcpay.html"),
			QueryURL:   e.str("VNPAY_QUERY_URL", "https://sandbox.vnpayment.vn/merchant_webapi/api/transaction"),
			ReturnURL:  e.str("VNPAY_RETURN_URL", "http://localhost:8080/v1/payments/vnpay/return"),
			Version:    e.str("VNPAY_VERSION", "2.1.0"),
			Locale:     e.str("VNPAY_LOCALE", "vn"),
			CurrCode:   e.str("VNPAY_CURR_CODE", "VND"),
			OrderType:  e.str("VNPAY_ORDER_TYPE", "other"),
			ServerIP:   e.str("VNPAY_SERVER_IP", "127.0.0.1"),
		},
		Reconcile: ReconcileConfig{
			Cron: e.str("RECONCILE_CRON", "0 */5 * * * *"),
		},
		Redis: RedisConfig{
			Addr:     e.str("REDIS_ADDR", ""),
			Password: e.str("REDIS_PASSWORD", ""),
		},
		Kafka: KafkaConfig{
			Brokers:      e.list("KAFKA_BROKERS", nil),
			SettledTopic: e.str("KAFKA_SETTLED_TOPIC", "lms.payment.settled"),
		},
	}

	var err error
	if cfg.VNPay.ExpireAfter, err = e.duration("VNPAY_EXPIRE_AFTER", 15*time.Minute); err != nil {
		return Config{}, err
	}
	if cfg.VNPay.UTCOffset, err = e.duration("VNPAY_UTC_OFFSET", 7*time.Hour); err != nil {
		return Config{}, err
	}
	if cfg.VNPay.QueryTimeout, err = e.duration("VNPAY_QUERY_TIMEOUT", 10*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.Reconcile.Enabled, err = e.boolean("RECONCILE_ENABLED", true); err != nil {
		return Config{}, err
	}
	if cfg.Reconcile.Grace, err = e.duration("RECONCILE_GRACE", 5*time.Minute); err != nil {
		return Config{}, err
	}
	if cfg.Reconcile.LockTTL, err = e.duration("RECONCILE_LOCK_TTL", 2*time.Minute); err != nil {
		return Config{}, err
	}
	batch, err := e.integer("RECONCILE_BATCH_SIZE", 50)
	if err != nil {
		return Config{}, err
	}
	cfg.Reconcile.BatchSize = int32(batch)
	if cfg.Redis.DB, err = e.integer("REDIS_DB", 0); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate reports fatal misconfiguration.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.VNPay.HashSecret) == "" {
		errs = append(errs, ErrMissingHashSecret)
	}
	if strings.TrimSpace(c.VNPay.TmnCode) == "" {
		errs = append(errs, ErrMissingTmnCode)
	}
	if strings.TrimSpace(c.JWTSecret) == "" {
		errs = append(errs, ErrMissingJWTSecret)
	}
	if c.VNPay.ExpireAfter <= 0 {
		errs = append(errs, fmt.Errorf("VNPAY_EXPIRE_AFTER must be positive, got %s", c.VNPay.ExpireAfter))
	}
	return errors.Join(errs...)
}

type env struct {
	lookup func(string) (string, bool)
}

func (e env) str(key, def string) string {
	if v, ok := e.lookup(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return def
}

func (e env) list(key string, def []string) []string {
	raw := e.str(key, "")
	if raw == "" {
		return def
	}
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (e env) duration(key string, def time.Duration) (time.Duration, error) {
	raw := e.str(key, "")
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func (e env) integer(key string, def int) (int, error) {
	raw := e.str(key, "")
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func (e env) boolean(key string, def bool) (bool, error) {
	raw := e.str(key, "")
	if raw == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}
