package bootstrap

import (
	"context"
	"errors"
	"io"

	"github.com/NMHx2005/lms-backend-sub006/internal/adapter/persistence/repository"
	"github.com/NMHx2005/lms-backend-sub006/internal/config"
	"github.com/NMHx2005/lms-backend-sub006/internal/infrastructure/cache"
	"github.com/NMHx2005/lms-backend-sub006/internal/infrastructure/database"
	"github.com/NMHx2005/lms-backend-sub006/internal/infrastructure/messaging"
	"github.com/NMHx2005/lms-backend-sub006/internal/infrastructure/payments"
	"github.com/NMHx2005/lms-backend-sub006/internal/usecase"
	"github.com/NMHx2005/lms-backend-sub006/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"go.uber.org/zap"
)

// App holds the wired use cases shared by the API server and the CLI.
type App struct {
	Gateway        *payments.VNPayGateway
	Checkout       *usecase.CheckoutUseCase
	Confirmation   *usecase.ConfirmationUseCase
	Return         *usecase.ReturnUseCase
	Reconciliation *usecase.ReconciliationUseCase
	Payments       *usecase.PaymentUseCase
	Locker         cache.Locker

	closers []io.Closer
}

// Build connects the stores and wires every use case from cfg.
func Build(ctx context.Context, cfg config.Config, log *zap.Logger) (*App, error) {
	ddb, err := database.ConnectDynamoDB(ctx, cfg.AWS)
	if err != nil {
		return nil, err
	}
	return build(ctx, cfg, ddb, log)
}

func build(ctx context.Context, cfg config.Config, ddb *dynamodb.Client, log *zap.Logger) (*App, error) {
	paymentRepo := repository.NewPaymentDynamoRepository(ddb, cfg.Tables.Payments)
	orderRepo := repository.NewOrderDynamoRepository(ddb, cfg.Tables.Orders)
	billRepo := repository.NewBillDynamoRepository(ddb, cfg.Tables.Bills)
	subscriptionRepo := repository.NewSubscriptionDynamoRepository(ddb, cfg.Tables.Subscriptions)
	planRepo := repository.NewPlanDynamoRepository(ddb, cfg.Tables.Plans)
	courseRepo := repository.NewCourseDynamoRepository(ddb, cfg.Tables.Courses)
	eventRepo := repository.NewGatewayEventDynamoRepository(ddb, cfg.Tables.GatewayEvents)

	gateway, err := payments.NewVNPayGateway(cfg.VNPay, log.Named("vnpay"))
	if err != nil {
		return nil, err
	}

	app := &App{Gateway: gateway}
	publisher := app.publisher(cfg.Kafka, log)
	app.Locker = app.locker(ctx, cfg.Redis, log)

	coordinator := usecase.NewSettlementCoordinator(orderRepo, billRepo, subscriptionRepo, publisher, log)
	app.Checkout = usecase.NewCheckoutUseCase(paymentRepo, orderRepo, billRepo, subscriptionRepo, planRepo, courseRepo, gateway,
		usecase.CheckoutOptions{ExpireAfter: cfg.VNPay.ExpireAfter, DefaultCurrency: cfg.VNPay.CurrCode}, log)
	app.Confirmation = usecase.NewConfirmationUseCase(paymentRepo, eventRepo, gateway, coordinator, log)
	app.Return = usecase.NewReturnUseCase(paymentRepo, eventRepo, gateway, log)
	app.Reconciliation = usecase.NewReconciliationUseCase(paymentRepo, eventRepo, gateway,
		usecase.ReconciliationOptions{Grace: cfg.Reconcile.Grace, BatchSize: cfg.Reconcile.BatchSize}, log)
	app.Payments = usecase.NewPaymentUseCase(paymentRepo, gateway, coordinator, log)
	return app, nil
}

// publisher falls back to dropping events when Kafka is absent or unreachable;
// settlement never depends on it.
func (a *App) publisher(cfg config.KafkaConfig, log *zap.Logger) interfaces.IPaymentEventPublisher {
	if len(cfg.Brokers) == 0 {
		log.Info("[bootstrap] kafka not configured, settled events are dropped")
		return messaging.NoopPaymentPublisher{}
	}
	producer, err := messaging.NewSyncProducer(cfg)
	if err != nil {
		log.Warn("[bootstrap] kafka unavailable, settled events are dropped", zap.Error(err))
		return messaging.NoopPaymentPublisher{}
	}
	pub := messaging.NewKafkaPaymentPublisher(producer, cfg.SettledTopic, log)
	a.closers = append(a.closers, pub)
	return pub
}

func (a *App) locker(ctx context.Context, cfg config.RedisConfig, log *zap.Logger) cache.Locker {
	client, err := cache.ConnectRedis(ctx, cfg)
	if err != nil {
		if !errors.Is(err, cache.ErrRedisNotConfigured) {
			log.Warn("[bootstrap] redis unavailable, sweep lock is process local", zap.Error(err))
		}
		return cache.NewLocalLocker()
	}
	a.closers = append(a.closers, client)
	return cache.NewRedisLocker(client)
}

func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}
