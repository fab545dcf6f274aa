package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/NMHx2005/lms-backend-sub006/internal/bootstrap"
	"github.com/NMHx2005/lms-backend-sub006/internal/config"
	"github.com/NMHx2005/lms-backend-sub006/internal/domain/entities"
	"github.com/NMHx2005/lms-backend-sub006/internal/infrastructure/payments"
	"github.com/NMHx2005/lms-backend-sub006/internal/job"
	"github.com/NMHx2005/lms-backend-sub006/internal/usecase"
	"github.com/NMHx2005/lms-backend-sub006/internal/usecase/interfaces"
	"github.com/NMHx2005/lms-backend-sub006/pkg/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// withApp wires the full application for commands that touch the ledger.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, cfg config.Config, app *bootstrap.App, log *zap.Logger) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	log, err := logger.New(cfg.AppEnv, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer log.Sync()

	app, err := bootstrap.Build(cmd.Context(), cfg, log)
	if err != nil {
		return err
	}
	defer app.Close()
	return fn(cmd.Context(), cfg, app, log)
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func reconcileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile [txn_ref]",
		Short: "Compare one payment with the gateway (report only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, _ config.Config, app *bootstrap.App, _ *zap.Logger) error {
				report, err := app.Reconciliation.Reconcile(ctx, args[0])
				if err != nil {
					return err
				}
				return printJSON(cmd, report)
			})
		},
	}
}

func queryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query [txn_ref]",
		Short: "Ask the gateway about a transaction without reading the ledger",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			gateway, err := payments.NewVNPayGateway(cfg.VNPay, nil)
			if err != nil {
				return err
			}

			q, err := transactionQuery(args[0], mustString(cmd, "date"), payments.GatewayZone(cfg.VNPay.UTCOffset))
			if err != nil {
				return err
			}
			q.OrderInfo = mustString(cmd, "order-info")

			res, err := gateway.QueryTransaction(cmd.Context(), q)
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "gateway answer inconclusive: %v\n", err)
			}
			return printJSON(cmd, res)
		},
	}
	cmd.Flags().String("date", "", "Transaction date as yyyyMMddHHmmss in gateway time (default: from the txn ref)")
	cmd.Flags().String("order-info", "", "Order description sent with the query")
	return cmd
}

func sweepCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Run one reconciliation sweep over expired pending payments",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(ctx context.Context, cfg config.Config, app *bootstrap.App, log *zap.Logger) error {
				sweeper := &recordingSweeper{IReconciliationUseCase: app.Reconciliation}
				if err := job.NewReconciliationJob(sweeper, app.Locker, cfg.Reconcile.LockTTL, log).Run(); err != nil {
					return err
				}
				if !sweeper.ran {
					fmt.Fprintln(cmd.ErrOrStderr(), "sweep skipped: lock held by another instance")
					return nil
				}
				return printJSON(cmd, sweeper.summary)
			})
		},
	}
}

// recordingSweeper keeps the summary of the sweep the job ran, if any.
type recordingSweeper struct {
	usecase.IReconciliationUseCase
	summary usecase.SweepSummary
	ran     bool
}

func (r *recordingSweeper) SweepExpired(ctx context.Context) (usecase.SweepSummary, error) {
	sum, err := r.IReconciliationUseCase.SweepExpired(ctx)
	r.summary, r.ran = sum, true
	return sum, err
}

func signCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sign [query]",
		Short: "Print the canonical string and signature of a gateway parameter set",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			signer, err := payments.NewVNPaySigner(cfg.VNPay.HashSecret)
			if err != nil {
				return err
			}
			values, err := url.ParseQuery(args[0])
			if err != nil {
				return err
			}
			params := make(map[string]string, len(values))
			for k := range values {
				params[k] = values.Get(k)
			}

			check := signer.Verify(params)
			return printJSON(cmd, map[string]any{
				"canonical": payments.Canonicalize(params),
				"signature": check.Expected,
				"valid":     check.Valid,
			})
		},
	}
}

// transactionQuery resolves the gateway transaction date from the flag or,
// when empty, from the txn ref timestamp.
func transactionQuery(txnRef, date string, zone *time.Location) (interfaces.TransactionQuery, error) {
	ref, err := entities.ParseTxnRef(txnRef)
	if err != nil {
		return interfaces.TransactionQuery{}, err
	}
	q := interfaces.TransactionQuery{TxnRef: txnRef, TransactionDate: ref.IssuedAt}
	if date != "" {
		at, err := time.ParseInLocation("20060102150405", date, zone)
		if err != nil {
			return interfaces.TransactionQuery{}, fmt.Errorf("invalid --date: %w", err)
		}
		q.TransactionDate = at
	}
	return q, nil
}

func mustString(cmd *cobra.Command, name string) string {
	v, _ := cmd.Flags().GetString(name)
	return v
}
