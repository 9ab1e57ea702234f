package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"parcel-ledger.backend/internal/config"
	"parcel-ledger.backend/internal/domain/entities"
	"parcel-ledger.backend/internal/infrastructure/cache"
	"parcel-ledger.backend/internal/infrastructure/datasources/postgres"
	"parcel-ledger.backend/internal/infrastructure/events"
	"parcel-ledger.backend/internal/infrastructure/jobs"
	"parcel-ledger.backend/internal/infrastructure/metrics"
	"parcel-ledger.backend/internal/infrastructure/repositories"
	"parcel-ledger.backend/internal/usecases"
	"parcel-ledger.backend/pkg/logger"
	"parcel-ledger.backend/pkg/redis"
)

const usage = `usage: ledgerctl <command> [flags]

commands:
  migrate up|down|status
  backfill
  coverage
  stats [-cached]
  verify
  reconcile [-interval 15m] [-metrics-addr :9102]
  code -package-id <uuid>
  credit|debit|reserve|release -wallet-id <uuid> -amount <decimal>
  set-active -wallet-id <uuid> [-active=false]`

var errDriftFound = errors.New("ledger drift found")

var listen = net.Listen

type maintenanceRuntime interface {
	BackfillMissingWallets(ctx context.Context) (*entities.BackfillResult, error)
	VerifyCoverage(ctx context.Context) (*entities.CoverageReport, error)
	ComputeStatistics(ctx context.Context) (*entities.LedgerStatistics, error)
	CachedStatistics(ctx context.Context) (*entities.LedgerStatistics, error)
	VerifyIntegrity(ctx context.Context) (*entities.DriftReport, error)
}

type codeRuntime interface {
	Generate(ctx context.Context, pkg *entities.Package) (string, error)
}

type ledgerRuntime interface {
	Credit(ctx context.Context, walletID uuid.UUID, amount decimal.Decimal) (*entities.Wallet, error)
	Debit(ctx context.Context, walletID uuid.UUID, amount decimal.Decimal) (*entities.Wallet, error)
	Reserve(ctx context.Context, walletID uuid.UUID, amount decimal.Decimal) (*entities.Wallet, error)
	Release(ctx context.Context, walletID uuid.UUID, amount decimal.Decimal) (*entities.Wallet, error)
	SetActive(ctx context.Context, walletID uuid.UUID, active bool) (*entities.Wallet, error)
}

type runtime struct {
	migrate     func(ctx context.Context, command string) error
	maintenance maintenanceRuntime
	codes       codeRuntime
	ledger      ledgerRuntime
	gatherer    prometheus.Gatherer
}

type ledgerctlDeps struct {
	loadEnv func() error
	loadCfg func() *config.Config
	initLog func(env string)
	prepare func(cfg *config.Config) (*runtime, io.Closer, error)
	signals func(ctx context.Context) (context.Context, context.CancelFunc)
	out     io.Writer
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// closers releases resources in reverse order of acquisition
type closers []func() error

func (c closers) Close() error {
	var errs []error
	for i := len(c) - 1; i >= 0; i-- {
		if err := c[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func defaultLedgerctlDeps() ledgerctlDeps {
	return ledgerctlDeps{
		loadEnv: func() error { return godotenv.Load() },
		loadCfg: config.Load,
		initLog: logger.Init,
		prepare: prepareRuntime,
		signals: func(ctx context.Context) (context.Context, context.CancelFunc) {
			return signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		},
		out: os.Stdout,
	}
}

func prepareRuntime(cfg *config.Config) (*runtime, io.Closer, error) {
	ctx := context.Background()
	var release closers

	sqlDB, err := postgres.NewConnection(cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	release = append(release, sqlDB.Close)

	db, err := postgres.OpenGorm(sqlDB)
	if err != nil {
		_ = release.Close()
		return nil, nil, err
	}

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	uow := repositories.NewUnitOfWork(db, cfg.Database.LockTimeout)
	packageRepo := repositories.NewPackageRepository(db)
	areaRepo := repositories.NewAreaRepository(db)
	walletRepo := repositories.NewWalletRepository(db)
	ownerRepo := repositories.NewOwnerRepository(db)

	allocator := usecases.NewSequenceAllocator(uow, repositories.NewSequenceRepository(db))
	allocator.SetMetrics(m)
	codes := usecases.NewPackageCodeUsecase(uow, packageRepo, areaRepo, allocator, cfg.Codes.FallbackAttempts)
	codes.SetMetrics(m)

	ledger := usecases.NewWalletLedgerUsecase(uow, walletRepo)
	ledger.SetMetrics(m)

	maintenance := usecases.NewLedgerMaintenanceUsecase(ownerRepo, walletRepo, cfg.Ledger.BatchSize)
	maintenance.SetMetrics(m)

	if cfg.Redis.Enabled() {
		if err := redis.Init(cfg.Redis.URL, cfg.Redis.PASSWORD); err != nil {
			logger.Warn(ctx, "Redis unavailable, running without cache", zap.Error(err))
		} else {
			release = append(release, redis.Close)
			maintenance.SetStatisticsCache(cache.NewStatisticsCache(cfg.Redis.StatsTTL))
			codes.SetFallbackRegistry(cache.NewFallbackCodeRegistry(cfg.Redis.FallbackTTL))
		}
	}

	nc, err := events.Connect(cfg.NATS.URL)
	if err != nil {
		logger.Warn(ctx, "NATS unavailable, ledger events disabled", zap.Error(err))
	} else if nc != nil {
		release = append(release, func() error { nc.Close(); return nil })
		ledger.SetEventPublisher(events.NewNATSPublisher(events.NewBus(nc), cfg.NATS.SubjectPrefix))
	}

	return &runtime{
		migrate: func(ctx context.Context, command string) error {
			return postgres.RunMigrations(ctx, sqlDB, command)
		},
		maintenance: maintenance,
		codes:       codes,
		ledger:      ledger,
		gatherer:    registry,
	}, release, nil
}

// command is a parsed invocation, ready to run against a runtime
type command func(ctx context.Context, rt *runtime, cfg *config.Config, deps ledgerctlDeps) error

func parseCommand(args []string) (command, error) {
	if len(args) == 0 {
		return nil, errors.New(usage)
	}
	name, rest := args[0], args[1:]
	fs := flag.NewFlagSet(name, flag.ContinueOnError)

	switch name {
	case "migrate":
		if len(rest) != 1 {
			return nil, errors.New("usage: ledgerctl migrate up|down|status")
		}
		direction := rest[0]
		switch direction {
		case postgres.MigrateUp, postgres.MigrateDown, postgres.MigrateStatus:
		default:
			return nil, fmt.Errorf("unknown migrate command %q", direction)
		}
		return func(ctx context.Context, rt *runtime, _ *config.Config, deps ledgerctlDeps) error {
			if err := rt.migrate(ctx, direction); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(deps.out, "migrate %s: ok\n", direction)
			return nil
		}, nil

	case "backfill", "coverage", "verify":
		if err := fs.Parse(rest); err != nil {
			return nil, err
		}
		return reportCommand(name), nil

	case "stats":
		cached := fs.Bool("cached", false, "serve from the statistics cache when present")
		if err := fs.Parse(rest); err != nil {
			return nil, err
		}
		return func(ctx context.Context, rt *runtime, _ *config.Config, deps ledgerctlDeps) error {
			var (
				stats *entities.LedgerStatistics
				err   error
			)
			if *cached {
				stats, err = rt.maintenance.CachedStatistics(ctx)
			} else {
				stats, err = rt.maintenance.ComputeStatistics(ctx)
			}
			if err != nil {
				return err
			}
			return writeJSON(deps.out, stats)
		}, nil

	case "reconcile":
		interval := fs.Duration("interval", 0, "time between reconciliation passes")
		metricsAddr := fs.String("metrics-addr", "", "serve Prometheus metrics on this address")
		if err := fs.Parse(rest); err != nil {
			return nil, err
		}
		return func(ctx context.Context, rt *runtime, cfg *config.Config, deps ledgerctlDeps) error {
			every := *interval
			if every <= 0 {
				every = cfg.Ledger.ReconcileInterval
			}
			addr := *metricsAddr
			if addr == "" {
				addr = cfg.Ledger.MetricsAddr
			}
			return runReconcile(ctx, rt, every, addr, deps)
		}, nil

	case "code":
		packageID := fs.String("package-id", "", "package UUID (required)")
		if err := fs.Parse(rest); err != nil {
			return nil, err
		}
		id, err := parseID("package-id", *packageID)
		if err != nil {
			return nil, err
		}
		return func(ctx context.Context, rt *runtime, _ *config.Config, deps ledgerctlDeps) error {
			code, err := rt.codes.Generate(ctx, &entities.Package{ID: id})
			if err != nil {
				return fmt.Errorf("failed to generate code for package %s: %w", id, err)
			}
			_, _ = fmt.Fprintf(deps.out, "package_id=%s\ncode=%s\n", id, code)
			return nil
		}, nil

	case "credit", "debit", "reserve", "release":
		walletID := fs.String("wallet-id", "", "wallet UUID (required)")
		amountFlag := fs.String("amount", "", "positive decimal amount (required)")
		if err := fs.Parse(rest); err != nil {
			return nil, err
		}
		id, err := parseID("wallet-id", *walletID)
		if err != nil {
			return nil, err
		}
		amount, err := decimal.NewFromString(*amountFlag)
		if err != nil {
			return nil, fmt.Errorf("invalid --amount %q: %w", *amountFlag, err)
		}
		return func(ctx context.Context, rt *runtime, _ *config.Config, deps ledgerctlDeps) error {
			apply := map[string]func(context.Context, uuid.UUID, decimal.Decimal) (*entities.Wallet, error){
				"credit":  rt.ledger.Credit,
				"debit":   rt.ledger.Debit,
				"reserve": rt.ledger.Reserve,
				"release": rt.ledger.Release,
			}[name]
			wallet, err := apply(ctx, id, amount)
			if err != nil {
				return fmt.Errorf("%s failed for wallet %s: %w", name, id, err)
			}
			return writeJSON(deps.out, wallet)
		}, nil

	case "set-active":
		walletID := fs.String("wallet-id", "", "wallet UUID (required)")
		active := fs.Bool("active", true, "false suspends the wallet")
		if err := fs.Parse(rest); err != nil {
			return nil, err
		}
		id, err := parseID("wallet-id", *walletID)
		if err != nil {
			return nil, err
		}
		return func(ctx context.Context, rt *runtime, _ *config.Config, deps ledgerctlDeps) error {
			wallet, err := rt.ledger.SetActive(ctx, id, *active)
			if err != nil {
				return err
			}
			return writeJSON(deps.out, wallet)
		}, nil
	}

	return nil, fmt.Errorf("unknown command %q\n%s", name, usage)
}

func reportCommand(name string) command {
	return func(ctx context.Context, rt *runtime, _ *config.Config, deps ledgerctlDeps) error {
		switch name {
		case "backfill":
			result, err := rt.maintenance.BackfillMissingWallets(ctx)
			if err != nil {
				return err
			}
			return writeJSON(deps.out, result)
		case "coverage":
			report, err := rt.maintenance.VerifyCoverage(ctx)
			if err != nil {
				return err
			}
			return writeJSON(deps.out, report)
		default:
			report, err := rt.maintenance.VerifyIntegrity(ctx)
			if err != nil {
				return err
			}
			if err := writeJSON(deps.out, report); err != nil {
				return err
			}
			if !report.Clean() {
				return fmt.Errorf("%w: %d of %d wallets", errDriftFound, len(report.Drifted), report.Checked)
			}
			return nil
		}
	}
}

func runReconcile(ctx context.Context, rt *runtime, interval time.Duration, metricsAddr string, deps ledgerctlDeps) error {
	ctx, stop := deps.signals(ctx)
	defer stop()

	var srv *http.Server
	serveErr := make(chan error, 1)
	if metricsAddr != "" {
		ln, err := listen("tcp", metricsAddr)
		if err != nil {
			return fmt.Errorf("failed to listen on %s: %w", metricsAddr, err)
		}
		srv = newMetricsServer(rt.gatherer)
		go func() {
			if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
				serveErr <- err
			}
			close(serveErr)
		}()
		logger.Info(ctx, "Serving metrics", zap.String("addr", ln.Addr().String()))
	} else {
		close(serveErr)
	}

	job := jobs.NewLedgerReconciliationJob(rt.maintenance, interval)
	job.Start(ctx)

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to stop metrics server: %w", err)
		}
	}
	return <-serveErr
}

func newMetricsServer(gatherer prometheus.Gatherer) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler(gatherer))
	return &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

func parseID(flagName, value string) (uuid.UUID, error) {
	if value == "" {
		return uuid.Nil, fmt.Errorf("--%s is required", flagName)
	}
	return uuid.Parse(value)
}

func writeJSON(out io.Writer, v interface{}) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func runLedgerctl(args []string, deps ledgerctlDeps) error {
	def := defaultLedgerctlDeps()
	if deps.loadEnv == nil {
		deps.loadEnv = def.loadEnv
	}
	if deps.loadCfg == nil {
		deps.loadCfg = def.loadCfg
	}
	if deps.initLog == nil {
		deps.initLog = def.initLog
	}
	if deps.prepare == nil {
		deps.prepare = def.prepare
	}
	if deps.signals == nil {
		deps.signals = def.signals
	}
	if deps.out == nil {
		deps.out = def.out
	}

	cmd, err := parseCommand(args)
	if err != nil {
		return err
	}

	if err := deps.loadEnv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := deps.loadCfg()
	deps.initLog(cfg.Server.Env)

	rt, closer, err := deps.prepare(cfg)
	if err != nil {
		return err
	}
	if closer == nil {
		closer = nopCloser{}
	}
	defer closer.Close()

	return cmd(context.Background(), rt, cfg, deps)
}

func main() {
	if err := runLedgerctl(os.Args[1:], defaultLedgerctlDeps()); err != nil {
		log.Fatal(err)
	}
}
