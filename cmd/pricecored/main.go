// Command pricecored wires the pricing core's collaborators (config,
// logger, cache, adapters, coordinator, lifecycle manager) into a single
// runnable process.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/holiman/uint256"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/dexpricer/core/internal/adapter"
	"github.com/dexpricer/core/internal/adapters/constantproduct"
	"github.com/dexpricer/core/internal/adapters/wrappednative"
	"github.com/dexpricer/core/internal/cache"
	"github.com/dexpricer/core/internal/config"
	"github.com/dexpricer/core/internal/domain"
	"github.com/dexpricer/core/internal/lifecycle"
	"github.com/dexpricer/core/internal/poolstate"
	"github.com/dexpricer/core/internal/pricing"
	"github.com/dexpricer/core/internal/registry"
	"github.com/dexpricer/core/internal/routeopt"
	"github.com/dexpricer/core/internal/telemetry"
)

var configPath string

func main() {
	root := &cobra.Command{
		Use:   "pricecored",
		Short: "Multi-venue DEX pricing-aggregation core",
	}

	root.PersistentFlags().StringVar(&configPath, "config", "config.yaml", "path to the process config file")

	root.AddCommand(serveCmd())
	root.AddCommand(quoteCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// process holds every collaborator the CLI entrypoint wires together.
// serve uses it to run the lifecycle manager for the process's lifetime;
// quote uses it for a single coordinator call. Both commands share the
// same construction path so there is exactly one place that assembles
// the registry, coordinator, and lifecycle manager.
type process struct {
	cfg          *config.Config
	log          telemetry.Logger
	metrics      *telemetry.Metrics
	redisClient  *redis.Client
	venues       *registry.Registry
	coordinator  *pricing.Coordinator
	lifecycleMgr *lifecycle.Manager
}

func buildProcess() (*process, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log, err := buildLogger(cfg.Logging.Level)
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	promReg := prometheus.NewRegistry()
	metrics := telemetry.NewMetrics(promReg)

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	sharedCache := cache.NewRedisCache(redisClient)

	manager := poolstate.NewManager(nil, nil, log)
	adapters := buildSampleAdapters(manager)

	venues := registry.New(adapters, routeopt.Pipeline{})
	coordinator := pricing.New(venues, cfg.FetchPoolIdentifierTimeout, cfg.FetchPoolPricesTimeout, log, metrics)
	lifecycleMgr := lifecycle.New(venues, sharedCache, !cfg.IsSlave, cfg.SetupRetryTimeout, log, metrics)

	return &process{
		cfg:          cfg,
		log:          log,
		metrics:      metrics,
		redisClient:  redisClient,
		venues:       venues,
		coordinator:  coordinator,
		lifecycleMgr: lifecycleMgr,
	}, nil
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the pricing core until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	}
}

func serve(ctx context.Context) error {
	p, err := buildProcess()
	if err != nil {
		return err
	}

	runCtx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	p.lifecycleMgr.Initialize(runCtx, 0, p.venues.GetAllDexKeys())

	p.log.Info("pricing core started", "adapters", len(p.venues.GetAllDexKeys()))

	<-runCtx.Done()

	p.log.Info("shutting down")

	p.lifecycleMgr.ReleaseResources(context.Background(), p.venues.GetAllDexKeys())
	p.lifecycleMgr.Shutdown()

	return p.redisClient.Close()
}

var (
	quoteFrom, quoteTo string
	quoteAmount        uint64
	quoteBlock         uint64
)

// quoteCmd is a one-shot GetPoolPrices call against the wired sample
// adapters, printed as JSON; a production deployment fronts the
// coordinator with its own RPC surface instead of this CLI path.
func quoteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Fetch one price quote against the configured adapters and print it",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuote(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&quoteFrom, "from", "", "source token address")
	cmd.Flags().StringVar(&quoteTo, "to", "", "destination token address")
	cmd.Flags().Uint64Var(&quoteAmount, "amount", 0, "raw amount of from to price")
	cmd.Flags().Uint64Var(&quoteBlock, "block", 0, "block to price at")

	return cmd
}

func runQuote(ctx context.Context) error {
	p, err := buildProcess()
	if err != nil {
		return err
	}
	defer p.redisClient.Close()

	from := domain.NewToken(quoteFrom, 18)
	to := domain.NewToken(quoteTo, 18)

	results := p.coordinator.GetPoolPrices(
		ctx,
		from, to,
		[]*uint256.Int{uint256.NewInt(quoteAmount)},
		domain.SELL,
		quoteBlock,
		p.venues.GetAllDexKeys(),
		nil,
		domain.TransferFeeParams{},
		nil,
	)

	out, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal quote result: %w", err)
	}

	fmt.Println(string(out))

	return nil
}

func buildLogger(level string) (telemetry.Logger, error) {
	var zapLevel zapcore.Level
	if err := zapLevel.UnmarshalText([]byte(level)); err != nil {
		zapLevel = zapcore.InfoLevel
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapLevel)

	z, err := cfg.Build()
	if err != nil {
		return nil, err
	}

	return telemetry.NewZapLogger(z), nil
}

// buildSampleAdapters wires the reference adapters this repository ships
// with; a real deployment replaces this with its own venue set.
func buildSampleAdapters(manager *poolstate.Manager) []adapter.Adapter {
	wrapped := domain.NewToken("0xwrappednative", 18)

	return []adapter.Adapter{
		constantproduct.New("uniswapv2", wrapped, nil, manager),
		wrappednative.New("wnative", wrapped),
	}
}
