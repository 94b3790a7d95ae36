// ====================================
// File: cmd/pumpquote/main.go
// ====================================
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/rovshanmuradov/pump-sdk/internal/blockchain/solbc"
	"github.com/rovshanmuradov/pump-sdk/internal/config"
	"github.com/rovshanmuradov/pump-sdk/internal/logger"
	"github.com/rovshanmuradov/pump-sdk/internal/metrics"
	"github.com/rovshanmuradov/pump-sdk/internal/ui"
	"github.com/rovshanmuradov/pump-sdk/pkg/client"
	"github.com/rovshanmuradov/pump-sdk/pkg/pumpfun"
)

type flags struct {
	config string
	mint   string
	user   string
	sol    string
	tokens string
	tui    bool
}

func parseFlags() flags {
	var f flags
	flag.StringVar(&f.config, "config", "", "path to config file (json/yaml/toml)")
	flag.StringVar(&f.mint, "mint", "", "token mint address")
	flag.StringVar(&f.user, "user", "", "wallet to build buy instructions for")
	flag.StringVar(&f.sol, "sol", "", "SOL amount to quote a buy for, e.g. 0.5")
	flag.StringVar(&f.tokens, "tokens", "", "token amount to quote a sell for, e.g. 1000000")
	flag.BoolVar(&f.tui, "tui", false, "start the interactive quote explorer")
	flag.Parse()
	return f
}

func main() {
	if err := run(parseFlags()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(f flags) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig(f.config)
	if err != nil {
		return err
	}

	// В режиме TUI логи идут в кольцевой буфер вместо stdout
	logCfg := logger.DefaultConfig()
	logCfg.LogFile = cfg.LogFile
	logCfg.Development = cfg.DebugLogging
	logCfg.Console = !f.tui
	var ring *logger.Ring
	var extra []zapcore.Core
	if f.tui {
		ring = logger.NewRing(200)
		extra = append(extra, logger.NewRingCore(ring, zapcore.InfoLevel))
	}
	log, err := logger.New(logCfg, extra...)
	if err != nil {
		return fmt.Errorf("failed to init logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	collector := metrics.NewCollector()
	if cfg.MetricsAddr != "" {
		shutdown := serveMetrics(cfg.MetricsAddr, collector, log.Logger)
		defer shutdown()
	}

	opts := cfg.ClientOptions()
	opts.Metrics = collector
	fetcher := solbc.NewClient(cfg.RPCURL, cfg.Commitment, log.Logger)
	sdk := client.New(fetcher, log.Logger, opts)

	if f.tui {
		side := ui.SideBuy
		amount := f.sol
		if amount == "" && f.tokens != "" {
			side, amount = ui.SideSell, f.tokens
		}
		return ui.Run(sdk, log.Logger, ring, ui.Params{Mint: f.mint, Amount: amount, Side: side})
	}

	if f.mint == "" {
		flag.Usage()
		return errors.New("-mint is required without -tui")
	}
	mint, err := solana.PublicKeyFromBase58(f.mint)
	if err != nil {
		return fmt.Errorf("invalid mint: %w", err)
	}

	opLog := log.WithMint(mint).WithOperation("quote")
	defer log.TrackPerformance("pumpquote")()
	pumpID, ammID := pumpfun.PumpProgramID, pumpfun.PumpAMMProgramID
	if !opts.ProgramID.IsZero() {
		pumpID = opts.ProgramID
	}
	if !opts.AMMProgramID.IsZero() {
		ammID = opts.AMMProgramID
	}
	return printQuotes(ctx, sdk, opLog, f, mint, pumpID, ammID)
}

func serveMetrics(addr string, collector *metrics.Collector, log *zap.Logger) (shutdown func()) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", collector.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		log.Info("Metrics server listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Metrics server failed", zap.Error(err))
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}

func printQuotes(ctx context.Context, sdk *client.Client, log *zap.Logger, f flags, mint, pumpID, ammID solana.PublicKey) error {
	curveAddr, err := pumpfun.BondingCurvePDA(pumpID, mint)
	if err != nil {
		return err
	}
	associated, err := pumpfun.AssociatedBondingCurve(curveAddr, mint)
	if err != nil {
		return err
	}
	pool, err := pumpfun.CanonicalPumpPoolPDA(pumpID, ammID, mint)
	if err != nil {
		return err
	}

	fmt.Printf("mint:                     %s\n", mint)
	fmt.Printf("bonding curve:            %s\n", curveAddr)
	fmt.Printf("associated bonding curve: %s\n", associated)
	fmt.Printf("canonical pool:           %s\n", pool)

	curve, err := sdk.FetchBondingCurve(ctx, mint)
	if err != nil {
		return fmt.Errorf("failed to fetch bonding curve: %w", err)
	}
	if curve.HasCreator() {
		vault, err := pumpfun.CreatorVaultPDA(pumpID, curve.Creator)
		if err != nil {
			return err
		}
		fmt.Printf("creator vault:            %s\n", vault)
	}

	fmt.Printf("\ncomplete: %v\n", curve.Complete)
	fmt.Printf("virtual reserves: %s SOL / %s tokens\n",
		pumpfun.LamportsToSol(curve.VirtualSolReserves), pumpfun.TokensToUI(curve.VirtualTokenReserves))
	fmt.Printf("real reserves:    %s SOL / %s tokens\n",
		pumpfun.LamportsToSol(curve.RealSolReserves), pumpfun.TokensToUI(curve.RealTokenReserves))
	fmt.Printf("spot price:       %s SOL\n", pumpfun.SpotPrice(curve))
	if mcap, err := pumpfun.BondingCurveMarketCap(curve); err == nil {
		fmt.Printf("market cap:       %s SOL\n", pumpfun.LamportsToSol(mcap).StringFixed(3))
	}

	if f.sol != "" {
		lamports, err := pumpfun.ParseSol(f.sol)
		if err != nil {
			return err
		}
		quote, err := sdk.QuoteBuy(ctx, mint, lamports)
		if err != nil {
			return fmt.Errorf("failed to quote buy: %w", err)
		}
		fmt.Printf("\nbuy %s SOL on %s -> %s tokens (max cost %s SOL)\n",
			pumpfun.LamportsToSol(quote.In), quote.Venue,
			pumpfun.TokensToUI(quote.Out), pumpfun.LamportsToSol(quote.Limit))
		log.Info("Buy quoted", zap.Uint64("in", quote.In), zap.Uint64("out", quote.Out))

		if f.user != "" {
			if err := printBuyInstructions(ctx, sdk, mint, f.user, lamports); err != nil {
				return err
			}
		}
	}

	if f.tokens != "" {
		amount, err := pumpfun.ParseTokens(f.tokens)
		if err != nil {
			return err
		}
		quote, err := sdk.QuoteSell(ctx, mint, amount)
		if err != nil {
			return fmt.Errorf("failed to quote sell: %w", err)
		}
		fmt.Printf("\nsell %s tokens on %s -> %s SOL (min out %s SOL)\n",
			pumpfun.TokensToUI(quote.In), quote.Venue,
			pumpfun.LamportsToSol(quote.Out), pumpfun.LamportsToSol(quote.Limit))
		log.Info("Sell quoted", zap.Uint64("in", quote.In), zap.Uint64("out", quote.Out))
	}
	return nil
}

func printBuyInstructions(ctx context.Context, sdk *client.Client, mint solana.PublicKey, userAddr string, lamports uint64) error {
	user, err := solana.PublicKeyFromBase58(userAddr)
	if err != nil {
		return fmt.Errorf("invalid user: %w", err)
	}
	ixs, _, err := sdk.BuyInstructions(ctx, mint, user, lamports)
	if err != nil {
		return fmt.Errorf("failed to build buy instructions: %w", err)
	}

	fmt.Printf("\ninstructions for %s:\n", user)
	for i, ix := range ixs {
		data, err := ix.Data()
		if err != nil {
			return err
		}
		fmt.Printf("  #%d program=%s accounts=%d data=%x\n", i, ix.ProgramID(), len(ix.Accounts()), data)
	}
	return nil
}
