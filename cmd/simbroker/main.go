// Package main is the entry point for the simulated brokerage engine: it
// loads a run configuration, registers tickstreams, and drives the
// simulation loop to completion.
package main

import (
	"context"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/ahlstrom-labs/simbroker/internal/account"
	"github.com/ahlstrom-labs/simbroker/internal/broker"
	"github.com/ahlstrom-labs/simbroker/internal/config"
	"github.com/ahlstrom-labs/simbroker/internal/dashboard"
	"github.com/ahlstrom-labs/simbroker/internal/ledger"
	"github.com/ahlstrom-labs/simbroker/internal/logging"
	"github.com/ahlstrom-labs/simbroker/internal/metrics"
	"github.com/ahlstrom-labs/simbroker/internal/persistence"
	"github.com/ahlstrom-labs/simbroker/internal/simloop"
	"github.com/ahlstrom-labs/simbroker/internal/symbol"
	"github.com/ahlstrom-labs/simbroker/internal/tick"
	"github.com/ahlstrom-labs/simbroker/internal/wire"
)

func main() {
	os.Exit(run())
}

func run() int {
	var configPath string
	flag.StringVar(&configPath, "config", "simbroker.yaml", "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Printf("failed to load config: %v", err)
		return 1
	}

	logger := logrus.New()
	if lvl, err := logrus.ParseLevel(cfg.Environment.LogLevel); err == nil {
		logger.SetLevel(lvl)
	}
	simLogger := logging.NewLogrus(logger)

	symbols := symbol.NewTable()
	for _, ts := range cfg.Tickstreams {
		source, err := loadCSVTickSource(ts.Path)
		if err != nil {
			logger.WithError(err).Errorf("failed to load tickstream %q", ts.Name)
			return 1
		}
		if _, err := symbols.Add(ts.Name, symbol.New(ts.Name, source, ts.IsFX, ts.DecimalPrecision)); err != nil {
			logger.WithError(err).Errorf("failed to register tickstream %q", ts.Name)
			return 1
		}
	}

	accounts := account.NewRegistry()
	demoAccount := &account.Account{
		UUID:   uuid.New(),
		Ledger: ledger.New(cfg.Settings.StartingBalance),
		Live:   false,
	}
	accounts.Add(demoAccount)
	accounts.AddSymbol()
	logger.Infof("registered demo account %s with starting balance %d", demoAccount.UUID, cfg.Settings.StartingBalance)

	settings := cfg.Settings.ToSettings()
	exec := broker.NewExecutor(accounts, symbols, settings, simLogger)
	eval := broker.NewEvaluator(accounts, symbols, settings)

	inbox := make(chan simloop.Request)
	push := simloop.NewBestEffortPusher(simloop.NewPushSink())

	metricsReg := metrics.NewRegistry(prometheus.DefaultRegisterer)

	loop := simloop.New(symbols, settings, exec, eval, simLogger, inbox, push, metricsReg)

	var store *persistence.Store
	if cfg.Persistence.Enabled {
		store, err = persistence.Open(cfg.Persistence.Path)
		if err != nil {
			logger.WithError(err).Error("failed to open persistence store")
			return 1
		}
		defer store.Close()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info("shutdown signal received")
		cancel()
	}()

	group, groupCtx := errgroup.WithContext(ctx)

	// Egress relay: pure message forwarding from the push sink to logs (and,
	// were a client transport wired in, to its asynchronous sink). Never
	// touches core state directly (spec.md §5).
	group.Go(func() error {
		for {
			select {
			case result, ok := <-push.Sink():
				if !ok {
					return nil
				}
				logPush(logger, result)
			case <-groupCtx.Done():
				return nil
			}
		}
	})

	var dashServer *dashboard.Server
	if cfg.Dashboard.Enabled {
		dashServer = dashboard.NewServer(dashboard.Config{
			Port:      cfg.Dashboard.Port,
			AuthToken: cfg.Dashboard.AuthToken,
		}, accounts, loop, logger)
		group.Go(func() error {
			if err := dashServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		group.Go(func() error {
			<-groupCtx.Done()
			return dashServer.Shutdown(context.Background())
		})
		logger.Infof("dashboard enabled at http://0.0.0.0:%d", cfg.Dashboard.Port)

		metricsMux := http.NewServeMux()
		metricsMux.Handle("/metrics", promhttp.Handler())
		group.Go(func() error {
			server := &http.Server{Addr: fmt.Sprintf(":%d", cfg.Dashboard.Port+1), Handler: metricsMux}
			go func() {
				<-groupCtx.Done()
				_ = server.Shutdown(context.Background())
			}()
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
	}

	loop.Run()

	if store != nil {
		if err := store.Dump(accounts, loop.FinalTimestamp()); err != nil {
			logger.WithError(err).Error("failed to checkpoint final state")
		}
	}

	cancel()
	if err := group.Wait(); err != nil {
		logger.WithError(err).Error("ancillary worker error")
		return 1
	}

	return 0
}

func logPush(logger *logrus.Logger, result wire.BrokerResult) {
	if result.IsOk() {
		logger.WithField("kind", result.Message.Kind).Info("push notification")
		return
	}
	logger.WithError(result.Err).Warn("push notification error")
}

func loadCSVTickSource(path string) (tick.Source, error) {
	f, err := os.Open(path) // #nosec G304 -- path comes from the operator's own config file
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	var ticks []tick.Tick
	for {
		record, err := reader.Read()
		if err != nil {
			break
		}
		if len(record) != 3 {
			continue
		}
		ts, err1 := strconv.ParseUint(record[0], 10, 64)
		bid, err2 := strconv.ParseInt(record[1], 10, 64)
		ask, err3 := strconv.ParseInt(record[2], 10, 64)
		if err1 != nil || err2 != nil || err3 != nil {
			continue
		}
		ticks = append(ticks, tick.Tick{Timestamp: ts, Bid: bid, Ask: ask})
	}

	return tick.NewSliceSource(ticks), nil
}
