// Command exchange wires the sharding fabric, the matching core, and a
// synthetic load generator into a runnable process. It is the
// out-of-scope controller spec §6 describes: it drives Start/Stop on
// each shard and owns the single producer, but contributes no matching
// logic of its own.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/lightning-exchange/shardmatch/config"
	"github.com/lightning-exchange/shardmatch/domain"
	"github.com/lightning-exchange/shardmatch/obs"
	"github.com/lightning-exchange/shardmatch/router"
	"github.com/lightning-exchange/shardmatch/shard"
	"github.com/lightning-exchange/shardmatch/sink"
)

var (
	configPath = flag.String("config", "", "path to a TOML config file (optional)")
	bench      = flag.Bool("bench", false, "run the synthetic load generator from the original DeepHFT harness")
	numOrders  = flag.Int("orders", 1_000_000, "orders to dispatch in -bench mode")
	numSymbols = flag.Uint("symbols", 100, "distinct symbol_ids the load generator spreads traffic across")
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log, err := obs.NewLogger(cfg.Logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Sync()

	runID := uuid.New()
	log = log.With(zap.String("run_id", runID.String()))

	metrics := obs.NewMetrics(prometheus.DefaultRegisterer, cfg.NumShards)
	if cfg.Metrics.Enabled {
		go serveMetrics(cfg.Metrics.Addr, log)
	}

	tradeSink := sink.NewLogging(log)

	shards := make([]*shard.Shard, cfg.NumShards)
	for i := range shards {
		shards[i] = shard.New(i, cfg.RingCapacity, tradeSink, metrics, log)
	}

	var group errgroup.Group
	for _, s := range shards {
		s := s
		group.Go(func() error {
			s.Start()
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		log.Fatal("failed starting shards", zap.Error(err))
	}

	rt := router.New(shards)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if *bench {
		runBenchmark(ctx, rt, *numOrders, uint32(*numSymbols), log)
	} else {
		log.Info("exchange running; send SIGINT/SIGTERM to stop")
		<-ctx.Done()
	}

	log.Info("shutting down shards")
	var stopGroup errgroup.Group
	for _, s := range shards {
		s := s
		stopGroup.Go(func() error {
			s.Stop()
			return nil
		})
	}
	_ = stopGroup.Wait()
	log.Info("shutdown complete")
}

func serveMetrics(addr string, log *zap.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	if err := http.ListenAndServe(addr, mux); err != nil && err != http.ErrServerClosed {
		log.Error("metrics server stopped", zap.Error(err))
	}
}

// runBenchmark restores the traffic-injection loop from the original
// DeepHFT main.cpp: ORDERS_TO_SEND synthetic orders alternating Buy/Sell,
// spread across symbols via i % numSymbols, routed by symbol_id mod N.
func runBenchmark(ctx context.Context, rt *router.Router, total int, numSymbols uint32, log *zap.Logger) {
	node, err := snowflake.NewNode(1)
	if err != nil {
		log.Fatal("failed to create id generator", zap.Error(err))
	}

	log.Info("dispatching synthetic traffic", zap.Int("orders", total), zap.Uint32("symbols", numSymbols))
	start := time.Now()

	for i := 0; i < total; i++ {
		select {
		case <-ctx.Done():
			log.Warn("benchmark interrupted", zap.Int("dispatched", i))
			return
		default:
		}

		side := domain.Buy
		if i%2 != 0 {
			side = domain.Sell
		}

		order := domain.Order{
			ID:        uint64(node.Generate().Int64()),
			Price:     100 + int64(i%20) + 1,
			Quantity:  10,
			SymbolID:  uint32(i) % numSymbols,
			Side:      side,
			Timestamp: time.Now().UnixNano(),
		}
		rt.Dispatch(order)
	}

	elapsed := time.Since(start)
	log.Info("dispatch complete", zap.Int("orders", total), zap.Duration("elapsed", elapsed))
}
