package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	restapi "github.com/hedisam/paritytracer/api/rest"
	"github.com/hedisam/paritytracer/internal/indexer"
	"github.com/hedisam/paritytracer/internal/jsonrpc"
	"github.com/hedisam/paritytracer/internal/metricsreg"
	"github.com/hedisam/paritytracer/internal/parity"
	"github.com/hedisam/paritytracer/internal/pending"
	"github.com/hedisam/paritytracer/internal/store/memdb"
)

type Options struct {
	ServerAddr             string
	NodeAddr               string
	PollInterval           time.Duration
	PendingPollInterval    time.Duration
	ReorgConfirmationDepth uint
	DedupCacheSize         int
	BackfillFrom           int64
	BackfillTo             int64
	Verbose                bool
}

func main() {
	var opts Options
	flag.StringVar(&opts.ServerAddr, "server-addr", "localhost:8080", "Server addr to serve the http server on")
	flag.StringVar(&opts.NodeAddr, "node-addr", "http://localhost:8545", "The Parity/OpenEthereum node to connect to")
	flag.DurationVar(&opts.PollInterval, "poll-interval", time.Second*10, "Node polling interval for new blocks. Recommend no less than 6 seconds")
	flag.DurationVar(&opts.PendingPollInterval, "pending-poll-interval", time.Second*5, "Polling interval for the pending transaction pool")
	flag.UintVar(&opts.ReorgConfirmationDepth, "reorg-confirmation-depth", 3, "Number of blocks to check for reorganisation to mark a block confirmed. Cannot be less than 1")
	flag.IntVar(&opts.DedupCacheSize, "dedup-cache-size", 10000, "Size of the seen pending transaction hashes cache")
	flag.Int64Var(&opts.BackfillFrom, "backfill-from", -1, "First block of the range to backfill before following the chain head; -1 disables backfilling")
	flag.Int64Var(&opts.BackfillTo, "backfill-to", -1, "Last block of the backfill range, inclusive")
	flag.BoolVar(&opts.Verbose, "v", false, "Verbose output")
	flag.Parse()

	logger := logrus.New()
	ensureValidOpts(logger, opts)

	if opts.Verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	traceStore := memdb.NewTraceStore()
	beneficiaryStore := memdb.NewBeneficiaryStore()
	pendingStore := memdb.NewPendingTxStore()

	httpClient := &http.Client{Timeout: time.Second * 30}
	transport := jsonrpc.NewHTTPTransport(logger, httpClient, opts.NodeAddr)
	client := parity.NewClient(logger, transport)

	blocksStream := client.Stream(ctx, opts.PollInterval)
	confirmedBlocksStream := parity.ReorgFilter(ctx, logger, blocksStream, opts.ReorgConfirmationDepth)

	ix := indexer.New(logger, client, traceStore, beneficiaryStore, pendingStore)
	go ix.Start(ctx, confirmedBlocksStream)

	poller, err := pending.NewPoller(logger, client, opts.DedupCacheSize)
	if err != nil {
		logger.WithError(err).Fatal("Failed to create pending transaction poller")
	}
	go ix.StartPending(ctx, poller.Stream(ctx, opts.PendingPollInterval))

	if opts.BackfillFrom >= 0 {
		go func() {
			err := ix.Backfill(ctx, uint64(opts.BackfillFrom), uint64(opts.BackfillTo))
			if err != nil {
				logger.WithError(err).Error("Backfill failed")
			}
		}()
	}

	restServer := restapi.NewServer(logger, traceStore, beneficiaryStore, pendingStore)
	mux := http.NewServeMux()
	restapi.RegisterFunc(logger, mux, http.MethodGet, "/api/v1/blocks/current", restServer.GetCurrentBlock)
	restapi.RegisterFunc(logger, mux, http.MethodGet, "/api/v1/traces/{hash}", restServer.GetTransactionTraces)
	restapi.RegisterFunc(logger, mux, http.MethodGet, "/api/v1/beneficiaries/{number}", restServer.GetBlockBeneficiaries)
	restapi.RegisterFunc(logger, mux, http.MethodGet, "/api/v1/transactions/pending", restServer.ListPendingTransactions)

	// use a custom prom registry to avoid recording the default http handler metrics
	mux.Handle("/metrics", promhttp.HandlerFor(metricsreg.Registry(), promhttp.HandlerOpts{}))

	mustListenAndServe(ctx, logger, opts.ServerAddr, mux)
}

func mustListenAndServe(ctx context.Context, logger *logrus.Logger, addr string, handler http.Handler) {
	srv := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	go func() {
		logger.WithField("addr", addr).Info("Serving server...")
		err := srv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("Server failed with error")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	logger.Info("Shutting down server...")
	err := srv.Shutdown(shutdownCtx)
	if err != nil && !errors.Is(err, context.DeadlineExceeded) {
		logger.WithError(err).Error("Failed to shutdown server gracefully")
	}
}

func ensureValidOpts(logger *logrus.Logger, opts Options) {
	if opts.ServerAddr == "" {
		logger.Error("--server-addr is required")
		flag.Usage()
		os.Exit(1)
	}
	if opts.NodeAddr == "" {
		logger.Error("--node-addr is required")
		flag.Usage()
		os.Exit(1)
	}
	if opts.PollInterval < time.Second*3 {
		logger.Error("--poll-interval is too small, it cannot be less than 3 seconds")
		flag.Usage()
		os.Exit(1)
	}
	if opts.PendingPollInterval < time.Second {
		logger.Error("--pending-poll-interval is too small, it cannot be less than 1 second")
		flag.Usage()
		os.Exit(1)
	}
	if opts.ReorgConfirmationDepth < 1 {
		logger.Error("--reorg-confirmation-depth is too small, it cannot be less than 1")
		flag.Usage()
		os.Exit(1)
	}
	if opts.DedupCacheSize < 1 {
		logger.Error("--dedup-cache-size is too small, it cannot be less than 1")
		flag.Usage()
		os.Exit(1)
	}
	if opts.BackfillFrom >= 0 && opts.BackfillTo < opts.BackfillFrom {
		logger.Error("--backfill-to must be set and cannot be less than --backfill-from")
		flag.Usage()
		os.Exit(1)
	}
}
