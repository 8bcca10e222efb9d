package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/dd0wney/cluso-netstat/pkg/analysis"
	"github.com/dd0wney/cluso-netstat/pkg/config"
	"github.com/dd0wney/cluso-netstat/pkg/export"
	"github.com/dd0wney/cluso-netstat/pkg/graph"
	"github.com/dd0wney/cluso-netstat/pkg/loader"
	"github.com/dd0wney/cluso-netstat/pkg/logging"
	"github.com/dd0wney/cluso-netstat/pkg/metrics"
)

// globalOptions are shared by every subcommand.
type globalOptions struct {
	input       string
	configPath  string
	topNodes    int
	seed        uint64
	workers     int
	logLevel    string
	metricsAddr string
}

// outputOptions select export destinations.
type outputOptions struct {
	out      string
	format   string
	s3Bucket string
	s3Prefix string
	pgDSN    string
	pgTable  string
}

func newRootCommand() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:   "netstat",
		Short: "Structural statistics and community detection for large undirected networks",
		Long: `netstat loads a SNAP-style edge list, optionally keeps only the highest-degree
nodes, and reports density, clustering, path length, diameter, centralities
and the communities found by Louvain, label propagation and Infomap.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&opts.input, "input", "i", "", "Edge list to analyze (whitespace-separated node pairs)")
	flags.StringVarP(&opts.configPath, "config", "c", "", "YAML configuration file")
	flags.IntVar(&opts.topNodes, "top-nodes", 0, "Keep only the N highest-degree nodes (0 keeps all)")
	flags.Uint64Var(&opts.seed, "seed", 0, "Seed for sampling and randomized tie-breaking")
	flags.IntVar(&opts.workers, "workers", 0, "Parallel workers for BFS sampling and eigenvector updates")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	flags.StringVar(&opts.metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address while running")

	root.AddCommand(newAnalyzeCommand(opts))
	root.AddCommand(newCommunitiesCommand(opts))
	root.AddCommand(newStatsCommand(opts))
	return root
}

func bindOutputFlags(cmd *cobra.Command, out *outputOptions) {
	flags := cmd.Flags()
	flags.StringVarP(&out.out, "out", "o", "", "Directory to write the report and annotations to")
	flags.StringVarP(&out.format, "format", "f", "", "Output format: json, yaml, snappy, jsonl, csv")
	flags.StringVar(&out.s3Bucket, "s3-bucket", "", "Upload results to this S3 bucket")
	flags.StringVar(&out.s3Prefix, "s3-prefix", "", "Key prefix inside the S3 bucket")
	flags.StringVar(&out.pgDSN, "pg-dsn", "", "Store annotations in PostgreSQL at this DSN")
	flags.StringVar(&out.pgTable, "pg-table", "", "PostgreSQL annotations table")
}

// session is the wiring shared by one command invocation.
type session struct {
	cfg     *config.AnalysisConfig
	logger  logging.Logger
	metrics *metrics.Registry
	stdout  io.Writer
	input   string
	stop    func()
}

// loadConfig applies flags that were set on top of the file or defaults.
func loadConfig(cmd *cobra.Command, opts *globalOptions, out *outputOptions) (*config.AnalysisConfig, error) {
	cfg := config.Default()
	if opts.configPath != "" {
		loaded, err := config.Load(opts.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	changed := cmd.Flags().Changed
	if changed("top-nodes") {
		cfg.Filter.TopNodes = opts.topNodes
	}
	if changed("seed") {
		cfg.Seed = opts.seed
	}
	if changed("workers") {
		cfg.Workers = opts.workers
	}
	if changed("log-level") {
		cfg.LogLevel = opts.logLevel
	}
	if out != nil {
		if changed("out") {
			cfg.Export.Path = out.out
		}
		if changed("format") {
			cfg.Export.Format = out.format
		}
		if changed("s3-bucket") {
			cfg.Export.S3Bucket = out.s3Bucket
		}
		if changed("s3-prefix") {
			cfg.Export.S3Prefix = out.s3Prefix
		}
		if changed("pg-dsn") {
			cfg.Export.PostgresDSN = out.pgDSN
		}
		if changed("pg-table") {
			cfg.Export.PostgresTable = out.pgTable
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func newSession(cmd *cobra.Command, opts *globalOptions, cfg *config.AnalysisConfig) (*session, error) {
	if opts.input == "" {
		return nil, errors.New("--input is required")
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	s := &session{
		cfg:     cfg,
		logger:  logging.NewJSONLogger(cmd.ErrOrStderr(), level),
		metrics: metrics.NewRegistry(),
		stdout:  cmd.OutOrStdout(),
		input:   opts.input,
		stop:    func() {},
	}

	if opts.metricsAddr != "" {
		stop, err := serveMetrics(opts.metricsAddr, s.metrics, s.logger)
		if err != nil {
			return nil, err
		}
		s.stop = stop
	}
	return s, nil
}

// serveMetrics exposes /metrics until the returned stop function is called.
func serveMetrics(addr string, reg *metrics.Registry, logger logging.Logger) (func(), error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", reg.Handler())
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server stopped", logging.Error(err))
		}
	}()
	logger.Info("serving metrics", logging.String("addr", ln.Addr().String()))

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(ctx)
	}, nil
}

// load reads and filters the input graph.
func (s *session) load() (*graph.Graph, export.InputSummary, error) {
	timer := logging.StartTimer(s.logger, "graph loaded", logging.Path(s.input))
	g, el, err := loader.Load(s.input, s.cfg.Filter.TopNodes)
	if err != nil {
		timer.EndError(err)
		return nil, export.InputSummary{}, err
	}
	timer.End(logging.Nodes(g.NodeCount()), logging.Edges(g.EdgeCount()),
		logging.Int("self_loops", el.SelfLoops), logging.Int("duplicates", el.Duplicates))

	return g, export.InputSummary{
		Path:       s.input,
		Lines:      el.Lines,
		SelfLoops:  el.SelfLoops,
		Duplicates: el.Duplicates,
		TopNodes:   s.cfg.Filter.TopNodes,
	}, nil
}

func (s *session) runner() *analysis.Runner {
	return analysis.NewRunner(s.cfg, s.logger, s.metrics)
}

// exporter builds the destinations named in the configuration. The
// returned close function releases database pools.
func (s *session) exporter(ctx context.Context) (*export.Exporter, func(), error) {
	e := &export.Exporter{
		Format:  export.Format(s.cfg.Export.Format),
		Logger:  s.logger,
		Metrics: s.metrics,
	}
	closers := []func(){}
	closeAll := func() {
		for _, c := range closers {
			c()
		}
	}

	if s.cfg.Export.Path != "" {
		sink, err := export.NewFileSink(s.cfg.Export.Path)
		if err != nil {
			return nil, closeAll, err
		}
		e.Sinks = append(e.Sinks, sink)
	}
	if s.cfg.Export.S3Bucket != "" {
		sink, err := export.NewS3SinkFromEnv(ctx, s.cfg.Export.S3Bucket, s.cfg.Export.S3Prefix)
		if err != nil {
			return nil, closeAll, err
		}
		e.Sinks = append(e.Sinks, sink)
	}
	if s.cfg.Export.PostgresDSN != "" {
		w, err := export.OpenPGWriter(ctx, s.cfg.Export.PostgresDSN, s.cfg.Export.PostgresTable)
		if err != nil {
			return nil, closeAll, err
		}
		closers = append(closers, func() { w.Close() })
		e.Tables = append(e.Tables, w)
	}
	return e, closeAll, nil
}

// publish writes results to every configured destination.
func (s *session) publish(ctx context.Context, r *export.Report, a *export.Annotations) error {
	e, closeAll, err := s.exporter(ctx)
	defer closeAll()
	if err != nil {
		return err
	}
	if len(e.Sinks) == 0 && len(e.Tables) == 0 {
		return nil
	}
	return e.Export(ctx, r, a)
}
