// Package analysis runs the full measurement pipeline over one graph and
// collects the results into an export report.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dd0wney/cluso-netstat/pkg/algorithms"
	"github.com/dd0wney/cluso-netstat/pkg/community"
	"github.com/dd0wney/cluso-netstat/pkg/config"
	"github.com/dd0wney/cluso-netstat/pkg/export"
	"github.com/dd0wney/cluso-netstat/pkg/graph"
	"github.com/dd0wney/cluso-netstat/pkg/logging"
	"github.com/dd0wney/cluso-netstat/pkg/metrics"
	"github.com/dd0wney/cluso-netstat/pkg/parallel"
	"github.com/dd0wney/cluso-netstat/pkg/sampling"
)

// Stage names used in logs and the stage duration histogram.
const (
	StageGraph       = "graph"
	StageDegrees     = "degrees"
	StageClustering  = "clustering"
	StagePaths       = "paths"
	StageEigenvector = "eigenvector"
	StageRankings    = "rankings"
	StageCommunities = "communities"
)

// Runner executes analysis runs. Logger and Metrics are optional.
type Runner struct {
	Config  *config.AnalysisConfig
	Logger  logging.Logger
	Metrics *metrics.Registry

	// Now and NewRunID are replaced in tests.
	Now      func() time.Time
	NewRunID func() string
}

// NewRunner returns a runner with the given configuration, or Default when nil.
func NewRunner(cfg *config.AnalysisConfig, logger logging.Logger, reg *metrics.Registry) *Runner {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Runner{Config: cfg, Logger: logger, Metrics: reg}
}

// run is the state of one invocation.
type run struct {
	*Runner
	ctx    context.Context
	g      *graph.Graph
	log    logging.Logger
	rng    *sampling.Controller
	report *export.Report
	notes  *export.Annotations

	degree algorithms.CentralityTable
	clust  algorithms.CentralityTable
	eigen  algorithms.CentralityTable
}

// Run computes every statistic and every configured community partition.
func (r *Runner) Run(ctx context.Context, g *graph.Graph) (*export.Report, *export.Annotations, error) {
	return r.execute(ctx, g, func(rn *run) error {
		for _, step := range []func() error{
			rn.graphStage, rn.degreeStage, rn.clusteringStage, rn.pathStage,
			rn.eigenvectorStage, rn.rankingStage, rn.communityStage,
		} {
			if err := step(); err != nil {
				return err
			}
		}
		return nil
	})
}

// Stats computes the structural statistics only: graph summary, degrees,
// clustering and path estimates.
func (r *Runner) Stats(ctx context.Context, g *graph.Graph) (*export.Report, error) {
	report, _, err := r.execute(ctx, g, func(rn *run) error {
		for _, step := range []func() error{
			rn.graphStage, rn.degreeStage, rn.clusteringStage, rn.pathStage,
		} {
			if err := step(); err != nil {
				return err
			}
		}
		return nil
	})
	return report, err
}

// Communities runs only the configured community detection algorithms.
func (r *Runner) Communities(ctx context.Context, g *graph.Graph) (*export.Report, *export.Annotations, error) {
	return r.execute(ctx, g, func(rn *run) error {
		if err := rn.graphStage(); err != nil {
			return err
		}
		return rn.communityStage()
	})
}

func (r *Runner) execute(ctx context.Context, g *graph.Graph, body func(*run) error) (*export.Report, *export.Annotations, error) {
	if g == nil || g.NodeCount() == 0 {
		r.recordRun(metrics.StatusError)
		return nil, nil, graph.ErrEmptyGraph
	}

	cfg := r.config()
	runID := r.runID()
	logger := r.logger().With(logging.RunID(runID))

	rn := &run{
		Runner: r,
		ctx:    ctx,
		g:      g,
		log:    logger,
		rng:    sampling.New(cfg.Seed),
		report: &export.Report{
			RunID:       runID,
			GeneratedAt: r.now().UTC(),
			Seed:        cfg.Seed,
			Communities: []export.CommunitySummary{},
		},
		notes: export.NewAnnotations(runID, g),
	}

	timer := logging.StartTimer(logger, "analysis finished", logging.Nodes(g.NodeCount()), logging.Edges(g.EdgeCount()))
	logger.Info("analysis started", logging.Nodes(g.NodeCount()), logging.Edges(g.EdgeCount()))

	if err := body(rn); err != nil {
		timer.EndError(err)
		r.recordRun(metrics.StatusError)
		return nil, nil, err
	}

	timer.End(logging.Int("warnings", len(rn.report.Warnings)))
	r.recordRun(metrics.StatusSuccess)
	if r.Metrics != nil {
		r.Metrics.UpdateSystemMetrics()
	}
	return rn.report, rn.notes, nil
}

// stage checks for cancellation, times fn and records the duration.
func (rn *run) stage(name string, fn func() ([]logging.Field, error)) error {
	if err := rn.ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}

	timer := logging.StartTimer(rn.log, "stage complete", logging.Stage(name))
	fields, err := fn()
	if err != nil {
		timer.EndError(err)
		return fmt.Errorf("%s: %w", name, err)
	}
	elapsed := timer.End(fields...)
	if rn.Metrics != nil {
		rn.Metrics.RecordStage(name, elapsed)
	}
	return nil
}

func (rn *run) warn(msg string, err error, fields ...logging.Field) {
	rn.log.Warn(msg, append(fields, logging.Error(err))...)
	rn.report.Warnings = append(rn.report.Warnings, err.Error())
}

func (rn *run) graphStage() error {
	return rn.stage(StageGraph, func() ([]logging.Field, error) {
		components := algorithms.ConnectedComponents(rn.g)
		largest := 0
		for _, c := range components {
			largest = max(largest, len(c))
		}

		rn.report.Graph = export.GraphSummary{
			Nodes:                 rn.g.NodeCount(),
			Edges:                 rn.g.EdgeCount(),
			Density:               algorithms.Density(rn.g),
			Components:            len(components),
			LargestComponentNodes: largest,
		}
		if rn.Metrics != nil {
			rn.Metrics.UpdateGraphMetrics(rn.g.NodeCount(), rn.g.EdgeCount(), len(components))
		}
		return []logging.Field{
			logging.Float64("density", rn.report.Graph.Density),
			logging.Int("components", len(components)),
		}, nil
	})
}

func (rn *run) degreeStage() error {
	return rn.stage(StageDegrees, func() ([]logging.Field, error) {
		rn.report.Degrees = *algorithms.ComputeDegreeDistribution(rn.g)
		rn.degree = algorithms.DegreeCentrality(rn.g)
		rn.notes.SetCentrality(export.CentralityDegree, rn.degree)
		return []logging.Field{
			logging.Float64("mean_degree", rn.report.Degrees.Mean),
			logging.Int("max_degree", rn.report.Degrees.Max),
		}, nil
	})
}

func (rn *run) clusteringStage() error {
	return rn.stage(StageClustering, func() ([]logging.Field, error) {
		rn.clust = algorithms.ClusteringCoefficients(rn.g)
		rn.notes.SetCentrality(export.CentralityClustering, rn.clust)
		rn.report.Graph.AverageClustering = algorithms.AverageClusteringCoefficient(rn.g)
		return []logging.Field{logging.Float64("average_clustering", rn.report.Graph.AverageClustering)}, nil
	})
}

func (rn *run) pathStage() error {
	cfg := rn.config()
	return rn.stage(StagePaths, func() ([]logging.Field, error) {
		target := rn.g
		if cfg.Paths.LargestComponent {
			lcc, err := algorithms.LargestComponent(rn.g)
			if err != nil {
				return nil, err
			}
			target = lcc
		}

		workers := rn.workers()
		avg, err := algorithms.PathEstimator{
			SampleSize:     cfg.Paths.Samples,
			ExactThreshold: cfg.Paths.ExactThreshold,
			Workers:        workers,
		}.Estimate(target, rn.rng)
		if err != nil {
			return nil, err
		}

		diam, err := algorithms.PathEstimator{
			SampleSize:     cfg.Paths.DiameterSamples,
			ExactThreshold: cfg.Paths.ExactThreshold,
			Workers:        workers,
		}.Estimate(target, rn.rng)
		if err != nil {
			return nil, err
		}

		rn.report.Paths = export.PathSummary{
			Sources:            avg.Sources,
			Exact:              avg.Exact,
			AveragePathLength:  avg.AveragePathLength,
			DiameterSources:    diam.Sources,
			OnLargestComponent: cfg.Paths.LargestComponent,
		}
		if diam.Connected {
			rn.report.Paths.Diameter = diam.MaxEccentricity
		} else {
			rn.warn("diameter undefined", fmt.Errorf("diameter: %w", graph.ErrDisconnectedGraph),
				logging.Stage(StagePaths))
		}

		return []logging.Field{
			logging.Float64("average_path_length", avg.AveragePathLength),
			logging.Int("diameter", rn.report.Paths.Diameter),
			logging.Bool("exact", avg.Exact),
		}, nil
	})
}

func (rn *run) eigenvectorStage() error {
	cfg := rn.config()
	return rn.stage(StageEigenvector, func() ([]logging.Field, error) {
		res, err := algorithms.EigenvectorCentrality(rn.g, algorithms.EigenvectorOptions{
			MaxIterations: cfg.Eigenvector.MaxIterations,
			Tolerance:     cfg.Eigenvector.Tolerance,
			Shifted:       cfg.Eigenvector.Shifted,
			Workers:       rn.workers(),
		})
		switch {
		case err == nil:
		case errors.Is(err, algorithms.ErrConvergence) && res != nil:
			rn.warn("eigenvector centrality did not converge", err,
				logging.Algorithm("eigenvector"), logging.Iterations(res.Iterations))
		default:
			return nil, err
		}

		if rn.Metrics != nil {
			rn.Metrics.RecordIterations("eigenvector", res.Iterations, res.Converged)
		}
		rn.eigen = res.Scores
		rn.notes.SetCentrality(export.CentralityEigenvector, res.Scores)
		rn.report.Eigenvector = export.EigenvectorSummary{
			Iterations: res.Iterations,
			Converged:  res.Converged,
			Delta:      res.Delta,
		}
		return []logging.Field{logging.Iterations(res.Iterations), logging.Bool("converged", res.Converged)}, nil
	})
}

func (rn *run) rankingStage() error {
	n := rn.config().Rankings.TopN
	return rn.stage(StageRankings, func() ([]logging.Field, error) {
		rn.report.Rankings = export.Rankings{
			Degree:      algorithms.TopN(rn.degree, n),
			Eigenvector: algorithms.TopN(rn.eigen, n),
			Clustering:  algorithms.TopN(rn.clust, n),
		}
		return []logging.Field{logging.Int("top_n", n)}, nil
	})
}

func (rn *run) communityStage() error {
	cfg := rn.config()
	for _, name := range cfg.Community.Algorithms {
		alg := community.Algorithm(name)
		err := rn.stage(StageCommunities, func() ([]logging.Field, error) {
			// Each algorithm gets its own stream so results do not depend
			// on which algorithms ran before it.
			res, err := community.Detect(rn.g, alg, community.Options{
				MaxPasses:     cfg.Community.MaxPasses,
				MaxLevels:     cfg.Community.MaxLevels,
				MaxIterations: cfg.Community.MaxIterations,
				Tolerance:     cfg.Community.Tolerance,
				Rand:          sampling.New(cfg.Seed),
			})
			if err != nil {
				return nil, err
			}

			for _, w := range res.Warnings {
				rn.warn("community detection hit its iteration cap", w,
					logging.Algorithm(name), logging.Iterations(res.Passes))
			}
			if rn.Metrics != nil {
				rn.Metrics.RecordIterations(name, res.Passes, res.Converged)
				rn.Metrics.RecordCommunities(name, res.Partition.Len(), res.Modularity)
			}

			rn.report.Communities = append(rn.report.Communities, export.SummarizeCommunities(res))
			rn.notes.SetPartition(name, res.Partition)
			return []logging.Field{
				logging.Algorithm(name),
				logging.Communities(res.Partition.Len()),
				logging.Modularity(res.Modularity),
			}, nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) config() *config.AnalysisConfig {
	if r.Config == nil {
		return config.Default()
	}
	return r.Config
}

func (r *Runner) logger() logging.Logger {
	if r.Logger == nil {
		return logging.NewNopLogger()
	}
	return r.Logger
}

func (r *Runner) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

func (r *Runner) runID() string {
	if r.NewRunID != nil {
		return r.NewRunID()
	}
	return uuid.NewString()
}

func (r *Runner) workers() int {
	if w := r.config().Workers; w > 0 {
		return w
	}
	return parallel.DefaultWorkers()
}

func (r *Runner) recordRun(status string) {
	if r.Metrics != nil {
		r.Metrics.RecordRun(status)
	}
}
