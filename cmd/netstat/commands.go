package main

import (
	"github.com/spf13/cobra"

	"github.com/dd0wney/cluso-netstat/pkg/community"
)

func newAnalyzeCommand(opts *globalOptions) *cobra.Command {
	out := &outputOptions{}
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Compute every statistic and community partition and export the results",
		Example: `  netstat analyze --input com-amazon.ungraph.txt --out results/
  netstat analyze -i edges.txt -c analysis.yaml --format snappy --s3-bucket my-results`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, opts, out)
			if err != nil {
				return err
			}
			s, err := newSession(cmd, opts, cfg)
			if err != nil {
				return err
			}
			defer s.stop()

			g, input, err := s.load()
			if err != nil {
				return err
			}
			report, notes, err := s.runner().Run(cmd.Context(), g)
			if err != nil {
				return err
			}
			report.Input = input

			if err := renderReport(s.stdout, report); err != nil {
				return err
			}
			return s.publish(cmd.Context(), report, notes)
		},
	}
	bindOutputFlags(cmd, out)
	return cmd
}

func newCommunitiesCommand(opts *globalOptions) *cobra.Command {
	out := &outputOptions{}
	var algorithms []string
	cmd := &cobra.Command{
		Use:   "communities",
		Short: "Run community detection only",
		Example: `  netstat communities --input edges.txt --algorithm louvain
  netstat communities -i edges.txt --algorithm louvain,infomap --format csv --out results/`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, opts, out)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("algorithm") {
				cfg.Community.Algorithms = algorithms
				if err := cfg.Validate(); err != nil {
					return err
				}
			}
			s, err := newSession(cmd, opts, cfg)
			if err != nil {
				return err
			}
			defer s.stop()

			g, input, err := s.load()
			if err != nil {
				return err
			}
			report, notes, err := s.runner().Communities(cmd.Context(), g)
			if err != nil {
				return err
			}
			report.Input = input

			if err := renderCommunities(s.stdout, report); err != nil {
				return err
			}
			return s.publish(cmd.Context(), report, notes)
		},
	}
	names := make([]string, 0, 3)
	for _, alg := range community.Algorithms() {
		names = append(names, string(alg))
	}
	cmd.Flags().StringSliceVarP(&algorithms, "algorithm", "a", names, "Algorithms to run: louvain, label_propagation, infomap")
	bindOutputFlags(cmd, out)
	return cmd
}

func newStatsCommand(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "stats",
		Short:   "Print structural statistics: density, clustering, path length and diameter",
		Example: `  netstat stats --input edges.txt --top-nodes 3000`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, opts, nil)
			if err != nil {
				return err
			}
			s, err := newSession(cmd, opts, cfg)
			if err != nil {
				return err
			}
			defer s.stop()

			g, input, err := s.load()
			if err != nil {
				return err
			}
			report, err := s.runner().Stats(cmd.Context(), g)
			if err != nil {
				return err
			}
			report.Input = input
			return renderStats(s.stdout, report)
		},
	}
	return cmd
}
