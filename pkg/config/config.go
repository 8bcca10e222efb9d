// Package config holds the tunables of an analysis run and loads them from YAML.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dd0wney/cluso-netstat/pkg/validation"
)

// Output formats understood by the exporter. jsonl and csv apply to the
// per-node annotations; the report falls back to json for them.
const (
	FormatJSON   = "json"
	FormatYAML   = "yaml"
	FormatSnappy = "snappy"
	FormatJSONL  = "jsonl"
	FormatCSV    = "csv"
)

// AnalysisConfig configures one analysis run.
type AnalysisConfig struct {
	// Seed feeds the sampling controller; equal seeds reproduce a run.
	Seed     uint64 `yaml:"seed"`
	Workers  int    `yaml:"workers" validate:"min=0,max=1024"`
	LogLevel string `yaml:"log_level" validate:"loglevel"`

	Filter      FilterConfig      `yaml:"filter"`
	Paths       PathConfig        `yaml:"paths"`
	Eigenvector EigenvectorConfig `yaml:"eigenvector"`
	Rankings    RankingConfig     `yaml:"rankings"`
	Community   CommunityConfig   `yaml:"community"`
	Export      ExportConfig      `yaml:"export"`
}

// FilterConfig restricts the input graph before analysis.
type FilterConfig struct {
	// TopNodes keeps the highest-degree nodes and their induced subgraph.
	// Zero keeps every node.
	TopNodes int `yaml:"top_nodes" validate:"min=0"`
}

// PathConfig controls the sampled path estimators.
type PathConfig struct {
	Samples         int `yaml:"samples" validate:"min=1"`
	DiameterSamples int `yaml:"diameter_samples" validate:"min=1"`
	// ExactThreshold makes graphs up to this size use every node as a source.
	ExactThreshold int `yaml:"exact_threshold" validate:"min=0"`
	// LargestComponent restricts path estimates to the largest component.
	LargestComponent bool `yaml:"largest_component"`
}

// EigenvectorConfig controls power iteration.
type EigenvectorConfig struct {
	MaxIterations int     `yaml:"max_iterations" validate:"min=1"`
	Tolerance     float64 `yaml:"tolerance" validate:"gt=0"`
	// Shifted iterates A+I, which converges on bipartite graphs.
	Shifted bool `yaml:"shifted"`
}

// RankingConfig controls the top-N tables in the report.
type RankingConfig struct {
	TopN int `yaml:"top_n" validate:"min=1"`
}

// CommunityConfig selects and tunes the detection algorithms.
type CommunityConfig struct {
	Algorithms    []string `yaml:"algorithms" validate:"min=1,dive,oneof=louvain label_propagation infomap"`
	MaxPasses     int      `yaml:"max_passes" validate:"min=1"`
	MaxLevels     int      `yaml:"max_levels" validate:"min=1"`
	MaxIterations int      `yaml:"max_iterations" validate:"min=1"`
	Tolerance     float64  `yaml:"tolerance" validate:"min=0"`
}

// ExportConfig selects where results go. Empty destinations are skipped.
type ExportConfig struct {
	Format        string `yaml:"format" validate:"oneof=json yaml snappy jsonl csv"`
	Path          string `yaml:"path"`
	S3Bucket      string `yaml:"s3_bucket" validate:"omitempty,s3bucket"`
	S3Prefix      string `yaml:"s3_prefix"`
	PostgresDSN   string `yaml:"postgres_dsn"`
	PostgresTable string `yaml:"postgres_table" validate:"sqlident"`
}

// Default returns the configuration of the reference analysis: 3000
// highest-degree nodes, 100 path samples, 10 diameter samples, 500
// eigenvector iterations at 1e-6, top-5 rankings and all three detectors.
func Default() *AnalysisConfig {
	return &AnalysisConfig{
		Seed:     42,
		LogLevel: "info",
		Filter: FilterConfig{
			TopNodes: 3000,
		},
		Paths: PathConfig{
			Samples:          100,
			DiameterSamples:  10,
			LargestComponent: true,
		},
		Eigenvector: EigenvectorConfig{
			MaxIterations: 500,
			Tolerance:     1e-6,
			Shifted:       true,
		},
		Rankings: RankingConfig{
			TopN: 5,
		},
		Community: CommunityConfig{
			Algorithms:    []string{"louvain", "label_propagation", "infomap"},
			MaxPasses:     100,
			MaxLevels:     32,
			MaxIterations: 100,
			Tolerance:     1e-7,
		},
		Export: ExportConfig{
			Format:        FormatJSON,
			PostgresTable: "node_annotations",
		},
	}
}

// Validate checks struct tags and the cross-field rules.
func (c *AnalysisConfig) Validate() error {
	if c == nil {
		return errors.New("config cannot be nil")
	}

	cv := validation.NewConfigValidator("AnalysisConfig")
	cv.Unique("Community.Algorithms", c.Community.Algorithms).
		When(c.Export.S3Prefix != "", func(cv *validation.ConfigValidator) {
			cv.Required("Export.S3Bucket", c.Export.S3Bucket)
		}).
		When(c.Eigenvector.Tolerance > 0, func(cv *validation.ConfigValidator) {
			cv.RangeFloat("Eigenvector.Tolerance", c.Eigenvector.Tolerance, 0, 1)
		})
	return errors.Join(validation.Struct(c), cv.Validate())
}

// Load reads a YAML file over Default and validates the result.
func Load(path string) (*AnalysisConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	cfg, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML over Default. Unknown keys are rejected.
func Parse(r io.Reader) (*AnalysisConfig, error) {
	cfg := Default()

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Marshal renders the configuration as YAML.
func (c *AnalysisConfig) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
