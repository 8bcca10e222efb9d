package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"

	"github.com/golang/snappy"
	"gopkg.in/yaml.v3"
)

// Format names an output encoding.
type Format string

const (
	FormatJSON   Format = "json"
	FormatYAML   Format = "yaml"
	FormatSnappy Format = "snappy" // snappy-framed JSON
	FormatJSONL  Format = "jsonl"  // annotations only
	FormatCSV    Format = "csv"    // annotations only
)

// ErrUnsupportedFormat is returned for unknown or inapplicable formats.
var ErrUnsupportedFormat = errors.New("unsupported export format")

// ContentType returns the MIME type written alongside a payload.
func (f Format) ContentType() string {
	switch f {
	case FormatYAML:
		return "application/yaml"
	case FormatSnappy:
		return "application/x-snappy-framed"
	case FormatJSONL:
		return "application/x-ndjson"
	case FormatCSV:
		return "text/csv"
	default:
		return "application/json"
	}
}

// Extension returns the file suffix for the format, without a dot.
func (f Format) Extension() string {
	switch f {
	case FormatSnappy:
		return "json.sz"
	default:
		return string(f)
	}
}

// EncodeReport renders the run summary in one of json, yaml or snappy.
func EncodeReport(w io.Writer, r *Report, f Format) error {
	switch f {
	case FormatJSON:
		return encodeJSON(w, r, true)
	case FormatYAML:
		return encodeYAML(w, r)
	case FormatSnappy:
		return encodeSnappy(w, r)
	default:
		return fmt.Errorf("%w: %q for report", ErrUnsupportedFormat, f)
	}
}

// EncodeAnnotations renders per-node rows in any supported format.
func EncodeAnnotations(w io.Writer, a *Annotations, f Format) error {
	switch f {
	case FormatJSON:
		return encodeJSON(w, a, false)
	case FormatYAML:
		return encodeYAML(w, a)
	case FormatSnappy:
		return encodeSnappy(w, a)
	case FormatJSONL:
		return encodeJSONL(w, a)
	case FormatCSV:
		return encodeCSV(w, a)
	default:
		return fmt.Errorf("%w: %q for annotations", ErrUnsupportedFormat, f)
	}
}

// Marshal encodes v into a buffer using fn.
func Marshal[T any](v T, f Format, fn func(io.Writer, T, Format) error) ([]byte, error) {
	var buf bytes.Buffer
	if err := fn(&buf, v, f); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeJSON(w io.Writer, v any, pretty bool) error {
	encoder := json.NewEncoder(w)
	if pretty {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(v)
}

func encodeYAML(w io.Writer, v any) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to encode yaml: %w", err)
	}
	return encoder.Close()
}

func encodeSnappy(w io.Writer, v any) error {
	sw := snappy.NewBufferedWriter(w)
	if err := json.NewEncoder(sw).Encode(v); err != nil {
		sw.Close()
		return fmt.Errorf("failed to encode snappy stream: %w", err)
	}
	return sw.Close()
}

// DecodeSnappy reverses the snappy format into v.
func DecodeSnappy(r io.Reader, v any) error {
	return json.NewDecoder(snappy.NewReader(r)).Decode(v)
}

func encodeJSONL(w io.Writer, a *Annotations) error {
	for _, row := range a.Nodes {
		data, err := json.Marshal(row)
		if err != nil {
			return err
		}
		if _, err := w.Write(append(data, '\n')); err != nil {
			return err
		}
	}
	return nil
}

func encodeCSV(w io.Writer, a *Annotations) (retErr error) {
	csvWriter := csv.NewWriter(w)
	defer func() {
		csvWriter.Flush()
		if err := csvWriter.Error(); err != nil && retErr == nil {
			retErr = fmt.Errorf("CSV writer flush error: %w", err)
		}
	}()

	algs := slices.Clone(a.Algorithms)
	header := []string{"node_id", "degree", "degree_centrality", "eigenvector", "clustering"}
	for _, alg := range algs {
		header = append(header, "community_"+alg)
	}
	if err := csvWriter.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, row := range a.Nodes {
		record := []string{
			strconv.FormatInt(row.NodeID, 10),
			strconv.Itoa(row.Degree),
			formatFloat(row.DegreeCentrality),
			formatFloat(row.Eigenvector),
			formatFloat(row.Clustering),
		}
		for _, alg := range algs {
			c, ok := row.Communities[alg]
			if !ok {
				record = append(record, "")
				continue
			}
			record = append(record, strconv.Itoa(c))
		}
		if err := csvWriter.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
