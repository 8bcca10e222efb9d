package export

import (
	"context"
	"errors"
	"fmt"

	"github.com/dd0wney/cluso-netstat/pkg/logging"
	"github.com/dd0wney/cluso-netstat/pkg/metrics"
)

// TableWriter stores structured results in a database.
type TableWriter interface {
	Name() string
	WriteReport(ctx context.Context, r *Report) error
	WriteAnnotations(ctx context.Context, a *Annotations) (int64, error)
}

// Exporter encodes a run once and hands it to every configured destination.
type Exporter struct {
	Format  Format
	Sinks   []Sink
	Tables  []TableWriter
	Logger  logging.Logger
	Metrics *metrics.Registry
}

// ReportName is the object name of the run summary.
func ReportName(runID string, f Format) string {
	return fmt.Sprintf("report-%s.%s", runID, f.Extension())
}

// AnnotationsName is the object name of the per-node rows.
func AnnotationsName(runID string, f Format) string {
	return fmt.Sprintf("annotations-%s.%s", runID, f.Extension())
}

// Export writes to all destinations and joins their errors. A failing
// destination does not stop the others.
func (e *Exporter) Export(ctx context.Context, r *Report, a *Annotations) error {
	logger := e.Logger
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	logger = logger.With(logging.RunID(r.RunID))

	reportFormat := e.Format
	if reportFormat == FormatJSONL || reportFormat == FormatCSV {
		reportFormat = FormatJSON
	}
	report, err := Marshal(r, reportFormat, EncodeReport)
	if err != nil {
		return err
	}
	var rows []byte
	if a != nil {
		rows, err = Marshal(a, e.Format, EncodeAnnotations)
		if err != nil {
			return err
		}
	}

	var errs []error
	for _, sink := range e.Sinks {
		if err := ctx.Err(); err != nil {
			return errors.Join(append(errs, err)...)
		}
		err := sink.Write(ctx, ReportName(r.RunID, reportFormat), reportFormat.ContentType(), report)
		e.record(logger, sink.Name(), len(report), err)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if rows == nil {
			continue
		}
		err = sink.Write(ctx, AnnotationsName(r.RunID, e.Format), e.Format.ContentType(), rows)
		e.record(logger, sink.Name(), len(rows), err)
		if err != nil {
			errs = append(errs, err)
		}
	}

	for _, table := range e.Tables {
		if err := table.WriteReport(ctx, r); err != nil {
			e.record(logger, table.Name(), 0, err)
			errs = append(errs, err)
			continue
		}
		var copied int64
		if a != nil {
			copied, err = table.WriteAnnotations(ctx, a)
		}
		e.record(logger, table.Name(), len(report), err)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		logger.Debug("annotations stored", logging.String("sink", table.Name()), logging.Int64("rows", copied))
	}

	return errors.Join(errs...)
}

func (e *Exporter) record(logger logging.Logger, sink string, n int, err error) {
	if e.Metrics != nil {
		e.Metrics.RecordExport(sink, n, err)
	}
	if err != nil {
		logger.Error("export failed", logging.String("sink", sink), logging.Error(err))
		return
	}
	logger.Info("export written", logging.String("sink", sink), logging.Int("bytes", n))
}
