package importer

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"motoshop-directory/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// DefaultBatchSize is the number of records sent per insert request.
const DefaultBatchSize = 100

// ShopInserter persists one batch of records and returns the number of rows stored.
type ShopInserter interface {
	InsertShops(ctx context.Context, records []models.ShopRecord) (int, error)
}

// Options tunes batch submission.
type Options struct {
	BatchSize      int
	Concurrency    int
	RequestTimeout time.Duration
}

// LineError describes a data line that was skipped.
type LineError struct {
	Line int
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *LineError) Unwrap() error { return e.Err }

// ParseResult holds the records built from a file and the lines that were rejected.
type ParseResult struct {
	Header         []string
	Records        []models.ShopRecord
	LinesProcessed int
	Errors         []*LineError
}

// BatchResult is the outcome of one insert request.
type BatchResult struct {
	Index    int
	Size     int
	Inserted int
	Err      error
}

// Summary is the final report of an import run.
type Summary struct {
	RunID          string
	LinesProcessed int
	ParseErrors    int
	Records        int
	Batches        int
	Inserted       int
	Failed         int
}

// Importer reads a shop CSV file and inserts it in batches.
type Importer struct {
	store ShopInserter
	opts  Options
	log   zerolog.Logger
}

// New creates an importer. Non-positive options fall back to sequential
// submission of DefaultBatchSize records with no request timeout.
func New(store ShopInserter, opts Options, log zerolog.Logger) *Importer {
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultBatchSize
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}
	return &Importer{store: store, opts: opts, log: log}
}

// Run imports the file at path and reports what happened.
// Only an unreadable file is returned as an error; bad lines and failed
// batches are counted in the summary.
func (im *Importer) Run(ctx context.Context, path string) (Summary, error) {
	runID := uuid.NewString()
	log := im.log.With().Str("run_id", runID).Logger()

	log.Info().Str("file", path).Msg("reading import file")
	data, err := os.ReadFile(path)
	if err != nil {
		return Summary{RunID: runID}, fmt.Errorf("importer: failed to read file: %w", err)
	}

	parsed := im.parse(string(data), log)
	log.Info().
		Int("records", len(parsed.Records)).
		Int("parse_errors", len(parsed.Errors)).
		Msg("parsed import file")

	results := im.submit(ctx, parsed.Records, log)

	summary := Summarize(parsed, results)
	summary.RunID = runID

	log.Info().
		Int("lines_processed", summary.LinesProcessed).
		Int("parse_errors", summary.ParseErrors).
		Int("records", summary.Records).
		Int("batches", summary.Batches).
		Int("inserted", summary.Inserted).
		Int("failed", summary.Failed).
		Msg("import complete")

	return summary, nil
}

// Parse builds records from file contents. The first line is the header.
func (im *Importer) Parse(content string) ParseResult {
	return im.parse(content, im.log)
}

func (im *Importer) parse(content string, log zerolog.Logger) ParseResult {
	var res ParseResult

	lines := strings.Split(content, "\n")

	headerLine := strings.TrimPrefix(strings.TrimSpace(lines[0]), "\ufeff")
	res.Header = SplitLine(headerLine, delimiter)
	log.Debug().Strs("header", res.Header).Msg("import header")

	for i := 1; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}
		res.LinesProcessed++
		lineNo := i + 1

		rec, err := BuildRecord(res.Header, SplitLine(line, delimiter))
		if err != nil {
			lerr := &LineError{Line: lineNo, Err: err}
			log.Warn().Err(lerr).Msg("skipping line")
			res.Errors = append(res.Errors, lerr)
			continue
		}
		res.Records = append(res.Records, rec)
	}

	return res
}

// Batches splits records into contiguous groups of at most size records.
func Batches(records []models.ShopRecord, size int) [][]models.ShopRecord {
	if size <= 0 {
		size = DefaultBatchSize
	}
	batches := make([][]models.ShopRecord, 0, (len(records)+size-1)/size)
	for start := 0; start < len(records); start += size {
		end := min(start+size, len(records))
		batches = append(batches, records[start:end])
	}
	return batches
}

// Submit inserts records batch by batch. A failing batch never stops the others.
// Results are returned in batch order.
func (im *Importer) Submit(ctx context.Context, records []models.ShopRecord) []BatchResult {
	return im.submit(ctx, records, im.log)
}

func (im *Importer) submit(ctx context.Context, records []models.ShopRecord, log zerolog.Logger) []BatchResult {
	batches := Batches(records, im.opts.BatchSize)
	results := make([]BatchResult, len(batches))

	g := new(errgroup.Group)
	g.SetLimit(im.opts.Concurrency)

	offset := 0
	for i, batch := range batches {
		first := offset + 1
		offset += len(batch)

		g.Go(func() error {
			log.Info().
				Int("batch", i+1).
				Int("from", first).
				Int("to", first+len(batch)-1).
				Int("of", len(records)).
				Msg("inserting batch")

			results[i] = im.insertBatch(ctx, i, batch)
			if err := results[i].Err; err != nil {
				log.Error().Err(err).Int("batch", i+1).Int("size", len(batch)).Msg("batch failed")
			} else {
				log.Info().Int("batch", i+1).Int("inserted", results[i].Inserted).Msg("batch inserted")
			}
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func (im *Importer) insertBatch(ctx context.Context, index int, batch []models.ShopRecord) BatchResult {
	res := BatchResult{Index: index, Size: len(batch)}

	if im.opts.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, im.opts.RequestTimeout)
		defer cancel()
	}

	n, err := im.store.InsertShops(ctx, batch)
	if err != nil {
		res.Err = fmt.Errorf("importer: batch %d: %w", index+1, err)
		return res
	}
	res.Inserted = n
	return res
}

// Summarize folds parse and batch outcomes into run totals.
func Summarize(parsed ParseResult, results []BatchResult) Summary {
	s := Summary{
		LinesProcessed: parsed.LinesProcessed,
		ParseErrors:    len(parsed.Errors),
		Records:        len(parsed.Records),
		Batches:        len(results),
	}
	for _, r := range results {
		if r.Err != nil {
			s.Failed += r.Size
			continue
		}
		s.Inserted += r.Inserted
	}
	return s
}

// Print writes the run totals as a short human readable block.
func (s Summary) Print(w io.Writer) {
	fmt.Fprintln(w, "Import complete")
	fmt.Fprintf(w, "  Run ID:           %s\n", s.RunID)
	fmt.Fprintf(w, "  Lines processed:  %d\n", s.LinesProcessed)
	fmt.Fprintf(w, "  Parse errors:     %d\n", s.ParseErrors)
	fmt.Fprintf(w, "  Valid records:    %d\n", s.Records)
	fmt.Fprintf(w, "  Batches:          %d\n", s.Batches)
	fmt.Fprintf(w, "  Inserted:         %d\n", s.Inserted)
	fmt.Fprintf(w, "  Failed:           %d\n", s.Failed)
}
