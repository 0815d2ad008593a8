package sink

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
)

// Stdout writes rows as CSV and raw records verbatim, one per line.
type Stdout struct {
	out io.Writer
	csv *csv.Writer
}

func NewStdout(out io.Writer) *Stdout {
	return &Stdout{
		out: out,
		csv: csv.NewWriter(out),
	}
}

func (s *Stdout) EmitRow(ctx context.Context, row []string) error {
	if err := s.csv.Write(row); err != nil {
		return fmt.Errorf("write csv row: %w", err)
	}
	// Flush per record: the stream is unbounded and consumers tail the
	// output live.
	s.csv.Flush()
	return s.csv.Error()
}

func (s *Stdout) EmitRaw(ctx context.Context, raw []byte) error {
	if _, err := fmt.Fprintf(s.out, "%s\n", raw); err != nil {
		return fmt.Errorf("write raw record: %w", err)
	}
	return nil
}

func (s *Stdout) Close() error {
	s.csv.Flush()
	return s.csv.Error()
}
