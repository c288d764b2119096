// Package export serializes simulation results for use outside the terminal.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/gocarina/gocsv"
	"gopkg.in/yaml.v3"

	apperrors "github.com/rserranon/options-simulator/internal/errors"
	"github.com/rserranon/options-simulator/internal/payoff"
)

// Format is an export encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Formats lists the supported formats.
var Formats = []Format{FormatCSV, FormatJSON, FormatYAML}

// ParseFormat resolves a format name, accepting "yml" for YAML.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("%w: %q (want csv, json or yaml)", apperrors.ErrUnsupportedFormat, name)
}

// Document is the self-describing form of a result used by JSON and YAML.
type Document struct {
	Params    payoff.Params    `json:"params" yaml:"params"`
	Labels    payoff.Labels    `json:"labels" yaml:"labels"`
	Grid      payoff.Grid      `json:"grid" yaml:"grid,flow"`
	Series    []SeriesDoc      `json:"series" yaml:"series"`
	Summaries []payoff.Summary `json:"summaries" yaml:"summaries"`
}

// SeriesDoc is one strategy's values with its slug spelled out.
type SeriesDoc struct {
	Strategy payoff.Strategy `json:"strategy" yaml:"strategy"`
	Slug     string          `json:"slug" yaml:"slug"`
	Values   []float64       `json:"values" yaml:"values,flow"`
}

// NewDocument builds a Document from a result.
func NewDocument(r *payoff.Result) Document {
	doc := Document{
		Params:    r.Params,
		Labels:    r.Labels(),
		Grid:      r.Grid,
		Series:    make([]SeriesDoc, 0, len(r.Payoffs)),
		Summaries: r.Summaries(),
	}
	for _, s := range r.Payoffs {
		doc.Series = append(doc.Series, SeriesDoc{
			Strategy: s.Strategy,
			Slug:     s.Strategy.Slug(),
			Values:   s.Values,
		})
	}
	return doc
}

// Row is one grid price of one strategy in CSV output.
type Row struct {
	Price    float64 `csv:"price"`
	Strategy string  `csv:"strategy"`
	Slug     string  `csv:"slug"`
	Value    float64 `csv:"value"`
}

// Rows flattens a result into one row per grid price and strategy, grouped
// by price and ordered as the series are.
func Rows(r *payoff.Result) []*Row {
	rows := make([]*Row, 0, len(r.Grid)*len(r.Payoffs))
	for i, price := range r.Grid {
		for _, s := range r.Payoffs {
			rows = append(rows, &Row{
				Price:    price,
				Strategy: s.Strategy.String(),
				Slug:     s.Strategy.Slug(),
				Value:    s.Values[i],
			})
		}
	}
	return rows
}

// Write encodes r to w in the given format.
func Write(w io.Writer, r *payoff.Result, format Format) error {
	switch format {
	case FormatCSV:
		if err := gocsv.Marshal(Rows(r), w); err != nil {
			return apperrors.Wrap(err, "writing csv")
		}
		return nil
	case FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(NewDocument(r)); err != nil {
			return apperrors.Wrap(err, "writing json")
		}
		return nil
	case FormatYAML:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(NewDocument(r)); err != nil {
			return apperrors.Wrap(err, "writing yaml")
		}
		return encoder.Close()
	}
	return fmt.Errorf("%w: %q", apperrors.ErrUnsupportedFormat, format)
}
