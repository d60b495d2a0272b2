// Package stats computes descriptive statistics over a series of numbers.
package stats

import (
	"math"
	"regexp"
	"slices"
	"strings"

	"github.com/msto63/rechenwerk/internal/calc/numfmt"
)

// Missing is shown for values that are undefined for the series.
const Missing = "-"

var separators = regexp.MustCompile(`[,\s]+`)

// ParseSeries splits s on commas and white space and keeps every token that
// starts with a number. Tokens like "3kg" contribute their numeric prefix.
func ParseSeries(s string) []float64 {
	var out []float64
	for _, tok := range separators.Split(strings.TrimSpace(s), -1) {
		if tok == "" {
			continue
		}
		if v, ok := numfmt.ParsePrefix(tok); ok {
			out = append(out, v)
		}
	}
	return out
}

// Summary holds the statistics of one series.
type Summary struct {
	N      int
	Sum    float64
	Mean   float64
	Median float64
	Min    float64
	Max    float64
	Range  float64

	// Modes lists the most frequent values in ascending order. It is empty
	// when no value occurs more than once.
	Modes []float64

	Variance       float64
	StdDev         float64
	SampleVariance float64
	SampleStdDev   float64
}

// Compute returns the summary of values. An empty series yields a Summary
// for which Empty reports true.
func Compute(values []float64) Summary {
	n := len(values)
	if n == 0 {
		return Summary{}
	}

	var s Summary
	s.N = n
	for _, v := range values {
		s.Sum += v
	}
	s.Mean = s.Sum / float64(n)

	sorted := slices.Clone(values)
	slices.Sort(sorted)
	s.Min = sorted[0]
	s.Max = sorted[n-1]
	s.Range = s.Max - s.Min
	if n%2 == 0 {
		s.Median = (sorted[n/2-1] + sorted[n/2]) / 2
	} else {
		s.Median = sorted[n/2]
	}

	s.Modes = modes(sorted)

	var sq float64
	for _, v := range values {
		d := v - s.Mean
		sq += d * d
	}
	s.Variance = sq / float64(n)
	s.StdDev = math.Sqrt(s.Variance)
	if n > 1 {
		s.SampleVariance = sq / float64(n-1)
		s.SampleStdDev = math.Sqrt(s.SampleVariance)
	}
	return s
}

// modes expects sorted input, so equal values are adjacent and the result
// comes out ascending.
func modes(sorted []float64) []float64 {
	var (
		out  []float64
		best = 1
	)
	for i := 0; i < len(sorted); {
		j := i + 1
		for j < len(sorted) && sorted[j] == sorted[i] {
			j++
		}
		switch count := j - i; {
		case count > best:
			best = count
			out = []float64{sorted[i]}
		case count == best && best > 1:
			out = append(out, sorted[i])
		}
		i = j
	}
	return out
}

// Empty reports whether the summary was computed from no values.
func (s Summary) Empty() bool {
	return s.N == 0
}

// HasSample reports whether the sample variance is defined.
func (s Summary) HasSample() bool {
	return s.N > 1
}

// ModeString joins the modes with ", " or returns "None".
func (s Summary) ModeString() string {
	if s.Empty() {
		return Missing
	}
	if len(s.Modes) == 0 {
		return "None"
	}
	parts := make([]string, len(s.Modes))
	for i, m := range s.Modes {
		parts[i] = numfmt.Shortest(m)
	}
	return strings.Join(parts, ", ")
}

// Field is one labelled statistic ready for display.
type Field struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Value string `json:"value"`
}

// Fields renders the summary in display order. Every value is Missing for
// an empty summary.
func (s Summary) Fields() []Field {
	fields := []Field{
		{Key: "n", Label: "Count"},
		{Key: "sum", Label: "Sum"},
		{Key: "mean", Label: "Mean"},
		{Key: "median", Label: "Median"},
		{Key: "mode", Label: "Mode"},
		{Key: "range", Label: "Range"},
		{Key: "min", Label: "Min"},
		{Key: "max", Label: "Max"},
		{Key: "variance", Label: "Variance (σ²)"},
		{Key: "stddev", Label: "Std. Dev. (σ)"},
		{Key: "sample_variance", Label: "Sample Var. (s²)"},
		{Key: "sample_stddev", Label: "Sample Std. (s)"},
	}
	if s.Empty() {
		for i := range fields {
			fields[i].Value = Missing
		}
		return fields
	}

	sample, sampleStd := Missing, Missing
	if s.HasSample() {
		sample, sampleStd = numfmt.Format(s.SampleVariance), numfmt.Format(s.SampleStdDev)
	}
	values := []string{
		numfmt.Shortest(float64(s.N)),
		numfmt.Format(s.Sum),
		numfmt.Format(s.Mean),
		numfmt.Format(s.Median),
		s.ModeString(),
		numfmt.Format(s.Range),
		numfmt.Format(s.Min),
		numfmt.Format(s.Max),
		numfmt.Format(s.Variance),
		numfmt.Format(s.StdDev),
		sample,
		sampleStd,
	}
	for i := range fields {
		fields[i].Value = values[i]
	}
	return fields
}
