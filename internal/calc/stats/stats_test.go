package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSeries(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []float64
	}{
		{"commas", "1,2,3", []float64{1, 2, 3}},
		{"mixed separators", " 1, 2\t3\n4 ,, 5 ", []float64{1, 2, 3, 4, 5}},
		{"drops junk", "1, abc, 2", []float64{1, 2}},
		{"numeric prefix", "3kg 4.5m", []float64{3, 4.5}},
		{"empty", "   ", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseSeries(tt.input))
		})
	}
}

func TestComputeEvenSeries(t *testing.T) {
	s := Compute([]float64{4, 1, 3, 2})

	assert.Equal(t, 4, s.N)
	assert.Equal(t, 10.0, s.Sum)
	assert.Equal(t, 2.5, s.Mean)
	assert.Equal(t, 2.5, s.Median)
	assert.Equal(t, 1.0, s.Min)
	assert.Equal(t, 4.0, s.Max)
	assert.Equal(t, 3.0, s.Range)
	assert.InDelta(t, 1.25, s.Variance, 1e-12)
	assert.InDelta(t, 1.6666666666666667, s.SampleVariance, 1e-12)
	assert.True(t, s.HasSample())
	assert.Empty(t, s.Modes)
	assert.Equal(t, "None", s.ModeString())
}

func TestComputeOddSeriesWithModes(t *testing.T) {
	s := Compute([]float64{5, 2, 2, 9, 5})

	assert.Equal(t, 5.0, s.Median)
	assert.Equal(t, []float64{2, 5}, s.Modes)
	assert.Equal(t, "2, 5", s.ModeString())
}

func TestComputeSingleValue(t *testing.T) {
	s := Compute([]float64{7})

	assert.Equal(t, 7.0, s.Mean)
	assert.Zero(t, s.Variance)
	assert.False(t, s.HasSample())

	fields := s.Fields()
	require.Len(t, fields, 12)
	assert.Equal(t, "1", fields[0].Value)
	assert.Equal(t, Missing, fields[10].Value)
	assert.Equal(t, Missing, fields[11].Value)
}

func TestComputeEmpty(t *testing.T) {
	s := Compute(nil)

	assert.True(t, s.Empty())
	assert.Equal(t, Missing, s.ModeString())
	for _, f := range s.Fields() {
		assert.Equal(t, Missing, f.Value, f.Key)
	}
}

func TestComputeDoesNotReorderInput(t *testing.T) {
	in := []float64{3, 1, 2}
	Compute(in)
	assert.Equal(t, []float64{3, 1, 2}, in)
}

func TestFieldsFormatting(t *testing.T) {
	fields := Compute(ParseSeries("1 2 3 4")).Fields()

	byKey := make(map[string]string, len(fields))
	for _, f := range fields {
		byKey[f.Key] = f.Value
	}
	assert.Equal(t, "2.5", byKey["mean"])
	assert.Equal(t, "1.25", byKey["variance"])
	assert.Equal(t, "1.6666666667", byKey["sample_variance"])
	assert.Equal(t, "None", byKey["mode"])
}
