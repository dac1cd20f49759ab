package ohlcv

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCSVParsesRequiredColumns(t *testing.T) {
	data := "timestamp,Open,High,Low,Close,Volume\n" +
		"2024-01-01T00:00:00Z,100,102,99,101,1000\n" +
		"2024-01-01T01:00:00Z,101,103,100,102,1100\n"

	frame, err := ReadCSV(strings.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, 2, frame.Len())
	assert.Equal(t, []float64{100, 101}, frame.Open)
	assert.Equal(t, []float64{102, 103}, frame.High)
	assert.Equal(t, []float64{101, 102}, frame.Close)
	require.Len(t, frame.Timestamp, 2)
	assert.Equal(t, 2024, frame.Timestamp[0].Year())
}

func TestReadCSVWithoutTimestampColumn(t *testing.T) {
	data := "open,high,low,close,volume\n" +
		"10,12,9,11,500\n" +
		"11,13,10,12,600\n"

	frame, err := ReadCSV(strings.NewReader(data))
	require.NoError(t, err)
	assert.Nil(t, frame.Timestamp)
	assert.Equal(t, 2, frame.Len())
}

func TestReadCSVRejectsMissingRequiredColumn(t *testing.T) {
	data := "open,high,low,close\n1,2,0.5,1.5\n"
	_, err := ReadCSV(strings.NewReader(data))
	assert.Error(t, err)
}

func TestReadCSVRejectsBadFloat(t *testing.T) {
	data := "open,high,low,close,volume\nabc,2,0.5,1.5,100\n"
	_, err := ReadCSV(strings.NewReader(data))
	assert.Error(t, err)
}

func TestReadCSVRejectsOHLCInvariantViolation(t *testing.T) {
	// high below close violates the OHLC invariant checked by Frame.Validate.
	data := "open,high,low,close,volume\n10,10.5,9,11,100\n10,10.6,9,11,100\n"
	_, err := ReadCSV(strings.NewReader(data))
	assert.Error(t, err)
}
