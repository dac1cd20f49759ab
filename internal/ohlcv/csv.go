package ohlcv

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/sawpanic/tradebias/internal/apperr"
)

// LoadCSV reads a bar frame from a CSV file at path. The file must have a
// header row naming its columns (case-insensitive); open, high, low,
// close, and volume are required, timestamp is optional and parsed as
// RFC3339 when present.
func LoadCSV(path string) (*Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperr.Wrap(apperr.Data, "opening OHLCV CSV", err)
	}
	defer f.Close()
	return ReadCSV(f)
}

// ReadCSV parses a bar frame from r using the same schema as LoadCSV.
func ReadCSV(r io.Reader) (*Frame, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, apperr.Wrap(apperr.Data, "reading CSV header", err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[normalizeHeader(name)] = i
	}

	required := []string{"open", "high", "low", "close", "volume"}
	for _, name := range required {
		if _, ok := col[name]; !ok {
			return nil, apperr.New(apperr.Data, "CSV header missing required column "+name)
		}
	}
	tsIdx, hasTimestamp := col["timestamp"]

	frame := &Frame{}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, apperr.Wrap(apperr.Data, "reading CSV row", err)
		}

		open, err := parseFloat(record, col["open"])
		if err != nil {
			return nil, err
		}
		high, err := parseFloat(record, col["high"])
		if err != nil {
			return nil, err
		}
		low, err := parseFloat(record, col["low"])
		if err != nil {
			return nil, err
		}
		close_, err := parseFloat(record, col["close"])
		if err != nil {
			return nil, err
		}
		volume, err := parseFloat(record, col["volume"])
		if err != nil {
			return nil, err
		}

		frame.Open = append(frame.Open, open)
		frame.High = append(frame.High, high)
		frame.Low = append(frame.Low, low)
		frame.Close = append(frame.Close, close_)
		frame.Volume = append(frame.Volume, volume)

		if hasTimestamp {
			ts, err := time.Parse(time.RFC3339, record[tsIdx])
			if err != nil {
				return nil, apperr.Wrap(apperr.Data, "parsing timestamp column", err)
			}
			frame.Timestamp = append(frame.Timestamp, ts)
		}
	}

	if err := frame.Validate(); err != nil {
		return nil, err
	}
	return frame, nil
}

func parseFloat(record []string, idx int) (float64, error) {
	if idx >= len(record) {
		return 0, apperr.New(apperr.Data, "CSV row shorter than header")
	}
	v, err := strconv.ParseFloat(record[idx], 64)
	if err != nil {
		return 0, apperr.Wrap(apperr.Data, "parsing numeric column", err)
	}
	return v, nil
}

func normalizeHeader(name string) string {
	out := make([]byte, 0, len(name))
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		if c == ' ' || c == '\t' {
			continue
		}
		out = append(out, c)
	}
	return string(out)
}
