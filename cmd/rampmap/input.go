package main

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gogpu/rampmap"
)

var errInput = errors.New("input")

// ReadGridFile reads a grid from a .json or .csv file, or from standard
// input when path is "-" (JSON unless it starts like CSV).
func ReadGridFile(path string, stdin io.Reader) (*rampmap.Grid, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: no grid file given", errInput)
	}
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("%w: read stdin: %w", errInput, err)
		}
		if trimmed := strings.TrimSpace(string(data)); strings.HasPrefix(trimmed, "[") {
			return ReadGridJSON(strings.NewReader(trimmed))
		}
		return ReadGridCSV(strings.NewReader(string(data)))
	}

	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errInput, err)
	}
	defer func() { _ = f.Close() }()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return ReadGridJSON(f)
	case ".csv":
		return ReadGridCSV(f)
	}
	return nil, fmt.Errorf("%w: %s: want a .json or .csv file", errInput, path)
}

// ReadGridJSON decodes an array of rows. A sample may be a number, null,
// or a string holding a number; null, "" and "NaN" mark missing samples.
func ReadGridJSON(r io.Reader) (*rampmap.Grid, error) {
	var raw [][]any
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: json: %w", errInput, err)
	}
	rows := make([][]float64, len(raw))
	for j, row := range raw {
		rows[j] = make([]float64, len(row))
		for i, v := range row {
			f, err := jsonSample(v)
			if err != nil {
				return nil, fmt.Errorf("%w: row %d column %d: %w", errInput, j, i, err)
			}
			rows[j][i] = f
		}
	}
	return newGrid(rows)
}

func jsonSample(v any) (float64, error) {
	switch v := v.(type) {
	case nil:
		return math.NaN(), nil
	case float64:
		return v, nil
	case string:
		return parseSample(v)
	}
	return 0, fmt.Errorf("unexpected %T", v)
}

// ReadGridCSV reads one grid row per record. Empty, "NaN" and "null"
// fields mark missing samples; '#' starts a comment line.
func ReadGridCSV(r io.Reader) (*rampmap.Grid, error) {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1 // ragged rows are reported by NewGrid

	var rows [][]float64
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: csv: %w", errInput, err)
		}
		row := make([]float64, len(record))
		for i, field := range record {
			f, err := parseSample(field)
			if err != nil {
				return nil, fmt.Errorf("%w: row %d column %d: %w", errInput, len(rows), i, err)
			}
			row[i] = f
		}
		rows = append(rows, row)
	}
	return newGrid(rows)
}

func parseSample(s string) (float64, error) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "", "nan", "null":
		return math.NaN(), nil
	}
	return strconv.ParseFloat(s, 64)
}

func newGrid(rows [][]float64) (*rampmap.Grid, error) {
	g, err := rampmap.NewGrid(rows)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errInput, err)
	}
	return g, nil
}
