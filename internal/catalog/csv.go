package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/edualign/edualign/internal/student"
)

// Column names follow the merged Scorecard/alumni dataset this pool is
// built from upstream.
const (
	colID         = "UNITID"
	colName       = "INSTNM"
	colCity       = "CITY"
	colState      = "STABBR"
	colAdmRate    = "ADM_RATE"
	colSATAvg     = "SAT_AVG"
	colTuitionIn  = "TUITIONFEE_IN"
	colTuitionOut = "TUITIONFEE_OUT"
)

// LoadCSV reads a merged candidate dataset from path. Preprocessing
// (column trimming, normalization, alumni aggregation) happens upstream;
// this loader only materializes the already-built pool.
func LoadCSV(path string) (*Pool, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open candidate dataset: %w", err)
	}
	defer file.Close()

	pool, err := ReadPool(file)
	if err != nil {
		return nil, fmt.Errorf("read candidate dataset %q: %w", path, err)
	}
	return pool, nil
}

// ReadPool parses CSV candidate records from r.
func ReadPool(r io.Reader) (*Pool, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{colID, colName, colState} {
		if _, ok := index[required]; !ok {
			return nil, fmt.Errorf("missing required column %q", required)
		}
	}

	pool := &Pool{}
	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line+1, err)
		}
		line++

		record, err := parseRecord(row, index)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		pool.Items = append(pool.Items, record)
	}

	return pool, nil
}

func parseRecord(row []string, index map[string]int) (*Record, error) {
	id, err := strconv.Atoi(field(row, index, colID))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", colID, err)
	}

	record := &Record{
		ID:            id,
		Name:          field(row, index, colName),
		City:          field(row, index, colCity),
		State:         field(row, index, colState),
		AdmissionRate: optionalFloat(row, index, colAdmRate),
		SATAverage:    optionalFloat(row, index, colSATAvg),
		TuitionIn:     optionalFloat(row, index, colTuitionIn),
		TuitionOut:    optionalFloat(row, index, colTuitionOut),
	}

	// Experience data is all-or-nothing: one missing dimension means the
	// record cannot be ranked on experience fit at all.
	var dims [student.DimensionCount]float64
	complete := true
	for i, dim := range student.Dimensions {
		value := optionalFloat(row, index, dim)
		if value == nil {
			complete = false
			break
		}
		dims[i] = *value
	}
	if complete {
		record.Experience = &dims
	}

	return record, nil
}

func field(row []string, index map[string]int, name string) string {
	i, ok := index[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func optionalFloat(row []string, index map[string]int, name string) *float64 {
	raw := field(row, index, name)
	if raw == "" {
		return nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &value
}
