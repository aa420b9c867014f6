package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/fundscope/funding-dashboard/internal/pipeline"
)

// LoadCSV reads the tabular input file into raw records. The first row is
// treated as the header. Rows shorter than the header are padded with empty
// strings; extra cells on longer rows are dropped.
func LoadCSV(path string) ([]pipeline.RawRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset %s: %w", path, err)
	}
	defer f.Close()

	return ReadCSV(f)
}

// ReadCSV parses CSV content from a reader into raw records.
func ReadCSV(r io.Reader) ([]pipeline.RawRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("dataset is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	var records []pipeline.RawRecord
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", len(records)+2, err)
		}

		record := make(pipeline.RawRecord, len(header))
		for i, col := range header {
			if i < len(row) {
				record[col] = row[i]
			} else {
				record[col] = ""
			}
		}
		records = append(records, record)
	}

	return records, nil
}
