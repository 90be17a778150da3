package hospitals

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sandevgo/loopbot/internal/core"
)

const (
	ColumnName    = "HOSPITAL NAME"
	ColumnCity    = "CITY"
	ColumnAddress = "Address"
)

var (
	ErrMissingColumn = errors.New("missing required column")
	ErrEmptyDataset  = errors.New("dataset has no rows")
)

// columnAliases maps normalized header spellings to the canonical column.
var columnAliases = map[string]string{
	"hospital name": ColumnName,
	"hospital_name": ColumnName,
	"hospitalname":  ColumnName,
	"name":          ColumnName,
	"city":          ColumnCity,
	"address":       ColumnAddress,
}

// Parse reads a hospital CSV. Headers are matched case-insensitively, extra
// columns are kept in HospitalRecord.Fields.
func Parse(r io.Reader) ([]core.HospitalRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyDataset
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}

	index := map[string]int{}
	extra := map[int]string{}
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if canonical, ok := columnAliases[strings.ToLower(h)]; ok {
			if _, dup := index[canonical]; !dup {
				index[canonical] = i
				continue
			}
		}
		extra[i] = h
	}
	for _, col := range []string{ColumnName, ColumnCity} {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, col)
		}
	}

	var records []core.HospitalRecord
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv row: %w", err)
		}

		rec := core.HospitalRecord{
			Name:    cell(row, index, ColumnName),
			City:    cell(row, index, ColumnCity),
			Address: cell(row, index, ColumnAddress),
		}
		if rec.Name == "" && rec.City == "" && rec.Address == "" {
			continue
		}
		for i, h := range extra {
			if i < len(row) && h != "" {
				if rec.Fields == nil {
					rec.Fields = map[string]string{}
				}
				rec.Fields[h] = strings.TrimSpace(row[i])
			}
		}
		records = append(records, rec)
	}

	if len(records) == 0 {
		return nil, ErrEmptyDataset
	}
	return records, nil
}

func cell(row []string, index map[string]int, col string) string {
	i, ok := index[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func LoadFile(path string) ([]core.HospitalRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// WriteFile stores raw CSV bytes at path through a temp file and rename.
func WriteFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create dataset directory: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".hospitals-*.csv")
	if err != nil {
		return fmt.Errorf("failed to create temp dataset: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write dataset: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close dataset: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to move dataset into place: %w", err)
	}
	return nil
}
