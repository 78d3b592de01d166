// Package ingest turns uploaded or on-disk spreadsheet files into raw rows
// for the analytics pipeline. It does no value parsing; column names are
// kept exactly as the header spelled them.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/AdeyaOduor/chart-js/internal/models"
)

// ErrUnsupportedFormat is returned for file extensions other than .csv and
// .xlsx.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// Read dispatches on the file extension of filename and reads all data rows
// from r.
func Read(filename string, r io.Reader) ([]models.RawRow, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return ReadCSV(r)
	case ".xlsx":
		return ReadXLSX(r)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(filename))
	}
}

// ReadPath reads a file from disk.
func ReadPath(path string) ([]models.RawRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()
	return Read(path, f)
}

// ReadCSV reads header + data rows. Rows shorter than the header keep the
// columns they have; extra trailing cells are dropped. A file with only a
// header yields zero rows, which the pipeline rejects downstream.
func ReadCSV(r io.Reader) ([]models.RawRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("empty file")
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	var rows []models.RawRow
	for {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", len(rows)+1, err)
		}
		rows = append(rows, zipRow(header, fields))
	}
	return rows, nil
}

// ReadXLSX reads the first sheet of a workbook the same way ReadCSV reads a
// file: first row is the header, the rest are data.
func ReadXLSX(r io.Reader) ([]models.RawRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	cells, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(cells) == 0 {
		return nil, fmt.Errorf("empty file")
	}

	header := cells[0]
	rows := make([]models.RawRow, 0, len(cells)-1)
	for _, fields := range cells[1:] {
		rows = append(rows, zipRow(header, fields))
	}
	return rows, nil
}

func zipRow(header, fields []string) models.RawRow {
	row := make(models.RawRow, len(header))
	for i, name := range header {
		if i >= len(fields) {
			break
		}
		row[name] = fields[i]
	}
	return row
}
