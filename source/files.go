package source

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fwielstra/vizplugins/domain"
	"github.com/xuri/excelize/v2"
)

// LoadJSON reads a JSON file holding either an array of rows or an object
// with "columns" and "rows".
func LoadJSON(path string) (domain.Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Result{}, fmt.Errorf("LoadJSON(): error reading %s: %w", path, err)
	}
	return DecodeJSON(data)
}

func DecodeJSON(data []byte) (domain.Result, error) {
	var res domain.Result

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		err := json.Unmarshal(trimmed, &res.Rows)
		if err != nil {
			return res, fmt.Errorf("DecodeJSON(): error decoding rows: %w", err)
		}
		return res, nil
	}

	if err := json.Unmarshal(trimmed, &res); err != nil {
		return res, fmt.Errorf("DecodeJSON(): error decoding result: %w", err)
	}
	return res, nil
}

// LoadCSV reads a CSV file whose first record is the header.
func LoadCSV(path string) (domain.Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.Result{}, fmt.Errorf("LoadCSV(): error opening %s: %w", path, err)
	}
	defer f.Close()

	return DecodeCSV(f)
}

func DecodeCSV(r io.Reader) (domain.Result, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return domain.Result{}, nil
	}
	if err != nil {
		return domain.Result{}, fmt.Errorf("DecodeCSV(): error reading header: %w", err)
	}

	res := domain.Result{Columns: header}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return res, fmt.Errorf("DecodeCSV(): error reading record: %w", err)
		}
		res.Rows = append(res.Rows, toRow(header, record))
	}

	return res, nil
}

// LoadXLSX reads a sheet of an Excel workbook, the first row being the
// header. An empty sheet name selects the first sheet.
func LoadXLSX(path, sheet string) (domain.Result, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return domain.Result{}, fmt.Errorf("LoadXLSX(): error opening %s: %w", path, err)
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return domain.Result{}, fmt.Errorf("LoadXLSX(): error reading sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return domain.Result{}, nil
	}

	res := domain.Result{Columns: rows[0]}
	for _, record := range rows[1:] {
		res.Rows = append(res.Rows, toRow(rows[0], record))
	}

	return res, nil
}

// toRow pairs a record with the header. Cells missing at the end of the
// record are left out of the row, empty cells become nil.
func toRow(header, record []string) domain.Row {
	row := make(domain.Row, len(header))
	for i, col := range header {
		if i >= len(record) {
			break
		}
		row[col] = domain.ParseScalar(record[i])
	}
	return row
}
