package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

var (
	ErrUnsupportedFile = errors.New("the file must be a file of type: csv, txt, xlsx")
	ErrEmptyFile       = errors.New("the file has no heading row")
	ErrUnreadableFile  = errors.New("the file could not be read")
)

// Row — строка таблицы; Line — номер строки в файле (заголовок = 1)
type Row struct {
	Line   int
	Values map[string]string
}

func (r Row) Get(key string) string {
	return r.Values[key]
}

// Read разбирает CSV или XLSX (первый лист) в строки с ключами из заголовка
func Read(name string, r io.Reader) ([]Row, error) {
	var records [][]string
	var err error
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv", ".txt":
		records, err = readCSV(r)
	case ".xlsx":
		records, err = readXLSX(r)
	default:
		return nil, ErrUnsupportedFile
	}
	if err != nil {
		return nil, err
	}
	return toRows(records)
}

func readCSV(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableFile, err)
	}
	return records, nil
}

func readXLSX(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableFile, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyFile
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: sheet %q: %v", ErrUnreadableFile, sheets[0], err)
	}
	return rows, nil
}

func toRows(records [][]string) ([]Row, error) {
	if len(records) == 0 {
		return nil, ErrEmptyFile
	}
	heading := make([]string, len(records[0]))
	for i, h := range records[0] {
		heading[i] = HeadingKey(h)
	}

	var rows []Row
	for i, rec := range records[1:] {
		if blank(rec) {
			continue
		}
		values := make(map[string]string, len(heading))
		for col, key := range heading {
			if key == "" {
				continue
			}
			if col < len(rec) {
				values[key] = strings.TrimSpace(rec[col])
			} else {
				values[key] = ""
			}
		}
		rows = append(rows, Row{Line: i + 2, Values: values})
	}
	return rows, nil
}

// HeadingKey: " Published At " -> "published_at"
func HeadingKey(h string) string {
	h = strings.TrimPrefix(h, "\ufeff")
	h = strings.ToLower(strings.TrimSpace(h))
	return strings.Join(strings.Fields(h), "_")
}

func blank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
