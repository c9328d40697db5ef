package ingestion

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// FileSource is a DataSource rooted at a single (restaurant, date)
// directory on disk. Filenames are resolved exact-match first, then as
// NAME_YYYY_MM_DD.csv, matching spec.md §4.2.
type FileSource struct {
	Dir  string
	Date string // YYYY-MM-DD, used to build the date-suffixed filename variant
}

// NewFileSource builds a FileSource rooted at dir for the given date.
func NewFileSource(dir, date string) *FileSource {
	return &FileSource{Dir: dir, Date: date}
}

// ListAvailable returns the logical names for which a matching CSV file
// exists under Dir, trying every known logical name.
func (f *FileSource) ListAvailable() []string {
	names := []string{"labor", "sales", "orders", "kitchen", "eod", "payroll", "cash_activity", "cash_mgmt"}
	var available []string
	for _, name := range names {
		if _, ok := f.resolve(name); ok {
			available = append(available, name)
		}
	}
	return available
}

func (f *FileSource) resolve(logicalName string) (string, bool) {
	exact := filepath.Join(f.Dir, logicalName+".csv")
	if fileExists(exact) {
		return exact, true
	}
	suffixed := filepath.Join(f.Dir, fmt.Sprintf("%s_%s.csv", logicalName, dateSuffix(f.Date)))
	if fileExists(suffixed) {
		return suffixed, true
	}
	return "", false
}

func dateSuffix(date string) string {
	// date is YYYY-MM-DD; the suffixed filename convention uses
	// underscores in place of dashes: NAME_YYYY_MM_DD.csv.
	out := make([]byte, len(date))
	for i := 0; i < len(date); i++ {
		if date[i] == '-' {
			out[i] = '_'
		} else {
			out[i] = date[i]
		}
	}
	return string(out)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// ReadCSV resolves logicalName to a file, decodes it with the fallback
// encoding chain, and parses it as RFC-4180 CSV with a header row.
func (f *FileSource) ReadCSV(logicalName string) ([]map[string]string, bool, error) {
	path, ok := f.resolve(logicalName)
	if !ok {
		return nil, false, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, true, fmt.Errorf("read %s: %w", path, err)
	}

	rows, err := decodeAndParseCSV(raw)
	if err != nil {
		return nil, true, fmt.Errorf("parse %s: %w", path, err)
	}
	return rows, true, nil
}

// decodeAndParseCSV tries the encoding fallback chain UTF-8 -> Latin-1 ->
// CP1252 -> ISO-8859-1 (spec.md §4.2, §9), returning the first decoding
// whose bytes parse as well-formed CSV with at least a header row.
func decodeAndParseCSV(raw []byte) ([]map[string]string, error) {
	candidates := []struct {
		name    string
		decoder func([]byte) ([]byte, error)
	}{
		{"utf-8", decodeUTF8},
		{"latin-1", decodeCharmap(charmap.ISO8859_1)},
		{"cp1252", decodeCharmap(charmap.Windows1252)},
		{"iso-8859-1", decodeCharmap(charmap.ISO8859_1)},
	}

	var lastErr error
	for _, c := range candidates {
		decoded, err := c.decoder(raw)
		if err != nil {
			lastErr = err
			continue
		}
		rows, err := parseCSVRows(decoded)
		if err != nil {
			lastErr = err
			continue
		}
		return rows, nil
	}
	return nil, fmt.Errorf("no encoding in the fallback chain could parse this file: %w", lastErr)
}

func decodeUTF8(raw []byte) ([]byte, error) {
	trimmed := bytes.TrimPrefix(raw, []byte{0xEF, 0xBB, 0xBF})
	reader := transform.NewReader(bytes.NewReader(trimmed), unicode.UTF8.NewDecoder())
	out, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func decodeCharmap(cm *charmap.Charmap) func([]byte) ([]byte, error) {
	return func(raw []byte) ([]byte, error) {
		reader := transform.NewReader(bytes.NewReader(raw), cm.NewDecoder())
		return io.ReadAll(reader)
	}
}

func parseCSVRows(decoded []byte) ([]map[string]string, error) {
	reader := csv.NewReader(bytes.NewReader(decoded))
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("empty CSV")
	}
	header := records[0]
	rows := make([]map[string]string, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(record) {
				row[col] = record[i]
			} else {
				row[col] = ""
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}
