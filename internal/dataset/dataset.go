// Package dataset loads the company directory the lookup service answers from.
//
// The directory is read once at startup, from the copy embedded in the binary,
// from a deploy-time file, or from a Postgres table, and is never reloaded.
package dataset

import (
	"bytes"
	_ "embed"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/octobees/complaint-helper/api/internal/entity"
)

//go:embed companies.json
var bundled []byte

// Format identifies the encoding of a dataset file.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatYAML Format = "yaml"
)

// FormatFromPath infers the dataset format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".csv":
		return FormatCSV, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", eris.Errorf("dataset: unsupported file extension %q", filepath.Ext(path))
	}
}

// Default returns the directory embedded in the binary.
func Default() ([]entity.Company, error) {
	records, err := Parse(bytes.NewReader(bundled), FormatJSON)
	if err != nil {
		return nil, eris.Wrap(err, "dataset: parse bundled directory")
	}
	if err := Validate(records); err != nil {
		return nil, err
	}
	return records, nil
}

// LoadFile reads and validates a dataset file.
func LoadFile(path string) ([]entity.Company, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "dataset: open %s", path)
	}
	defer f.Close()

	records, err := Parse(f, format)
	if err != nil {
		return nil, eris.Wrapf(err, "dataset: parse %s", path)
	}
	if err := Validate(records); err != nil {
		return nil, err
	}
	return records, nil
}

// Parse decodes records in dataset order without validating them.
func Parse(r io.Reader, format Format) ([]entity.Company, error) {
	switch format {
	case FormatJSON:
		return parseJSON(r)
	case FormatCSV:
		return parseCSV(r)
	case FormatYAML:
		return parseYAML(r)
	default:
		return nil, eris.Errorf("dataset: unknown format %q", format)
	}
}

func parseJSON(r io.Reader) ([]entity.Company, error) {
	var records []entity.Company
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&records); err != nil {
		return nil, eris.Wrap(err, "decode json")
	}
	var trailing json.RawMessage
	if err := dec.Decode(&trailing); !errors.Is(err, io.EOF) {
		return nil, eris.New("decode json: unexpected data after the company list")
	}
	return records, nil
}

func parseYAML(r io.Reader) ([]entity.Company, error) {
	var records []entity.Company
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&records); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, eris.Wrap(err, "decode yaml")
	}
	return records, nil
}

var requiredCSVHeaders = []string{"company_name"}

func parseCSV(r io.Reader) ([]entity.Company, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ValidationError{Message: "csv file is empty"}
		}
		return nil, eris.Wrap(err, "read csv header")
	}

	indexMap, valErr := buildHeaderIndex(header)
	if valErr != nil {
		return nil, valErr
	}

	var (
		records []entity.Company
		rowNum  = 1
	)

	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, eris.Wrap(err, "read csv row")
		}

		rowNum++

		serial := rowNum - 1
		if raw := column(row, indexMap, "serial"); raw != "" {
			parsed, parseErr := strconv.Atoi(raw)
			if parseErr != nil {
				return nil, ValidationError{Message: fmt.Sprintf("invalid serial value on row %d", rowNum)}
			}
			serial = parsed
		}

		records = append(records, entity.Company{
			Serial:          serial,
			CompanyName:     column(row, indexMap, "company_name"),
			CompanyNumber:   column(row, indexMap, "company_number"),
			ComplaintsEmail: column(row, indexMap, "company_complaints_email"),
			XHandle:         column(row, indexMap, "x_handle"),
			FacebookHandle:  column(row, indexMap, "facebook_handle"),
		})
	}

	return records, nil
}

func buildHeaderIndex(header []string) (map[string]int, error) {
	index := make(map[string]int)
	for i, col := range header {
		index[strings.ToLower(strings.TrimSpace(col))] = i
	}

	missing := make([]string, 0)
	for _, required := range requiredCSVHeaders {
		if _, ok := index[required]; !ok {
			missing = append(missing, required)
		}
	}
	if len(missing) > 0 {
		return nil, ValidationError{Message: fmt.Sprintf("missing required columns: %s", strings.Join(missing, ", "))}
	}
	return index, nil
}

// column returns the trimmed cell for name, or "" when the column is absent.
func column(row []string, index map[string]int, name string) string {
	i, ok := index[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
