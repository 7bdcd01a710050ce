package export

import (
	"fmt"
	"reflect"

	"github.com/gocarina/gocsv"
)

// CSVExporter renders slices of csv-tagged structs into CSV bytes.
type CSVExporter struct{}

// NewCSVExporter builds a CSV exporter.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// Render marshals rows, which must be a slice of structs (or struct pointers) carrying csv tags.
func (e *CSVExporter) Render(rows interface{}) ([]byte, error) {
	value := reflect.ValueOf(rows)
	if value.Kind() == reflect.Ptr {
		value = value.Elem()
	}
	if value.Kind() != reflect.Slice {
		return nil, fmt.Errorf("csv export expects a slice, got %T", rows)
	}

	out, err := gocsv.MarshalString(rows)
	if err != nil {
		return nil, fmt.Errorf("marshal csv: %w", err)
	}
	return []byte(out), nil
}
