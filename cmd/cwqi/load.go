package main

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chrissnell/remotewater/pkg/cwqi"
	"gopkg.in/yaml.v3"
)

// rowsDocument is the object form of an export: {"rows": [...]}.
type rowsDocument struct {
	Rows []cwqi.RawParameterRow `json:"rows" yaml:"rows"`
}

func loadRowsFile(path, format string) ([]cwqi.RawParameterRow, error) {
	if format == "" {
		format = formatFromExtension(path)
	}

	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("error reading %s: %w", path, err)
	}

	rows, err := loadRows(data, format)
	if err != nil {
		return nil, fmt.Errorf("error parsing %s: %w", path, err)
	}
	return rows, nil
}

func formatFromExtension(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	case ".csv":
		return "csv"
	default:
		return "json"
	}
}

func loadRows(data []byte, format string) ([]cwqi.RawParameterRow, error) {
	switch format {
	case "json":
		return loadJSON(data)
	case "yaml":
		return loadYAML(data)
	case "csv":
		return loadCSV(bytes.NewReader(data))
	default:
		return nil, fmt.Errorf("unsupported input format %q", format)
	}
}

func loadJSON(data []byte) ([]cwqi.RawParameterRow, error) {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var rows []cwqi.RawParameterRow
		if err := json.Unmarshal(data, &rows); err != nil {
			return nil, err
		}
		return rows, nil
	}
	var doc rowsDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return doc.Rows, nil
}

func loadYAML(data []byte) ([]cwqi.RawParameterRow, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, err
	}
	if len(node.Content) == 0 {
		return nil, nil
	}
	if node.Content[0].Kind == yaml.SequenceNode {
		var rows []cwqi.RawParameterRow
		if err := node.Content[0].Decode(&rows); err != nil {
			return nil, err
		}
		return rows, nil
	}
	var doc rowsDocument
	if err := node.Content[0].Decode(&doc); err != nil {
		return nil, err
	}
	return doc.Rows, nil
}

// csvColumns sets one field of a row from a CSV cell. Empty cells leave value
// columns null.
var csvColumns = map[string]func(r *cwqi.RawParameterRow, cell string){
	"parameter_name":       func(r *cwqi.RawParameterRow, c string) { r.ParameterName = c },
	"parameter_type":       func(r *cwqi.RawParameterRow, c string) { r.ParameterType = cwqi.ParameterType(c) },
	"result_numeric":       func(r *cwqi.RawParameterRow, c string) { r.ResultNumeric = csvValue(c) },
	"result_value":         func(r *cwqi.RawParameterRow, c string) { r.ResultValue = c },
	"result_display_value": func(r *cwqi.RawParameterRow, c string) { r.ResultDisplayValue = c },
	"result_units":         func(r *cwqi.RawParameterRow, c string) { r.ResultUnits = c },
	"mac_value":            func(r *cwqi.RawParameterRow, c string) { r.MACValue = csvValue(c) },
	"mac_display":          func(r *cwqi.RawParameterRow, c string) { r.MACDisplay = c },
	"mac_compliance_status": func(r *cwqi.RawParameterRow, c string) {
		r.MACComplianceStatus = cwqi.ParseComplianceStatus(c)
	},
	"ao_value":   func(r *cwqi.RawParameterRow, c string) { r.AOValue = csvValue(c) },
	"ao_display": func(r *cwqi.RawParameterRow, c string) { r.AODisplay = c },
	"ao_compliance_status": func(r *cwqi.RawParameterRow, c string) {
		r.AOComplianceStatus = cwqi.ParseComplianceStatus(c)
	},
	"compliance_status": func(r *cwqi.RawParameterRow, c string) {
		r.ComplianceStatus = cwqi.ParseComplianceStatus(c)
	},
	"sample_number": func(r *cwqi.RawParameterRow, c string) { r.SampleNumber = c },
}

func csvValue(cell string) cwqi.Value {
	var v cwqi.Value
	if cell == "" {
		return v
	}
	_ = v.UnmarshalText([]byte(cell))
	return v
}

func loadCSV(r io.Reader) ([]cwqi.RawParameterRow, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	setters := make([]func(*cwqi.RawParameterRow, string), len(header))
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		set, ok := csvColumns[name]
		if !ok {
			return nil, fmt.Errorf("unknown column %q", name)
		}
		setters[i] = set
	}

	var rows []cwqi.RawParameterRow
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		var row cwqi.RawParameterRow
		for i, cell := range record {
			setters[i](&row, cell)
		}
		rows = append(rows, row)
	}
	return rows, nil
}
