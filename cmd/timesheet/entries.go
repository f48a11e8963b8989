package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
	"itsheet.com/itsheet/editor"
	"itsheet.com/itsheet/utils"
)

// loadRows reads one field map per entry. YAML files hold a list of
// mappings; CSV files have a header row naming the fields.
func loadRows(path string) ([]map[string]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return utils.ParseCSVWithHeader(file)
	case ".yaml", ".yml":
		var rows []map[string]string
		if err := yaml.NewDecoder(file).Decode(&rows); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		return rows, nil
	default:
		return nil, fmt.Errorf("unsupported entries file %s, use .yaml or .csv", path)
	}
}

// buildEditor types every row into a fresh editor and saves it, the same
// way a user would fill in the form.
func buildEditor(session editor.Session, rows []map[string]string) (*editor.Editor, error) {
	ed := editor.New(session, nil)
	if len(rows) == 0 {
		// submit reports the empty batch
		if err := ed.Delete(0); err != nil {
			return nil, err
		}
	}
	for n, row := range rows {
		i := 0
		if n > 0 {
			var err error
			if i, err = ed.Add(); err != nil {
				return nil, err
			}
		}

		fields := make([]string, 0, len(row))
		for field := range row {
			fields = append(fields, field)
		}
		sort.Strings(fields)

		for _, field := range fields {
			if err := ed.UpdateField(i, field, row[field]); err != nil {
				return nil, fmt.Errorf("entry %d: %w", n+1, err)
			}
		}
		if err := ed.Save(i); err != nil {
			return nil, fmt.Errorf("entry %d: %w", n+1, err)
		}
	}
	return ed, nil
}
