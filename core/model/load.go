package model

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadProject loads ProjectData from a JSON or YAML file.
func LoadProject(path string) (ProjectData, error) {
	f, err := os.Open(path)
	if err != nil {
		return ProjectData{}, err
	}
	defer func() { _ = f.Close() }()
	return DecodeProject(f, strings.TrimPrefix(filepath.Ext(path), "."))
}

// DecodeProject reads ProjectData from r in the given format (json, yaml or yml).
func DecodeProject(r io.Reader, format string) (ProjectData, error) {
	var p ProjectData
	switch strings.ToLower(format) {
	case "yaml", "yml":
		if err := yaml.NewDecoder(r).Decode(&p); err != nil {
			return p, fmt.Errorf("decode yaml project: %w", err)
		}
	case "json":
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&p); err != nil {
			return p, fmt.Errorf("decode json project: %w", err)
		}
	default:
		return p, fmt.Errorf("unsupported project format: %s", format)
	}
	return p, nil
}
