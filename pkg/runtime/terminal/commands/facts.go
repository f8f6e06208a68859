package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/de-tools/dr-readiness/pkg/models/api"
)

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// readFacts loads a facts file. YAML is used for .yaml and .yml files,
// JSON otherwise.
func readFacts(path string) (*api.EvaluateRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read facts file: %w", err)
	}

	var req api.EvaluateRequest
	if isYAML(path) {
		err = yaml.Unmarshal(data, &req)
	} else {
		err = json.Unmarshal(data, &req)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse facts file %s: %w", path, err)
	}
	return &req, nil
}

func writeFacts(path string, req api.EvaluateRequest) error {
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(req)
	} else {
		data, err = json.MarshalIndent(req, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("failed to encode facts: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write facts file: %w", err)
	}
	return nil
}
