package batch

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed report_schema.json
var reportSchemaJSON []byte

// ReportFileName is the report written at the root of the output
// directory after a batch run.
const ReportFileName = "processing_results.json"

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func reportSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("report_schema.json", bytes.NewReader(reportSchemaJSON)); err != nil {
			schemaErr = fmt.Errorf("failed to load report schema: %w", err)
			return
		}
		schema, schemaErr = compiler.Compile("report_schema.json")
	})
	return schema, schemaErr
}

// validateReport checks serialized report bytes against the embedded
// schema.
func validateReport(data []byte) error {
	s, err := reportSchema()
	if err != nil {
		return err
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to parse report for validation: %w", err)
	}
	if err := s.Validate(doc); err != nil {
		return fmt.Errorf("report failed schema validation: %w", err)
	}
	return nil
}

// WriteReport serializes, validates and writes the summary into outDir,
// returning the report path.
func WriteReport(summary *Summary, outDir string) (string, error) {
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to serialize report: %w", err)
	}
	if err := validateReport(data); err != nil {
		return "", err
	}

	path := filepath.Join(outDir, ReportFileName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}
	return path, nil
}
