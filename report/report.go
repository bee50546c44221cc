// Package report writes extraction results as JSON documents.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"photoOsint/extract"
)

// DefaultSuffix is appended to the source basename for the report filename.
const DefaultSuffix = "_metadata"

type payload struct {
	SourceFile  string          `json:"source_file"`
	ExtractedAt string          `json:"extracted_at"`
	Metadata    *extract.Record `json:"metadata"`
}

// Write serializes the record into outDir as <basename><suffix>.json and
// returns the report path. An empty suffix selects DefaultSuffix; an empty
// outDir places the report beside the source file. The output directory is
// created if missing.
func Write(rec *extract.Record, srcPath, outDir, suffix string) (string, error) {
	if suffix == "" {
		suffix = DefaultSuffix
	}
	if outDir == "" {
		outDir = filepath.Dir(srcPath)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	abs, err := filepath.Abs(srcPath)
	if err != nil {
		abs = srcPath
	}

	base := filepath.Base(srcPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	outPath := filepath.Join(outDir, stem+suffix+".json")

	doc := payload{
		SourceFile:  abs,
		ExtractedAt: time.Now().Format(time.RFC3339),
		Metadata:    rec,
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return outPath, nil
}
