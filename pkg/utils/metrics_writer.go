/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: metrics_writer.go
Description: Utility for writing run reports to the output directory.
Handles timestamped, variant-specific subdirectory naming.
Ensures directories exist and writes JSON files for easy analysis.
*/

package utils

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// WriteRunReport writes a run report under outputDir/reports/<variant>
func WriteRunReport(outputDir, variant, runID string, report interface{}) (string, error) {
	reportDir := filepath.Join(outputDir, "reports", variant)
	if err := os.MkdirAll(reportDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}

	// Filename: 2024-06-11_01-30-00_html_<run id>.json
	timestamp := time.Now().Format("2006-01-02_15-04-05")
	filePath := filepath.Join(reportDir, fmt.Sprintf("%s_%s_%s.json", timestamp, variant, runID))

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal report: %w", err)
	}
	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write report file: %w", err)
	}
	return filePath, nil
}

// ReadRunReport loads a report written by WriteRunReport into out
func ReadRunReport(path string, out interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read report file: %w", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse report %s: %w", path, err)
	}
	return nil
}

// WriteCorpus saves every seed as one file under outputDir/corpus
func WriteCorpus(outputDir string, seeds []string) (string, error) {
	corpusDir := filepath.Join(outputDir, "corpus")
	if err := os.MkdirAll(corpusDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create corpus directory: %w", err)
	}
	for i, s := range seeds {
		path := filepath.Join(corpusDir, fmt.Sprintf("seed_%06d", i))
		if err := os.WriteFile(path, []byte(s), 0644); err != nil {
			return "", fmt.Errorf("failed to write seed %d: %w", i, err)
		}
	}
	return corpusDir, nil
}
