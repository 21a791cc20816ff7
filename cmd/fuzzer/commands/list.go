/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: list.go
Description: Utility commands for polyfuzz. Lists the operator catalogs and performs
self-checks of the configured target, corpus and output locations before fuzzing.
*/

package commands

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/kleascm/polyfuzz/pkg/interfaces"
	"github.com/kleascm/polyfuzz/pkg/strategies"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// ListMutators prints every catalog with its operators
func ListMutators(cmd *cobra.Command, args []string) error {
	names := strategies.CatalogNames()
	if len(args) > 0 {
		names = args
	}

	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.SetHeader([]string{"Variant", "Operator", "Description"})
	table.SetAutoWrapText(false)
	table.SetAutoMergeCells(true)
	for _, name := range names {
		catalog, err := strategies.CatalogByName(name)
		if err != nil {
			return err
		}
		for _, op := range catalog.Operators {
			table.Append([]string{catalog.Name, op.Name(), op.Description()})
		}
	}
	table.Render()

	fmt.Fprintf(cmd.OutOrStdout(), "\nUse --variant to pick a catalog, or --variant %s for unstructured random inputs.\n", interfaces.VariantRandom)
	return nil
}

// PerformSelfCheck validates configuration and the filesystem before fuzzing
func PerformSelfCheck(cmd *cobra.Command, args []string) error {
	if err := LoadConfig(); err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	config := createFuzzerConfig()

	checks := []struct {
		name     string
		function func(*interfaces.FuzzerConfig) error
	}{
		{"Configuration", func(c *interfaces.FuzzerConfig) error { return c.Validate() }},
		{"Target Binary", checkTarget},
		{"Seed Corpus", checkSeeds},
		{"Output Directory", checkOutputDir},
	}

	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.SetHeader([]string{"Check", "Result"})
	table.SetAutoWrapText(false)
	failed := 0
	for _, check := range checks {
		result := "PASSED"
		if err := check.function(config); err != nil {
			result = "FAILED: " + err.Error()
			failed++
		}
		table.Append([]string{check.name, result})
	}
	table.Render()

	if failed > 0 {
		return fmt.Errorf("%d/%d checks failed", failed, len(checks))
	}
	return nil
}

// checkTarget validates the target binary for the process oracle
func checkTarget(config *interfaces.FuzzerConfig) error {
	if config.Oracle != interfaces.OracleProcess {
		return nil
	}
	if _, err := exec.LookPath(config.TargetPath); err != nil {
		return fmt.Errorf("target not executable: %w", err)
	}
	return nil
}

// checkSeeds validates that the configured seed sources exist
func checkSeeds(config *interfaces.FuzzerConfig) error {
	if config.Variant == interfaces.VariantRandom {
		return nil
	}
	seeds, err := loadSeeds(config)
	if err != nil {
		return err
	}
	if len(seeds) == 0 {
		return fmt.Errorf("no seeds found")
	}
	return nil
}

// checkOutputDir validates that reports can be written
func checkOutputDir(config *interfaces.FuzzerConfig) error {
	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		return fmt.Errorf("cannot create output directory: %w", err)
	}
	testFile := filepath.Join(config.OutputDir, ".polyfuzz_test_write")
	if err := os.WriteFile(testFile, []byte("test"), 0644); err != nil {
		return fmt.Errorf("cannot write to output directory: %w", err)
	}
	os.Remove(testFile)
	return nil
}
