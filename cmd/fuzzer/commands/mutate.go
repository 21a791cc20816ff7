/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: mutate.go
Description: Mutate command for polyfuzz. Prints stacked candidates for a single input so an
operator catalog can be inspected without a target.
*/

package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kleascm/polyfuzz/pkg/strategies"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// RunMutate prints count candidates derived from args[0]
func RunMutate(cmd *cobra.Command, args []string) error {
	if err := LoadConfig(); err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	config := createFuzzerConfig()

	catalog, err := strategies.CatalogByName(config.Variant)
	if err != nil {
		return err
	}
	rng := strategies.NewRand(config.RandSeed)
	stacker, err := strategies.NewStacker(catalog, config.MinMutations, config.MaxMutations, rng)
	if err != nil {
		return err
	}

	count := viper.GetInt("count")
	if count <= 0 {
		return fmt.Errorf("count must be positive, got %d", count)
	}

	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.SetHeader([]string{"#", "Candidate", "Operators"})
	table.SetAutoWrapText(false)
	for i := 0; i < count; i++ {
		candidate, applied := stacker.Stack(args[0])
		table.Append([]string{strconv.Itoa(i + 1), strconv.Quote(candidate), strings.Join(applied, ", ")})
	}
	table.Render()
	return nil
}
