/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: report.go
Description: Report command for polyfuzz. Loads a run report written by the fuzz command and
prints the same summary table shown at the end of a run.
*/

package commands

import (
	"github.com/kleascm/polyfuzz/pkg/core"
	"github.com/kleascm/polyfuzz/pkg/utils"
	"github.com/spf13/cobra"
)

// ShowReport prints the summary of a saved run
func ShowReport(cmd *cobra.Command, args []string) error {
	var result core.RunResult
	if err := utils.ReadRunReport(args[0], &result); err != nil {
		return err
	}
	printFinalStats(cmd.OutOrStdout(), &result, nil)
	return nil
}
