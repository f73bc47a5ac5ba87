package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/gisops/webtool/internal/scaffold"
)

// executionTypes contains valid service execution modes for shell completion.
var executionTypes = []string{"Synchronous", "Asynchronous"}

// completeTemplateNames provides shell completion for template names.
func completeTemplateNames(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	templates, err := scaffold.ListTemplates()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}

	var matches []string
	for _, t := range templates {
		if strings.HasPrefix(t, toComplete) {
			matches = append(matches, t)
		}
	}
	return matches, cobra.ShellCompDirectiveNoFileComp
}

// completeExecutionTypes provides shell completion for --execution-type.
func completeExecutionTypes(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	var matches []string
	for _, t := range executionTypes {
		if strings.HasPrefix(strings.ToLower(t), strings.ToLower(toComplete)) {
			matches = append(matches, t)
		}
	}
	return matches, cobra.ShellCompDirectiveNoFileComp
}
