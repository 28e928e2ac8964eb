package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/molpatch/pkg/reaction"
)

// validateCommand creates the validate command for checking reaction files.
func (c *CLI) validateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [reaction.toml]",
		Short: "Check a reaction definition and summarize what it does",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			def, err := reaction.LoadFile(args[0])
			if err != nil {
				return err
			}
			if _, err := def.Reactor(); err != nil {
				return err
			}
			loggerFromContext(cmd.Context()).Debug("reaction built", "name", def.Name)

			s := def.Summarize()
			printSuccess("%s is valid", StyleTitle.Render(def.Name))
			if def.Description != "" {
				printInfo("%s", def.Description)
			}
			printKeyValue("Pattern", fmt.Sprintf("%d atoms", s.PatternAtoms))
			printKeyValue("Template", fmt.Sprintf("%d atoms, %d bonds", s.TemplateAtoms, s.TemplateBonds))
			printKeyValue("Removed", fmtIDs(s.Removed))
			printKeyValue("Fresh", fmtIDs(s.Fresh))
			printKeyValue("Masked", fmtIDs(s.Masked))
			printKeyValue("Delete atoms", strconv.FormatBool(*def.DeleteAtoms))
			printKeyValue("Fix rings", strconv.FormatBool(def.FixRings))
			printKeyValue("Fix tautomers", strconv.FormatBool(def.FixTautomers))
			return nil
		},
	}
}
