package main

import (
	"fmt"

	mcobra "github.com/muesli/mango-cobra"
	"github.com/muesli/roff"
	"github.com/spf13/cobra"
)

var manCmd = &cobra.Command{
	Use:                   "man",
	Short:                 "Generates manpages",
	SilenceUsage:          true,
	DisableFlagsInUseLine: true,
	Hidden:                true,
	Args:                  cobra.NoArgs,
	RunE: func(*cobra.Command, []string) error {
		page, err := mcobra.NewManPage(1, rootCmd)
		if err != nil {
			return err //nolint:wrapcheck
		}

		page = page.WithSection("Copyright", "(C) 2026 The inclove authors.\n"+
			"Released under MIT license.")
		fmt.Println(page.Build(roff.NewDocument()))
		return nil
	},
}
