package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/splash/internal/config"
	"github.com/jmylchreest/splash/internal/theme"
)

var themesCmd = &cobra.Command{
	Use:   "themes",
	Short: "List bundled and user themes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		themes, err := theme.ListAvailableThemes(config.ThemesDir())
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		_, _ = fmt.Fprintln(w, "NAME\tSOURCE\tACTIVE")
		for _, t := range themes {
			source := "bundled"
			switch {
			case t.Overrides:
				source = "user (overrides bundled)"
			case !t.IsBundled:
				source = "user"
			}
			active := ""
			if t.Name == cfg.Theme.Name {
				active = "*"
			}
			_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", t.Name, source, active)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(themesCmd)
}
