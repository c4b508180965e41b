package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/inclove/inclove/internal/a11y"
)

var (
	prefsReset bool
	prefsJSON  bool

	prefsCmd = &cobra.Command{
		Use:     "prefs",
		Short:   "Show or reset the saved accessibility preferences",
		Long:    paragraph(fmt.Sprintf("\n%s the accessibility preferences every page shares. Running inclove changes them; this command only reads or resets them.", keyword("Show"))),
		Example: paragraph("inclove prefs\ninclove prefs --json\ninclove prefs --reset"),
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, path, err := openStore()
			if err != nil {
				return err
			}

			p := store.Load()
			if prefsReset {
				p = a11y.Defaults()
				if err := store.Save(p); err != nil {
					return err
				}
				fmt.Fprintln(cmd.ErrOrStderr(), "Reset preferences in:", path)
			}

			if prefsJSON {
				b, err := json.MarshalIndent(p, "", "  ")
				if err != nil {
					return fmt.Errorf("unable to encode preferences: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(b))
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), prefsView(p))
			return nil
		},
	}
)

func init() {
	prefsCmd.Flags().BoolVar(&prefsReset, "reset", false, "restore the default preferences")
	prefsCmd.Flags().BoolVar(&prefsJSON, "json", false, "print the stored record as JSON")
}

func prefsView(p a11y.Preferences) string {
	rows := []struct{ name, value string }{
		{"Screen reader", onOff(p.ScreenReader)},
		{"High contrast", onOff(p.HighContrast)},
		{"Colorblind mode", string(p.ColorBlind)},
		{"Zoom", fmt.Sprintf("%s (%d%%)", a11y.ZoomName(p.Zoom), a11y.ZoomPercent(p.Zoom))},
		{"Reduce motion", onOff(p.ReduceMotion)},
		{"Voice commands", onOff(p.VoiceCommands)},
		{"Dark mode", onOff(p.DarkMode)},
	}
	var s string
	for _, r := range rows {
		s += "  " + prefName(r.name) + keyword(r.value) + "\n"
	}
	return s
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
