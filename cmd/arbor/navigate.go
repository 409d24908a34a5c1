package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/phanxgames/arbor"
)

var navigateCmd = &cobra.Command{
	Use:   "navigate <scene.yaml> <step>...",
	Short: "Walk keyboard focus through a scene",
	Long: `Loads a scene description and replays focus steps against it, printing
where focus lands after each one. A step is "next" (Tab) or "prev" (Shift+Tab).`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup(cmd)
		if err != nil {
			return err
		}
		scene, err := loadScene(args[0], cfg, logger)
		if err != nil {
			return err
		}
		return runNavigate(cmd.OutOrStdout(), scene, args[1:])
	},
}

func init() {
	rootCmd.AddCommand(navigateCmd)
}

// runNavigate injects a Tab or Shift+Tab per step and runs frames until the
// key press has been consumed.
func runNavigate(w io.Writer, scene *arbor.Scene, steps []string) error {
	scene.Update()
	for _, step := range steps {
		var backward bool
		switch strings.ToLower(step) {
		case "next", "tab":
		case "prev", "shift-tab":
			backward = true
		default:
			return fmt.Errorf("unknown step %q (want next or prev)", step)
		}
		scene.InjectTab(backward)
		for scene.PendingInjections() > 0 {
			scene.Update()
		}
		snap := scene.Snapshot()
		if _, err := fmt.Fprintf(w, "%-5s -> %s\n", step, describe(snap, snap.Focus)); err != nil {
			return err
		}
	}
	return nil
}
