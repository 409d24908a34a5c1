package main

import (
	"encoding/json"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/phanxgames/arbor"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <scene.yaml>",
	Short: "Print the accessibility tree of a scene",
	Long: `Loads a scene description, runs it for the given number of frames and
prints the projected accessibility tree.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup(cmd)
		if err != nil {
			return err
		}
		asJSON, _ := cmd.Flags().GetBool("json")
		frames, _ := cmd.Flags().GetInt("frames")

		scene, err := loadScene(args[0], cfg, logger)
		if err != nil {
			return err
		}
		return runInspect(cmd.OutOrStdout(), scene, frames, asJSON)
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().Bool("json", false, "print the tree as JSON")
	inspectCmd.Flags().Int("frames", 1, "frames to run before printing")
}

func runInspect(w io.Writer, scene *arbor.Scene, frames int, asJSON bool) error {
	for range max(frames, 1) {
		scene.Update()
	}
	snap := scene.Snapshot()
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(snap)
	}
	return renderTree(w, snap, lipgloss.NewRenderer(w))
}
