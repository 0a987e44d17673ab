package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/autolysis-cli/internal/workspace"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init [name]",
	Short: "Create a workspace for collecting analysis reports",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		root, err := defaultWorkspacesRoot()
		if err != nil {
			return err
		}
		ws, err := workspace.Create(root, name, initForce)
		if err != nil {
			return err
		}
		fmt.Printf("✓ Created workspace %s at %s\n", ws.Name, ws.RootDir())
		fmt.Printf("  Attach reports with: autolysis analyze <file> -w %s\n", ws.Name)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVar(&initForce, "force", false, "reinitialize even if the workspace already exists")
}
