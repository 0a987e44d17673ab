package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/autolysis-cli/internal/workspace"
)

var (
	listWorkspaces bool
	listReports    bool
	listWsName     string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List workspaces or the reports in one",
	RunE: func(cmd *cobra.Command, args []string) error {
		if listWorkspaces == listReports { // either both true or both false
			return fmt.Errorf("specify exactly one of --workspaces or --reports")
		}
		if listWorkspaces {
			return listAllWorkspaces()
		}
		// list reports
		if listWsName == "" {
			return fmt.Errorf("--workspace is required when using --reports")
		}
		dir, err := resolveWorkspaceDirByName(listWsName)
		if err != nil {
			return err
		}
		ws, err := workspace.Load(dir)
		if err != nil {
			return err
		}
		refs := ws.SortedReports()
		if len(refs) == 0 {
			fmt.Println("(no reports)")
			return nil
		}
		for _, r := range refs {
			fmt.Printf("- %s: %s (%d rows, %d columns) -> %s [%s]\n",
				r.ID, r.Dataset, r.Rows, r.Columns, r.Path, r.CreatedAt.Format("2006-01-02 15:04"))
		}
		return nil
	},
}

func listAllWorkspaces() error {
	root, err := defaultWorkspacesRoot()
	if err != nil {
		return err
	}
	dirs, err := os.ReadDir(root)
	if err != nil {
		return err
	}
	found := false
	for _, e := range dirs {
		if !e.IsDir() {
			continue
		}
		wj := filepath.Join(root, e.Name(), "workspace.json")
		if _, err := os.Stat(wj); err == nil {
			ws, loadErr := workspace.Load(filepath.Join(root, e.Name()))
			if loadErr != nil {
				fmt.Printf("- %s (unreadable: %v)\n", e.Name(), loadErr)
			} else {
				fmt.Printf("- %s (%d reports)\n", e.Name(), len(ws.Reports))
			}
			found = true
		}
	}
	if !found {
		fmt.Println("(no workspaces)")
	}
	return nil
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listWorkspaces, "workspaces", false, "list workspaces")
	listCmd.Flags().BoolVar(&listReports, "reports", false, "list reports in a workspace")
	listCmd.Flags().StringVarP(&listWsName, "workspace", "w", "", "workspace name for --reports")
}
