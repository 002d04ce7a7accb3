package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/sw33tLie/dispensa/pkg/form"
	"github.com/sw33tLie/dispensa/pkg/inventory"
)

// rmCmd represents the rm command
var rmCmd = &cobra.Command{
	Use:     "rm <id|#position>",
	Aliases: []string{"delete"},
	Short:   "Delete an item after confirmation",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		category, _ := cmd.Flags().GetString("category")
		if err := requireCategory(category); err != nil {
			return err
		}
		yes, _ := cmd.Flags().GetBool("yes")

		return withController(cmd.Context(), func(ctrl *form.Controller) error {
			var (
				it  inventory.Item
				err error
			)
			ctrl.Read(func(store *inventory.Store, _ form.State) {
				it, err = resolveItem(store, category, args[0])
			})
			if err != nil {
				return err
			}

			confirm := promptConfirm(os.Stdin, os.Stdout)
			if yes {
				confirm = nil
			}
			deleted, err := ctrl.Delete(cmd.Context(), category, it.ID, confirm)
			if err != nil {
				return err
			}
			if !deleted {
				fmt.Println("Nothing deleted.")
				return nil
			}
			fmt.Printf("✅ Deleted %s from %s\n", it.Name, category)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(rmCmd)
	rmCmd.Flags().StringP("category", "c", "", "Category the item is stored in")
	rmCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
}
