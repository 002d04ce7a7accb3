package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/sw33tLie/dispensa/pkg/form"
	"github.com/sw33tLie/dispensa/pkg/inventory"
)

// editCmd represents the edit command
var editCmd = &cobra.Command{
	Use:   "edit <id|#position>",
	Short: "Edit the name, expiry or price of an item",
	Long: `Edit an item identified by its id (or a unique id prefix) or by its 1-based
position in the category, e.g. "#2". Fields that are not given keep their value.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		category, _ := cmd.Flags().GetString("category")
		if err := requireCategory(category); err != nil {
			return err
		}

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

			if err := ctrl.OpenEdit(category, it.ID); err != nil {
				return err
			}
			fields := ctrl.State().Fields
			for flag, dst := range map[string]*string{"name": &fields.Name, "expiry": &fields.Expiry, "price": &fields.Price} {
				if cmd.Flags().Changed(flag) {
					*dst, _ = cmd.Flags().GetString(flag)
				}
			}

			updated, err := ctrl.Submit(cmd.Context(), fields)
			if err != nil {
				return submitError(err)
			}
			fmt.Printf("✅ Updated %s in %s\n", updated.Name, category)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(editCmd)
	editCmd.Flags().StringP("category", "c", "", "Category the item is stored in")
	editCmd.Flags().StringP("name", "n", "", "New name")
	editCmd.Flags().StringP("expiry", "e", "", "New expiry date (YYYY-MM-DD)")
	editCmd.Flags().StringP("price", "p", "", "New price in euro")
}
