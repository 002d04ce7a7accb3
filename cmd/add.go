package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/sw33tLie/dispensa/pkg/form"
)

// addCmd represents the add command
var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add an item to a category",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fields := fieldsFromFlags(cmd)

		return withController(cmd.Context(), func(ctrl *form.Controller) error {
			ctrl.OpenCreate()
			item, err := ctrl.Submit(cmd.Context(), fields)
			if err != nil {
				return submitError(err)
			}
			fmt.Printf("✅ Added %s to %s (id %s)\n", item.Name, fields.Category, item.ID)
			return nil
		})
	},
}

func fieldsFromFlags(cmd *cobra.Command) form.Fields {
	var f form.Fields
	f.Name, _ = cmd.Flags().GetString("name")
	f.Category, _ = cmd.Flags().GetString("category")
	f.Expiry, _ = cmd.Flags().GetString("expiry")
	f.Price, _ = cmd.Flags().GetString("price")
	return f
}

func submitError(err error) error {
	var verr *form.ValidationError
	if errors.As(err, &verr) {
		return fmt.Errorf("%s (%v)", form.AlertInvalid, verr)
	}
	return err
}

func init() {
	rootCmd.AddCommand(addCmd)
	addCmd.Flags().StringP("name", "n", "", "Item name")
	addCmd.Flags().StringP("category", "c", "", "Category the item is stored in")
	addCmd.Flags().StringP("expiry", "e", "", "Expiry date (YYYY-MM-DD)")
	addCmd.Flags().StringP("price", "p", "", "Price in euro")
}
