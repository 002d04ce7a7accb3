package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/sw33tLie/dispensa/pkg/expiry"
	"github.com/sw33tLie/dispensa/pkg/form"
	"github.com/sw33tLie/dispensa/pkg/inventory"
	"github.com/sw33tLie/dispensa/pkg/view"
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Prints the inventory grouped by category with expiry status and totals.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		category, _ := cmd.Flags().GetString("category")
		if category != "" {
			if err := requireCategory(category); err != nil {
				return err
			}
		}

		return withController(cmd.Context(), func(ctrl *form.Controller) error {
			ctrl.Read(func(store *inventory.Store, _ form.State) {
				printInventory(store, category, time.Now())
			})
			return nil
		})
	},
}

func printInventory(store *inventory.Store, only string, now time.Time) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	for _, c := range inventory.AllCategories() {
		if only != "" && c.Name != only {
			continue
		}
		items := store.Items(c.Name)
		fmt.Fprintf(w, "%s %s (%d)\t\t\t\t\t\n", c.Icon, c.Name, len(items))
		for i, it := range items {
			days := expiry.DaysRemaining(it.Expiry.Time(), now)
			fmt.Fprintf(w, "  #%d\t%.8s\t%s\t%s\t%d giorni\t%s\t%s\n", i+1, it.ID, it.Name, it.Expiry, days, expiry.Classify(days), view.Euro(it.Price))
		}
		fmt.Fprintf(w, "  \t\t\t\t\tTotale\t%s\n", view.Euro(store.TotalPrice(c.Name)))
	}
	w.Flush()
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().StringP("category", "c", "", "Only show this category")
}
