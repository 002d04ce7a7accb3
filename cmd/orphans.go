package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/sw33tLie/dispensa/internal/utils"
)

var orphansCmd = &cobra.Command{
	Use:   "orphans",
	Short: "List stored categories that are not part of the known storage locations",
	Long: `Snapshots can contain categories that are no longer (or were never) part of the
fixed list of storage locations. Their items are preserved on every save but never
shown as editable. This command lists them, and removes one with --drop.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		d, err := openInventoryDB()
		if err != nil {
			return err
		}
		defer d.Close()

		if drop, _ := cmd.Flags().GetString("drop"); drop != "" {
			if err := d.lock.Lock(cmd.Context()); err != nil {
				return err
			}
			defer d.lock.Unlock()

			dropped, err := d.snaps.DropCategory(cmd.Context(), drop)
			if err != nil {
				return err
			}
			if !dropped {
				return fmt.Errorf("no stored category %q", drop)
			}
			utils.Log.Infof("Dropped category %q", drop)
			return nil
		}

		orphans, err := d.snaps.Orphans(cmd.Context())
		if err != nil {
			return err
		}
		if len(orphans) == 0 {
			fmt.Println("No orphaned categories.")
			return nil
		}
		for _, o := range orphans {
			fmt.Printf("%s\t%d items\n", o.Category, o.Items)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(orphansCmd)
	orphansCmd.Flags().String("drop", "", "Remove this orphaned category and all its items")
}
