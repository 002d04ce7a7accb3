package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/sw33tLie/dispensa/internal/server"
	"github.com/sw33tLie/dispensa/internal/utils"
	"github.com/sw33tLie/dispensa/pkg/form"
	"github.com/sw33tLie/dispensa/pkg/storage"
)

// webCmd represents the web command
var webCmd = &cobra.Command{
	Use:   "web",
	Short: "Start the dispensa web interface",
	Long:  `Start a web server to view and manage your food inventory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		memory, _ := cmd.Flags().GetBool("memory")

		var (
			snaps *storage.Snapshots
			saver form.Saver
		)
		if memory {
			utils.Log.Warn("Using in-memory storage, nothing will be kept after exit")
			snaps = storage.NewSnapshots(storage.NewMemory())
			saver = snaps
		} else {
			d, err := openInventoryDB()
			if err != nil {
				return err
			}
			defer d.Close()
			snaps = d.snaps
			saver = lockedSaver{snaps: d.snaps, lock: d.lock}
		}

		store, err := snaps.Load(ctx)
		if err != nil {
			return fmt.Errorf("could not load inventory: %w", err)
		}
		utils.Log.Infof("Loaded %d items", store.Len())

		orphans, err := snaps.Orphans(ctx)
		if err != nil {
			return err
		}
		for _, o := range orphans {
			utils.Log.Warnf("Category %q is not known: its %d items are kept but cannot be edited", o.Category, o.Items)
		}

		srv := server.New(form.NewController(store, saver), viper.GetString("web.username"), viper.GetString("web.password"))
		return srv.Start(viper.GetString("web.bind"))
	},
}

func init() {
	rootCmd.AddCommand(webCmd)

	webCmd.Flags().StringP("bind", "b", ":9999", "Address to bind the server to")
	webCmd.Flags().StringP("username", "u", "", "Username for basic auth (optional)")
	webCmd.Flags().StringP("password", "p", "", "Password for basic auth (optional)")
	webCmd.Flags().Bool("memory", false, "Keep the inventory in memory only (for trying things out)")
	viper.BindPFlag("web.bind", webCmd.Flags().Lookup("bind"))
	viper.BindPFlag("web.username", webCmd.Flags().Lookup("username"))
	viper.BindPFlag("web.password", webCmd.Flags().Lookup("password"))
}
