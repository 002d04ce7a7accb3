package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Print the stored inventory snapshot as JSON",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		d, err := openInventoryDB()
		if err != nil {
			return err
		}
		defer d.Close()

		raw, err := d.snaps.Raw(cmd.Context())
		if err != nil {
			return err
		}
		if raw == nil {
			raw = []byte("{}")
		}
		_, err = fmt.Fprintln(os.Stdout, string(raw))
		return err
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
}
