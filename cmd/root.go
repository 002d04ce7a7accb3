package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/sw33tLie/dispensa/internal/utils"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

var cfgFile string

const (
	LOGO = `	     _ _
	  __| (_)___ _ __   ___ _ __  ___  __ _
	 / _' | / __| '_ \ / _ \ '_ \/ __|/ _' |
	| (_| | \__ \ |_) |  __/ | | \__ \ (_| |
	 \__,_|_|___/ .__/ \___|_| |_|___/\__,_|
	            |_|
`
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "dispensa",
	Short: "A household food inventory with expiry tracking.",
	Long: LOGO + `dispensa keeps track of the food stored in your fridges, pantry and freezer,
grouped by storage location, with expiry warnings and running totals.

Run "dispensa web" for the browser interface, or manage items from the command line.`,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		levelString, _ := cmd.Flags().GetString("loglevel")
		return utils.SetLogLevel(levelString)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.dispensa.yaml)")

	// Global flags
	rootCmd.PersistentFlags().StringP("loglevel", "l", "info", "Set log level. Available: debug, info, warn, error, fatal")
	rootCmd.PersistentFlags().String("dbpath", "", "Path to SQLite DB file (default: ~/.config/dispensa/dispensa.sqlite)")
	viper.BindPFlag("storage.path", rootCmd.PersistentFlags().Lookup("dbpath"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		viper.AddConfigPath(home)
		viper.SetConfigName(".dispensa")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("dispensa")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Set default empty values for all keys
	viper.SetDefault("storage.path", "")
	viper.SetDefault("web.bind", ":9999")
	viper.SetDefault("web.username", "")
	viper.SetDefault("web.password", "")

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Printf("Error reading config file: %s\n", err)
		}
	}
}
