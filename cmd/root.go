package cmd

import (
	"context"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/LumeraProtocol/validator-registry/config"
	"github.com/LumeraProtocol/validator-registry/pkg/logtrace"
)

var (
	// Version info passed from main
	appVersion   string
	appGitCommit string
	appBuildTime string

	settings = viper.New()
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "validators-gen",
	Short: "Build validator lookup tables for mainnet and testnet",
	Long: `validators-gen aggregates the per-validator JSON files of each network
into two lookup tables keyed by the validator's secp public key:

- <network>_validators.json              secp -> full validator record
- <network>_validator_key_name_map.csv   secp_key,name

Run without arguments it processes mainnet/ and testnet/ one level above
the directory holding the binary.`,
	Args:              cobra.NoArgs,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setupLogging,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGenerate(cmd, nil)
	},
}

// Execute adds all child commands and executes the root command
func Execute(ver, commit, built string) error {
	appVersion = ver
	appGitCommit = commit
	appBuildTime = built

	defer logtrace.Sync()
	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	cobra.OnInitialize(loadEnvFiles)

	flags := rootCmd.PersistentFlags()
	flags.String("root", "", "Directory holding the network folders (default: parent of the binary's directory)")
	flags.String("config", "", "Optional YAML file listing networks and output names")
	flags.String("log-level", config.DefaultLogLevel, "Log level (debug, info, warn, error)")

	for _, key := range []string{"root", "config", "log-level"} {
		if err := settings.BindPFlag(key, flags.Lookup(key)); err != nil {
			panic(err)
		}
	}
	settings.SetEnvPrefix(config.DefaultEnvPrefix)
	settings.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	settings.AutomaticEnv()

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadEnvFiles loads environment variables from .env files.
// .env.local takes precedence over .env; neither overrides the real environment.
func loadEnvFiles() {
	for _, envFile := range []string{".env.local", ".env"} {
		_ = godotenv.Load(envFile)
	}
}

func setupLogging(cmd *cobra.Command, args []string) error {
	logtrace.Setup(config.DefaultServiceName, config.DefaultLogEnv, logtrace.ParseLevel(settings.GetString("log-level")))
	return nil
}
