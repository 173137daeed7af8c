package cmd

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/LumeraProtocol/validator-registry/config"
	"github.com/LumeraProtocol/validator-registry/pkg/logtrace"
	"github.com/LumeraProtocol/validator-registry/pkg/validators"
)

// generateCmd builds the lookup tables for some or all networks
var generateCmd = &cobra.Command{
	Use:   "generate [network...]",
	Short: "Generate validator tables for the given networks",
	Long: `Generate the JSON and CSV validator tables. With no arguments every
configured network is processed in order; otherwise only the named ones.`,
	RunE: runGenerate,
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = logtrace.CtxWithCorrelationID(ctx, uuid.NewString())

	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	networks, err := cfg.Select(args)
	if err != nil {
		return err
	}

	for _, network := range networks {
		if _, err := validators.Generate(ctx, targetFor(network), cmd.OutOrStdout()); err != nil {
			// Wrapf records the stack that main prints with %+v
			return errors.Wrapf(err, "generate %s validators", network.Name)
		}
	}
	return nil
}

// loadConfig resolves the root directory and network list from flags,
// environment and the optional config file.
func loadConfig(ctx context.Context) (*config.Config, error) {
	root := settings.GetString("root")
	if file := settings.GetString("config"); file != "" {
		return config.LoadConfig(ctx, file, root)
	}

	if root == "" {
		var err error
		if root, err = config.DefaultRoot(); err != nil {
			return nil, err
		}
	}
	logtrace.Debug(ctx, "Using default network layout", logtrace.Fields{
		logtrace.FieldDir: root,
	})
	return config.Default(root), nil
}

func targetFor(n config.Network) validators.Target {
	return validators.Target{
		Name:     n.Name,
		Dir:      n.Dir,
		JSONPath: n.JSONPath(),
		CSVPath:  n.CSVPath(),
	}
}
