package cli

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rileyhilliard/dbdash/internal/config"
	"github.com/rileyhilliard/dbdash/internal/errors"
	"github.com/rileyhilliard/dbdash/internal/ui"
)

var (
	configInitForce  bool
	configInitGlobal bool
)

// ConfigOutput is the --json form of the config commands.
type ConfigOutput struct {
	Path   string         `json:"path"`
	Config map[string]any `json:"config,omitempty"`
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the dbdash config file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with the defaults",
	Long: `Write a config file with every setting at its default.

The file goes to ./.dbdash.yaml, to ~/.config/dbdash/config.yaml with
--global, or to the --config path. An existing file is kept unless --force
is given. --api sets api.base_url in the new file.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return configInitCommand(cmd.OutOrStdout(), configInitForce, configInitGlobal)
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the resolved config",
	Long: `Print the config dbdash would run with: the file that was found, with
environment variables and flags applied on top.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return configShowCommand(cmd.OutOrStdout())
	},
}

func init() {
	configInitCmd.Flags().BoolVarP(&configInitForce, "force", "f", false, "overwrite an existing file")
	configInitCmd.Flags().BoolVar(&configInitGlobal, "global", false, "write ~/.config/dbdash/config.yaml")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd)
}

// initPath picks where config init writes.
func initPath(global bool) (string, error) {
	switch {
	case cfgFile != "":
		return config.ExpandTilde(cfgFile), nil
	case global:
		p := config.GlobalPath()
		if p == "" {
			return "", errors.New(errors.ErrConfig,
				"Can't find your home directory",
				"Pass the target file with --config instead.")
		}
		return p, nil
	default:
		return config.ConfigFileName, nil
	}
}

func configInitCommand(out io.Writer, force, global bool) error {
	path, err := initPath(global)
	if err != nil {
		return err
	}

	cfg := config.DefaultConfig()
	if apiURL != "" {
		cfg.API.BaseURL = apiURL
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}
	if err := config.Write(path, cfg, force); err != nil {
		return err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	if machineMode {
		return WriteJSONSuccess(out, ConfigOutput{Path: abs})
	}
	fmt.Fprintf(out, "%s Wrote %s\n", okStyle.Render(ui.SymbolSuccess), abs)
	return nil
}

func configShowCommand(out io.Writer) error {
	cfg, path, err := loadConfig()
	if err != nil {
		return err
	}
	data, err := config.Marshal(cfg)
	if err != nil {
		return err
	}

	if machineMode {
		var m map[string]any
		if err := yaml.Unmarshal(data, &m); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig, "Couldn't encode config", "")
		}
		return WriteJSONSuccess(out, ConfigOutput{Path: path, Config: m})
	}

	source := path
	if source == "" {
		source = "defaults (no config file found)"
	}
	fmt.Fprintln(out, mutedStyle.Render("# source: "+source))
	fmt.Fprint(out, string(data))
	return nil
}
