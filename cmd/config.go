package cmd

import (
	"os"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/tasker-cli/tasker/internal/clierr"
	"github.com/tasker-cli/tasker/internal/config"
	"github.com/tasker-cli/tasker/internal/output"
	"github.com/tasker-cli/tasker/internal/task"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or modify configuration",
	Long:  `View the full configuration, get a specific key, or set a writable value.`,
	RunE:  runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the full configuration",
	RunE:  runConfigShow,
}

var configGetCmd = &cobra.Command{
	Use:   "get KEY",
	Short: "Get a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2), //nolint:mnd // key and value
	RunE:  runConfigSet,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

// configAccessor describes how to get and set a config key.
type configAccessor struct {
	get      func(*config.Config) any
	set      func(*config.Config, string) error
	writable bool
}

func configAccessors() map[string]configAccessor {
	return map[string]configAccessor{
		"version": {
			get: func(c *config.Config) any { return c.Version },
		},
		"db_file": {
			get: func(c *config.Config) any { return c.DBFile },
		},
		"defaults.priority": {
			get: func(c *config.Config) any { return c.Defaults.Priority },
			set: func(c *config.Config, v string) error {
				if _, ok := task.ParsePriority(v); !ok {
					return clierr.Newf(clierr.InvalidPriority,
						"invalid priority %q (high, medium, low)", v)
				}
				c.Defaults.Priority = v
				return nil
			},
			writable: true,
		},
		"defaults.category": {
			get: func(c *config.Config) any { return c.Defaults.Category },
			set: func(c *config.Config, v string) error {
				if v == "" {
					c.Defaults.Category = ""
					return nil
				}
				parsed, ok := task.ParseCategory(v)
				if !ok {
					return task.ValidateCategory(task.Category(v))
				}
				c.Defaults.Category = string(parsed)
				return nil
			},
			writable: true,
		},
		"covers.enabled": {
			get: func(c *config.Config) any { return c.Covers.Enabled },
			set: func(c *config.Config, v string) error {
				b, err := strconv.ParseBool(v)
				if err != nil {
					return clierr.Newf(clierr.InvalidInput, "invalid boolean %q", v)
				}
				c.Covers.Enabled = b
				return nil
			},
			writable: true,
		},
		"covers.omdb_api_key": {
			get: func(c *config.Config) any { return c.Covers.OMDBKey },
			set: func(c *config.Config, v string) error {
				c.Covers.OMDBKey = v
				return nil
			},
			writable: true,
		},
	}
}

func runConfigShow(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	accessors := configAccessors()
	keys := make([]string, 0, len(accessors))
	for k := range accessors {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	if outputFormat() == output.FormatJSON {
		values := make(map[string]any, len(keys))
		for _, k := range keys {
			values[k] = accessors[k].get(cfg)
		}
		return output.JSON(os.Stdout, values)
	}

	for _, k := range keys {
		output.Messagef(os.Stdout, "%-22s %v", k, accessors[k].get(cfg))
	}
	return nil
}

func runConfigGet(_ *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	acc, ok := configAccessors()[args[0]]
	if !ok {
		return clierr.Newf(clierr.InvalidInput, "unknown config key %q", args[0])
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]any{args[0]: acc.get(cfg)})
	}
	output.Messagef(os.Stdout, "%v", acc.get(cfg))
	return nil
}

func runConfigSet(_ *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	key, value := args[0], args[1]
	acc, ok := configAccessors()[key]
	if !ok {
		return clierr.Newf(clierr.InvalidInput, "unknown config key %q", key)
	}
	if !acc.writable {
		return clierr.Newf(clierr.InvalidInput, "config key %q is read-only", key)
	}

	if err := acc.set(cfg, value); err != nil {
		return err
	}
	if err := cfg.Save(); err != nil {
		return err
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]any{key: acc.get(cfg)})
	}
	output.Messagef(os.Stdout, "Set %s = %v", key, acc.get(cfg))
	return nil
}
