package main

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/Klingon-tech/klingnet-mnemonic/config"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and write the configuration file",
	}
	cmd.AddCommand(newConfigInitCmd(a), newConfigShowCmd(a), newConfigCheckCmd(a))
	return cmd
}

// configPath is --config when given, else the file in the data directory.
func (a *app) configPath(cmd *cobra.Command) string {
	if p, err := cmd.Flags().GetString(config.ConfigFlag); err == nil && p != "" {
		return p
	}
	return a.cfg.ConfigFile()
}

func newConfigInitCmd(a *app) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the effective configuration to the config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := a.configPath(cmd)
			if err := a.cfg.EnsureDataDirs(); err != nil {
				return fmt.Errorf("create data dir: %w", err)
			}
			if err := config.WriteFile(path, a.cfg, force); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Config written: %s\n", path)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing file")
	return cmd
}

func newConfigShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as TOML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return toml.NewEncoder(a.out).Encode(a.cfg)
		},
	}
}

func newConfigCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check [file]",
		Short: "Validate a config file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.configPath(cmd)
			if len(args) == 1 {
				path = args[0]
			}
			cfg, err := config.ReadFile(path)
			if err != nil {
				return err
			}
			if err := config.Validate(cfg); err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			fmt.Fprintf(a.out, "Config OK: %s\n", path)
			return nil
		},
	}
}
