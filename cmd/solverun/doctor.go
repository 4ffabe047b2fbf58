package main

import (
	"fmt"
	"os"

	"solve-launcher/internal/app"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newDoctorCmd() *cobra.Command {
	var flags runFlags
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose the environment for the configured run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadRunConfig(cmd, &flags)
			if err != nil {
				return err
			}

			res := app.RunDoctor(cfg)
			w := cmd.OutOrStdout()
			for _, check := range res.Checks {
				status := "  ok"
				if !check.OK {
					status = "FAIL"
				}
				if check.Message != "" {
					fmt.Fprintf(w, "%s  %-12s %s\n", status, check.ID, check.Message)
				} else {
					fmt.Fprintf(w, "%s  %-12s\n", status, check.ID)
				}
			}
			if !res.OK {
				return fmt.Errorf("doctor found problems")
			}
			return nil
		},
	}
	registerRunFlags(cmd, &flags)
	return cmd
}

func newToolsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tools",
		Short: "List known solve tools",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			defaults := make(map[string]bool)
			for _, name := range app.DefaultTools() {
				defaults[name] = true
			}

			w := cmd.OutOrStdout()
			for _, tool := range app.KnownTools() {
				marker := " "
				if defaults[tool.Name] {
					marker = "*"
				}
				fmt.Fprintf(w, "%s %-32s %s\n", marker, tool.Name, tool.Description)
			}
			fmt.Fprintln(w, "\n* enabled by default")
			return nil
		},
	}
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the solverun config file",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with the default run configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := flagConfig
			if path == "" {
				path = app.DefaultConfigPath()
			}
			if path == "" {
				return fmt.Errorf("no config path available; pass --config")
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			if err := app.SaveConfig(app.DefaultConfig(), path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config file")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective run configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.LoadConfig(flagConfig)
			if err != nil {
				return err
			}
			out, err := yaml.Marshal(cfg)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), string(out))
			return nil
		},
	}

	cmd.AddCommand(initCmd, showCmd)
	return cmd
}
