package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/sawpanic/tradebias/internal/config"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Engine configuration file management",
	}
	cmd.AddCommand(newConfigInitCmd())
	return cmd
}

func newConfigInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write a conservative starting engine configuration",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runConfigInit,
	}
	return cmd
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := config.DefaultConfigPath()
	if len(args) == 1 {
		path = args[0]
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}
	}
	if err := config.Save(config.Default(), path); err != nil {
		return fmt.Errorf("writing engine config: %w", err)
	}
	fmt.Printf("wrote default engine configuration to %s\n", path)
	return nil
}
