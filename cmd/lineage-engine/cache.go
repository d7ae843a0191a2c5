package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the persistent result cache",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the persistent result cache",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cfg.Cache.Path == "" {
			return fmt.Errorf("no persistent cache configured (set cache.path)")
		}
		if err := os.Remove(cfg.Cache.Path); err != nil {
			if os.IsNotExist(err) {
				logger.Info("cache already empty", "path", cfg.Cache.Path)
				return nil
			}
			return fmt.Errorf("removing cache: %w", err)
		}
		logger.Info("cache cleared", "path", cfg.Cache.Path)
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}
