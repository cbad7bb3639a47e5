package cmd

import (
	"fmt"
	"log/slog"

	"github.com/ravelandante/field-tagger/internal/service"

	"github.com/spf13/cobra"
)

var scanCmd = &cobra.Command{
	Use:   "scan [dir]",
	Short: "List the recordings a session would walk through",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := ""
		if len(args) == 1 {
			dir = args[0]
		}

		files, err := service.New(cfg, cfgFile).Discover(dir)
		if err != nil {
			return err
		}

		for _, f := range files {
			fmt.Println(f)
		}
		slog.Info("Scan completed", "files", len(files))
		return nil
	},
}
