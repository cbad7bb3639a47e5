package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ravelandante/field-tagger/internal/service"
	"gopkg.in/yaml.v3"

	"github.com/spf13/cobra"
)

var infoYAML bool

var infoCmd = &cobra.Command{
	Use:   "info <file>",
	Short: "Show the tags and location stored in a converted file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		info, err := service.New(cfg, cfgFile).Info(args[0])
		if err != nil {
			return err
		}

		if infoYAML {
			out, err := yaml.Marshal(info)
			if err != nil {
				return fmt.Errorf("error marshaling file info: %w", err)
			}
			fmt.Print(string(out))
			return nil
		}

		fmt.Printf("=== FILE ===\n")
		fmt.Printf("path: %s\n", info.Path)
		fmt.Printf("size: %s\n", info.SizeHuman)
		fmt.Printf("modified: %s\n", info.ModTime.Format("2006-01-02 15:04:05"))

		fmt.Printf("\n=== METADATA ===\n")
		fmt.Printf("location: %s\n", valueOrNone(info.Location))
		fmt.Printf("tags: %s\n", valueOrNone(strings.Join(info.Tags, ", ")))

		if len(info.Comments) > 0 {
			fmt.Printf("\n=== ALL COMMENTS ===\n")
			keys := make([]string, 0, len(info.Comments))
			for k := range info.Comments {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				fmt.Printf("%s: %s\n", k, info.Comments[k])
			}
		}
		return nil
	},
}

func valueOrNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}

func init() {
	infoCmd.Flags().BoolVar(&infoYAML, "yaml", false, "print as YAML")
}
