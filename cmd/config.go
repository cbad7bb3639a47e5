package cmd

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/spf13/cobra"
)

var showInheritance bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long:  `View field-tagger configuration settings.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		out, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("error marshaling config: %w", err)
		}
		fmt.Print(string(out))

		if showInheritance {
			inh := cfg.Inheritance
			if inh == nil {
				fmt.Printf("\n(built-in defaults, no profile loaded)\n")
				return nil
			}
			fmt.Printf("\n=== INHERITANCE ===\n")
			fmt.Printf("input: %s\n", getInheritanceIndicator(inh.Input))
			fmt.Printf("playback: %s\n", getInheritanceIndicator(inh.Playback))
			fmt.Printf("output: %s\n", getInheritanceIndicator(inh.Output))
			fmt.Printf("metadata: %s\n", getInheritanceIndicator(inh.Metadata))
			fmt.Printf("ui: %s\n", getInheritanceIndicator(inh.UI))
		}
		return nil
	},
}

// getInheritanceIndicator returns a formatted indicator for inheritance status
func getInheritanceIndicator(status string) string {
	switch status {
	case "inherited":
		return "[inherited]"
	case "profile-specific":
		return "[profile-specific]"
	default:
		return "[unknown]"
	}
}

func init() {
	configShowCmd.Flags().BoolVar(&showInheritance, "inheritance", false, "show which sections come from the selected profile")
	configCmd.AddCommand(configShowCmd)
}
