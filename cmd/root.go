package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/ravelandante/field-tagger/internal/config"
	"github.com/ravelandante/field-tagger/internal/service"
	"github.com/ravelandante/field-tagger/internal/tui"

	"github.com/spf13/cobra"
)

var (
	cfg          *config.Config
	cfgFile      string
	profile      string
	logFile      string
	verboseLevel int

	logOutput io.WriteCloser
)

var rootCmd = &cobra.Command{
	Use:   "field-tagger [dir]",
	Short: "Listen to field recordings and tag them",
	Long: `field-tagger plays every recording found below a directory, one at a
time, and asks for a location and a list of tags for each.

After the last file every recording is converted to FLAC and the collected
tags and location are written into the last file's Vorbis comments.

Without a directory argument the configured input directory is used.`,
	Args: cobra.MaximumNArgs(1),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := setupLogging(verboseLevel, cmd == cmd.Root()); err != nil {
			return err
		}

		// Use default config path if not specified
		if cfgFile == "" {
			cfgFile = os.ExpandEnv("$HOME/.config/field-tagger.yaml")
		}

		var err error
		cfg, err = config.LoadWithProfile(cfgFile, profile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if logOutput != nil {
			return logOutput.Close()
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := ""
		if len(args) == 1 {
			dir = args[0]
		}
		return runSession(cmd.Context(), dir)
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/field-tagger.yaml)")
	rootCmd.PersistentFlags().StringVar(&profile, "profile", "", "configuration profile to use (overrides active_config from file)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "append logs to this file (the interactive session logs nowhere otherwise)")
	rootCmd.PersistentFlags().IntVarP(&verboseLevel, "verbose", "v", 0, "verbose level: 0=info, 1=debug")

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(configCmd)
}

// runSession annotates every file discovered below dir
func runSession(ctx context.Context, dir string) error {
	svc := service.New(cfg, cfgFile)

	files, err := svc.Discover(dir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		if dir == "" {
			dir = cfg.Input.Directory
		}
		fmt.Printf("No .%s files found in %s\n", strings.Join(cfg.Input.Extensions, "/."), dir)
		return nil
	}

	sess, err := svc.NewSession(ctx, files)
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer func() {
		if err := sess.Close(); err != nil {
			slog.Warn("Failed to close audio output", "error", err)
		}
	}()

	model := tui.New(sess.Controller, cfg.UI.TickInterval)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("terminal session failed: %w", err)
	}

	if err := model.Err(); err != nil {
		return err
	}
	if status := sess.Controller.State().Status; status != "" {
		fmt.Println(status)
	}
	return nil
}

// setupLogging configures slog based on the verbose level. The interactive
// session owns the terminal, so it only logs when --log-file is set.
func setupLogging(level int, interactive bool) error {
	var slogLevel slog.Level
	switch level {
	case 0:
		slogLevel = slog.LevelInfo
	default:
		slogLevel = slog.LevelDebug
	}

	var w io.Writer = os.Stderr
	switch {
	case logFile != "":
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		logOutput = f
		w = f
	case interactive:
		w = io.Discard
	}

	// Configure text handler for clean terminal output
	opts := &slog.HandlerOptions{
		Level: slogLevel,
	}
	handler := slog.NewTextHandler(w, opts)
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return nil
}
