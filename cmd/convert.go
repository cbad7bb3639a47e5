package cmd

import (
	"fmt"
	"log/slog"

	"github.com/ravelandante/field-tagger/internal/convert"
	"github.com/ravelandante/field-tagger/internal/service"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"

	"github.com/spf13/cobra"
)

var convertCmd = &cobra.Command{
	Use:   "convert [dir]",
	Short: "Convert every recording without tagging",
	Long:  `Convert every discovered recording to the configured lossless format. Outputs are written next to their inputs. Conversion stops at the first failure; files already converted are kept.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := ""
		if len(args) == 1 {
			dir = args[0]
		}

		svc := service.New(cfg, cfgFile)
		files, err := svc.Discover(dir)
		if err != nil {
			return err
		}
		if len(files) == 0 {
			fmt.Println("Nothing to convert")
			return nil
		}

		p := mpb.NewWithContext(cmd.Context(), mpb.WithWidth(64), mpb.WithOutput(cmd.OutOrStdout()))
		bar := p.AddBar(int64(len(files)),
			mpb.PrependDecorators(
				decor.Name("Converting: "),
				decor.CountersNoUnit("%d / %d"),
			),
			mpb.AppendDecorators(
				decor.Percentage(),
				decor.Elapsed(decor.ET_STYLE_GO),
			),
		)

		jobs, err := svc.Convert(cmd.Context(), files, func(done int, job convert.Job) {
			bar.Increment()
		})
		if err != nil {
			bar.Abort(false)
		}
		p.Wait()

		if err != nil {
			return err
		}
		slog.Info("Conversion completed", "files", len(jobs))
		return nil
	},
}
