package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/five82/gallery/internal/logtail"
)

func newLogsCmd() *cobra.Command {
	var (
		lines   int
		level   string
		noColor bool
	)

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show the tail of the browse log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			minLevel, err := log.ParseLevel(strings.ToLower(level))
			if err != nil {
				return fmt.Errorf("level: %w", err)
			}
			path := configFromContext(cmd.Context()).LogPath()

			tail, err := logtail.Read(path, lines)
			if err != nil {
				return err
			}
			tail = logtail.Filter(tail, minLevel)
			if !noColor {
				tail = logtail.ColorizeLines(tail, logtail.DefaultStyles())
			}

			out := cmd.OutOrStdout()
			if len(tail) == 0 {
				fmt.Fprintf(out, "no log entries in %s\n", path)
				return nil
			}
			for _, line := range tail {
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&lines, "lines", "n", 50, "number of lines from the end (0 for all)")
	cmd.Flags().StringVar(&level, "level", "debug", "minimum level: debug, info, warn, error")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "print lines unstyled")

	return cmd
}
