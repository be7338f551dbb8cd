package cmd

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/sarchlab/chartline/monitoring"
	"github.com/sarchlab/chartline/player"
	"github.com/spf13/cobra"
)

var monitorCmd = &cobra.Command{
	Use:   "monitor <chart.yaml>",
	Short: "Play a chart in real time behind the HTTP monitor",
	Long: `Play a chart in real time from its start to its end behind the ` +
		`HTTP monitor. The monitor can pause, continue and seek the clock. ` +
		`With --hold the server stays up after the end until interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd, args[0], sessionOptions{metrics: true})
		if err != nil {
			return err
		}
		defer s.close()

		first, last := s.chart.Span()

		p := player.New(s.segs, s.trigs).WithTick(s.cfg.Tick())
		p.Seek(first)

		pageDir, _ := cmd.Flags().GetString("page-dir")

		m := monitoring.NewMonitor().
			WithPortNumber(s.cfg.MonitorPort).
			WithBrowser(s.cfg.OpenBrowser).
			WithPageDir(pageDir)
		m.RegisterPlayer(p)
		m.RegisterMetrics(s.collector.Handler())
		bar := m.TrackPlayback("playback", first, last)
		m.StartServer()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		err = p.Run(ctx, last)
		if err != nil && !errors.Is(err, context.Canceled) {
			return err
		}

		m.CompleteProgressBar(bar)
		s.logger.Printf("playback reached %d ms", p.Now())

		if hold, _ := cmd.Flags().GetBool("hold"); hold {
			<-ctx.Done()
		}

		return nil
	},
}

func init() {
	monitorCmd.Flags().Bool("hold", false, "keep serving after the end of the chart")
	monitorCmd.Flags().String("page-dir", "", "serve the monitor page from this directory")
	rootCmd.AddCommand(monitorCmd)
}
