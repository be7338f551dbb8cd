package cmd

import (
	"fmt"
	"log"

	"github.com/sarchlab/chartline/chart"
	"github.com/sarchlab/chartline/config"
	"github.com/sarchlab/chartline/metrics"
	"github.com/sarchlab/chartline/recording"
	"github.com/sarchlab/chartline/timeline"
	"github.com/spf13/cobra"
)

// session is a chart built into a pair of managers, with the hooks asked for
// by the configuration.
type session struct {
	cfg    *config.Config
	logger *log.Logger

	chart *chart.Chart
	built *chart.Built
	sink  *chart.ValueSink

	segs  *timeline.SegmentManager
	trigs *timeline.TriggerManager

	recorder  *recording.CrossingRecorder
	collector *metrics.CrossingCollector
}

type sessionOptions struct {
	record  bool
	metrics bool
}

func newSession(
	cmd *cobra.Command,
	path string,
	opts sessionOptions,
) (*session, error) {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return nil, err
	}

	c, err := chart.LoadFile(path)
	if err != nil {
		return nil, err
	}

	s := &session{
		cfg:    cfg,
		logger: cfg.Logger(cmd.ErrOrStderr()),
		chart:  c,
		sink:   chart.NewValueSink(),
	}

	b := timeline.MakeBuilder().WithName("Chart").WithLogger(s.logger)

	if opts.record || cfg.RecordPath != "" {
		s.recorder, err = recording.New(cfg.RecordPath)
		if err != nil {
			return nil, err
		}

		b = b.WithHook(s.recorder)
	}

	if opts.metrics {
		s.collector, err = metrics.NewCrossingCollector("chartline")
		if err != nil {
			return nil, err
		}

		b = b.WithHook(s.collector)
	}

	if cfg.LogLevel == config.LevelDebug {
		b = b.WithHook(timeline.NewCrossingLogger(s.logger))
	}

	s.segs = b.BuildSegmentManager()
	s.trigs = b.BuildTriggerManager()

	s.built, err = c.Build(s.segs, s.trigs, s.sink)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return s, nil
}

func (s *session) close() error {
	if s.recorder == nil {
		return nil
	}

	return s.recorder.Close()
}
