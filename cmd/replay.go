package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

var replayCmd = &cobra.Command{
	Use:   "replay <chart.yaml>",
	Short: "Move the clock of a chart through a list of times",
	Long: `Move the clock of a chart through a list of times and print every ` +
		`event and value. The times are given with --times, or generated ` +
		`with --from, --to and --step. Times can go backward.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		record, _ := cmd.Flags().GetBool("record")

		s, err := newSession(cmd, args[0], sessionOptions{record: record})
		if err != nil {
			return err
		}

		times, err := replayTimes(cmd, s)
		if err != nil {
			s.close()
			return err
		}

		replay(cmd.OutOrStdout(), s, times)

		return s.close()
	},
}

func init() {
	f := replayCmd.Flags()
	f.Int64Slice("times", nil, "clock values to visit, in order")
	f.Int64("from", 0, "first clock value, defaults to the start of the chart")
	f.Int64("to", 0, "last clock value, defaults to the end of the chart")
	f.Int64("step", 100, "distance between generated clock values")
	f.Bool("record", false, "record crossings to SQLite")
	rootCmd.AddCommand(replayCmd)
}

func replayTimes(cmd *cobra.Command, s *session) ([]int64, error) {
	f := cmd.Flags()

	if f.Changed("times") {
		return f.GetInt64Slice("times")
	}

	from, to := s.chart.Span()
	step, _ := f.GetInt64("step")

	if f.Changed("from") {
		from, _ = f.GetInt64("from")
	}

	if f.Changed("to") {
		to, _ = f.GetInt64("to")
	} else {
		to += step
	}

	return timeRange(from, to, step)
}

// timeRange returns from, from+step, ... up to and including to. A negative
// step counts down.
func timeRange(from, to, step int64) ([]int64, error) {
	if step == 0 || (step > 0 && to < from) || (step < 0 && to > from) {
		return nil, fmt.Errorf("cannot go from %d to %d by %d", from, to, step)
	}

	var times []int64
	for t := from; (step > 0 && t <= to) || (step < 0 && t >= to); t += step {
		times = append(times, t)
	}

	if len(times) == 0 || times[len(times)-1] != to {
		times = append(times, to)
	}

	return times, nil
}

func replay(w io.Writer, s *session, times []int64) {
	for _, now := range times {
		s.segs.Update(now)
		s.trigs.Update(now)

		fmt.Fprintf(w, "t=%d\n", now)

		for _, e := range s.sink.Drain() {
			fmt.Fprintf(w, "  %s\n", e)
		}

		for _, target := range s.sink.Targets() {
			v, _ := s.sink.Value(target)
			fmt.Fprintf(w, "  %s = %.4f\n", target, v)
		}
	}
}
