package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/m04kA/SMC-TherapyBookingService/internal/availability"
	"github.com/m04kA/SMC-TherapyBookingService/internal/domain"
	"github.com/m04kA/SMC-TherapyBookingService/pkg/types"
)

type globalOptions struct {
	File string
	Now  string
	JSON bool
}

func newRootCommand(out io.Writer) *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:           "slotctl",
		Short:         "Check and enumerate therapist slots from an availability file",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)

	root.PersistentFlags().StringVarP(&opts.File, "file", "f", "", "Schedule file with config and bookings (- for stdin)")
	root.PersistentFlags().StringVar(&opts.Now, "now", "", "Reference time in RFC3339 (default: current time)")
	root.PersistentFlags().BoolVar(&opts.JSON, "json", false, "Output JSON")

	root.AddCommand(
		newCheckCmd(opts),
		newSlotsCmd(opts),
		newNormalizeCmd(opts),
	)
	return root
}

type checkOutput struct {
	Start  time.Time               `json:"start"`
	End    time.Time               `json:"end"`
	OK     bool                    `json:"ok"`
	Reason availability.ReasonCode `json:"reason,omitempty"`
}

func newCheckCmd(opts *globalOptions) *cobra.Command {
	var start string
	var duration int

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Tell whether a single candidate slot can be booked",
		RunE: func(c *cobra.Command, _ []string) error {
			sf, err := readScheduleFile(opts.File, c.InOrStdin())
			if err != nil {
				return err
			}
			now, err := parseNow(opts.Now)
			if err != nil {
				return err
			}
			startAt, err := time.Parse(time.RFC3339, start)
			if err != nil {
				return fmt.Errorf("--start must be RFC3339: %w", err)
			}

			candidate := availability.Candidate{Start: startAt, DurationMinutes: duration}
			verdict, err := availability.IsSlotBookable(&sf.Config, candidate, sf.domainBookings(), now)
			if err != nil {
				return err
			}

			res := checkOutput{Start: startAt, End: candidate.End(), OK: verdict.OK, Reason: verdict.Reason}
			if opts.JSON {
				return writeJSON(c.OutOrStdout(), res)
			}
			if res.OK {
				fmt.Fprintf(c.OutOrStdout(), "ok %s-%s\n", res.Start.Format(time.RFC3339), res.End.Format(time.RFC3339))
				return nil
			}
			fmt.Fprintf(c.OutOrStdout(), "rejected %s\n", res.Reason)
			return nil
		},
	}
	cmd.Flags().StringVar(&start, "start", "", "Candidate start in RFC3339")
	cmd.Flags().IntVar(&duration, "duration", domain.DefaultSlotStepMinutes, "Service duration in minutes")
	_ = cmd.MarkFlagRequired("start")
	return cmd
}

type slotOutput struct {
	Date  types.DateString `json:"date"`
	Start time.Time        `json:"start"`
	End   time.Time        `json:"end"`
}

func newSlotsCmd(opts *globalOptions) *cobra.Command {
	var from, to string
	var duration, step, limit int

	cmd := &cobra.Command{
		Use:   "slots",
		Short: "List bookable slots for a date or an inclusive date range",
		RunE: func(c *cobra.Command, _ []string) error {
			sf, err := readScheduleFile(opts.File, c.InOrStdin())
			if err != nil {
				return err
			}
			now, err := parseNow(opts.Now)
			if err != nil {
				return err
			}
			if to == "" {
				to = from
			}

			seq, err := availability.EnumerateRange(
				&sf.Config,
				types.DateString(from),
				types.DateString(to),
				duration,
				step,
				sf.domainBookings(),
				now,
			)
			if err != nil {
				return err
			}

			loc, err := sf.Config.Location()
			if err != nil {
				return err
			}

			slots := availability.CollectSlots(seq, limit)
			res := make([]slotOutput, 0, len(slots))
			for _, s := range slots {
				start := s.Start.In(loc)
				res = append(res, slotOutput{
					Date:  types.NewDateString(start),
					Start: start,
					End:   s.End.In(loc),
				})
			}

			if opts.JSON {
				return writeJSON(c.OutOrStdout(), res)
			}
			for _, s := range res {
				fmt.Fprintf(c.OutOrStdout(), "%s %s-%s\n", s.Date, s.Start.Format("15:04"), s.End.Format("15:04"))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&from, "date", "", "Date (YYYY-MM-DD) in the therapist's time zone")
	cmd.Flags().StringVar(&to, "to", "", "Last date of the range, inclusive (default: --date)")
	cmd.Flags().IntVar(&duration, "duration", domain.DefaultSlotStepMinutes, "Service duration in minutes")
	cmd.Flags().IntVar(&step, "step", domain.DefaultSlotStepMinutes, "Step between candidate starts in minutes")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of slots (0 = all)")
	_ = cmd.MarkFlagRequired("date")
	return cmd
}

type normalizeOutput struct {
	Config         *domain.AvailabilityConfig `json:"config"`
	DuplicateDates []types.DateString         `json:"duplicateDates"`
}

func newNormalizeCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "normalize",
		Short: "Validate the availability config and drop duplicate custom schedule dates",
		RunE: func(c *cobra.Command, _ []string) error {
			sf, err := readScheduleFile(opts.File, c.InOrStdin())
			if err != nil {
				return err
			}

			normalized, err := availability.NormalizeConfig(sf.Config)
			if err != nil {
				return err
			}

			if !opts.JSON {
				for _, d := range normalized.DuplicateDates {
					fmt.Fprintf(c.ErrOrStderr(), "duplicate custom schedule entry for %s, last one kept\n", d)
				}
			}
			duplicates := normalized.DuplicateDates
			if duplicates == nil {
				duplicates = []types.DateString{}
			}
			return writeJSON(c.OutOrStdout(), normalizeOutput{
				Config:         normalized.Config,
				DuplicateDates: duplicates,
			})
		},
	}
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
