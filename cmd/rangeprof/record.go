package main

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/sarchlab/rangeprof/acceltimer"
	"github.com/sarchlab/rangeprof/datarecording"
	"github.com/sarchlab/rangeprof/instrument"
	"github.com/sarchlab/rangeprof/profiling"
	"github.com/sarchlab/rangeprof/propagation"
)

var (
	traceFileName  string
	sqliteFileName string
	reportShapes   bool
	numDevices     int
)

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Run the demo workload under the profiler and export the timeline",
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		return runRecord()
	},
}

func init() {
	recordCmd.Flags().StringVarP(&traceFileName, "output", "o",
		"trace.json", "trace-event JSON output file")
	recordCmd.Flags().StringVar(&sqliteFileName, "sqlite", "",
		"also export ranges into a SQLite profile database (path without "+
			"the .sqlite3 suffix)")
	recordCmd.Flags().BoolVar(&reportShapes, "shapes", false,
		"capture input shape metadata for instrumented regions")
	recordCmd.Flags().IntVar(&numDevices, "devices", 0,
		"profile in device-synchronized mode against this many virtual "+
			"devices")

	rootCmd.AddCommand(recordCmd)
}

func runRecord() error {
	pctx := propagation.NewContext()

	config := profiling.Config{
		Mode:              profiling.ModeCPU,
		ReportInputShapes: reportShapes,
	}
	if numDevices > 0 {
		config.Mode = profiling.ModeDeviceSynchronized
		config.Backend = acceltimer.NewVirtualBackend(numDevices)
	}

	_, err := profiling.Enable(pctx, config)
	if err != nil {
		return err
	}

	log.Info().
		Stringer("mode", config.Mode).
		Msg("profiling enabled")

	runDemoWorkload(pctx)

	lists, err := profiling.Disable(pctx)
	if err != nil {
		return err
	}

	log.Info().
		Int("threads", len(lists)).
		Int("events", len(lists.Flatten())).
		Msg("profiling disabled")

	records, err := profiling.BuildTimeline(lists)
	if err != nil {
		return err
	}

	err = profiling.WriteTraceFile(traceFileName, records)
	if err != nil {
		return err
	}

	log.Info().
		Str("file", traceFileName).
		Int("ranges", len(records)).
		Msg("trace written")

	if sqliteFileName != "" {
		recorder := datarecording.NewRecorder(sqliteFileName)
		profiling.ExportSQLite(recorder, records)

		err = recorder.Close()
		if err != nil {
			return err
		}

		log.Info().
			Str("file", sqliteFileName+".sqlite3").
			Msg("profile database written")
	}

	return nil
}

// matrix is a stand-in tensor-like value so that shape capture has
// something to report.
type matrix struct {
	rows, cols int64
}

func (m matrix) Shape() []int64 {
	return []int64{m.rows, m.cols}
}

// runDemoWorkload executes a small tree of instrumented regions, including
// one region completed on a spawned worker.
func runDemoWorkload(pctx *propagation.Context) {
	instrument.Record(pctx, "train_step", instrument.ScopeUser, func() {
		instrument.Record(pctx, "forward", instrument.ScopeFunction, func() {
			time.Sleep(2 * time.Millisecond)
		}, matrix{rows: 64, cols: 128})

		instrument.Record(pctx, "backward", instrument.ScopeFunction, func() {
			time.Sleep(3 * time.Millisecond)
		})

		snapshot := pctx.Snapshot()

		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()

			worker := snapshot.NewContext()
			instrument.Record(worker, "optimizer_step", instrument.ScopeUser,
				func() {
					time.Sleep(time.Millisecond)
				})
		}()
		wg.Wait()
	})
}
