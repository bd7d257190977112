package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/sarchlab/rangeprof/datarecording"
	"github.com/sarchlab/rangeprof/monitoring"
	"github.com/sarchlab/rangeprof/profiling"
)

var (
	viewPort    int
	openBrowser bool
)

var viewCmd = &cobra.Command{
	Use:   "view [profile.sqlite3]",
	Short: "Serve a profile database as a timeline web page",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		return runView(args[0])
	},
}

func init() {
	viewCmd.Flags().IntVar(&viewPort, "port", 0,
		"port to listen on (0 picks a random port)")
	viewCmd.Flags().BoolVar(&openBrowser, "open", false,
		"open the local browser on the served address")

	rootCmd.AddCommand(viewCmd)
}

func runView(dbFilename string) error {
	reader := datarecording.NewReader(dbFilename)
	defer reader.Close()

	records, err := profiling.ReadSQLite(context.Background(), reader)
	if err != nil {
		return err
	}

	log.Info().
		Str("file", dbFilename).
		Int("ranges", len(records)).
		Msg("profile database loaded")

	viewer := monitoring.NewViewer().WithPortNumber(viewPort)
	if openBrowser {
		viewer = viewer.WithBrowserLaunch()
	}

	viewer.RegisterRecords(records)
	viewer.StartServer()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	<-stop

	return nil
}
