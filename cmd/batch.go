package cmd

import (
	"context"
	"os"
	"os/signal"

	"github.com/amirhossein5/facestore/internal/batch"
	"github.com/amirhossein5/facestore/internal/dbconnection"
	"github.com/spf13/cobra"
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Enrol a directory of known faces and match a directory of unknown ones",
	Long: `Encode every image in the known directory and store it under its file
name (names already stored are skipped). Then compare every image in the
unknown directory against all stored faces and print one line per pair:

  <image> matches <name>
  <image> does not match <name>`,
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().String("known", "", "Directory of known faces (overrides config)")
	batchCmd.Flags().String("unknown", "", "Directory of faces to identify (overrides config)")
	batchCmd.Flags().Bool("progress", false, "Show a progress bar on stderr")
}

func runBatch(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}

	knownDir := cfg.Batch.KnownDir
	if dir := mustGetString(cmd, "known"); dir != "" {
		knownDir = dir
	}
	unknownDir := cfg.Batch.UnknownDir
	if dir := mustGetString(cmd, "unknown"); dir != "" {
		unknownDir = dir
	}

	faces, db, err := openStore(cfg, log)
	if err != nil {
		return err
	}
	defer dbconnection.Close(db)

	rec, err := newRecognizer(cfg, log)
	if err != nil {
		return err
	}
	defer rec.Close()

	var opts []batch.Option
	if mustGetBool(cmd, "progress") {
		opts = append(opts, batch.WithProgress(os.Stderr))
	}
	runner := batch.NewRunner(faces, rec, newMatcher(cfg), cmd.OutOrStdout(), log, opts...)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return runner.Run(ctx, knownDir, unknownDir)
}
