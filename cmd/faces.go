package cmd

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/amirhossein5/facestore/internal/dbconnection"
	"github.com/spf13/cobra"
)

var facesCmd = &cobra.Command{
	Use:   "faces",
	Short: "List stored faces",
	RunE:  runFaces,
}

var sightingsCmd = &cobra.Command{
	Use:   "sightings",
	Short: "List the most recent lookups of unknown faces",
	RunE:  runSightings,
}

func init() {
	rootCmd.AddCommand(facesCmd)
	rootCmd.AddCommand(sightingsCmd)

	sightingsCmd.Flags().Int("limit", 20, "Number of sightings to show")
}

func runFaces(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}

	faces, db, err := openStore(cfg, log)
	if err != nil {
		return err
	}
	defer dbconnection.Close(db)

	all, err := faces.All(context.Background())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tDIMENSIONS")
	for _, face := range all {
		fmt.Fprintf(w, "%d\t%s\t%d\n", face.ID, face.Name, len(face.Encoding))
	}
	return w.Flush()
}

func runSightings(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}

	faces, db, err := openStore(cfg, log)
	if err != nil {
		return err
	}
	defer dbconnection.Close(db)

	sightings, err := faces.Sightings(context.Background(), mustGetInt(cmd, "limit"))
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tFILE\tRESULT\tMATCH")
	for _, s := range sightings {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", s.CreatedAt.Format("2006-01-02 15:04:05"), s.Filename, s.Result, s.MatchedName)
	}
	return w.Flush()
}
