package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/forgelab/ipd/etl"
)

var loadFlags struct {
	dsn      string
	username string
}

var loadCmd = &cobra.Command{
	Use:   "load [file|directory|glob]...",
	Short: "Load result documents into the Postgres warehouse",
	Long: `Loads one or more result JSON files into the warehouse. Documents the
warehouse already holds are skipped, not re-inserted.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger().WithComponent("etl")

		db, err := etl.Open(cmd.Context(), loadFlags.dsn)
		if err != nil {
			return err
		}
		defer func() {
			if cerr := db.Close(cmd.Context()); cerr != nil {
				logger.Warn("closing warehouse connection", "error", cerr)
			}
		}()

		var paths []string
		for _, arg := range args {
			expanded, err := etl.ExpandPath(arg)
			if err != nil {
				return err
			}
			paths = append(paths, expanded...)
		}

		loader := etl.New(db, func(o *etl.Options) { o.Logger = logger })
		res := loader.LoadBatch(cmd.Context(), paths, loadFlags.username)

		fmt.Printf("Loaded: %d, Skipped: %d, Failed: %d\n", len(res.Loaded), len(res.Skipped), len(res.Failed))
		if len(res.Failed) > 0 {
			return fmt.Errorf("%d result document(s) failed to load", len(res.Failed))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loadCmd)

	loadCmd.Flags().StringVar(&loadFlags.dsn, "dsn", "postgres://localhost/forge", "warehouse connection string")
	loadCmd.Flags().StringVar(&loadFlags.username, "username", "unknown", "default username for older files missing the username field")
}
