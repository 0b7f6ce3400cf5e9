package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wargaair/water-safety-service/internal/adapter/gormstore"
	"github.com/wargaair/water-safety-service/internal/adapter/refdata"
)

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Replace the MySQL reference tables with the contents of --refdata",
		Example: `  wqctl seed --dsn "user:pass@tcp(localhost:3306)/water?parseTime=true" --refdata data/reference.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			dsn, _ := cmd.Flags().GetString("dsn")
			if dsn == "" {
				return fmt.Errorf("seed requires --dsn")
			}
			path, _ := cmd.Flags().GetString("refdata")
			file, err := refdata.Load(path)
			if err != nil {
				return err
			}

			db, err := gormstore.Open(dsn)
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer db.Close() //nolint:errcheck // best-effort

			ctx := commandContext(cmd)
			if err := db.Migrate(ctx); err != nil {
				return err
			}
			doc := file.Document()
			if err := db.Seed(ctx, doc); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d standards, %d treatments, %d diseases.\n",
				len(doc.Standards), len(doc.Treatments), len(doc.Diseases))
			return nil
		},
	}
}
