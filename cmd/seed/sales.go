package main

import (
	"fmt"
	"io"
	"os"

	"github.com/andresuchdata/salescast/internal/domain"
	"github.com/andresuchdata/salescast/internal/drive"
	"github.com/andresuchdata/salescast/internal/service"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

func salesCommand() *cli.Command {
	return &cli.Command{
		Name:  "sales",
		Usage: "Manage the monthly sales collection",
		Subcommands: []*cli.Command{
			{
				Name:  "import",
				Usage: "Append month,sales rows from a local CSV or a Google Drive file",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "csv", Usage: "Local CSV file"},
					&cli.StringFlag{Name: "drive-file-id", Usage: "Google Drive file ID"},
					&cli.StringFlag{Name: "drive-path", Usage: "Google Drive path such as reports/sales.csv"},
					&cli.StringFlag{
						Name:    "credentials",
						Usage:   "Google service account JSON",
						EnvVars: []string{"GOOGLE_DRIVE_CREDENTIALS_JSON"},
					},
					&cli.BoolFlag{Name: "replace", Usage: "Replace the collection instead of appending"},
				},
				Action: importSales,
			},
			{
				Name:  "export",
				Usage: "Write the sales collection as CSV",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "csv", Usage: "Output file, - for stdout", Value: "-"},
				},
				Action: exportSales,
			},
		},
	}
}

func productsCommand() *cli.Command {
	return &cli.Command{
		Name:  "products",
		Usage: "Manage the product collection",
		Subcommands: []*cli.Command{
			{
				Name:  "import",
				Usage: "Upsert product,last_sales,stock rows from a CSV",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "csv", Usage: "Local CSV file", Required: true},
				},
				Action: importProducts,
			},
		},
	}
}

func importSales(c *cli.Context) error {
	res, err := resources(c)
	if err != nil {
		return err
	}

	records, err := readSalesSource(c)
	if err != nil {
		return err
	}

	svc := service.NewSalesService(res.Sales, res.Locker)
	var all []domain.SalesRecord
	if c.Bool("replace") {
		all, err = svc.ReplaceAll(c.Context, records)
	} else {
		all, err = svc.AddMany(c.Context, records)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(c.App.Writer, "imported %d sales records (%d total)\n", len(records), len(all))
	return nil
}

func readSalesSource(c *cli.Context) ([]domain.SalesRecord, error) {
	switch {
	case c.String("csv") != "":
		f, err := os.Open(c.String("csv"))
		if err != nil {
			return nil, fmt.Errorf("failed to open file %s: %w", c.String("csv"), err)
		}
		defer f.Close()
		return drive.ParseSalesCSV(f)

	case c.String("drive-file-id") != "" || c.String("drive-path") != "":
		driveService, err := drive.NewService(c.Context, c.String("credentials"))
		if err != nil {
			return nil, err
		}

		fileID := c.String("drive-file-id")
		if fileID == "" {
			if fileID, err = driveService.FindFile(c.Context, c.String("drive-path")); err != nil {
				return nil, err
			}
		}
		log.Info().Str("file_id", fileID).Msg("Importing sales from Google Drive")
		return drive.NewIngestService(driveService).FetchSales(c.Context, fileID)

	default:
		return nil, fmt.Errorf("one of --csv, --drive-file-id or --drive-path is required")
	}
}

func exportSales(c *cli.Context) error {
	res, err := resources(c)
	if err != nil {
		return err
	}

	records, err := service.NewSalesService(res.Sales, res.Locker).List(c.Context)
	if err != nil {
		return err
	}

	var w io.Writer = c.App.Writer
	if path := c.String("csv"); path != "-" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", path, err)
		}
		defer f.Close()
		w = f
	}

	if err := drive.WriteSalesCSV(w, records); err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}
	log.Info().Int("records", len(records)).Msg("Sales exported")
	return nil
}

func importProducts(c *cli.Context) error {
	res, err := resources(c)
	if err != nil {
		return err
	}

	f, err := os.Open(c.String("csv"))
	if err != nil {
		return fmt.Errorf("failed to open file %s: %w", c.String("csv"), err)
	}
	defer f.Close()

	records, err := drive.ParseProductsCSV(f)
	if err != nil {
		return err
	}

	svc := service.NewInventoryService(res.Products, res.Locker)
	created := 0
	for _, rec := range records {
		_, isNew, err := svc.UpsertProductSales(c.Context, rec.Product, rec.LastSales, rec.Stock)
		if err != nil {
			return err
		}
		if isNew {
			created++
		}
	}

	fmt.Fprintf(c.App.Writer, "imported %d products (%d new)\n", len(records), created)
	return nil
}
