package main

import (
	"context"
	"fmt"
	"os"

	"github.com/andresuchdata/salescast/internal/bootstrap"
	"github.com/andresuchdata/salescast/internal/config"
	"github.com/andresuchdata/salescast/pkg/logger"
	"github.com/urfave/cli/v2"
)

type resourcesKey struct{}

func newDBURLFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "db-url",
		Usage:   "Database connection string (postgres store)",
		EnvVars: []string{"DATABASE_URL"},
	}
}

// openStore applies the global flags on top of the loaded configuration and
// opens the selected record store.
func openStore(c *cli.Context) error {
	cfg := *config.Load()
	logger.Init(cfg.Log.Level, cfg.Log.File)

	if v := c.String("store"); v != "" {
		cfg.Store.Driver = v
	}
	if v := c.String("data-dir"); v != "" {
		cfg.Store.DataDir = v
	}
	if v := c.String("db-url"); v != "" {
		cfg.Database.URL = v
	}

	res, err := bootstrap.Open(c.Context, &cfg)
	if err != nil {
		return err
	}

	c.Context = context.WithValue(c.Context, resourcesKey{}, res)
	c.Context = context.WithValue(c.Context, configKey{}, &cfg)
	return nil
}

type configKey struct{}

func closeStore(c *cli.Context) error {
	if res, ok := c.Context.Value(resourcesKey{}).(*bootstrap.Resources); ok && res != nil {
		return res.Close()
	}
	return nil
}

func resources(c *cli.Context) (*bootstrap.Resources, error) {
	res, ok := c.Context.Value(resourcesKey{}).(*bootstrap.Resources)
	if !ok || res == nil {
		return nil, fmt.Errorf("record store is not open")
	}
	return res, nil
}

func loadedConfig(c *cli.Context) *config.Config {
	if cfg, ok := c.Context.Value(configKey{}).(*config.Config); ok && cfg != nil {
		return cfg
	}
	return config.Load()
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "seed",
		Usage: "Import, export, forecast, back up and restore the sales and product collections",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "store",
				Usage:   "Record store driver (file, postgres, s3, redis, memory)",
				EnvVars: []string{"STORE_DRIVER"},
			},
			&cli.StringFlag{
				Name:    "data-dir",
				Usage:   "Directory for the file store",
				EnvVars: []string{"APP_DATA_DIR"},
			},
			newDBURLFlag(),
		},
		Before: openStore,
		After:  closeStore,
		Commands: []*cli.Command{
			salesCommand(),
			productsCommand(),
			forecastCommand(),
			backupCommand(),
			restoreCommand(),
		},
	}
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		logger.Log.Fatal().Err(err).Msg("seed failed")
	}
}
