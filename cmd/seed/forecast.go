package main

import (
	"fmt"
	"io"

	"github.com/andresuchdata/salescast/internal/domain"
	"github.com/andresuchdata/salescast/internal/forecast"
	"github.com/urfave/cli/v2"
)

func forecastCommand() *cli.Command {
	return &cli.Command{
		Name:  "forecast",
		Usage: "Print the next-period forecast for the stored sales",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "raw",
				Usage: "Use one point per record instead of summing repeated periods",
			},
		},
		Action: func(c *cli.Context) error {
			res, err := resources(c)
			if err != nil {
				return err
			}

			records, err := res.Sales.Load(c.Context, []domain.SalesRecord{})
			if err != nil {
				return err
			}
			return writeForecast(c.App.Writer, records, c.Bool("raw"), forecast.NewEngine())
		},
	}
}

func writeForecast(w io.Writer, records []domain.SalesRecord, raw bool, engine *forecast.Engine) error {
	var (
		labels []string
		values []int
	)
	if raw {
		labels, values = forecast.BuildSeries(records)
	} else {
		labels, values = forecast.AggregateByPeriod(records)
	}

	result := engine.Forecast(values)

	fmt.Fprintf(w, "periods:        %d\n", len(labels))
	if len(labels) > 0 {
		fmt.Fprintf(w, "last period:    %s (%d)\n", labels[len(labels)-1], values[len(values)-1])
	}
	fmt.Fprintf(w, "trend forecast: %d\n", result.Trend)
	fmt.Fprintf(w, "series:         %d (%s)\n", result.Series, result.Method)
	_, err := fmt.Fprintf(w, "recommendation: %s - %s\n", result.Recommendation, result.Recommendation.Message())
	return err
}
