/*
 * Copyright (c) 2023. Anton Starikov -- All Rights Reserved
 *
 * This file is part of CCGTSIM project.
 *
 * CCGTSIM is free software: you can redistribute it and/or modify
 * it under the terms of the GNU General Public License as the Free Software Foundation,
 * either version 3 of the License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with this program.  If not, see <http://www.gnu.org/licenses/>.
 */

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/antst/ccgtsim/internal"
	"github.com/antst/ccgtsim/internal/config"
	"github.com/antst/ccgtsim/internal/db"
	"github.com/antst/ccgtsim/internal/fluid"
	"github.com/antst/ccgtsim/internal/logger"
	"github.com/antst/ccgtsim/internal/report"
	"github.com/antst/ccgtsim/internal/safe_mqtt"
)

// Build version, overridden with flag during build.
var version = "devel"

const stdout = "-"

func main() {
	defer logger.Close()
	if err := run(); err != nil {
		logger.L().Error(err)
		logger.Close()
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Get()
	if err := logger.Configure(cfg.LogEncoding, []string{"stderr"}); err != nil {
		return err
	}
	logger.L().Infof("Combined cycle simulator, version: %+v", version)

	cases, err := cfg.Resolve()
	if err != nil {
		return err
	}

	var queries *db.Queries
	if cfg.DBFile != "" {
		if queries, err = db.OpenDatabase(cfg.DBFile); err != nil {
			return err
		}
		defer queries.Close()
	}

	var client safe_mqtt.MqttClient
	if cfg.MQTTConfig.Enabled() {
		m := cfg.MQTTConfig
		if client, err = safe_mqtt.InitMQTTClient(m.URL, m.ClientPrefix+uuid.New().String(), m.ConnectAttempts); err != nil {
			return err
		}
		defer client.SafeDisconnect()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	topic := ""
	if cfg.MQTTConfig != nil {
		topic = cfg.MQTTConfig.Topic
	}
	outcomes, runErr := internal.NewRunner(fluid.Default(), cfg.Workers, queries, client, topic).Run(ctx, cases)

	var results []*internal.Result
	for _, o := range outcomes {
		if o.Result != nil {
			results = append(results, o.Result)
		}
	}

	// a JSON report on stdout moves the summary to stderr
	summaryOut := io.Writer(os.Stdout)
	if cfg.Output.JSON == stdout {
		summaryOut = os.Stderr
	}
	for _, res := range results {
		fmt.Fprintf(summaryOut, "== %s ==\n%s\n", res.Case, res.Summary())
	}

	if err := writeReports(&cfg.Output, results); err != nil {
		return err
	}
	return runErr
}

func writeReports(out *config.OutputConfig, results []*internal.Result) error {
	if len(results) == 0 {
		return nil
	}
	for _, r := range []struct {
		path  string
		write func(io.Writer, []*internal.Result) error
	}{
		{out.XLSX, report.WriteXLSX},
		{out.PDF, report.WritePDF},
		{out.JSON, report.WriteJSON},
	} {
		if r.path == "" {
			continue
		}
		if err := writeReport(r.path, r.write, results); err != nil {
			return err
		}
		if r.path != stdout {
			logger.L().Infof("Report written to %s", r.path)
		}
	}
	return nil
}

func writeReport(path string, write func(io.Writer, []*internal.Result) error, results []*internal.Result) error {
	if path == stdout {
		return write(os.Stdout, results)
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "failed to create report")
	}
	if err := write(f, results); err != nil {
		f.Close()
		return errors.Wrapf(err, "failed to write %s", path)
	}
	return errors.Wrapf(f.Close(), "failed to close %s", path)
}
