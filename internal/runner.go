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

package internal

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/antst/ccgtsim/internal/config"
	"github.com/antst/ccgtsim/internal/db"
	"github.com/antst/ccgtsim/internal/fluid"
	"github.com/antst/ccgtsim/internal/logger"
	"github.com/antst/ccgtsim/internal/safe_mqtt"
)

// Outcome is the result of one case; exactly one of Result and Err is set.
type Outcome struct {
	RunID  string
	Case   string
	Result *Result
	Err    error
}

// Runner solves independent cases in parallel. Solved cases are stored in
// the run history and published when those are configured.
type Runner struct {
	props   fluid.Provider
	workers int
	queries *db.Queries
	mqtt    safe_mqtt.MqttClient
	topic   string
	now     func() time.Time
}

// NewRunner takes optional _q and _mqtt, nil disables storing or publishing.
func NewRunner(_props fluid.Provider, _workers int, _q *db.Queries, _mqtt safe_mqtt.MqttClient, _topic string) *Runner {
	if _workers <= 0 {
		_workers = 1
	}
	return &Runner{
		props:   _props,
		workers: _workers,
		queries: _q,
		mqtt:    _mqtt,
		topic:   _topic,
		now:     time.Now,
	}
}

// Run solves every case. A failing case does not stop the others; all
// failures come back combined in the error and per case in the outcomes.
func (r *Runner) Run(ctx context.Context, cases []config.CaseConfig) ([]Outcome, error) {
	out := make([]Outcome, len(cases))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for i := range cases {
		i := i
		out[i] = Outcome{RunID: uuid.New().String(), Case: cases[i].Name}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				out[i].Err = err
				return nil
			}
			out[i].Result, out[i].Err = solveCase(&cases[i], r.props)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return out, err
	}

	var errs error
	for i := range out {
		o := &out[i]
		if o.Err != nil {
			logger.ForCase(o.Case).Errorf("Solve failed: %v", o.Err)
			errs = multierr.Append(errs, errors.WithMessagef(o.Err, "case `%s`", o.Case))
			continue
		}
		if err := r.store(ctx, o); err != nil {
			errs = multierr.Append(errs, errors.WithMessagef(err, "storing case `%s`", o.Case))
		}
		if err := r.publish(o); err != nil {
			errs = multierr.Append(errs, errors.WithMessagef(err, "publishing case `%s`", o.Case))
		}
	}
	return out, errs
}

func solveCase(c *config.CaseConfig, props fluid.Provider) (*Result, error) {
	s, err := NewCycleSolver(c, props)
	if err != nil {
		return nil, err
	}
	return s.Solve()
}

func (r *Runner) store(ctx context.Context, o *Outcome) error {
	if r.queries == nil {
		return nil
	}
	arg, err := runParams(o, r.now())
	if err != nil {
		return err
	}
	return r.queries.InsertRun(ctx, arg)
}

func runParams(o *Outcome, at time.Time) (db.InsertRunParams, error) {
	res := o.Result
	balance, err := json.Marshal(res.Balance)
	if err != nil {
		return db.InsertRunParams{}, errors.Wrap(err, "marshal balance")
	}

	arg := db.InsertRunParams{
		Run: db.Run{
			ID:            o.RunID,
			CaseName:      o.Case,
			CreatedAt:     at,
			WTotal:        res.Balance.WTotal,
			EtaTh:         res.Balance.EtaTh,
			EtaEx:         res.Balance.EtaEx,
			QHRSG:         res.HRSG.Q,
			PinchDT:       res.Pinch.DT,
			PinchLocation: string(res.Pinch.Location),
			Iterations:    res.HRSG.Iterations,
			BalanceJSON:   string(balance),
		},
	}
	for _, p := range res.States {
		row := db.Point{Label: p.Label.String(), P: p.P, T: p.T, H: p.H, S: p.S, Ex: p.Ex}
		if x, ok := p.Quality(); ok {
			row.X = sql.NullFloat64{Float64: x, Valid: true}
		}
		arg.Points = append(arg.Points, row)
	}
	for _, v := range res.Violations {
		arg.Violations = append(arg.Violations, db.Violation{
			Kind: string(v.Kind), Point: v.Point.String(), Value: v.Value, Limit: v.Limit,
		})
	}
	return arg, nil
}

// summaryMessage is the payload published to <topic>/<case>/summary.
type summaryMessage struct {
	RunID         string        `json:"run_id"`
	Case          string        `json:"case"`
	WTotal        float64       `json:"W_total"`
	WGas          float64       `json:"W_gas"`
	WSteam        float64       `json:"W_steam"`
	QHRSG         float64       `json:"Q_hrsg"`
	EtaTh         float64       `json:"eta_th"`
	EtaThMax      float64       `json:"eta_th_max"`
	EtaEx         float64       `json:"eta_ex"`
	PinchDT       float64       `json:"pinch_dT"`
	PinchLocation PinchLocation `json:"pinch_location"`
	Violations    int           `json:"violations"`
}

func (r *Runner) publish(o *Outcome) error {
	if r.mqtt == nil {
		return nil
	}
	res := o.Result
	msg := summaryMessage{
		RunID:         o.RunID,
		Case:          o.Case,
		WTotal:        res.Balance.WTotal,
		WGas:          res.Balance.WGas,
		WSteam:        res.Balance.WSteam,
		QHRSG:         res.HRSG.Q,
		EtaTh:         res.Balance.EtaTh,
		EtaThMax:      res.Balance.EtaThMax,
		EtaEx:         res.Balance.EtaEx,
		PinchDT:       res.Pinch.DT,
		PinchLocation: res.Pinch.Location,
		Violations:    len(res.Violations),
	}
	violations := res.Violations
	if violations == nil {
		violations = []Violation{}
	}

	var errs error
	for suffix, v := range map[string]interface{}{"summary": msg, "violations": violations} {
		payload, err := json.Marshal(v)
		if err != nil {
			errs = multierr.Append(errs, errors.Wrapf(err, "marshal %s", suffix))
			continue
		}
		topic := r.topic + "/" + o.Case + "/" + suffix
		if token := r.mqtt.SafePublish(topic, 1, true, payload); token.Wait() && token.Error() != nil {
			errs = multierr.Append(errs, errors.Wrapf(token.Error(), "publish %s", topic))
		}
	}
	return errs
}
