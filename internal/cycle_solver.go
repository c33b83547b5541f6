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
	"go.uber.org/zap"

	"github.com/antst/ccgtsim/internal/config"
	"github.com/antst/ccgtsim/internal/fluid"
	"github.com/antst/ccgtsim/internal/logger"
	mdl "github.com/antst/ccgtsim/internal/thermo_model"
)

// Result is everything one solve produces.
type Result struct {
	Case       string             `json:"case"`
	States     []mdl.Point        `json:"states"`
	HRSG       *HRSGResult        `json:"hrsg"`
	Balance    *Balance           `json:"balance"`
	Pinch      *Pinch             `json:"pinch"`
	Violations []Violation        `json:"violations"`
	Config     *config.CaseConfig `json:"-"`

	set mdl.Set
}

// Point returns the state at l.
func (r *Result) Point(l mdl.Label) *mdl.Point {
	return r.set.At(l)
}

// CycleSolver solves one case. It holds no state between solves and may
// be reused; distinct solvers can run concurrently on a shared provider.
type CycleSolver struct {
	cfg config.CaseConfig
	log *zap.SugaredLogger

	brayton *BraytonLeg
	rankine *RankineLeg
	hrsg    *HRSGCoupler
	balance *BalanceCalculator
	pinch   *PinchAnalyzer
	safety  *SafetyChecker
}

// NewCycleSolver validates the case and evaluates the dead states. The
// case is copied, later changes to it have no effect.
func NewCycleSolver(_cfg *config.CaseConfig, _props fluid.Provider) (*CycleSolver, error) {
	s := &CycleSolver{cfg: *_cfg, log: logger.ForCase(_cfg.Name)}
	if err := s.cfg.Validate(); err != nil {
		return nil, invalidInput("config", "", err, "case `%s`", s.cfg.Name)
	}
	s.cfg.LogAttributes(s.log)

	state, err := newStateEvaluator(_props, &s.cfg.Cycle, &s.cfg.DeadState)
	if err != nil {
		return nil, err
	}
	s.brayton = newBraytonLeg(&s.cfg.Cycle, state)
	s.rankine = newRankineLeg(&s.cfg.Cycle, state)
	s.hrsg = newHRSGCoupler(&s.cfg.HRSG, &s.cfg.Cycle, _props)
	s.balance = newBalanceCalculator(&s.cfg.Cycle, &s.cfg.DeadState, state, s.rankine)
	s.pinch = newPinchAnalyzer(&s.cfg.HRSG, &s.cfg.Cycle, _props)
	s.safety = newSafetyChecker(&s.cfg.Limits)
	return s, nil
}

func (s *CycleSolver) Balance() *BalanceCalculator {
	return s.balance
}

// Solve runs the legs, the coupling, the balances, the pinch analysis and
// the limit checks in that order. Any error is a *SolveError.
func (s *CycleSolver) Solve() (*Result, error) {
	res := &Result{Case: s.cfg.Name, Config: &s.cfg}
	set := &res.set

	if err := s.brayton.Solve(set); err != nil {
		return nil, err
	}
	if err := s.rankine.SolvePump(set); err != nil {
		return nil, err
	}

	h, err := s.hrsg.Solve(set)
	if err != nil {
		return nil, err
	}
	res.HRSG = h

	if err := s.rankine.SolveTurbine(set, h.H3); err != nil {
		return nil, err
	}
	if err := s.brayton.SolveExhaust(set, h.H9); err != nil {
		return nil, err
	}

	if res.Balance, err = s.balance.Compute(set); err != nil {
		return nil, err
	}
	if res.Pinch, err = s.pinch.Analyze(set); err != nil {
		return nil, err
	}

	res.Violations = s.safety.Check(set)
	for _, v := range res.Violations {
		s.log.Warnf("Limit violated: %v", v)
	}

	res.States = set.Points()
	s.log.Infof("Solved: net power %.2f MW, thermal efficiency %.2f%%, pinch %.2f K at %s, %d violation(s)",
		res.Balance.WTotal/1e6, res.Balance.EtaTh*100, res.Pinch.DT, res.Pinch.Location, len(res.Violations))
	return res, nil
}
