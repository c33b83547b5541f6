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

package config

import (
	"fmt"
	"reflect"
	"strings"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Validate reports every out-of-range field of the case at once.
func (c *CaseConfig) Validate() error {
	var err error
	check := func(ok bool, format string, args ...interface{}) {
		if !ok {
			err = multierr.Append(err, fmt.Errorf(format, args...))
		}
	}
	positive := func(name string, v float64) {
		check(v > 0, "%s must be positive, got %g", name, v)
	}
	ratio := func(name string, v float64) {
		check(v >= 1, "%s must be at least 1, got %g", name, v)
	}
	efficiency := func(name string, v float64) {
		check(v > 0 && v <= 1, "%s must be in (0, 1], got %g", name, v)
	}

	cy := &c.Cycle
	check(cy.GasFluid != "", "gas_fluid is empty")
	check(cy.SteamFluid != "", "steam_fluid is empty")
	positive("p_5", cy.P5)
	positive("T_5", cy.T5)
	ratio("r_p_comp", cy.RPComp)
	efficiency("n_c_gas", cy.NCGas)
	positive("m_dot_gas", cy.MDotGas)
	positive("Q_67", cy.Q67)
	ratio("r_p_turb", cy.RPTurb)
	efficiency("n_t_gas", cy.NTGas)
	positive("m_dot_steam", cy.MDotSteam)
	positive("p_1", cy.P1)
	ratio("r_p_pump", cy.RPPump)
	efficiency("n_c_steam", cy.NCSteam)
	positive("T_1", cy.T1)
	efficiency("n_t_steam", cy.NTSteam)

	h := &c.HRSG
	check(h.UA >= 0, "ua must not be negative, got %g", h.UA)
	efficiency("f", h.F)
	positive("tolerance", h.Tolerance)
	check(h.MaxIterations > 0, "max_iterations must be positive, got %d", h.MaxIterations)
	check(h.MaxBacktracks >= 0, "max_backtracks must not be negative, got %d", h.MaxBacktracks)
	efficiency("seed_duty_fraction", h.SeedDutyFrac)
	positive("seed_steam_factor", h.SeedSteamFactor)
	check(h.SeedGasBlend >= 0 && h.SeedGasBlend <= 1, "seed_gas_blend must be in [0, 1], got %g", h.SeedGasBlend)
	check(h.ProfileSamples >= 2, "profile_samples must be at least 2, got %d", h.ProfileSamples)

	positive("dead_state.p_0", c.DeadState.P0)
	positive("dead_state.T_0", c.DeadState.T0)

	return err
}

// LogAttributes logs every field of the case, marking the ones that kept
// their default value. A field counts as specified when the config file
// set it or when it differs from the default.
func (c *CaseConfig) LogAttributes(log *zap.SugaredLogger) {
	def := DefaultCase()
	c.logSection(log, "cycle", c.Cycle, def.Cycle)
	c.logSection(log, "hrsg", c.HRSG, def.HRSG)
	c.logSection(log, "dead_state", c.DeadState, def.DeadState)
	c.logSection(log, "limits", c.Limits, def.Limits)
}

func (c *CaseConfig) logSection(log *zap.SugaredLogger, section string, v, def interface{}) {
	rv, rd := reflect.ValueOf(v), reflect.ValueOf(def)
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		key := strings.Split(rt.Field(i).Tag.Get("yaml"), ",")[0]
		if key == "" || key == "-" {
			continue
		}
		val := rv.Field(i).Interface()
		if !c.Specified(section+"."+key) && reflect.DeepEqual(val, rd.Field(i).Interface()) {
			log.Infof("Setting attribute %s.%s to default value %v", section, key, val)
		} else {
			log.Infof("Setting attribute %s.%s to specified value %v", section, key, val)
		}
	}
}
