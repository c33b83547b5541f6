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
	"fmt"

	"github.com/antst/ccgtsim/internal/config"
	mdl "github.com/antst/ccgtsim/internal/thermo_model"
)

type ViolationKind string

const (
	GasTurbineOvertemperature   ViolationKind = "gas turbine overtemperature"
	SteamTurbineOvertemperature ViolationKind = "steam turbine overtemperature"
	ErosionRisk                 ViolationKind = "erosion risk"
	SupercriticalRisk           ViolationKind = "supercritical risk"
	FreezingRisk                ViolationKind = "freezing risk"
)

// Violation is a limit the solved cycle exceeds. It never aborts a solve.
type Violation struct {
	Kind  ViolationKind `json:"kind"`
	Point mdl.Label     `json:"point"`
	Value float64       `json:"value"`
	Limit float64       `json:"limit"`
}

func (v Violation) String() string {
	return fmt.Sprintf("%s at point %s: %.4g against limit %.4g", v.Kind, v.Point, v.Value, v.Limit)
}

type SafetyChecker struct {
	cfg *config.LimitsConfig
}

func newSafetyChecker(_cfg *config.LimitsConfig) *SafetyChecker {
	return &SafetyChecker{cfg: _cfg}
}

// Check compares the completed state set with the limits.
func (sc *SafetyChecker) Check(set *mdl.Set) []Violation {
	var out []Violation
	add := func(kind ViolationKind, l mdl.Label, value, limit float64) {
		out = append(out, Violation{Kind: kind, Point: l, Value: value, Limit: limit})
	}

	if t7 := set.At(mdl.P7).T; t7 > sc.cfg.MaxGasTurbineInletT {
		add(GasTurbineOvertemperature, mdl.P7, t7, sc.cfg.MaxGasTurbineInletT)
	}
	if t3 := set.At(mdl.P3).T; t3 > sc.cfg.MaxSteamTurbineInletT {
		add(SteamTurbineOvertemperature, mdl.P3, t3, sc.cfg.MaxSteamTurbineInletT)
	}
	// single-phase turbine exhaust has no quality to check
	if x4, ok := set.At(mdl.P4).Quality(); ok && x4 < sc.cfg.MinCondenserQuality {
		add(ErosionRisk, mdl.P4, x4, sc.cfg.MinCondenserQuality)
	}
	if p3 := set.At(mdl.P3).P; p3 > sc.cfg.MaxHRSGPressure {
		add(SupercriticalRisk, mdl.P3, p3, sc.cfg.MaxHRSGPressure)
	}
	if p1 := set.At(mdl.P1).P; p1 < sc.cfg.MinCondenserPressure {
		add(FreezingRisk, mdl.P1, p1, sc.cfg.MinCondenserPressure)
	}
	return out
}
