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
	"github.com/antst/ccgtsim/internal/config"
	"github.com/antst/ccgtsim/internal/fluid"
	mdl "github.com/antst/ccgtsim/internal/thermo_model"
)

const (
	balanceComponent = "balance"
	// destruction below this is a property inconsistency, above it round-off
	minDestruction = -1.0 // W
	etaSlack       = 1e-12
)

// Balance is the energy and exergy accounting of one solved cycle. All
// flows are in W.
type Balance struct {
	W56    float64 `json:"W_56"` // compressor input
	W78    float64 `json:"W_78"` // gas turbine output
	W12    float64 `json:"W_12"` // pump input
	W34    float64 `json:"W_34"` // steam turbine output
	WGas   float64 `json:"W_gas"`
	WSteam float64 `json:"W_steam"`
	WTotal float64 `json:"W_total"`

	Q67 float64 `json:"Q_67"` // combustor heat input
	Q23 float64 `json:"Q_23"` // HRSG duty
	Q14 float64 `json:"Q_14"` // condenser heat rejection

	Ex67          float64 `json:"Ex_67"` // combustor exergy input
	Ex23          float64 `json:"Ex_23"` // steam exergy gain in the HRSG
	Ex14          float64 `json:"Ex_14"` // condenser exergy rejection
	ExhaustEnergy float64 `json:"exhaust_energy"`
	ExhaustExergy float64 `json:"exhaust_exergy"`
	// GasExhaustLoss is the exhaust exergy held in its pressure above the
	// dead state pressure.
	GasExhaustLoss float64 `json:"gas_exhaust_loss"`

	CompressorLoss   float64 `json:"W_56_loss"`
	GasTurbineLoss   float64 `json:"W_78_loss"`
	PumpLoss         float64 `json:"W_12_loss"`
	SteamTurbineLoss float64 `json:"W_34_loss"`
	HRSGLoss         float64 `json:"hrsg_loss"`

	EtaGasTh    float64 `json:"eta_gas_th"`
	EtaGasMax   float64 `json:"eta_gas_th_max"`
	EtaGasEx    float64 `json:"eta_gas_ex"`
	EtaSteamTh  float64 `json:"eta_steam_th"`
	EtaSteamMax float64 `json:"eta_steam_th_max"`
	EtaSteamEx  float64 `json:"eta_steam_ex"`
	EtaTh       float64 `json:"eta_th"`
	EtaThMax    float64 `json:"eta_th_max"`
	EtaEx       float64 `json:"eta_ex"`
}

// Share is one slice of an energy or exergy breakdown.
type Share struct {
	Name     string  `json:"name"`
	Value    float64 `json:"value"`    // W
	Fraction float64 `json:"fraction"` // of the input
}

func shares(total float64, names []string, values []float64) []Share {
	out := make([]Share, len(names))
	for i := range names {
		out[i] = Share{Name: names[i], Value: values[i], Fraction: ratio(values[i], total)}
	}
	return out
}

// EnergyShares splits the combustor heat into net power and the two
// rejected streams; the values add up to Q67.
func (b *Balance) EnergyShares() []Share {
	return shares(b.Q67,
		[]string{"Net power", "Exhaust enthalpy", "Condenser heat rejection"},
		[]float64{b.WTotal, b.ExhaustEnergy, b.Q14})
}

// ExergyShares splits the combustor exergy into net power, rejected
// exergy and the destruction in every component; the values add up to Ex67.
func (b *Balance) ExergyShares() []Share {
	return shares(b.Ex67,
		[]string{
			"Net power", "Exhaust exergy", "Condenser exergy rejection", "Gas compressor loss",
			"Gas turbine loss", "HRSG loss", "Steam pump loss", "Steam turbine loss",
		},
		[]float64{
			b.WTotal, b.ExhaustExergy, b.Ex14, b.CompressorLoss,
			b.GasTurbineLoss, b.HRSGLoss, b.PumpLoss, b.SteamTurbineLoss,
		})
}

func ratio(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}

type BalanceCalculator struct {
	cycle   *config.CycleConfig
	dead    *config.DeadStateConfig
	state   *stateEvaluator
	rankine *RankineLeg
}

func newBalanceCalculator(_cycle *config.CycleConfig, _dead *config.DeadStateConfig, _state *stateEvaluator, _rankine *RankineLeg) *BalanceCalculator {
	return &BalanceCalculator{cycle: _cycle, dead: _dead, state: _state, rankine: _rankine}
}

// SpecificExergyAtState is the specific exergy, in J/kg, of fluid at an
// arbitrary (p, T) against the configured dead state.
func (bc *BalanceCalculator) SpecificExergyAtState(p, t float64, name string) (float64, error) {
	props := bc.state.props
	d, err := deadStateOf(props, name, bc.dead)
	if err != nil {
		return 0, invalidInput(balanceComponent, "", err, "dead state of %s", name)
	}
	h, err := props.Property(fluid.H, fluid.P, p, fluid.T, t, name)
	if err != nil {
		return 0, invalidInput(balanceComponent, "", err, "%s h(P=%g, T=%g)", name, p, t)
	}
	s, err := props.Property(fluid.S, fluid.P, p, fluid.T, t, name)
	if err != nil {
		return 0, invalidInput(balanceComponent, "", err, "%s s(P=%g, T=%g)", name, p, t)
	}
	return mdl.SpecificExergy(h, s, d), nil
}

// Compute derives the balance from a complete state set.
func (bc *BalanceCalculator) Compute(set *mdl.Set) (*Balance, error) {
	mg, ms, t0 := bc.cycle.MDotGas, bc.cycle.MDotSteam, bc.dead.T0
	pt := func(l mdl.Label) *mdl.Point { return set.At(l) }
	p1, p2, p3, p4 := pt(mdl.P1), pt(mdl.P2), pt(mdl.P3), pt(mdl.P4)
	p5, p6, p7, p8, p9 := pt(mdl.P5), pt(mdl.P6), pt(mdl.P7), pt(mdl.P8), pt(mdl.P9)

	b := &Balance{
		W56: mg * (p6.H - p5.H),
		W78: mg * (p7.H - p8.H),
		W12: ms * (p2.H - p1.H),
		W34: ms * (p3.H - p4.H),

		Q67: mg * (p7.H - p6.H),
		Q23: ms * (p3.H - p2.H),
		Q14: bc.rankine.CondenserDuty(set),

		Ex67:          mg * (p7.Ex - p6.Ex),
		Ex23:          ms * (p3.Ex - p2.Ex),
		Ex14:          ms * (p4.Ex - p1.Ex),
		ExhaustEnergy: mg * (p9.H - p5.H),
		ExhaustExergy: mg * (p9.Ex - p5.Ex),

		CompressorLoss:   mg * t0 * (p6.S - p5.S),
		GasTurbineLoss:   mg * t0 * (p8.S - p7.S),
		PumpLoss:         ms * t0 * (p2.S - p1.S),
		SteamTurbineLoss: ms * t0 * (p4.S - p3.S),
		HRSGLoss:         t0 * (ms*(p3.S-p2.S) + mg*(p9.S-p8.S)),
	}
	b.WGas = b.W78 - b.W56
	b.WSteam = b.W34 - b.W12
	b.WTotal = b.WGas + b.WSteam

	ex9Ambient, err := bc.SpecificExergyAtState(bc.dead.P0, p9.T, bc.cycle.GasFluid)
	if err != nil {
		return nil, err
	}
	b.GasExhaustLoss = mg * (p9.Ex - ex9Ambient)

	b.EtaGasTh = ratio(b.WGas, b.Q67)
	b.EtaGasMax = ratio(b.Ex67, b.Q67)
	b.EtaGasEx = ratio(b.WGas, b.Ex67)
	b.EtaSteamTh = ratio(b.WSteam, b.Q23)
	b.EtaSteamMax = ratio(b.Ex23, b.Q23)
	b.EtaSteamEx = ratio(b.WSteam, b.Ex23)
	b.EtaTh = ratio(b.WTotal, b.Q67)
	b.EtaThMax = ratio(b.Ex67, b.Q67)
	b.EtaEx = ratio(b.WTotal, b.Ex67)

	losses := []struct {
		name  string
		point mdl.Label
		value float64
	}{
		{"gas compressor", mdl.P6, b.CompressorLoss},
		{"gas turbine", mdl.P8, b.GasTurbineLoss},
		{"hrsg", mdl.P3, b.HRSGLoss},
		{"steam pump", mdl.P2, b.PumpLoss},
		{"steam turbine", mdl.P4, b.SteamTurbineLoss},
	}
	for _, l := range losses {
		if l.value < minDestruction {
			return nil, infeasible(balanceComponent, l.point.String(), "negative exergy destruction in %s: %.4g W", l.name, l.value)
		}
	}

	if b.EtaThMax <= 1 && b.EtaEx < b.EtaTh-etaSlack {
		return nil, infeasible(balanceComponent, "",
			"exergy efficiency %.6f below thermal efficiency %.6f with maximum efficiency %.6f",
			b.EtaEx, b.EtaTh, b.EtaThMax)
	}

	return b, nil
}
