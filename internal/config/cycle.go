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

// CycleConfig is the operating point of both legs. Points 5..9 are on the
// gas side, 1..4 on the steam side.
type CycleConfig struct {
	GasFluid   string `yaml:"gas_fluid"`
	SteamFluid string `yaml:"steam_fluid"`

	P5        float64 `yaml:"p_5"`         // Pa, compressor inlet
	T5        float64 `yaml:"T_5"`         // K
	RPComp    float64 `yaml:"r_p_comp"`    // compressor pressure ratio
	NCGas     float64 `yaml:"n_c_gas"`     // compressor isentropic efficiency
	MDotGas   float64 `yaml:"m_dot_gas"`   // kg/s
	Q67       float64 `yaml:"Q_67"`        // W, combustor heat input
	RPTurb    float64 `yaml:"r_p_turb"`    // gas turbine pressure ratio
	NTGas     float64 `yaml:"n_t_gas"`     // gas turbine isentropic efficiency
	MDotSteam float64 `yaml:"m_dot_steam"` // kg/s
	P1        float64 `yaml:"p_1"`         // Pa, condenser
	RPPump    float64 `yaml:"r_p_pump"`    // pump pressure ratio
	NCSteam   float64 `yaml:"n_c_steam"`   // pump isentropic efficiency
	T1        float64 `yaml:"T_1"`         // K, condensate
	NTSteam   float64 `yaml:"n_t_steam"`   // steam turbine isentropic efficiency
}

func DefaultCycle() CycleConfig {
	return CycleConfig{
		GasFluid:   "air",
		SteamFluid: "water",
		P5:         101325,
		T5:         298.15,
		RPComp:     23,
		NCGas:      0.85,
		MDotGas:    1055.9,
		Q67:        1.0453e9,
		RPTurb:     20.9186,
		NTGas:      0.85,
		MDotSteam:  150.3,
		P1:         0.04 * 101325,
		RPPump:     1000,
		NCSteam:    0.85,
		T1:         297.9,
		NTSteam:    0.8,
	}
}

// HRSGConfig holds the exchanger characteristics and the coupling solver
// settings.
type HRSGConfig struct {
	UA              float64 `yaml:"ua"` // W/K
	F               float64 `yaml:"f"`
	Tolerance       float64 `yaml:"tolerance"`
	MaxIterations   int     `yaml:"max_iterations"`
	MaxBacktracks   int     `yaml:"max_backtracks"`
	SeedDutyFrac    float64 `yaml:"seed_duty_fraction"`
	SeedSteamFactor float64 `yaml:"seed_steam_factor"`
	SeedGasBlend    float64 `yaml:"seed_gas_blend"`
	ProfileSamples  int     `yaml:"profile_samples"`
}

func DefaultHRSG() HRSGConfig {
	return HRSGConfig{
		UA:              5.5e6,
		F:               1.0,
		Tolerance:       1e-6,
		MaxIterations:   100,
		MaxBacktracks:   30,
		SeedDutyFrac:    0.75,
		SeedSteamFactor: 2.5,
		SeedGasBlend:    0.3,
		ProfileSamples:  50,
	}
}

// DeadStateConfig is the exergy reference state shared by both fluids.
type DeadStateConfig struct {
	P0 float64 `yaml:"p_0"` // Pa
	T0 float64 `yaml:"T_0"` // K
}

func DefaultDeadState() DeadStateConfig {
	return DeadStateConfig{P0: 101325, T0: 298.15}
}

type LimitsConfig struct {
	MaxGasTurbineInletT   float64 `yaml:"max_gas_turbine_inlet_T"`   // K
	MaxSteamTurbineInletT float64 `yaml:"max_steam_turbine_inlet_T"` // K
	MinCondenserQuality   float64 `yaml:"min_condenser_quality"`
	MaxHRSGPressure       float64 `yaml:"max_hrsg_pressure"`      // Pa
	MinCondenserPressure  float64 `yaml:"min_condenser_pressure"` // Pa
}

func DefaultLimits() LimitsConfig {
	return LimitsConfig{
		MaxGasTurbineInletT:   1750,
		MaxSteamTurbineInletT: 900,
		MinCondenserQuality:   0.88,
		MaxHRSGPressure:       16.5e6,
		MinCondenserPressure:  1000,
	}
}
