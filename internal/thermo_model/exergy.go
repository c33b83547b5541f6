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

package thermo_model

// DeadState is the exergy reference of one fluid: enthalpy and entropy
// evaluated at the reference pressure and temperature.
type DeadState struct {
	T0 float64 // K
	H0 float64 // J/kg
	S0 float64 // J/(K kg)
}

// SpecificExergy is the steady flow availability relative to d.
func SpecificExergy(h, s float64, d DeadState) float64 {
	return (h - d.T0*s) - (d.H0 - d.T0*d.S0)
}
