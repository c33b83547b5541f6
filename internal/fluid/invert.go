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

package fluid

import (
	"math"

	"github.com/pkg/errors"
)

const (
	maxInvertIterations = 100
	invertTolerance     = 1e-10 // K
)

// invert finds t in [lo, hi] with f(t) = target for a monotonically
// increasing f that also returns its derivative. Newton steps leaving the
// current bracket fall back to bisection.
func invert(f func(t float64) (float64, float64), target, lo, hi float64) (float64, error) {
	flo, _ := f(lo)
	fhi, _ := f(hi)
	if target < flo || target > fhi {
		return 0, errors.Wrapf(ErrOutOfDomain, "value %g outside [%g, %g] for T in [%g, %g]", target, flo, fhi, lo, hi)
	}
	if target == flo {
		return lo, nil
	}
	if target == fhi {
		return hi, nil
	}

	t := lo + (hi-lo)*(target-flo)/(fhi-flo)
	for i := 0; i < maxInvertIterations; i++ {
		v, dv := f(t)
		r := v - target
		if r == 0 {
			return t, nil
		}
		if r > 0 {
			hi = t
		} else {
			lo = t
		}

		next := t - r/dv
		if dv <= 0 || math.IsNaN(next) || next <= lo || next >= hi {
			next = 0.5 * (lo + hi)
		}
		if math.Abs(next-t) < invertTolerance || hi-lo < invertTolerance {
			return next, nil
		}
		t = next
	}
	return t, errors.Errorf("inversion did not converge for target %g, last T=%g", target, t)
}
