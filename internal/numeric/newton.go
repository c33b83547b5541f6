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

package numeric

import (
	"math"

	"github.com/antst/ccgtsim/internal/logger"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

var (
	ErrNotConverged = errors.New("root finder did not converge")
	ErrSingular     = errors.New("singular jacobian")
)

// Func evaluates the residual vector of x into dst. An error marks x as a
// point where the residuals are undefined.
type Func func(dst, x []float64) error

type Settings struct {
	// Tolerance on the largest absolute residual.
	Tolerance     float64
	MaxIterations int
	// MaxBacktracks bounds the step halvings of one line search.
	MaxBacktracks int
	// Step is the absolute finite difference step, zero picks the fd default.
	Step float64
}

func DefaultSettings() Settings {
	return Settings{
		Tolerance:     1e-6,
		MaxIterations: 100,
		MaxBacktracks: 30,
	}
}

type Result struct {
	X           []float64
	Residuals   []float64
	Iterations  int
	Evaluations int
}

// armijo is the sufficient decrease constant of the backtracking search.
const armijo = 1e-4

// Newton solves f(x) = 0 from x0 with a damped Newton iteration: central
// difference jacobian, LU solve, backtracking on the euclidean residual
// norm. On failure the returned Result still carries the last iterate.
func Newton(f Func, x0 []float64, s Settings) (*Result, error) {
	n := len(x0)
	if n == 0 {
		return nil, errors.New("newton: empty system")
	}
	if s.MaxIterations <= 0 || s.Tolerance <= 0 {
		return nil, errors.Errorf("newton: invalid settings %+v", s)
	}

	res := &Result{
		X:         append([]float64(nil), x0...),
		Residuals: make([]float64, n),
	}
	eval := func(dst, x []float64) error {
		res.Evaluations++
		if err := f(dst, x); err != nil {
			return err
		}
		for _, v := range dst {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return errors.New("non-finite residual")
			}
		}
		return nil
	}

	if err := eval(res.Residuals, res.X); err != nil {
		return res, errors.WithMessage(err, "newton: initial guess")
	}

	var (
		jac    = mat.NewDense(n, n, nil)
		rhs    = mat.NewVecDense(n, nil)
		step   = mat.NewVecDense(n, nil)
		trial  = make([]float64, n)
		rTrial = make([]float64, n)
		jset   = &fd.JacobianSettings{Formula: fd.Central, Step: s.Step}
	)
	// fd.Jacobian cannot report failures, undefined points become NaN.
	jf := func(y, x []float64) {
		if err := eval(y, x); err != nil {
			for i := range y {
				y[i] = math.NaN()
			}
		}
	}

	for {
		norm := floats.Norm(res.Residuals, math.Inf(1))
		if norm < s.Tolerance {
			logger.L().Debugf("newton: converged after %d iterations, max|r| = %.3g", res.Iterations, norm)
			return res, nil
		}
		if res.Iterations >= s.MaxIterations {
			return res, errors.Wrapf(ErrNotConverged, "%d iterations, max|r| = %.3g", res.Iterations, norm)
		}
		res.Iterations++

		fd.Jacobian(jac, jf, res.X, jset)
		if hasNonFinite(jac.RawMatrix().Data) {
			return res, errors.Wrapf(ErrSingular, "jacobian undefined around %v", res.X)
		}

		for i, v := range res.Residuals {
			rhs.SetVec(i, -v)
		}
		if err := step.SolveVec(jac, rhs); err != nil {
			var cond mat.Condition
			if !errors.As(err, &cond) || math.IsInf(float64(cond), 1) {
				return res, errors.Wrapf(ErrSingular, "at %v: %v", res.X, err)
			}
		}
		if hasNonFinite(step.RawVector().Data) {
			return res, errors.Wrapf(ErrSingular, "at %v", res.X)
		}

		l2 := floats.Norm(res.Residuals, 2)
		alpha := 1.0
		accepted := false
		for b := 0; b <= s.MaxBacktracks; b++ {
			for i := range trial {
				trial[i] = res.X[i] + alpha*step.AtVec(i)
			}
			if eval(rTrial, trial) == nil && floats.Norm(rTrial, 2) <= (1-armijo*alpha)*l2 {
				accepted = true
				break
			}
			alpha /= 2
		}
		if !accepted {
			return res, errors.Wrapf(ErrNotConverged, "line search failed at iteration %d, max|r| = %.3g", res.Iterations, norm)
		}

		copy(res.X, trial)
		copy(res.Residuals, rTrial)
		logger.L().Debugf("newton: iteration %d, step %g, x = %v, r = %v", res.Iterations, alpha, res.X, res.Residuals)
	}
}

func hasNonFinite(v []float64) bool {
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return true
		}
	}
	return false
}
