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
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func circleLine(dst, x []float64) error {
	dst[0] = x[0]*x[0] + x[1]*x[1] - 4
	dst[1] = x[0] - x[1]
	return nil
}

func TestNewtonConverges(t *testing.T) {
	res, err := Newton(circleLine, []float64{3, 0.5}, DefaultSettings())
	require.NoError(t, err)
	assert.InDelta(t, math.Sqrt2, res.X[0], 1e-6)
	assert.InDelta(t, math.Sqrt2, res.X[1], 1e-6)
	for _, r := range res.Residuals {
		assert.Less(t, math.Abs(r), 1e-6)
	}
	assert.LessOrEqual(t, res.Iterations, 10)
}

func TestNewtonBacksOffFromUndefinedRegion(t *testing.T) {
	// 1/x - 1/2 is only evaluated for x > 0; the full step from 5 lands at -2.5.
	f := func(dst, x []float64) error {
		if x[0] <= 0 {
			return errors.New("undefined")
		}
		dst[0] = 1/x[0] - 0.5
		return nil
	}
	res, err := Newton(f, []float64{5}, DefaultSettings())
	require.NoError(t, err)
	assert.InDelta(t, 2, res.X[0], 1e-5)
}

func TestNewtonFailures(t *testing.T) {
	t.Run("iteration cap", func(t *testing.T) {
		s := DefaultSettings()
		s.MaxIterations = 1
		res, err := Newton(circleLine, []float64{10, 1}, s)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrNotConverged))
		require.NotNil(t, res)
		assert.Len(t, res.Residuals, 2)
		assert.Equal(t, 1, res.Iterations)
	})

	t.Run("singular jacobian", func(t *testing.T) {
		f := func(dst, x []float64) error {
			dst[0] = x[0]*x[0] + 1
			return nil
		}
		_, err := Newton(f, []float64{0}, DefaultSettings())
		assert.True(t, errors.Is(err, ErrSingular), "%v", err)
	})

	t.Run("undefined initial guess", func(t *testing.T) {
		f := func(dst, x []float64) error { return errors.New("undefined") }
		_, err := Newton(f, []float64{1}, DefaultSettings())
		assert.Error(t, err)
	})

	t.Run("bad settings", func(t *testing.T) {
		_, err := Newton(circleLine, []float64{1, 1}, Settings{})
		assert.Error(t, err)
		_, err = Newton(circleLine, nil, DefaultSettings())
		assert.Error(t, err)
	})
}
