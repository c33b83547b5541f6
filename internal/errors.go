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
	"strings"

	"github.com/pkg/errors"
)

type ErrorKind int

const (
	// KindInvalidInput is a configuration or property lookup outside the
	// valid domain.
	KindInvalidInput ErrorKind = iota + 1
	// KindNonConvergence is the HRSG coupling not meeting its tolerance.
	KindNonConvergence
	// KindInfeasible is a converged result that breaks a physical sign rule.
	KindInfeasible
)

func (k ErrorKind) String() string {
	switch k {
	case KindInvalidInput:
		return "invalid input"
	case KindNonConvergence:
		return "non-convergence"
	case KindInfeasible:
		return "infeasible"
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// SolveError aborts a solve. Point is empty when the failure is not tied to
// one state point; Residuals is only set for HRSG failures.
type SolveError struct {
	Kind      ErrorKind
	Component string
	Point     string
	Detail    string
	Residuals []float64
	Err       error
}

func (e *SolveError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s", e.Component, e.Kind)
	if e.Point != "" {
		fmt.Fprintf(&b, " at point %s", e.Point)
	}
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	if len(e.Residuals) > 0 {
		fmt.Fprintf(&b, " (residuals %.4g)", e.Residuals)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *SolveError) Unwrap() error { return e.Err }

// KindOf returns the kind of the first SolveError in err's chain, or zero.
func KindOf(err error) ErrorKind {
	var se *SolveError
	if errors.As(err, &se) {
		return se.Kind
	}
	return 0
}

func invalidInput(component, point string, err error, format string, args ...interface{}) *SolveError {
	return &SolveError{
		Kind:      KindInvalidInput,
		Component: component,
		Point:     point,
		Detail:    fmt.Sprintf(format, args...),
		Err:       err,
	}
}

func infeasible(component, point, format string, args ...interface{}) *SolveError {
	return &SolveError{
		Kind:      KindInfeasible,
		Component: component,
		Point:     point,
		Detail:    fmt.Sprintf(format, args...),
	}
}
