// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package quadrature integrates one-dimensional functions to a
// caller-set tolerance on top of gonum's fixed-order Gauss-Legendre
// rules, by doubling the node count until successive estimates agree.
package quadrature

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/integrate/quad"
)

// ErrTolerance reports that the node budget was exhausted before two
// successive estimates agreed to the requested tolerance. The best
// estimate is still returned alongside it.
var ErrTolerance = errors.New("quadrature: tolerance not reached")

// Defaults used when an Options field is zero.
const (
	DefaultRelTol   = 1e-6
	DefaultMinNodes = 15
	DefaultMaxNodes = 8191
)

// Options tunes the integration. The zero value requests the defaults.
type Options struct {
	// AbsTol is the absolute tolerance. Zero disables the absolute
	// criterion; convergence is then judged on RelTol alone.
	AbsTol float64 `json:"abs_tol" yaml:"abs_tol"`

	// RelTol is the relative tolerance between successive estimates.
	RelTol float64 `json:"rel_tol" yaml:"rel_tol"`

	// MaxNodes caps the Gauss-Legendre node count.
	MaxNodes int `json:"max_nodes" yaml:"max_nodes"`
}

func (o Options) withDefaults() Options {
	if o.RelTol <= 0 && o.AbsTol <= 0 {
		o.RelTol = DefaultRelTol
	}
	if o.MaxNodes <= 0 {
		o.MaxNodes = DefaultMaxNodes
	}
	return o
}

// Integrate computes the integral of f over [a, b]. It refines a
// Gauss-Legendre estimate by doubling the node count until two
// successive estimates agree within tolerance. If the node budget runs
// out first, the last estimate is returned with ErrTolerance.
func Integrate(f func(float64) float64, a, b float64, opts Options) (float64, error) {
	if a == b {
		return 0, nil
	}
	opts = opts.withDefaults()

	prev := quad.Fixed(f, a, b, DefaultMinNodes, quad.Legendre{}, 0)
	for n := 2*DefaultMinNodes + 1; n <= opts.MaxNodes; n = 2*n + 1 {
		cur := quad.Fixed(f, a, b, n, quad.Legendre{}, 0)
		if converged(prev, cur, opts) {
			return cur, nil
		}
		prev = cur
	}
	return prev, ErrTolerance
}

func converged(prev, cur float64, opts Options) bool {
	diff := math.Abs(cur - prev)
	if opts.AbsTol > 0 && diff <= opts.AbsTol {
		return true
	}
	if opts.RelTol > 0 && diff <= opts.RelTol*math.Abs(cur) {
		return true
	}
	// Both estimates are exactly zero: nothing left to resolve.
	return cur == 0 && prev == 0
}
