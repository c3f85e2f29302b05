// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package elastic

import "errors"

// Sentinel errors. All configuration problems are detected before any
// numeric integration starts and wrap one of these, so callers can
// branch with errors.Is.
var (
	// ErrInvalidArgument reports a physically meaningless input, such
	// as a non-positive mass number or a negative recoil energy.
	ErrInvalidArgument = errors.New("elastic: invalid argument")

	// ErrUnsupportedConfig reports a valid request the module has no
	// data for, such as a spin-dependent interaction on a material
	// without tabulated structure functions.
	ErrUnsupportedConfig = errors.New("elastic: unsupported configuration")

	// ErrUnsupportedInteraction reports an interaction label that does
	// not name a known interaction family.
	ErrUnsupportedInteraction = errors.New("elastic: unsupported interaction")

	// ErrMomentumParams reports that exactly one of the momentum
	// dependence power and reference momentum was supplied.
	ErrMomentumParams = errors.New("elastic: momentum dependence requires both power and reference momentum")
)
