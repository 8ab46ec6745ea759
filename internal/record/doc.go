// Package record implements the canonical data model for standardized
// accelerator shots: a DataPoint aggregates unit-normalized scalar inputs,
// one raw input distribution, lattice configuration, ordered observables,
// a summary projection, and provenance.
//
// A DataPoint is populated incrementally through Add* builder calls, which
// validate leniently (sub-objects may still be blank). Finalize derives the
// content-addressed ID, computes the summary, and validates everything
// strictly; only a finalized point can be serialized to a container
// artifact. Mutating a finalized point drops the derived state and requires
// re-finalization.
package record
