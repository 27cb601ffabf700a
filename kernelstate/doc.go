// Package kernelstate provides a built-in implementation of the
// types.KernelState interface.
//
// The topology manager only consumes KernelState; real kernels usually
// implement the interface over their own registries. Tracking is for
// embedders that want a ready-made quiescence tracker, and for tests.
package kernelstate
