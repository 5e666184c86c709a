// Package ops implements differentiable operations on autodiff.Computed
// handles beyond the core arithmetic.
//
// Every backward rule is written with Computed operations, so gradients
// computed with createGraph enabled can be differentiated again.
package ops
