// Package segment implements the image-segmentation drivers built on top
// of package gridflow: ChanVese (two-phase, optionally two-stage banded),
// MumfordShah (piecewise-constant, k-label alpha-expansion), and
// RoussonDeriche (variance-aware two-phase).
//
// Every driver follows the same shape: validate parameters (returning a
// *ValidationError before any max-flow graph is allocated), seed region
// statistics from package estimate, then alternate a min-cut over the
// current statistics with re-estimating the statistics from the resulting
// labelling until convergence or the iteration budget runs out. Each
// driver's Result embeds a Status (Converged, MaxIterReached, or
// ConvergenceError for a numerically degenerate region) plus the
// iteration count and final energy; only a ValidationError is ever
// returned as a Go error — a convergence or numerical failure is reported
// through Status with the last good result still attached.
package segment
