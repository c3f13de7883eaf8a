// Package mask implements a three-valued prelabelling mask: nodes fixed
// to background or foreground are excluded from the max-flow graph
// entirely; their influence is folded into the terminal capacities of
// their UNKNOWN neighbours (see package gridflow's ApplyMask).
package mask
