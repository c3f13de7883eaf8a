// Package gridcut implements a grid graph-cut energy-minimization core for
// image segmentation: an N-D max-flow/min-cut engine specialized for
// regular grids, and three segmentation drivers built on top of it.
//
// Under the hood, everything is organized under six subpackages:
//
//	ndarray/      — dense N-D array storage shared by images, labels, masks
//	neighborhood/ — grid neighbourhood symbol tables and Cauchy-Crofton weights
//	mask/         — three-valued background/foreground/unknown prelabelling
//	gridflow/     — grid-native max-flow/min-cut (Kohli dynamic, push-relabel)
//	estimate/     — region-statistics seeding (two-mean, k-means)
//	segment/      — Chan-Vese, Mumford-Shah and Rousson-Deriche drivers
//
// A typical call loads an image into an ndarray.Array, picks a
// neighborhood.System, and calls one of package segment's drivers; the
// driver alternates a gridflow min-cut with re-estimating region
// statistics until convergence.
package gridcut
