// Package estimate provides the initial region-statistics estimators the
// segmentation drivers in package segment need before their first
// max-flow call: Gibou-Fedkiw weighted two-mean (optionally extended to
// per-region variance for the Rousson-Deriche driver) and Lloyd k-means
// on the 1-D intensity distribution for multi-label initialization.
//
// What:
//
//   - GibouFedkiwTwoMean / GibouFedkiwTwoMeanVariance split an image into
//     two regions by a residual-sign rule and iterate region means (and,
//     for the variance form, variances) to a fixed point.
//   - LloydKMeans1D partitions the 1-D intensity range into k classes
//     under per-class weights, iterating nearest-weighted-centre
//     assignment and mean recomputation.
//
// Why:
//
//   - Both are fixed-point loops over region membership, and both can
//     degenerate to an empty region on a constant or near-constant image;
//     ErrEmptyRegion is the shared signal a caller translates into a
//     convergence-error result rather than a panic or zero-valued centre.
//
// Complexity: O(len*maxIter) for both estimators.
package estimate
