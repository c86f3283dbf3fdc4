// Package ahp implements the Analytic Hierarchy Process engine: Saaty scale
// mapping, reciprocal matrix construction, priority estimation by
// column-normalised averaging, consistency ratio estimation, weighted
// aggregation, sensitivity reweighting and the express star-rating path.
//
// Every function is pure and safe for concurrent use. Nothing here returns
// an error: malformed numeric input degrades to neutral defaults.
package ahp
