// Package status builds one normalized [RepoStatus] per repository.
//
// The [Analyzer] asks a [git.Opener] for branch, cleanliness, divergence
// and, on request, the verbose [Details] group and hook presence. A
// repository that cannot be opened yields no record at all; queries that
// fail inside an opened repository fall back to zero values.
//
// [Analyzer.AnalyzeAll] runs the analysis on a bounded worker pool. Each
// worker opens its own repository handle, and results come back sorted
// by path.
package status
