// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package abmath provides the statistics behind A/B test analysis.
//
// For binomial metrics (users and conversions) it computes the exact
// posterior probability that one arm beats the other and the expected
// loss of shipping either arm, both under uniform Beta(1, 1) priors.
// A MonteCarlo type gives sampled estimates of the same quantities.
// SRM checks that traffic was split as intended. For continuous
// metrics summarized by mean, standard deviation and count,
// CompareWelch runs Welch's t-test of each variant against a control.
//
// Every function is a pure computation over its arguments and is safe
// to call concurrently. Invalid arguments are reported as a
// *DomainError or *DegenerateInputError rather than as NaN results.
//
// This package does not decide winners. Thresholds on probability,
// loss or p-value are caller policy; see package abstat.
package abmath
