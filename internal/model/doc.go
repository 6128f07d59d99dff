// Package model defines shared data types used across the peg monitor.
//
// Conventions:
//   - Prices: float64 USD
//   - Timestamps: time.Time; provider millisecond epochs are converted
//     at the source-client boundary, never downstream
//   - Absence: a symbol missing from a Snapshot map means the fetch
//     failed that cycle; it is never encoded as a zero value
package model
