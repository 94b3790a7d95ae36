// Package pumpfun prices trades against pump.fun bonding curves and builds the
// program's instructions.
//
// Everything here is pure: account codecs, address derivation, the integer
// pricing engine and instruction builders. Amounts are raw units, lamports for
// SOL and 10^-6 for tokens. Reading accounts from a cluster is pkg/client's job.
package pumpfun
