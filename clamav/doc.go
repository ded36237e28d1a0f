// Package clamav invokes the ClamAV scan engine on files and aggregates the
// per-file outcomes.
//
// The engine is an external collaborator: Scanner shells out to the clamscan
// binary (any path configured by the caller) and maps its exit-code contract
// to an Outcome — 0 is clean, 1 is infected with the signature parsed from
// the FOUND line on stdout, anything else is an error carrying stderr. Every
// invocation is bounded by a per-file timeout and no failure ever escapes
// ScanFile; timeouts and launch failures fold into error outcomes so a walk
// always completes with a full Aggregate.
//
// Subprocess execution goes through the Runner interface, so tests can
// substitute a mock engine without a clamscan installation.
package clamav
