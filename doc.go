// Package captable provides a complete set of functions and types for
// modeling the equity ownership of a private company through its financing
// lifecycle. It is designed to be local-first, auditable, and deterministic,
// ensuring every computed share count and payout can be reproduced from the
// event history alone.
//
// The core functionalities include:
//   - Ledger Management: Recording all financing events (founding, SAFE
//     notes, priced rounds, option-pool operations, secondary sales and
//     exits) in an immutable, chronological record.
//   - Registry Snapshots: A copy-on-write registry of share classes and
//     shareholder holdings; every calculator consumes a snapshot and returns
//     a new one, never mutating its input.
//   - Financing Calculators: SAFE conversion (cap, discount, MFN), priced
//     rounds with joint option-pool sizing, anti-dilution adjustments,
//     liquidation waterfalls and exit scenarios.
//   - Integrity Checking: Conservation laws (ownership sums to 100%, share
//     totals reconcile, no negative holdings) verifiable at any checkpoint.
//   - Data Persistence: Encoding and decoding the event ledger to and from a
//     human-readable, version-controllable JSONL format.
//
// All arithmetic is exact decimal; rounding is applied once, at the output
// boundary, under a single configurable policy.
//
// This package serves as the foundational logic for the `captab` command-line
// tool.
package captable
