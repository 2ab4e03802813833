// Package domain defines the core business entities for sigma-relay.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies beyond uuid and defines the
// fundamental types:
//
//   - FileRecord: one staged file tracked through a relay cycle
//   - RelayConfig: immutable per-run parameters
//   - CycleResult: the outcome of one relay cycle
//   - Event: a status message emitted while a cycle runs
//
// # Import Rules
//
//   - Can Import: Standard library and uuid only
//   - Cannot Import: Any other internal/ package
package domain
