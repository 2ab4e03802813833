// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - Source: lists, downloads and archives files in the staging folder
//   - Sink: opens per-cycle upload connections to the remote server
//
// # Optional Interfaces
//
//   - HistoryStore: persists cycle outcomes; nil disables history
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
