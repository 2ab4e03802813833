// Package services contains the core application logic of sigma-relay.
//
// Services depend on the ports in core/ports and the entities in
// core/domain, never on concrete adapters. The single service here is
// Relay, the orchestrator that moves files from the source folder to the
// sink on a polling schedule.
package services
