// Package file loads the relay configuration from a TOML file.
//
// The desktop front ends and the encrypted profile store write the same
// fields through their own channels; this loader is the headless path.
package file
