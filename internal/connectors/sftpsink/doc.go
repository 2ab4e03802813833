// Package sftpsink implements the relay's sink port over SFTP: connect
// and authenticate, resolve the destination directory (with chroot
// remapping when the server reports a home directory), create missing
// directories best-effort, and upload staged files.
package sftpsink
