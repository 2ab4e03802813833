// Package drive implements the relay's source port against the Google
// Drive v3 API: folder listing, content download and export, and the
// archive-folder move that marks a file as relayed.
//
// All network round trips run through the retry policy and a client-side
// rate limiter kept well below Google's per-user quota.
package drive
