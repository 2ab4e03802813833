package sftpsink

import "strings"

// DefaultStorageRoot is the storage bucket segment of the templated
// destination path used when the server does not report a home directory.
const DefaultStorageRoot = "vendor-automation-sftp-storage-live-me-1"

// catalogDir is the leaf directory files are uploaded into.
const catalogDir = "catalog"

// destinationDir computes the upload directory. The intended path is
// /<storageRoot>/home/<username>/catalog; when the server reported a home
// directory the path is remapped to <home>/catalog instead, which keeps
// working on servers that chroot the session to the user's subtree.
func destinationDir(home, storageRoot, username string) string {
	if home != "" {
		return strings.TrimRight(home, "/") + "/" + catalogDir
	}
	return "/" + storageRoot + "/home/" + username + "/" + catalogDir
}

// splitPath breaks a slash path into the accumulated prefixes that a
// left-to-right mkdir walk must visit, e.g. /a/b/c -> /a, /a/b, /a/b/c.
func splitPath(path string) []string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" || path == "." || path == "~" {
		return nil
	}
	absolute := strings.HasPrefix(path, "/")

	var prefixes []string
	current := ""
	for _, part := range strings.Split(trimmed, "/") {
		if part == "" {
			continue
		}
		switch {
		case current != "":
			current = current + "/" + part
		case absolute:
			current = "/" + part
		default:
			current = part
		}
		prefixes = append(prefixes, current)
	}
	return prefixes
}
