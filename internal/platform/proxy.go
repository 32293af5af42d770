// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package platform

import (
	"fmt"
	"strings"
)

// proxyTemplate addresses an entry's data section relative to the upload's
// raw-file area.
const proxyTemplate = "../uploads/%s/archive/%s#/data"

// BuildProxy returns the proxy value for the data section of an entry.
func BuildProxy(uploadID, entryID string) string {
	return fmt.Sprintf(proxyTemplate, uploadID, entryID)
}

// NormalizeProxy rewrites a proxy value so its section fragment is an
// absolute path ("...#data" becomes "...#/data"). The second return is
// false for a value that does not split into exactly one head and one
// fragment; such values are returned unchanged.
func NormalizeProxy(v string) (string, bool) {
	parts := strings.Split(v, "#")
	if len(parts) != 2 {
		return v, false
	}
	head, fragment := parts[0], parts[1]
	if !strings.HasPrefix(fragment, "/") {
		fragment = "/" + fragment
	}
	return head + "#" + fragment, true
}

// EntryIDFromProxy extracts the entry identifier from a proxy value: the
// last path segment ahead of the fragment.
func EntryIDFromProxy(v string) string {
	head, _, _ := strings.Cut(v, "#")
	if i := strings.LastIndex(head, "/"); i >= 0 {
		return head[i+1:]
	}
	return head
}

// ParseProxy splits a proxy value built with the standard template into
// its upload and entry identifiers. ok is false for values in any other
// shape.
func ParseProxy(v string) (uploadID, entryID string, ok bool) {
	head, _, _ := strings.Cut(v, "#")
	segs := strings.Split(head, "/")
	if len(segs) != 5 || segs[1] != "uploads" || segs[3] != "archive" {
		return "", "", false
	}
	if segs[2] == "" || segs[4] == "" {
		return "", "", false
	}
	return segs[2], segs[4], true
}
