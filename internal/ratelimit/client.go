package ratelimit

import "strings"

// LoopbackIdentity is used when no forwarded-for header is present.
const LoopbackIdentity = "127.0.0.1"

// ClientIdentity returns the first address of an X-Forwarded-For style header.
//
// The header is client supplied. It is only trustworthy when a proxy in front of
// the service overwrites it; otherwise callers can rotate identities at will.
func ClientIdentity(forwardedFor string) string {
	first, _, _ := strings.Cut(forwardedFor, ",")
	first = strings.TrimSpace(first)
	if first == "" {
		return LoopbackIdentity
	}
	return first
}
