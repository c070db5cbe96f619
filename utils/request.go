package utils

import (
	"net"
	"net/http"
	"slices"
	"strings"
)

// GetIP returns the client address of the request. X-Forwarded-For is only
// read when the direct peer is a trusted proxy, and then the nearest hop that
// is not itself trusted wins.
func GetIP(r *http.Request, trustedProxies []string) string {
	peer := remoteHost(r.RemoteAddr)
	if !slices.Contains(trustedProxies, peer) {
		return peer
	}

	hops := strings.Split(r.Header.Get("X-Forwarded-For"), ",")
	for i := len(hops) - 1; i >= 0; i-- {
		hop := strings.TrimSpace(hops[i])
		if hop == "" {
			continue
		}
		if !slices.Contains(trustedProxies, hop) {
			return hop
		}
	}
	return peer
}

func remoteHost(addr string) string {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	return host
}
