package geolib

import (
	"net"
	"net/http"
)

// FallbackIP is returned by IP discovery if there are no signals at all.
const FallbackIP = "127.0.0.1"

// Names of the sources IP address may come from.
const (
	SourceOverride        = "override"
	SourceClientIP        = "client-ip"
	SourceForwardedFor    = "x-forwarded-for"
	SourceForwarded       = "x-forwarded"
	SourceForwardedForAlt = "forwarded-for"
	SourceForwardedAlt    = "forwarded"
	SourceRemoteAddr      = "remote-addr"
	SourceFallback        = "fallback"
)

// RequestSignals is a bundle of values of the hosting request which may
// carry an IP address of the client. Values are used verbatim: nobody
// splits X-Forwarded-For chains or validates addresses.
type RequestSignals struct {
	ClientIP        string
	ForwardedFor    string
	Forwarded       string
	ForwardedForAlt string
	ForwardedAlt    string
	RemoteAddr      string
}

type discoverySource struct {
	name   string
	lookup func(RequestSignals) string
}

// order matters: first non-empty value wins.
var discoverySources = []discoverySource{
	{SourceClientIP, func(s RequestSignals) string { return s.ClientIP }},
	{SourceForwardedFor, func(s RequestSignals) string { return s.ForwardedFor }},
	{SourceForwarded, func(s RequestSignals) string { return s.Forwarded }},
	{SourceForwardedForAlt, func(s RequestSignals) string { return s.ForwardedForAlt }},
	{SourceForwardedAlt, func(s RequestSignals) string { return s.ForwardedAlt }},
	{SourceRemoteAddr, func(s RequestSignals) string { return s.RemoteAddr }},
}

// Discover returns an IP address of the client. Explicit override has
// the highest priority, then request signals are checked, then
// FallbackIP is returned.
func Discover(override string, signals RequestSignals) string {
	ip, _ := DiscoverSource(override, signals)

	return ip
}

// DiscoverSource is the same as Discover but also returns a name of the
// source where IP address was taken from.
func DiscoverSource(override string, signals RequestSignals) (string, string) {
	if override != "" {
		return override, SourceOverride
	}

	for _, v := range discoverySources {
		if value := v.lookup(signals); value != "" {
			return value, v.name
		}
	}

	return FallbackIP, SourceFallback
}

// SignalsFromRequest collects request signals from HTTP request. Only
// the first value of each header is taken. A port is stripped from
// RemoteAddr.
func SignalsFromRequest(req *http.Request) RequestSignals {
	remoteAddr := req.RemoteAddr

	if host, _, err := net.SplitHostPort(remoteAddr); err == nil {
		remoteAddr = host
	}

	return RequestSignals{
		ClientIP:        req.Header.Get("Client-Ip"),
		ForwardedFor:    req.Header.Get("X-Forwarded-For"),
		Forwarded:       req.Header.Get("X-Forwarded"),
		ForwardedForAlt: req.Header.Get("Forwarded-For"),
		ForwardedAlt:    req.Header.Get("Forwarded"),
		RemoteAddr:      remoteAddr,
	}
}
