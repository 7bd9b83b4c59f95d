package api

import (
	"net"
	"net/http"
	"strings"
)

const (
	pixelScriptPath   = "/pixel-script"
	webhookPath       = "/webhook/shopify-events"
	webhookStreamPath = "/webhook/shopify-events/stream"
	installPath       = "/shopify/install/direct"
	callbackPath      = "/shopify/auth/callback"
	instructionsPath  = "/instructions"
)

// serverURL is the externally visible base URL for a request.
// PUBLIC_HOST wins; otherwise the request's own scheme and host are used.
func serverURL(r *http.Request, publicHost string) string {
	if publicHost != "" {
		return "https://" + publicHost
	}
	return requestScheme(r) + "://" + r.Host
}

// scriptBaseURL is the base URL the pixel script posts events to.
// Pixels run on https storefronts, so only plain-http localhost keeps http.
func scriptBaseURL(r *http.Request, publicHost string) string {
	if publicHost != "" {
		return "https://" + publicHost
	}
	if requestScheme(r) == "http" && isLocalHost(r.Host) {
		return "http://" + r.Host
	}
	return "https://" + r.Host
}

func requestScheme(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		return strings.ToLower(strings.TrimSpace(strings.Split(proto, ",")[0]))
	}
	return "http"
}

func isLocalHost(hostport string) bool {
	host := hostport
	if h, _, err := net.SplitHostPort(hostport); err == nil {
		host = h
	}
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
