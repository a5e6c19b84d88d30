package main

import (
	"crypto/subtle"
	"net/http"
)

type basicAuthMiddleware struct {
	handler  http.Handler
	user     []byte
	password []byte
}

func (b *basicAuthMiddleware) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	user, pass, _ := req.BasicAuth()

	userBytes := []byte(user)
	passBytes := []byte(pass)

	if subtle.ConstantTimeCompare(b.user, userBytes)+subtle.ConstantTimeCompare(b.password, passBytes) == 2 {
		b.handler.ServeHTTP(w, req)

		return
	}

	w.Header().Set("WWW-Authenticate", `Basic realm="geolocator"`)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"error": {"message": "Authentication is required", "context": ""}}`)) // nolint: errcheck
}

func wrapBasicAuth(conf *config, handler http.Handler) http.Handler {
	if !conf.HasBasicAuth() {
		return handler
	}

	return &basicAuthMiddleware{
		handler:  handler,
		user:     []byte(conf.GetBasicAuthUser()),
		password: []byte(conf.GetBasicAuthPassword()),
	}
}
