// Geolocator is a tool to find out where a given IP address (or a
// caller of HTTP request) is located.
//
// Tool itself is organized into 2 logical parts:
//
// # Geolib
//
// geolib is a main package of the application. It contains Resolver
// which discovers IP address of the client, asks a provider about it
// and caches results. It has its own API and can act as http.Handler.
//
// # Providers
//
// This package has a set of provider implementations which cover most
// of the usecases: online APIs like ip-api.com or ipinfo.io and
// offline databases like MaxMind or IP2Location. Providers register
// themselves when package is imported.
//
// A main package itself is an example of how to wire both geolib and
// providers. It can resolve a single address from CLI or start HTTP
// server which you can use in your infrastructure as is.
package main
