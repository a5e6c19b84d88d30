// This package provides a set of structs and functions which are used
// to geolocate a client IP address of a request.
//
// geolib is a core of the geolocator project. You can treat the rest
// of the application as an _example_ on how to use this library: how
// to build request signals from HTTP requests, how to generate
// responses, how to implement providers.
//
// Resolver is a main entity of the geolib. It owns exactly one
// Provider, an optional IP override and a per-IP cache of lookup
// results. A Resolver is meant to live as long as a single request:
// create it, ask for attributes, drop it.
//
//	resolver, err := geolib.NewResolver(geolib.Config{Driver: "ip-api"},
//	    geolib.ResolverOpts{Signals: geolib.SignalsFromRequest(req)})
//	if err != nil {
//	    return err
//	}
//
//	city, err := resolver.GetCity(req.Context())
//
// Providers are selected by name from a Registry. Package providers
// registers built-in ones into DefaultRegistry so usually it is enough
// to import it for side effects.
package geolib
