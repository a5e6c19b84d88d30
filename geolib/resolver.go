package geolib

import (
	"context"
	"time"
)

// ResolverOpts are optional collaborators of Resolver.
type ResolverOpts struct {
	// Registry to select a provider from. DefaultRegistry is used if
	// nil.
	Registry *Registry

	// Signals of the current request which are used to discover an IP
	// address of the client.
	Signals RequestSignals

	Logger Logger
}

// Resolver coordinates IP discovery, caching and attribute retrieval.
//
// Resolver is intended to live as long as a single request. It caches
// each successful lookup per IP address and never evicts them: each
// IP is looked up by provider at most once. Failed lookups are not
// cached so next call will try again.
//
// Resolver is not safe for concurrent use.
type Resolver struct {
	provider     Provider
	ownsProvider bool
	logger       Logger
	signals      RequestSignals
	ip           string
	store        map[string]AttributeMap
}

// Provider returns a provider this resolver delegates lookups to.
func (r *Resolver) Provider() Provider {
	return r.provider
}

// SetIP sets an explicit IP address which overrides any request
// signals. IP is not validated.
func (r *Resolver) SetIP(ip string) *Resolver {
	r.ip = ip

	return r
}

// IP returns an IP address to geolocate.
func (r *Resolver) IP() string {
	return Discover(r.ip, r.signals)
}

// IPSource returns an IP address to geolocate with a name of the source
// it was taken from.
func (r *Resolver) IPSource() (string, string) {
	return DiscoverSource(r.ip, r.signals)
}

// Get returns a value of the given property for the current IP
// address. If property is empty, the whole AttributeMap is returned.
// Absent properties are returned as empty strings.
func (r *Resolver) Get(ctx context.Context, property string) (interface{}, error) {
	data, err := r.Data(ctx)
	if err != nil {
		return nil, err
	}

	if property == "" {
		return data, nil
	}

	if value, ok := data.Value(property); ok {
		return value, nil
	}

	return "", nil
}

// Data returns all attributes of the current IP address. Provider is
// accessed only if there is no cached result for this IP.
//
// Any error of provider is returned as *LookupError.
func (r *Resolver) Data(ctx context.Context) (AttributeMap, error) {
	ip := r.IP()

	if data, ok := r.store[ip]; ok {
		return data, nil
	}

	name := r.provider.Name()
	started := time.Now()

	data, err := r.provider.Lookup(ctx, ip)
	if err != nil {
		r.logger.LookupError(ip, name, err)

		return nil, &LookupError{
			IP:       ip,
			Provider: name,
			Err:      err,
		}
	}

	if data == nil {
		data = AttributeMap{}
	}

	r.store[ip] = data
	r.logger.LookupDone(ip, name, time.Since(started))

	return data, nil
}

// Cached tells if there is a cached result for the given IP address.
func (r *Resolver) Cached(ip string) bool {
	_, ok := r.store[ip]

	return ok
}

// Close releases a provider if it was created by NewResolver and has
// any resources to release (for example, opened database).
func (r *Resolver) Close() error {
	if !r.ownsProvider {
		return nil
	}

	if closer, ok := r.provider.(interface{ Close() error }); ok {
		return closer.Close()
	}

	return nil
}

// NewResolver selects a provider according to configuration and returns
// a resolver which owns it. It returns *ConfigurationError if provider
// cannot be selected.
func NewResolver(conf Config, opts ResolverOpts) (*Resolver, error) {
	registry := opts.Registry
	if registry == nil {
		registry = DefaultRegistry
	}

	provider, err := registry.Select(conf)
	if err != nil {
		return nil, err
	}

	rv := NewProviderResolver(provider, opts)
	rv.ownsProvider = true

	return rv, nil
}

// NewProviderResolver returns a resolver for already selected provider.
// Provider is not closed by Resolver.Close: this is useful if provider
// is shared by many short-living resolvers.
func NewProviderResolver(provider Provider, opts ResolverOpts) *Resolver {
	logger := opts.Logger
	if logger == nil {
		logger = nopLogger{}
	}

	return &Resolver{
		provider: provider,
		logger:   logger,
		signals:  opts.Signals,
		store:    map[string]AttributeMap{},
	}
}
