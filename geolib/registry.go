package geolib

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/xrash/smetrics"
)

const (
	// DefaultCacheTTL is a TTL of entries in process-wide cache if
	// cache_ttl option is not set.
	DefaultCacheTTL = time.Hour

	// a minimal Jaro-Winkler similarity to suggest a driver name.
	suggestionThreshold = 0.8
)

// DefaultRegistry is a registry where package providers puts built-in
// drivers. NewResolver uses it unless ResolverOpts has another one.
var DefaultRegistry = NewRegistry()

// Registry maps driver names to provider factories. It is safe to
// register drivers concurrently with selection.
type Registry struct {
	mutex     sync.RWMutex
	factories map[string]ProviderFactory
}

// Register adds a new driver. If driver with the same name is already
// registered, it is replaced.
func (r *Registry) Register(name string, factory ProviderFactory) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.factories[name] = factory
}

// Names returns a sorted list of registered drivers.
func (r *Registry) Names() []string {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	rv := make([]string, 0, len(r.factories))

	for k := range r.factories {
		rv = append(rv, k)
	}

	sort.Strings(rv)

	return rv
}

// Select builds a provider for the given configuration.
//
// If options have a positive cache_size, provider is wrapped with
// NewCachingProvider. cache_ttl sets a TTL of cached entries.
func (r *Registry) Select(conf Config) (Provider, error) {
	driver := conf.GetDriver()
	opts := conf.GetOptions()

	r.mutex.RLock()
	factory, ok := r.factories[driver]
	r.mutex.RUnlock()

	if !ok {
		return nil, &ConfigurationError{
			Driver:     driver,
			Suggestion: r.suggest(driver),
		}
	}

	provider, err := factory(opts)
	if err != nil {
		return nil, &ConfigurationError{Driver: driver, Err: err}
	}

	if provider == nil {
		return nil, &ConfigurationError{
			Driver: driver,
			Err:    fmt.Errorf("factory has returned no provider"),
		}
	}

	if cacheSize := opts.Int("cache_size", 0); cacheSize > 0 {
		provider, err = NewCachingProvider(provider, uint(cacheSize),
			opts.Duration("cache_ttl", DefaultCacheTTL))
		if err != nil {
			return nil, &ConfigurationError{Driver: driver, Err: err}
		}
	}

	return provider, nil
}

func (r *Registry) suggest(driver string) string {
	bestScore := suggestionThreshold
	bestName := ""

	for _, name := range r.Names() {
		score := smetrics.JaroWinkler(driver, name, 0.7, 4)

		if score >= bestScore {
			bestScore = score
			bestName = name
		}
	}

	return bestName
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: map[string]ProviderFactory{},
	}
}
