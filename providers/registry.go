package providers

import (
	"github.com/9seconds/geolocator/geolib"
	"github.com/spf13/afero"
)

func init() {
	Register(geolib.DefaultRegistry, afero.NewReadOnlyFs(afero.NewOsFs()))
}

// Register puts all built-in providers into a given registry. Database
// providers read their files from fs.
func Register(registry *geolib.Registry, fs afero.Fs) {
	registry.Register(NameIPAPI, func(opts geolib.Options) (geolib.Provider, error) {
		return NewIPAPI(NewHTTPClient(opts), opts.String("key"), opts.String("lang")), nil
	})

	registry.Register(NameIPInfo, func(opts geolib.Options) (geolib.Provider, error) {
		return NewIPInfo(NewHTTPClient(opts), opts.String("auth_token")), nil
	})

	registry.Register(NameIPStack, func(opts geolib.Options) (geolib.Provider, error) {
		return NewIPStack(NewHTTPClient(opts), opts.String("auth_token"), opts.Bool("secure"))
	})

	registry.Register(NameKeyCDN, func(opts geolib.Options) (geolib.Provider, error) {
		return NewKeyCDN(NewHTTPClient(opts)), nil
	})

	registry.Register(NameIP2C, func(opts geolib.Options) (geolib.Provider, error) {
		return NewIP2C(NewHTTPClient(opts)), nil
	})

	registry.Register(NameMaxmindDatabase, func(opts geolib.Options) (geolib.Provider, error) {
		return NewMaxmindDatabase(fs, opts.String("database"), opts.String("language"))
	})

	registry.Register(NameDBIPDatabase, func(opts geolib.Options) (geolib.Provider, error) {
		return NewDBIPDatabase(fs, opts.String("database"))
	})

	registry.Register(NameIP2Location, func(opts geolib.Options) (geolib.Provider, error) {
		return NewIP2Location(fs, opts.String("database"))
	})
}
