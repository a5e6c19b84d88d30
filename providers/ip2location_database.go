package providers

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/9seconds/geolocator/geolib"
	"github.com/ip2location/ip2location-go/v9"
	"github.com/spf13/afero"
)

type ip2locationProvider struct {
	db     *ip2location.DB
	dbLock sync.Mutex
}

func (i *ip2locationProvider) Name() string {
	return NameIP2Location
}

func (i *ip2locationProvider) Lookup(ctx context.Context, ip string) (geolib.AttributeMap, error) {
	parsed, err := parseIP(ip)
	if err != nil {
		return nil, err
	}

	i.dbLock.Lock()

	if i.db == nil {
		i.dbLock.Unlock()

		return nil, ErrDatabaseIsClosed
	}

	record, err := i.db.Get_all(parsed.String())

	i.dbLock.Unlock()

	if err != nil {
		return nil, fmt.Errorf("cannot lookup this ip address: %w", err)
	}

	countryCode := geolib.NormalizeAlpha2Code(ip2locationValue(record.Country_short))
	if countryCode == "" {
		return nil, ErrNotFound
	}

	rv := geolib.AttributeMap{
		"countryCode": countryCode,
	}

	setNonEmpty(rv, "country", ip2locationValue(record.Country_long))
	setNonEmpty(rv, "region", ip2locationValue(record.Region))
	setNonEmpty(rv, "city", ip2locationValue(record.City))
	setNonEmpty(rv, "postalCode", ip2locationValue(record.Zipcode))
	setNonEmpty(rv, "timezone", ip2locationValue(record.Timezone))
	setNonEmpty(rv, "isp", ip2locationValue(record.Isp))
	setNonEmpty(rv, "continent", geolib.ContinentName(countryCode))

	if record.Latitude != 0 || record.Longitude != 0 {
		rv["latitude"] = float64(record.Latitude)
		rv["longitude"] = float64(record.Longitude)
	}

	return rv, nil
}

func (i *ip2locationProvider) Close() error {
	i.dbLock.Lock()
	defer i.dbLock.Unlock()

	if i.db != nil {
		i.db.Close()
		i.db = nil
	}

	return nil
}

// ip2locationValue drops placeholders which are returned by lite
// databases for the fields they do not have.
func ip2locationValue(value string) string {
	switch {
	case value == "-":
		return ""
	case strings.Contains(value, "unavailable"):
		return ""
	case strings.Contains(value, "Invalid"):
		return ""
	}

	return value
}

// NewIP2Location returns a new instance of IP2Location BIN database
// provider.
//
//	Identifier: ip2location
//	Provider type: offline
//	Website: https://lite.ip2location.com
//
// Any DB1-DB11 database works, absent fields are skipped.
func NewIP2Location(fs afero.Fs, path string) (geolib.Provider, error) {
	if path == "" {
		return nil, ErrDatabasePathIsRequired
	}

	file, err := fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open a database file: %w", err)
	}

	db, err := ip2location.OpenDBWithReader(file)
	if err != nil {
		file.Close()

		return nil, fmt.Errorf("cannot initialize ip2location database: %w", err)
	}

	return &ip2locationProvider{
		db: db,
	}, nil
}
