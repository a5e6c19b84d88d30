package providers

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/9seconds/geolocator/geolib"
	"github.com/oschwald/geoip2-golang"
	"github.com/spf13/afero"
)

// DefaultDatabaseLanguage is a language of names which are taken from
// offline databases if nothing else is set.
const DefaultDatabaseLanguage = "en"

type maxmindDatabaseProvider struct {
	language     string
	dbReader     *geoip2.Reader
	dbReaderLock sync.RWMutex
}

func (m *maxmindDatabaseProvider) Name() string {
	return NameMaxmindDatabase
}

func (m *maxmindDatabaseProvider) Lookup(ctx context.Context, ip string) (geolib.AttributeMap, error) {
	parsed, err := parseIP(ip)
	if err != nil {
		return nil, err
	}

	m.dbReaderLock.RLock()
	defer m.dbReaderLock.RUnlock()

	if m.dbReader == nil {
		return nil, ErrDatabaseIsClosed
	}

	record, err := m.dbReader.City(parsed)
	if err != nil {
		return nil, fmt.Errorf("cannot lookup this ip address: %w", err)
	}

	countryCode := geolib.NormalizeAlpha2Code(record.Country.IsoCode)
	if countryCode == "" {
		return nil, ErrNotFound
	}

	rv := geolib.AttributeMap{
		"countryCode": countryCode,
	}

	setNonEmpty(rv, "country", m.name(record.Country.Names))
	setNonEmpty(rv, "city", m.name(record.City.Names))
	setNonEmpty(rv, "continent", m.name(record.Continent.Names))
	setNonEmpty(rv, "continentCode", record.Continent.Code)
	setNonEmpty(rv, "postalCode", record.Postal.Code)
	setNonEmpty(rv, "timezone", record.Location.TimeZone)

	if len(record.Subdivisions) > 0 {
		setNonEmpty(rv, "region", m.name(record.Subdivisions[0].Names))
		setNonEmpty(rv, "regionCode", record.Subdivisions[0].IsoCode)
	}

	if record.Location.Latitude != 0 || record.Location.Longitude != 0 {
		rv["latitude"] = record.Location.Latitude
		rv["longitude"] = record.Location.Longitude
	}

	return rv, nil
}

func (m *maxmindDatabaseProvider) Close() error {
	m.dbReaderLock.Lock()
	defer m.dbReaderLock.Unlock()

	if m.dbReader == nil {
		return nil
	}

	err := m.dbReader.Close()
	m.dbReader = nil

	return err
}

func (m *maxmindDatabaseProvider) name(names map[string]string) string {
	if value, ok := names[m.language]; ok {
		return value
	}

	return names[DefaultDatabaseLanguage]
}

// NewMaxmindDatabase returns a new instance of MaxMind GeoIP2 or
// GeoLite2 City database provider.
//
//	Identifier: maxmind_database
//	Provider type: offline
//	Website: https://dev.maxmind.com/geoip/geolite2-free-geolocation-data
//
// A database is read into memory in whole. Language selects names
// from the database, english is used as a fallback.
func NewMaxmindDatabase(fs afero.Fs, path, language string) (geolib.Provider, error) {
	if path == "" {
		return nil, ErrDatabasePathIsRequired
	}

	content, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("cannot read a database file: %w", err)
	}

	reader, err := geoip2.FromBytes(content)
	if err != nil {
		return nil, fmt.Errorf("cannot initialize a reader of geoip2 database: %w", err)
	}

	if language == "" {
		language = DefaultDatabaseLanguage
	}

	return &maxmindDatabaseProvider{
		language: strings.ToLower(language),
		dbReader: reader,
	}, nil
}
