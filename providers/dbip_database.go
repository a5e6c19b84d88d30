package providers

import (
	"context"
	"fmt"
	"sync"

	"github.com/9seconds/geolocator/geolib"
	"github.com/oschwald/maxminddb-golang"
	"github.com/spf13/afero"
)

type dbipLookupResult struct {
	City struct {
		Names map[string]string `maxminddb:"names"`
	} `maxminddb:"city"`
	Continent struct {
		Code  string            `maxminddb:"code"`
		Names map[string]string `maxminddb:"names"`
	} `maxminddb:"continent"`
	Country struct {
		IsoCode string            `maxminddb:"iso_code"`
		Names   map[string]string `maxminddb:"names"`
	} `maxminddb:"country"`
	Location struct {
		Latitude  *float64 `maxminddb:"latitude"`
		Longitude *float64 `maxminddb:"longitude"`
	} `maxminddb:"location"`
	Subdivisions []struct {
		Names map[string]string `maxminddb:"names"`
	} `maxminddb:"subdivisions"`
}

type dbipDatabaseProvider struct {
	dbReader     *maxminddb.Reader
	dbReaderLock sync.RWMutex
}

func (d *dbipDatabaseProvider) Name() string {
	return NameDBIPDatabase
}

func (d *dbipDatabaseProvider) Lookup(ctx context.Context, ip string) (geolib.AttributeMap, error) {
	parsed, err := parseIP(ip)
	if err != nil {
		return nil, err
	}

	d.dbReaderLock.RLock()
	defer d.dbReaderLock.RUnlock()

	if d.dbReader == nil {
		return nil, ErrDatabaseIsClosed
	}

	record := dbipLookupResult{}

	network, ok, err := d.dbReader.LookupNetwork(parsed, &record)

	switch {
	case err != nil:
		return nil, fmt.Errorf("cannot lookup this ip address: %w", err)
	case !ok:
		return nil, ErrNotFound
	}

	countryCode := geolib.NormalizeAlpha2Code(record.Country.IsoCode)
	if countryCode == "" {
		return nil, ErrNotFound
	}

	rv := geolib.AttributeMap{
		"countryCode": countryCode,
		"network":     network.String(),
	}

	setNonEmpty(rv, "country", record.Country.Names[DefaultDatabaseLanguage])
	setNonEmpty(rv, "city", record.City.Names[DefaultDatabaseLanguage])
	setNonEmpty(rv, "continent", record.Continent.Names[DefaultDatabaseLanguage])
	setNonEmpty(rv, "continentCode", record.Continent.Code)

	if len(record.Subdivisions) > 0 {
		setNonEmpty(rv, "region", record.Subdivisions[0].Names[DefaultDatabaseLanguage])
	}

	if record.Location.Latitude != nil && record.Location.Longitude != nil {
		rv["latitude"] = *record.Location.Latitude
		rv["longitude"] = *record.Location.Longitude
	}

	return rv, nil
}

func (d *dbipDatabaseProvider) Close() error {
	d.dbReaderLock.Lock()
	defer d.dbReaderLock.Unlock()

	if d.dbReader == nil {
		return nil
	}

	err := d.dbReader.Close()
	d.dbReader = nil

	return err
}

// NewDBIPDatabase returns a new instance of DB-IP lite database
// provider. Only mmdb format is supported.
//
//	Identifier: dbip_database
//	Provider type: offline
//	Website: https://db-ip.com/db/lite.php
//
// DB-IP lite databases carry only english names.
func NewDBIPDatabase(fs afero.Fs, path string) (geolib.Provider, error) {
	if path == "" {
		return nil, ErrDatabasePathIsRequired
	}

	content, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("cannot read a database file: %w", err)
	}

	reader, err := maxminddb.FromBytes(content)
	if err != nil {
		return nil, fmt.Errorf("cannot initialize a reader of maxminddb: %w", err)
	}

	return &dbipDatabaseProvider{
		dbReader: reader,
	}, nil
}
