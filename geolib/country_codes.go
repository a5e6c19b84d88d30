package geolib

import (
	"strings"

	"github.com/pariz/gountries"
)

var countryCodeQuery = gountries.New()

// NormalizeAlpha2Code returns a normalized 2-letter ISO3166 code.
// Normalized code is uppercased with some additional mapping. For
// example, some databases return ZZ as 'unknown' country. This function
// returns "" instead. Some databases still map Serbia to YU. This
// correctly maps YU to CS.
//
// So, whenever provider gets a 2-letter ISO3166 code from its backend,
// it is recommended to normalize it with this function.
func NormalizeAlpha2Code(alpha2 string) string {
	alpha2 = strings.ToUpper(strings.TrimSpace(alpha2))

	if len(alpha2) != 2 {
		return ""
	}

	switch alpha2 {
	case "ZZ", "AP", "EU", "XX":
		return ""
	case "YU":
		return "CS"
	case "FX":
		return "FR"
	case "UK":
		return "GB"
	default:
		return alpha2
	}
}

// Alpha3ToAlpha2Code maps 3-letter ISO3166 code to normalized
// 2-letter one.
func Alpha3ToAlpha2Code(alpha3 string) string {
	return NormalizeAlpha2Code(countryCodeQuery.Alpha3ToAlpha2[strings.ToUpper(alpha3)])
}

// CountryName returns a common english name of the country by its
// 2-letter ISO3166 code. Unknown codes give an empty string.
func CountryName(alpha2 string) string {
	country, err := countryCodeQuery.FindCountryByAlpha(NormalizeAlpha2Code(alpha2))
	if err != nil {
		return ""
	}

	return country.Name.Common
}

// ContinentName returns a name of the continent of the country.
func ContinentName(alpha2 string) string {
	country, err := countryCodeQuery.FindCountryByAlpha(NormalizeAlpha2Code(alpha2))
	if err != nil {
		return ""
	}

	return country.Continent
}
