package normalize

import "strings"

// GlobalRegion is the fallback region and the sentinel that triggers inference
const GlobalRegion = "Global"

var countryRegions = map[string]string{
	"USA":           "North America",
	"United States": "North America",
	"Canada":        "North America",

	"Germany":        "Europe",
	"France":         "Europe",
	"UK":             "Europe",
	"United Kingdom": "Europe",
	"Spain":          "Europe",
	"Italy":          "Europe",
	"Poland":         "Europe",

	"China":       "Asia Pacific",
	"Japan":       "Asia Pacific",
	"India":       "Asia Pacific",
	"Australia":   "Asia Pacific",
	"Singapore":   "Asia Pacific",
	"South Korea": "Asia Pacific",

	"Brazil":    "Latin America",
	"Argentina": "Latin America",
	"Mexico":    "Latin America",
}

// RegionForCountry maps a country to its region; unmapped countries are Global
func RegionForCountry(country string) string {
	if region, ok := countryRegions[strings.TrimSpace(country)]; ok {
		return region
	}
	return GlobalRegion
}

// Countries returns the mapped country names
func Countries() []string {
	out := make([]string, 0, len(countryRegions))
	for c := range countryRegions {
		out = append(out, c)
	}
	return out
}

func inferRegion(region, country string) string {
	if region == "" || region == GlobalRegion {
		return RegionForCountry(country)
	}
	return region
}
