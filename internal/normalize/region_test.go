package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegionForCountry_Mapped(t *testing.T) {
	for _, country := range Countries() {
		assert.NotEqual(t, GlobalRegion, RegionForCountry(country), country)
		assert.Equal(t, countryRegions[country], RegionForCountry(country))
	}

	assert.Equal(t, "North America", RegionForCountry("USA"))
	assert.Equal(t, "Europe", RegionForCountry("United Kingdom"))
	assert.Equal(t, "Latin America", RegionForCountry(" Brazil "))
}

func TestRegionForCountry_Unmapped(t *testing.T) {
	for _, country := range []string{"", "Unknown", "Atlantis", "usa", "Kenya", "United States of America", "Indiana", "South India"} {
		assert.Equal(t, GlobalRegion, RegionForCountry(country), country)
	}
}

func TestInferRegion(t *testing.T) {
	assert.Equal(t, "Asia Pacific", inferRegion("", "Japan"))
	assert.Equal(t, "Asia Pacific", inferRegion("Global", "Japan"))
	assert.Equal(t, "APAC", inferRegion("APAC", "Japan"))
	assert.Equal(t, GlobalRegion, inferRegion("Global", "Narnia"))
}
