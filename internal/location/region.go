package location

// RegionCode returns the LinkedIn facetGeoRegion code for the first
// recognised city in location ("Paris, France" → "fr:5227").
func RegionCode(location string) (string, bool) {
	for _, part := range splitParts(location) {
		if c, ok := lookupCity(part); ok && c.geo != "" {
			return c.geo, true
		}
	}
	return "", false
}
