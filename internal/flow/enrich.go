/*
Copyright (c) 2025 Tobias Schäfer. All rights reserved.
Licensed under the MIT License, see LICENSE file in the project root for details.
*/
package flow

import (
	"net/netip"

	"github.com/tschaefer/flowlens/internal/geoip"
)

// Enrich adds GeoIP location fields for the source and destination
// addresses of a record. Addresses without location data are left alone.
func Enrich(r Record, geo *geoip.Reader) {
	if geo == nil {
		return
	}

	for prefix, field := range map[string]string{
		"Src": FieldSrcAddr,
		"Dst": FieldDstAddr,
	} {
		value, ok := r.Field(field)
		if !ok {
			continue
		}
		addr, err := netip.ParseAddr(value)
		if err != nil {
			continue
		}

		loc := geo.Location(addr)
		if loc == nil {
			continue
		}

		r[prefix+"City"] = loc.City
		r[prefix+"Country"] = loc.Country
		r[prefix+"Lat"] = loc.Lat
		r[prefix+"Lon"] = loc.Lon
	}
}
