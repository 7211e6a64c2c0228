package utils

import (
	"log"
	"net"
	"sync"

	"github.com/oschwald/geoip2-golang"
)

// GeoLocation is a resolved coarse location for an IP.
type GeoLocation struct {
	Country string
	City    string
	Lat     float64
	Lon     float64
}

// GeoResolver fills in coordinates for roster records that carry an IP
// but no lat/lon. Lookups are cached; a missing database degrades to
// no-op lookups instead of failing startup.
type GeoResolver struct {
	db    *geoip2.Reader
	cache sync.Map // ip string -> GeoLocation
}

func NewGeoResolver(dbPath string) (*GeoResolver, error) {
	var db *geoip2.Reader

	if dbPath != "" {
		var err error
		db, err = geoip2.Open(dbPath)
		if err != nil {
			log.Printf("Warning: could not open GeoIP database at %s: %v", dbPath, err)
			db = nil
		}
	}

	return &GeoResolver{db: db}, nil
}

func (g *GeoResolver) Close() {
	if g != nil && g.db != nil {
		g.db.Close()
	}
}

// Lookup resolves an IP to a location. Safe on a nil receiver and with no
// database loaded; both return ok=false.
func (g *GeoResolver) Lookup(ipStr string) (GeoLocation, bool) {
	if g == nil || g.db == nil {
		return GeoLocation{}, false
	}

	if val, ok := g.cache.Load(ipStr); ok {
		return val.(GeoLocation), true
	}

	ip := net.ParseIP(ipStr)
	if ip == nil {
		return GeoLocation{}, false
	}

	record, err := g.db.City(ip)
	if err != nil {
		return GeoLocation{}, false
	}

	loc := GeoLocation{
		Country: record.Country.Names["en"],
		City:    record.City.Names["en"],
		Lat:     record.Location.Latitude,
		Lon:     record.Location.Longitude,
	}
	g.cache.Store(ipStr, loc)

	return loc, true
}
