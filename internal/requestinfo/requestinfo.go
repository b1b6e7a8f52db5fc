// Package requestinfo describes who sent a submission: parsed user agent,
// client IP, and a GeoLite2 country and city when a database is
// configured.  Leads carry this so the studio can see where an inquiry
// came from.  Values are plain data and safe to log.
package requestinfo

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/avct/uasurfer"
	"github.com/oschwald/geoip2-golang"
)

const maxUARaw = 512

// UA is a parsed User-Agent header.
type UA struct {
	Raw       string
	Browser   string // "Chrome", "Firefox", "Safari", ...
	Version   string // "124.0.6367"
	OS        string // "MacOSX", "Windows", "iOS", ...
	OSVersion string
	Device    string // "Desktop", "Phone", "Tablet", ...
	IsBot     bool
}

// Summary is the form stored on leads: "Chrome 124 / MacOSX 10.15.7 / Desktop".
func (u UA) Summary() string {
	if u.Browser == "" && u.OS == "" {
		if len(u.Raw) > maxUARaw {
			return u.Raw[:maxUARaw]
		}
		return u.Raw
	}
	browser := u.Browser
	if v, _, _ := strings.Cut(u.Version, "."); v != "" {
		browser += " " + v
	}
	os := strings.TrimSpace(u.OS + " " + u.OSVersion)
	return browser + " / " + os + " / " + u.Device
}

// Geo is empty apart from IP when no database is loaded or it has no
// match.
type Geo struct {
	IP         net.IP
	CountryISO string
	City       string
}

type RequestInfo struct {
	UA        UA
	Geo       Geo
	Timestamp time.Time
}

// IPString is "" when no address could be determined.
func (ri *RequestInfo) IPString() string {
	if ri == nil || ri.Geo.IP == nil {
		return ""
	}
	return ri.Geo.IP.String()
}

type ctxKey struct{}

// FromContext returns what Enrich stored, or nil.
func FromContext(ctx context.Context) *RequestInfo {
	ri, _ := ctx.Value(ctxKey{}).(*RequestInfo)
	return ri
}

// WithInfo stores ri on ctx.
func WithInfo(ctx context.Context, ri *RequestInfo) context.Context {
	return context.WithValue(ctx, ctxKey{}, ri)
}

/*──────────────────────────── GeoLite2 ─────────────────────────────────────*/

var geoDB atomic.Pointer[geoip2.Reader]

// InitGeo opens the GeoLite2 City database at path, replacing any open
// one.  An empty path leaves lookups disabled.
func InitGeo(path string) error {
	if path == "" {
		return nil
	}
	r, err := geoip2.Open(path)
	if err != nil {
		return fmt.Errorf("requestinfo: open %s: %w", path, err)
	}
	if old := geoDB.Swap(r); old != nil {
		_ = old.Close()
	}
	return nil
}

func CloseGeo() {
	if r := geoDB.Swap(nil); r != nil {
		_ = r.Close()
	}
}

func lookupGeo(ip net.IP) Geo {
	g := Geo{IP: ip}
	db := geoDB.Load()
	if db == nil || ip == nil {
		return g
	}
	if rec, err := db.City(ip); err == nil {
		g.CountryISO = rec.Country.IsoCode
		g.City = rec.City.Names["en"]
	}
	return g
}

/*──────────────────────────── user agent ───────────────────────────────────*/

var devices = map[uasurfer.DeviceType]string{
	uasurfer.DeviceComputer: "Desktop",
	uasurfer.DevicePhone:    "Phone",
	uasurfer.DeviceTablet:   "Tablet",
	uasurfer.DeviceConsole:  "Console",
	uasurfer.DeviceWearable: "Wearable",
	uasurfer.DeviceTV:       "TV",
}

func parseUA(raw string) UA {
	u := uasurfer.Parse(raw)
	device, ok := devices[u.DeviceType]
	if !ok {
		device = "Unknown"
	}
	return UA{
		Raw:       raw,
		Browser:   strings.TrimPrefix(u.Browser.Name.String(), "Browser"),
		Version:   dotted(u.Browser.Version),
		OS:        strings.TrimPrefix(u.OS.Name.String(), "OS"),
		OSVersion: dotted(u.OS.Version),
		Device:    device,
		IsBot:     u.IsBot(),
	}
}

// dotted drops trailing zero components: 17.0.0 is "17", 17.3.0 "17.3".
func dotted(v uasurfer.Version) string {
	parts := []int{v.Major, v.Minor, v.Patch}
	for len(parts) > 0 && parts[len(parts)-1] == 0 {
		parts = parts[:len(parts)-1]
	}
	s := make([]string, len(parts))
	for i, p := range parts {
		s[i] = strconv.Itoa(p)
	}
	return strings.Join(s, ".")
}
