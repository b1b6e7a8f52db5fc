package render

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var (
	youTubeID = regexp.MustCompile(`^[A-Za-z0-9_-]{6,20}$`)
	vimeoID   = regexp.MustCompile(`^[0-9]{3,12}$`)
)

// VideoEmbedURL maps a YouTube or Vimeo page URL to its player URL.  Any
// other host yields "" and the template falls back to a plain link.
func VideoEmbedURL(raw string, autoplay bool) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return ""
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	path := strings.Trim(u.Path, "/")

	var embed string
	switch host {
	case "youtube.com", "m.youtube.com":
		id := u.Query().Get("v")
		if id == "" {
			for _, prefix := range []string{"embed/", "shorts/", "live/"} {
				if strings.HasPrefix(path, prefix) {
					id = strings.TrimPrefix(path, prefix)
				}
			}
		}
		if youTubeID.MatchString(id) {
			embed = "https://www.youtube-nocookie.com/embed/" + id
		}
	case "youtu.be":
		if youTubeID.MatchString(path) {
			embed = "https://www.youtube-nocookie.com/embed/" + path
		}
	case "vimeo.com", "player.vimeo.com":
		id := path[strings.LastIndex(path, "/")+1:]
		if vimeoID.MatchString(id) {
			embed = "https://player.vimeo.com/video/" + id
		}
	}
	if embed != "" && autoplay {
		embed += "?autoplay=1&mute=1"
	}
	return embed
}

// TourEmbedURL accepts https tour links (Matterport, Kuula, and similar)
// for an iframe.  Anything else is shown as a link only.
func TourEmbedURL(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Scheme != "https" || u.Host == "" {
		return ""
	}
	return u.String()
}

// MapEmbedURL returns an OpenStreetMap embed centred on the coordinates,
// or "" when either is missing.
func MapEmbedURL(lat, lng *float64, zoom int) string {
	if lat == nil || lng == nil {
		return ""
	}
	if zoom <= 0 || zoom > 19 {
		zoom = 15
	}
	// bbox half-width shrinks by half per zoom level; 0.01° at 15
	d := 0.01 * float64(int(1)<<15) / float64(int(1)<<zoom)
	return fmt.Sprintf(
		"https://www.openstreetmap.org/export/embed.html?bbox=%.5f%%2C%.5f%%2C%.5f%%2C%.5f&layer=mapnik&marker=%.5f%%2C%.5f",
		*lng-d, *lat-d, *lng+d, *lat+d, *lat, *lng)
}

// MapSearchURL links to an address search.
func MapSearchURL(address string) string {
	return "https://www.openstreetmap.org/search?query=" + url.QueryEscape(address)
}
