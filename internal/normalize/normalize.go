// Package normalize cleans raw field values scraped from business listings.
package normalize

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/mcnijman/go-emailaddress"

	"github.com/renbran/dubai-sme-scraper-sub000/internal/model"
)

var (
	uaePhoneRe  = regexp.MustCompile(`^(\+971|971|0)(2|3|4|6|7|9|50|51|52|54|55|56|58)\d{7}$`)
	phoneCharRe = regexp.MustCompile(`[^\d+]`)
	spaceRe     = regexp.MustCompile(`\s+`)

	coordPatterns = []*regexp.Regexp{
		regexp.MustCompile(`@(-?\d+\.\d+),(-?\d+\.\d+)`),
		regexp.MustCompile(`!3d(-?\d+\.\d+)!4d(-?\d+\.\d+)`),
		regexp.MustCompile(`[?&]q=(-?\d+\.\d+),(-?\d+\.\d+)`),
	}
)

// Phone cleans a raw phone number into +971 dial format. The second return
// value reports whether the result is a valid UAE number. Invalid input is
// returned with formatting characters stripped.
func Phone(raw string) (string, bool) {
	cleaned := phoneCharRe.ReplaceAllString(strings.TrimSpace(raw), "")
	if cleaned == "" {
		return "", false
	}
	// A '+' is only meaningful as the first character.
	if strings.HasPrefix(cleaned, "+") {
		cleaned = "+" + strings.ReplaceAll(cleaned[1:], "+", "")
	} else {
		cleaned = strings.ReplaceAll(cleaned, "+", "")
	}
	if cleaned == "+" {
		return "", false
	}

	switch {
	case strings.HasPrefix(cleaned, "00971"):
		cleaned = "+" + cleaned[2:]
	case strings.HasPrefix(cleaned, "971"):
		cleaned = "+" + cleaned
	case strings.HasPrefix(cleaned, "0") && (len(cleaned) == 9 || len(cleaned) == 10):
		// 0X-XXXXXXX landline or 05X-XXXXXXX mobile.
		cleaned = "+971" + cleaned[1:]
	case !strings.HasPrefix(cleaned, "+") && len(cleaned) == 9:
		cleaned = "+971" + cleaned
	}

	return cleaned, uaePhoneRe.MatchString(cleaned)
}

// PhoneKey returns the comparison key for a phone number: the canonical form
// for valid numbers, the stripped digits otherwise, and "" for empty input.
func PhoneKey(raw string) string {
	p, _ := Phone(raw)
	return p
}

// Website normalizes a raw website value to an absolute URL. It returns ""
// when no usable host can be parsed.
func Website(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	if !strings.HasPrefix(s, "http://") && !strings.HasPrefix(s, "https://") {
		s = "https://" + strings.TrimPrefix(s, "//")
	}
	u, err := url.Parse(s)
	if err != nil || u.Host == "" || !strings.Contains(u.Host, ".") {
		return ""
	}
	return u.String()
}

// Domain extracts the host of a website URL without a leading "www.".
func Domain(website string) string {
	w := Website(website)
	if w == "" {
		return ""
	}
	u, err := url.Parse(w)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
}

// Email validates and lower-cases an email address. Invalid input yields "".
func Email(raw string) string {
	s := strings.TrimPrefix(strings.TrimSpace(raw), "mailto:")
	if i := strings.Index(s, "?"); i >= 0 {
		s = s[:i]
	}
	addr, err := emailaddress.Parse(s)
	if err != nil {
		return ""
	}
	return strings.ToLower(addr.String())
}

// Address collapses whitespace in a raw address.
func Address(raw string) string {
	return strings.TrimSpace(spaceRe.ReplaceAllString(raw, " "))
}

// CoordinatesFromURL extracts a point from a map URL. It recognises the
// "@lat,lng", "!3dlat!4dlng" and "q=lat,lng" forms.
func CoordinatesFromURL(raw string) (model.Coordinates, bool) {
	for _, re := range coordPatterns {
		m := re.FindStringSubmatch(raw)
		if m == nil {
			continue
		}
		lat, err1 := strconv.ParseFloat(m[1], 64)
		lng, err2 := strconv.ParseFloat(m[2], 64)
		if err1 != nil || err2 != nil {
			continue
		}
		return model.Coordinates{Lat: lat, Lng: lng}, true
	}
	return model.Coordinates{}, false
}
