package webtech

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/mcnijman/go-emailaddress"

	"github.com/renbran/dubai-sme-scraper-sub000/internal/model"
	"github.com/renbran/dubai-sme-scraper-sub000/internal/normalize"
)

var platformHosts = map[string]model.Platform{
	"facebook.com":  model.Facebook,
	"fb.com":        model.Facebook,
	"instagram.com": model.Instagram,
	"twitter.com":   model.Twitter,
	"x.com":         model.Twitter,
	"linkedin.com":  model.LinkedIn,
	"youtube.com":   model.YouTube,
	"youtu.be":      model.YouTube,
	"wa.me":         model.WhatsApp,
	"whatsapp.com":  model.WhatsApp,
	"t.me":          model.Telegram,
	"telegram.me":   model.Telegram,
	"tiktok.com":    model.TikTok,
	"snapchat.com":  model.Snapchat,
}

var (
	excludedEmailDomains  = []string{"sentry", "example", "wix", "domain.com"}
	excludedEmailSuffixes = []string{".png", ".jpg", ".jpeg", ".gif", ".svg", ".webp"}
)

// PlatformFor returns the social platform a link points at.
func PlatformFor(link string) (model.Platform, bool) {
	u, err := url.Parse(strings.TrimSpace(link))
	if err != nil || u.Host == "" {
		return "", false
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	host = strings.TrimPrefix(host, "m.")
	if p, ok := platformHosts[host]; ok {
		return p, true
	}
	// Subdomains such as ae.linkedin.com.
	for h, p := range platformHosts {
		if strings.HasSuffix(host, "."+h) {
			return p, true
		}
	}
	return "", false
}

// SocialLinks collects the first profile link per platform from anchors in
// doc. Share buttons are ignored.
func SocialLinks(doc *goquery.Document) map[model.Platform]string {
	out := make(map[model.Platform]string)
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		if isShareLink(href) {
			return
		}
		p, ok := PlatformFor(href)
		if !ok {
			return
		}
		if _, exists := out[p]; !exists {
			out[p] = strings.TrimSpace(href)
		}
	})
	if len(out) == 0 {
		return nil
	}
	return out
}

func isShareLink(href string) bool {
	lower := strings.ToLower(href)
	return strings.Contains(lower, "/sharer") ||
		strings.Contains(lower, "/share?") ||
		strings.Contains(lower, "/intent/") ||
		strings.Contains(lower, "sharearticle")
}

// Emails returns the distinct addresses found in mailto links, then in the
// page text, in order of appearance.
func Emails(doc *goquery.Document, body []byte) []string {
	seen := map[string]bool{}
	var emails []string
	add := func(raw string) {
		e := normalize.Email(raw)
		if e == "" || seen[e] || excludedEmail(e) {
			return
		}
		seen[e] = true
		emails = append(emails, e)
	}

	doc.Find("a[href^='mailto:']").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		add(href)
	})
	for _, addr := range emailaddress.Find(body, false) {
		add(addr.String())
	}
	return emails
}

func excludedEmail(email string) bool {
	for _, d := range excludedEmailDomains {
		if strings.Contains(email, d) {
			return true
		}
	}
	for _, s := range excludedEmailSuffixes {
		if strings.HasSuffix(email, s) {
			return true
		}
	}
	return false
}

// ResourceCount counts scripts, images and stylesheets referenced by doc.
func ResourceCount(doc *goquery.Document) int {
	return doc.Find("script[src], img[src], link[rel='stylesheet']").Length()
}
