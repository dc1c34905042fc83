package browser

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"

	"github.com/playwright-community/playwright-go"
)

// cookieFile mirrors a browser cookie exported to JSON (one file per site,
// e.g. cookies-linkedin.json). LinkedIn in particular shows far fewer
// listings to anonymous sessions.
type cookieFile struct {
	Name     string  `json:"name"`
	Value    string  `json:"value"`
	Domain   string  `json:"domain"`
	Path     string  `json:"path"`
	Expires  float64 `json:"expires"`
	HTTPOnly bool    `json:"httpOnly"`
	Secure   bool    `json:"secure"`
	SameSite string  `json:"sameSite"`
}

// loadCookies adds every cookies-*.json found under dir to the browser
// context. Missing or malformed files are logged and skipped.
func (s *Session) loadCookies(dir string) {
	matches, err := filepath.Glob(filepath.Join(dir, "cookies-*.json"))
	if err != nil || len(matches) == 0 {
		return
	}

	var all []playwright.OptionalCookie
	for _, path := range matches {
		cookies, err := readCookieFile(path)
		if err != nil {
			log.Printf("⚠️ Could not load cookies from %s: %v. Continuing.", path, err)
			continue
		}
		log.Printf("🍪 Loaded %d cookies from %s", len(cookies), filepath.Base(path))
		all = append(all, cookies...)
	}

	if len(all) == 0 {
		return
	}
	if err := s.ctx.AddCookies(all); err != nil {
		log.Printf("⚠️ Failed to add cookies to browser context: %v", err)
	}
}

func readCookieFile(path string) ([]playwright.OptionalCookie, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var raw []cookieFile
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	out := make([]playwright.OptionalCookie, 0, len(raw))
	for _, c := range raw {
		oc := playwright.OptionalCookie{
			Name:   c.Name,
			Value:  c.Value,
			Domain: playwright.String(c.Domain),
			Path:   playwright.String(c.Path),
		}
		if c.Expires > 0 {
			oc.Expires = playwright.Float(c.Expires)
		}
		if c.HTTPOnly {
			oc.HttpOnly = playwright.Bool(true)
		}
		if c.Secure {
			oc.Secure = playwright.Bool(true)
		}
		switch c.SameSite {
		case "Lax":
			oc.SameSite = playwright.SameSiteAttributeLax
		case "Strict":
			oc.SameSite = playwright.SameSiteAttributeStrict
		case "None":
			oc.SameSite = playwright.SameSiteAttributeNone
		}
		out = append(out, oc)
	}
	return out, nil
}
