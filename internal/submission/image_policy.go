package submission

import (
	"net"
	"net/url"
	"path"
	"strings"
)

// DefaultBlockedImageHosts are link-sharing, social and internal hosts
// whose URLs are pages rather than direct images. Subdomains are blocked too.
var DefaultBlockedImageHosts = []string{
	"drive.google.com",
	"docs.google.com",
	"photos.google.com",
	"photos.app.goo.gl",
	"dropbox.com",
	"onedrive.live.com",
	"1drv.ms",
	"sharepoint.com",
	"icloud.com",
	"box.com",
	"mega.nz",
	"wetransfer.com",
	"facebook.com",
	"fb.com",
	"instagram.com",
	"twitter.com",
	"x.com",
	"tiktok.com",
	"pinterest.com",
	"reddit.com",
	"discord.com",
	"discordapp.com",
	"localhost",
}

// DefaultImageExtensions are the accepted image path suffixes.
var DefaultImageExtensions = []string{".jpg", ".jpeg", ".png"}

// ImagePolicy decides whether a URL points directly at a public image.
type ImagePolicy struct {
	blocked    []string
	extensions []string
}

// NewImagePolicy builds a policy. Empty lists fall back to the defaults.
func NewImagePolicy(blockedHosts, extensions []string) *ImagePolicy {
	if len(blockedHosts) == 0 {
		blockedHosts = DefaultBlockedImageHosts
	}
	if len(extensions) == 0 {
		extensions = DefaultImageExtensions
	}

	p := &ImagePolicy{}
	for _, h := range blockedHosts {
		h = strings.Trim(strings.ToLower(strings.TrimSpace(h)), ".")
		if h != "" {
			p.blocked = append(p.blocked, h)
		}
	}
	for _, ext := range extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		p.extensions = append(p.extensions, ext)
	}
	return p
}

// Check returns nil when raw is acceptable, or the failed rule.
func (p *ImagePolicy) Check(raw string) *ValidationError {
	u, ok := parseHTTPURL(raw)
	if !ok {
		return &ValidationError{Rule: RuleImageURL, Field: "image", Reason: "Image must be a valid http(s) URL."}
	}

	if p.BlockedHost(u.Hostname()) {
		return &ValidationError{
			Rule:   RuleImageHost,
			Field:  "image",
			Reason: "Image must be a direct public image URL, not a sharing, social or local link.",
		}
	}

	if !p.allowedExtension(u.Path) {
		return &ValidationError{
			Rule:   RuleImageExtension,
			Field:  "image",
			Reason: "Image URL must end in " + strings.Join(p.extensions, ", ") + ".",
		}
	}
	return nil
}

// BlockedHost reports whether host is on the block list (exact or as a
// parent domain), a loopback address, or a .local name.
func (p *ImagePolicy) BlockedHost(host string) bool {
	host = strings.TrimSuffix(strings.ToLower(host), ".")
	if host == "" {
		return true
	}

	if ip := net.ParseIP(host); ip != nil && (ip.IsLoopback() || ip.IsUnspecified()) {
		return true
	}
	if host == "local" || strings.HasSuffix(host, ".local") {
		return true
	}

	for _, blocked := range p.blocked {
		if host == blocked || strings.HasSuffix(host, "."+blocked) {
			return true
		}
	}
	return false
}

func (p *ImagePolicy) allowedExtension(urlPath string) bool {
	ext := strings.ToLower(path.Ext(urlPath))
	for _, allowed := range p.extensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

// parseHTTPURL accepts absolute http and https URLs with a host.
func parseHTTPURL(raw string) (*url.URL, bool) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, false
	}
	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return nil, false
	}
	if u.Host == "" {
		return nil, false
	}
	return u, true
}

// IsHTTPURL reports whether raw is an absolute http(s) URL.
func IsHTTPURL(raw string) bool {
	_, ok := parseHTTPURL(raw)
	return ok
}
