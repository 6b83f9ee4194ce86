package matcher

import (
	"slices"
	"strings"
	"sync"

	wappalyzer "github.com/projectdiscovery/wappalyzergo"
)

// Detector reports the technologies a response was served by
type Detector interface {
	Fingerprint(headers map[string][]string, body []byte) map[string]struct{}
}

// technologyProviders maps wappalyzer technology names to provider keys
var technologyProviders = map[string]string{
	"Amazon CloudFront": "cloudfront",
	"Amazon S3":         "aws_s3",
	"Azure":             "azure",
	"Bitbucket":         "bitbucket",
	"Cloudflare":        "cloudflare",
	"Fastly":            "fastly",
	"Firebase":          "firebase",
	"Fly.io":            "fly_io",
	"Ghost":             "ghost",
	"GitHub Pages":      "github",
	"GitLab":            "gitlab",
	"Help Scout":        "helpscout",
	"Heroku":            "heroku",
	"Kinsta":            "kinsta",
	"Netlify":           "netlify",
	"Pantheon":          "pantheon",
	"ReadMe":            "readme",
	"Render":            "render",
	"Shopify":           "shopify",
	"Statuspage":        "statuspage",
	"Strikingly":        "strikingly",
	"Tilda":             "tilda",
	"Tumblr":            "tumblr",
	"Unbounce":          "unbounce",
	"UserVoice":         "uservoice",
	"Vercel":            "vercel",
	"WP Engine":         "wpengine",
	"Webflow":           "webflow",
	"WordPress.com":     "wordpress",
	"Zendesk":           "zendesk",
}

var defaultDetector = sync.OnceValues(func() (*wappalyzer.Wappalyze, error) {
	return wappalyzer.New()
})

// NewDetector returns the wappalyzer technology detector, loading its fingerprints once per process
func NewDetector() (Detector, error) {
	client, err := defaultDetector()
	if err != nil {
		return nil, err
	}

	return client, nil
}

// technologies returns the provider keys d attributes the response to, with the technology that named each, sorted by technology
func technologies(d Detector, headers map[string][]string, body string) [][2]string {
	var out [][2]string

	for name := range d.Fingerprint(headers, []byte(body)) {
		// names may carry a version suffix, e.g. "Heroku:1.0"
		tech, _, _ := strings.Cut(name, ":")

		if provider, ok := technologyProviders[tech]; ok {
			out = append(out, [2]string{tech, provider})
		}
	}

	slices.SortFunc(out, func(a, b [2]string) int {
		return strings.Compare(a[0], b[0])
	})

	return out
}
