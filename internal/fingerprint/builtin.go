package fingerprint

import "github.com/theopenlane/sentinel/internal/types"

// Builtin returns a fresh copy of the built-in provider registry.
// Entries derive from can-i-take-over-xyz: https://github.com/EdOverflow/can-i-take-over-xyz
func Builtin() []Fingerprint {
	out := make([]Fingerprint, len(builtinFingerprints))
	copy(out, builtinFingerprints)

	return out
}

// builtinFingerprints is the default registry loaded at process start
var builtinFingerprints = []Fingerprint{
	{
		Provider:           "github",
		Service:            "GitHub Pages",
		CNAMEPatterns:      []string{".github.io", ".github.com", "github.map.fastly.net"},
		RiskTier:           types.RiskHigh,
		CanTakeover:        true,
		ErrorPatterns:      []string{"There isn't a GitHub Pages site here.", "Project site could not be found", "Check your DNS settings", "This site is not configured"},
		ClaimedIndicators:  []string{"This site is powered by GitHub Pages", "githubusercontent"},
		StatusCodes:        []int{404, 410},
		Headers:            map[string]string{"Server": "GitHub.com"},
		TakeoverURL:        "https://github.com/settings/pages",
		VerificationMethod: "create_repo",
	},
	{
		Provider:           "aws_s3",
		Service:            "AWS S3",
		CNAMEPatterns:      []string{".s3.amazonaws.com", ".s3-website-", ".s3.", "s3.amazonaws.com", ".s3.dualstack."},
		RiskTier:           types.RiskCritical,
		CanTakeover:        true,
		ErrorPatterns:      []string{"NoSuchBucket", "The specified bucket does not exist", "PermanentRedirect", "InvalidBucketName", "BucketRegionError"},
		ClaimedIndicators:  []string{"ListBucketResult", "IndexDocument", "Contents"},
		StatusCodes:        []int{404, 403, 400},
		Headers:            map[string]string{"Server": "AmazonS3"},
		TakeoverURL:        "https://s3.console.aws.amazon.com",
		VerificationMethod: "create_bucket",
	},
	{
		Provider:           "cloudfront",
		Service:            "AWS CloudFront",
		CNAMEPatterns:      []string{".cloudfront.net"},
		RiskTier:           types.RiskCritical,
		CanTakeover:        true,
		ErrorPatterns:      []string{"ERROR: The request could not be satisfied", "Bad request", "The distribution does not exist", "CloudFront error"},
		StatusCodes:        []int{404, 403, 400},
		Headers:            map[string]string{"Server": "CloudFront"},
		TakeoverURL:        "https://console.aws.amazon.com/cloudfront",
		VerificationMethod: "claim_distribution",
	},
	{
		Provider:           "heroku",
		Service:            "Heroku",
		CNAMEPatterns:      []string{".herokuapp.com", ".herokudns.com"},
		RiskTier:           types.RiskHigh,
		CanTakeover:        true,
		ErrorPatterns:      []string{"no such app", "Heroku | No such app", "There's nothing here, yet."},
		ClaimedIndicators:  []string{"heroku", "Heroku"},
		StatusCodes:        []int{404},
		Headers:            map[string]string{"Server": "Cowboy", "Via": "vegur"},
		TakeoverURL:        "https://dashboard.heroku.com",
		VerificationMethod: "create_app",
	},
	{
		Provider:           "vercel",
		Service:            "Vercel",
		CNAMEPatterns:      []string{".vercel.app", ".now.sh", ".zeit.co"},
		RiskTier:           types.RiskHigh,
		CanTakeover:        true,
		ErrorPatterns:      []string{"The deployment could not be found", "The deployment not found", "deployment not found (404)", "This deployment could not be found"},
		ClaimedIndicators:  []string{"Vercel", "Powered by Vercel"},
		StatusCodes:        []int{404},
		Headers:            map[string]string{"Server": "Vercel"},
		TakeoverURL:        "https://vercel.com/dashboard",
		VerificationMethod: "create_deployment",
	},
	{
		Provider:           "netlify",
		Service:            "Netlify",
		CNAMEPatterns:      []string{".netlify.app", ".netlify.com"},
		RiskTier:           types.RiskHigh,
		CanTakeover:        true,
		ErrorPatterns:      []string{"Not found - Request ID", "The page you are looking for doesn't exist", "Site not found", "Netlify error"},
		ClaimedIndicators:  []string{"Netlify", "Deploys by Netlify"},
		StatusCodes:        []int{404},
		Headers:            map[string]string{"Server": "Netlify"},
		TakeoverURL:        "https://app.netlify.com",
		VerificationMethod: "create_site",
	},
	{
		Provider:           "firebase",
		Service:            "Firebase Hosting",
		CNAMEPatterns:      []string{".web.app", ".firebaseapp.com"},
		RiskTier:           types.RiskHigh,
		CanTakeover:        true,
		ErrorPatterns:      []string{"The requested URL was not found on this server", "Firebase Hosting Setup", "Site not found"},
		ClaimedIndicators:  []string{"Firebase", "Hosting by Firebase"},
		StatusCodes:        []int{404},
		Headers:            map[string]string{"Server": "Google Frontend"},
		TakeoverURL:        "https://console.firebase.google.com",
		VerificationMethod: "create_hosting",
	},
	{
		Provider:           "azure",
		Service:            "Microsoft Azure",
		CNAMEPatterns:      []string{".azurewebsites.net", ".azureedge.net", ".azure-api.net", ".blob.core.windows.net", ".cloudapp.azure.com", ".cloudapp.net", ".trafficmanager.net"},
		RiskTier:           types.RiskHigh,
		CanTakeover:        true,
		ErrorPatterns:      []string{"The site you are looking for cannot be found", "The resource you are looking for has been removed", "No web app is configured at this URL", "Azure error"},
		ClaimedIndicators:  []string{"Microsoft Azure", "App Service"},
		StatusCodes:        []int{404},
		Headers:            map[string]string{"Server": "Microsoft-IIS"},
		TakeoverURL:        "https://portal.azure.com",
		VerificationMethod: "create_resource",
	},
	{
		Provider:           "cloudflare",
		Service:            "Cloudflare Workers/Pages",
		CNAMEPatterns:      []string{".workers.dev", ".pages.dev", "cloudflare.net"},
		RiskTier:           types.RiskMedium,
		CanTakeover:        false,
		ErrorPatterns:      []string{"Worker not found", "This worker is not currently deployed", "404 Not Found", "Cloudflare error"},
		ClaimedIndicators:  []string{"Cloudflare", "Workers"},
		StatusCodes:        []int{404},
		TakeoverURL:        "https://dash.cloudflare.com",
		VerificationMethod: "create_worker",
	},
	{
		Provider:           "fastly",
		Service:            "Fastly",
		CNAMEPatterns:      []string{".fastly.net", ".fastly.map.fastly.net"},
		RiskTier:           types.RiskMedium,
		CanTakeover:        true,
		ErrorPatterns:      []string{"Fastly error: unknown domain", "Please check that this domain has been added to a service", "Fastly error"},
		ClaimedIndicators:  []string{"Fastly"},
		StatusCodes:        []int{404},
		Headers:            map[string]string{"X-Served-By": "cache-"},
		TakeoverURL:        "https://manage.fastly.com",
		VerificationMethod: "claim_domain",
	},
	{
		Provider:           "shopify",
		Service:            "Shopify",
		CNAMEPatterns:      []string{".myshopify.com", "shops.myshopify.com"},
		RiskTier:           types.RiskHigh,
		CanTakeover:        true,
		ErrorPatterns:      []string{"Sorry, this shop is currently unavailable", "Only one step left!", "Sorry, this shop is currently unavailable."},
		ClaimedIndicators:  []string{"Shopify", "shopify"},
		StatusCodes:        []int{404},
		Headers:            map[string]string{"X-Sorting-Hat-ShopId": ""},
		TakeoverURL:        "https://partners.shopify.com",
		VerificationMethod: "create_store",
	},
	{
		Provider:           "tumblr",
		Service:            "Tumblr",
		CNAMEPatterns:      []string{".tumblr.com", "domains.tumblr.com"},
		RiskTier:           types.RiskHigh,
		CanTakeover:        true,
		ErrorPatterns:      []string{"There's nothing here.", "Whatever you were looking for doesn't currently exist at this address", "Not found."},
		ClaimedIndicators:  []string{"Tumblr", "tumblr"},
		StatusCodes:        []int{404},
		TakeoverURL:        "https://www.tumblr.com/register",
		VerificationMethod: "create_blog",
	},
	{
		Provider:           "wordpress",
		Service:            "WordPress.com",
		CNAMEPatterns:      []string{".wordpress.com"},
		RiskTier:           types.RiskHigh,
		CanTakeover:        true,
		ErrorPatterns:      []string{"Do you want to register", "doesn't exist"},
		ClaimedIndicators:  []string{"WordPress.com"},
		StatusCodes:        []int{404},
		TakeoverURL:        "https://wordpress.com",
		VerificationMethod: "create_site",
	},
	{
		Provider:           "pantheon",
		Service:            "Pantheon",
		CNAMEPatterns:      []string{".pantheonsite.io", ".pantheon.io"},
		RiskTier:           types.RiskHigh,
		CanTakeover:        true,
		ErrorPatterns:      []string{"404 error unknown site!", "The gods are wise", "You don't have a site configured at this hostname"},
		ClaimedIndicators:  []string{"Pantheon"},
		StatusCodes:        []int{404},
		TakeoverURL:        "https://dashboard.pantheon.io",
		VerificationMethod: "create_site",
	},
	{
		Provider:           "surge",
		Service:            "Surge.sh",
		CNAMEPatterns:      []string{".surge.sh"},
		RiskTier:           types.RiskMedium,
		CanTakeover:        true,
		ErrorPatterns:      []string{"project not found", "To learn more about Surge"},
		ClaimedIndicators:  []string{"Surge"},
		StatusCodes:        []int{404},
		TakeoverURL:        "https://surge.sh",
		VerificationMethod: "surge_publish",
	},
	{
		Provider:           "bitbucket",
		Service:            "Bitbucket",
		CNAMEPatterns:      []string{".bitbucket.io", ".bitbucket.org"},
		RiskTier:           types.RiskHigh,
		CanTakeover:        true,
		ErrorPatterns:      []string{"Repository not found", "The page you have requested does not exist"},
		ClaimedIndicators:  []string{"Bitbucket", "Atlassian"},
		StatusCodes:        []int{404},
		TakeoverURL:        "https://bitbucket.org",
		VerificationMethod: "create_repo",
	},
	{
		Provider:           "gitlab",
		Service:            "GitLab Pages",
		CNAMEPatterns:      []string{".gitlab.io"},
		RiskTier:           types.RiskHigh,
		CanTakeover:        true,
		ErrorPatterns:      []string{"The page you're looking for could not be found", "Isn't this a great place for your new project"},
		ClaimedIndicators:  []string{"GitLab"},
		StatusCodes:        []int{404},
		TakeoverURL:        "https://gitlab.com",
		VerificationMethod: "create_pages",
	},
	{
		Provider:           "fly_io",
		Service:            "Fly.io",
		CNAMEPatterns:      []string{".fly.dev", ".edgeapp.net"},
		RiskTier:           types.RiskMedium,
		CanTakeover:        true,
		ErrorPatterns:      []string{"404 Not Found", "This site doesn't exist yet"},
		ClaimedIndicators:  []string{"Fly.io"},
		StatusCodes:        []int{404},
		TakeoverURL:        "https://fly.io/dashboard",
		VerificationMethod: "create_app",
	},
	{
		Provider:           "render",
		Service:            "Render",
		CNAMEPatterns:      []string{".onrender.com"},
		RiskTier:           types.RiskMedium,
		CanTakeover:        true,
		ErrorPatterns:      []string{"Not Found", "This page could not be found"},
		ClaimedIndicators:  []string{"Render"},
		StatusCodes:        []int{404},
		TakeoverURL:        "https://dashboard.render.com",
		VerificationMethod: "create_service",
	},
	{
		Provider:           "cargo",
		Service:            "Cargo Collective",
		CNAMEPatterns:      []string{".cargo.site", ".cargocollective.com"},
		RiskTier:           types.RiskMedium,
		CanTakeover:        true,
		ErrorPatterns:      []string{"404 Not Found", "If you're moving your domain away from Cargo"},
		ClaimedIndicators:  []string{"Cargo"},
		StatusCodes:        []int{404},
		TakeoverURL:        "https://cargo.site",
		VerificationMethod: "create_site",
	},
	{
		Provider:           "zendesk",
		Service:            "Zendesk",
		CNAMEPatterns:      []string{".zendesk.com", ".zendesk.io"},
		RiskTier:           types.RiskMedium,
		CanTakeover:        true,
		ErrorPatterns:      []string{"Help Center Closed", "This help center no longer exists", "Oops, this help center no longer exists"},
		ClaimedIndicators:  []string{"Zendesk"},
		StatusCodes:        []int{404},
		Headers:            map[string]string{"X-Zendesk-Origin-Server": ""},
		TakeoverURL:        "https://www.zendesk.com",
		VerificationMethod: "create_subdomain",
	},
	{
		Provider:           "ghost",
		Service:            "Ghost",
		CNAMEPatterns:      []string{".ghost.io", ".ghost.org"},
		RiskTier:           types.RiskHigh,
		CanTakeover:        true,
		ErrorPatterns:      []string{"The thing you were looking for is no longer here", "404 — Page not found"},
		ClaimedIndicators:  []string{"Ghost", "Powered by Ghost"},
		StatusCodes:        []int{404},
		Headers:            map[string]string{"X-Powered-By": "Express", "X-Cache": "Ghost"},
		TakeoverURL:        "https://ghost.org",
		VerificationMethod: "create_site",
	},
	{
		Provider:           "desk",
		Service:            "Desk",
		CNAMEPatterns:      []string{".desk.com"},
		RiskTier:           types.RiskMedium,
		CanTakeover:        true,
		ErrorPatterns:      []string{"Please try again or try Desk.com free", "Sorry, We Couldn't Find That Page"},
		ClaimedIndicators:  []string{"Desk.com"},
		StatusCodes:        []int{404},
		TakeoverURL:        "https://www.desk.com",
		VerificationMethod: "create_site",
	},
	{
		Provider:           "unbounce",
		Service:            "Unbounce",
		CNAMEPatterns:      []string{".unbounce.com", "unbouncepages.com"},
		RiskTier:           types.RiskHigh,
		CanTakeover:        true,
		ErrorPatterns:      []string{"The requested URL was not found on this server", "The page you were looking for doesn't exist"},
		ClaimedIndicators:  []string{"Unbounce"},
		StatusCodes:        []int{404},
		TakeoverURL:        "https://unbounce.com",
		VerificationMethod: "create_page",
	},
	{
		Provider:           "tilda",
		Service:            "Tilda",
		CNAMEPatterns:      []string{".tilda.ws", "tilda.cc"},
		RiskTier:           types.RiskMedium,
		CanTakeover:        true,
		ErrorPatterns:      []string{"Please renew your subscription", "Domain is not configured"},
		ClaimedIndicators:  []string{"Tilda"},
		StatusCodes:        []int{404},
		TakeoverURL:        "https://tilda.cc",
		VerificationMethod: "create_site",
	},
	{
		Provider:           "helpscout",
		Service:            "Help Scout",
		CNAMEPatterns:      []string{".helpscoutdocs.com", "docs.helpscout.net"},
		RiskTier:           types.RiskMedium,
		CanTakeover:        true,
		ErrorPatterns:      []string{"No settings were found for this company", "This page is reserved for a Help Scout"},
		ClaimedIndicators:  []string{"Help Scout"},
		StatusCodes:        []int{404},
		TakeoverURL:        "https://www.helpscout.com",
		VerificationMethod: "create_site",
	},
	{
		Provider:           "uservoice",
		Service:            "UserVoice",
		CNAMEPatterns:      []string{".uservoice.com"},
		RiskTier:           types.RiskHigh,
		CanTakeover:        true,
		ErrorPatterns:      []string{"This UserVoice subdomain is currently available", "You're almost there"},
		ClaimedIndicators:  []string{"UserVoice"},
		StatusCodes:        []int{404},
		TakeoverURL:        "https://www.uservoice.com",
		VerificationMethod: "create_forum",
	},
	{
		Provider:           "readme",
		Service:            "ReadMe",
		CNAMEPatterns:      []string{".readme.io", "readme.com"},
		RiskTier:           types.RiskMedium,
		CanTakeover:        true,
		ErrorPatterns:      []string{"Project doesnt exist", "Project not found"},
		ClaimedIndicators:  []string{"ReadMe"},
		StatusCodes:        []int{404},
		TakeoverURL:        "https://readme.com",
		VerificationMethod: "create_project",
	},
	{
		Provider:           "strikingly",
		Service:            "Strikingly",
		CNAMEPatterns:      []string{".strikinglydns.com", ".s.strikinglydns.com"},
		RiskTier:           types.RiskHigh,
		CanTakeover:        true,
		ErrorPatterns:      []string{"But if you're looking to build your own website", "page not found"},
		ClaimedIndicators:  []string{"Strikingly"},
		StatusCodes:        []int{404},
		TakeoverURL:        "https://www.strikingly.com",
		VerificationMethod: "create_site",
	},
	{
		Provider:           "launchrock",
		Service:            "LaunchRock",
		CNAMEPatterns:      []string{".launchrock.com"},
		RiskTier:           types.RiskMedium,
		CanTakeover:        true,
		ErrorPatterns:      []string{"It looks like you may have taken a wrong turn somewhere"},
		ClaimedIndicators:  []string{"LaunchRock"},
		StatusCodes:        []int{404},
		TakeoverURL:        "https://www.launchrock.com",
		VerificationMethod: "create_site",
	},
	{
		Provider:           "feedpress",
		Service:            "Feedpress",
		CNAMEPatterns:      []string{"redirect.feedpress.me", ".feedpress.me"},
		RiskTier:           types.RiskMedium,
		CanTakeover:        true,
		ErrorPatterns:      []string{"The feed has not been found", "This feed does not exist"},
		ClaimedIndicators:  []string{"Feedpress"},
		StatusCodes:        []int{404},
		TakeoverURL:        "https://feed.press",
		VerificationMethod: "create_feed",
	},
	{
		Provider:           "teamwork",
		Service:            "Teamwork",
		CNAMEPatterns:      []string{".teamwork.com"},
		RiskTier:           types.RiskMedium,
		CanTakeover:        true,
		ErrorPatterns:      []string{"Oops - We didn't find your site", "There is no such site on our platform"},
		ClaimedIndicators:  []string{"Teamwork"},
		StatusCodes:        []int{404},
		TakeoverURL:        "https://www.teamwork.com",
		VerificationMethod: "create_site",
	},
	{
		Provider:           "kinsta",
		Service:            "Kinsta",
		CNAMEPatterns:      []string{".kinsta.cloud", ".kinsta.com"},
		RiskTier:           types.RiskHigh,
		CanTakeover:        true,
		ErrorPatterns:      []string{"No site is currently installed here", "The site you are looking for could not be found"},
		ClaimedIndicators:  []string{"Kinsta"},
		StatusCodes:        []int{404},
		TakeoverURL:        "https://kinsta.com",
		VerificationMethod: "create_site",
	},
	{
		Provider:           "agilecrm",
		Service:            "Agile CRM",
		CNAMEPatterns:      []string{".agilecrm.com"},
		RiskTier:           types.RiskMedium,
		CanTakeover:        true,
		ErrorPatterns:      []string{"Sorry, this page is no longer available"},
		ClaimedIndicators:  []string{"Agile CRM"},
		StatusCodes:        []int{404},
		TakeoverURL:        "https://www.agilecrm.com",
		VerificationMethod: "create_portal",
	},
	{
		Provider:           "uptimerobot",
		Service:            "UptimeRobot",
		CNAMEPatterns:      []string{".uptimerobot.com", "stats.uptimerobot.com"},
		RiskTier:           types.RiskLow,
		CanTakeover:        true,
		ErrorPatterns:      []string{"page not found", "This public status page is no longer available"},
		ClaimedIndicators:  []string{"UptimeRobot"},
		StatusCodes:        []int{404},
		TakeoverURL:        "https://uptimerobot.com",
		VerificationMethod: "create_status_page",
	},
	{
		Provider:           "elastic_beanstalk",
		Service:            "AWS Elastic Beanstalk",
		CNAMEPatterns:      []string{".elasticbeanstalk.com"},
		RiskTier:           types.RiskHigh,
		CanTakeover:        true,
		StatusCodes:        []int{404},
		TakeoverURL:        "https://console.aws.amazon.com/elasticbeanstalk",
		VerificationMethod: "create_environment",
	},
	{
		Provider:           "hatenablog",
		Service:            "HatenaBlog",
		CNAMEPatterns:      []string{".hatenablog.com"},
		RiskTier:           types.RiskMedium,
		CanTakeover:        true,
		ErrorPatterns:      []string{"404 Blog is not found"},
		StatusCodes:        []int{404},
		TakeoverURL:        "https://hatenablog.com",
		VerificationMethod: "create_blog",
	},
	{
		Provider:           "helpjuice",
		Service:            "Help Juice",
		CNAMEPatterns:      []string{".helpjuice.com"},
		RiskTier:           types.RiskMedium,
		CanTakeover:        true,
		ErrorPatterns:      []string{"We could not find what you're looking for."},
		StatusCodes:        []int{404},
		TakeoverURL:        "https://helpjuice.com",
		VerificationMethod: "create_knowledge_base",
	},
	{
		Provider:           "statuspage",
		Service:            "Statuspage",
		CNAMEPatterns:      []string{".statuspage.io"},
		RiskTier:           types.RiskMedium,
		CanTakeover:        true,
		ErrorPatterns:      []string{"You are being <a href=\"https://www.statuspage.io\">redirected"},
		StatusCodes:        []int{302, 404},
		TakeoverURL:        "https://manage.statuspage.io",
		VerificationMethod: "create_status_page",
	},
	{
		Provider:           "webflow",
		Service:            "Webflow",
		CNAMEPatterns:      []string{".webflow.io", "proxy-ssl.webflow.com"},
		RiskTier:           types.RiskMedium,
		CanTakeover:        false,
		ErrorPatterns:      []string{"The page you are looking for doesn't exist or has been moved."},
		ClaimedIndicators:  []string{"Made in Webflow"},
		StatusCodes:        []int{404},
		TakeoverURL:        "https://webflow.com/dashboard",
		VerificationMethod: "create_site",
	},
	{
		Provider:           "wpengine",
		Service:            "WP Engine",
		CNAMEPatterns:      []string{".wpengine.com", ".wpenginepowered.com"},
		RiskTier:           types.RiskMedium,
		CanTakeover:        false,
		ErrorPatterns:      []string{"The site you were looking for couldn't be found"},
		StatusCodes:        []int{404},
		TakeoverURL:        "https://my.wpengine.com",
		VerificationMethod: "create_install",
	},
	{
		Provider:           "uberflip",
		Service:            "Uberflip",
		CNAMEPatterns:      []string{".uberflip.com"},
		RiskTier:           types.RiskMedium,
		CanTakeover:        true,
		ErrorPatterns:      []string{"Non-hub domain, The URL you've accessed does not provide a hub."},
		StatusCodes:        []int{404},
		TakeoverURL:        "https://app.uberflip.com",
		VerificationMethod: "create_hub",
	},
	{
		Provider:           "smartling",
		Service:            "Smartling",
		CNAMEPatterns:      []string{".smartling.com"},
		RiskTier:           types.RiskMedium,
		CanTakeover:        true,
		ErrorPatterns:      []string{"Domain is not configured"},
		StatusCodes:        []int{404},
		TakeoverURL:        "https://dashboard.smartling.com",
		VerificationMethod: "create_project",
	},
}
