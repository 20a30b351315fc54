package pipeline

import "strings"

// WhitelistedDomains is the curated list of trusted news outlets applied
// when whitelist-only mode is enabled. Subdomains match by suffix.
var WhitelistedDomains = []string{
	// United States
	"nytimes.com", "washingtonpost.com", "wsj.com", "cnn.com", "reuters.com", "apnews.com",
	"usatoday.com", "npr.org", "latimes.com", "foxnews.com", "nbcnews.com", "cbsnews.com",
	"politico.com", "thehill.com", "bloomberg.com", "cnbc.com", "abcnews.go.com",
	"time.com", "newyorker.com", "theatlantic.com", "slate.com", "vox.com",
	"axios.com", "foreignpolicy.com", "pbs.org", "msnbc.com", "propublica.org",
	"motherjones.com", "fivethirtyeight.com", "bostonglobe.com", "chicagotribune.com",
	"sfchronicle.com", "seattletimes.com", "newsweek.com", "usnews.com",
	"businessinsider.com", "forbes.com", "fortune.com",

	// United Kingdom
	"bbc.co.uk", "bbc.com", "theguardian.com", "telegraph.co.uk", "independent.co.uk",
	"thetimes.co.uk", "ft.com", "economist.com", "sky.com", "channel4.com",
	"dailymail.co.uk", "mirror.co.uk", "express.co.uk", "standard.co.uk",
	"spectator.co.uk", "newstatesman.com", "politico.eu", "inews.co.uk", "metro.co.uk",
	"itv.com", "newscientist.com", "theconversation.com",

	// India
	"thehindu.com", "timesofindia.indiatimes.com", "indianexpress.com", "ndtv.com",
	"hindustantimes.com", "news18.com", "economictimes.indiatimes.com", "thequint.com",
	"telegraphindia.com", "theprint.in", "thewire.in", "businesstoday.in", "livemint.com",
	"firstpost.com", "indiatoday.in", "outlookindia.com", "financialexpress.com",
	"deccanherald.com", "tribuneindia.com", "thehindubusinessline.com",
	"newindianexpress.com", "moneycontrol.com", "business-standard.com",
	"zeenews.india.com", "republicworld.com", "abplive.com", "livelaw.in",
	"newslaundry.com", "downtoearth.org.in", "forbesindia.com", "thenewsminute.com",
	"deccanchronicle.com", "mathrubhumi.com", "manoramaonline.com", "theweek.in",

	// Canada
	"cbc.ca", "globalnews.ca", "thestar.com", "nationalpost.com", "theglobeandmail.com",
	"ctvnews.ca", "torontosun.com", "macleans.ca",

	// Australia
	"abc.net.au", "smh.com.au", "theage.com.au", "news.com.au", "9news.com.au",
	"theaustralian.com.au", "sbs.com.au", "canberratimes.com.au",

	// International
	"aljazeera.com", "france24.com", "dw.com", "euronews.com", "un.org", "who.int",
	"hrw.org", "amnesty.org", "nature.com", "scientificamerican.com",
	"japantimes.co.jp", "scmp.com", "straitstimes.com", "thejakartapost.com",
	"koreatimes.co.kr", "themoscowtimes.com", "kyivpost.com", "haaretz.com",
	"jpost.com", "arabnews.com", "timesofisrael.com", "middleeasteye.net",
	"thenational.ae", "mg.co.za", "news24.com", "afr.com",
}

// IsWhitelisted reports whether an outlet domain belongs to a trusted
// domain, matching subdomains by suffix.
func IsWhitelisted(domain string) bool {
	domain = strings.ToLower(strings.TrimSpace(domain))
	if domain == "" {
		return false
	}
	for _, trusted := range WhitelistedDomains {
		if domain == trusted || strings.HasSuffix(domain, "."+trusted) {
			return true
		}
	}
	return false
}
