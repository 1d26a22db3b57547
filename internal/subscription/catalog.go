// Package subscription classifies confirmed recurring patterns as
// subscription services and computes cost and savings guidance.
package subscription

import (
	"strings"

	"github.com/Veraticus/recurring-spice/internal/model"
)

// KnownService is a catalog entry for a recognizable subscription service.
type KnownService struct {
	Key      string // Lowercase substring that identifies the service
	Name     string
	URL      string
	Icon     string
	Category model.SubscriptionCategory
	Aliases  []string // Additional lowercase substrings
}

// matches reports whether a lowercased merchant name refers to the service.
func (s KnownService) matches(lowerMerchant string) bool {
	if strings.Contains(lowerMerchant, s.Key) {
		return true
	}
	for _, alias := range s.Aliases {
		if strings.Contains(lowerMerchant, alias) {
			return true
		}
	}
	return false
}

// catalog is scanned in order and the first hit wins, so more specific
// services must come before the broader ones they overlap with.
var catalog = []KnownService{
	// Streaming
	{Key: "netflix", Name: "Netflix", URL: "https://www.netflix.com", Icon: "netflix", Category: model.CategoryStreaming},
	{Key: "hulu", Name: "Hulu", URL: "https://www.hulu.com", Icon: "hulu", Category: model.CategoryStreaming},
	{Key: "disney", Name: "Disney+", URL: "https://www.disneyplus.com", Icon: "disney-plus", Category: model.CategoryStreaming},
	{Key: "hbo max", Name: "Max", URL: "https://www.max.com", Icon: "max", Category: model.CategoryStreaming,
		Aliases: []string{"hbomax", "hbo now"}},
	{Key: "youtube tv", Name: "YouTube TV", URL: "https://tv.youtube.com", Icon: "youtube", Category: model.CategoryStreaming},
	{Key: "youtube", Name: "YouTube Premium", URL: "https://www.youtube.com/premium", Icon: "youtube", Category: model.CategoryStreaming,
		Aliases: []string{"google youtube"}},
	{Key: "amazon prime", Name: "Amazon Prime", URL: "https://www.amazon.com/prime", Icon: "amazon", Category: model.CategoryShopping,
		Aliases: []string{"prime video", "amzn prime", "primevideo"}},
	{Key: "paramount", Name: "Paramount+", URL: "https://www.paramountplus.com", Icon: "paramount", Category: model.CategoryStreaming},
	{Key: "peacock", Name: "Peacock", URL: "https://www.peacocktv.com", Icon: "peacock", Category: model.CategoryStreaming},
	{Key: "crunchyroll", Name: "Crunchyroll", URL: "https://www.crunchyroll.com", Icon: "crunchyroll", Category: model.CategoryStreaming},
	{Key: "apple tv", Name: "Apple TV+", URL: "https://tv.apple.com", Icon: "apple", Category: model.CategoryStreaming},

	// Music and audio
	{Key: "spotify", Name: "Spotify", URL: "https://www.spotify.com", Icon: "spotify", Category: model.CategoryMusic},
	{Key: "apple music", Name: "Apple Music", URL: "https://music.apple.com", Icon: "apple", Category: model.CategoryMusic},
	{Key: "pandora", Name: "Pandora", URL: "https://www.pandora.com", Icon: "pandora", Category: model.CategoryMusic},
	{Key: "tidal", Name: "Tidal", URL: "https://tidal.com", Icon: "tidal", Category: model.CategoryMusic},
	{Key: "siriusxm", Name: "SiriusXM", URL: "https://www.siriusxm.com", Icon: "siriusxm", Category: model.CategoryMusic,
		Aliases: []string{"sirius xm", "sirius radio"}},
	{Key: "audible", Name: "Audible", URL: "https://www.audible.com", Icon: "audible", Category: model.CategoryMusic},

	// Cloud storage
	{Key: "icloud", Name: "iCloud+", URL: "https://www.icloud.com", Icon: "apple", Category: model.CategoryCloudStorage},
	{Key: "dropbox", Name: "Dropbox", URL: "https://www.dropbox.com", Icon: "dropbox", Category: model.CategoryCloudStorage},
	{Key: "google one", Name: "Google One", URL: "https://one.google.com", Icon: "google", Category: model.CategoryCloudStorage,
		Aliases: []string{"google storage", "googleone"}},
	{Key: "backblaze", Name: "Backblaze", URL: "https://www.backblaze.com", Icon: "backblaze", Category: model.CategoryCloudStorage},

	// Software
	{Key: "adobe", Name: "Adobe Creative Cloud", URL: "https://www.adobe.com", Icon: "adobe", Category: model.CategorySoftware},
	{Key: "microsoft 365", Name: "Microsoft 365", URL: "https://www.microsoft.com/microsoft-365", Icon: "microsoft", Category: model.CategorySoftware,
		Aliases: []string{"microsoft*365", "office 365", "msft 365"}},
	{Key: "github", Name: "GitHub", URL: "https://github.com", Icon: "github", Category: model.CategorySoftware},
	{Key: "notion", Name: "Notion", URL: "https://www.notion.so", Icon: "notion", Category: model.CategorySoftware},
	{Key: "1password", Name: "1Password", URL: "https://1password.com", Icon: "1password", Category: model.CategorySoftware},
	{Key: "openai", Name: "ChatGPT", URL: "https://chat.openai.com", Icon: "openai", Category: model.CategorySoftware,
		Aliases: []string{"chatgpt"}},
	{Key: "canva", Name: "Canva", URL: "https://www.canva.com", Icon: "canva", Category: model.CategorySoftware},
	{Key: "slack", Name: "Slack", URL: "https://slack.com", Icon: "slack", Category: model.CategorySoftware},
	{Key: "zoom.us", Name: "Zoom", URL: "https://zoom.us", Icon: "zoom", Category: model.CategorySoftware,
		Aliases: []string{"zoom video"}},

	// News
	{Key: "nytimes", Name: "The New York Times", URL: "https://www.nytimes.com", Icon: "nytimes", Category: model.CategoryNews,
		Aliases: []string{"new york times", "ny times"}},
	{Key: "wsj", Name: "The Wall Street Journal", URL: "https://www.wsj.com", Icon: "wsj", Category: model.CategoryNews,
		Aliases: []string{"wall street journal", "dowjones"}},
	{Key: "washington post", Name: "The Washington Post", URL: "https://www.washingtonpost.com", Icon: "wapo", Category: model.CategoryNews,
		Aliases: []string{"washpost"}},
	{Key: "medium.com", Name: "Medium", URL: "https://medium.com", Icon: "medium", Category: model.CategoryNews},
	{Key: "substack", Name: "Substack", URL: "https://substack.com", Icon: "substack", Category: model.CategoryNews},

	// Fitness
	{Key: "peloton", Name: "Peloton", URL: "https://www.onepeloton.com", Icon: "peloton", Category: model.CategoryFitness},
	{Key: "strava", Name: "Strava", URL: "https://www.strava.com", Icon: "strava", Category: model.CategoryFitness},
	{Key: "planet fitness", Name: "Planet Fitness", URL: "https://www.planetfitness.com", Icon: "planet-fitness", Category: model.CategoryFitness},
	{Key: "classpass", Name: "ClassPass", URL: "https://classpass.com", Icon: "classpass", Category: model.CategoryFitness},

	// Gaming
	{Key: "xbox", Name: "Xbox Game Pass", URL: "https://www.xbox.com", Icon: "xbox", Category: model.CategoryGaming},
	{Key: "playstation", Name: "PlayStation Plus", URL: "https://www.playstation.com", Icon: "playstation", Category: model.CategoryGaming},
	{Key: "nintendo", Name: "Nintendo Switch Online", URL: "https://www.nintendo.com", Icon: "nintendo", Category: model.CategoryGaming},

	// Education
	{Key: "duolingo", Name: "Duolingo", URL: "https://www.duolingo.com", Icon: "duolingo", Category: model.CategoryEducation},
	{Key: "coursera", Name: "Coursera", URL: "https://www.coursera.org", Icon: "coursera", Category: model.CategoryEducation},
	{Key: "masterclass", Name: "MasterClass", URL: "https://www.masterclass.com", Icon: "masterclass", Category: model.CategoryEducation},
	{Key: "skillshare", Name: "Skillshare", URL: "https://www.skillshare.com", Icon: "skillshare", Category: model.CategoryEducation},

	// Shopping and delivery memberships
	{Key: "costco", Name: "Costco Membership", URL: "https://www.costco.com", Icon: "costco", Category: model.CategoryShopping},
	{Key: "walmart+", Name: "Walmart+", URL: "https://www.walmart.com/plus", Icon: "walmart", Category: model.CategoryShopping,
		Aliases: []string{"walmart plus"}},
	{Key: "instacart", Name: "Instacart+", URL: "https://www.instacart.com", Icon: "instacart", Category: model.CategoryShopping},
	{Key: "dashpass", Name: "DashPass", URL: "https://www.doordash.com/dashpass", Icon: "doordash", Category: model.CategoryShopping},

	// Utilities
	{Key: "verizon", Name: "Verizon", URL: "https://www.verizon.com", Icon: "verizon", Category: model.CategoryUtilities},
	{Key: "t-mobile", Name: "T-Mobile", URL: "https://www.t-mobile.com", Icon: "t-mobile", Category: model.CategoryUtilities,
		Aliases: []string{"tmobile"}},
	{Key: "xfinity", Name: "Xfinity", URL: "https://www.xfinity.com", Icon: "xfinity", Category: model.CategoryUtilities,
		Aliases: []string{"comcast"}},
}

// LookupService returns the first catalog entry whose key or alias appears in
// the merchant name.
func LookupService(merchantName string) (KnownService, bool) {
	lower := strings.ToLower(merchantName)
	for _, svc := range catalog {
		if svc.matches(lower) {
			return svc, true
		}
	}
	return KnownService{}, false
}

// KnownServices returns a copy of the catalog in scan order.
func KnownServices() []KnownService {
	out := make([]KnownService, len(catalog))
	copy(out, catalog)
	return out
}
