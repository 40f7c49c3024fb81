package newsletter

type Brand struct {
	Key     string
	Name    string
	Domain  string
	Color   string
	Tagline string
}

var brands = map[string]Brand{
	"mindbalance": {
		Key:     "mindbalance",
		Name:    "MindBalance",
		Domain:  "mindbalance.cloud",
		Color:   "#af916d",
		Tagline: "Your Mental Wellness Companion",
	},
	"mindspace": {
		Key:     "mindspace",
		Name:    "MindSpace",
		Domain:  "mindspace.site",
		Color:   "#2068A8",
		Tagline: "Your Mental Wellness Space",
	},
}

// BrandFor returns the named brand, defaulting to mindbalance.
func BrandFor(key string) Brand {
	if b, ok := brands[key]; ok {
		return b
	}
	return brands["mindbalance"]
}

func (b Brand) SiteURL() string {
	return "https://" + b.Domain
}

func (b Brand) DefaultFrom() string {
	return b.Name + " <hello@" + b.Domain + ">"
}
