package location

import "github.com/sells-group/outreach-cli/internal/textutil"

type country struct {
	code     string
	timezone string
}

type city struct {
	name     string
	region   string
	country  string
	timezone string
	// geo is the LinkedIn facetGeoRegion code.
	geo     string
	aliases []string
}

var countryNames = map[string][]string{
	"FR": {"france"},
	"US": {"united states", "united states of america", "usa", "us", "u.s.", "u.s.a.", "etats-unis", "estados unidos"},
	"GB": {"united kingdom", "uk", "u.k.", "great britain", "england", "scotland", "wales", "royaume-uni"},
	"DE": {"germany", "deutschland", "allemagne", "alemania"},
	"ES": {"spain", "espana", "espagne"},
	"IT": {"italy", "italia", "italie"},
	"NL": {"netherlands", "the netherlands", "holland", "nederland", "pays-bas"},
	"BE": {"belgium", "belgique", "belgie"},
	"CH": {"switzerland", "suisse", "schweiz"},
	"LU": {"luxembourg"},
	"IE": {"ireland"},
	"PT": {"portugal"},
	"SE": {"sweden", "sverige"},
	"DK": {"denmark", "danmark"},
	"NO": {"norway", "norge"},
	"FI": {"finland", "suomi"},
	"AT": {"austria", "osterreich", "autriche"},
	"PL": {"poland", "polska", "pologne"},
	"CZ": {"czech republic", "czechia"},
	"CA": {"canada"},
	"MX": {"mexico"},
	"BR": {"brazil", "brasil"},
	"MA": {"morocco", "maroc"},
	"AE": {"united arab emirates", "uae"},
	"SG": {"singapore"},
	"AU": {"australia"},
	"JP": {"japan"},
	"IN": {"india", "inde"},
}

var countriesByCode = map[string]country{
	"FR": {"FR", "Europe/Paris"},
	"US": {"US", "America/New_York"},
	"GB": {"GB", "Europe/London"},
	"DE": {"DE", "Europe/Berlin"},
	"ES": {"ES", "Europe/Madrid"},
	"IT": {"IT", "Europe/Rome"},
	"NL": {"NL", "Europe/Amsterdam"},
	"BE": {"BE", "Europe/Brussels"},
	"CH": {"CH", "Europe/Zurich"},
	"LU": {"LU", "Europe/Luxembourg"},
	"IE": {"IE", "Europe/Dublin"},
	"PT": {"PT", "Europe/Lisbon"},
	"SE": {"SE", "Europe/Stockholm"},
	"DK": {"DK", "Europe/Copenhagen"},
	"NO": {"NO", "Europe/Oslo"},
	"FI": {"FI", "Europe/Helsinki"},
	"AT": {"AT", "Europe/Vienna"},
	"PL": {"PL", "Europe/Warsaw"},
	"CZ": {"CZ", "Europe/Prague"},
	"CA": {"CA", "America/Toronto"},
	"MX": {"MX", "America/Mexico_City"},
	"BR": {"BR", "America/Sao_Paulo"},
	"MA": {"MA", "Africa/Casablanca"},
	"AE": {"AE", "Asia/Dubai"},
	"SG": {"SG", "Asia/Singapore"},
	"AU": {"AU", "Australia/Sydney"},
	"JP": {"JP", "Asia/Tokyo"},
	"IN": {"IN", "Asia/Kolkata"},
}

var usStates = map[string]string{
	"AL": "Alabama", "AK": "Alaska", "AZ": "Arizona", "AR": "Arkansas",
	"CA": "California", "CO": "Colorado", "CT": "Connecticut", "DE": "Delaware",
	"DC": "District of Columbia", "FL": "Florida", "GA": "Georgia", "HI": "Hawaii",
	"ID": "Idaho", "IL": "Illinois", "IN": "Indiana", "IA": "Iowa",
	"KS": "Kansas", "KY": "Kentucky", "LA": "Louisiana", "ME": "Maine",
	"MD": "Maryland", "MA": "Massachusetts", "MI": "Michigan", "MN": "Minnesota",
	"MS": "Mississippi", "MO": "Missouri", "MT": "Montana", "NE": "Nebraska",
	"NV": "Nevada", "NH": "New Hampshire", "NJ": "New Jersey", "NM": "New Mexico",
	"NY": "New York", "NC": "North Carolina", "ND": "North Dakota", "OH": "Ohio",
	"OK": "Oklahoma", "OR": "Oregon", "PA": "Pennsylvania", "RI": "Rhode Island",
	"SC": "South Carolina", "SD": "South Dakota", "TN": "Tennessee", "TX": "Texas",
	"UT": "Utah", "VT": "Vermont", "VA": "Virginia", "WA": "Washington",
	"WV": "West Virginia", "WI": "Wisconsin", "WY": "Wyoming",
}

var cities = []city{
	// France
	{name: "Paris", region: "Île-de-France", country: "FR", timezone: "Europe/Paris", geo: "fr:5227", aliases: []string{"ile-de-france", "la defense"}},
	{name: "Lyon", region: "Auvergne-Rhône-Alpes", country: "FR", timezone: "Europe/Paris", geo: "fr:5160"},
	{name: "Marseille", region: "Provence-Alpes-Côte d'Azur", country: "FR", timezone: "Europe/Paris", geo: "fr:5173", aliases: []string{"aix-marseille"}},
	{name: "Toulouse", region: "Occitanie", country: "FR", timezone: "Europe/Paris", geo: "fr:5315"},
	{name: "Bordeaux", region: "Nouvelle-Aquitaine", country: "FR", timezone: "Europe/Paris", geo: "fr:5031"},
	{name: "Lille", region: "Hauts-de-France", country: "FR", timezone: "Europe/Paris", geo: "fr:5152"},
	{name: "Nantes", region: "Pays de la Loire", country: "FR", timezone: "Europe/Paris", geo: "fr:5202"},
	{name: "Nice", region: "Provence-Alpes-Côte d'Azur", country: "FR", timezone: "Europe/Paris", geo: "fr:5209", aliases: []string{"sophia antipolis"}},
	{name: "Strasbourg", region: "Grand Est", country: "FR", timezone: "Europe/Paris", geo: "fr:5302"},
	{name: "Rennes", region: "Bretagne", country: "FR", timezone: "Europe/Paris", geo: "fr:5257"},
	{name: "Montpellier", region: "Occitanie", country: "FR", timezone: "Europe/Paris", geo: "fr:5188"},
	{name: "Grenoble", region: "Auvergne-Rhône-Alpes", country: "FR", timezone: "Europe/Paris", geo: "fr:5116"},

	// United States
	{name: "New York", region: "New York", country: "US", timezone: "America/New_York", geo: "us:70", aliases: []string{"new york city", "nyc", "manhattan", "brooklyn"}},
	{name: "San Francisco", region: "California", country: "US", timezone: "America/Los_Angeles", geo: "us:84", aliases: []string{"sf", "san francisco bay", "bay area", "silicon valley"}},
	{name: "Los Angeles", region: "California", country: "US", timezone: "America/Los_Angeles", geo: "us:49", aliases: []string{"la"}},
	{name: "Seattle", region: "Washington", country: "US", timezone: "America/Los_Angeles", geo: "us:91"},
	{name: "Boston", region: "Massachusetts", country: "US", timezone: "America/New_York", geo: "us:7"},
	{name: "Chicago", region: "Illinois", country: "US", timezone: "America/Chicago", geo: "us:14"},
	{name: "Austin", region: "Texas", country: "US", timezone: "America/Chicago", geo: "us:64"},
	{name: "Dallas", region: "Texas", country: "US", timezone: "America/Chicago", geo: "us:31", aliases: []string{"dallas-fort worth", "dfw"}},
	{name: "Houston", region: "Texas", country: "US", timezone: "America/Chicago", geo: "us:42"},
	{name: "Washington", region: "District of Columbia", country: "US", timezone: "America/New_York", geo: "us:97", aliases: []string{"washington dc", "washington d.c.", "dc"}},
	{name: "Atlanta", region: "Georgia", country: "US", timezone: "America/New_York", geo: "us:52"},
	{name: "Miami", region: "Florida", country: "US", timezone: "America/New_York", geo: "us:56", aliases: []string{"miami-fort lauderdale"}},
	{name: "Denver", region: "Colorado", country: "US", timezone: "America/Denver", geo: "us:34"},
	{name: "Philadelphia", region: "Pennsylvania", country: "US", timezone: "America/New_York", geo: "us:77"},
	{name: "San Diego", region: "California", country: "US", timezone: "America/Los_Angeles", geo: "us:82"},

	// Canada
	{name: "Toronto", region: "Ontario", country: "CA", timezone: "America/Toronto", geo: "ca:4876"},
	{name: "Montreal", region: "Quebec", country: "CA", timezone: "America/Toronto", geo: "ca:4863"},
	{name: "Vancouver", region: "British Columbia", country: "CA", timezone: "America/Vancouver", geo: "ca:4880"},

	// Rest of Europe
	{name: "London", region: "England", country: "GB", timezone: "Europe/London", geo: "gb:4573", aliases: []string{"city of london"}},
	{name: "Manchester", region: "England", country: "GB", timezone: "Europe/London", geo: "gb:4582"},
	{name: "Edinburgh", region: "Scotland", country: "GB", timezone: "Europe/London", geo: "gb:4565"},
	{name: "Dublin", region: "Leinster", country: "IE", timezone: "Europe/Dublin", geo: "ie:4617"},
	{name: "Berlin", region: "Berlin", country: "DE", timezone: "Europe/Berlin", geo: "de:4944"},
	{name: "Munich", region: "Bavaria", country: "DE", timezone: "Europe/Berlin", geo: "de:5000", aliases: []string{"munchen"}},
	{name: "Hamburg", region: "Hamburg", country: "DE", timezone: "Europe/Berlin", geo: "de:4977"},
	{name: "Frankfurt", region: "Hesse", country: "DE", timezone: "Europe/Berlin", geo: "de:4966", aliases: []string{"frankfurt am main"}},
	{name: "Amsterdam", region: "North Holland", country: "NL", timezone: "Europe/Amsterdam", geo: "nl:5664"},
	{name: "Brussels", region: "Brussels-Capital", country: "BE", timezone: "Europe/Brussels", geo: "be:4863", aliases: []string{"bruxelles", "brussel"}},
	{name: "Luxembourg", region: "Luxembourg", country: "LU", timezone: "Europe/Luxembourg", geo: "lu:0", aliases: []string{"luxembourg city"}},
	{name: "Zurich", region: "Zurich", country: "CH", timezone: "Europe/Zurich", geo: "ch:4938"},
	{name: "Geneva", region: "Geneva", country: "CH", timezone: "Europe/Zurich", geo: "ch:4930", aliases: []string{"geneve", "genf"}},
	{name: "Madrid", region: "Community of Madrid", country: "ES", timezone: "Europe/Madrid", geo: "es:5113"},
	{name: "Barcelona", region: "Catalonia", country: "ES", timezone: "Europe/Madrid", geo: "es:5064"},
	{name: "Lisbon", region: "Lisbon", country: "PT", timezone: "Europe/Lisbon", geo: "pt:6474", aliases: []string{"lisboa", "lisbonne"}},
	{name: "Milan", region: "Lombardy", country: "IT", timezone: "Europe/Rome", geo: "it:5198", aliases: []string{"milano"}},
	{name: "Rome", region: "Lazio", country: "IT", timezone: "Europe/Rome", geo: "it:5239", aliases: []string{"roma"}},
	{name: "Stockholm", region: "Stockholm", country: "SE", timezone: "Europe/Stockholm", geo: "se:6656"},
	{name: "Copenhagen", region: "Capital Region", country: "DK", timezone: "Europe/Copenhagen", geo: "dk:5038", aliases: []string{"kobenhavn"}},
	{name: "Oslo", region: "Oslo", country: "NO", timezone: "Europe/Oslo", geo: "no:6146"},
	{name: "Helsinki", region: "Uusimaa", country: "FI", timezone: "Europe/Helsinki", geo: "fi:5404"},
	{name: "Vienna", region: "Vienna", country: "AT", timezone: "Europe/Vienna", geo: "at:4444", aliases: []string{"wien"}},
	{name: "Warsaw", region: "Masovia", country: "PL", timezone: "Europe/Warsaw", geo: "pl:6376", aliases: []string{"warszawa"}},
	{name: "Prague", region: "Prague", country: "CZ", timezone: "Europe/Prague", geo: "cz:5043", aliases: []string{"praha"}},

	// Elsewhere
	{name: "Singapore", region: "Singapore", country: "SG", timezone: "Asia/Singapore", geo: "sg:0"},
	{name: "Dubai", region: "Dubai", country: "AE", timezone: "Asia/Dubai", geo: "ae:0"},
	{name: "Sydney", region: "New South Wales", country: "AU", timezone: "Australia/Sydney", geo: "au:4910"},
	{name: "Melbourne", region: "Victoria", country: "AU", timezone: "Australia/Melbourne", geo: "au:4900"},
	{name: "Tokyo", region: "Tokyo", country: "JP", timezone: "Asia/Tokyo", geo: "jp:0"},
	{name: "Bangalore", region: "Karnataka", country: "IN", timezone: "Asia/Kolkata", geo: "in:7127", aliases: []string{"bengaluru"}},
}

// These must be variable initializers, not init(): defaultParser resolves
// DefaultText during package initialization.
var (
	countriesByName = buildCountries()
	citiesByKey     = buildCities()
)

func buildCountries() map[string]country {
	out := make(map[string]country)
	for code, names := range countryNames {
		for _, n := range names {
			out[textutil.Fold(n)] = countriesByCode[code]
		}
	}
	return out
}

func buildCities() map[string]city {
	out := make(map[string]city)
	for _, c := range cities {
		out[textutil.Fold(c.name)] = c
		for _, a := range c.aliases {
			out[textutil.Fold(a)] = c
		}
	}
	return out
}
