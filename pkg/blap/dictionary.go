package blap

import (
	"regexp"
	"strings"
)

type trackEntry struct {
	key  string
	name string
}

// tracks is ordered, the first matching key wins
//
//nolint:gochecknoglobals,lll // lookup table
var tracks = []trackEntry{
	{"spa", "Circuit de Spa-Francorchamps"},
	{"monza", "Autodromo Nazionale Monza"},
	{"silverstone", "Silverstone Circuit"},
	{"nurburgring", "Nurburgring"},
	{"nordschleife", "Nurburgring Nordschleife"},
	{"lemans", "Circuit de la Sarthe (Le Mans)"},
	{"daytona", "Daytona International Speedway"},
	{"watkinsglen", "Watkins Glen International"},
	{"imola", "Autodromo Enzo e Dino Ferrari (Imola)"},
	{"bathurst", "Mount Panorama Circuit (Bathurst)"},
	{"suzuka", "Suzuka International Racing Course"},
	{"brands_hatch", "Brands Hatch"},
	{"brandshatch", "Brands Hatch"},
	{"cota", "Circuit of the Americas"},
	{"interlagos", "Autodromo Jose Carlos Pace (Interlagos)"},
	{"barcelona", "Circuit de Barcelona-Catalunya"},
	{"catalunyagp", "Circuit de Barcelona-Catalunya"},
	{"hungaroring", "Hungaroring"},
	{"mugello", "Mugello Circuit"},
	{"paul_ricard", "Circuit Paul Ricard"},
	{"paulricard", "Circuit Paul Ricard"},
	{"zandvoort", "Circuit Zandvoort"},
	{"portimao", "Autodromo Internacional do Algarve"},
	{"algarve", "Autodromo Internacional do Algarve"},
	{"kyalami", "Kyalami Grand Prix Circuit"},
	{"fuji", "Fuji Speedway"},
	{"laguna", "WeatherTech Raceway Laguna Seca"},
	{"lagunaseca", "WeatherTech Raceway Laguna Seca"},
	{"sebring", "Sebring International Raceway"},
	{"roadamerica", "Road America"},
	{"roadatlanta", "Road Atlanta"},
	{"misano", "Misano World Circuit"},
	{"donington", "Donington Park"},
	{"snetterton", "Snetterton Circuit"},
	{"oultonpark", "Oulton Park"},
	{"indianapolis", "Indianapolis Motor Speedway"},
	{"indy", "Indianapolis Motor Speedway"},
	{"mosport", "Canadian Tire Motorsport Park"},
	{"motegi", "Twin Ring Motegi"},
	{"hockenheim", "Hockenheimring"},
	{"redbullring", "Red Bull Ring"},
	{"spielberg", "Red Bull Ring"},
	{"phillip_island", "Phillip Island Circuit"},
	{"phillipisland", "Phillip Island Circuit"},
	{"okayama", "Okayama International Circuit"},
	{"tsukuba", "Tsukuba Circuit"},
	{"charlotte", "Charlotte Motor Speedway"},
	{"longbeach", "Streets of Long Beach"},
	{"detroit", "Raceway at Belle Isle"},
	{"montreal", "Circuit Gilles Villeneuve"},
	{"sandown", "Sandown Raceway"},
	{"knockhill", "Knockhill Racing Circuit"},
	{"oran_park", "Oran Park Raceway"},
	{"oranpark", "Oran Park Raceway"},
	{"winton", "Winton Motor Raceway"},
}

//nolint:gochecknoglobals // lookup table
var cars = map[string]string{
	"porsche992rgt3":    "Porsche 911 GT3 R (992)",
	"bmwm4gt3":          "BMW M4 GT3",
	"ferrari296gt3":     "Ferrari 296 GT3",
	"audir8lmsevoii":    "Audi R8 LMS EVO II GT3",
	"mercedesamggt3evo": "Mercedes-AMG GT3 EVO",
	"mclarengt3":        "McLaren 720S GT3",
	"lamborghinievogt3": "Lamborghini Huracan GT3 EVO",
	"astonmartingt3":    "Aston Martin Vantage GT3",
	"corvettez06gt3r":   "Chevrolet Corvette Z06 GT3.R",
	"fordgt3":           "Ford Mustang GT3",
	"lexusrcfgt3":       "Lexus RC F GT3",
}

var nonAlnum = regexp.MustCompile(`[^a-z0-9]`)

// CarName maps a car path like "porsche992rgt3" to its display name.
// Case and non alphanumeric characters are ignored.
func CarName(carPath string) (string, bool) {
	if carPath == "" {
		return "", false
	}
	name, ok := cars[carKey(carPath)]
	return name, ok
}

func carKey(s string) string {
	return nonAlnum.ReplaceAllString(strings.ToLower(s), "")
}

// TrackName maps a track path like "spa\up" to its display name.
// A key matching the path base wins over a key contained anywhere in the path.
func TrackName(trackPath string) (string, bool) {
	lower := strings.ToLower(trackPath)
	base := lower
	if i := strings.IndexAny(lower, `\/`); i >= 0 {
		base = lower[:i]
	}
	for _, t := range tracks {
		if base == t.key {
			return t.name, true
		}
	}
	for _, t := range tracks {
		if strings.Contains(lower, t.key) {
			return t.name, true
		}
	}
	return "", false
}
