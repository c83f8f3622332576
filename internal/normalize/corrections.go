package normalize

// corrections maps known misspellings and variant spellings to canonical
// tokens. Keys and values must both be lowercase, and no value may itself be
// a key, so normalization is a fixed point.
var corrections = map[string]string{
	// Misspellings
	"vitmin":      "vitamin",
	"vitamn":      "vitamin",
	"vitamine":    "vitamin",
	"magnesum":    "magnesium",
	"magneisum":   "magnesium",
	"melatonine":  "melatonin",
	"melotonin":   "melatonin",
	"ashwaganda":  "ashwagandha",
	"ashwagandah": "ashwagandha",
	"creatin":     "creatine",
	"cretine":     "creatine",
	"curcumine":   "curcumin",
	"tumeric":     "turmeric",
	"colageno":    "collagen",
	"colagen":     "collagen",
	"probiotic":   "probiotics",
	"resveratol":  "resveratrol",
	"glutatione":  "glutathione",
	"berberin":    "berberine",

	// Variant spellings and joined forms
	"omega3":      "omega-3",
	"omega-three": "omega-3",
	"coq-10":      "coq10",
	"co-q10":      "coq10",
	"b-12":        "b12",
	"d-3":         "d3",
	"fishoil":     "fish oil",
	"lionsmane":   "lion's mane",
}
