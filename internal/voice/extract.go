// Package voice pulls a crop name and quantity out of transcribed farmer speech
// in Hindi, Hinglish or English.
package voice

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// UnknownCrop is reported when no dictionary entry appears in the text.
const UnknownCrop = "unknown"

// Extraction is what was understood from one utterance.
type Extraction struct {
	Crop     string `json:"crop"`
	Quantity int    `json:"quantity"`
}

var quantityPattern = regexp.MustCompile(`(\d+)\s*(kilo|kg|kgs|bags|sacks|units)?`)

var cropNames = map[string]string{
	// vegetables
	"tamatar":     "tomato",
	"pyaz":        "onion",
	"piyaj":       "onion",
	"aloo":        "potato",
	"gajar":       "carrot",
	"patta gobhi": "cabbage",
	"phool gobhi": "cauliflower",
	"phoolkopi":   "cauliflower",
	"baigan":      "brinjal",
	"baingan":     "brinjal",
	"bhindi":      "bhindi",
	"lady finger": "bhindi",
	"mirch":       "green chilli",
	"hari mirch":  "green chilli",
	"lahsun":      "garlic",
	"adrak":       "ginger",

	// grains
	"gehun":  "wheat",
	"gehu":   "wheat",
	"gandum": "wheat",
	"gum":    "wheat",
	"wheat":  "wheat",
	"chawal": "rice",
	"rice":   "rice",
	"makka":  "maize",
	"maize":  "maize",
	"bajra":  "bajra",
	"jowar":  "jowar",
	"dhan":   "paddy",
	"paddy":  "paddy",

	// fruits
	"seb":    "apple",
	"apple":  "apple",
	"kela":   "banana",
	"banana": "banana",
	"aam":    "mango",
	"mango":  "mango",

	"tomato":      "tomato",
	"onion":       "onion",
	"potato":      "potato",
	"carrot":      "carrot",
	"cabbage":     "cabbage",
	"cauliflower": "cauliflower",
	"garlic":      "garlic",
	"ginger":      "ginger",
}

// lookupOrder lists dictionary keys longest first so "hari mirch" wins over "mirch".
var lookupOrder = func() []string {
	keys := make([]string, 0, len(cropNames))
	for k := range cropNames {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	return keys
}()

// Extract reads the first number in text as the quantity (0 when there is none)
// and the longest known crop name as the crop.
func Extract(text string) Extraction {
	lower := strings.ToLower(strings.TrimSpace(text))
	return Extraction{
		Crop:     findCrop(lower),
		Quantity: findQuantity(lower),
	}
}

func findQuantity(text string) int {
	m := quantityPattern.FindStringSubmatch(text)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return n
}

func findCrop(text string) string {
	for _, key := range lookupOrder {
		if strings.Contains(text, key) {
			return cropNames[key]
		}
	}
	return UnknownCrop
}
