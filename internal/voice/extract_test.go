package voice

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		text string
		want Extraction
	}{
		{text: "Mere paas 50 kilo tamatar hai", want: Extraction{Crop: "tomato", Quantity: 50}},
		{text: "100 kg aloo", want: Extraction{Crop: "potato", Quantity: 100}},
		{text: "mere pass 5kg gehu hai", want: Extraction{Crop: "wheat", Quantity: 5}},
		{text: "20 bags HARI MIRCH", want: Extraction{Crop: "green chilli", Quantity: 20}},
		{text: "phool gobhi 12", want: Extraction{Crop: "cauliflower", Quantity: 12}},
		{text: "I have 3 sacks of rice", want: Extraction{Crop: "rice", Quantity: 3}},
		{text: "7 kg rice aur onion", want: Extraction{Crop: "onion", Quantity: 7}},
		{text: "kuch nahi", want: Extraction{Crop: UnknownCrop}},
		{text: "", want: Extraction{Crop: UnknownCrop}},
		{text: "99999999999999999999999 kg wheat", want: Extraction{Crop: "wheat"}},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, Extract(tt.text))
		})
	}
}

func TestLookupOrderIsLongestFirst(t *testing.T) {
	for i := 1; i < len(lookupOrder); i++ {
		assert.GreaterOrEqual(t, len(lookupOrder[i-1]), len(lookupOrder[i]))
	}
	assert.Len(t, lookupOrder, len(cropNames))
}
