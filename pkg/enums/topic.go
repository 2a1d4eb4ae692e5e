package enums

import "fmt"

// Topic names an assistant knowledge-base topic. Declaration order is match priority.
type Topic string

const (
	TopicPlatformOverview Topic = "platform_overview"
	TopicFarmerFeatures   Topic = "farmer_features"
	TopicMarketplace      Topic = "marketplace"
	TopicVoiceInput       Topic = "voice_input"
	TopicAIPricing        Topic = "ai_pricing"
	TopicQualityCheck     Topic = "quality_check"
	TopicPMKisan          Topic = "pm_kisan"
	TopicCropInsurance    Topic = "crop_insurance"
	TopicKisanCredit      Topic = "kisan_credit"
	TopicMSP              Topic = "msp"
	TopicSoilHealthCard   Topic = "soil_health_card"
	TopicSubsidy          Topic = "subsidy"
	TopicSchemeList       Topic = "scheme_list"
	TopicHelp             Topic = "help"
	TopicFallback         Topic = "fallback"
)

var validTopics = []Topic{
	TopicPlatformOverview,
	TopicFarmerFeatures,
	TopicMarketplace,
	TopicVoiceInput,
	TopicAIPricing,
	TopicQualityCheck,
	TopicPMKisan,
	TopicCropInsurance,
	TopicKisanCredit,
	TopicMSP,
	TopicSoilHealthCard,
	TopicSubsidy,
	TopicSchemeList,
	TopicHelp,
	TopicFallback,
}

// String implements fmt.Stringer.
func (t Topic) String() string {
	return string(t)
}

// IsValid reports whether the value is a known Topic.
func (t Topic) IsValid() bool {
	for _, candidate := range validTopics {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseTopic converts raw input into a Topic.
func ParseTopic(value string) (Topic, error) {
	for _, candidate := range validTopics {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid assistant topic %q", value)
}

// MatchableTopics returns every rule-backed topic in match priority order.
// The fallback topic is never matched by a rule and is excluded.
func MatchableTopics() []Topic {
	out := make([]Topic, 0, len(validTopics)-1)
	for _, topic := range validTopics {
		if topic != TopicFallback {
			out = append(out, topic)
		}
	}
	return out
}
