package enums

import "fmt"

// Speaker identifies who authored a conversation message.
type Speaker string

const (
	SpeakerUser      Speaker = "user"
	SpeakerAssistant Speaker = "assistant"
)

var validSpeakers = []Speaker{
	SpeakerUser,
	SpeakerAssistant,
}

// String implements fmt.Stringer.
func (s Speaker) String() string {
	return string(s)
}

// IsValid reports whether the value is a known Speaker.
func (s Speaker) IsValid() bool {
	for _, candidate := range validSpeakers {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseSpeaker converts raw input into a Speaker.
func ParseSpeaker(value string) (Speaker, error) {
	for _, candidate := range validSpeakers {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid speaker %q", value)
}
