package tts

import "github.com/mindspace/internal/models"

const defaultVoice = "rachel"

// voiceIDs maps the public voice keys to upstream voice identifiers.
var voiceIDs = map[string]string{
	"rachel": "EXAVITQu4vr4xnSDxMaL",
	"adam":   "21m00Tcm4TlvDq8ikWAM",
	"antoni": "ErXwobaYiN019PkySvjV",
	"arnold": "VR6AewLTigWG4xSOukaG",
	"bella":  "EXAVITQu4vr4xnSDxMaL",
	"domi":   "AZnzlk1XvdvUeBnXmlld",
	"elli":   "MF3mGyEYCl7XYWbV9V6O",
	"josh":   "TxGEqnHWrfWFTfGW9XjX",
	"sam":    "yoZ06aMxZJJ28mfd3POQ",
}

var languageVoices = map[string]string{
	"en": "rachel",
	"es": "adam",
	"fr": "antoni",
	"zh": "adam",
	"hi": "adam",
}

var catalog = []models.Voice{
	{ID: "rachel", Name: "Rachel (Female, Calm)", Language: "en"},
	{ID: "adam", Name: "Adam (Male, Deep)", Language: "en"},
	{ID: "antoni", Name: "Antoni (Male, Warm)", Language: "en"},
	{ID: "arnold", Name: "Arnold (Male, Crisp)", Language: "en"},
	{ID: "domi", Name: "Domi (Female, Strong)", Language: "en"},
	{ID: "elli", Name: "Elli (Female, Young)", Language: "en"},
	{ID: "josh", Name: "Josh (Male, Warm)", Language: "en"},
	{ID: "sam", Name: "Sam (Male, Friendly)", Language: "en"},
}

// Voices lists the selectable voices.
func Voices() []models.Voice {
	out := make([]models.Voice, len(catalog))
	copy(out, catalog)
	return out
}

// ResolveVoice picks the upstream voice id for a requested voice key, using
// the language default when the key is unknown.
func ResolveVoice(voice, language string) string {
	if id, ok := voiceIDs[voice]; ok {
		return id
	}
	if key, ok := languageVoices[language]; ok {
		return voiceIDs[key]
	}
	return voiceIDs[defaultVoice]
}
