package cli

import (
	"regexp"
	"strings"
)

const noSpeechMessage = "No speech detected in the audio file."

// whisper.cpp marks non-speech segments with bracketed or starred tags such
// as "[BLANK_AUDIO]", "[ Silence ]", "(music)" or "*applause*".
var nonSpeechAnnotation = regexp.MustCompile(`\[[^\]]*\]|\([^)]*\)|\*[^*\s][^*]*\*`)

// hasSpeech reports whether anything other than annotations is left in text.
func hasSpeech(text string) bool {
	return strings.TrimSpace(nonSpeechAnnotation.ReplaceAllString(text, "")) != ""
}
