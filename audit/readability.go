package audit

import (
	"strings"
	"unicode"
)

// Readability returns the Flesch reading ease of text clamped to 0..100.
// The bool result is false when text contains no words.
func Readability(text string) (float64, bool) {
	ws := words(text)
	if len(ws) == 0 {
		return 0, false
	}

	sentences := strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	})
	nSentences := 0
	for _, s := range sentences {
		if len(words(s)) > 0 {
			nSentences++
		}
	}
	nSentences = max(nSentences, 1)

	var syllables int
	for _, w := range ws {
		syllables += Syllables(w)
	}

	score := 206.835 -
		1.015*(float64(len(ws))/float64(nSentences)) -
		84.6*(float64(syllables)/float64(len(ws)))
	return min(max(score, 0), 100), true
}

// AverageSentenceLength returns the mean number of words per sentence.
func AverageSentenceLength(text string) float64 {
	var nWords, nSentences int
	for _, s := range strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	}) {
		if n := len(words(s)); n > 0 {
			nWords += n
			nSentences++
		}
	}
	if nSentences == 0 {
		return 0
	}
	return float64(nWords) / float64(nSentences)
}

// Syllables estimates the syllable count of an English word by counting
// vowel groups, discounting a silent trailing e.
func Syllables(word string) int {
	word = strings.ToLower(word)
	var n int
	prevVowel := false
	for _, r := range word {
		v := strings.ContainsRune("aeiouy", r)
		if v && !prevVowel {
			n++
		}
		prevVowel = v
	}
	if strings.HasSuffix(word, "e") && !strings.HasSuffix(word, "le") && n > 1 {
		n--
	}
	return max(n, 1)
}

func words(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})
}
