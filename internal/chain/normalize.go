package chain

import (
	"regexp"
	"strconv"
	"strings"
)

// MaxSpelledNumber is the largest number NumberToWords can spell out.
const MaxSpelledNumber = 9999

var (
	ones  = []string{"", "one", "two", "three", "four", "five", "six", "seven", "eight", "nine"}
	tens  = []string{"", "", "twenty", "thirty", "forty", "fifty", "sixty", "seventy", "eighty", "ninety"}
	teens = []string{"ten", "eleven", "twelve", "thirteen", "fourteen", "fifteen", "sixteen", "seventeen", "eighteen", "nineteen"}

	punctuationRe = regexp.MustCompile(`[^\p{L}\p{N}_\s]`)
)

// NumberToWords spells out n in English. It returns false when n is outside
// 0..MaxSpelledNumber.
func NumberToWords(n int) (string, bool) {
	if n < 0 || n > MaxSpelledNumber {
		return "", false
	}
	if n == 0 {
		return "zero", true
	}

	var parts []string
	if n >= 1000 {
		parts = append(parts, ones[n/1000]+" thousand")
		n %= 1000
	}
	if n >= 100 {
		parts = append(parts, ones[n/100]+" hundred")
		n %= 100
	}
	if n >= 10 && n <= 19 {
		parts = append(parts, teens[n-10])
		n = 0
	} else if n >= 20 {
		parts = append(parts, tens[n/10])
		n %= 10
	}
	if n >= 1 && n <= 9 {
		parts = append(parts, ones[n])
	}
	return strings.Join(parts, " "), true
}

// Normalize spells out numeric tokens, drops punctuation and collapses
// whitespace. Case is preserved. Numbers above MaxSpelledNumber are kept as
// digits.
func Normalize(raw string) string {
	words := strings.Fields(raw)
	for i, word := range words {
		if !isDigits(word) {
			continue
		}
		n, err := strconv.Atoi(word)
		if err != nil {
			continue
		}
		if spelled, ok := NumberToWords(n); ok {
			words[i] = spelled
		}
	}
	return StripPunctuation(strings.Join(words, " "))
}

// StripPunctuation removes every rune that is not a letter, digit,
// underscore or whitespace, then collapses whitespace.
func StripPunctuation(s string) string {
	return strings.Join(strings.Fields(punctuationRe.ReplaceAllString(s, "")), " ")
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
