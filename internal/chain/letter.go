package chain

import (
	"strings"
	"unicode/utf8"
)

// LastSoundLetter returns the letter the next song has to start with. A
// trailing digit counts as its spelled-out word, so "Blink 182" ends in 'o'.
// An all-digit title always ends in a digit, so it needs no separate case.
func LastSoundLetter(title string) (rune, error) {
	title = strings.ToLower(strings.TrimSpace(title))
	if title == "" {
		return 0, ErrInvalidTitle
	}

	last, _ := utf8.DecodeLastRuneInString(title)
	if last >= '0' && last <= '9' {
		word, _ := NumberToWords(int(last - '0'))
		r, _ := utf8.DecodeLastRuneInString(word)
		return r, nil
	}
	return last, nil
}
