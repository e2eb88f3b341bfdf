package chain

import (
	"errors"
	"fmt"
)

// Rejection reasons. Every one of them is recoverable: the player retries
// and the state is left untouched.
var (
	ErrMissingArtist       = errors.New("Please enter an artist.")
	ErrInvalidTitle        = errors.New("Please enter a song name.")
	ErrWrongStartingLetter = errors.New("song starts with the wrong letter")
	ErrDuplicateSong       = errors.New("This song has already been used. Please choose a different song.")
	ErrUnverifiedSong      = errors.New("The specific song and artist combination could not be verified.")
)

// WrongLetterError carries the letter the rejected song should have started
// with. It matches ErrWrongStartingLetter under errors.Is.
type WrongLetterError struct {
	Expected rune
}

func (e *WrongLetterError) Error() string {
	return fmt.Sprintf("The song must start with the letter '%c'.", e.Expected)
}

func (e *WrongLetterError) Is(target error) bool {
	return target == ErrWrongStartingLetter
}

// IsRejection reports whether err is a rule violation rather than a failure
// of the program itself.
func IsRejection(err error) bool {
	switch {
	case errors.Is(err, ErrMissingArtist),
		errors.Is(err, ErrInvalidTitle),
		errors.Is(err, ErrWrongStartingLetter),
		errors.Is(err, ErrDuplicateSong),
		errors.Is(err, ErrUnverifiedSong):
		return true
	}
	return false
}
