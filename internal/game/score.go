// internal/game/score.go
//
// Letter scoring for a single guess.
//
// For each position of the guess:
//   - Exact match → Correct.
//   - Letter present elsewhere in the target and not yet claimed by an earlier
//     WrongPosition in this call → WrongPosition (the letter is claimed).
//   - Otherwise → Absent.
//
// Correct matches never claim a letter, so "smell" against "slate" scores the
// first l as WrongPosition and the second as Absent.

package game

import "strings"

// Score compares guess against target and returns one verdict per guessed letter.
// Both words are lowercased first. The caller is expected to pass words of equal
// length; positions past the end of target can never be Correct.
func Score(guess, target string) []LetterVerdict {
	guessRunes := []rune(strings.ToLower(guess))
	targetRunes := []rune(strings.ToLower(target))

	present := make(map[rune]struct{}, len(targetRunes))
	for _, r := range targetRunes {
		present[r] = struct{}{}
	}

	claimed := make(map[rune]struct{}, len(guessRunes))
	out := make([]LetterVerdict, len(guessRunes))
	for i, r := range guessRunes {
		v := LetterVerdict{Letter: string(r), Outcome: OutcomeAbsent}
		_, inTarget := present[r]
		_, taken := claimed[r]
		switch {
		case i < len(targetRunes) && targetRunes[i] == r:
			v.Outcome = OutcomeCorrect
		case inTarget && !taken:
			v.Outcome = OutcomeWrongPosition
			claimed[r] = struct{}{}
		}
		out[i] = v
	}
	return out
}

// AllCorrect reports whether every verdict is Correct.
func AllCorrect(vs []LetterVerdict) bool {
	if len(vs) == 0 {
		return false
	}
	for _, v := range vs {
		if v.Outcome != OutcomeCorrect {
			return false
		}
	}
	return true
}
