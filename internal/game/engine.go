// internal/game/engine.go
//
// Guess evaluation.
// Responsibilities:
//   - Validate the secret and the guess (4 positions, one character each).
//   - Normalize guess characters: trim, fold ASCII a-z to upper case. Any other
//     rune is kept as is and can only score absent.
//   - Score a guess under one of two rules:
//       RuleMembership  literal rule: a non-exact character is misplaced whenever it
//                       occurs anywhere in the secret, however often it is guessed.
//       RuleClassic     two-pass Mastermind/Wordle rule: each secret occurrence is
//                       consumed by at most one guess position.
//
// RuleMembership is the default. With secret ABCD the guess BBBB scores
// misplaced/exact/misplaced/misplaced, where classic scoring yields
// absent/exact/absent/absent.

package game

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Rule selects how non-exact positions are scored.
type Rule string

const (
	RuleMembership Rule = "membership"
	RuleClassic    Rule = "classic"
)

// ParseRule maps a configuration string to a Rule. Empty means RuleMembership.
func ParseRule(s string) (Rule, error) {
	switch r := Rule(strings.ToLower(strings.TrimSpace(s))); r {
	case "":
		return RuleMembership, nil
	case RuleMembership, RuleClassic:
		return r, nil
	default:
		return "", fmt.Errorf("%w: unknown rule %q", ErrInvalidInput, s)
	}
}

// Evaluate scores guess against secret with RuleMembership.
func Evaluate(secret Secret, guess Guess) (Feedback, error) {
	return EvaluateRule(RuleMembership, secret, guess)
}

// EvaluateRule scores guess against secret under rule.
// It is pure and safe for concurrent use.
func EvaluateRule(rule Rule, secret Secret, guess Guess) (Feedback, error) {
	_, marks, err := evaluate(rule, secret, guess)
	return marks, err
}

// evaluate also returns the normalized guess so callers record exactly what
// was scored.
func evaluate(rule Rule, secret Secret, guess Guess) ([Size]rune, Feedback, error) {
	if err := secret.Validate(); err != nil {
		return [Size]rune{}, nil, err
	}
	g, err := normalizeGuess(guess)
	if err != nil {
		return g, nil, err
	}
	switch rule {
	case RuleMembership:
		return g, scoreMembership(string(secret), g), nil
	case RuleClassic:
		return g, scoreClassic(string(secret), g), nil
	default:
		return g, nil, fmt.Errorf("%w: unknown rule %q", ErrInvalidInput, rule)
	}
}

// scoreMembership marks each position independently: exact on a positional match,
// misplaced if the character is a key of the secret's last-index lookup, absent
// otherwise. Secret letters are not consumed.
func scoreMembership(secret string, guess [Size]rune) Feedback {
	lastIndex := make(map[rune]int, Size)
	for i := 0; i < Size; i++ {
		lastIndex[rune(secret[i])] = i
	}

	res := make(Feedback, Size)
	for i, c := range guess {
		if c == rune(secret[i]) {
			res[i] = MarkExact
		} else if _, ok := lastIndex[c]; ok {
			res[i] = MarkMisplaced
		} else {
			res[i] = MarkAbsent
		}
	}
	return res
}

// scoreClassic is the two-pass algorithm.
//
// Pass 1: mark exact matches and count the remaining secret letters.
// Pass 2: a non-exact guess letter is misplaced while unmatched copies remain.
func scoreClassic(secret string, guess [Size]rune) Feedback {
	res := make(Feedback, Size)
	var counts [26]int

	for i := 0; i < Size; i++ {
		if guess[i] == rune(secret[i]) {
			res[i] = MarkExact
		} else {
			counts[secret[i]-'A']++
		}
	}

	for i := 0; i < Size; i++ {
		if res[i] == MarkExact {
			continue
		}
		c := guess[i]
		if c >= 'A' && c <= 'Z' && counts[c-'A'] > 0 {
			res[i] = MarkMisplaced
			counts[c-'A']--
		} else {
			res[i] = MarkAbsent
		}
	}
	return res
}

// Validate checks the secret is exactly Size letters A–Z.
func (s Secret) Validate() error {
	if len(s) != Size {
		return fmt.Errorf("%w: secret has %d positions, want %d", ErrInvalidInput, len(s), Size)
	}
	for i := 0; i < Size; i++ {
		if !isUpper(s[i]) {
			return fmt.Errorf("%w: secret position %d is not A-Z", ErrInvalidInput, i)
		}
	}
	return nil
}

// normalizeGuess trims each position and requires exactly one rune in it.
// Only ASCII a-z is folded to upper case; full Unicode case mapping would turn
// runes such as 'ı' or 'ſ' into secret letters. Nothing is skipped, so the
// feedback stays aligned with the guess.
func normalizeGuess(guess Guess) ([Size]rune, error) {
	var out [Size]rune
	if len(guess) != Size {
		return out, fmt.Errorf("%w: guess has %d positions, want %d", ErrInvalidInput, len(guess), Size)
	}
	for i, p := range guess {
		p = strings.TrimSpace(p)
		if p == "" {
			return out, fmt.Errorf("%w: guess position %d is empty", ErrInvalidInput, i)
		}
		if utf8.RuneCountInString(p) != 1 {
			return out, fmt.Errorf("%w: guess position %d must be one character", ErrInvalidInput, i)
		}
		c, _ := utf8.DecodeRuneInString(p)
		if c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		out[i] = c
	}
	return out, nil
}

// isUpper reports whether c is an ASCII A–Z.
func isUpper(c byte) bool { return c >= 'A' && c <= 'Z' }
