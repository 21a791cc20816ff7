/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: mutators.go
Description: Atomic character-level mutation operators for the polyfuzz engine. Implements
random deletion, insertion and replacement of printable characters. Every operator is total:
degenerate inputs (empty or very short strings) come back unchanged instead of failing.
*/

package strategies

import (
	"math/rand"
)

const (
	// Printable ASCII range used for inserted and replacement characters
	printableLow  = 32
	printableHigh = 126

	// Strings at or below this length are never shortened
	minDeleteLength = 5
)

// DeleteRandomCharacter removes one character at a uniformly random position
// Inputs of length <= 5 are returned unchanged so candidates never degenerate to ""
type DeleteRandomCharacter struct{}

// NewDeleteRandomCharacter creates a new delete operator
func NewDeleteRandomCharacter() *DeleteRandomCharacter {
	return &DeleteRandomCharacter{}
}

// Mutate returns s with a random character deleted
func (m *DeleteRandomCharacter) Mutate(r *rand.Rand, s string) string {
	runes := []rune(s)
	if len(runes) <= minDeleteLength {
		return s
	}
	pos := r.Intn(len(runes))
	return string(runes[:pos]) + string(runes[pos+1:])
}

// Name returns the name of this operator
func (m *DeleteRandomCharacter) Name() string {
	return "delete_random_character"
}

// Description returns a description of this operator
func (m *DeleteRandomCharacter) Description() string {
	return "Deletes one character at a random position (no-op on strings of 5 characters or fewer)"
}

// InsertRandomCharacter inserts one printable ASCII character at a random position,
// including the position after the last character
type InsertRandomCharacter struct{}

// NewInsertRandomCharacter creates a new insert operator
func NewInsertRandomCharacter() *InsertRandomCharacter {
	return &InsertRandomCharacter{}
}

// Mutate returns s with a random character inserted
func (m *InsertRandomCharacter) Mutate(r *rand.Rand, s string) string {
	runes := []rune(s)
	pos := r.Intn(len(runes) + 1)
	return string(runes[:pos]) + string(randomPrintable(r)) + string(runes[pos:])
}

// Name returns the name of this operator
func (m *InsertRandomCharacter) Name() string {
	return "insert_random_character"
}

// Description returns a description of this operator
func (m *InsertRandomCharacter) Description() string {
	return "Inserts one printable ASCII character at a random position"
}

// ReplaceRandomCharacter overwrites one character with a printable ASCII character
type ReplaceRandomCharacter struct{}

// NewReplaceRandomCharacter creates a new replace operator
func NewReplaceRandomCharacter() *ReplaceRandomCharacter {
	return &ReplaceRandomCharacter{}
}

// Mutate returns s with a random character replaced
func (m *ReplaceRandomCharacter) Mutate(r *rand.Rand, s string) string {
	if s == "" {
		return ""
	}
	runes := []rune(s)
	runes[r.Intn(len(runes))] = randomPrintable(r)
	return string(runes)
}

// Name returns the name of this operator
func (m *ReplaceRandomCharacter) Name() string {
	return "replace_random_character"
}

// Description returns a description of this operator
func (m *ReplaceRandomCharacter) Description() string {
	return "Replaces one character at a random position with a printable ASCII character"
}

// randomPrintable draws a character from the printable ASCII range [32, 126]
func randomPrintable(r *rand.Rand) rune {
	return rune(printableLow + r.Intn(printableHigh-printableLow+1))
}

// insertAt inserts text at a random position of s, end included
func insertAt(r *rand.Rand, s, text string) string {
	runes := []rune(s)
	pos := r.Intn(len(runes) + 1)
	return string(runes[:pos]) + text + string(runes[pos:])
}
