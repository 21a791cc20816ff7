/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: url_mutators.go
Description: URL-aware mutation operators. Inserts path separators and query/fragment
special characters, splits the input around a slash, and normalizes '+' encoded spaces.
*/

package strategies

import (
	"math/rand"
	"strings"
)

// DefaultSpecialCharacters are the URL delimiters used by InsertSpecialCharacter
var DefaultSpecialCharacters = []string{"&", "=", "?", "#", "%", " "}

// InsertSlash inserts a path separator at a random position
type InsertSlash struct{}

// NewInsertSlash creates a new slash insertion operator
func NewInsertSlash() *InsertSlash {
	return &InsertSlash{}
}

// Mutate returns s with a '/' inserted
func (m *InsertSlash) Mutate(r *rand.Rand, s string) string {
	return insertAt(r, s, "/")
}

// Name returns the name of this operator
func (m *InsertSlash) Name() string {
	return "insert_random_slash"
}

// Description returns a description of this operator
func (m *InsertSlash) Description() string {
	return "Inserts a path separator at a random position"
}

// InsertSpecialCharacter inserts one character from a fixed alphabet
type InsertSpecialCharacter struct {
	alphabet []string
}

// NewInsertSpecialCharacter creates an operator over the given alphabet,
// or DefaultSpecialCharacters when alphabet is empty
func NewInsertSpecialCharacter(alphabet []string) *InsertSpecialCharacter {
	if len(alphabet) == 0 {
		alphabet = DefaultSpecialCharacters
	}
	return &InsertSpecialCharacter{alphabet: alphabet}
}

// Mutate returns s with one special character inserted
func (m *InsertSpecialCharacter) Mutate(r *rand.Rand, s string) string {
	return insertAt(r, s, m.alphabet[r.Intn(len(m.alphabet))])
}

// Name returns the name of this operator
func (m *InsertSpecialCharacter) Name() string {
	return "insert_random_special_character"
}

// Description returns a description of this operator
func (m *InsertSpecialCharacter) Description() string {
	return "Inserts one of " + strings.Join(m.alphabet, "") + " at a random position"
}

// ConcatenateSlash cuts s at a random point and rejoins the halves with '/'
type ConcatenateSlash struct{}

// NewConcatenateSlash creates a new concatenation operator
func NewConcatenateSlash() *ConcatenateSlash {
	return &ConcatenateSlash{}
}

// Mutate returns prefix + "/" + suffix for a random cut of s
func (m *ConcatenateSlash) Mutate(r *rand.Rand, s string) string {
	runes := []rune(s)
	cut := r.Intn(len(runes) + 1)
	prefix := string(runes[:cut])
	return prefix + "/" + string(runes[cut:])
}

// Name returns the name of this operator
func (m *ConcatenateSlash) Name() string {
	return "concatenate_random_slash"
}

// Description returns a description of this operator
func (m *ConcatenateSlash) Description() string {
	return "Splits the input at a random point and joins both parts with a slash"
}

// PlusToSpace rewrites form-encoded spaces
type PlusToSpace struct{}

// NewPlusToSpace creates a new '+' normalization operator
func NewPlusToSpace() *PlusToSpace {
	return &PlusToSpace{}
}

// Mutate replaces every '+' with a space
func (m *PlusToSpace) Mutate(_ *rand.Rand, s string) string {
	return strings.ReplaceAll(s, "+", " ")
}

// Name returns the name of this operator
func (m *PlusToSpace) Name() string {
	return "mutate_plus_to_space"
}

// Description returns a description of this operator
func (m *PlusToSpace) Description() string {
	return "Replaces every '+' with a space"
}
