/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: random.go
Description: Random input generation helpers. Builds seeded random sources and
unstructured strings over letters, digits and punctuation for the random variant.
*/

package strategies

import (
	"math/rand"
	"strings"
	"time"
)

// RandomAlphabet is the character set of RandomString
const RandomAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ" +
	"0123456789" +
	"!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

// NewRand returns a source seeded with seed, or with the clock when seed is 0
func NewRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// RandomString returns n characters drawn uniformly from RandomAlphabet
func RandomString(r *rand.Rand, n int) string {
	if n <= 0 {
		return ""
	}
	var b strings.Builder
	b.Grow(n)
	for i := 0; i < n; i++ {
		b.WriteByte(RandomAlphabet[r.Intn(len(RandomAlphabet))])
	}
	return b.String()
}
