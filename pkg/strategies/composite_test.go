/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: composite_test.go
Description: Tests for the stacking mutator, catalogs and random helpers.
*/

package strategies

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/kleascm/polyfuzz/pkg/interfaces"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStackerAppliesExactCount(t *testing.T) {
	catalog := &Catalog{Name: "insert", Operators: []interfaces.Operator{NewInsertRandomCharacter()}}
	for _, n := range []int{0, 1, 4} {
		stacker, err := NewStacker(catalog, n, n, rand.New(rand.NewSource(int64(n)+1)))
		require.NoError(t, err)

		candidate, applied := stacker.Stack("seed")
		assert.Len(t, candidate, len("seed")+n)
		assert.Len(t, applied, n)
	}
}

func TestStackerCountWithinRange(t *testing.T) {
	catalog := &Catalog{Name: "insert", Operators: []interfaces.Operator{NewInsertRandomCharacter()}}
	stacker, err := NewStacker(catalog, 2, 5, rand.New(rand.NewSource(7)))
	require.NoError(t, err)

	seen := make(map[int]bool)
	for i := 0; i < 500; i++ {
		candidate, applied := stacker.Stack("")
		require.Len(t, candidate, len(applied))
		require.GreaterOrEqual(t, len(applied), 2)
		require.LessOrEqual(t, len(applied), 5)
		seen[len(applied)] = true
	}
	assert.Len(t, seen, 4)
}

func TestStackerIsDeterministic(t *testing.T) {
	build := func() *Stacker {
		s, err := NewStacker(URLCatalog(), 1, 10, rand.New(rand.NewSource(99)))
		require.NoError(t, err)
		return s
	}
	a, b := build(), build()
	for i := 0; i < 20; i++ {
		ca, oa := a.Stack("http://example.com/?q=a+b")
		cb, ob := b.Stack("http://example.com/?q=a+b")
		assert.Equal(t, ca, cb)
		if diff := cmp.Diff(oa, ob); diff != "" {
			t.Fatalf("operator sequence mismatch (-a +b):\n%s", diff)
		}
	}
}

func TestNewStackerValidation(t *testing.T) {
	_, err := NewStacker(GenericCatalog(), 3, 1, nil)
	assert.ErrorIs(t, err, ErrInvalidMutationRange)

	_, err = NewStacker(GenericCatalog(), -1, 1, nil)
	assert.ErrorIs(t, err, ErrInvalidMutationRange)

	_, err = NewStacker(&Catalog{Name: "empty"}, 1, 1, nil)
	assert.ErrorIs(t, err, ErrNoOperators)

	_, err = NewStacker(nil, 1, 1, nil)
	assert.ErrorIs(t, err, ErrNoOperators)

	s, err := NewStacker(HTMLCatalog(), 1, 3, nil)
	require.NoError(t, err)
	assert.Len(t, s.Operators(), len(HTMLCatalog().Operators))
	assert.Contains(t, s.Description(), "1 to 3")
}

func TestCatalogByName(t *testing.T) {
	for _, name := range []string{interfaces.VariantGeneric, interfaces.VariantHTML, interfaces.VariantURL} {
		catalog, err := CatalogByName(name)
		require.NoError(t, err)
		assert.Equal(t, name, catalog.Name)
		assert.NotEmpty(t, catalog.Operators)
	}

	_, err := CatalogByName("grammar")
	assert.ErrorIs(t, err, ErrUnknownCatalog)
}

func TestCatalogNames(t *testing.T) {
	want := []string{interfaces.VariantGeneric, interfaces.VariantHTML, interfaces.VariantURL}
	if diff := cmp.Diff(want, CatalogNames()); diff != "" {
		t.Errorf("CatalogNames mismatch (-want +got):\n%s", diff)
	}
}

func TestGenericCatalogOperators(t *testing.T) {
	var names []string
	for _, op := range GenericCatalog().Operators {
		names = append(names, op.Name())
	}
	assert.ElementsMatch(t, []string{
		"delete_random_character",
		"insert_random_character",
		"replace_random_character",
	}, names)
}

func TestRandomString(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	assert.Equal(t, "", RandomString(r, 0))
	assert.Equal(t, "", RandomString(r, -4))

	s := RandomString(r, 500)
	require.Len(t, s, 500)
	for _, c := range s {
		require.True(t, strings.ContainsRune(RandomAlphabet, c), "unexpected character %q", c)
	}
}

func TestNewRandSeeded(t *testing.T) {
	assert.Equal(t, NewRand(5).Int63(), NewRand(5).Int63())
	assert.NotNil(t, NewRand(0))
}
