/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: catalog.go
Description: Operator catalogs for each input domain. A catalog is only a named list of
operators; the stacking algorithm that consumes it is shared by every fuzzer variant.
*/

package strategies

import (
	"errors"
	"fmt"
	"sort"

	"github.com/kleascm/polyfuzz/pkg/interfaces"
)

// ErrUnknownCatalog is returned when a variant has no operator catalog
var ErrUnknownCatalog = errors.New("unknown operator catalog")

// Catalog is a named set of operators for one input domain
type Catalog struct {
	Name      string
	Operators []interfaces.Operator
}

// GenericCatalog returns the character-level operators
func GenericCatalog() *Catalog {
	return &Catalog{
		Name: interfaces.VariantGeneric,
		Operators: []interfaces.Operator{
			NewDeleteRandomCharacter(),
			NewInsertRandomCharacter(),
			NewReplaceRandomCharacter(),
		},
	}
}

// HTMLCatalog returns operators for markup inputs
func HTMLCatalog() *Catalog {
	return &Catalog{
		Name: interfaces.VariantHTML,
		Operators: []interfaces.Operator{
			NewDeleteRandomCharacter(),
			NewReplaceRandomCharacter(),
			NewReplaceBodyContent(),
			NewInsertRandomHTML(),
			NewRewriteElementText(),
			NewDuplicateElement(),
		},
	}
}

// URLCatalog returns operators for URL inputs
func URLCatalog() *Catalog {
	return &Catalog{
		Name: interfaces.VariantURL,
		Operators: []interfaces.Operator{
			NewDeleteRandomCharacter(),
			NewReplaceRandomCharacter(),
			NewInsertRandomCharacter(),
			NewInsertSlash(),
			NewInsertSpecialCharacter(nil),
			NewConcatenateSlash(),
			NewPlusToSpace(),
		},
	}
}

var catalogs = map[string]func() *Catalog{
	interfaces.VariantGeneric: GenericCatalog,
	interfaces.VariantHTML:    HTMLCatalog,
	interfaces.VariantURL:     URLCatalog,
}

// CatalogByName resolves a variant name to a fresh catalog
func CatalogByName(name string) (*Catalog, error) {
	build, ok := catalogs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCatalog, name)
	}
	return build(), nil
}

// CatalogNames lists the registered catalogs in sorted order
func CatalogNames() []string {
	names := make([]string, 0, len(catalogs))
	for name := range catalogs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
