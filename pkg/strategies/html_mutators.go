/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: html_mutators.go
Description: Markup-aware mutation operators. Replaces body content, injects generated
filler, and uses goquery to rewrite or duplicate elements of a parsed document. None of
them fail on malformed markup: without a usable document the input is returned as-is.
*/

package strategies

import (
	"math/rand"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	bodyOpen  = "<body>"
	bodyClose = "</body>"

	fillerLength  = 10
	fillerLetters = "abcdefghijklmnopqrstuvwxyz"

	// Elements eligible for goquery-based operators
	bodyElements = "body *"
)

// RandomHTMLContent generates a paragraph of random lowercase letters
func RandomHTMLContent(r *rand.Rand) string {
	return "<p>" + randomLetters(r, fillerLength) + "</p>"
}

// ReplaceBodyContent swaps what sits between <body> and </body> for generated filler
type ReplaceBodyContent struct{}

// NewReplaceBodyContent creates a new body replacement operator
func NewReplaceBodyContent() *ReplaceBodyContent {
	return &ReplaceBodyContent{}
}

// Mutate replaces the content of the first body region, keeping the tags
func (m *ReplaceBodyContent) Mutate(r *rand.Rand, s string) string {
	start := strings.Index(s, bodyOpen)
	if start == -1 {
		return s
	}
	contentStart := start + len(bodyOpen)
	end := strings.Index(s[contentStart:], bodyClose)
	if end == -1 {
		return s
	}
	return s[:contentStart] + RandomHTMLContent(r) + s[contentStart+end:]
}

// Name returns the name of this operator
func (m *ReplaceBodyContent) Name() string {
	return "replace_body_content"
}

// Description returns a description of this operator
func (m *ReplaceBodyContent) Description() string {
	return "Replaces the content of the <body> element with generated filler"
}

// InsertRandomHTML drops a generated paragraph at a random position
type InsertRandomHTML struct{}

// NewInsertRandomHTML creates a new filler insertion operator
func NewInsertRandomHTML() *InsertRandomHTML {
	return &InsertRandomHTML{}
}

// Mutate returns s with a random paragraph inserted
func (m *InsertRandomHTML) Mutate(r *rand.Rand, s string) string {
	return insertAt(r, s, RandomHTMLContent(r))
}

// Name returns the name of this operator
func (m *InsertRandomHTML) Name() string {
	return "insert_random_html"
}

// Description returns a description of this operator
func (m *InsertRandomHTML) Description() string {
	return "Inserts a generated <p> element at a random position"
}

// RewriteElementText replaces the text of one random element under <body>
type RewriteElementText struct{}

// NewRewriteElementText creates a new element text operator
func NewRewriteElementText() *RewriteElementText {
	return &RewriteElementText{}
}

// Mutate parses s, rewrites one element's text and renders the document back
func (m *RewriteElementText) Mutate(r *rand.Rand, s string) string {
	doc, elements := parseElements(s)
	if doc == nil {
		return s
	}
	elements.Eq(r.Intn(elements.Length())).SetText(randomLetters(r, fillerLength))
	return render(doc, s)
}

// Name returns the name of this operator
func (m *RewriteElementText) Name() string {
	return "rewrite_element_text"
}

// Description returns a description of this operator
func (m *RewriteElementText) Description() string {
	return "Parses the document and replaces the text of a random element"
}

// DuplicateElement clones one random element under <body> next to itself
type DuplicateElement struct{}

// NewDuplicateElement creates a new element duplication operator
func NewDuplicateElement() *DuplicateElement {
	return &DuplicateElement{}
}

// Mutate parses s, duplicates one element and renders the document back
func (m *DuplicateElement) Mutate(r *rand.Rand, s string) string {
	doc, elements := parseElements(s)
	if doc == nil {
		return s
	}
	el := elements.Eq(r.Intn(elements.Length()))
	el.AfterSelection(el.Clone())
	return render(doc, s)
}

// Name returns the name of this operator
func (m *DuplicateElement) Name() string {
	return "duplicate_element"
}

// Description returns a description of this operator
func (m *DuplicateElement) Description() string {
	return "Parses the document and duplicates a random element"
}

// parseElements returns the document and its body elements, or nil when s has none
func parseElements(s string) (*goquery.Document, *goquery.Selection) {
	if !strings.Contains(s, "<") {
		return nil, nil
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return nil, nil
	}
	elements := doc.Find(bodyElements)
	if elements.Length() == 0 {
		return nil, nil
	}
	return doc, elements
}

// render serializes doc, falling back to the original input on failure
func render(doc *goquery.Document, original string) string {
	out, err := doc.Html()
	if err != nil {
		return original
	}
	return out
}

// randomLetters returns n random lowercase letters
func randomLetters(r *rand.Rand, n int) string {
	var b strings.Builder
	b.Grow(n)
	for i := 0; i < n; i++ {
		b.WriteByte(fillerLetters[r.Intn(len(fillerLetters))])
	}
	return b.String()
}
