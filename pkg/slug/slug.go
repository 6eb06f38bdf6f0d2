// Copyright (c) 2026 LetterTool. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package slug folds arbitrary Unicode labels into comparable ASCII keys.
//
// Spreadsheet headers arrive as "Code postal", "E-Mail-Adresse" or
// "Région"; the importer compares them after folding.
package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Key converts s into a lowercase alphanumeric key with every separator
// removed ("E-Mail Adresse" → "emailadresse").
func Key(s string) string {
	return strings.Map(func(r rune) rune {
		if isASCIIAlnum(r) {
			return r
		}
		return -1
	}, fold(s))
}

// fold decomposes to NFD, drops combining marks and lowercases.
func fold(s string) string {
	chain := transform.Chain(norm.NFD, transform.RemoveFunc(isMn), norm.NFC)
	result, _, err := transform.String(chain, s)
	if err != nil {
		result = s
	}
	return strings.ToLower(strings.ReplaceAll(result, "ß", "ss"))
}

func isMn(r rune) bool {
	return unicode.Is(unicode.Mn, r)
}

func isASCIIAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
}
