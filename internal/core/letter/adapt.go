// Copyright (c) 2026 LetterTool. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package letter

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

/*
AdaptLetter readdresses text from one representative to another.

Description: Whole-word occurrences of the full name from become to, and
remaining whole-word occurrences of from's surname (its last word) become
to's surname. Both replacements happen in a single scan, so a new name that
contains the old surname is never rewritten twice. Salutations are left
alone: "Dear Mr Smith" keeps "Mr" whoever the new recipient is.
*/
func AdaptLetter(text, from, to string) string {
	from, to = strings.Join(strings.Fields(from), " "), strings.Join(strings.Fields(to), " ")
	if from == "" || to == "" || from == to {
		return text
	}

	replacements := []replacement{{old: from, new: to}}
	if fromSurname := surname(from); fromSurname != from {
		replacements = append(replacements, replacement{old: fromSurname, new: surname(to)})
	}
	return replaceWords(text, replacements)
}

// replacement is tried in order; earlier entries win at the same position.
type replacement struct {
	old string
	new string
}

func surname(name string) string {
	words := strings.Fields(name)
	return words[len(words)-1]
}

// replaceWords rewrites every match that is not glued to a letter or digit
// on either side.
func replaceWords(text string, replacements []replacement) string {
	var builder strings.Builder
	builder.Grow(len(text))

	for position := 0; position < len(text); {
		matched := false
		for _, candidate := range replacements {
			end := position + len(candidate.old)
			if !strings.HasPrefix(text[position:], candidate.old) ||
				!isBoundary(text[:position], true) || !isBoundary(text[end:], false) {
				continue
			}
			builder.WriteString(candidate.new)
			position = end
			matched = true
			break
		}
		if matched {
			continue
		}

		_, size := utf8.DecodeRuneInString(text[position:])
		builder.WriteString(text[position : position+size])
		position += size
	}
	return builder.String()
}

// isBoundary reports whether the rune next to a match is not part of a word.
// before selects the last rune of side, otherwise its first rune.
func isBoundary(side string, before bool) bool {
	if side == "" {
		return true
	}

	var r rune
	if before {
		r, _ = utf8.DecodeLastRuneInString(side)
	} else {
		r, _ = utf8.DecodeRuneInString(side)
	}
	return !unicode.IsLetter(r) && !unicode.IsDigit(r) && !unicode.Is(unicode.Mn, r)
}
