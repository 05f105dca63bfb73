package services

import (
	"strings"
	"unicode/utf8"
)

// CaptionWidthRatio is the share of the frame width a caption may span.
const CaptionWidthRatio = 0.8

// averageGlyphWidth approximates a glyph's advance relative to the font size
// for common sans-serif faces.
const averageGlyphWidth = 0.6

func CaptionLineLength(frameWidth int, fontSize int) int {
	if fontSize <= 0 {
		return 1
	}
	n := int(float64(frameWidth) * CaptionWidthRatio / (float64(fontSize) * averageGlyphWidth))
	if n < 1 {
		return 1
	}
	return n
}

// WrapCaption breaks text into lines of at most maxChars runes on word
// boundaries. Words longer than a line are hard-split.
func WrapCaption(text string, maxChars int) []string {
	if maxChars < 1 {
		maxChars = 1
	}

	var lines []string
	var current strings.Builder
	currentLen := 0

	flush := func() {
		if currentLen > 0 {
			lines = append(lines, current.String())
			current.Reset()
			currentLen = 0
		}
	}

	for _, word := range strings.Fields(text) {
		for utf8.RuneCountInString(word) > maxChars {
			flush()
			runes := []rune(word)
			lines = append(lines, string(runes[:maxChars]))
			word = string(runes[maxChars:])
		}

		wordLen := utf8.RuneCountInString(word)
		if currentLen > 0 && currentLen+1+wordLen > maxChars {
			flush()
		}
		if currentLen > 0 {
			current.WriteByte(' ')
			currentLen++
		}
		current.WriteString(word)
		currentLen += wordLen
	}
	flush()

	return lines
}
