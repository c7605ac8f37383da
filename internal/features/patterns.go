package features

import (
	"fmt"
	"regexp"
	"strings"
)

// experiencePatterns is the ordered priority table for years-of-experience
// extraction. The first pattern that yields at least one numeric capture
// wins and later patterns are not consulted, even if they would capture a
// larger value. That first-match-wins policy is deliberate: pattern order is
// the contract, with the most explicit phrasings listed first.
var experiencePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(\d+)\s*years?\s*of\s*experience`),
	regexp.MustCompile(`(?i)(\d+)\s*ans?\s*d['e]\s*expérience`),
	regexp.MustCompile(`(?i)experience:\s*(\d+)\s*years?`),
	regexp.MustCompile(`(?i)expérience:\s*(\d+)\s*ans?`),
	regexp.MustCompile(`(?i)(\d+)\+\s*years?`),
	regexp.MustCompile(`(?i)over\s*(\d+)\s*years?`),
	regexp.MustCompile(`(?i)more\s*than\s*(\d+)\s*years?`),
}

// educationPatterns is the ordered credential vocabulary, English and French.
// Every match of every pattern is recorded, in pattern order then document
// order.
var educationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)bachelor['s]?\s*(?:degree)?`),
	regexp.MustCompile(`(?i)master['s]?\s*(?:degree)?`),
	regexp.MustCompile(`(?i)phd|ph\.d|doctorate`),
	regexp.MustCompile(`(?i)mba`),
	regexp.MustCompile(`(?i)license|licence`),
	regexp.MustCompile(`(?i)ingénieur`),
	regexp.MustCompile(`(?i)university|université`),
	regexp.MustCompile(`(?i)college|école`),
	regexp.MustCompile(`(?i)certification|certificat`),
}

// skillPatterns holds one whole-word matcher per taxonomy skill, compiled
// once at package load. Word-boundary anchoring keeps a skill from matching
// as a substring of a larger token ("go" must not match "mongodb").
var skillPatterns = compileSkillPatterns()

func compileSkillPatterns() map[string]*regexp.Regexp {
	patterns := make(map[string]*regexp.Regexp)
	for _, skills := range skillTaxonomy {
		for _, skill := range skills {
			if _, ok := patterns[skill]; ok {
				continue
			}
			expr := fmt.Sprintf(`\b%s\b`, regexp.QuoteMeta(strings.ToLower(skill)))
			patterns[skill] = regexp.MustCompile(expr)
		}
	}
	return patterns
}
