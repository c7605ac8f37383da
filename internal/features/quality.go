package features

import "math"

// Quality-score weights: skills contribute up to 40 points, experience up
// to 35, document length up to 25.
const (
	qualitySkillsMax     = 40.0
	qualityExperienceMax = 35.0

	skillsSaturation     = 10.0 // skills counted before the skills score saturates
	experienceSaturation = 10.0 // years counted before the experience score saturates
)

// QualityScore rates how complete a CV looks on a 0-100 scale, from the
// number of recognized skills, the years of experience, and the amount of
// text. It is a heuristic signal, not a match score.
func QualityScore(skills map[string][]string, yearsOfExperience int, textLength int) float64 {
	skillCount := 0
	for _, list := range skills {
		skillCount += len(list)
	}

	skillsScore := math.Min(float64(skillCount)/skillsSaturation, 1.0) * qualitySkillsMax
	experienceScore := math.Min(float64(yearsOfExperience)/experienceSaturation, 1.0) * qualityExperienceMax

	var lengthScore float64
	switch {
	case textLength > 500:
		lengthScore = 25
	case textLength > 200:
		lengthScore = 15
	case textLength > 100:
		lengthScore = 10
	}

	total := skillsScore + experienceScore + lengthScore
	if total < 0 {
		total = 0
	}
	if total > 100 {
		total = 100
	}
	return math.Round(total*100) / 100
}
