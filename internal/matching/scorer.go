// Package matching fuses semantic similarity and categorical skill overlap
// into a composite CV-to-job match score.
package matching

import (
	"context"
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/jonathan/cv-analyzer/internal/embedding"
	"github.com/jonathan/cv-analyzer/internal/logger"
	"github.com/jonathan/cv-analyzer/internal/types"
)

// ErrModelNotInitialized is returned when scoring is requested before the
// embedding engine has been initialized.
var ErrModelNotInitialized = errors.New("similarity model not initialized")

// Weights of the two score components.
const (
	semanticWeight = 0.6
	skillsWeight   = 0.4
)

// Encoder is the part of the embedding engine the scorer depends on.
type Encoder interface {
	Available() bool
	Encode(ctx context.Context, text string) ([]float32, error)
}

// SkillExtractor extracts categorized skills from plain text.
type SkillExtractor interface {
	Skills(text string) types.SkillSet
}

// Scorer computes composite match scores.
type Scorer struct {
	encoder Encoder
	skills  SkillExtractor
	logger  *zap.Logger
}

// NewScorer creates a Scorer.
func NewScorer(encoder Encoder, skills SkillExtractor, log *zap.Logger) *Scorer {
	return &Scorer{
		encoder: encoder,
		skills:  skills,
		logger:  logger.OrNop(log),
	}
}

// Score computes the composite match between a CV and a job description:
// cosine similarity of the two embeddings weighted 0.6, same-category skill
// overlap weighted 0.4, scaled to a percentage.
//
// The overall score is not clamped at zero; a negative semantic similarity
// yields a negative composite.
func (s *Scorer) Score(ctx context.Context, cvText, jobText string) (*types.MatchResult, error) {
	if !s.encoder.Available() {
		return nil, ErrModelNotInitialized
	}

	cvVec, err := s.encoder.Encode(ctx, cvText)
	if err != nil {
		return nil, fmt.Errorf("failed to encode CV text: %w", err)
	}
	jobVec, err := s.encoder.Encode(ctx, jobText)
	if err != nil {
		return nil, fmt.Errorf("failed to encode job text: %w", err)
	}

	similarity := embedding.CosineSimilarity(cvVec, jobVec)

	cvSkills := s.skills.Skills(cvText)
	jobSkills := s.skills.Skills(jobText)
	skillsScore := skillsMatch(cvSkills, jobSkills)

	overall := (similarity*semanticWeight + skillsScore*skillsWeight) * 100

	s.logger.Debug("computed match score",
		zap.Float64("similarity", similarity),
		zap.Float64("skills_score", skillsScore))

	return &types.MatchResult{
		OverallScore:       round2(overall),
		SemanticSimilarity: round2(similarity * 100),
		SkillsMatchScore:   round2(skillsScore * 100),
		CVSkills:           cvSkills,
		JobSkills:          jobSkills,
	}, nil
}

// skillsMatch returns the fraction of the job's required skills present in
// the CV, in [0,1]. A skill only counts when it appears under the same
// category on both sides. An empty requirement set scores 0.
func skillsMatch(cvSkills, jobSkills types.SkillSet) float64 {
	if len(cvSkills) == 0 || len(jobSkills) == 0 {
		return 0
	}

	total := jobSkills.Total()
	if total == 0 {
		return 0
	}

	matched := 0
	for category, required := range jobSkills {
		have := cvSkills[category]
		for _, skill := range required {
			for _, cvSkill := range have {
				if skill == cvSkill {
					matched++
					break
				}
			}
		}
	}

	return float64(matched) / float64(total)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
