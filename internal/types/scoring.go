package types

// MatchResult is the composite CV-to-job match score. Score fields are
// percentages; OverallScore can be negative when the semantic similarity
// between the two texts is negative.
type MatchResult struct {
	OverallScore       float64  `json:"overall_score"`
	SemanticSimilarity float64  `json:"semantic_similarity"`
	SkillsMatchScore   float64  `json:"skills_match_score"`
	CVSkills           SkillSet `json:"cv_skills"`
	JobSkills          SkillSet `json:"job_skills"`
}

// PredictionResult is the output of the job-family classifier for one text.
type PredictionResult struct {
	PredictedCategory string `json:"predicted_category"`
	// Confidence is the softmax probability of the predicted category, in [0,1].
	Confidence float64 `json:"confidence"`
	// AllProbabilities holds one probability per known category, in label-id
	// order, summing to 1.
	AllProbabilities []float64 `json:"all_probabilities"`
}

// JobFitResult combines the classifier prediction with semantic similarity
// into a single job-fit score and a categorical recommendation.
type JobFitResult struct {
	OverallScore      float64 `json:"overall_score"`
	PredictedCategory string  `json:"predicted_category"`
	Confidence        float64 `json:"confidence"`
	Recommendation    string  `json:"recommendation"`
}
