// Package classifier trains a lightweight classification head on top of a
// frozen text encoder to predict a job-family category, and folds the
// prediction into a job-fit score.
package classifier

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sync"

	"go.uber.org/zap"

	"github.com/jonathan/cv-analyzer/internal/corpus"
	"github.com/jonathan/cv-analyzer/internal/embedding"
	"github.com/jonathan/cv-analyzer/internal/logger"
	"github.com/jonathan/cv-analyzer/internal/types"
)

// ErrModelNotTrained is returned when prediction or scoring is attempted
// before Train has completed.
var ErrModelNotTrained = errors.New("classifier model not trained")

// Job-fit recommendation labels, derived by thresholding the final score.
const (
	RecommendExcellent   = "excellent"
	RecommendPotential   = "potential"
	RecommendNeedsReview = "needs review"
)

// Encoder is the frozen backbone the classification head sits on.
type Encoder interface {
	Available() bool
	Encode(ctx context.Context, text string) ([]float32, error)
	EncodeBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// Config holds training hyperparameters. Zero values fall back to defaults.
type Config struct {
	Epochs        int     // default 3
	BatchSize     int     // default 16
	LearningRate  float64 // default 2e-5
	Dropout       float64 // default 0.3, negative disables dropout
	TestFraction  float64 // default 0.2
	Seed          int64   // default 42
	MaxInputChars int     // default 2048, inputs are truncated before encoding
}

func (c Config) withDefaults() Config {
	if c.Epochs <= 0 {
		c.Epochs = 3
	}
	if c.BatchSize <= 0 {
		c.BatchSize = 16
	}
	if c.LearningRate <= 0 {
		c.LearningRate = 2e-5
	}
	if c.Dropout == 0 {
		c.Dropout = 0.3
	} else if c.Dropout < 0 {
		c.Dropout = 0
	}
	if c.TestFraction <= 0 || c.TestFraction >= 1 {
		c.TestFraction = 0.2
	}
	if c.Seed == 0 {
		c.Seed = 42
	}
	if c.MaxInputChars <= 0 {
		c.MaxInputChars = 2048
	}
	return c
}

// EpochMetrics reports one training epoch: average batch loss plus the
// held-out evaluation run after the epoch.
type EpochMetrics struct {
	Epoch   int        `json:"epoch"`
	AvgLoss float64    `json:"avg_loss"`
	Eval    Evaluation `json:"eval"`
}

// TrainReport summarizes a completed training run.
type TrainReport struct {
	Classes   []string       `json:"classes"`
	TrainSize int            `json:"train_size"`
	TestSize  int            `json:"test_size"`
	Epochs    []EpochMetrics `json:"epochs"`
	Final     Evaluation     `json:"final"`
}

// Classifier owns the trainable head and the fitted label encoder. It is
// constructed untrained; Predict and ScoreForJob fail with
// ErrModelNotTrained until Train succeeds. The model lives only in memory,
// training is not checkpointed.
type Classifier struct {
	encoder Encoder
	cfg     Config
	logger  *zap.Logger

	mu    sync.RWMutex
	model *headModel
}

// NewClassifier creates an untrained classifier over the given encoder.
func NewClassifier(encoder Encoder, cfg Config, log *zap.Logger) *Classifier {
	return &Classifier{
		encoder: encoder,
		cfg:     cfg.withDefaults(),
		logger:  logger.OrNop(log),
	}
}

// Trained reports whether a model is available for prediction.
func (c *Classifier) Trained() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.model != nil
}

// Classes returns the fitted labels in id order, or nil before training.
func (c *Classifier) Classes() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.model == nil {
		return nil
	}
	return c.model.labels.Classes()
}

// Train fits the classification head on the labeled corpus. The label
// encoder is fitted on the full corpus, then an 80/20 stratified split
// separates held-out evaluation data. Each epoch iterates shuffled
// mini-batches, minimizing cross-entropy with AdamW, and evaluates on the
// held-out split. Training is synchronous and long-running; cancellation is
// checked cooperatively between batches.
func (c *Classifier) Train(ctx context.Context, examples []corpus.TrainingExample) (*TrainReport, error) {
	if err := corpus.Validate(examples); err != nil {
		return nil, err
	}
	if !c.encoder.Available() {
		return nil, fmt.Errorf("cannot train: %w", embedding.ErrUnavailable)
	}

	labels := FitLabelEncoder(corpus.Labels(examples))
	if labels.NumClasses() < 2 {
		return nil, &corpus.ValidationError{Message: "corpus must contain at least two distinct labels"}
	}

	labelIDs := make([]int, len(examples))
	texts := make([]string, len(examples))
	for i, ex := range examples {
		id, err := labels.Transform(ex.Label)
		if err != nil {
			return nil, err
		}
		labelIDs[i] = id
		texts[i] = truncate(ex.Text, c.cfg.MaxInputChars)
	}

	c.logger.Info("encoding training corpus",
		zap.Int("examples", len(texts)),
		zap.Int("classes", labels.NumClasses()))

	vectors, err := c.encodeAll(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("failed to encode corpus: %w", err)
	}
	dim := len(vectors[0])

	trainIdx, testIdx := stratifiedSplit(labelIDs, labels.NumClasses(), c.cfg.TestFraction, c.cfg.Seed)

	model := newHeadModel(labels, dim, c.cfg.Dropout)
	optimizer := newAdamW(c.cfg.LearningRate, labels.NumClasses(), dim)
	rng := rand.New(rand.NewSource(c.cfg.Seed))

	report := &TrainReport{
		Classes:   labels.Classes(),
		TrainSize: len(trainIdx),
		TestSize:  len(testIdx),
	}

	for epoch := 1; epoch <= c.cfg.Epochs; epoch++ {
		rng.Shuffle(len(trainIdx), func(i, j int) {
			trainIdx[i], trainIdx[j] = trainIdx[j], trainIdx[i]
		})

		var totalLoss float64
		batches := 0
		for start := 0; start < len(trainIdx); start += c.cfg.BatchSize {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("training cancelled: %w", err)
			}
			end := start + c.cfg.BatchSize
			if end > len(trainIdx) {
				end = len(trainIdx)
			}
			totalLoss += trainBatch(model, optimizer, vectors, labelIDs, trainIdx[start:end], rng)
			batches++
		}

		avgLoss := totalLoss / float64(batches)
		eval := c.evaluateSplit(model, vectors, labelIDs, testIdx)
		report.Epochs = append(report.Epochs, EpochMetrics{Epoch: epoch, AvgLoss: avgLoss, Eval: eval})
		report.Final = eval

		c.logger.Info("epoch complete",
			zap.Int("epoch", epoch),
			zap.Float64("avg_loss", avgLoss),
			zap.Float64("val_f1", eval.F1))
	}

	c.mu.Lock()
	c.model = model
	c.mu.Unlock()
	return report, nil
}

// trainBatch runs one forward/backward pass over a mini-batch and applies
// the optimizer update. Returns the average cross-entropy loss.
func trainBatch(model *headModel, optimizer *adamW, vectors [][]float64, labelIDs []int, batch []int, rng *rand.Rand) float64 {
	numClasses := model.labels.NumClasses()
	gradWeights := make([][]float64, numClasses)
	for c := range gradWeights {
		gradWeights[c] = make([]float64, model.dim)
	}
	gradBias := make([]float64, numClasses)

	var loss float64
	for _, idx := range batch {
		x := model.applyDropout(vectors[idx], rng)
		probs := softmax(model.forward(x))
		truth := labelIDs[idx]
		loss += -math.Log(math.Max(probs[truth], 1e-12))

		for c := 0; c < numClasses; c++ {
			g := probs[c]
			if c == truth {
				g -= 1
			}
			gradBias[c] += g
			for i, v := range x {
				gradWeights[c][i] += g * v
			}
		}
	}

	n := float64(len(batch))
	for c := 0; c < numClasses; c++ {
		gradBias[c] /= n
		for i := range gradWeights[c] {
			gradWeights[c][i] /= n
		}
	}
	optimizer.update(model, gradWeights, gradBias)
	return loss / n
}

// evaluateSplit predicts every held-out example (dropout disabled) and
// builds the classification report.
func (c *Classifier) evaluateSplit(model *headModel, vectors [][]float64, labelIDs []int, testIdx []int) Evaluation {
	trueLabels := make([]int, len(testIdx))
	predictions := make([]int, len(testIdx))
	for i, idx := range testIdx {
		trueLabels[i] = labelIDs[idx]
		predictions[i] = argmax(model.forward(vectors[idx]))
	}
	return evaluateLabels(trueLabels, predictions, model.labels)
}

// Predict classifies one text. Deterministic for a fixed trained model;
// probabilities sum to 1.
func (c *Classifier) Predict(ctx context.Context, text string) (*types.PredictionResult, error) {
	c.mu.RLock()
	model := c.model
	c.mu.RUnlock()
	if model == nil {
		return nil, ErrModelNotTrained
	}

	vec, err := c.encoder.Encode(ctx, truncate(text, c.cfg.MaxInputChars))
	if err != nil {
		return nil, fmt.Errorf("failed to encode text: %w", err)
	}

	probs := softmax(model.forward(toFloat64(vec)))
	best := argmax(probs)
	category, err := model.labels.Inverse(best)
	if err != nil {
		return nil, err
	}

	return &types.PredictionResult{
		PredictedCategory: category,
		Confidence:        probs[best],
		AllProbabilities:  probs,
	}, nil
}

// ScoreForJob predicts the CV's category and, when a known target category
// is supplied, blends classification confidence with the cosine similarity
// of the CV and job description embeddings:
//
//	final = (similarity*0.6 + confidence*0.4) * (1.2 if category match else 0.8)
//
// Without a target category (or with an unknown one) the final score is the
// confidence alone. The reported overall score is final*100 capped at 100.
func (c *Classifier) ScoreForJob(ctx context.Context, cvText, jobText, targetCategory string) (*types.JobFitResult, error) {
	prediction, err := c.Predict(ctx, cvText)
	if err != nil {
		return nil, err
	}

	c.mu.RLock()
	model := c.model
	c.mu.RUnlock()

	final := prediction.Confidence
	if targetCategory != "" && model.labels.Contains(targetCategory) {
		cvVec, err := c.encoder.Encode(ctx, truncate(cvText, c.cfg.MaxInputChars))
		if err != nil {
			return nil, fmt.Errorf("failed to encode CV text: %w", err)
		}
		jobVec, err := c.encoder.Encode(ctx, truncate(jobText, c.cfg.MaxInputChars))
		if err != nil {
			return nil, fmt.Errorf("failed to encode job text: %w", err)
		}

		similarity := embedding.CosineSimilarity(cvVec, jobVec)
		multiplier := 0.8
		if prediction.PredictedCategory == targetCategory {
			multiplier = 1.2
		}
		final = (similarity*0.6 + prediction.Confidence*0.4) * multiplier
	}

	return &types.JobFitResult{
		OverallScore:      math.Min(final*100, 100),
		PredictedCategory: prediction.PredictedCategory,
		Confidence:        prediction.Confidence,
		Recommendation:    recommendation(final),
	}, nil
}

// encodeAll encodes the corpus in chunks to bound request sizes.
func (c *Classifier) encodeAll(ctx context.Context, texts []string) ([][]float64, error) {
	const chunkSize = 64
	vectors := make([][]float64, 0, len(texts))
	for start := 0; start < len(texts); start += chunkSize {
		end := start + chunkSize
		if end > len(texts) {
			end = len(texts)
		}
		chunk, err := c.encoder.EncodeBatch(ctx, texts[start:end])
		if err != nil {
			return nil, err
		}
		for _, v := range chunk {
			vectors = append(vectors, toFloat64(v))
		}
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("encoder returned no vectors")
	}
	return vectors, nil
}

func recommendation(final float64) string {
	switch {
	case final > 0.8:
		return RecommendExcellent
	case final > 0.6:
		return RecommendPotential
	default:
		return RecommendNeedsReview
	}
}

// truncate limits input length before encoding, respecting rune boundaries.
func truncate(s string, maxChars int) string {
	if len(s) <= maxChars {
		return s
	}
	runes := []rune(s)
	if len(runes) <= maxChars {
		return s
	}
	return string(runes[:maxChars])
}
