package classifier

import (
	"math"
	"math/rand"
)

// headModel is the trainable classification head: a dropout layer feeding a
// linear projection from encoder vectors to class logits. The encoder
// backbone stays frozen; only the head's parameters are learned.
type headModel struct {
	labels  *LabelEncoder
	dim     int
	weights [][]float64 // [numClasses][dim]
	bias    []float64
	dropout float64
}

func newHeadModel(labels *LabelEncoder, dim int, dropout float64) *headModel {
	numClasses := labels.NumClasses()
	weights := make([][]float64, numClasses)
	for i := range weights {
		weights[i] = make([]float64, dim)
	}
	return &headModel{
		labels:  labels,
		dim:     dim,
		weights: weights,
		bias:    make([]float64, numClasses),
		dropout: dropout,
	}
}

// forward computes class logits for one encoder vector.
func (m *headModel) forward(x []float64) []float64 {
	logits := make([]float64, len(m.weights))
	for c, w := range m.weights {
		sum := m.bias[c]
		for i, v := range x {
			sum += w[i] * v
		}
		logits[c] = sum
	}
	return logits
}

// applyDropout returns x with inverted dropout applied. Kept activations are
// scaled by 1/(1-rate) so inference needs no rescaling.
func (m *headModel) applyDropout(x []float64, rng *rand.Rand) []float64 {
	if m.dropout <= 0 {
		return x
	}
	keep := 1 - m.dropout
	out := make([]float64, len(x))
	for i, v := range x {
		if rng.Float64() < keep {
			out[i] = v / keep
		}
	}
	return out
}

// softmax converts logits to a probability distribution. The max logit is
// subtracted first to keep the exponentials in range.
func softmax(logits []float64) []float64 {
	maxLogit := math.Inf(-1)
	for _, l := range logits {
		if l > maxLogit {
			maxLogit = l
		}
	}

	probs := make([]float64, len(logits))
	var sum float64
	for i, l := range logits {
		probs[i] = math.Exp(l - maxLogit)
		sum += probs[i]
	}
	for i := range probs {
		probs[i] /= sum
	}
	return probs
}

// argmax returns the index of the largest value, taking the first on ties.
func argmax(values []float64) int {
	best := 0
	for i, v := range values {
		if v > values[best] {
			best = i
		}
	}
	return best
}

// toFloat64 widens an encoder vector for head arithmetic.
func toFloat64(v []float32) []float64 {
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = float64(x)
	}
	return out
}

// adamW implements the AdamW update rule for the head parameters, with
// decoupled weight decay applied to the projection weights only.
type adamW struct {
	lr          float64
	beta1       float64
	beta2       float64
	eps         float64
	weightDecay float64
	step        int

	mWeights, vWeights [][]float64
	mBias, vBias       []float64
}

func newAdamW(lr float64, numClasses, dim int) *adamW {
	mW := make([][]float64, numClasses)
	vW := make([][]float64, numClasses)
	for i := range mW {
		mW[i] = make([]float64, dim)
		vW[i] = make([]float64, dim)
	}
	return &adamW{
		lr:          lr,
		beta1:       0.9,
		beta2:       0.999,
		eps:         1e-8,
		weightDecay: 0.01,
		mWeights:    mW,
		vWeights:    vW,
		mBias:       make([]float64, numClasses),
		vBias:       make([]float64, numClasses),
	}
}

// update applies one optimization step given the accumulated gradients.
func (o *adamW) update(m *headModel, gradWeights [][]float64, gradBias []float64) {
	o.step++
	bc1 := 1 - math.Pow(o.beta1, float64(o.step))
	bc2 := 1 - math.Pow(o.beta2, float64(o.step))

	for c := range m.weights {
		for i := range m.weights[c] {
			g := gradWeights[c][i]
			o.mWeights[c][i] = o.beta1*o.mWeights[c][i] + (1-o.beta1)*g
			o.vWeights[c][i] = o.beta2*o.vWeights[c][i] + (1-o.beta2)*g*g
			mHat := o.mWeights[c][i] / bc1
			vHat := o.vWeights[c][i] / bc2
			m.weights[c][i] -= o.lr * (mHat/(math.Sqrt(vHat)+o.eps) + o.weightDecay*m.weights[c][i])
		}

		g := gradBias[c]
		o.mBias[c] = o.beta1*o.mBias[c] + (1-o.beta1)*g
		o.vBias[c] = o.beta2*o.vBias[c] + (1-o.beta2)*g*g
		mHat := o.mBias[c] / bc1
		vHat := o.vBias[c] / bc2
		m.bias[c] -= o.lr * mHat / (math.Sqrt(vHat) + o.eps)
	}
}
