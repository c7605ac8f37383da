package classifier

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
)

// LabelEncoder is a bijection between label strings and dense integer ids.
// Ids are assigned in lexicographic label order, and the encoder is fitted
// on the full label set before the corpus is split.
type LabelEncoder struct {
	classes []string
	index   map[string]int
}

// FitLabelEncoder builds an encoder from the labels observed in a corpus.
func FitLabelEncoder(labels []string) *LabelEncoder {
	seen := make(map[string]bool)
	var classes []string
	for _, label := range labels {
		if !seen[label] {
			seen[label] = true
			classes = append(classes, label)
		}
	}
	sort.Strings(classes)

	index := make(map[string]int, len(classes))
	for i, class := range classes {
		index[class] = i
	}
	return &LabelEncoder{classes: classes, index: index}
}

// Transform maps a label string to its integer id.
func (le *LabelEncoder) Transform(label string) (int, error) {
	id, ok := le.index[label]
	if !ok {
		return 0, fmt.Errorf("unknown label %q", label)
	}
	return id, nil
}

// Contains reports whether the label was observed during fitting.
func (le *LabelEncoder) Contains(label string) bool {
	_, ok := le.index[label]
	return ok
}

// Inverse maps an integer id back to its label string.
func (le *LabelEncoder) Inverse(id int) (string, error) {
	if id < 0 || id >= len(le.classes) {
		return "", fmt.Errorf("label id %d out of range", id)
	}
	return le.classes[id], nil
}

// Classes returns the fitted labels in id order.
func (le *LabelEncoder) Classes() []string {
	out := make([]string, len(le.classes))
	copy(out, le.classes)
	return out
}

// NumClasses returns the number of distinct fitted labels.
func (le *LabelEncoder) NumClasses() int {
	return len(le.classes)
}

// stratifiedSplit partitions example indices into train and test sets,
// preserving each class's proportion. The shuffle is seeded so splits are
// reproducible across runs.
func stratifiedSplit(labels []int, numClasses int, testFraction float64, seed int64) (train, test []int) {
	byClass := make([][]int, numClasses)
	for i, label := range labels {
		byClass[label] = append(byClass[label], i)
	}

	rng := rand.New(rand.NewSource(seed))
	for _, group := range byClass {
		rng.Shuffle(len(group), func(i, j int) {
			group[i], group[j] = group[j], group[i]
		})
		n := int(math.Round(float64(len(group)) * testFraction))
		if n >= len(group) {
			n = len(group) - 1
		}
		if n < 0 {
			n = 0
		}
		test = append(test, group[:n]...)
		train = append(train, group[n:]...)
	}

	sort.Ints(train)
	sort.Ints(test)
	return train, test
}
