package classifier

// ClassMetrics holds per-class evaluation numbers.
type ClassMetrics struct {
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
	Support   int     `json:"support"`
}

// Evaluation summarizes held-out performance: support-weighted averages plus
// a full per-class classification report.
type Evaluation struct {
	F1        float64                 `json:"f1"`
	Precision float64                 `json:"precision"`
	Recall    float64                 `json:"recall"`
	Accuracy  float64                 `json:"accuracy"`
	Report    map[string]ClassMetrics `json:"classification_report"`
}

// evaluateLabels computes the classification report for predicted vs true
// label ids. Weighted averages use each class's true-label support.
func evaluateLabels(trueLabels, predictions []int, labels *LabelEncoder) Evaluation {
	numClasses := labels.NumClasses()
	truePos := make([]int, numClasses)
	falsePos := make([]int, numClasses)
	falseNeg := make([]int, numClasses)

	correct := 0
	for i, truth := range trueLabels {
		pred := predictions[i]
		if pred == truth {
			truePos[truth]++
			correct++
		} else {
			falsePos[pred]++
			falseNeg[truth]++
		}
	}

	eval := Evaluation{Report: make(map[string]ClassMetrics, numClasses)}
	total := 0
	for c := 0; c < numClasses; c++ {
		support := truePos[c] + falseNeg[c]
		precision := safeRatio(truePos[c], truePos[c]+falsePos[c])
		recall := safeRatio(truePos[c], support)
		f1 := 0.0
		if precision+recall > 0 {
			f1 = 2 * precision * recall / (precision + recall)
		}

		class, _ := labels.Inverse(c)
		eval.Report[class] = ClassMetrics{
			Precision: precision,
			Recall:    recall,
			F1:        f1,
			Support:   support,
		}

		eval.Precision += precision * float64(support)
		eval.Recall += recall * float64(support)
		eval.F1 += f1 * float64(support)
		total += support
	}

	if total > 0 {
		eval.Precision /= float64(total)
		eval.Recall /= float64(total)
		eval.F1 /= float64(total)
		eval.Accuracy = float64(correct) / float64(total)
	}
	return eval
}

func safeRatio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}
