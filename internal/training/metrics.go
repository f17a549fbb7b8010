// Package training implements the walk-forward evaluation and final-fit
// pipeline that produces the persisted model and status record.
package training

// Metrics holds binary classification metrics for one fold or an aggregate
type Metrics struct {
	Accuracy  float64 `json:"accuracy"`
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
}

// Evaluate computes accuracy, precision, recall and F1 against ground truth.
// Zero denominators yield 0, never NaN: a fold with no positive predictions
// has precision 0, a fold with no positive truth has recall 0.
func Evaluate(yTrue, yPred []int) Metrics {
	var m Metrics
	if len(yTrue) == 0 || len(yTrue) != len(yPred) {
		return m
	}

	var correct, tp, fp, fn int
	for i := range yTrue {
		if yPred[i] == yTrue[i] {
			correct++
		}
		switch {
		case yPred[i] == 1 && yTrue[i] == 1:
			tp++
		case yPred[i] == 1 && yTrue[i] == 0:
			fp++
		case yPred[i] == 0 && yTrue[i] == 1:
			fn++
		}
	}

	m.Accuracy = float64(correct) / float64(len(yTrue))
	if tp+fp > 0 {
		m.Precision = float64(tp) / float64(tp+fp)
	}
	if tp+fn > 0 {
		m.Recall = float64(tp) / float64(tp+fn)
	}
	if m.Precision+m.Recall > 0 {
		m.F1 = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)
	}
	return m
}

// meanMetrics aggregates fold metrics by arithmetic mean
func meanMetrics(folds []Metrics) Metrics {
	var agg Metrics
	if len(folds) == 0 {
		return agg
	}
	for _, m := range folds {
		agg.Accuracy += m.Accuracy
		agg.Precision += m.Precision
		agg.Recall += m.Recall
		agg.F1 += m.F1
	}
	n := float64(len(folds))
	agg.Accuracy /= n
	agg.Precision /= n
	agg.Recall /= n
	agg.F1 /= n
	return agg
}
