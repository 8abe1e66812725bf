package regression

// MSE is the mean of squared residuals.
func MSE(observed, predicted []float64) float64 {
	if len(observed) == 0 {
		return 0
	}
	var sum float64
	for i := range observed {
		d := observed[i] - predicted[i]
		sum += d * d
	}
	return sum / float64(len(observed))
}

// R2 is the coefficient of determination: R² = 1 - (SS_res / SS_tot).
// A constant target scores 1 when the predictions are exact and 0 otherwise.
func R2(observed, predicted []float64) float64 {
	if len(observed) == 0 {
		return 0
	}
	var mean float64
	for _, v := range observed {
		mean += v
	}
	mean /= float64(len(observed))

	var ssTot, ssRes float64
	for i := range observed {
		d := observed[i] - mean
		ssTot += d * d
		r := observed[i] - predicted[i]
		ssRes += r * r
	}
	if ssTot == 0 {
		if ssRes == 0 {
			return 1
		}
		return 0
	}
	return 1 - ssRes/ssTot
}
