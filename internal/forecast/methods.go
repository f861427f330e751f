package forecast

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

const seasonPeriod = 7

// holtWinters produces an additive trend + weekly seasonality forecast.
// Needs at least two full seasons of history; errors otherwise so the caller
// can degrade to holt.
func holtWinters(y []float64, horizon int) ([]float64, error) {
	if len(y) < 2*seasonPeriod {
		return nil, fmt.Errorf("holt-winters needs %d points, got %d", 2*seasonPeriod, len(y))
	}

	const (
		alpha = 0.2
		beta  = 0.1
		gamma = 0.1
	)

	// Initial level/trend from the first two seasons
	level := mean(y[:seasonPeriod])
	secondSeason := mean(y[seasonPeriod : 2*seasonPeriod])
	trend := (secondSeason - level) / seasonPeriod

	seasonal := make([]float64, seasonPeriod)
	for i := 0; i < seasonPeriod; i++ {
		seasonal[i] = y[i] - level
	}

	for t := seasonPeriod; t < len(y); t++ {
		s := t % seasonPeriod
		prevLevel := level
		level = alpha*(y[t]-seasonal[s]) + (1-alpha)*(level+trend)
		trend = beta*(level-prevLevel) + (1-beta)*trend
		seasonal[s] = gamma*(y[t]-level) + (1-gamma)*seasonal[s]
	}

	out := make([]float64, horizon)
	n := len(y)
	for h := 0; h < horizon; h++ {
		s := (n + h) % seasonPeriod
		out[h] = math.Max(0, level+float64(h+1)*trend+seasonal[s])
	}

	return out, nil
}

// holt is the trend-only smoothing fallback when the seasonal fit is not
// possible.
func holt(y []float64, horizon int) []float64 {
	if len(y) == 0 {
		return make([]float64, horizon)
	}

	const (
		alpha = 0.3
		beta  = 0.1
	)

	level := y[0]
	trend := 0.0
	if len(y) > 1 {
		trend = y[1] - y[0]
	}

	for t := 1; t < len(y); t++ {
		prevLevel := level
		level = alpha*y[t] + (1-alpha)*(level+trend)
		trend = beta*(level-prevLevel) + (1-beta)*trend
	}

	out := make([]float64, horizon)
	for h := 0; h < horizon; h++ {
		out[h] = math.Max(0, level+float64(h+1)*trend)
	}

	return out
}

// seasonalDecompose forecasts by additive decomposition: a centered moving
// average trend extrapolated linearly, plus the last observed weekly pattern
// tiled over the horizon.
func seasonalDecompose(y []float64, horizon int) ([]float64, error) {
	if len(y) < 2*seasonPeriod {
		return nil, fmt.Errorf("decomposition needs %d points, got %d", 2*seasonPeriod, len(y))
	}

	trend := movingAverage(y, seasonPeriod)
	var tIdx, tVal []float64
	for i, v := range trend {
		if !math.IsNaN(v) {
			tIdx = append(tIdx, float64(i))
			tVal = append(tVal, v)
		}
	}
	if len(tVal) < 2 {
		return nil, fmt.Errorf("trend series too short: %d points", len(tVal))
	}

	intercept, slope := stat.LinearRegression(tIdx, tVal, nil, false)
	if math.IsNaN(intercept) || math.IsNaN(slope) {
		return nil, fmt.Errorf("trend regression did not converge")
	}

	// Average detrended value per weekday position
	seasonal := make([]float64, seasonPeriod)
	counts := make([]int, seasonPeriod)
	for i, v := range trend {
		if math.IsNaN(v) {
			continue
		}
		s := i % seasonPeriod
		seasonal[s] += y[i] - v
		counts[s]++
	}
	for s := range seasonal {
		if counts[s] > 0 {
			seasonal[s] /= float64(counts[s])
		}
	}

	out := make([]float64, horizon)
	n := len(y)
	for h := 0; h < horizon; h++ {
		t := float64(n + h)
		out[h] = math.Max(0, intercept+slope*t+seasonal[(n+h)%seasonPeriod])
	}

	return out, nil
}

// polyRegression fits quantity against [1, t, t^2, weekday] by least squares
// and predicts at future indices. Needs at least 10 points.
func polyRegression(y []float64, horizon int) ([]float64, error) {
	n := len(y)
	if n < 10 {
		return nil, fmt.Errorf("regression needs 10 points, got %d", n)
	}

	const cols = 4
	x := mat.NewDense(n, cols, nil)
	b := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		t := float64(i)
		x.Set(i, 0, 1)
		x.Set(i, 1, t)
		x.Set(i, 2, t*t)
		x.Set(i, 3, float64(i%seasonPeriod))
		b.SetVec(i, y[i])
	}

	var qr mat.QR
	qr.Factorize(x)

	var beta mat.VecDense
	if err := qr.SolveVecTo(&beta, false, b); err != nil {
		return nil, fmt.Errorf("least squares solve: %w", err)
	}

	out := make([]float64, horizon)
	for h := 0; h < horizon; h++ {
		t := float64(n + h)
		pred := beta.AtVec(0) + beta.AtVec(1)*t + beta.AtVec(2)*t*t + beta.AtVec(3)*float64((n+h)%seasonPeriod)
		out[h] = math.Max(0, pred)
	}

	return out, nil
}

// constantMean is the last-resort per-method fallback.
func constantMean(y []float64, horizon int) []float64 {
	avg := mean(y)
	out := make([]float64, horizon)
	for i := range out {
		out[i] = math.Max(0, avg)
	}

	return out
}

// movingAverage returns the centered moving average of y with the given
// window; positions without a full window are NaN.
func movingAverage(y []float64, window int) []float64 {
	out := make([]float64, len(y))
	half := window / 2
	for i := range y {
		lo, hi := i-half, i+half
		if window%2 == 0 {
			hi--
		}
		if lo < 0 || hi >= len(y) {
			out[i] = math.NaN()
			continue
		}
		sum := 0.0
		for j := lo; j <= hi; j++ {
			sum += y[j]
		}
		out[i] = sum / float64(hi-lo+1)
	}

	return out
}

// pctChangeVolatility is the standard deviation of day-over-day percentage
// changes, skipping zero-denominator days.
func pctChangeVolatility(y []float64) float64 {
	var changes []float64
	for i := 1; i < len(y); i++ {
		if y[i-1] == 0 {
			continue
		}
		changes = append(changes, (y[i]-y[i-1])/y[i-1])
	}
	if len(changes) < 2 {
		return 0
	}

	return stat.StdDev(changes, nil)
}

func mean(y []float64) float64 {
	if len(y) == 0 {
		return 0
	}

	return stat.Mean(y, nil)
}
