// internal/forecast/engine.go
package forecast

import (
	"context"
	"math"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/minimart-ai/backend/internal/domain"
)

// Forecasting method names as they appear in Result.Methods.
const (
	MethodExponentialSmoothing  = "exponential_smoothing"
	MethodSeasonalDecomposition = "seasonal_decomposition"
	MethodPolynomialRegression  = "polynomial_regression"
	MethodSimple                = "simple"
)

// Data quality tags
const (
	QualityGood    = "good"
	QualityLimited = "limited"
)

const (
	minEnsemblePoints  = 30
	goodQualityPoints  = 90
	defaultDailyDemand = 5
)

// Result is a horizon-length demand forecast with its confidence band.
// Combined, Lower and Upper always have exactly horizon entries, with
// Lower[i] <= Combined[i] <= Upper[i] and Lower[i] >= 0.
type Result struct {
	ProductID   int64                `json:"product_id"`
	Methods     map[string][]float64 `json:"methods"`
	Combined    []float64            `json:"combined"`
	Lower       []float64            `json:"confidence_lower"`
	Upper       []float64            `json:"confidence_upper"`
	DataQuality string               `json:"data_quality"`
	HorizonDays int                  `json:"horizon_days"`
}

// SumFirst returns the sum of the first n combined forecast values,
// truncated at the horizon.
func (r Result) SumFirst(n int) float64 {
	if n > len(r.Combined) {
		n = len(r.Combined)
	}
	sum := 0.0
	for _, v := range r.Combined[:n] {
		sum += v
	}

	return sum
}

// Engine runs the three-method forecast ensemble.
type Engine struct {
	// MaxParallel caps concurrent per-product forecasts in ForecastMany.
	MaxParallel int
}

func NewEngine() *Engine {
	return &Engine{MaxParallel: 4}
}

// Forecast produces a demand forecast for one product. History shorter than
// 30 points goes through the simple trend fallback; otherwise the three
// methods run independently, each degrading to its own fallback on failure,
// and are combined with equal weights.
func (e *Engine) Forecast(productID int64, history []domain.SalesPoint, horizon int) Result {
	if horizon <= 0 {
		horizon = 1
	}
	y := Quantities(history)

	if len(y) < minEnsemblePoints {
		return e.simpleForecast(productID, y, horizon)
	}

	methods := map[string][]float64{
		MethodExponentialSmoothing:  e.runMethod(productID, MethodExponentialSmoothing, y, horizon),
		MethodSeasonalDecomposition: e.runMethod(productID, MethodSeasonalDecomposition, y, horizon),
		MethodPolynomialRegression:  e.runMethod(productID, MethodPolynomialRegression, y, horizon),
	}

	combined := make([]float64, horizon)
	for _, f := range methods {
		for i, v := range f {
			combined[i] += v / 3
		}
	}
	for i, v := range combined {
		combined[i] = math.Max(0, v)
	}

	lower, upper := confidenceBand(combined, y)

	quality := QualityLimited
	if len(y) >= goodQualityPoints {
		quality = QualityGood
	}

	return Result{
		ProductID:   productID,
		Methods:     methods,
		Combined:    combined,
		Lower:       lower,
		Upper:       upper,
		DataQuality: quality,
		HorizonDays: horizon,
	}
}

// ForecastMany forecasts independent products in parallel. The per-product
// computation stays sequential; only the fan-out is concurrent.
func (e *Engine) ForecastMany(ctx context.Context, histories map[int64][]domain.SalesPoint, horizon int) (map[int64]Result, error) {
	results := make(map[int64]Result, len(histories))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	if e.MaxParallel > 0 {
		g.SetLimit(e.MaxParallel)
	}

	for productID, history := range histories {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			r := e.Forecast(productID, history, horizon)
			mu.Lock()
			results[productID] = r
			mu.Unlock()

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

// runMethod executes one forecasting method, degrading to its fallback when
// the fit fails. A method failure never aborts the whole forecast.
func (e *Engine) runMethod(productID int64, method string, y []float64, horizon int) []float64 {
	var (
		out []float64
		err error
	)

	switch method {
	case MethodExponentialSmoothing:
		out, err = holtWinters(y, horizon)
		if err != nil {
			log.Debug().Int64("product_id", productID).Err(err).
				Msg("seasonal smoothing failed, using trend-only smoothing")

			return holt(y, horizon)
		}
	case MethodSeasonalDecomposition:
		out, err = seasonalDecompose(y, horizon)
	case MethodPolynomialRegression:
		out, err = polyRegression(y, horizon)
	}

	if err != nil {
		log.Debug().Int64("product_id", productID).Str("method", method).Err(err).
			Msg("forecast method degraded to constant mean")

		return constantMean(y, horizon)
	}

	return out
}

// simpleForecast handles short histories: overall average plus a trend from
// the first and last week when at least 14 points exist. Empty history gets
// a constant default daily demand.
func (e *Engine) simpleForecast(productID int64, y []float64, horizon int) Result {
	avg := mean(y)
	if len(y) == 0 {
		avg = defaultDailyDemand
	}

	trend := 0.0
	if len(y) >= 14 {
		trend = (mean(y[len(y)-7:]) - mean(y[:7])) / 7
	}

	combined := make([]float64, horizon)
	lower := make([]float64, horizon)
	upper := make([]float64, horizon)
	for i := range combined {
		v := math.Max(0, avg+trend*float64(i))
		combined[i] = v
		lower[i] = math.Max(0, v*0.7)
		upper[i] = v * 1.3
	}

	return Result{
		ProductID:   productID,
		Methods:     map[string][]float64{MethodSimple: combined},
		Combined:    combined,
		Lower:       lower,
		Upper:       upper,
		DataQuality: QualityLimited,
		HorizonDays: horizon,
	}
}

// confidenceBand derives the interval from day-over-day volatility. Fewer
// than 2 history points widens the band to +-50%.
func confidenceBand(combined, y []float64) (lower, upper []float64) {
	spread := 0.5
	if len(y) >= 2 {
		spread = 2 * pctChangeVolatility(y)
	}

	lower = make([]float64, len(combined))
	upper = make([]float64, len(combined))
	for i, v := range combined {
		lower[i] = math.Max(0, v*(1-spread))
		upper[i] = v * (1 + spread)
	}

	return lower, upper
}
