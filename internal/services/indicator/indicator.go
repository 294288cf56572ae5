package indicator

import (
	"math"

	"TradePulse/internal/domain/models"
)

// Pure indicator math over chronological close-price series. Every function
// degrades to a neutral or estimated value on short input instead of
// failing, so callers backing an always-on UI never see an error.

const (
	DefaultRSIPeriod       = 14
	DefaultBollingerPeriod = 20
	DefaultBollingerMult   = 2.0
	smaShortPeriod         = 20
	smaLongPeriod          = 50
)

// RSI computes the Relative Strength Index over the last period deltas.
// Returns 50 (neutral) when the series is shorter than period+1 and 100
// when the window has no losses.
func RSI(prices []float64, period int) float64 {
	if len(prices) < period+1 {
		return 50
	}

	var gains, losses float64
	for i := len(prices) - period; i < len(prices); i++ {
		change := prices[i] - prices[i-1]
		if change > 0 {
			gains += change
		} else {
			losses -= change
		}
	}

	avgGain := gains / float64(period)
	avgLoss := losses / float64(period)
	if avgLoss == 0 {
		return 100
	}

	rs := avgGain / avgLoss
	return 100 - 100/(1+rs)
}

// EMA computes an exponential moving average seeded with the first price.
func EMA(prices []float64, period int) float64 {
	if len(prices) == 0 {
		return 0
	}

	k := 2 / float64(period+1)
	ema := prices[0]
	for i := 1; i < len(prices); i++ {
		ema = prices[i]*k + ema*(1-k)
	}
	return ema
}

// SMA computes a simple moving average over the last period samples,
// 0 when the series is shorter than period.
func SMA(prices []float64, period int) float64 {
	if len(prices) < period {
		return 0
	}

	var sum float64
	for _, p := range prices[len(prices)-period:] {
		sum += p
	}
	return sum / float64(period)
}

// MACD computes EMA12 - EMA26 with the simplified signal line
// signal = macd * 0.9. All three values are 0 when fewer than 26 samples
// are available.
func MACD(prices []float64) (macd, signal, histogram float64) {
	if len(prices) < 26 {
		return 0, 0, 0
	}

	macd = EMA(prices, 12) - EMA(prices, 26)
	signal = macd * 0.9
	histogram = macd - signal
	return macd, signal, histogram
}

// Bollinger computes an SMA envelope at mult population standard deviations.
// Short series fall back to a flat +-2% band around the mean of what is
// available.
func Bollinger(prices []float64, period int, mult float64) models.BollingerBands {
	if len(prices) == 0 {
		return models.BollingerBands{}
	}
	if len(prices) < period {
		var sum float64
		for _, p := range prices {
			sum += p
		}
		avg := sum / float64(len(prices))
		return models.BollingerBands{Upper: avg * 1.02, Middle: avg, Lower: avg * 0.98}
	}

	window := prices[len(prices)-period:]
	var sum float64
	for _, p := range window {
		sum += p
	}
	sma := sum / float64(period)

	var variance float64
	for _, p := range window {
		d := p - sma
		variance += d * d
	}
	variance /= float64(period)
	sd := math.Sqrt(variance)

	return models.BollingerBands{
		Upper:  sma + sd*mult,
		Middle: sma,
		Lower:  sma - sd*mult,
	}
}

// Volatility computes the standard deviation of percentage returns over the
// series, expressed as a percentage. Returns 0 for fewer than two samples.
func Volatility(prices []float64) float64 {
	if len(prices) < 2 {
		return 0
	}

	rets := make([]float64, 0, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		if prices[i-1] == 0 {
			rets = append(rets, 0)
			continue
		}
		rets = append(rets, (prices[i]-prices[i-1])/prices[i-1])
	}

	var sum float64
	for _, r := range rets {
		sum += r
	}
	mean := sum / float64(len(rets))

	var variance float64
	for _, r := range rets {
		d := r - mean
		variance += d * d
	}
	variance /= float64(len(rets))

	return math.Sqrt(variance) * 100
}

// Snapshot assembles the full indicator set for a candle series.
func Snapshot(candles []models.Candle) models.IndicatorSnapshot {
	closes := make([]float64, len(candles))
	volumes := make([]float64, len(candles))
	for i, c := range candles {
		closes[i] = c.Close
		volumes[i] = c.Volume
	}

	macd, signal, histogram := MACD(closes)
	return models.IndicatorSnapshot{
		RSI:       RSI(closes, DefaultRSIPeriod),
		MACD:      macd,
		Signal:    signal,
		Histogram: histogram,
		SMAShort:  SMA(closes, smaShortPeriod),
		SMALong:   SMA(closes, smaLongPeriod),
		Bollinger: Bollinger(closes, DefaultBollingerPeriod, DefaultBollingerMult),
		VolumeSMA: SMA(volumes, smaShortPeriod),
	}
}
