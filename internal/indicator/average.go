// Package indicator holds pure technical indicator functions over explicit
// inputs. Every function reports an absent result with ok == false.
package indicator

// EMA seeds with values[0] and applies e = v*k + e*(1-k), k = 2/(period+1),
// over the whole slice.
func EMA(values []float64, period int) (float64, bool) {
	if period < 1 || len(values) < period {
		return 0, false
	}
	k := 2 / float64(period+1)
	e := values[0]
	for _, v := range values[1:] {
		e = v*k + e*(1-k)
	}
	return e, true
}

// SMA is the mean of the last period values.
func SMA(values []float64, period int) (float64, bool) {
	if period < 1 || len(values) < period {
		return 0, false
	}
	var sum float64
	for _, v := range values[len(values)-period:] {
		sum += v
	}
	return sum / float64(period), true
}

// runningEMA повторяет EMA по каждому префиксу без пересчёта с начала.
type runningEMA struct {
	k     float64
	value float64
	n     int
	need  int
}

func newRunningEMA(period int) *runningEMA {
	return &runningEMA{k: 2 / float64(period+1), need: period}
}

func (r *runningEMA) push(v float64) {
	if r.n == 0 {
		r.value = v
	} else {
		r.value = v*r.k + r.value*(1-r.k)
	}
	r.n++
}

func (r *runningEMA) current() (float64, bool) {
	if r.n < r.need {
		return 0, false
	}
	return r.value, true
}
