package regression

import (
	"math"
	"strconv"
	"strings"
)

// DefaultPrecision is the number of decimals used when rendering formulas.
const DefaultPrecision = 4

// Formula renders "target = c1 * f1 + ... + cn * fn + intercept" with every
// number at the given precision.
func (e Equation) Formula(precision int) string {
	var b strings.Builder
	b.WriteString(e.Target)
	b.WriteString(" = ")
	for i, c := range e.Coefficients {
		b.WriteString(FormatNumber(c, precision))
		b.WriteString(" * ")
		b.WriteString(e.Features[i])
		b.WriteString(" + ")
	}
	b.WriteString(FormatNumber(e.Intercept, precision))
	return b.String()
}

// FormatNumber renders v with a fixed number of decimals. Values that round
// to zero render without a sign.
func FormatNumber(v float64, precision int) string {
	if precision < 0 {
		precision = DefaultPrecision
	}
	scale := math.Pow(10, float64(precision))
	r := math.Round(v*scale) / scale
	if r == 0 {
		r = 0
	}
	return strconv.FormatFloat(r, 'f', precision, 64)
}
