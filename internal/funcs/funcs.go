package funcs

import (
	"strconv"
	"text/template"
	"time"

	"github.com/shopspring/decimal"
)

var TemplateFuncs = template.FuncMap{
	"formatTime":   formatTime,
	"formatAmount": formatAmount,
	"incr":         incr,
}

func formatTime(format string, t time.Time) string {
	return t.Format(format)
}

// formatAmount renders a balance with the trailing fractional zeros trimmed,
// the way amounts read in chat messages.
func formatAmount(d decimal.Decimal) string {
	return d.String()
}

func incr(i int) string {
	i++
	return strconv.Itoa(i)
}
