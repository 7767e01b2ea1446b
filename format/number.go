package format

import (
	"fmt"
	"math"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fwielstra/vizplugins/domain"
)

// SmartNumber is the default number format: plain below a thousand, SI
// suffixed (1.5k, 2M) above.
const SmartNumber = "SMART_NUMBER"

// NumberFormats lists the formats accepted by Number, in the order the
// control panel offers them.
var NumberFormats = []string{SmartNumber, ",d", ",.1f", ",.2f", ",.3f", ".0%", ".1%", ".2%", "~g"}

// NumberFormatter renders a number for display.
type NumberFormatter func(float64) string

// Number returns the formatter for a format string. Unknown formats fall
// back to SmartNumber.
func Number(format string) NumberFormatter {
	switch format {
	case ",d":
		return func(v float64) string {
			return humanize.Comma(int64(math.Round(v)))
		}
	case ",.1f":
		return fixed("#,###.#")
	case ",.2f":
		return fixed("#,###.##")
	case ",.3f":
		return fixed("#,###.###")
	case ".0%":
		return percent(0)
	case ".1%":
		return percent(1)
	case ".2%":
		return percent(2)
	case "~g":
		return humanize.Ftoa
	default:
		return smart
	}
}

func smart(v float64) string {
	if math.Abs(v) < 1000 {
		return humanize.FtoaWithDigits(v, 2)
	}
	return strings.ReplaceAll(humanize.SIWithDigits(v, 1, ""), " ", "")
}

func fixed(pattern string) NumberFormatter {
	return func(v float64) string {
		return humanize.FormatFloat(pattern, v)
	}
}

func percent(digits int) NumberFormatter {
	return func(v float64) string {
		return humanize.FtoaWithDigits(v*100, digits) + "%"
	}
}

// Value renders a row value. Numbers go through f, nil renders empty and
// anything else is printed as is.
func Value(v any, f NumberFormatter) string {
	if v == nil {
		return ""
	}
	if _, isString := v.(string); !isString {
		if n, ok := domain.Float(v); ok {
			return f(n)
		}
	}
	return fmt.Sprint(v)
}

// Percent renders part as a share of total, e.g. "20%".
func Percent(part, total float64) string {
	if total == 0 {
		return "0%"
	}
	return humanize.FtoaWithDigits(part/total*100, 2) + "%"
}
