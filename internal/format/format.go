// Package format turns raw chain values (wei amounts, gas prices, byte
// counts, unix timestamps, hashes) into display strings.
//
// Every function is pure and safe for concurrent use. Amounts are carried as
// *big.Int until the final scaling division; the float64 produced by that
// division is only good for display, never for further arithmetic.
package format

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/ethereum/go-ethereum/params"
)

// Default slice widths used by ShortHash.
const (
	DefaultHashStart = 6
	DefaultHashEnd   = 4
)

// maxDecimals bounds token decimals; ERC-20 stores them in a uint8.
const maxDecimals = 255

const timestampLayout = "Jan 2, 2006, 03:04:05 PM"

var (
	weiPerEther = big.NewInt(params.Ether)
	weiPerGwei  = big.NewInt(params.GWei)

	byteUnits = []string{"Bytes", "KB", "MB", "GB"}
)

// ParseAmount parses a raw integer quantity as returned by the indexer:
// a decimal string or a 0x-prefixed hex quantity. Malformed input yields zero.
func ParseAmount(s string) *big.Int {
	n, ok := parseInteger(s)
	if !ok {
		return new(big.Int)
	}
	return n
}

func parseInteger(s string) (*big.Int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, false
	}
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		if len(s) == 2 {
			return new(big.Int), true
		}
		return new(big.Int).SetString(s[2:], 16)
	}
	return new(big.Int).SetString(s, 10)
}

// FormatEther renders a wei amount in ether.
func FormatEther(wei *big.Int) string {
	return formatScaled(wei, weiPerEther)
}

// FormatUnits renders an amount of a token with the given number of decimals
// using the same policy as FormatEther.
func FormatUnits(amount *big.Int, decimals int) string {
	decimals = min(max(decimals, 0), maxDecimals)
	divisor := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	return formatScaled(amount, divisor)
}

func formatScaled(amount, divisor *big.Int) string {
	if amount == nil || amount.Sign() == 0 {
		return "0"
	}
	if amount.Sign() < 0 {
		return "-" + formatScaled(new(big.Int).Neg(amount), divisor)
	}

	v := scale(amount, divisor)
	switch {
	case v == 0:
		// underflowed float64
		return "0"
	case v < 1e-6:
		return exponential(v, 4)
	case v < 1:
		return strconv.FormatFloat(v, 'f', 6, 64)
	case v < 1000:
		return strconv.FormatFloat(v, 'f', 4, 64)
	case math.IsInf(v, 1):
		return humanize.BigComma(new(big.Int).Quo(amount, divisor))
	default:
		return grouped(v, 2)
	}
}

// scale divides exactly and rounds once to the nearest float64.
func scale(amount, divisor *big.Int) float64 {
	f, _ := new(big.Rat).SetFrac(amount, divisor).Float64()
	return f
}

// exponential matches the mantissa/exponent shape "1.2345e-7": the exponent
// carries an explicit sign and no zero padding.
func exponential(v float64, digits int) string {
	s := strconv.FormatFloat(v, 'e', digits, 64)
	i := strings.IndexByte(s, 'e')
	if i < 0 || i+2 > len(s) {
		return s
	}
	mantissa, sign, exp := s[:i], s[i+1], strings.TrimLeft(s[i+2:], "0")
	if exp == "" {
		exp = "0"
	}
	return mantissa + "e" + string(sign) + exp
}

// grouped renders v with thousands separators and at most digits fractional
// digits, trailing zeros dropped.
func grouped(v float64, digits int) string {
	s := strconv.FormatFloat(v, 'f', digits, 64)
	intPart, frac, _ := strings.Cut(s, ".")
	frac = strings.TrimRight(frac, "0")

	n, ok := new(big.Int).SetString(intPart, 10)
	if !ok {
		return s
	}
	out := humanize.BigComma(n)
	if frac != "" {
		out += "." + frac
	}
	return out
}

// FormatGwei renders a wei gas price in gwei.
func FormatGwei(wei *big.Int) string {
	if wei == nil || wei.Sign() == 0 {
		return "0"
	}
	v := scale(wei, weiPerGwei)
	if v < 0.01 {
		return strconv.FormatFloat(v, 'f', 4, 64)
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// FormatTimestamp renders a block time (seconds since epoch) in the process'
// local timezone. Callers must not assume UTC.
func FormatTimestamp(ts int64) string {
	return FormatTimestampIn(ts, time.Local)
}

// FormatTimestampIn renders a block time in loc.
func FormatTimestampIn(ts int64, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return time.Unix(ts, 0).In(loc).Format(timestampLayout)
}

// FormatTimeAgo renders the age of ts relative to the current wall clock.
// The clock is read on every call.
func FormatTimeAgo(ts int64) string {
	return FormatTimeAgoAt(ts, time.Now())
}

// FormatTimeAgoAt renders the age of ts relative to now. Timestamps in the
// future clamp to "0 seconds ago".
func FormatTimeAgoAt(ts int64, now time.Time) string {
	seconds := now.Unix() - ts
	if seconds < 0 {
		seconds = 0
	}
	minutes := seconds / 60
	hours := minutes / 60
	days := hours / 24

	switch {
	case days > 0:
		return ago(days, "day")
	case hours > 0:
		return ago(hours, "hour")
	case minutes > 0:
		return ago(minutes, "minute")
	default:
		return ago(seconds, "second")
	}
}

func ago(n int64, unit string) string {
	if n != 1 {
		unit += "s"
	}
	return fmt.Sprintf("%d %s ago", n, unit)
}

// TruncateHash keeps the first startChars and last endChars of hash joined by
// "...". Hashes no longer than startChars+endChars are returned unchanged.
func TruncateHash(hash string, startChars, endChars int) string {
	if hash == "" {
		return ""
	}
	startChars = max(startChars, 0)
	endChars = max(endChars, 0)
	runes := []rune(hash)
	if len(runes) <= startChars+endChars {
		return hash
	}
	return string(runes[:startChars]) + "..." + string(runes[len(runes)-endChars:])
}

// ShortHash is TruncateHash with the default 6/4 widths.
func ShortHash(hash string) string {
	return TruncateHash(hash, DefaultHashStart, DefaultHashEnd)
}

// FormatNumber groups the integer part of a numeric string by thousands and
// drops any fraction, so "1234.56" becomes "1,234". Input without a leading
// integer is returned as is.
func FormatNumber(s string) string {
	n, ok := parseInteger(s)
	if !ok {
		n, ok = leadingInteger(s)
	}
	if !ok {
		return s
	}
	return humanize.BigComma(n)
}

// leadingInteger parses an optional sign and the decimal digits that start s,
// ignoring whatever follows them.
func leadingInteger(s string) (*big.Int, bool) {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return nil, false
	}
	return new(big.Int).SetString(s[:end], 10)
}

// FormatInt groups the digits of n by thousands.
func FormatInt(n int64) string {
	return humanize.Comma(n)
}

// FormatBytes renders a byte count with base-1024 units up to GB.
func FormatBytes(n uint64) string {
	if n == 0 {
		return "0 Bytes"
	}

	v := float64(n)
	i := 0
	for v >= 1024 && i < len(byteUnits)-1 {
		v /= 1024
		i++
	}

	rounded, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 2, 64), 64)
	if err != nil {
		rounded = v
	}
	return strconv.FormatFloat(rounded, 'f', -1, 64) + " " + byteUnits[i]
}

// CalculatePercentage returns value/total*100 with two decimals, or "0" when
// total is zero. The result is not clamped: value > total yields more than 100.
func CalculatePercentage(value, total *big.Int) string {
	if total == nil || total.Sign() == 0 {
		return "0"
	}
	if value == nil {
		value = new(big.Int)
	}
	return strconv.FormatFloat(scale(value, total)*100, 'f', 2, 64)
}
