package web

import (
	"embed"
	"fmt"
	"html/template"
	"math/big"

	"monad-explorer/internal/format"
	"monad-explorer/internal/models"
	"monad-explorer/internal/search"
)

//go:embed templates/*.html
var templateFS embed.FS

// bytecodePreviewLength is how much contract bytecode is shown collapsed.
const bytecodePreviewLength = 300

func parseTemplates() (*template.Template, error) {
	tmpl, err := template.New("").Funcs(funcMap()).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return tmpl, nil
}

func funcMap() template.FuncMap {
	return template.FuncMap{
		"ether": func(v any) string { return format.FormatEther(toBig(v)) },
		"units": func(v any, decimals int) string { return format.FormatUnits(toBig(v), decimals) },
		"gwei":  func(v any) string { return format.FormatGwei(toBig(v)) },
		"timestamp": func(v any) string {
			return format.FormatTimestamp(toBig(v).Int64())
		},
		"timeAgo": func(v any) string {
			return format.FormatTimeAgo(toBig(v).Int64())
		},
		"truncate": format.TruncateHash,
		"short":    format.ShortHash,
		"number":   func(v any) string { return format.FormatNumber(toBig(v).String()) },
		"bytes": func(v any) string {
			n := toBig(v)
			if !n.IsUint64() {
				return format.FormatBytes(0)
			}
			return format.FormatBytes(n.Uint64())
		},
		"percent": func(value, total any) string {
			return format.CalculatePercentage(toBig(value), toBig(total))
		},
		"label": func(t search.Type) string { return t.Label() },
		"notEmpty": func(s string) bool {
			return s != "" && s != "0x"
		},
	}
}

// toBig accepts the numeric shapes templates hand to the formatters.
func toBig(v any) *big.Int {
	switch n := v.(type) {
	case models.Quantity:
		return n.Big()
	case *big.Int:
		if n == nil {
			return new(big.Int)
		}
		return n
	case string:
		return format.ParseAmount(n)
	case int:
		return big.NewInt(int64(n))
	case int64:
		return big.NewInt(n)
	case uint64:
		return new(big.Int).SetUint64(n)
	default:
		return new(big.Int)
	}
}

type bytecodeView struct {
	Code      string
	Length    int
	Truncated bool
	Expanded  bool
}

// previewBytecode shortens code to the preview length unless full is set.
func previewBytecode(code string, full bool) bytecodeView {
	view := bytecodeView{Code: code, Length: len(code)}
	if len(code) <= bytecodePreviewLength {
		return view
	}
	view.Truncated = true
	view.Expanded = full
	if !full {
		view.Code = code[:bytecodePreviewLength]
	}
	return view
}
