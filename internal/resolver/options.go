package resolver

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/tinytelemetry/autocruise/internal/model"
)

// options holds raw option values keyed by option name.
type options map[string]string

func defaultOptions() options {
	return options{
		model.OptionConfigBase: "",
		model.OptionInterval:   "",
		model.OptionView:       "",
	}
}

// applyAttributes copies every autocruise-NAME body attribute into option NAME.
func (o options) applyAttributes(attrs map[string]string) {
	for name, value := range attrs {
		if key, ok := strings.CutPrefix(strings.ToLower(name), model.AttributePrefix); ok {
			o[key] = value
		}
	}
}

// applyQuery applies key=value pairs of a raw query string on top of the
// current options. Values are percent-decoded; a literal '+' stays a '+'.
func (o options) applyQuery(query string) {
	query = strings.TrimPrefix(query, "?")
	if query == "" {
		return
	}
	for _, kv := range strings.Split(query, "&") {
		if kv == "" {
			continue
		}
		key, value, _ := strings.Cut(kv, "=")
		if decoded, err := url.PathUnescape(value); err == nil {
			value = decoded
		}
		o[key] = value
	}
}

var leadingFloat = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// parseSeconds parses the leading decimal number of s, ignoring trailing text.
func parseSeconds(s string) (float64, bool) {
	m := leadingFloat.FindString(strings.TrimSpace(s))
	if m == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
