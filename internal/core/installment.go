package core

import (
	"fmt"
	"strconv"
	"strings"
)

// AutoGeneratedMarker prefixes the observation of every installment
// member derived from the anchor submission, so system-generated rows
// stay distinguishable from what the user typed in.
const AutoGeneratedMarker = "[auto-generated] "

// InstallmentLabel is a parsed "current/total" installment marker.
type InstallmentLabel struct {
	Current int
	Total   int
}

// ParseInstallmentLabel parses an "i/N" label. ok is false for anything
// that is not two positive integers with current <= total; such labels
// fall through to the single-record path rather than erroring.
func ParseInstallmentLabel(s string) (InstallmentLabel, bool) {
	cur, total, found := strings.Cut(strings.TrimSpace(s), "/")
	if !found {
		return InstallmentLabel{}, false
	}
	c, err := strconv.Atoi(strings.TrimSpace(cur))
	if err != nil {
		return InstallmentLabel{}, false
	}
	t, err := strconv.Atoi(strings.TrimSpace(total))
	if err != nil {
		return InstallmentLabel{}, false
	}
	if c < 1 || t < 1 || c > t {
		return InstallmentLabel{}, false
	}
	return InstallmentLabel{Current: c, Total: t}, true
}

// Format renders the label for member i of the series.
func (l InstallmentLabel) Format(i int) string {
	return fmt.Sprintf("%d/%d", i, l.Total)
}
