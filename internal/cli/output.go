package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/danielpatrickdp/sustainability-index/internal/pillar"
)

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printScore writes one line per score, plus the veto when present.
func printScore(w io.Writer, s pillar.Score) {
	fmt.Fprintf(w, "%-15s %6.2f  %-11s raw=%.4f\n", s.Pipeline, s.Value, s.Band, s.Raw)
	if s.Veto != nil {
		fmt.Fprintf(w, "  veto: %s (strength %.2f)\n", s.Veto.Reason, s.Veto.Strength)
	}
}
