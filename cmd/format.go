package cmd

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/tutils/pdgen"
)

// output formats of the sample command
const (
	formatLines = "lines"
	formatCSV   = "csv"
	formatJSON  = "json"
)

func formatValue(seq pdgen.Sequence, i int) string {
	if seq.Kind.Discrete() {
		return strconv.FormatInt(seq.Ints[i], 10)
	}
	return strconv.FormatFloat(seq.Floats[i], 'g', -1, 64)
}

type jsonSequence struct {
	Kind   string             `json:"kind"`
	Seed   uint32             `json:"seed"`
	Params map[string]float64 `json:"params"`
	Values interface{}        `json:"values"`
}

// writeSequence writes seq to w in the given format.
func writeSequence(w io.Writer, seq pdgen.Sequence, format string) error {
	switch format {
	case formatLines:
		for i := 0; i < seq.Len(); i++ {
			if _, err := fmt.Fprintln(w, formatValue(seq, i)); err != nil {
				return err
			}
		}
		return nil

	case formatCSV:
		cw := csv.NewWriter(w)
		cw.Write([]string{"index", "value"})
		for i := 0; i < seq.Len(); i++ {
			cw.Write([]string{strconv.Itoa(i), formatValue(seq, i)})
		}
		cw.Flush()
		return cw.Error()

	case formatJSON:
		out := jsonSequence{
			Kind:   seq.Kind.String(),
			Seed:   seq.Seed,
			Params: make(map[string]float64),
			Values: seq.Floats,
		}
		if seq.Kind.Discrete() {
			out.Values = seq.Ints
		}
		for _, name := range pdgen.ParamNames(seq.Kind) {
			v, _ := seq.Params.Get(name)
			out.Params[name] = v
		}
		enc := json.NewEncoder(w)
		return enc.Encode(out)
	}
	return fmt.Errorf("unknown format %q, want %s, %s or %s", format, formatLines, formatCSV, formatJSON)
}
