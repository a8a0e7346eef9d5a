package api

import (
	"bytes"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/goccy/go-json"
	"github.com/goccy/go-yaml"

	"github.com/gekatateam/loggate/relay"
)

func printGates(format string, gates []relay.GateInfo) (string, error) {
	switch format {
	case "plain":
		b := new(bytes.Buffer)
		w := tabwriter.NewWriter(b, 1, 1, 1, ' ', 0)
		fmt.Fprintf(w, "%v\t%v\t%v\t%v\t%v\t%v\t%v\n", "name", "sink", "routes", "enabled", "category", "level", "forced")
		fmt.Fprintf(w, "%v\t%v\t%v\t%v\t%v\t%v\t%v\n", "----", "----", "------", "-------", "--------", "-----", "------")

		for _, g := range gates {
			fmt.Fprintf(w, "%v\t%v\t%v\t%v\t%v\t%v\t%v\n",
				g.Name,
				g.Sink,
				emptyStringAsAll(strings.Join(g.Routes, ",")),
				g.State.Enabled,
				emptyStringAsAll(g.State.Category),
				emptyStringAsAll(g.State.Level.String()),
				g.State.Forced,
			)
		}
		w.Flush()
		return b.String(), nil
	case "json":
		result, err := json.Marshal(gates)
		return string(result) + "\n", err
	case "yaml":
		result, err := yaml.Marshal(gates)
		return string(result), err
	default:
		return "", fmt.Errorf("unknown format: %v", format)
	}
}

func emptyStringAsAll(s string) string {
	if len(s) == 0 {
		return "*"
	}
	return s
}
