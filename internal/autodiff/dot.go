package autodiff

import (
	"fmt"
	"io"
	"strings"
)

// ToDOT renders the graph that produced outputs in Graphviz DOT format, for
// debugging. Values are ellipses labeled with their name and shape; recorded
// operations are boxes. The format carries no compatibility guarantee.
func ToDOT(outputs ...Computed) string {
	var sb strings.Builder
	_ = WriteDOT(&sb, outputs...)
	return sb.String()
}

// WriteDOT writes the output of ToDOT to w.
func WriteDOT(w io.Writer, outputs ...Computed) error {
	d := &dotWriter{w: w, ids: make(map[*node]int)}
	d.printf("digraph G {\n")
	for _, out := range outputs {
		d.value(out)
	}
	for i, fc := range CollectCallRecords(outputs) {
		d.printf("  r%d [label=%q, shape=box];\n", i, fc.Name())
		for _, in := range fc.inputs {
			d.printf("  h%d -> r%d;\n", d.value(in), i)
		}
		for _, out := range fc.Outputs() {
			d.printf("  r%d -> h%d;\n", i, d.value(out))
		}
	}
	d.printf("}\n")
	return d.err
}

type dotWriter struct {
	w   io.Writer
	ids map[*node]int
	err error
}

func (d *dotWriter) printf(format string, args ...any) {
	if d.err != nil {
		return
	}
	_, d.err = fmt.Fprintf(d.w, format, args...)
}

// value returns the id of c, declaring it on first sight.
func (d *dotWriter) value(c Computed) int {
	if id, found := d.ids[c.n]; found {
		return id
	}
	id := len(d.ids)
	d.ids[c.n] = id
	label := c.n.name
	if label == "" {
		label = fmt.Sprintf("#%d", id)
	}
	d.printf("  h%d [label=%q];\n", id, label+" "+c.n.data.Shape().String())
	return id
}
