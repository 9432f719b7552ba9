package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/moto/pkg/reducer"
)

// GenerateMermaid produces a Mermaid flowchart of a composed store:
// - Entry: ((Circle))
// - Middleware: [[Subroutine]], outermost first
// - Reducer node: [Rectangle], nested nodes as subgraphs
// - Field: [/Parallelogram/] labeled with its transitions in order
func GenerateMermaid(root reducer.Description, middleware []string) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")
	sb.WriteString("    dispatch((\"dispatch\"))\n")

	prev := "dispatch"
	for _, name := range middleware {
		id := "mw_" + sanitizeMermaidID(name)
		fmt.Fprintf(&sb, "    %s[[\"%s\"]]\n", id, name)
		fmt.Fprintf(&sb, "    %s --> %s\n", prev, id)
		prev = id
	}

	rootID := sanitizeMermaidID(root.Name)
	fmt.Fprintf(&sb, "    %s --> %s\n", prev, rootID)
	writeNode(&sb, rootID, root, "    ")
	return sb.String()
}

func writeNode(sb *strings.Builder, id string, d reducer.Description, indent string) {
	fmt.Fprintf(sb, "%s%s[\"%s\"]\n", indent, id, d.Name)
	for _, f := range d.Fields {
		fieldID := id + "_" + sanitizeMermaidID(f.Name)
		if f.Sub != nil {
			fmt.Fprintf(sb, "%ssubgraph %s_sub [\"%s\"]\n", indent, fieldID, f.Name)
			writeNode(sb, fieldID, *f.Sub, indent+"    ")
			fmt.Fprintf(sb, "%send\n", indent)
			fmt.Fprintf(sb, "%s%s -. sub .-> %s\n", indent, id, fieldID)
			continue
		}
		label := f.Name
		if len(f.Transitions) > 0 {
			label += " <br/> " + strings.Join(f.Transitions, " → ")
		}
		fmt.Fprintf(sb, "%s%s[/\"%s\"/]\n", indent, fieldID, escapeLabel(label))
		fmt.Fprintf(sb, "%s%s --> %s\n", indent, id, fieldID)
	}
}

func escapeLabel(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
