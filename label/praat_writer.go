package label

import (
	"fmt"
	"strings"
)

// Praat TextGrid text layouts. Number formatting follows the established
// convention of the speech tools that read these files: 20 decimals for
// the file extent and label times, 12 for tier extents.
type PraatLongWriter struct{}

type PraatShortWriter struct{}

func (w *PraatLongWriter) Format(s *Set) (string, error) {
	var sb strings.Builder
	sb.WriteString("File type = \"ooTextFile\"\n")
	sb.WriteString("Object class = \"TextGrid\"\n")
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "xmin = %.20f\n", s.Start())
	fmt.Fprintf(&sb, "xmax = %.20f\n", s.End())
	if s.Len() == 0 {
		sb.WriteString("tiers? <absent>\n")
		return sb.String(), nil
	}
	sb.WriteString("tiers? <exists>\n")
	fmt.Fprintf(&sb, "size = %d\n", s.Len())
	sb.WriteString("item []:\n")

	for i, t := range s.tiers {
		fmt.Fprintf(&sb, "    item [%d]:\n", i+1)
		element := "intervals"
		class := praatIntervalClass
		if t.Kind() == KindPoint {
			element = "points"
			class = praatPointClass
		}
		fmt.Fprintf(&sb, "        class = \"%s\"\n", class)
		fmt.Fprintf(&sb, "        name = \"%s\"\n", escapePraat(t.Name()))
		fmt.Fprintf(&sb, "        xmin = %.12f\n", t.Start())
		fmt.Fprintf(&sb, "        xmax = %.12f\n", t.End())
		fmt.Fprintf(&sb, "        %s: size = %d\n", element, t.Len())

		for j, l := range t.All() {
			fmt.Fprintf(&sb, "        %s [%d]:\n", element, j+1)
			if t2, ok := l.T2(); ok {
				fmt.Fprintf(&sb, "            xmin = %.20f\n", l.T1())
				fmt.Fprintf(&sb, "            xmax = %.20f\n", t2)
				fmt.Fprintf(&sb, "            text = \"%s\"\n", escapePraat(l.Text))
			} else {
				fmt.Fprintf(&sb, "            number = %.20f\n", l.T1())
				fmt.Fprintf(&sb, "            mark = \"%s\"\n", escapePraat(l.Text))
			}
		}
	}
	return sb.String(), nil
}

func (w *PraatLongWriter) Write(s *Set, path string) error {
	return writeFormatted(w, s, path)
}

func (w *PraatShortWriter) Format(s *Set) (string, error) {
	var sb strings.Builder
	sb.WriteString("File type = \"ooTextFile\"\n")
	sb.WriteString("Object class = \"TextGrid\"\n")
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "%.20f\n", s.Start())
	fmt.Fprintf(&sb, "%.20f\n", s.End())
	if s.Len() == 0 {
		sb.WriteString("<absent>\n")
		return sb.String(), nil
	}
	sb.WriteString("<exists>\n")
	fmt.Fprintf(&sb, "%d\n", s.Len())

	for _, t := range s.tiers {
		class := praatIntervalClass
		if t.Kind() == KindPoint {
			class = praatPointClass
		}
		fmt.Fprintf(&sb, "\"%s\"\n", class)
		fmt.Fprintf(&sb, "\"%s\"\n", escapePraat(t.Name()))
		fmt.Fprintf(&sb, "%.12f\n", t.Start())
		fmt.Fprintf(&sb, "%.12f\n", t.End())
		fmt.Fprintf(&sb, "%d\n", t.Len())
		for _, l := range t.All() {
			fmt.Fprintf(&sb, "%.20f\n", l.T1())
			if t2, ok := l.T2(); ok {
				fmt.Fprintf(&sb, "%.20f\n", t2)
			}
			fmt.Fprintf(&sb, "\"%s\"\n", escapePraat(l.Text))
		}
	}
	return sb.String(), nil
}

func (w *PraatShortWriter) Write(s *Set, path string) error {
	return writeFormatted(w, s, path)
}

// escapePraat doubles embedded quotes.
func escapePraat(text string) string {
	return strings.ReplaceAll(text, `"`, `""`)
}
