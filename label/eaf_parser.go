package label

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"math"
	"strconv"
	"strings"
)

type eafDocument struct {
	XMLName   xml.Name      `xml:"ANNOTATION_DOCUMENT"`
	TimeSlots []eafTimeSlot `xml:"TIME_ORDER>TIME_SLOT"`
	Tiers     []eafTier     `xml:"TIER"`
}

type eafTimeSlot struct {
	ID    string `xml:"TIME_SLOT_ID,attr"`
	Value string `xml:"TIME_VALUE,attr"`
}

type eafTier struct {
	Attrs       []xml.Attr      `xml:",any,attr"`
	Annotations []eafAnnotation `xml:"ANNOTATION"`
}

func (t *eafTier) attr(name string) string {
	for _, a := range t.Attrs {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

type eafAnnotation struct {
	Alignable *eafAlignable `xml:"ALIGNABLE_ANNOTATION"`
	Ref       *eafRef       `xml:"REF_ANNOTATION"`
}

type eafAlignable struct {
	ID    string `xml:"ANNOTATION_ID,attr"`
	Slot1 string `xml:"TIME_SLOT_REF1,attr"`
	Slot2 string `xml:"TIME_SLOT_REF2,attr"`
	Value string `xml:"ANNOTATION_VALUE"`
}

type eafRef struct {
	ID       string `xml:"ANNOTATION_ID,attr"`
	Ref      string `xml:"ANNOTATION_REF,attr"`
	Previous string `xml:"PREVIOUS_ANNOTATION,attr"`
	Value    string `xml:"ANNOTATION_VALUE"`
}

// eafSpan is a resolved annotation extent in milliseconds.
type eafSpan struct {
	t1, t2 float64
}

// eafResolver turns time slot references into times. Unfilled slots are
// filled in as runs are subdivided so that dependents can use them.
type eafResolver struct {
	path  string
	tier  string
	slots map[string]float64 // filled slots only
	spans map[string]eafSpan // by annotation id
}

func parseEAF(data []byte, o *readOptions, s *Set) error {
	dec, err := newEAFDecoder(data, o, s)
	if err != nil {
		return err
	}
	var doc eafDocument
	if err := dec.Decode(&doc); err != nil {
		pe := &ParseError{Format: FormatEAF, Path: o.path, Expected: "ELAN annotation document", Err: err}
		var se *xml.SyntaxError
		if errors.As(err, &se) {
			pe.Line = se.Line
		}
		return pe
	}

	res := &eafResolver{
		path:  o.path,
		slots: make(map[string]float64, len(doc.TimeSlots)),
		spans: make(map[string]eafSpan),
	}
	for _, ts := range doc.TimeSlots {
		if strings.TrimSpace(ts.Value) == "" {
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(ts.Value), 64)
		if err != nil || !finite(v) {
			return res.fail("numeric TIME_VALUE", ts.Value, err)
		}
		res.slots[ts.ID] = v
	}

	// tiers keep document order in the set
	tiers := make([]Tier, len(doc.Tiers))
	for i := range doc.Tiers {
		et := &doc.Tiers[i]
		meta := make(map[string]string, len(et.Attrs))
		for _, a := range et.Attrs {
			meta[a.Name.Local] = a.Value
		}
		tiers[i] = NewIntervalTier(et.attr("TIER_ID"), WithMeta(meta))
		if err := s.Add(tiers[i]); err != nil {
			return err
		}
	}

	order, err := res.sortTiers(doc.Tiers)
	if err != nil {
		return err
	}
	for _, i := range order {
		res.tier = tiers[i].Name()
		if err := res.readTier(&doc.Tiers[i], tiers[i]); err != nil {
			return err
		}
	}
	return nil
}

// newEAFDecoder honors the XML declaration's encoding, unless the caller
// asked for one or the data starts with a byte-order mark.
func newEAFDecoder(data []byte, o *readOptions, s *Set) (*xml.Decoder, error) {
	if _, bomLen := DetectEncoding(data); bomLen == 0 && o.encoding == "" {
		dec := xml.NewDecoder(bytes.NewReader(data))
		dec.CharsetReader = charsetReader
		return dec, nil
	}
	text, err := decodeText(data, o.encoding, s)
	if err != nil {
		return nil, err
	}
	dec := xml.NewDecoder(strings.NewReader(text))
	// already decoded, whatever the declaration says
	dec.CharsetReader = func(_ string, input io.Reader) (io.Reader, error) {
		return input, nil
	}
	return dec, nil
}

// sortTiers orders tier indexes parents first, keeping document order
// among tiers that are ready at the same time.
func (res *eafResolver) sortTiers(tiers []eafTier) ([]int, error) {
	byID := make(map[string]int, len(tiers))
	for i := range tiers {
		byID[tiers[i].attr("TIER_ID")] = i
	}
	for i := range tiers {
		parent := tiers[i].attr("PARENT_REF")
		if _, ok := byID[parent]; parent != "" && !ok {
			res.tier = tiers[i].attr("TIER_ID")
			return nil, res.fail("PARENT_REF naming a tier", parent, ErrNotFound)
		}
	}

	done := make([]bool, len(tiers))
	order := make([]int, 0, len(tiers))
	for len(order) < len(tiers) {
		progressed := false
		for i := range tiers {
			if done[i] {
				continue
			}
			parent := tiers[i].attr("PARENT_REF")
			if parent == "" || done[byID[parent]] {
				done[i] = true
				order = append(order, i)
				progressed = true
			}
		}
		if !progressed {
			for i := range tiers {
				if !done[i] {
					res.tier = tiers[i].attr("TIER_ID")
					break
				}
			}
			return nil, res.fail("acyclic PARENT_REF chain", "", nil)
		}
	}
	return order, nil
}

func (res *eafResolver) readTier(et *eafTier, t Tier) error {
	var run []*eafAlignable
	refGroups := make(map[string][]*eafRef)
	var refOrder []string

	for _, a := range et.Annotations {
		switch {
		case a.Alignable != nil:
			run = append(run, a.Alignable)
			if len(run) == 1 {
				if _, ok := res.slots[run[0].Slot1]; !ok {
					return res.fail("time value for the first slot of a run", run[0].Slot1, nil)
				}
			}
			if _, ok := res.slots[a.Alignable.Slot2]; !ok {
				continue
			}
			if err := res.closeRun(run, t); err != nil {
				return err
			}
			run = nil
		case a.Ref != nil:
			if _, ok := refGroups[a.Ref.Ref]; !ok {
				refOrder = append(refOrder, a.Ref.Ref)
			}
			refGroups[a.Ref.Ref] = append(refGroups[a.Ref.Ref], a.Ref)
		default:
			return res.fail("ALIGNABLE_ANNOTATION or REF_ANNOTATION", "", nil)
		}
	}
	if len(run) > 0 {
		return res.fail("time value closing the annotation run", run[len(run)-1].Slot2, nil)
	}

	for _, parent := range refOrder {
		span, ok := res.spans[parent]
		if !ok {
			return res.fail("ANNOTATION_REF naming a resolved annotation", parent, ErrNotFound)
		}
		group := chainRefs(refGroups[parent])
		steps := subdivide(span, len(group))
		for i, ref := range group {
			if err := res.add(t, ref.ID, ref.Value, steps[i]); err != nil {
				return err
			}
		}
	}
	return nil
}

// closeRun spreads a run of alignable annotations evenly over the time
// between the first start slot and the last end slot, filling in the
// unfilled slots in between.
func (res *eafResolver) closeRun(run []*eafAlignable, t Tier) error {
	span := eafSpan{t1: res.slots[run[0].Slot1], t2: res.slots[run[len(run)-1].Slot2]}
	steps := subdivide(span, len(run))
	for i, a := range run {
		if i > 0 {
			res.slots[a.Slot1] = steps[i].t1
		}
		if err := res.add(t, a.ID, a.Value, steps[i]); err != nil {
			return err
		}
	}
	return nil
}

func (res *eafResolver) add(t Tier, id, text string, span eafSpan) error {
	l, err := NewInterval(text, span.t1/1000, span.t2/1000)
	if err != nil {
		return res.fail("end time >= start time", id, err)
	}
	if err := t.Add(l); err != nil {
		return res.fail("label within tier", id, err)
	}
	if id != "" {
		res.spans[id] = span
	}
	return nil
}

// subdivide splits span into n parts on whole milliseconds. The last part
// ends exactly at span.t2.
func subdivide(span eafSpan, n int) []eafSpan {
	out := make([]eafSpan, n)
	step := (span.t2 - span.t1) / float64(n)
	for i := range out {
		out[i] = eafSpan{
			t1: span.t1 + math.Round(float64(i)*step),
			t2: span.t1 + math.Round(float64(i+1)*step),
		}
	}
	out[0].t1 = span.t1
	out[n-1].t2 = span.t2
	return out
}

// chainRefs orders sibling references by their PREVIOUS_ANNOTATION links.
// Siblings outside the chain follow in document order.
func chainRefs(group []*eafRef) []*eafRef {
	if len(group) < 2 {
		return group
	}
	byPrev := make(map[string]*eafRef, len(group))
	ids := make(map[string]bool, len(group))
	for _, r := range group {
		byPrev[r.Previous] = r
		ids[r.ID] = true
	}
	var head *eafRef
	for _, r := range group {
		if r.Previous == "" || !ids[r.Previous] {
			head = r
			break
		}
	}
	if head == nil {
		return group
	}

	out := make([]*eafRef, 0, len(group))
	used := make(map[*eafRef]bool, len(group))
	for r := head; r != nil && !used[r]; r = byPrev[r.ID] {
		out = append(out, r)
		used[r] = true
	}
	for _, r := range group {
		if !used[r] {
			out = append(out, r)
		}
	}
	return out
}

func (res *eafResolver) fail(expected, got string, err error) *ParseError {
	return &ParseError{
		Format:   FormatEAF,
		Path:     res.path,
		Tier:     res.tier,
		Expected: expected,
		Got:      got,
		Err:      err,
	}
}
