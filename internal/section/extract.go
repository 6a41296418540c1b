package section

import (
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/gorewood/nikki/internal/logging"
	"github.com/gorewood/nikki/internal/notionmd"
)

var (
	bracketRe   = regexp.MustCompile(`^\s*【(.+?)】`)
	mealLabelRe = regexp.MustCompile(`^\s*【\s*食事\s*】`)
	// mealLabelsRe finds the label at the start of every line of a block.
	mealLabelsRe = regexp.MustCompile(`(?m)^[ \t]*【\s*食事\s*】`)
)

// Section is one marked block of a diary page. Heading is the marker line
// as written. Body holds the following lines verbatim; for meals it starts
// with the 【食事】 label line.
type Section struct {
	Kind    Kind   `json:"kind"`
	Heading string `json:"heading"`
	Body    string `json:"body"`
}

// Content returns the trimmed body. Meal bodies lose their 【食事】 labels.
func (s Section) Content() string {
	body := s.Body
	if s.Kind == KindMeal {
		body = mealLabelsRe.ReplaceAllString(body, "")
	}
	return strings.TrimSpace(body)
}

// Empty reports whether the section carries no text.
func (s Section) Empty() bool {
	return s.Content() == ""
}

// Document is a diary page split into sections.
type Document struct {
	// Title is the first H1 line, verbatim.
	Title string
	// Rest is the raw text with the Title line removed.
	Rest string
	// Sections lists typed sections in page order. Meal blocks follow the
	// habits section that contains them.
	Sections []Section
	// Other is every line outside a typed section, the Title included.
	Other string
}

// OfKind returns the sections of one kind in page order.
func (d *Document) OfKind(kind Kind) []Section {
	var out []Section
	for _, s := range d.Sections {
		if s.Kind == kind {
			out = append(out, s)
		}
	}
	return out
}

// Body joins the content of every section of kind.
func (d *Document) Body(kind Kind) string {
	if kind == KindOther {
		return d.Other
	}
	var parts []string
	for _, s := range d.OfKind(kind) {
		if c := s.Content(); c != "" {
			parts = append(parts, c)
		}
	}
	return strings.Join(parts, "\n\n")
}

// Typed maps each kind present on the page to its joined content.
// A page without markers yields an empty map.
func (d *Document) Typed() map[Kind]string {
	typed := make(map[Kind]string)
	for _, s := range d.Sections {
		if _, done := typed[s.Kind]; done {
			continue
		}
		typed[s.Kind] = d.Body(s.Kind)
	}
	return typed
}

// Extractor splits pages into sections.
type Extractor struct {
	logger *zap.Logger
}

// NewExtractor returns an extractor that logs section boundaries to logger.
func NewExtractor(logger *zap.Logger) *Extractor {
	return &Extractor{logger: logging.OrNop(logger)}
}

// Extract splits raw with a silent extractor.
func Extract(raw string) *Document {
	return NewExtractor(nil).Extract(raw)
}

// Extract splits raw into typed sections.
//
// A section opens at an H2 naming a kind keyword or at a bare marker line.
// It closes at the next opener, any H1 or H2, a 日付: line, or the end.
// Inside habits, a 【食事】 line opens a meal block that closes at the next
// other 【…】 label or when habits closes.
func (e *Extractor) Extract(raw string) *Document {
	st := &extractState{doc: &Document{}, logger: e.logger}
	for _, line := range notionmd.SplitLines(raw) {
		st.feed(line)
	}
	st.closeSection()

	st.doc.Other = st.other.String()
	st.doc.Rest = st.rest.String()
	return st.doc
}

type extractState struct {
	doc    *Document
	logger *zap.Logger

	other strings.Builder
	rest  strings.Builder

	current *Section
	body    strings.Builder
	meal    *Section
	mealBuf strings.Builder
	meals   []Section

	titled bool
}

func (st *extractState) feed(line string) {
	level := notionmd.HeadingLevel(line)

	if level == 1 && !st.titled {
		st.titled = true
		st.doc.Title = strings.TrimRight(line, "\r\n")
	} else {
		st.rest.WriteString(line)
	}

	if level == 1 || level == 2 || notionmd.IsDateLine(line) {
		st.closeSection()
		if level == 2 {
			if kind, ok := headingKind(line); ok {
				st.openSection(kind, line)
				return
			}
		}
		st.other.WriteString(line)
		return
	}

	if level == 0 {
		if kind, head, rest, ok := bareMarker(line); ok {
			st.closeSection()
			st.openSection(kind, head)
			if strings.TrimSpace(rest) != "" {
				st.body.WriteString(rest)
			}
			return
		}
	}

	if st.current == nil {
		st.other.WriteString(line)
		return
	}

	if st.current.Kind == KindHabits {
		st.trackMeal(line)
	}
	st.body.WriteString(line)
}

// trackMeal opens and closes meal blocks inside a habits section. Further
// 【食事】 labels continue the open block.
func (st *extractState) trackMeal(line string) {
	n := notionmd.Normalize(line)
	switch {
	case mealLabelRe.MatchString(n):
		if st.meal == nil {
			st.meal = &Section{Kind: KindMeal, Heading: strings.TrimRight(line, "\r\n")}
			st.logger.Debug("meal block opened")
		}
	case st.meal != nil && bracketRe.MatchString(n):
		st.closeMeal()
	}
	if st.meal != nil {
		st.mealBuf.WriteString(line)
	}
}

func (st *extractState) openSection(kind Kind, line string) {
	st.current = &Section{Kind: kind, Heading: strings.TrimRight(line, "\r\n")}
	st.logger.Debug("section opened", zap.Stringer("kind", kind))
}

func (st *extractState) closeSection() {
	if st.current == nil {
		return
	}
	st.closeMeal()
	st.current.Body = st.body.String()
	st.doc.Sections = append(st.doc.Sections, *st.current)
	st.doc.Sections = append(st.doc.Sections, st.meals...)
	st.logger.Debug("section closed", zap.Stringer("kind", st.current.Kind), zap.Int("meals", len(st.meals)))
	st.current = nil
	st.body.Reset()
	st.meals = nil
}

func (st *extractState) closeMeal() {
	if st.meal == nil {
		return
	}
	st.meal.Body = st.mealBuf.String()
	st.meals = append(st.meals, *st.meal)
	st.meal = nil
	st.mealBuf.Reset()
}

// headingKind matches an H2 by keyword.
func headingKind(line string) (Kind, bool) {
	text := notionmd.HeadingText(line)
	for _, m := range markers {
		for _, kw := range m.keywords {
			if strings.Contains(text, kw) {
				return m.kind, true
			}
		}
	}
	return KindOther, false
}

// bareMarker matches a non-heading line equal to, or starting with, a
// marker label once all whitespace is removed. A bare keyword also matches.
// head is the marker as written and rest is the text after it.
func bareMarker(line string) (kind Kind, head, rest string, ok bool) {
	c := compact(line)
	if c == "" {
		return KindOther, "", "", false
	}
	trimmed := strings.TrimRight(line, "\r\n")
	for _, m := range markers {
		for _, label := range m.labels {
			if strings.HasPrefix(c, compact(label)) {
				head, rest := splitLabel(line, compact(label))
				return m.kind, head, rest, true
			}
		}
		for _, kw := range m.keywords {
			if c == kw {
				return m.kind, trimmed, "", true
			}
		}
	}
	return KindOther, "", "", false
}

// splitLabel cuts line after the runes that spell the compacted label.
// Whitespace and variation selectors inside the label are skipped.
func splitLabel(line, label string) (head, rest string) {
	remaining := label
	for i, r := range line {
		if remaining == "" {
			head = strings.TrimRight(line[:i], " \t\u00a0")
			rest = strings.TrimLeft(line[i:], " \t\u00a0\u3000")
			if strings.TrimSpace(rest) == "" {
				rest = ""
			}
			return head, rest
		}
		piece := compact(string(r))
		if piece == "" {
			continue
		}
		if !strings.HasPrefix(remaining, piece) {
			break
		}
		remaining = remaining[len(piece):]
	}
	return strings.TrimRight(line, "\r\n"), ""
}

// compact strips whitespace and emoji variation selectors from the NFKC form.
func compact(s string) string {
	s = strings.Join(strings.Fields(notionmd.Normalize(s)), "")
	return strings.ReplaceAll(s, "\ufe0f", "")
}
