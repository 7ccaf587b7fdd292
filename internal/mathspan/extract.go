package mathspan

import (
	"sort"
	"time"

	"github.com/dlclark/regexp2"
)

// Patterns used for detection. The inline pattern relies on lookaround so
// that "$$" is never read as two empty inline spans, which is why these are
// compiled with regexp2 rather than the RE2-based standard library.
const (
	BlockPattern  = `\$\$(.*?)\$\$`
	InlinePattern = `(?<!\$)\$((?!\$).+?)(?<!\$)\$`
)

// DefaultMatchTimeout bounds a single regex scan.
const DefaultMatchTimeout = 250 * time.Millisecond

// Extractor scans text for math spans. It is safe for concurrent use.
type Extractor struct {
	block  *regexp2.Regexp
	inline *regexp2.Regexp
}

// NewExtractor creates an extractor with the given per-scan match timeout.
// A non-positive timeout uses DefaultMatchTimeout.
func NewExtractor(timeout time.Duration) *Extractor {
	if timeout <= 0 {
		timeout = DefaultMatchTimeout
	}
	block := regexp2.MustCompile(BlockPattern, regexp2.Singleline)
	block.MatchTimeout = timeout
	inline := regexp2.MustCompile(InlinePattern, regexp2.Singleline)
	inline.MatchTimeout = timeout
	return &Extractor{block: block, inline: inline}
}

var defaultExtractor = NewExtractor(DefaultMatchTimeout)

// Extract returns the math spans in text using the default extractor.
func Extract(text string) []Span {
	return defaultExtractor.Extract(text)
}

// Extract returns the spans in text, sorted by Start, with no two spans
// overlapping. Unterminated delimiters yield no span. A scan that hits the
// match timeout stops early and keeps what it found.
func (e *Extractor) Extract(text string) []Span {
	blocks := scan(e.block, text, KindBlock)

	var spans []Span
	for _, s := range scan(e.inline, text, KindInline) {
		if claimed(blocks, s) {
			continue
		}
		spans = append(spans, s)
	}

	if len(spans) == 0 {
		return blocks
	}
	spans = append(spans, blocks...)
	sort.Slice(spans, func(i, j int) bool {
		return spans[i].Start < spans[j].Start
	})
	return spans
}

// scan collects all non-overlapping matches left to right.
func scan(re *regexp2.Regexp, text string, kind Kind) []Span {
	var spans []Span
	m, err := re.FindStringMatch(text)
	for err == nil && m != nil {
		spans = append(spans, Span{
			Kind:  kind,
			Start: m.Index,
			End:   m.Index + m.Length,
			Raw:   m.String(),
		})
		m, err = re.FindNextMatch(m)
	}
	return spans
}

// claimed reports whether s intersects any of the sorted block spans.
func claimed(blocks []Span, s Span) bool {
	// First block ending after s starts is the only candidate.
	i := sort.Search(len(blocks), func(i int) bool {
		return blocks[i].End > s.Start
	})
	return i < len(blocks) && blocks[i].Overlaps(s)
}
