package stream

import "regexp"

// Match is the result of a successful pattern scan.
//
// Buffer holds every byte accumulated by the scan, including bytes received
// after the match. Index positions refer to Buffer.
type Match struct {
	Buffer []byte

	re    *regexp.Regexp
	index []int
}

// Group returns submatch i, or nil if the group did not participate.
// Group 0 is the whole match.
func (m *Match) Group(i int) []byte {
	start, end := m.Span(i)
	if start < 0 {
		return nil
	}

	return m.Buffer[start:end]
}

// Span returns the start and end offsets of submatch i, or (-1, -1) if the
// group did not participate or does not exist.
func (m *Match) Span(i int) (int, int) {
	if i < 0 || 2*i+1 >= len(m.index) {
		return -1, -1
	}

	return m.index[2*i], m.index[2*i+1]
}

// Start returns the offset of the whole match.
func (m *Match) Start() int {
	start, _ := m.Span(0)

	return start
}

// End returns the offset just past the whole match.
func (m *Match) End() int {
	_, end := m.Span(0)

	return end
}

// Groups returns every capturing group, excluding the whole match.
func (m *Match) Groups() [][]byte {
	n := len(m.index)/2 - 1
	groups := make([][]byte, 0, n)

	for i := 1; i <= n; i++ {
		groups = append(groups, m.Group(i))
	}

	return groups
}

// NamedGroup returns the submatch captured by the group called name.
func (m *Match) NamedGroup(name string) []byte {
	i := m.re.SubexpIndex(name)
	if i < 0 {
		return nil
	}

	return m.Group(i)
}
