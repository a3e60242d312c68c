package op

import "strings"

// Apply applies an operation to content, returning the resulting content.
// It operates on Unicode scalar values via line/column coordinates, so it
// is mainly useful for tests and demos verifying convergence, not as a
// production document store.
func Apply(content string, o Operation) string {
	lines := strings.Split(content, "\n")

	switch o.Kind {
	case Insert:
		return spliceInsert(lines, o.Position, o.Text)
	case Delete:
		return spliceDelete(lines, o.Start, o.End)
	case Replace:
		deleted := spliceDelete(lines, o.Start, o.End)
		return spliceInsert(strings.Split(deleted, "\n"), o.Start, o.Text)
	default:
		return content
	}
}

func spliceInsert(lines []string, pos Position, text string) string {
	line := []rune(safeLine(lines, pos.Line))
	col := int(pos.Column)
	if col > len(line) {
		col = len(line)
	}
	newContent := string(line[:col]) + text + string(line[col:])
	newLines := append([]string{}, lines...)
	if int(pos.Line) < len(newLines) {
		replaced := strings.Split(newContent, "\n")
		newLines = append(newLines[:pos.Line], append(replaced, newLines[pos.Line+1:]...)...)
	}
	return strings.Join(newLines, "\n")
}

func spliceDelete(lines []string, start, end Position) string {
	if start == end {
		return strings.Join(lines, "\n")
	}
	startLine := []rune(safeLine(lines, start.Line))
	endLine := []rune(safeLine(lines, end.Line))

	startCol := clamp(int(start.Column), len(startLine))
	endCol := clamp(int(end.Column), len(endLine))

	merged := string(startLine[:startCol]) + string(endLine[endCol:])

	newLines := append([]string{}, lines...)
	if int(end.Line) < len(newLines) {
		newLines = append(newLines[:start.Line], append([]string{merged}, newLines[end.Line+1:]...)...)
	}
	return strings.Join(newLines, "\n")
}

func safeLine(lines []string, n uint32) string {
	if int(n) < len(lines) {
		return lines[n]
	}
	return ""
}

func clamp(v, max int) int {
	if v < 0 {
		return 0
	}
	if v > max {
		return max
	}
	return v
}
