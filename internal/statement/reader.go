package statement

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// sniffSampleSize is how much of the file is inspected for a delimiter.
const sniffSampleSize = 4096

var candidateDelimiters = []rune{',', ';', '\t', '|'}

// ErrEmptyFile is returned when a file has no header row.
var ErrEmptyFile = errors.New("file has no header row")

// MissingColumnsError reports required fields that no header matched.
type MissingColumnsError struct {
	Missing []Field
	Headers []string
}

func (e *MissingColumnsError) Error() string {
	names := make([]string, len(e.Missing))
	for i, f := range e.Missing {
		names[i] = string(f)
	}
	return "Missing required column(s): " + strings.Join(names, ", ")
}

// Document is a parsed statement file.
type Document struct {
	Headers   []string
	Mapping   HeaderMap
	Delimiter rune
	Rows      []Row
	RowErrors []RowError
}

// ErrorCount is the number of rows that failed to parse.
func (d *Document) ErrorCount() int {
	return len(d.RowErrors)
}

// Decode converts raw statement bytes to UTF-8 text. A UTF-8 or UTF-16 byte
// order mark is honoured and stripped; bytes that are not valid UTF-8 are read
// as Windows-1252, which covers most legacy bank exports.
func Decode(raw []byte) (string, error) {
	hasBOM := bytes.HasPrefix(raw, []byte{0xEF, 0xBB, 0xBF}) ||
		bytes.HasPrefix(raw, []byte{0xFF, 0xFE}) ||
		bytes.HasPrefix(raw, []byte{0xFE, 0xFF})

	if !hasBOM && !utf8.Valid(raw) {
		out, _, err := transform.Bytes(charmap.Windows1252.NewDecoder(), raw)
		if err != nil {
			return "", fmt.Errorf("decoding windows-1252: %w", err)
		}
		return string(out), nil
	}

	out, _, err := transform.Bytes(unicode.BOMOverride(unicode.UTF8.NewDecoder()), raw)
	if err != nil {
		return "", fmt.Errorf("decoding utf-8: %w", err)
	}
	return string(out), nil
}

// SniffDelimiter picks the candidate delimiter that splits the leading lines
// into the same number of fields most consistently. It falls back to comma.
func SniffDelimiter(sample string) rune {
	if len(sample) > sniffSampleSize {
		sample = sample[:sniffSampleSize]
	}

	var lines []string
	for _, line := range strings.Split(sample, "\n") {
		if line = strings.TrimRight(line, "\r"); strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
		if len(lines) == 10 {
			break
		}
	}
	if len(lines) == 0 {
		return ','
	}

	best, bestScore := ',', 0
	for _, d := range candidateDelimiters {
		header := countFields(lines[0], d)
		if header < 2 {
			continue
		}
		score := 0
		for _, line := range lines {
			if countFields(line, d) == header {
				score++
			}
		}
		// consistency first, then width
		score = score*1000 + header
		if score > bestScore {
			best, bestScore = d, score
		}
	}
	return best
}

// countFields counts delimiter-separated fields outside double quotes.
func countFields(line string, delim rune) int {
	n, quoted := 1, false
	for _, r := range line {
		switch {
		case r == '"':
			quoted = !quoted
		case r == delim && !quoted:
			n++
		}
	}
	return n
}

// Parse reads a whole statement from r.
func Parse(r io.Reader) (*Document, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading statement: %w", err)
	}
	return ParseBytes(raw)
}

// ParseBytes decodes, sniffs and parses a statement. Rows that fail to parse
// are collected in RowErrors and never abort the file.
func ParseBytes(raw []byte) (*Document, error) {
	text, err := Decode(raw)
	if err != nil {
		return nil, err
	}

	delim := SniffDelimiter(text)
	cr := csv.NewReader(strings.NewReader(text))
	cr.Comma = delim
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	headers, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyFile
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	for i := range headers {
		headers[i] = strings.TrimSpace(strings.TrimPrefix(headers[i], "\ufeff"))
	}

	doc := &Document{
		Headers:   headers,
		Mapping:   MapHeaders(headers),
		Delimiter: delim,
	}
	if missing := doc.Mapping.Missing(); len(missing) > 0 {
		return doc, &MissingColumnsError{Missing: missing, Headers: headers}
	}

	parser := newRowParser(headers, doc.Mapping)
	for number := 2; ; number++ {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				doc.RowErrors = append(doc.RowErrors, RowError{Row: number, Err: err})
				continue
			}
			return doc, fmt.Errorf("reading row %d: %w", number, err)
		}

		row, err := parser.parse(number, record)
		if err != nil {
			doc.RowErrors = append(doc.RowErrors, RowError{Row: number, Err: err})
			continue
		}
		doc.Rows = append(doc.Rows, row)
	}

	return doc, nil
}
