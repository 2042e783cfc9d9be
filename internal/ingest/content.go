package ingest

import (
	"bytes"
	"encoding/hex"
	"math"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf16"

	"golang.org/x/text/encoding/charmap"

	"github.com/jackzampolin/docsift/internal/types"
)

type tokenKind int

const (
	tokNumber tokenKind = iota
	tokString
	tokName
	tokArray
	tokOperator
	tokDict
)

type token struct {
	kind tokenKind
	num  float64
	raw  []byte // string bytes, name or operator
	arr  []token
}

// lexer tokenizes a page content stream. Dictionaries and inline image data
// are consumed and reported as opaque tokens.
type lexer struct {
	data []byte
	pos  int
}

func isPDFWhitespace(c byte) bool {
	switch c {
	case ' ', '\t', '\r', '\n', '\f', 0:
		return true
	}
	return false
}

func isPDFDelimiter(c byte) bool {
	switch c {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}

func (lx *lexer) skipSpace() {
	for lx.pos < len(lx.data) {
		c := lx.data[lx.pos]
		switch {
		case isPDFWhitespace(c):
			lx.pos++
		case c == '%':
			for lx.pos < len(lx.data) && lx.data[lx.pos] != '\n' && lx.data[lx.pos] != '\r' {
				lx.pos++
			}
		default:
			return
		}
	}
}

func (lx *lexer) next() (token, bool) {
	for {
		lx.skipSpace()
		if lx.pos >= len(lx.data) {
			return token{}, false
		}

		c := lx.data[lx.pos]
		switch {
		case c == '(':
			lx.pos++
			return token{kind: tokString, raw: lx.literalString()}, true
		case c == '<' && lx.pos+1 < len(lx.data) && lx.data[lx.pos+1] == '<':
			lx.skipDict()
			return token{kind: tokDict}, true
		case c == '<':
			lx.pos++
			return token{kind: tokString, raw: lx.hexString()}, true
		case c == '[':
			lx.pos++
			return token{kind: tokArray, arr: lx.array()}, true
		case c == '/':
			lx.pos++
			return token{kind: tokName, raw: lx.regular()}, true
		case c == ']' || c == ')' || c == '>' || c == '{' || c == '}':
			lx.pos++
			continue
		case c == '+' || c == '-' || c == '.' || (c >= '0' && c <= '9'):
			word := lx.regular()
			if n, err := strconv.ParseFloat(string(word), 64); err == nil {
				return token{kind: tokNumber, num: n}, true
			}
			return token{kind: tokOperator, raw: word}, true
		default:
			word := lx.regular()
			if len(word) == 0 {
				lx.pos++
				continue
			}
			if string(word) == "ID" {
				lx.skipInlineImage()
			}
			return token{kind: tokOperator, raw: word}, true
		}
	}
}

func (lx *lexer) regular() []byte {
	start := lx.pos
	for lx.pos < len(lx.data) {
		c := lx.data[lx.pos]
		if isPDFWhitespace(c) || isPDFDelimiter(c) {
			break
		}
		lx.pos++
	}
	return lx.data[start:lx.pos]
}

// literalString reads up to the balancing ')' and resolves escapes.
func (lx *lexer) literalString() []byte {
	var buf bytes.Buffer
	depth := 1
	for lx.pos < len(lx.data) {
		c := lx.data[lx.pos]
		lx.pos++
		switch c {
		case '(':
			depth++
			buf.WriteByte(c)
		case ')':
			depth--
			if depth == 0 {
				return buf.Bytes()
			}
			buf.WriteByte(c)
		case '\\':
			if lx.pos >= len(lx.data) {
				return buf.Bytes()
			}
			e := lx.data[lx.pos]
			lx.pos++
			switch e {
			case 'n':
				buf.WriteByte('\n')
			case 'r':
				buf.WriteByte('\r')
			case 't':
				buf.WriteByte('\t')
			case 'b':
				buf.WriteByte('\b')
			case 'f':
				buf.WriteByte('\f')
			case '\r':
				// Line continuation
				if lx.pos < len(lx.data) && lx.data[lx.pos] == '\n' {
					lx.pos++
				}
			case '\n':
			default:
				if e >= '0' && e <= '7' {
					val := int(e - '0')
					for k := 0; k < 2 && lx.pos < len(lx.data); k++ {
						d := lx.data[lx.pos]
						if d < '0' || d > '7' {
							break
						}
						val = val*8 + int(d-'0')
						lx.pos++
					}
					buf.WriteByte(byte(val))
				} else {
					buf.WriteByte(e)
				}
			}
		default:
			buf.WriteByte(c)
		}
	}
	return buf.Bytes()
}

func (lx *lexer) hexString() []byte {
	var digits []byte
	for lx.pos < len(lx.data) {
		c := lx.data[lx.pos]
		lx.pos++
		if c == '>' {
			break
		}
		if !isPDFWhitespace(c) {
			digits = append(digits, c)
		}
	}
	if len(digits)%2 == 1 {
		digits = append(digits, '0')
	}
	out := make([]byte, hex.DecodedLen(len(digits)))
	n, err := hex.Decode(out, digits)
	if err != nil {
		return out[:n]
	}
	return out
}

func (lx *lexer) array() []token {
	var items []token
	for {
		lx.skipSpace()
		if lx.pos >= len(lx.data) {
			return items
		}
		if lx.data[lx.pos] == ']' {
			lx.pos++
			return items
		}
		tok, ok := lx.next()
		if !ok {
			return items
		}
		items = append(items, tok)
	}
}

func (lx *lexer) skipDict() {
	depth := 0
	for lx.pos < len(lx.data) {
		switch {
		case bytes.HasPrefix(lx.data[lx.pos:], []byte("<<")):
			depth++
			lx.pos += 2
		case bytes.HasPrefix(lx.data[lx.pos:], []byte(">>")):
			depth--
			lx.pos += 2
			if depth == 0 {
				return
			}
		case lx.data[lx.pos] == '(':
			lx.pos++
			lx.literalString()
		default:
			lx.pos++
		}
	}
}

// skipInlineImage moves past binary data up to a whitespace-delimited EI.
func (lx *lexer) skipInlineImage() {
	for lx.pos+1 < len(lx.data) {
		if lx.data[lx.pos] == 'E' && lx.data[lx.pos+1] == 'I' &&
			lx.pos > 0 && isPDFWhitespace(lx.data[lx.pos-1]) &&
			(lx.pos+2 == len(lx.data) || isPDFWhitespace(lx.data[lx.pos+2])) {
			lx.pos += 2
			return
		}
		lx.pos++
	}
	lx.pos = len(lx.data)
}

// matrix is a PDF transformation matrix [a b c d e f].
type matrix [6]float64

var identity = matrix{1, 0, 0, 1, 0, 0}

// mul returns m × n.
func (m matrix) mul(n matrix) matrix {
	return matrix{
		m[0]*n[0] + m[1]*n[2],
		m[0]*n[1] + m[1]*n[3],
		m[2]*n[0] + m[3]*n[2],
		m[2]*n[1] + m[3]*n[3],
		m[4]*n[0] + m[5]*n[2] + n[4],
		m[4]*n[1] + m[5]*n[3] + n[5],
	}
}

func translate(tx, ty float64) matrix {
	return matrix{1, 0, 0, 1, tx, ty}
}

// fontInfo describes a page font resource.
type fontInfo struct {
	BaseFont string
	Bold     bool
}

// isBoldFont reports whether a font name carries a bold or heavy weight.
func isBoldFont(baseFont string) bool {
	name := strings.ToLower(baseFont)
	return strings.Contains(name, "bold") || strings.Contains(name, "heavy")
}

// fragment is one text-showing operation in device space.
type fragment struct {
	text string
	x, y float64
	size float64
	bold bool
}

// textState interprets the text operators of one page.
type textState struct {
	fonts map[string]fontInfo

	ctm     matrix
	stack   []matrix
	tm, tlm matrix
	leading float64
	font    fontInfo
	size    float64

	fragments []fragment
}

// wordGapThreshold is the TJ displacement, in thousandths of an em, treated
// as an inter-word space.
const wordGapThreshold = -200

func (s *textState) apply(op string, args []token) {
	switch op {
	case "q":
		s.stack = append(s.stack, s.ctm)
	case "Q":
		if n := len(s.stack); n > 0 {
			s.ctm = s.stack[n-1]
			s.stack = s.stack[:n-1]
		}
	case "cm":
		if m, ok := matrixArgs(args); ok {
			s.ctm = m.mul(s.ctm)
		}
	case "BT":
		s.tm, s.tlm = identity, identity
	case "Tf":
		if len(args) == 2 && args[0].kind == tokName && args[1].kind == tokNumber {
			s.font = s.fonts[string(args[0].raw)]
			s.size = args[1].num
		}
	case "TL":
		if len(args) == 1 && args[0].kind == tokNumber {
			s.leading = args[0].num
		}
	case "Td", "TD":
		if len(args) == 2 && args[0].kind == tokNumber && args[1].kind == tokNumber {
			if op == "TD" {
				s.leading = -args[1].num
			}
			s.moveLine(args[0].num, args[1].num)
		}
	case "Tm":
		if m, ok := matrixArgs(args); ok {
			s.tm, s.tlm = m, m
		}
	case "T*":
		s.moveLine(0, -s.leading)
	case "Tj":
		if len(args) == 1 && args[0].kind == tokString {
			s.show(decodeText(args[0].raw))
		}
	case "'":
		s.moveLine(0, -s.leading)
		if len(args) == 1 && args[0].kind == tokString {
			s.show(decodeText(args[0].raw))
		}
	case "\"":
		s.moveLine(0, -s.leading)
		if len(args) == 3 && args[2].kind == tokString {
			s.show(decodeText(args[2].raw))
		}
	case "TJ":
		if len(args) == 1 && args[0].kind == tokArray {
			var b strings.Builder
			for _, item := range args[0].arr {
				switch item.kind {
				case tokString:
					b.WriteString(decodeText(item.raw))
				case tokNumber:
					if item.num <= wordGapThreshold && !strings.HasSuffix(b.String(), " ") {
						b.WriteByte(' ')
					}
				}
			}
			s.show(b.String())
		}
	}
}

func (s *textState) moveLine(tx, ty float64) {
	s.tlm = translate(tx, ty).mul(s.tlm)
	s.tm = s.tlm
}

func (s *textState) show(text string) {
	if text == "" {
		return
	}
	trm := s.tm.mul(s.ctm)
	size := s.size * math.Hypot(trm[2], trm[3])
	if size == 0 {
		size = s.size
	}
	s.fragments = append(s.fragments, fragment{
		text: text,
		x:    trm[4],
		y:    trm[5],
		size: math.Abs(size),
		bold: s.font.Bold,
	})
}

func matrixArgs(args []token) (matrix, bool) {
	if len(args) != 6 {
		return matrix{}, false
	}
	var m matrix
	for i, a := range args {
		if a.kind != tokNumber {
			return matrix{}, false
		}
		m[i] = a.num
	}
	return m, true
}

// decodeText maps PDF string bytes to text: UTF-16BE when it carries a byte
// order mark, Windows-1252 otherwise. Control characters are dropped.
func decodeText(raw []byte) string {
	var text string
	if len(raw) >= 2 && raw[0] == 0xFE && raw[1] == 0xFF {
		units := make([]uint16, 0, (len(raw)-2)/2)
		for i := 2; i+1 < len(raw); i += 2 {
			units = append(units, uint16(raw[i])<<8|uint16(raw[i+1]))
		}
		text = string(utf16.Decode(units))
	} else {
		decoded, err := charmap.Windows1252.NewDecoder().Bytes(raw)
		if err != nil {
			return ""
		}
		text = string(decoded)
	}

	return strings.Map(func(r rune) rune {
		if r == '\t' || r == '\n' || r == '\r' {
			return ' '
		}
		if !unicode.IsPrint(r) && !unicode.IsSpace(r) {
			return -1
		}
		return r
	}, text)
}

// parsePageContent interprets a page content stream and groups text
// fragments sharing a baseline into lines. pageHeight converts PDF's
// bottom-up coordinates to top-down positions.
func parsePageContent(content []byte, fonts map[string]fontInfo, pageHeight float64, page int) []types.TextLine {
	s := &textState{fonts: fonts, ctm: identity, tm: identity, tlm: identity}
	lx := &lexer{data: content}

	var args []token
	for {
		tok, ok := lx.next()
		if !ok {
			break
		}
		if tok.kind != tokOperator {
			args = append(args, tok)
			continue
		}
		s.apply(string(tok.raw), args)
		args = args[:0]
	}

	return groupLines(s.fragments, pageHeight, page)
}

// groupLines merges consecutive fragments on the same baseline. A line takes
// its font size and weight from its first fragment.
func groupLines(frags []fragment, pageHeight float64, page int) []types.TextLine {
	var lines []types.TextLine
	var cur *fragment
	var text strings.Builder
	lastX := 0.0

	flush := func() {
		if cur == nil {
			return
		}
		lines = append(lines, types.TextLine{
			Text:     text.String(),
			FontSize: cur.size,
			Bold:     cur.bold,
			Page:     page,
			Y:        pageHeight - cur.y - cur.size,
		})
		cur = nil
		text.Reset()
	}

	for i := range frags {
		f := frags[i]
		if cur != nil && math.Abs(f.y-cur.y) <= sameLineTolerance(cur.size) {
			prev := text.String()
			if f.x > lastX && !strings.HasSuffix(prev, " ") && !strings.HasPrefix(f.text, " ") {
				text.WriteByte(' ')
			}
			text.WriteString(f.text)
			lastX = f.x
			continue
		}
		flush()
		cur = &frags[i]
		text.WriteString(f.text)
		lastX = f.x
	}
	flush()
	return lines
}

func sameLineTolerance(size float64) float64 {
	return math.Max(1.0, size*0.25)
}
