package extractor

import (
	"bytes"
	"compress/zlib"
	"encoding/hex"
	"fmt"
	"io"
	"regexp"
	"strings"
	"unicode"

	"github.com/insightdelivered/cc-statement-parser/internal/models"
)

// rawBackend scans content streams directly, without an object parser. It
// handles PDFs whose xref table is damaged and fonts that only carry a
// ToUnicode CMap. Page boundaries are not recovered; everything lands on
// page 1.
type rawBackend struct{}

func (rawBackend) Name() string { return "raw-streams" }

func (rawBackend) Pages(data []byte) ([]models.Page, error) {
	streams := findStreams(data)
	if len(streams) == 0 {
		return nil, fmt.Errorf("no content streams")
	}
	for i := range streams {
		streams[i] = inflate(streams[i])
	}
	cm := loadCMaps(streams)

	page := models.Page{Number: 1}
	for _, s := range streams {
		for _, l := range streamLines(s, cm) {
			page.Lines = append(page.Lines, models.Line{Text: l})
		}
	}
	if len(page.Lines) == 0 {
		return nil, fmt.Errorf("no text operators")
	}
	return []models.Page{page}, nil
}

// findStreams returns the bodies of all stream ... endstream blocks.
func findStreams(data []byte) [][]byte {
	var out [][]byte
	begin, end := []byte("stream"), []byte("endstream")
	for off := 0; off < len(data); {
		i := bytes.Index(data[off:], begin)
		if i < 0 {
			break
		}
		start := off + i + len(begin)
		if start < len(data) && data[start] == '\r' {
			start++
		}
		if start < len(data) && data[start] == '\n' {
			start++
		}
		j := bytes.Index(data[start:], end)
		if j < 0 {
			break
		}
		if j > 0 {
			out = append(out, data[start:start+j])
		}
		off = start + j + len(end)
	}
	return out
}

// inflate returns the zlib-decoded stream, or the input when it is not
// compressed.
func inflate(data []byte) []byte {
	zr, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return data
	}
	defer zr.Close()
	out, err := io.ReadAll(zr)
	if err != nil && len(out) == 0 {
		return data
	}
	return out
}

var (
	hexShowRe   = regexp.MustCompile(`<([0-9A-Fa-f]+)>\s*Tj`)
	litShowRe   = regexp.MustCompile(`\(((?:\\.|[^\\)])*)\)\s*(?:Tj|')`)
	arrayShowRe = regexp.MustCompile(`\[([^\]]*)\]\s*TJ`)
	arrayItemRe = regexp.MustCompile(`<([0-9A-Fa-f]+)>|\(((?:\\.|[^\\)])*)\)`)
	moveRe      = regexp.MustCompile(`[\d.\-]+\s+[\d.\-]+\s+T[dD]\b|\bTm\b|\bT\*`)
	blockRe     = regexp.MustCompile(`(?s)\bBT\b(.*?)\bET\b`)
)

// streamLines walks the BT/ET blocks of a content stream, starting a new
// line on every positioning operator.
func streamLines(stream []byte, cm *cmap) []string {
	content := string(stream)
	if !strings.Contains(content, "BT") {
		return nil
	}
	var lines []string
	var cur strings.Builder
	flush := func() {
		if s := strings.TrimSpace(cur.String()); s != "" {
			lines = append(lines, s)
		}
		cur.Reset()
	}

	for _, block := range textBlocks(content) {
		for _, op := range strings.Split(block, "\n") {
			op = strings.TrimSpace(op)
			if moveRe.MatchString(op) {
				flush()
			}
			if strings.HasSuffix(op, "'") {
				flush()
			}
			cur.WriteString(showText(op, cm))
		}
		flush()
	}
	return lines
}

func textBlocks(content string) []string {
	var blocks []string
	for _, m := range blockRe.FindAllStringSubmatch(content, -1) {
		blocks = append(blocks, m[1])
	}
	return blocks
}

// showText decodes every text-showing operator on one content line.
func showText(op string, cm *cmap) string {
	var b strings.Builder
	for _, m := range hexShowRe.FindAllStringSubmatch(op, -1) {
		b.WriteString(decodeHex(m[1], cm))
	}
	for _, m := range litShowRe.FindAllStringSubmatch(op, -1) {
		b.WriteString(decodeLiteral(m[1], cm))
	}
	for _, m := range arrayShowRe.FindAllStringSubmatch(op, -1) {
		for _, item := range arrayItemRe.FindAllStringSubmatch(m[1], -1) {
			if item[1] != "" {
				b.WriteString(decodeHex(item[1], cm))
			} else {
				b.WriteString(decodeLiteral(item[2], cm))
			}
		}
	}
	return b.String()
}

func decodeHex(h string, cm *cmap) string {
	raw, err := hex.DecodeString(h)
	if err != nil {
		return ""
	}
	if s := cm.decode(raw); s != "" {
		return s
	}
	if len(raw)%2 == 0 {
		var b strings.Builder
		for i := 0; i+1 < len(raw); i += 2 {
			r := rune(raw[i])<<8 | rune(raw[i+1])
			if unicode.IsPrint(r) {
				b.WriteRune(r)
			}
		}
		if b.Len() > 0 {
			return b.String()
		}
	}
	return printable(string(raw))
}

func decodeLiteral(s string, cm *cmap) string {
	raw := unescape(s)
	if d := cm.decode([]byte(raw)); d != "" && mostlyPrintable(d) {
		return d
	}
	return printable(raw)
}

// unescape resolves PDF literal string escapes, including octal codes.
func unescape(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 == len(s) {
			b.WriteByte(c)
			continue
		}
		i++
		switch c = s[i]; c {
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case '0', '1', '2', '3', '4', '5', '6', '7':
			v := int(c - '0')
			for k := 0; k < 2 && i+1 < len(s) && s[i+1] >= '0' && s[i+1] <= '7'; k++ {
				i++
				v = v*8 + int(s[i]-'0')
			}
			b.WriteByte(byte(v))
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

func printable(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) {
			return r
		}
		return -1
	}, s)
}

func mostlyPrintable(s string) bool {
	total, ok := 0, 0
	for _, r := range s {
		total++
		if unicode.IsPrint(r) || unicode.IsSpace(r) {
			ok++
		}
	}
	return total > 0 && ok*2 > total
}

// loadCMaps merges every ToUnicode table found in the streams. Later tables
// win on conflicting codes.
func loadCMaps(streams [][]byte) *cmap {
	merged := &cmap{codes: map[string]string{}}
	for _, s := range streams {
		if !bytes.Contains(s, []byte("beginbf")) {
			continue
		}
		for k, v := range parseCMap(string(s)).codes {
			merged.codes[k] = v
		}
	}
	return merged
}
