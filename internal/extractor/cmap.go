package extractor

import (
	"encoding/hex"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf16"
)

// cmap maps glyph codes (upper-case hex) to Unicode text, as declared by a
// font's ToUnicode stream.
type cmap struct {
	codes map[string]string
}

var (
	bfCharRe  = regexp.MustCompile(`(?s)beginbfchar\s*(.*?)\s*endbfchar`)
	bfRangeRe = regexp.MustCompile(`(?s)beginbfrange\s*(.*?)\s*endbfrange`)
	hexTokRe  = regexp.MustCompile(`<([0-9A-Fa-f]+)>`)
)

func parseCMap(content string) *cmap {
	cm := &cmap{codes: map[string]string{}}

	for _, block := range bfCharRe.FindAllStringSubmatch(content, -1) {
		toks := hexTokRe.FindAllStringSubmatch(block[1], -1)
		for i := 0; i+1 < len(toks); i += 2 {
			if u := utf16Hex(toks[i+1][1]); u != "" {
				cm.codes[strings.ToUpper(toks[i][1])] = u
			}
		}
	}

	for _, block := range bfRangeRe.FindAllStringSubmatch(content, -1) {
		for _, line := range strings.Split(block[1], "\n") {
			cm.addRange(strings.TrimSpace(line))
		}
	}
	return cm
}

// addRange handles both range forms:
//
//	<lo> <hi> <dst>
//	<lo> <hi> [<dst1> <dst2> ...]
func (cm *cmap) addRange(line string) {
	if line == "" {
		return
	}
	head, tail, isArray := strings.Cut(line, "[")
	toks := hexTokRe.FindAllStringSubmatch(head, -1)
	if len(toks) < 2 {
		return
	}
	width := len(toks[0][1])
	lo, err1 := strconv.ParseUint(toks[0][1], 16, 32)
	hi, err2 := strconv.ParseUint(toks[1][1], 16, 32)
	if err1 != nil || err2 != nil || hi < lo {
		return
	}

	if isArray {
		for i, dst := range hexTokRe.FindAllStringSubmatch(tail, -1) {
			if u := utf16Hex(dst[1]); u != "" {
				cm.codes[codeKey(lo+uint64(i), width)] = u
			}
		}
		return
	}

	if len(toks) < 3 {
		return
	}
	dstWidth := len(toks[2][1])
	dst, err := strconv.ParseUint(toks[2][1], 16, 32)
	if err != nil {
		return
	}
	for code := lo; code <= hi; code++ {
		if u := utf16Hex(codeKey(dst+code-lo, dstWidth)); u != "" {
			cm.codes[codeKey(code, width)] = u
		}
	}
}

func codeKey(code uint64, width int) string {
	s := strings.ToUpper(strconv.FormatUint(code, 16))
	if len(s) < width {
		s = strings.Repeat("0", width-len(s)) + s
	}
	return s
}

// decode maps raw string bytes through the table. Code width is taken from
// the table's keys; unmapped two-byte codes retry as single bytes.
func (cm *cmap) decode(raw []byte) string {
	if cm == nil || len(cm.codes) == 0 {
		return ""
	}
	width := 1
	for k := range cm.codes {
		if len(k) >= 4 {
			width = 2
		}
		break
	}

	var b strings.Builder
	for i := 0; i+width <= len(raw); {
		key := strings.ToUpper(hex.EncodeToString(raw[i : i+width]))
		if u, ok := cm.codes[key]; ok {
			b.WriteString(u)
			i += width
			continue
		}
		if width > 1 {
			if u, ok := cm.codes[strings.ToUpper(hex.EncodeToString(raw[i:i+1]))]; ok {
				b.WriteString(u)
				i++
				continue
			}
		} else if raw[i] >= 0x20 && raw[i] < 0x7f {
			b.WriteByte(raw[i])
		}
		i += width
	}
	return b.String()
}

// utf16Hex decodes a big-endian UTF-16 hex string, joining surrogate
// pairs.
func utf16Hex(h string) string {
	if len(h)%2 != 0 {
		h = "0" + h
	}
	data, err := hex.DecodeString(h)
	if err != nil || len(data) == 0 {
		return ""
	}
	if len(data) == 1 {
		return string(rune(data[0]))
	}
	units := make([]uint16, 0, len(data)/2)
	for i := 0; i+1 < len(data); i += 2 {
		units = append(units, uint16(data[i])<<8|uint16(data[i+1]))
	}
	return string(utf16.Decode(units))
}
