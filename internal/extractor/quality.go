package extractor

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/insightdelivered/cc-statement-parser/internal/models"
)

// statementWords appear on virtually every card statement. Text containing
// none of them is treated as decoding garbage.
var statementWords = []string{
	"statement", "card", "payment", "total", "due", "amount",
	"credit", "debit", "transaction", "date", "balance", "limit",
	"purchase", "minimum", "period",
}

var invisible = strings.NewReplacer(
	"\u200b", "",
	"\u200c", "",
	"\u200d", "",
	"\ufeff", "",
	"\u00ad", "",
	"\t", "  ",
	"\r", "",
)

// cleanPages applies NFKC normalization, strips invisible characters and
// drops blank lines. Line positions are kept.
func cleanPages(pages []models.Page) []models.Page {
	out := make([]models.Page, 0, len(pages))
	for _, p := range pages {
		cp := models.Page{Number: p.Number}
		for _, l := range p.Lines {
			text := strings.TrimSpace(invisible.Replace(norm.NFKC.String(l.Text)))
			if text == "" {
				continue
			}
			l.Text = text
			cp.Lines = append(cp.Lines, l)
		}
		if len(cp.Lines) > 0 {
			out = append(out, cp)
		}
	}
	return out
}

// textQuality returns the share of characters that are ASCII letters,
// digits, whitespace, common punctuation or currency signs.
func textQuality(pages []models.Page) float64 {
	total, readable := 0, 0
	for _, p := range pages {
		for _, l := range p.Lines {
			for _, r := range l.Text {
				total++
				if r < unicode.MaxASCII && (unicode.IsPrint(r) || unicode.IsSpace(r)) {
					readable++
					continue
				}
				switch r {
				case '₹', '£', '€', '¥':
					readable++
				}
			}
		}
	}
	if total == 0 {
		return 0
	}
	return float64(readable) / float64(total)
}

func containsStatementWords(pages []models.Page) bool {
	var b strings.Builder
	for _, p := range pages {
		for _, l := range p.Lines {
			b.WriteString(strings.ToLower(l.Text))
			b.WriteByte('\n')
		}
	}
	text := b.String()
	for _, w := range statementWords {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}

func textLen(pages []models.Page) int {
	n := 0
	for _, p := range pages {
		for _, l := range p.Lines {
			n += len(strings.TrimSpace(l.Text))
		}
	}
	return n
}

// isReadable requires more than 50 characters, more than 60% readable
// characters and at least one statement word.
func isReadable(pages []models.Page) bool {
	return textLen(pages) > 50 && textQuality(pages) > 0.6 && containsStatementWords(pages)
}

// collapsed reports a page whose rows were flattened into one long line.
// Line-oriented issuer parsers cannot use such output.
func collapsed(pages []models.Page) bool {
	for _, p := range pages {
		if len(p.Lines) == 1 && len(p.Lines[0].Text) > 300 {
			return true
		}
	}
	return false
}
