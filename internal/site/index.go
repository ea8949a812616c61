package site

import (
	"strings"

	"git.home.luguber.info/inful/sitebook/internal/manifest"
)

// Card renders one index card. The badge span appears only when set.
func Card(e manifest.Entry) string {
	badge := ""
	if e.Badge != "" {
		badge = "\n          <span style=\"background:" + e.Color +
			";color:white;padding:0.2rem 0.6rem;border-radius:12px;font-size:0.75rem;font-weight:600;\">" +
			e.Badge + "</span>"
	}
	var b strings.Builder
	b.WriteString(`      <a href="` + e.Slug + `.html" class="card" style="border-left: 4px solid ` + e.Color + `;">` + "\n")
	b.WriteString(`        <div class="card-header">` + "\n")
	b.WriteString(`          <span class="roman">` + e.Roman + `</span>` + badge + "\n")
	b.WriteString(`        </div>` + "\n")
	b.WriteString(`        <h3>` + e.Title + `</h3>` + "\n")
	b.WriteString(`      </a>`)
	return b.String()
}

// Grid joins cards with a blank line between them.
func Grid(entries []manifest.Entry) string {
	cards := make([]string, len(entries))
	for i, e := range entries {
		cards[i] = Card(e)
	}
	return strings.Join(cards, "\n\n")
}
