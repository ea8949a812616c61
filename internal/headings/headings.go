// Package headings finds second-level headings in rendered HTML, tags each
// one with an anchor id and returns the in-page table of contents.
//
// The HTML is tokenized with golang.org/x/net/html rather than matched with
// regular expressions. Only <h2> start tags are rewritten; every other byte
// of the input is written back exactly as it was read.
package headings

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"git.home.luguber.info/inful/sitebook/internal/slug"
)

// Heading is one in-page navigation target.
type Heading struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Process returns content with an id attribute injected into every <h2>
// element, together with the headings in document order. Headings with the
// same text get the same id.
func Process(content string) (string, []Heading) {
	var out strings.Builder
	out.Grow(len(content) + 64)

	var (
		headings []Heading
		open     *openHeading
	)

	z := html.NewTokenizer(strings.NewReader(content))
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			// Reading from a string only ends with io.EOF. An unterminated
			// heading is written back untouched and not indexed.
			if open != nil {
				out.WriteString(open.startRaw)
				out.WriteString(open.inner.String())
			}
			break
		}

		raw := string(z.Raw())

		switch tt {
		case html.StartTagToken:
			name, hasAttr := z.TagName()
			if atom.Lookup(name) == atom.H2 && open == nil {
				open = &openHeading{startRaw: raw, attrs: readAttrs(z, hasAttr)}
				continue
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			if atom.Lookup(name) == atom.H2 && open != nil {
				h := open.heading()
				headings = append(headings, h)
				out.WriteString(open.startTag(h.ID))
				out.WriteString(open.inner.String())
				out.WriteString(raw)
				open = nil
				continue
			}
		case html.TextToken:
			if open != nil {
				open.text.Write(z.Text())
			}
		}

		if open != nil {
			open.inner.WriteString(raw)
		} else {
			out.WriteString(raw)
		}
	}

	return out.String(), headings
}

// Extract returns the headings Process would report, without rewriting.
func Extract(content string) []Heading {
	_, hs := Process(content)
	return hs
}

type openHeading struct {
	startRaw string
	attrs    []html.Attribute
	inner    strings.Builder
	text     bytes.Buffer
}

func (o *openHeading) heading() Heading {
	text := strings.TrimSpace(o.text.String())
	return Heading{ID: slug.Make(text), Text: text}
}

// startTag rebuilds the opening tag with id placed first. When the source tag
// had no id, the remaining attribute bytes are reused verbatim.
func (o *openHeading) startTag(id string) string {
	var b strings.Builder
	b.WriteString(`<h2 id="`)
	b.WriteString(html.EscapeString(id))
	b.WriteByte('"')

	if !hasAttr(o.attrs, "id") {
		// startRaw is "<h2" + rest; keep rest (attributes and closing '>').
		b.WriteString(o.startRaw[len("<h2"):])
		return b.String()
	}
	for _, a := range o.attrs {
		if a.Key == "id" {
			continue
		}
		b.WriteByte(' ')
		b.WriteString(a.Key)
		b.WriteString(`="`)
		b.WriteString(html.EscapeString(a.Val))
		b.WriteByte('"')
	}
	b.WriteByte('>')
	return b.String()
}

func readAttrs(z *html.Tokenizer, more bool) []html.Attribute {
	var attrs []html.Attribute
	for more {
		var key, val []byte
		key, val, more = z.TagAttr()
		attrs = append(attrs, html.Attribute{Key: string(key), Val: string(val)})
	}
	return attrs
}

func hasAttr(attrs []html.Attribute, key string) bool {
	for _, a := range attrs {
		if a.Key == key {
			return true
		}
	}
	return false
}
