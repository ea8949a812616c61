// Package linkverify checks a generated site for dangling local links and
// in-page anchors.
package linkverify

import (
	"io/fs"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"git.home.luguber.info/inful/sitebook/internal/foundation/errors"
)

// Reason classifies a broken link.
type Reason string

const (
	ReasonMissingTarget Reason = "missing_target"
	ReasonMissingAnchor Reason = "missing_anchor"
	ReasonInvalidURL    Reason = "invalid_url"
)

// Broken is one dangling link.
type Broken struct {
	Page   string `json:"page"` // slash path relative to the site root
	URL    string `json:"url"`
	Tag    string `json:"tag"`
	Reason Reason `json:"reason"`
}

// Result summarizes a site scan.
type Result struct {
	Pages  int      `json:"pages"`
	Links  int      `json:"links"`
	Broken []Broken `json:"broken"`
}

// OK reports whether no broken links were found.
func (r *Result) OK() bool { return len(r.Broken) == 0 }

// VerifySite scans every .html file under root. Only local links are
// checked; fragments are resolved against ids in the target page.
func VerifySite(root string) (*Result, error) {
	pages, err := htmlFiles(root)
	if err != nil {
		return nil, err
	}

	docs := make(map[string]*Document, len(pages))
	load := func(rel string) (*Document, error) {
		if d, ok := docs[rel]; ok {
			return d, nil
		}
		f, err := os.Open(filepath.Join(root, filepath.FromSlash(rel))) // #nosec G304 -- walking the output tree
		if err != nil {
			return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to open HTML file").
				WithContext("path", rel).Build()
		}
		defer func() { _ = f.Close() }()
		d, err := Parse(f)
		if err != nil {
			return nil, err
		}
		docs[rel] = d
		return d, nil
	}

	res := &Result{Pages: len(pages)}
	for _, page := range pages {
		doc, err := load(page)
		if err != nil {
			return nil, err
		}
		for _, l := range doc.Links {
			if !IsLocal(l.URL) {
				continue
			}
			res.Links++
			reason, err := checkLink(root, page, doc, l.URL, load)
			if err != nil {
				return nil, err
			}
			if reason != "" {
				res.Broken = append(res.Broken, Broken{Page: page, URL: l.URL, Tag: l.Tag, Reason: reason})
			}
		}
	}
	return res, nil
}

func checkLink(root, page string, doc *Document, raw string, load func(string) (*Document, error)) (Reason, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return ReasonInvalidURL, nil
	}
	target := page
	if u.Path != "" {
		if strings.HasPrefix(u.Path, "/") {
			target = path.Clean(strings.TrimPrefix(u.Path, "/"))
		} else {
			target = path.Join(path.Dir(page), u.Path)
		}
		if target == ".." || strings.HasPrefix(target, "../") {
			return ReasonMissingTarget, nil
		}
		if target == "." {
			target = "index.html"
		}
		info, err := os.Stat(filepath.Join(root, filepath.FromSlash(target)))
		if err == nil && info.IsDir() {
			target = path.Join(target, "index.html")
			info, err = os.Stat(filepath.Join(root, filepath.FromSlash(target)))
		}
		if err != nil || info.IsDir() {
			return ReasonMissingTarget, nil
		}
	}

	if u.Fragment == "" || !strings.HasSuffix(target, ".html") {
		return "", nil
	}
	targetDoc := doc
	if target != page {
		if targetDoc, err = load(target); err != nil {
			return "", err
		}
	}
	if !targetDoc.IDs[u.Fragment] {
		return ReasonMissingAnchor, nil
	}
	return "", nil
}

// htmlFiles lists .html files under root as sorted slash paths.
func htmlFiles(root string) ([]string, error) {
	var out []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".html") {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		out = append(out, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to scan site").
			WithContext("path", root).Build()
	}
	sort.Strings(out)
	return out, nil
}
