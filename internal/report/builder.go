// Package report turns a report request into a printable HTML document and
// renders it to PDF with headless Chrome.
package report

import (
	"encoding/base64"
	"fmt"
	"html"
	"io/fs"
	"strings"
	"time"

	"github.com/valyala/fasttemplate"
)

// Type names the report layout.
type Type string

// TypeAerialsmiths is the only layout shipped.
const TypeAerialsmiths Type = "aerialsmiths"

// MaxImages caps the number of photos on one report.
const MaxImages = 20

// Asset paths inside the assets filesystem.
const (
	TemplatePath          = "html/report-template.html"
	LocatorSignaturePath  = "images/locator-signature.png"
	DirectorSignaturePath = "images/director-signature.png"
	HeaderLogoPath        = "images/header-logo.png"
	FooterLogoPath        = "images/footer-logo.png"
)

const (
	serviceDateLayout = "02/01/2006"
	headerMonthLayout = "January 2006"
)

// Request is a validated generate-report payload.
type Request struct {
	Type          Type
	Date          time.Time
	Address       string
	ClientName    string
	Title         string
	DateOfService time.Time
	Images        []string
}

// Document is what the renderer prints: the page body plus the header and
// footer repeated on every page.
type Document struct {
	Body   string
	Header string
	Footer string
}

// Builder fills the report template.
type Builder struct {
	assets fs.FS
	loc    *time.Location
}

// NewBuilder reads templates and images from assets.  Dates are formatted in
// loc; nil means UTC.
func NewBuilder(assets fs.FS, loc *time.Location) *Builder {
	if loc == nil {
		loc = time.UTC
	}
	return &Builder{assets: assets, loc: loc}
}

// Build produces the document for req.  ref is the generation instant; its
// Unix milliseconds become the "Our Ref" number in the header.
func (b *Builder) Build(req Request, ref time.Time) (Document, error) {
	tpl, err := fs.ReadFile(b.assets, TemplatePath)
	if err != nil {
		return Document{}, fmt.Errorf("read template: %w", err)
	}
	locator, err := b.dataURI(LocatorSignaturePath)
	if err != nil {
		return Document{}, err
	}
	director, err := b.dataURI(DirectorSignaturePath)
	if err != nil {
		return Document{}, err
	}
	headerLogo, err := b.dataURI(HeaderLogoPath)
	if err != nil {
		return Document{}, err
	}
	footerLogo, err := b.dataURI(FooterLogoPath)
	if err != nil {
		return Document{}, err
	}

	body := fasttemplate.ExecuteStringStd(string(tpl), "{{", "}}", map[string]interface{}{
		"ADDRESS":                  FormatAddress(req.Address),
		"CLIENT_NAME":              html.EscapeString(req.ClientName),
		"TITLE":                    html.EscapeString(req.Title),
		"DATE_OF_SERVICE":          req.DateOfService.In(b.loc).Format(serviceDateLayout),
		"IMAGES":                   FormatImages(req.Images),
		"LOCATOR_SIGNATURE_IMAGE":  locator,
		"DIRECTOR_SIGNATURE_IMAGE": director,
	})

	header := fasttemplate.ExecuteString(headerTemplate, "{{", "}}", map[string]interface{}{
		"LOGO":  headerLogo,
		"REF":   fmt.Sprintf("%d", ref.UnixMilli()),
		"MONTH": req.Date.In(b.loc).Format(headerMonthLayout),
	})
	footer := fasttemplate.ExecuteString(footerTemplate, "{{", "}}", map[string]interface{}{
		"LOGO": footerLogo,
	})
	return Document{Body: body, Header: header, Footer: footer}, nil
}

func (b *Builder) dataURI(path string) (string, error) {
	data, err := fs.ReadFile(b.assets, path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(data), nil
}

// FormatAddress trims every line, drops blank ones and joins the rest with
// HTML line breaks.
func FormatAddress(address string) string {
	lines := strings.Split(strings.ReplaceAll(strings.TrimSpace(address), "\r\n", "\n"), "\n")
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, html.EscapeString(l))
		}
	}
	return strings.Join(out, "<br />")
}

// FormatImages renders one <img> per non-blank URL, numbered from 1 in the
// alt text.
func FormatImages(urls []string) string {
	var parts []string
	for _, u := range urls {
		u = strings.TrimSpace(u)
		if u == "" {
			continue
		}
		parts = append(parts, fmt.Sprintf(
			`<img style="width: 100%%; height: auto; object-fit: cover; aspect-ratio: 1 / 1.3;" src="%s" alt="Image %d" />`,
			html.EscapeString(u), len(parts)+1))
	}
	return strings.Join(parts, "\n")
}

const pageBandStyle = `padding-left: 30mm; padding-right: 30mm; padding-top: 10mm; padding-bottom: 10mm; display: flex; justify-content: space-between; width: 100%; font-family: Georgia, 'Times New Roman', Times, serif; line-height: 1.5;`

// Chrome fills pageNumber and totalPages spans in header/footer templates.
const headerTemplate = `<div style="` + pageBandStyle + ` align-items: start;">
	<div><img style="height: 70pt; width: auto; object-fit: cover;" src="{{LOGO}}" alt="Header logo" /></div>
	<div><p style="font-size: 10pt; color: black;">Our Ref: {{REF}}<br />{{MONTH}}</p></div>
</div>`

const footerTemplate = `<div style="` + pageBandStyle + ` align-items: center;">
	<div><img style="height: 70pt; width: auto; object-fit: cover;" src="{{LOGO}}" alt="Footer logo" /></div>
	<div><p style="font-size: 10pt; color: black;"><span class="pageNumber"></span>/<span class="totalPages"></span></p></div>
</div>`
