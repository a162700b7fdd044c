package report

import (
	"context"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// A4 in inches, and the page margins (50mm top/bottom, 30mm left/right).
const (
	a4Width       = 8.27
	a4Height      = 11.69
	marginTopBot  = 50 / 25.4
	marginLeftRgt = 30 / 25.4
)

// Renderer prints a Document to PDF.
type Renderer interface {
	Render(ctx context.Context, doc Document) ([]byte, error)
}

// ChromeRenderer renders with a fresh headless Chrome per call.
type ChromeRenderer struct {
	execPath string
	timeout  time.Duration
}

// NewChromeRenderer returns a renderer.  execPath may be empty to let
// chromedp find Chrome on PATH; timeout bounds a whole render.
func NewChromeRenderer(execPath string, timeout time.Duration) *ChromeRenderer {
	if timeout <= 0 {
		timeout = time.Minute
	}
	return &ChromeRenderer{execPath: execPath, timeout: timeout}
}

// Render loads doc.Body into a blank page, waits for its images and prints
// it on A4 with doc.Header and doc.Footer on every page.
func (r *ChromeRenderer) Render(ctx context.Context, doc Document) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox,
		chromedp.Flag("disable-setuid-sandbox", true),
	)
	if r.execPath != "" {
		opts = append(opts, chromedp.ExecPath(r.execPath))
	}
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	var (
		pdf    []byte
		loaded bool
	)
	err := chromedp.Run(browserCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, doc.Body).Do(ctx)
		}),
		chromedp.Poll(`Array.from(document.images).every(img => img.complete)`, &loaded,
			chromedp.WithPollingInterval(100*time.Millisecond)),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithDisplayHeaderFooter(true).
				WithHeaderTemplate(doc.Header).
				WithFooterTemplate(doc.Footer).
				WithPaperWidth(a4Width).
				WithPaperHeight(a4Height).
				WithMarginTop(marginTopBot).
				WithMarginBottom(marginTopBot).
				WithMarginLeft(marginLeftRgt).
				WithMarginRight(marginLeftRgt).
				Do(ctx)
			pdf = buf
			return err
		}),
	)
	if err != nil {
		return nil, err
	}
	return pdf, nil
}
