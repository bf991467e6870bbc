package browser

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/chromedp"
)

const defaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/125.0 Safari/537.36"

// Options configures the Chrome process started by Open.
type Options struct {
	Headless  bool
	ExecPath  string
	UserAgent string
	Lang      string
	Logger    *log.Logger
}

// Launcher opens a fresh Chrome per call.
type Launcher struct {
	Options Options
}

func (l Launcher) Open(ctx context.Context) (Session, error) {
	c, err := Open(ctx, l.Options)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Chrome is a Session backed by a chromedp tab.
type Chrome struct {
	ctx         context.Context
	cancel      context.CancelFunc
	allocCancel context.CancelFunc
	logger      *log.Logger
	once        sync.Once
}

// Open starts Chrome and returns its first tab. The browser outlives ctx;
// only Quit shuts it down.
func Open(ctx context.Context, opts Options) (*Chrome, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	ua := opts.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}
	lang := opts.Lang
	if lang == "" {
		lang = "en-GB"
	}

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", opts.Headless),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("start-maximized", true),
		chromedp.Flag("lang", lang),
		chromedp.UserAgent(ua),
	)
	execPath := opts.ExecPath
	if execPath == "" {
		execPath = os.Getenv("CHROME_PATH")
	}
	if execPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(execPath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.WithoutCancel(ctx), allocOpts...)
	bctx, cancel := chromedp.NewContext(allocCtx, chromedp.WithLogf(logger.Printf))

	c := &Chrome{ctx: bctx, cancel: cancel, allocCancel: allocCancel, logger: logger}
	if err := c.run(ctx, chromedp.Navigate("about:blank")); err != nil {
		cancel()
		allocCancel()
		return nil, fmt.Errorf("%w: %v", ErrDriverUnavailable, err)
	}
	return c, nil
}

// run executes actions on the tab while honoring ctx's cancellation and
// deadline. Cancelling ctx never closes the tab itself.
func (c *Chrome) run(ctx context.Context, actions ...chromedp.Action) error {
	rctx, cancel := context.WithCancel(c.ctx)
	defer cancel()
	if deadline, ok := ctx.Deadline(); ok {
		var cancelDeadline context.CancelFunc
		rctx, cancelDeadline = context.WithDeadline(rctx, deadline)
		defer cancelDeadline()
	}
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	err := chromedp.Run(rctx, actions...)
	if err != nil && ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

func (c *Chrome) Navigate(ctx context.Context, url string) error {
	return c.run(ctx, chromedp.Navigate(url))
}

func (c *Chrome) CurrentURL(ctx context.Context) (string, error) {
	var u string
	err := c.run(ctx, chromedp.Location(&u))
	return u, err
}

func (c *Chrome) Present(ctx context.Context, loc Locator) error {
	return c.run(ctx, chromedp.WaitReady(loc.Query, queryBy(loc, false)))
}

func (c *Chrome) Find(ctx context.Context, loc Locator) (Element, error) {
	nodes, err := c.nodes(ctx, loc, false)
	if err != nil {
		return nil, err
	}
	if len(nodes) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoSuchElement, loc.Name)
	}
	return &chromeElement{c: c, node: nodes[0]}, nil
}

func (c *Chrome) FindAll(ctx context.Context, loc Locator) ([]Element, error) {
	nodes, err := c.nodes(ctx, loc, true)
	if err != nil {
		return nil, err
	}
	out := make([]Element, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, &chromeElement{c: c, node: n})
	}
	return out, nil
}

func (c *Chrome) nodes(ctx context.Context, loc Locator, all bool) ([]*cdp.Node, error) {
	var nodes []*cdp.Node
	if err := c.run(ctx, chromedp.Nodes(loc.Query, &nodes, queryBy(loc, all), chromedp.AtLeast(0))); err != nil {
		return nil, fmt.Errorf("query %s: %w", loc.Name, err)
	}
	return nodes, nil
}

func (c *Chrome) Quit() error {
	var err error
	c.once.Do(func() {
		err = chromedp.Cancel(c.ctx)
		c.cancel()
		c.allocCancel()
		if err != nil {
			c.logger.Printf("browser: quit: %v", err)
		}
	})
	return err
}

func queryBy(loc Locator, all bool) chromedp.QueryOption {
	switch {
	case loc.By == ByCSS && all:
		return chromedp.ByQueryAll
	case loc.By == ByCSS:
		return chromedp.ByQuery
	default:
		return chromedp.BySearch
	}
}

type chromeElement struct {
	c    *Chrome
	node *cdp.Node
}

func (e *chromeElement) ids() []cdp.NodeID { return []cdp.NodeID{e.node.NodeID} }

func (e *chromeElement) Text(ctx context.Context) (string, error) {
	var s string
	err := e.c.run(ctx, chromedp.Text(e.ids(), &s, chromedp.ByNodeID))
	return s, err
}

func (e *chromeElement) Attribute(ctx context.Context, name string) (string, error) {
	var (
		v  string
		ok bool
	)
	if err := e.c.run(ctx, chromedp.AttributeValue(e.ids(), name, &v, &ok, chromedp.ByNodeID)); err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNoAttribute, name)
	}
	return v, nil
}

func (e *chromeElement) Click(ctx context.Context) error {
	return e.c.run(ctx,
		chromedp.ScrollIntoView(e.ids(), chromedp.ByNodeID),
		chromedp.Click(e.ids(), chromedp.ByNodeID),
	)
}

func (e *chromeElement) SendKeys(ctx context.Context, keys string) error {
	return e.c.run(ctx, chromedp.SendKeys(e.ids(), keys, chromedp.ByNodeID))
}
