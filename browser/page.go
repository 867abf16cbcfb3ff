package browser

import (
	"context"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/ysmood/gson"
)

// page adapts a rod page to extractor.Page.
type page struct {
	page    *rod.Page
	router  *rod.HijackRouter
	onClose func()
}

// Navigate loads target and waits for DOMContentLoaded. The wait listener is
// registered before navigating so a fast load is not missed.
func (p *page) Navigate(ctx context.Context, target string) error {
	rp := p.page.Context(ctx)
	wait := rp.WaitNavigation(proto.PageLifecycleEventNameDOMContentLoaded)
	if err := rp.Navigate(target); err != nil {
		return err
	}
	wait()
	// wait returns silently when ctx expires.
	return ctx.Err()
}

func (p *page) Title(ctx context.Context) (string, error) {
	res, err := p.page.Context(ctx).Eval(`() => document.title`)
	if err != nil {
		return "", err
	}
	return res.Value.Str(), nil
}

func (p *page) HTML(ctx context.Context) (string, error) {
	return p.page.Context(ctx).HTML()
}

// Close stops request interception and closes the tab.
func (p *page) Close() error {
	if p.onClose != nil {
		defer p.onClose()
	}
	if p.router != nil {
		_ = p.router.Stop()
	}
	return p.page.Close()
}

// toHeadersMap converts a plain string map to the proto.NetworkHeaders type
// (map[string]gson.JSON) required by NetworkSetExtraHTTPHeaders.
func toHeadersMap(headers map[string]string) proto.NetworkHeaders {
	m := make(proto.NetworkHeaders, len(headers))
	for k, v := range headers {
		m[k] = gson.New(v)
	}
	return m
}
