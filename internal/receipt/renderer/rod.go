package renderer

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/fekuna/omnipos-storefront/pkg/logger"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/ysmood/gson"
	"go.uber.org/zap"
)

// A4 at 96 dpi.
const (
	a4WidthPx    = 794
	a4HeightPx   = 1123
	a4WidthInch  = 8.27
	a4HeightInch = 11.69
	rasterScale  = 2
)

type Config struct {
	// Bin is the Chrome binary to launch. Empty lets rod find or download one.
	Bin string
	// ControlURL attaches to an already running browser instead of launching.
	ControlURL string
	Headless   bool
}

// RodRenderer prints HTML to PDF through a headless Chrome driven by rod.
// The browser is started on first use and shared by all calls.
type RodRenderer struct {
	cfg    Config
	logger logger.ZapLogger

	mu      sync.Mutex
	browser *rod.Browser
	// owned is set when the browser was launched here rather than attached
	// through ControlURL. Only an owned browser is shut down on release.
	owned        bool
	closeBrowser func(*rod.Browser) error
}

func NewRodRenderer(cfg Config, log logger.ZapLogger) *RodRenderer {
	return &RodRenderer{
		cfg:          cfg,
		logger:       log,
		closeBrowser: (*rod.Browser).Close,
	}
}

// releaseLocked forgets the current browser, closing it only when owned.
func (r *RodRenderer) releaseLocked() error {
	if r.browser == nil {
		return nil
	}
	b, owned := r.browser, r.owned
	r.browser, r.owned = nil, false
	if !owned {
		return nil
	}
	return r.closeBrowser(b)
}

func (r *RodRenderer) ensureBrowser() (*rod.Browser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.browser != nil {
		if _, err := r.browser.Version(); err == nil {
			return r.browser, nil
		}
		r.logger.Warn("stale browser connection, reconnecting")
		if err := r.releaseLocked(); err != nil {
			r.logger.Debug("failed to close stale browser", zap.Error(err))
		}
	}

	controlURL := r.cfg.ControlURL
	owned := controlURL == ""
	if owned {
		l := launcher.New().Headless(r.cfg.Headless)
		if r.cfg.Bin != "" {
			l = l.Bin(r.cfg.Bin)
		}
		url, err := l.Launch()
		if err != nil {
			return nil, fmt.Errorf("launch chrome: %w", err)
		}
		controlURL = url
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("connect to chrome: %w", err)
	}
	r.logger.Info("connected to chrome", zap.String("control_url", controlURL))

	r.browser = browser
	r.owned = owned
	return browser, nil
}

// PrintPDF loads html into a fresh tab and prints it as A4 portrait with no
// margins at twice the device scale.
func (r *RodRenderer) PrintPDF(ctx context.Context, html string) ([]byte, error) {
	browser, err := r.ensureBrowser()
	if err != nil {
		return nil, err
	}

	page, err := browser.Context(ctx).Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		return nil, fmt.Errorf("open page: %w", err)
	}
	defer func() {
		if err := page.Close(); err != nil {
			r.logger.Debug("failed to close render page", zap.Error(err))
		}
	}()

	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             a4WidthPx,
		Height:            a4HeightPx,
		DeviceScaleFactor: rasterScale,
	}); err != nil {
		return nil, fmt.Errorf("set viewport: %w", err)
	}
	if err := page.SetDocumentContent(html); err != nil {
		return nil, fmt.Errorf("set content: %w", err)
	}
	if err := page.WaitLoad(); err != nil {
		return nil, fmt.Errorf("wait load: %w", err)
	}

	stream, err := page.PDF(&proto.PagePrintToPDF{
		PaperWidth:        gson.Num(a4WidthInch),
		PaperHeight:       gson.Num(a4HeightInch),
		MarginTop:         gson.Num(0),
		MarginBottom:      gson.Num(0),
		MarginLeft:        gson.Num(0),
		MarginRight:       gson.Num(0),
		PrintBackground:   true,
		PreferCSSPageSize: true,
	})
	if err != nil {
		return nil, fmt.Errorf("print pdf: %w", err)
	}

	data, err := io.ReadAll(stream)
	if err != nil {
		return nil, fmt.Errorf("read pdf: %w", err)
	}
	return data, nil
}

// Close shuts down a browser this renderer launched. An attached browser is
// left running.
func (r *RodRenderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.releaseLocked()
}
