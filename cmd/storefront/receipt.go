package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fekuna/omnipos-storefront/config"
	"github.com/fekuna/omnipos-storefront/internal/model"
	"github.com/fekuna/omnipos-storefront/internal/receipt/generator"
	"github.com/fekuna/omnipos-storefront/internal/receipt/listener"
	"github.com/fekuna/omnipos-storefront/internal/receipt/publisher"
	"github.com/fekuna/omnipos-storefront/internal/receipt/renderer"
	"github.com/fekuna/omnipos-storefront/pkg/broker"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

var receiptCmd = &cobra.Command{
	Use:   "receipt",
	Short: "Receipt tooling",
}

var renderOpts struct {
	customer  string
	mobile    string
	category  string
	itemsFile string
	out       string
	htmlOnly  bool
}

var receiptRenderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a receipt from a YAML item list to a local PDF",
	Example: `  storefront receipt render --customer "Asha Rao" --category Plumber --items items.yaml

items.yaml:
  - description: Tap
    quantity: 2
    price: "149.50"`,
	RunE: runReceiptRender,
}

var receiptWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print receipt.created events from Kafka as JSON lines",
	RunE:  runReceiptWatch,
}

func init() {
	f := receiptRenderCmd.Flags()
	f.StringVar(&renderOpts.customer, "customer", "", "Customer name (required)")
	f.StringVar(&renderOpts.mobile, "mobile", "", "Customer mobile number")
	f.StringVar(&renderOpts.category, "category", "", "Service category; sets the document title")
	f.StringVar(&renderOpts.itemsFile, "items", "", "YAML file with line items (required)")
	f.StringVarP(&renderOpts.out, "out", "o", "", "Output path (default: receipt-<customer>.pdf)")
	f.BoolVar(&renderOpts.htmlOnly, "html", false, "Write the HTML document instead of printing a PDF")
	_ = receiptRenderCmd.MarkFlagRequired("customer")
	_ = receiptRenderCmd.MarkFlagRequired("items")
}

type itemEntry struct {
	Description string `yaml:"description"`
	Quantity    int    `yaml:"quantity"`
	Price       string `yaml:"price"`
}

func loadItems(path string) ([]model.LineItem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read items: %w", err)
	}
	var entries []itemEntry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse items: %w", err)
	}

	items := make([]model.LineItem, 0, len(entries))
	for i, s := range entries {
		qty := s.Quantity
		if qty < 1 {
			qty = 1
		}
		item := model.LineItem{ID: int64(i + 1), Description: s.Description, Quantity: qty}
		if s.Price != "" {
			d, err := decimal.NewFromString(s.Price)
			if err != nil {
				return nil, fmt.Errorf("item %d: invalid price %q", i+1, s.Price)
			}
			item.Price = decimal.NewNullDecimal(d)
		}
		items = append(items, item)
	}
	return items, nil
}

func runReceiptRender(cmd *cobra.Command, args []string) error {
	cfg := config.LoadEnv()
	appLogger := newLogger(cfg)
	defer appLogger.Sync()

	items, err := loadItems(renderOpts.itemsFile)
	if err != nil {
		return err
	}
	branding, err := config.LoadBranding(cfg.Receipt.BrandingFile)
	if err != nil {
		return err
	}

	pdf := renderer.NewRodRenderer(renderer.Config{
		Bin:        cfg.Browser.Bin,
		ControlURL: cfg.Browser.ControlURL,
		Headless:   cfg.Browser.Headless,
	}, appLogger)
	defer pdf.Close()

	gen := generator.NewGenerator(generator.PagePolicy{
		First: cfg.Receipt.FirstPageItems,
		Rest:  cfg.Receipt.OtherPageItems,
	}, branding, pdf)
	req := generator.Request{
		Customer: renderOpts.customer,
		Mobile:   renderOpts.mobile,
		Category: renderOpts.category,
		Items:    items,
	}

	var (
		data  []byte
		name  string
		pages int
	)
	if renderOpts.htmlOnly {
		html, n, err := gen.HTML(req)
		if err != nil {
			return err
		}
		data, name, pages = []byte(html), "receipt-"+renderOpts.customer+".html", n
	} else {
		art, err := gen.Generate(cmd.Context(), req)
		if err != nil {
			return err
		}
		data, name, pages = art.PDF, art.FileName, art.Pages
	}

	out := renderOpts.out
	if out == "" {
		out = name
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	appLogger.Info("receipt written", zap.String("path", out), zap.Int("items", len(items)), zap.Int("pages", pages))
	return nil
}

func runReceiptWatch(cmd *cobra.Command, args []string) error {
	cfg := config.LoadEnv()
	appLogger := newLogger(cfg)
	defer appLogger.Sync()

	if len(cfg.Kafka.Brokers) == 0 {
		return fmt.Errorf("KAFKA_BROKERS is not set")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	consumer := broker.NewConsumer(&broker.Config{
		Brokers: cfg.Kafka.Brokers,
		Topic:   cfg.Kafka.Topic,
		GroupID: cfg.Kafka.GroupID,
	})
	defer consumer.Close()

	enc := json.NewEncoder(cmd.OutOrStdout())
	l := listener.NewReceiptListener(consumer, func(ctx context.Context, ev publisher.ReceiptEvent) error {
		return enc.Encode(ev)
	}, appLogger)
	return l.Start(ctx)
}
