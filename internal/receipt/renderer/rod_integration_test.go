//go:build integration

package renderer

import (
	"bytes"
	"context"
	"os"
	"testing"
	"time"

	"github.com/fekuna/omnipos-storefront/pkg/logger"
	"github.com/stretchr/testify/require"
)

// Requires Chrome. Run with: go test -tags=integration ./internal/receipt/renderer/
func TestPrintPDF(t *testing.T) {
	r := NewRodRenderer(Config{Bin: os.Getenv("BROWSER_BIN"), Headless: true}, logger.NewNop())
	defer r.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	pdf, err := r.PrintPDF(ctx, `<html><body><h1>Receipt</h1><table><tr><td>1</td><td>Tap</td></tr></table></body></html>`)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(pdf, []byte("%PDF-")), "output is a PDF")

	// The browser is reused between calls.
	_, err = r.PrintPDF(ctx, `<html><body>second</body></html>`)
	require.NoError(t, err)
}
