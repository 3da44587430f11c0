package dto

import (
	"time"

	"github.com/fekuna/omnipos-storefront/internal/model"
)

const (
	SortNewest = "newest"
	SortOldest = "oldest"
)

type ReceiptFilters struct {
	Customer string // case-insensitive substring
	Sort     string // newest (default) or oldest
}

type CheckoutResult struct {
	Receipt       *model.Receipt `json:"receipt,omitempty"`
	DownloadToken string         `json:"download_token"`
	FileName      string         `json:"file_name"`
	ExpiresAt     time.Time      `json:"expires_at"`
	Pages         int            `json:"pages"`
	Uploaded      bool           `json:"uploaded"`
	Recorded      bool           `json:"recorded"`
}
