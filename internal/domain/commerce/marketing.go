package commerce

import (
	"strings"
	"time"

	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// UnspecifiedPlatform groups marketing spend recorded without a platform label
const UnspecifiedPlatform = "Unspecified"

// MarketingExpense is ad spend on one platform
type MarketingExpense struct {
	shared.BaseEntity
	Platform string
	AdSpend  decimal.Decimal
	SpentAt  time.Time
}

// NewMarketingExpense creates a validated marketing expense
func NewMarketingExpense(platform string, adSpend decimal.Decimal, spentAt time.Time) (*MarketingExpense, error) {
	if adSpend.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Ad spend cannot be negative")
	}
	if spentAt.IsZero() {
		spentAt = time.Now()
	}
	return &MarketingExpense{
		BaseEntity: shared.NewBaseEntity(),
		Platform:   strings.TrimSpace(platform),
		AdSpend:    adSpend,
		SpentAt:    spentAt,
	}, nil
}

// PlatformOrDefault returns the platform label used for breakdowns
func (e *MarketingExpense) PlatformOrDefault() string {
	if e.Platform == "" {
		return UnspecifiedPlatform
	}
	return e.Platform
}
