package report

import (
	"time"

	"github.com/backoffice/backend/internal/domain/commerce"
	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var day0 = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func dec(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

func product(name, category string, stock int) commerce.Product {
	p := commerce.Product{Name: name, Category: category, Stock: stock}
	p.ID = uuid.New()
	return p
}

func order(status commerce.OrderStatus, at time.Time, items ...commerce.LineItem) commerce.Order {
	o := commerce.Order{CustomerID: uuid.New(), OrderedAt: at, Status: status, Items: items}
	o.ID = uuid.New()
	return o
}

func line(p commerce.Product, qty int, price float64) commerce.LineItem {
	return commerce.LineItem{ProductID: p.ID, ProductName: p.Name, Quantity: qty, UnitPrice: dec(price)}
}

func purchase(p commerce.Product, qty int, price float64, total *float64, at time.Time) commerce.Purchase {
	pu := commerce.Purchase{ProductID: p.ID, Quantity: qty, UnitPrice: dec(price), PurchasedAt: at}
	if total != nil {
		t := dec(*total)
		pu.TotalPrice = &t
	}
	pu.ID = uuid.New()
	return pu
}

func expense(platform string, spend float64, at time.Time) commerce.MarketingExpense {
	e := commerce.MarketingExpense{Platform: platform, AdSpend: dec(spend), SpentAt: at}
	e.ID = uuid.New()
	return e
}

func between(start, end time.Time) shared.DateRange {
	return shared.DateRange{Start: &start, End: &end}
}
