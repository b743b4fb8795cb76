package services_test

import (
	"finance/internal/invoice"
	"finance/internal/ledger"
	"finance/internal/payment"
	"finance/internal/settlement"
	"finance/pkg/services"
)

var (
	_ services.InvoiceCalculator     = (*invoice.Calculator)(nil)
	_ services.InvoicePoster         = (*payment.Poster)(nil)
	_ services.Ledger                = (*ledger.Service)(nil)
	_ services.SettlementDistributor = (*settlement.Distributor)(nil)
)
