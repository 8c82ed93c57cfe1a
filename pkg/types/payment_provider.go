package types

import "github.com/samber/lo"

type PaymentProvider string

const (
	PaymentProviderCapitalist PaymentProvider = "capitalist"
)

// Currency is a currency code accepted by the Capitalist merchant gateway.
type Currency string

const (
	// Capitalist uses RUR, not RUB.
	CurrencyRUR       Currency = "RUR"
	CurrencyUSD       Currency = "USD"
	CurrencyEUR       Currency = "EUR"
	CurrencyUSDTTRC20 Currency = "USDT-TRC20"
	CurrencyUSDTERC20 Currency = "USDT-ERC20"
	CurrencyBTC       Currency = "BTC"
)

var SupportedCurrencies = []Currency{
	CurrencyRUR,
	CurrencyUSD,
	CurrencyEUR,
	CurrencyUSDTTRC20,
	CurrencyUSDTERC20,
	CurrencyBTC,
}

func (c Currency) Supported() bool {
	return lo.Contains(SupportedCurrencies, c)
}
