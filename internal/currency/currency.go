package currency

import "sort"

type Currency struct {
	Code   string `json:"code"`
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}

const Default = "EUR"

var table = map[string]Currency{
	"EUR": {Code: "EUR", Symbol: "€", Name: "Euro"},
	"USD": {Code: "USD", Symbol: "$", Name: "US Dollar"},
	"XOF": {Code: "XOF", Symbol: "CFA", Name: "CFA Franc"},
	"MAD": {Code: "MAD", Symbol: "DH", Name: "Moroccan Dirham"},
	"TND": {Code: "TND", Symbol: "DT", Name: "Tunisian Dinar"},
	"GBP": {Code: "GBP", Symbol: "£", Name: "Pound Sterling"},
	"CHF": {Code: "CHF", Symbol: "CHF", Name: "Swiss Franc"},
	"CAD": {Code: "CAD", Symbol: "C$", Name: "Canadian Dollar"},
}

func Lookup(code string) (Currency, bool) {
	c, ok := table[code]
	return c, ok
}

func Valid(code string) bool {
	_, ok := table[code]
	return ok
}

// Symbol returns the display symbol, falling back to the code itself.
func Symbol(code string) string {
	if c, ok := table[code]; ok {
		return c.Symbol
	}
	return code
}

func List() []Currency {
	out := make([]Currency, 0, len(table))
	for _, c := range table {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}
