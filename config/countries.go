package config

import "strings"

// Country describes a supported Caribbean market: its local currency, the
// USD exchange rate used to derive local prices, and whether property
// purchases there can qualify for a citizenship-by-investment program.
type Country struct {
	Code         string
	Name         string
	Currency     string
	Symbol       string
	ExchangeRate float64

	CitizenshipEligible bool
	MinInvestmentUSD    int
}

// CaribbeanCountries is the static market table. Exchange rates are the
// pegged or long-run average rates used for display prices, not live quotes.
var CaribbeanCountries = []Country{
	{Code: "barbados", Name: "Barbados", Currency: "BBD", Symbol: "Bds$", ExchangeRate: 2.0},
	{Code: "jamaica", Name: "Jamaica", Currency: "JMD", Symbol: "J$", ExchangeRate: 155.0},
	{Code: "trinidad_tobago", Name: "Trinidad & Tobago", Currency: "TTD", Symbol: "TT$", ExchangeRate: 6.8},
	{Code: "bahamas", Name: "Bahamas", Currency: "BSD", Symbol: "B$", ExchangeRate: 1.0},
	{Code: "cayman_islands", Name: "Cayman Islands", Currency: "KYD", Symbol: "CI$", ExchangeRate: 0.83},
	{Code: "guyana", Name: "Guyana", Currency: "GYD", Symbol: "G$", ExchangeRate: 209.0},
	{Code: "suriname", Name: "Suriname", Currency: "SRD", Symbol: "Sr$", ExchangeRate: 36.0},
	{Code: "dominican_republic", Name: "Dominican Republic", Currency: "DOP", Symbol: "RD$", ExchangeRate: 58.0},
	{Code: "st_lucia", Name: "St. Lucia", Currency: "XCD", Symbol: "EC$", ExchangeRate: 2.7, CitizenshipEligible: true, MinInvestmentUSD: 100000},
	{Code: "dominica", Name: "Dominica", Currency: "XCD", Symbol: "EC$", ExchangeRate: 2.7, CitizenshipEligible: true, MinInvestmentUSD: 100000},
	{Code: "antigua_barbuda", Name: "Antigua & Barbuda", Currency: "XCD", Symbol: "EC$", ExchangeRate: 2.7, CitizenshipEligible: true, MinInvestmentUSD: 130000},
	{Code: "st_kitts_nevis", Name: "St. Kitts & Nevis", Currency: "XCD", Symbol: "EC$", ExchangeRate: 2.7, CitizenshipEligible: true, MinInvestmentUSD: 150000},
	{Code: "grenada", Name: "Grenada", Currency: "XCD", Symbol: "EC$", ExchangeRate: 2.7, CitizenshipEligible: true, MinInvestmentUSD: 150000},
}

// CountryByCode looks up a market by its form value (e.g. "barbados").
func CountryByCode(code string) (Country, bool) {
	code = strings.ToLower(strings.TrimSpace(code))
	for _, c := range CaribbeanCountries {
		if c.Code == code {
			return c, true
		}
	}
	return Country{}, false
}

// CitizenshipCountries returns the markets with an active
// citizenship-by-investment program.
func CitizenshipCountries() []Country {
	var out []Country
	for _, c := range CaribbeanCountries {
		if c.CitizenshipEligible {
			out = append(out, c)
		}
	}
	return out
}
