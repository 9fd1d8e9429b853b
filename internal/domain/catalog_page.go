package domain

// CatalogPage is one page of the product catalog. Number is the page index
// reported by the server, which may differ from the requested one.
type CatalogPage struct {
	Products   []ProductSummary
	TotalPages int
	Number     int
}

func (p CatalogPage) HasNext() bool {
	return p.Number+1 < p.TotalPages
}

func (p CatalogPage) HasPrev() bool {
	return p.Number > 0
}
