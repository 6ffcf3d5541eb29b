package analytics

type RegionalTrend struct {
	Region              string  `json:"region"`
	StoreCount          int     `json:"store_count"`
	TotalProducts       int     `json:"total_products"`
	TotalQuantity       int     `json:"total_quantity"`
	AvgProductsPerStore float64 `json:"avg_products_per_store"`
	LowStockPercentage  float64 `json:"low_stock_percentage"`
}

// RegionalTrends groups stores by region. Stores without a region are left out;
// a region whose stores hold no inventory still reports its store count.
func (p Policy) RegionalTrends(snap Snapshot) []RegionalTrend {
	type acc struct {
		stores   int
		products map[int]struct{}
		quantity int
		records  int
		low      int
	}
	regions := map[string]*acc{}
	storeRegion := map[int]string{}

	for _, st := range snap.Stores {
		if st.Region == "" {
			continue
		}
		a, ok := regions[st.Region]
		if !ok {
			a = &acc{products: map[int]struct{}{}}
			regions[st.Region] = a
		}
		a.stores++
		storeRegion[st.ID] = st.Region
	}

	for _, inv := range snap.Inventory {
		region, ok := storeRegion[inv.StoreID]
		if !ok {
			continue
		}
		a := regions[region]
		a.products[inv.ProductID] = struct{}{}
		a.quantity += inv.Quantity
		a.records++
		if p.ClassifyStatic(inv).IsLow() {
			a.low++
		}
	}

	out := make([]RegionalTrend, 0, len(regions))
	for _, name := range sortedStrings(regions) {
		a := regions[name]
		out = append(out, RegionalTrend{
			Region:              name,
			StoreCount:          a.stores,
			TotalProducts:       len(a.products),
			TotalQuantity:       a.quantity,
			AvgProductsPerStore: ratio(len(a.products), a.stores),
			LowStockPercentage:  percent(a.low, a.records),
		})
	}
	return out
}
