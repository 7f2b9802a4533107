package stats

type totalKey struct {
	country    string
	regionCode string
}

// CountryTotals sums daily vaccinations per (country, region code), treating
// absent values as zero. Groups come out in order of first appearance.
func CountryTotals(records []Record) []CountryTotal {
	index := make(map[totalKey]int)
	var totals []CountryTotal

	for _, r := range records {
		k := totalKey{r.Country, r.RegionCode}
		i, ok := index[k]
		if !ok {
			i = len(totals)
			index[k] = i
			totals = append(totals, CountryTotal{Country: r.Country, RegionCode: r.RegionCode})
		}
		if v, ok := r.Daily(); ok {
			totals[i].TotalVaccinations += v
		}
	}
	return totals
}
