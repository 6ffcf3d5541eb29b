package repo

// ProductFilter narrows product listings. Search matches name, description or SKU.
type ProductFilter struct {
	Category string
	Search   string
	Offset   *int
	Limit    *int
}

// StoreFilter narrows store listings. Search matches name or location.
type StoreFilter struct {
	Region string
	Search string
	Offset *int
	Limit  *int
}
