package dto

type ProductFilters struct {
	CategoryID  string `json:"category_id"`
	SupplierID  string `json:"supplier_id"`
	UnitType    string `json:"unit_type"`
	SearchQuery string `json:"search"` // name or barcode
	SortBy      string `json:"sort_by"`    // name, created_at
	SortOrder   string `json:"sort_order"` // asc, desc
	Page        int    `json:"page"`
	PageSize    int    `json:"page_size"`
}

type SearchInput struct {
	Query    string `json:"query"`
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
}
