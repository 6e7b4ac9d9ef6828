package dto

type OrderFilters struct {
	Username  string `json:"username"`
	Status    string `json:"status"`
	OrderType string `json:"order_type"`
	Page      int    `json:"page"`
	PageSize  int    `json:"page_size"`
}
