package dto

type MovementFilters struct {
	ProductID    string `json:"product_id"`
	BatchID      string `json:"batch_id"`
	MovementType string `json:"movement_type"`
	Page         int    `json:"page"`
	PageSize     int    `json:"page_size"`
}

type ExpiringFilters struct {
	WithinDays int `json:"within_days"`
}
