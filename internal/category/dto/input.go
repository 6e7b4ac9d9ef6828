package dto

type CreateCategoryInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type UpdateCategoryInput struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type GetCategoryInput struct {
	ID string `json:"id"`
}
