// AngelaMos | 2026
// dto.go

package order

type CreateOrderRequest struct {
	Dist     string `json:"dist"     validate:"required,max=100"`
	Location string `json:"location" validate:"required,max=100"`
	Model    string `json:"model"    validate:"required"`
	Color    string `json:"color"    validate:"required"`
	Spec     string `json:"spec"     validate:"required"`
	Quantity int    `json:"quantity" validate:"required,min=1"`
}

type UpdateOrderRequest struct {
	Status string `json:"status" validate:"required"`
	Remark string `json:"remark" validate:"max=500"`
}

// FilterRequest names a status view, optionally narrowed by date range and
// distributor.
type FilterRequest struct {
	Status string `json:"status" validate:"required"`
	From   string `json:"from"`
	To     string `json:"to"`
	Dist   string `json:"dist"`
}

// BulkUpdateRequest targets either explicit ids or every order in a view.
type BulkUpdateRequest struct {
	IDs    []int64        `json:"ids"`
	Filter *FilterRequest `json:"filter"`
	UpdateOrderRequest
}

type OrderListResponse struct {
	Orders []Order `json:"orders"`
	Count  int     `json:"count"`
}

type ValuesResponse struct {
	Values []string `json:"values"`
}

type StatusesResponse struct {
	Statuses []Status `json:"statuses"`
}
