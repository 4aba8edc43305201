// AngelaMos | 2026
// dto.go

package catalog

// AddModelRequest mirrors the model form: an existing brand picked from the
// catalog, or a custom brand typed in.
type AddModelRequest struct {
	Brand       string `json:"brand"`
	CustomBrand string `json:"custom_brand"`
	Model       string `json:"model"  validate:"required"`
	Color       string `json:"color"  validate:"required"`
	Specs       string `json:"specs"  validate:"required"`
}

type ModelListResponse struct {
	Models []Model `json:"models"`
}

type CountResponse struct {
	Count int64 `json:"count"`
}
