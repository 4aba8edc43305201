// AngelaMos | 2026
// dto.go

package distributor

type CreateDistributorRequest struct {
	Name     string `json:"name"     validate:"required,max=100"`
	Address  string `json:"address"  validate:"max=300"`
	Location string `json:"location" validate:"required,max=100"`
	Contact  string `json:"contact"  validate:"max=50"`
	Email    string `json:"email"    validate:"omitempty,email,max=255"`
}

type DistributorListResponse struct {
	Distributors []Distributor `json:"distributors"`
}

type ValuesResponse struct {
	Values []string `json:"values"`
}
