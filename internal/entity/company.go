package entity

// Company is one row of the bundled company directory.
//
// Records are loaded once at startup and never mutated afterwards.
type Company struct {
	Serial          int    `json:"serial" yaml:"serial" validate:"gte=0"`
	CompanyName     string `json:"company_name" yaml:"company_name" validate:"required"`
	CompanyNumber   string `json:"company_number" yaml:"company_number"`
	ComplaintsEmail string `json:"company_complaints_email" yaml:"company_complaints_email"`
	XHandle         string `json:"x_handle" yaml:"x_handle"`
	FacebookHandle  string `json:"facebook_handle" yaml:"facebook_handle"`
}
