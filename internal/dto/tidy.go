package dto

// TidyComplaintRequest is the payload accepted by POST /api/tidyComplaint.
type TidyComplaintRequest struct {
	Complaint        string   `json:"complaint"`
	Name             string   `json:"name,omitempty"`
	CompanyName      string   `json:"companyName,omitempty"`
	RegulatoryBodies []string `json:"regulatoryBodies,omitempty"`
}

// TidyComplaintResponse carries the rewritten complaint text.
type TidyComplaintResponse struct {
	TidiedComplaint string `json:"tidiedComplaint"`
}
