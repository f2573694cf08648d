package dto

import "github.com/octobees/complaint-helper/api/internal/service/lookup"

// SocialHandlesResponse is the payload returned by GET /api/getSocialHandles.
type SocialHandlesResponse struct {
	XHandle       string `json:"xHandle"`
	FBHandle      string `json:"fbHandle"`
	Email         string `json:"email"`
	CompanyNumber string `json:"companyNumber"`
	CompanyName   string `json:"companyName,omitempty"`
	Message       string `json:"message"`
}

// NewSocialHandlesResponse maps a lookup result to its wire shape.
// companyName is only reported for records that came from the directory.
func NewSocialHandlesResponse(result lookup.Result) SocialHandlesResponse {
	resp := SocialHandlesResponse{
		XHandle:       result.XHandle,
		FBHandle:      result.FBHandle,
		Email:         result.Email,
		CompanyNumber: result.CompanyNumber,
		Message:       result.Message,
	}
	if result.Outcome == lookup.OutcomeFound {
		resp.CompanyName = result.CompanyName
	}
	return resp
}
