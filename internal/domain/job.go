package domain

import "encoding/json"

// RawJob is a job posting as submitted by the caller of the search API.
type RawJob struct {
	JobTitle       string          `json:"job_title"`
	JobDescription string          `json:"job_description"`
	RequiredSkills []string        `json:"required_skills"`
	CompanyName    string          `json:"company_name"`
	Location       string          `json:"location"`
	Budget         json.RawMessage `json:"budget,omitempty"`
}
