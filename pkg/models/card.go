package models

import "strings"

// Card is the contact record the backend returns after processing an
// uploaded business-card photo. The backend owns every field; the client
// only displays them.
type Card struct {
	ID                     string `json:"id"`
	FirstName              string `json:"first_name"`
	LastName               string `json:"last_name"`
	Company                string `json:"company"`
	CompanyLogoDescription string `json:"company_logo_description"`
	Email                  string `json:"email"`
	Phone                  string `json:"phone"`
	Address                string `json:"address"`
	MeetingContext         string `json:"meeting_context"`
	Priorities             string `json:"priorities"`
	PersonalNotes          string `json:"personal_notes"`
	CapturedAt             string `json:"captured_at"`
	SourceImageURL         string `json:"source_image_url,omitempty"`
	SummaryImageURL        string `json:"summary_image_url,omitempty"`
	RawOCRJSON             string `json:"raw_ocr_json"`
}

// CardContext is the meeting context payload submitted for a card. The
// backend uses it to update the record and generate a summary portrait.
type CardContext struct {
	MeetingContext string `json:"meeting_context"`
	Priorities     string `json:"priorities"`
	PersonalNotes  string `json:"personal_notes"`
}

func (c Card) FullName() string {
	name := strings.TrimSpace(strings.TrimSpace(c.FirstName) + " " + strings.TrimSpace(c.LastName))
	if name == "" {
		return "(unknown)"
	}
	return name
}

func (c Card) HasSummary() bool {
	return c.SummaryImageURL != ""
}
