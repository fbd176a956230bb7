// Package provider talks to the external document-understanding service on
// behalf of the ingestion pipeline. Two paths exist: a direct API call
// authenticated with a resolved credential, and a proxied call through a
// server-side parse function that holds its own credential.
package provider

import "encoding/json"

// ParseResponse is the direct API's envelope. Every field is optional; the
// upstream contract is loose and sparse responses are normal.
type ParseResponse struct {
	Data *ParseData `json:"data"`
}

// ParseData carries the parsed resume fields.
type ParseData struct {
	Name           *Name       `json:"name"`
	Emails         []string    `json:"emails"`
	PhoneNumbers   []string    `json:"phoneNumbers"`
	Websites       []Website   `json:"websites"`
	Location       *Location   `json:"location"`
	Profession     string      `json:"profession"`
	Summary        string      `json:"summary"`
	WorkExperience []WorkEntry `json:"workExperience"`
	Education      []EduEntry  `json:"education"`
	Skills         []Skill     `json:"skills"`
	Languages      []Language  `json:"languages"`
}

type Name struct {
	Raw     string `json:"raw"`
	First   string `json:"first"`
	Last    string `json:"last"`
	Cleaned string `json:"cleaned"`
}

type Website struct {
	URL string `json:"url"`
}

type Location struct {
	RawInput  string `json:"rawInput"`
	Formatted string `json:"formatted"`
	City      string `json:"city"`
	Country   string `json:"country"`
}

type WorkEntry struct {
	JobTitle       string     `json:"jobTitle"`
	Organization   string     `json:"organization"`
	Location       *Location  `json:"location"`
	Dates          *DateRange `json:"dates"`
	JobDescription string     `json:"jobDescription"`
}

type EduEntry struct {
	Organization  string         `json:"organization"`
	Accreditation *Accreditation `json:"accreditation"`
	Location      *Location      `json:"location"`
	Dates         *DateRange     `json:"dates"`
	Grade         string         `json:"grade"`
}

type Accreditation struct {
	Education      string `json:"education"`
	EducationLevel string `json:"educationLevel"`
}

type DateRange struct {
	StartDate      string `json:"startDate"`
	CompletionDate string `json:"completionDate"`
	IsCurrent      bool   `json:"isCurrent"`
}

type Skill struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Language accepts either a bare string ("English") or an object
// ({"name":"English"}); the upstream emits both shapes.
type Language struct {
	Name string
}

func (l *Language) UnmarshalJSON(data []byte) error {
	var asString string
	if err := json.Unmarshal(data, &asString); err == nil {
		l.Name = asString
		return nil
	}
	var asObject struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &asObject); err != nil {
		return err
	}
	l.Name = asObject.Name
	return nil
}
