package profiles

import "time"

// Profile is the header row: one per user, carries display settings.
type Profile struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Title     string    `json:"title"`
	Template  string    `json:"template"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Record pairs a header with its parsed body.
type Record struct {
	Profile Profile       `json:"profile"`
	Data    ParsedProfile `json:"data"`
}

// ParsedProfile is the normalized resume content stored as the profile body.
// Both ingestion paths produce this shape.
type ParsedProfile struct {
	PersonalInfo   PersonalInfo         `json:"personalInfo"`
	Summary        string               `json:"summary"`
	Experience     []ExperienceEntry    `json:"experience"`
	Education      []EducationEntry     `json:"education"`
	Skills         []SkillEntry         `json:"skills"`
	Languages      []LanguageEntry      `json:"languages"`
	Certifications []CertificationEntry `json:"certifications"`
	Projects       []ProjectEntry       `json:"projects"`
	Metadata       ProcessingMeta       `json:"metadata"`
}

type PersonalInfo struct {
	FullName   string `json:"fullName"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Location   string `json:"location"`
	Website    string `json:"website"`
	Profession string `json:"profession"`
}

// Empty reports whether nothing identifying was extracted. A profile whose
// personal info is empty is rejected before persistence.
func (p PersonalInfo) Empty() bool {
	return p.FullName == "" && p.Email == "" && p.Phone == ""
}

type ExperienceEntry struct {
	ID          string `json:"id"`
	JobTitle    string `json:"jobTitle"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	Current     bool   `json:"current"`
	Description string `json:"description"`
}

type EducationEntry struct {
	ID          string `json:"id"`
	Degree      string `json:"degree"`
	Institution string `json:"institution"`
	Location    string `json:"location"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	Grade       string `json:"grade"`
}

type SkillEntry struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Level string `json:"level"`
}

type LanguageEntry struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Level string `json:"level"`
}

type CertificationEntry struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Issuer string `json:"issuer"`
	Date   string `json:"date"`
}

type ProjectEntry struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	URL         string `json:"url"`
}

// ProcessingMeta records how and when the profile was produced.
type ProcessingMeta struct {
	Path            string    `json:"path"`
	ParsedAt        time.Time `json:"parsedAt"`
	ProcessingID    string    `json:"processingId"`
	SourceFileName  string    `json:"sourceFileName"`
	SourceMediaType string    `json:"sourceMediaType"`
	SourceSizeBytes int64     `json:"sourceSizeBytes"`
}

const (
	DefaultTitle    = "My Profile"
	DefaultTemplate = "standard"

	// DefaultLanguageLevel is assigned to every imported language; the
	// upstream parsers report no proficiency, so the portal editor starts
	// from this label.
	DefaultLanguageLevel = "Conversational"
)
