package ingestion

import (
	"strings"

	"github.com/google/uuid"

	"portal-backend/internal/profiles"
	"portal-backend/internal/provider"
)

// Normalize maps a direct-path parse response onto the stored profile shape.
// It is total: every missing or malformed field defaults, and it never
// returns an error. Validation happens later in the pipeline.
func Normalize(data *provider.ParseData) profiles.ParsedProfile {
	// Every section starts as an empty slice so sparse responses serialize
	// as [] rather than null.
	out := profiles.ParsedProfile{
		Experience:     []profiles.ExperienceEntry{},
		Education:      []profiles.EducationEntry{},
		Skills:         []profiles.SkillEntry{},
		Languages:      []profiles.LanguageEntry{},
		Certifications: []profiles.CertificationEntry{},
		Projects:       []profiles.ProjectEntry{},
	}
	if data == nil {
		return out
	}

	out.PersonalInfo = normalizePersonalInfo(data)
	out.Summary = strings.TrimSpace(data.Summary)

	for _, w := range data.WorkExperience {
		entry := profiles.ExperienceEntry{
			ID:          uuid.NewString(),
			JobTitle:    strings.TrimSpace(w.JobTitle),
			Company:     strings.TrimSpace(w.Organization),
			Description: strings.TrimSpace(w.JobDescription),
		}
		if w.Location != nil {
			entry.Location = pickLocation(*w.Location)
		}
		if w.Dates != nil {
			entry.StartDate = w.Dates.StartDate
			entry.EndDate = w.Dates.CompletionDate
			entry.Current = w.Dates.IsCurrent
		}
		out.Experience = append(out.Experience, entry)
	}

	for _, e := range data.Education {
		entry := profiles.EducationEntry{
			ID:          uuid.NewString(),
			Institution: strings.TrimSpace(e.Organization),
			Grade:       strings.TrimSpace(e.Grade),
		}
		if e.Accreditation != nil {
			entry.Degree = strings.TrimSpace(e.Accreditation.Education)
		}
		if e.Location != nil {
			entry.Location = pickLocation(*e.Location)
		}
		if e.Dates != nil {
			entry.StartDate = e.Dates.StartDate
			entry.EndDate = e.Dates.CompletionDate
		}
		out.Education = append(out.Education, entry)
	}

	for _, s := range data.Skills {
		name := strings.TrimSpace(s.Name)
		if name == "" {
			continue
		}
		// Proficiency is left empty: the upstream skill taxonomy carries
		// no level and the portal editor fills it in.
		out.Skills = append(out.Skills, profiles.SkillEntry{
			ID:   uuid.NewString(),
			Name: name,
		})
	}

	for _, l := range data.Languages {
		name := strings.TrimSpace(l.Name)
		if name == "" {
			continue
		}
		out.Languages = append(out.Languages, profiles.LanguageEntry{
			ID:    uuid.NewString(),
			Name:  name,
			Level: profiles.DefaultLanguageLevel,
		})
	}

	return out
}

func normalizePersonalInfo(data *provider.ParseData) profiles.PersonalInfo {
	var info profiles.PersonalInfo
	if data.Name != nil {
		// Raw is preferred: the cleaned variant drops diacritics and
		// particles that citizens expect to see in their own names.
		info.FullName = strings.TrimSpace(data.Name.Raw)
		if info.FullName == "" {
			info.FullName = strings.TrimSpace(data.Name.Cleaned)
		}
	}
	if len(data.Emails) > 0 {
		info.Email = strings.TrimSpace(data.Emails[0])
	}
	if len(data.PhoneNumbers) > 0 {
		info.Phone = strings.TrimSpace(data.PhoneNumbers[0])
	}
	if len(data.Websites) > 0 {
		info.Website = strings.TrimSpace(data.Websites[0].URL)
	}
	if data.Location != nil {
		info.Location = pickLocation(*data.Location)
	}
	info.Profession = strings.TrimSpace(data.Profession)
	return info
}

func pickLocation(loc provider.Location) string {
	if raw := strings.TrimSpace(loc.RawInput); raw != "" {
		return raw
	}
	return strings.TrimSpace(loc.Formatted)
}
