package ai

import (
	"fmt"
	"strings"
)

const jobDescriptionSystem = "You are an assistant that writes clear, professional job postings " +
	"for a freelance marketplace. Write in plain language, use short paragraphs and bullet lists " +
	"for requirements. Do not invent budget or deadline details that were not provided."

const proposalSystem = "You are an assistant that helps freelancers write short, specific " +
	"proposals for jobs on a freelance marketplace. Keep it under 200 words, reference the " +
	"job requirements directly and avoid generic filler."

const profileBioSystem = "You are an assistant that writes concise professional bios for " +
	"freelancer profiles. Keep it under 120 words, first person, no headers."

// JobDescriptionPrompt собирает промпт для генерации описания вакансии.
func JobDescriptionPrompt(title, brief string, skills []string) (string, string) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Write a job posting for the position: %s\n", title)
	if brief != "" {
		fmt.Fprintf(&sb, "Client notes: %s\n", brief)
	}
	if len(skills) > 0 {
		fmt.Fprintf(&sb, "Required skills: %s\n", strings.Join(skills, ", "))
	}
	return jobDescriptionSystem, sb.String()
}

// ProposalPrompt собирает промпт для черновика отклика фрилансера.
func ProposalPrompt(jobTitle, jobDescription, freelancerBio string) (string, string) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Job title: %s\n\nJob description:\n%s\n", jobTitle, jobDescription)
	if freelancerBio != "" {
		fmt.Fprintf(&sb, "\nAbout the freelancer:\n%s\n", freelancerBio)
	}
	sb.WriteString("\nWrite a proposal for this job.")
	return proposalSystem, sb.String()
}

// ProfileBioPrompt собирает промпт для генерации био профиля.
func ProfileBioPrompt(fullName string, skills []string, notes string) (string, string) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Name: %s\n", fullName)
	if len(skills) > 0 {
		fmt.Fprintf(&sb, "Skills: %s\n", strings.Join(skills, ", "))
	}
	if notes != "" {
		fmt.Fprintf(&sb, "Background notes: %s\n", notes)
	}
	sb.WriteString("\nWrite a profile bio.")
	return profileBioSystem, sb.String()
}

// EmbeddingText готовит текст для эмбеддинга: склеивает значимые поля.
func EmbeddingText(parts ...string) string {
	var nonEmpty []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Join(nonEmpty, "\n")
}
