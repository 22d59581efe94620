package roadmap

import (
	"fmt"
	"strings"
)

const instructions = `**Instructions:**
1.  Create a year-by-year plan covering 4 years.
2.  For each year, provide specific, actionable advice including:
    *   **Focus:** The main theme or objective for the year.
    *   **Skills:** Key technical and soft skills to develop (list 3-5).
    *   **Projects:** Ideas for personal or academic projects to build skills (list 1-3).
    *   **Courses:** Relevant university courses or online certifications (list 2-4).
    *   **Books:** Foundational or advanced books to read (list 1-3).
    *   **Networking:** Suggestions for connecting with peers and professionals.
    *   **Internships:** When and how to seek internships (especially for years 2-4).
    *   **Routine:** Guidance on daily/weekly study and practice habits.
    *   **Advice:** Any other relevant tips for that year.
3.  Include overall advice applicable throughout the 4 years.
4.  Tailor the roadmap specifically to the provided discipline, goals, and interests. Consider strengths and weaknesses if provided.
5.  **CRITICAL: Output ONLY the raw JSON object.** Do not include markdown formatting like code fences or any introductory/explanatory text before or after the JSON object. The entire response must be the JSON object itself.
6.  **JSON Structure:** The JSON object MUST strictly follow this structure:
    {
      "years": [
        {
          "year": 1,
          "focus": "...",
          "skills": ["...", "..."],
          "projects": ["...", "..."],
          "courses": ["...", "..."],
          "books": ["...", "..."],
          "networking": ["...", "..."],
          "internships": ["..."],
          "routine": "...",
          "advice": "..."
        }
      ],
      "overall_advice": "..."
    }
    The "years" array must contain exactly 4 entries, with "year" set to 1, 2, 3 and 4.
7.  Ensure the JSON is well-formed and complete.`

// BuildPrompt renders the generation prompt for a profile. Optional fields
// are left out entirely when blank.
func BuildPrompt(in ProfileInput) string {
	profile := []string{
		field("Discipline", in.Discipline),
		field("Career Goals", in.Goals),
		field("Technical Interests", in.Interests),
		field("Strengths", in.Strengths),
		field("Weaknesses / Areas for Improvement", in.Weaknesses),
	}

	var lines []string
	for _, l := range profile {
		if l != "" {
			lines = append(lines, l)
		}
	}

	var b strings.Builder
	b.WriteString("Generate a detailed, personalized 4-year career roadmap for an aspiring engineer with the following profile:\n\n")
	b.WriteString(strings.Join(lines, "\n"))
	b.WriteString("\n\n")
	b.WriteString(instructions)
	b.WriteString("\n")
	return b.String()
}

func field(label, value string) string {
	if strings.TrimSpace(value) == "" {
		return ""
	}
	return fmt.Sprintf("**%s:** %s", label, value)
}
