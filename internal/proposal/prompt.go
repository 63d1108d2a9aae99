package proposal

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fenloai/jobscout/internal/types"
)

const defaultMaxProjects = 2

// SelectRelevantProjects picks the portfolio projects with the strongest
// technology overlap against the listing: direct tool matches weigh 3,
// partial/substring matches 2, category mentions in the project
// description 1. Falls back to the first project when nothing overlaps.
func SelectRelevantProjects(listing *types.Listing, projects []types.Project, maxProjects int) []types.Project {
	if maxProjects <= 0 {
		maxProjects = defaultMaxProjects
	}

	tools := make(map[string]bool, len(listing.KeyTools))
	for _, t := range listing.KeyTools {
		tools[strings.ToLower(t)] = true
	}
	listingText := strings.ToLower(listing.Title + " " + listing.Description)

	type scored struct {
		score   int
		project types.Project
	}
	var candidates []scored

	for _, project := range projects {
		direct, partial := 0, 0
		for _, tech := range project.Technologies {
			techLower := strings.ToLower(tech)
			if tools[techLower] {
				direct++
				continue
			}
			for tool := range tools {
				if strings.Contains(tool, techLower) {
					partial++
					break
				}
			}
			if strings.Contains(listingText, techLower) {
				partial++
			}
		}

		category := 0
		descLower := strings.ToLower(project.Description)
		for _, cat := range listing.Categories {
			if strings.Contains(descLower, strings.ToLower(cat)) {
				category++
			}
		}

		total := direct*3 + partial*2 + category
		if total > 0 {
			candidates = append(candidates, scored{score: total, project: project})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	selected := make([]types.Project, 0, maxProjects)
	for _, c := range candidates {
		if len(selected) == maxProjects {
			break
		}
		selected = append(selected, c.project)
	}
	if len(selected) == 0 && len(projects) > 0 {
		selected = append(selected, projects[0])
	}
	return selected
}

// BuildPrompt assembles the generation prompt from the listing, its match
// analysis, the operator's profile and portfolio, and the writing
// guidelines.
func BuildPrompt(listing *types.Listing, match types.MatchResult, userProfile types.UserProfile,
	projects []types.Project, guidelines types.Guidelines) string {

	desc := listing.Description
	if len(desc) > 1000 {
		desc = desc[:1000]
	}

	budget := ""
	switch {
	case listing.HourlyRateMin != nil && listing.HourlyRateMax != nil:
		budget = fmt.Sprintf("$%.0f-$%.0f/hr", *listing.HourlyRateMin, *listing.HourlyRateMax)
	case listing.FixedPrice != nil:
		budget = fmt.Sprintf("$%.0f fixed", *listing.FixedPrice)
	}

	tools := listing.KeyTools
	if len(tools) > 5 {
		tools = tools[:5]
	}

	var projectsText strings.Builder
	for i, p := range projects {
		projDesc := p.Description
		if len(projDesc) > 200 {
			projDesc = projDesc[:200]
		}
		outcomes := p.Outcomes
		if len(outcomes) > 150 {
			outcomes = outcomes[:150]
		}
		fmt.Fprintf(&projectsText, "\n%d. **%s**\n", i+1, p.Title)
		fmt.Fprintf(&projectsText, "   - Description: %s\n", projDesc)
		fmt.Fprintf(&projectsText, "   - Technologies: %s\n", strings.Join(p.Technologies, ", "))
		fmt.Fprintf(&projectsText, "   - Outcomes: %s\n", outcomes)
	}

	var reasonsText strings.Builder
	if len(match.Reasons) > 0 {
		reasonsText.WriteString("\nWhy this job is a good fit:\n")
		reasons := match.Reasons
		if len(reasons) > 5 {
			reasons = reasons[:5]
		}
		for _, r := range reasons {
			fmt.Fprintf(&reasonsText, "- %s: %s\n", r.Criterion, r.Detail)
		}
	}

	maxLength := guidelines.MaxLength
	if maxLength == 0 {
		maxLength = 300
	}
	tone := guidelines.Tone
	if tone == "" {
		tone = "professional"
	}

	return fmt.Sprintf(`Generate a professional freelance proposal for this job:

JOB DETAILS:
Title: %s
Type: %s
Budget: %s
Key Technologies: %s

Description: %s

YOUR PROFILE:
%s

Specializations: %s

%s

RELEVANT PORTFOLIO PROJECTS:
%s
MATCH ANALYSIS (Score: %.1f/100):
%s
PROPOSAL GUIDELINES:
- Tone: %s
- Max length: %d words
- Required sections: %s
- Emphasis: %s
- AVOID these phrases: %s

Generate a compelling proposal that:
1. Opens with a strong, specific hook addressing their main need
2. Demonstrates understanding of their requirements by referencing specific technologies/outcomes they mentioned
3. Cites 1-2 relevant portfolio projects with concrete outcomes
4. Proposes a clear approach or next steps
5. Keeps it concise and within the word limit
6. Uses active voice and avoids generic phrases

Return ONLY the proposal text. No markdown formatting, no subject line, no preamble.`,
		listing.Title, listing.JobType, budget, strings.Join(tools, ", "),
		desc,
		userProfile.Bio, strings.Join(userProfile.Specializations, ", "), userProfile.UniqueValue,
		projectsText.String(),
		match.Score, reasonsText.String(),
		tone, maxLength,
		strings.Join(guidelines.RequiredSections, ", "),
		strings.Join(guidelines.Emphasis, ", "),
		strings.Join(guidelines.AvoidPhrases, ", "))
}
