package analysis

import "github.com/preethiayinampudi/LexiGuard/internal/llm"

// ResponseSchema is the fixed output contract declared to the provider for
// every analysis call. It is a static declaration, never derived from input.
var ResponseSchema = &llm.Schema{
	Type: llm.TypeObject,
	Properties: map[string]*llm.Schema{
		"summary": {
			Type:        llm.TypeString,
			Description: "A concise, easy-to-understand summary of the document's purpose and key outcomes for the user. Written in plain English. Should be no more than 3-4 sentences.",
		},
		"criticalAlerts": {
			Type:        llm.TypeArray,
			Description: "A list of critical 'red flag' items that require the user's immediate attention. Focus on non-standard terms, potential liabilities, or significant restrictions. If there are no critical alerts, return an empty array.",
			Items:       &llm.Schema{Type: llm.TypeString},
		},
		"deadlines": {
			Type:        llm.TypeArray,
			Description: "An array of important dates or deadlines mentioned in the document. If no specific dates are found, return an empty array.",
			Items: &llm.Schema{
				Type: llm.TypeObject,
				Properties: map[string]*llm.Schema{
					"date": {
						Type:        llm.TypeString,
						Description: "The specific date or deadline (e.g., 'YYYY-MM-DD', 'Within 30 days of signing').",
					},
					"description": {
						Type:        llm.TypeString,
						Description: "A brief explanation of what the deadline is for.",
					},
				},
				Required: []string{"date", "description"},
			},
		},
		"actionChecklist": {
			Type:        llm.TypeArray,
			Description: "A short, actionable checklist of 3-5 key things the user should do or verify before signing or after signing. For example: 'Verify the payment schedule in Appendix A.' or 'Consult a tax advisor regarding clause 5.2'. If no actions are required, return an empty array.",
			Items:       &llm.Schema{Type: llm.TypeString},
		},
		"relevantAuthorities": {
			Type:        llm.TypeArray,
			Description: "A list of any government bodies, regulatory authorities, or other official entities mentioned in the document that the user may need to interact with. If none are mentioned, return an empty array.",
			Items: &llm.Schema{
				Type: llm.TypeObject,
				Properties: map[string]*llm.Schema{
					"name":   {Type: llm.TypeString, Description: "The name of the authority or entity."},
					"reason": {Type: llm.TypeString, Description: "Why this authority is relevant according to the document."},
				},
				Required: []string{"name", "reason"},
			},
		},
		"suggestions": {
			Type:        llm.TypeArray,
			Description: "A list of 2-3 helpful suggestions or points to consider for the user, such as specific clauses to negotiate, or areas where they might want to seek further clarification. If no suggestions, return an empty array.",
			Items:       &llm.Schema{Type: llm.TypeString},
		},
	},
	Required: []string{"summary", "criticalAlerts", "deadlines", "actionChecklist", "relevantAuthorities", "suggestions"},
}
