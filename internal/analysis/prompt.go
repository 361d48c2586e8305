package analysis

import "fmt"

// defaultQuery is used when the caller supplies no free-text question.
const defaultQuery = "Please provide a comprehensive analysis of this Excel data, including key insights, patterns, and recommendations."

const promptTemplate = `
You are an expert data analyst. I have processed multiple Excel files and need your analysis.

EXCEL DATA SUMMARY:
%s

USER QUERY: %s

Please provide:
1. Key insights from the data
2. Data quality observations
3. Patterns or trends you notice
4. Recommendations for further analysis
5. Any potential issues or anomalies

Be specific and actionable in your response.
`

// buildPrompt embeds the digest and query into the fixed analyst prompt.
func buildPrompt(digest, query string) string {
	if query == "" {
		query = defaultQuery
	}
	return fmt.Sprintf(promptTemplate, digest, query)
}
