package generative

import "fmt"

// Instruction is the system instruction given to the analyzer agent.
func Instruction() string {
	return `
You are an expert career assistant that reviews resumes.

Base all reasoning only on the provided text.
Do not make up data or assume experience that is not explicitly mentioned.
When asked for JSON, return only valid JSON: a single object, no markdown, no text before or after it.
When asked for suggestions, answer in plain text.
`
}

func analyzePrompt(resumeText string) string {
	return fmt.Sprintf(`
Analyze this resume and provide a comprehensive analysis in JSON format.
Structure your response as a JSON object with the following fields:

{
  "summary": "a brief 2-3 sentence summary of the candidate",
  "skills": {
    "technical": ["technical skills"],
    "soft": ["soft skills"],
    "tools": ["tools and technologies"]
  },
  "experience": {
    "years": "estimated years of experience",
    "level": "junior/mid/senior/lead/executive",
    "highlights": ["key achievements and responsibilities"]
  },
  "education": {
    "degree": "highest degree obtained",
    "field": "field of study",
    "institution": "institution name"
  },
  "strengths": ["the candidate's key strengths"],
  "areas_for_improvement": ["suggestions for resume improvement"],
  "score": "numerical score from 1-100",
  "recommendations": ["specific recommendations for the candidate"]
}

Resume text:
%s

Focus on actionable insights.
`, resumeText)
}

func suggestPrompt(resumeText string) string {
	return fmt.Sprintf(`
Provide specific, actionable suggestions to improve this resume.
Focus on:
1. Content improvements
2. Formatting suggestions
3. Skills to highlight
4. Experience descriptions
5. Overall presentation

Resume text:
%s

Provide 5-7 specific suggestions in a clear, actionable format.
`, resumeText)
}

func comparePrompt(resumeText, jobDescription string) string {
	return fmt.Sprintf(`
Compare this resume against the job description and provide a detailed analysis.

Resume:
%s

Job Description:
%s

Provide the analysis in JSON format:
{
  "match_score": "percentage match (1-100)",
  "matching_skills": ["skills that match the job requirements"],
  "missing_skills": ["skills mentioned in the job but not in the resume"],
  "strengths": ["what makes this candidate a good fit"],
  "concerns": ["potential concerns or gaps"],
  "recommendations": ["specific recommendations to improve fit"]
}
`, resumeText, jobDescription)
}
