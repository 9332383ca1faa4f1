package critique

import "fmt"

// Kind selects the critique to run.
type Kind string

const (
	// Questions asks for clarifying questions about the prompt.
	Questions Kind = "questions"
	// Analysis explains how a model would read the prompt.
	Analysis Kind = "analysis"
)

// ParseKind accepts "questions" or "analysis".
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case Questions, Analysis:
		return Kind(s), nil
	}
	return "", fmt.Errorf("unknown critique %q (want questions or analysis)", s)
}

// Progress is the status shown while a request is in flight.
func (k Kind) Progress() string {
	if k == Analysis {
		return "Analyzing prompt interpretation..."
	}
	return "Analyzing prompt and generating questions..."
}

// Request is one critique of prompt. Focus narrows it to a user concern.
type Request struct {
	Kind   Kind
	Prompt string
	Focus  string
}

const (
	questionsSystem = "You are an expert at analyzing XML prompts for AI models. Generate targeted questions that help users improve their prompts by identifying unclear parts, missing constraints, or areas that could be more specific."

	questionsUser = "Analyze this XML prompt and generate 5-8 targeted questions that would help the user improve or clarify their prompt. Focus on questions about:\n" +
		"- Missing constraints or requirements\n" +
		"- Unclear instructions or ambiguous elements\n" +
		"- Potential edge cases not considered\n" +
		"- Areas where more specificity would help\n" +
		"- Possible misunderstanding of intent\n\n" +
		"Prompt to analyze:\n\n%s\n\n" +
		"Format your response as a numbered list of questions that are specific to this prompt's content and context."

	focusedQuestionsSystem = "You are an expert at analyzing XML prompts for AI models. Help users improve their prompts by generating targeted questions based on their specific concerns or focus areas."

	focusedQuestionsUser = "The user is analyzing this XML prompt and has a specific question or concern: \"%s\"\n\n" +
		"Prompt being analyzed:\n\n%s\n\n" +
		"Based on the user's concern and the prompt content, generate 3-5 specific, thoughtful questions that would help clarify their concern or improve the prompt in the area they've mentioned. Focus on being practical and actionable."

	analysisSystem = "You are an expert at analyzing how AI models interpret XML prompts. Provide clear, insightful analysis of what the model would understand from different parts of the prompt."

	analysisUser = "Analyze how an AI model would interpret this XML prompt. Break it down into key components and explain:\n\n" +
		"1. What the model would understand as the main task/goal\n" +
		"2. How the model would interpret any constraints or requirements\n" +
		"3. What assumptions the model might make if elements are unclear\n" +
		"4. How different sections of the prompt might interact or conflict\n" +
		"5. Suggestions for clarity if any parts seem ambiguous\n\n" +
		"Prompt to analyze:\n\n%s\n\n" +
		"Provide a structured analysis with clear explanations."

	focusedAnalysisSystem = "You are an expert at analyzing how AI models interpret XML prompts. Provide detailed analysis focusing on specific aspects that users are concerned about."

	focusedAnalysisUser = "The user wants to understand how an AI model would interpret this XML prompt, with specific focus on: \"%s\"\n\n" +
		"Prompt being analyzed:\n\n%s\n\n" +
		"Provide a detailed analysis that addresses the user's specific focus area. Explain what the model would likely understand, what might be unclear, and how this could affect the model's response quality."
)

// Messages builds the chat for req: one system and one user message.
func Messages(req Request) []Message {
	var system, user string
	switch {
	case req.Kind == Analysis && req.Focus != "":
		system, user = focusedAnalysisSystem, fmt.Sprintf(focusedAnalysisUser, req.Focus, req.Prompt)
	case req.Kind == Analysis:
		system, user = analysisSystem, fmt.Sprintf(analysisUser, req.Prompt)
	case req.Focus != "":
		system, user = focusedQuestionsSystem, fmt.Sprintf(focusedQuestionsUser, req.Focus, req.Prompt)
	default:
		system, user = questionsSystem, fmt.Sprintf(questionsUser, req.Prompt)
	}
	return []Message{
		{Role: RoleSystem, Content: system},
		{Role: RoleUser, Content: user},
	}
}
