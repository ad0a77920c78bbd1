package answer

import (
	"fmt"

	"pdfqa/internal/providers"
	"pdfqa/internal/util"
)

const systemInstruction = "You answer questions about PDF documents."

const detailedTemplate = `You are a helpful assistant that answers questions based on PDF documents.

PDF DOCUMENT CONTENT:
%s

USER QUESTION: %s

INSTRUCTIONS:
1. Answer based ONLY on the PDF content above
2. If the answer cannot be found, say: "I cannot find this information in the PDFs"
3. Be concise and accurate
4. Do not make up information

ANSWER:`

const compactTemplate = "Context: %s\n\nQuestion: %s\nAnswer based on context:"

// BuildMessages renders the prompt for a candidate. The context is cut to the candidate's
// budget keeping its prefix.
func BuildMessages(shape string, budget int, question, contextText string) []providers.Message {
	excerpt := util.TruncatePrefix(contextText, budget)
	if shape == providers.ShapeDetailed {
		return []providers.Message{
			{Role: providers.RoleSystem, Content: systemInstruction},
			{Role: providers.RoleUser, Content: fmt.Sprintf(detailedTemplate, excerpt, question)},
		}
	}
	return []providers.Message{
		{Role: providers.RoleUser, Content: fmt.Sprintf(compactTemplate, excerpt, question)},
	}
}
