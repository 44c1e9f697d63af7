package assistant

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/foxzi/lexdraft/internal/session"
)

// Input limits, in characters
const (
	chatContextChars  = 3000
	classifyChars     = 3000
	keyPhraseChars    = 3000
	draftContextChars = 1500
	toneChars         = 2000
	previewChars      = 200
)

var promptFuncs = template.FuncMap{
	"join":       strings.Join,
	"transcript": transcript,
}

var prompts = template.Must(template.New("prompts").Funcs(promptFuncs).Parse(`
{{- define "classify" -}}
Classify the following legal document into one of these categories: {{join .Categories ", "}}.

Document text:
{{.Text}}

Category:
{{- end}}

{{- define "summary" -}}
Please summarize the following text:

{{.Text}}
{{- end}}

{{- define "key_phrases" -}}
Extract 5-10 key legal phrases or terms from the following document. Return them as a comma-separated list.

Document text:
{{.Text}}
{{- end}}

{{- define "tone" -}}
Analyze the tone of this legal document. Is it formal, aggressive, conciliatory, neutral, or mixed? Justify your analysis briefly.

{{.Text}}
{{- end}}

{{- define "document_chat" -}}
You are a legal assistant specializing in {{.Category}} documents.
You will answer only questions related to the document and not external questions.
Document text (truncated if needed):
{{.Document}}

Previous chat:
{{transcript .History}}
{{if .Detailed -}}
Provide a detailed analysis with legal references and thorough explanations.
{{else -}}
Provide concise, clear answers focused on key legal points.
{{end -}}
If you cannot find the answer in the document, clearly say so. Use **bold** for important points.
{{- end}}

{{- define "general_chat" }}
You are a knowledgeable legal assistant who can provide general information about legal topics.
You are not a lawyer and should clarify that your responses do not constitute legal advice.
Recommend consulting a qualified attorney for specific legal situations.
Use **bold** for important points and be clear and organized.

Context:
{{transcript .History}}
{{- end}}

{{- define "general_detailed" -}}
Provide a detailed legal analysis with reasoning for this question: {{.Message}}
{{- end}}

{{- define "reasoning" -}}
Extract 3-5 key legal reasoning points from this response as a list: {{.Response}}
{{- end}}

{{- define "draft" -}}
You are a professional legal document drafter. Create a formal response document based on the following instructions:

Instructions: {{.Instructions}}

This is related to a {{.Category}} document. Here's the relevant context from the document:
{{.Context}}

Your draft should be well-structured and professionally formatted. Include:
1. A clear header/title
2. Today's date ({{.Date}})
3. Appropriate salutation
4. Well-organized body content
5. Proper closing
6. Signature line

Do not include explanatory notes. Just return the document content.
{{- end}}

{{- define "general_draft" -}}
You are a professional legal document drafter. Create a formal document based on the following instructions:

Instructions: {{.Instructions}}

Your draft should be well-structured and professionally formatted. Include:
1. A clear header/title
2. Today's date ({{.Date}})
3. Appropriate salutation (if applicable)
4. Well-organized body content
5. Proper closing
6. Signature line (if applicable)

Format the content as if it were going to be printed on letterhead. Do not include any explanatory text or notes - just the actual document content.
{{- end}}
`))

func render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := prompts.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("failed to render %s prompt: %w", name, err)
	}
	return buf.String(), nil
}

// transcript renders chat history as alternating User/Bot lines
func transcript(history []session.Turn) string {
	var sb strings.Builder
	for _, t := range history {
		if t.Role == session.RoleUser {
			sb.WriteString("\nUser: ")
		} else {
			sb.WriteString("\nBot: ")
		}
		sb.WriteString(t.Content)
	}
	if sb.Len() > 0 {
		sb.WriteString("\n")
	}
	return sb.String()
}
