package llm

import (
	"fmt"
	"strings"
)

// ContextDocument is one retrieved record handed to the model
type ContextDocument struct {
	Source  string
	Content string
}

const analystRole = `Você é um analista de dados sênior da AllWeather, uma marca de roupas masculinas premium.

Seu papel:
- Gerar respostas detalhadas, com tom profissional, consultivo e de alto nível analítico.
- Sempre incluir dados concretos como números, datas, tendências e comparações baseadas nos dados disponíveis.
- Estruturar as respostas como parte de um relatório executivo de Business Intelligence.
- Sobre Instagram, considerar tipo de post, alcance, curtidas, comentários, dia da semana, hora de postagem, salvamentos e compartilhamentos.
- Sobre vendas, considerar tamanho, compressão, comprimento, cor, SKU, ticket médio, quantidade vendida e data da venda.
- Se uma informação não estiver presente nos dados, informe claramente que ela não está disponível. Nunca invente dados.
`

// BuildAnalystPrompt builds the system prompt from the retrieved documents
func BuildAnalystPrompt(docs []ContextDocument) string {
	var sb strings.Builder

	sb.WriteString(analystRole)
	sb.WriteString("\n=== DADOS DISPONÍVEIS ===\n")
	if len(docs) == 0 {
		sb.WriteString("Nenhum registro relevante foi encontrado para esta pergunta.\n")
		return sb.String()
	}

	for i, doc := range docs {
		sb.WriteString(fmt.Sprintf("[%d] (%s) %s\n", i+1, doc.Source, doc.Content))
	}
	return sb.String()
}
