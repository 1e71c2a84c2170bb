package entity

// Valores padrão de negócio por produto. Números fixos do comercial,
// não existe regra geral de precificação.
const (
	defaultValueFast  = 18000.0
	defaultValueGBC   = 120000.0
	defaultValueBoard = 2000.0
)

// DefaultDealValue calcula o valor sugerido para pré-preencher os
// coletores de ganho e negociação: se o lead já tem valor, usa ele;
// senão deduz pelo produto e pelo interesse na mentoria fast.
func DefaultDealValue(lead *Lead) *float64 {
	if lead.DealValue != nil {
		v := *lead.DealValue
		return &v
	}
	switch lead.Product {
	case ProductMentoriaFast:
		v := defaultValueFast
		return &v
	case ProductGBC:
		v := defaultValueGBC
		if lead.InteresseMentoriaFast {
			v = defaultValueFast
		}
		return &v
	default:
		return nil
	}
}

// NegotiationDefaultValue é a tabela usada quando o produto é trocado
// dentro do coletor de negociação.
func NegotiationDefaultValue(product string) float64 {
	switch product {
	case ProductMentoriaFast:
		return defaultValueFast
	case ProductBoard:
		return defaultValueBoard
	default:
		return defaultValueGBC
	}
}
