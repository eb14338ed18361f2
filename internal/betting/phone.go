package betting

import "strings"

// minPhoneDigits é o mínimo aceito no registro.
const minPhoneDigits = 7

// NormalizePhone remove tudo que não for dígito e valida o tamanho mínimo.
// O telefone normalizado é a chave única de identidade dos usuários.
func NormalizePhone(raw string) (string, error) {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()
	if len(cleaned) < minPhoneDigits {
		return "", errValidation("Phone number must be at least 7 digits")
	}
	return cleaned, nil
}
