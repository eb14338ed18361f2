package betting

import "errors"

// Kind classifica os erros de domínio. Todos são locais a uma operação;
// falhas de infraestrutura (banco, broker) não entram nessa taxonomia e
// sobem como erros comuns.
type Kind string

const (
	KindValidation   Kind = "validation"    // entrada malformada ou ausente
	KindNotFound     Kind = "not_found"     // aposta/usuário inexistente
	KindForbidden    Kind = "forbidden"     // ator sem permissão para a transição
	KindInvalidState Kind = "invalid_state" // transição ilegal a partir do estado atual (inclui corrida perdida)
)

// Error é o erro de domínio com mensagem legível para o cliente.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

func newError(kind Kind, msg string) error {
	return &Error{Kind: kind, Message: msg}
}

func errValidation(msg string) error   { return newError(KindValidation, msg) }
func errNotFound(msg string) error     { return newError(KindNotFound, msg) }
func errForbidden(msg string) error    { return newError(KindForbidden, msg) }
func errInvalidState(msg string) error { return newError(KindInvalidState, msg) }

// KindOf extrai o Kind de um erro de domínio; ok=false para erros de
// infraestrutura.
func KindOf(err error) (Kind, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind, true
	}
	return "", false
}
