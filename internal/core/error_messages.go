package core

// error_messages.go maps errors to user messages with support codes.
//
// # Error Codes Reference
//
// Users can quote the code to support staff for faster diagnosis.
//
// # Authentication (AUTH001)
//
//	AUTH001 - Invalid credentials: unknown user or wrong password
//	          Sentinel: ErrInvalidCredentials
//
// # Catalog (CAT001-CAT099)
//
//	CAT001 - Duplicate name         Sentinel: ErrDuplicateName
//	CAT002 - Product not found      Sentinel: ErrNotFound
//	CAT003 - Product has sales      Sentinel: ErrProductInUse
//	CAT004 - Empty name             Sentinel: ErrInvalidName
//	CAT005 - Invalid price          Sentinel: ErrInvalidPrice
//
// # Sales (VEN001-VEN099)
//
//	VEN001 - Product does not exist Sentinel: ErrProductNotFound
//	VEN002 - Quantity below 1       Sentinel: ErrInvalidQuantity
//
// # Reports (REL001-REL099)
//
//	REL001 - No records in range    Sentinel: ErrNoRecords
//	REL002 - Start after end        Sentinel: ErrInvalidRange
//
// # Database Errors (DB001-DB099)
//
//	DB001 - No connection           Sentinel: ErrConnection
//	DB002 - Connection refused      Patterns: "connection refused"
//	DB003 - Connection reset        Patterns: "connection reset"
//	DB004 - Timeout                 Patterns: "timeout", "context deadline exceeded"
//	DB005 - Unique violation        Patterns: "duplicate key", "violates unique"
//	DB006 - Foreign key violation   Patterns: "violates foreign key"
//
// # Input Errors (VAL001-VAL099)
//
//	VAL001 - Invalid date           Patterns: "invalid date"
//	VAL002 - Invalid number         Patterns: "invalid number"
//
// # Requests (REQ001, RATE001)
//
//	REQ001 - Request cancelled      Patterns: "context canceled"
//	RATE001 - Rate limited          Patterns: "rate limit"
//
// # Default Error (ERR000)
//
// Fallback when nothing matches. Check the application logs, searching by
// request_id, for the original technical error.
//
// # Matching
//
// Sentinels are checked first with errors.Is, so wrapped domain errors
// always get their own code. Raw driver errors fall back to the patterns,
// matched case-insensitively with strings.Contains; the first match wins.

import (
	"errors"
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

type sentinelMessage struct {
	err error
	msg UserMessage
}

// sentinelMessages is checked before the text patterns.
var sentinelMessages = []sentinelMessage{
	{ErrInvalidCredentials, UserMessage{
		Message: "Usuário ou senha inválidos",
		Action:  "Confira os dados e tente novamente",
		Code:    "AUTH001",
	}},
	{ErrDuplicateName, UserMessage{
		Message: "Já existe um produto com esse nome",
		Action:  "Escolha outro nome ou edite o produto existente",
		Code:    "CAT001",
	}},
	{ErrNotFound, UserMessage{
		Message: "Produto não encontrado",
		Action:  "Atualize a lista de produtos",
		Code:    "CAT002",
	}},
	{ErrProductInUse, UserMessage{
		Message: "O produto possui vendas registradas e não pode ser excluído",
		Action:  "Mantenha o produto ou altere seu nome e preço",
		Code:    "CAT003",
	}},
	{ErrInvalidName, UserMessage{
		Message: "Informe o nome do produto",
		Action:  "O nome não pode ficar em branco",
		Code:    "CAT004",
	}},
	{ErrInvalidPrice, UserMessage{
		Message: "Preço inválido",
		Action:  "Use um valor não negativo, por exemplo 12,50",
		Code:    "CAT005",
	}},
	{ErrProductNotFound, UserMessage{
		Message: "O produto selecionado não existe",
		Action:  "Atualize a página e escolha outro produto",
		Code:    "VEN001",
	}},
	{ErrInvalidQuantity, UserMessage{
		Message: "A quantidade deve ser pelo menos 1",
		Action:  "Corrija a quantidade e registre novamente",
		Code:    "VEN002",
	}},
	{ErrNoRecords, UserMessage{
		Message: "Nenhum registro encontrado!",
		Action:  "Tente outro período",
		Code:    "REL001",
	}},
	{ErrInvalidRange, UserMessage{
		Message: "A data inicial é posterior à data final",
		Action:  "Corrija o período",
		Code:    "REL002",
	}},
	{ErrConnection, UserMessage{
		Message: "Não foi possível conectar ao banco de dados",
		Action:  "Tente novamente em alguns instantes",
		Code:    "DB001",
	}},
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns maps technical error text (case-insensitive) to user messages.
// More specific patterns come before general ones.
var errorPatterns = []errorPattern{
	// Database connection
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "O banco de dados recusou a conexão",
			Action:  "Tente novamente em alguns instantes",
			Code:    "DB002",
		},
	},
	{
		pattern: "connection reset",
		msg: UserMessage{
			Message: "A conexão com o banco de dados foi interrompida",
			Action:  "Tente novamente",
			Code:    "DB003",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "A operação demorou demais",
			Action:  "Tente novamente ou reduza o período consultado",
			Code:    "DB004",
		},
	},
	{
		pattern: "timeout",
		msg: UserMessage{
			Message: "A operação demorou demais",
			Action:  "Tente novamente ou reduza o período consultado",
			Code:    "DB004",
		},
	},

	// Database constraints
	{
		pattern: "duplicate key",
		msg: UserMessage{
			Message: "Registro duplicado",
			Action:  "Verifique se o registro já existe",
			Code:    "DB005",
		},
	},
	{
		pattern: "violates unique",
		msg: UserMessage{
			Message: "Registro duplicado",
			Action:  "Verifique se o registro já existe",
			Code:    "DB005",
		},
	},
	{
		pattern: "violates foreign key",
		msg: UserMessage{
			Message: "O registro está vinculado a outros dados",
			Action:  "Remova os vínculos antes de continuar",
			Code:    "DB006",
		},
	},

	// Input
	{
		pattern: "invalid date",
		msg: UserMessage{
			Message: "Data inválida",
			Action:  "Use o formato DD/MM/AAAA",
			Code:    "VAL001",
		},
	},
	{
		pattern: "invalid number",
		msg: UserMessage{
			Message: "Número inválido",
			Action:  "Use apenas dígitos e vírgula decimal, por exemplo 12,50",
			Code:    "VAL002",
		},
	},

	// Requests
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "A requisição foi cancelada",
			Action:  "Tente novamente",
			Code:    "REQ001",
		},
	},
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Muitas requisições",
			Action:  "Aguarde um momento antes de tentar novamente",
			Code:    "RATE001",
		},
	},
}

// defaultMessage is returned when nothing matches (ERR000).
var defaultMessage = UserMessage{
	Message: "Ocorreu um erro inesperado",
	Action:  "Tente novamente ou contate o suporte",
	Code:    "ERR000",
}

// MapError converts an error to a user-friendly message.
//
// Example:
//
//	err := fmt.Errorf("create product: %w", ErrDuplicateName)
//	msg := MapError(err)
//	// msg.Code == "CAT001"
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	for _, sm := range sentinelMessages {
		if errors.Is(err, sm.err) {
			return sm.msg
		}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Código: XXX). Action"
func FormatUserError(err error) string {
	ue := NewUserError(err)
	if ue == nil || ue.User.Message == "" {
		return ""
	}
	return ue.Display()
}

// IsUserFacing reports whether err maps to something more specific than ERR000.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

// UserError is what the web layer reports for a failed request: the user
// message, the form field at fault when input validation failed, and the
// technical error for the log.
type UserError struct {
	Technical error       // Original technical error for logging
	User      UserMessage // User-friendly message for display
	Field     string      // Form field named by a ValidationError, if any
}

func (e *UserError) Error() string {
	return e.User.Message
}

func (e *UserError) Unwrap() error {
	return e.Technical
}

// Display formats the message the way FormatUserError does.
func (e *UserError) Display() string {
	return fmt.Sprintf("%s (Código: %s). %s", e.User.Message, e.User.Code, e.User.Action)
}

// NewUserError maps err and keeps the original for logging.
// Returns nil if err is nil.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	ue := &UserError{
		Technical: err,
		User:      MapError(err),
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		ue.Field = ve.Field
	}
	return ue
}
