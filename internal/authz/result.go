package authz

import (
	"github.com/maja/schedly-api/internal/models"
)

// Code identifies a decision outcome. The string values and their HTTP
// mapping are part of the public API contract and must not change.
type Code string

const (
	CodeNotMember               Code = "NOT_MEMBER"
	CodeInsufficientPermissions Code = "INSUFFICIENT_PERMISSIONS"
	CodeInvalidMember           Code = "INVALID_MEMBER"
	CodeDBError                 Code = "DB_ERROR"
	CodeVerificationError       Code = "VERIFICATION_ERROR"
	CodeForbidden               Code = "FORBIDDEN"
	CodeUnauthorized            Code = "UNAUTHORIZED"
	CodeNotFound                Code = "NOT_FOUND"
	CodeBadRequest              Code = "BAD_REQUEST"
	CodePaymentRequired         Code = "PAYMENT_REQUIRED"
	CodeError                   Code = "ERROR"
)

var codeStatus = map[Code]int{
	CodeNotMember:               403,
	CodeInsufficientPermissions: 403,
	CodeForbidden:               403,
	CodeUnauthorized:            401,
	CodeNotFound:                404,
	CodeBadRequest:              400,
	CodeInvalidMember:           400,
	CodePaymentRequired:         402,
	CodeDBError:                 500,
	CodeVerificationError:       500,
	CodeError:                   500,
}

// HTTPStatus maps a code to its response status. Unknown codes are server
// errors.
func (c Code) HTTPStatus() int {
	if status, ok := codeStatus[c]; ok {
		return status
	}
	return 500
}

// Result is the structured outcome of a membership or permission check.
// Resolvers return it instead of raising so handlers can render a uniform
// 401/403/500 without their own try/catch.
type Result struct {
	Success bool
	Code    Code
	Member  *models.WorkspaceMember
	// Details carries the underlying store error for operator logs. It is
	// never sent to the client.
	Details string
}

func Granted(member *models.WorkspaceMember) Result {
	return Result{Success: true, Member: member}
}

func Denied(code Code) Result {
	return Result{Code: code}
}
