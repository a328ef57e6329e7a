package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrInvalidAmount indicates a non-positive amount, or one that does not
// resolve to a whole number of minor currency units.
var ErrInvalidAmount = errors.New("invalid amount")

// ErrAccountInactive indicates a mutating operation against a deactivated account.
var ErrAccountInactive = errors.New("account is inactive")

// ErrSameAccount indicates a transfer where sender and receiver are the same account.
var ErrSameAccount = errors.New("sender and receiver are the same account")

// ErrInsufficientFunds indicates a withdrawal or transfer exceeding the spendable balance.
var ErrInsufficientFunds = errors.New("insufficient funds")

// ErrBusy indicates that an account lock could not be acquired within the
// configured timeout. Callers may retry.
var ErrBusy = errors.New("account is busy, try again")

// ErrPersistence indicates that the persistence layer could not durably
// commit a balance change together with its ledger entry.
var ErrPersistence = errors.New("persistence failure")

// ErrUnauthorized indicates missing or invalid credentials.
var ErrUnauthorized = errors.New("unauthorized")

// ErrForbidden indicates the authenticated user lacks the required role.
var ErrForbidden = errors.New("forbidden")

// ErrInternal indicates an unexpected internal failure.
var ErrInternal = errors.New("internal error")
