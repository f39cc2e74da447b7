package helper

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
)

// codedError is satisfied by the engine errors of the feature services.
type codedError interface {
	error
	StatusCode() int
	ErrorCode() string
}

// FromServiceError renders an error returned by a service or a Transaction:
// coded errors keep their status and code, *fiber.Error keeps its status,
// anything else becomes a 500.
func FromServiceError(c *fiber.Ctx, err error) error {
	var ce codedError
	if errors.As(err, &ce) {
		if ce.StatusCode() >= 500 {
			log.Printf("[HTTP] %s %s: %v", c.Method(), c.Path(), err)
		}
		return JsonErrorCode(c, ce.StatusCode(), ce.ErrorCode(), messageOf(ce))
	}
	return FromFiberError(c, err)
}

// FromFiberError maps *fiber.Error to the standard error body, falling back to 500.
func FromFiberError(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return JsonError(c, fe.Code, fe.Message)
	}
	log.Printf("[HTTP] %s %s: %v", c.Method(), c.Path(), err)
	return JsonErrorCode(c, fiber.StatusInternalServerError, "INTERNAL", err.Error())
}

// messageOf strips the "CODE: " prefix engine errors put in Error().
func messageOf(ce codedError) string {
	msg := ce.Error()
	prefix := ce.ErrorCode() + ": "
	if len(msg) > len(prefix) && msg[:len(prefix)] == prefix {
		return msg[len(prefix):]
	}
	return msg
}
