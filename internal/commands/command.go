// Package commands validates operator commands and forwards them to the
// device. Delivery is fire-and-forget: no acknowledgement, no retry.
package commands

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidCommand = errors.New("invalid command")
	ErrCommandFailed  = errors.New("command failed")
)

type Type string

const (
	TypeMove   Type = "move"
	TypeRotate Type = "rotate"
	TypeCenter Type = "center"
)

// Request is a command as submitted by the operator.
type Request struct {
	Type   string         `json:"type"`
	Params map[string]any `json:"params"`
}

// Command is a validated request ready to be sent.
type Command struct {
	ID       string         `json:"id"`
	Type     Type           `json:"type"`
	Params   map[string]any `json:"params"`
	IssuedAt time.Time      `json:"issuedAt"`
}

type Result struct {
	ID      string `json:"id"`
	Success bool   `json:"success"`
}

var directions = map[Type][]string{
	TypeMove:   {"up", "down", "left", "right"},
	TypeRotate: {"clockwise", "counterclockwise"},
	TypeCenter: {"center"},
}

// Validate checks the command type and its direction parameter. It returns
// the normalised type and a copy of params with direction lower-cased.
func Validate(req Request) (Type, map[string]any, error) {
	typ := Type(strings.ToLower(strings.TrimSpace(req.Type)))
	allowed, ok := directions[typ]
	if !ok {
		return "", nil, fmt.Errorf("%w: unknown type %q", ErrInvalidCommand, req.Type)
	}

	params := make(map[string]any, len(req.Params))
	for k, v := range req.Params {
		params[k] = v
	}

	raw, present := params["direction"]
	if !present {
		if typ == TypeCenter {
			return typ, params, nil
		}
		return "", nil, fmt.Errorf("%w: %s requires a direction", ErrInvalidCommand, typ)
	}
	dir, isString := raw.(string)
	if !isString {
		return "", nil, fmt.Errorf("%w: direction must be a string", ErrInvalidCommand)
	}
	dir = strings.ToLower(strings.TrimSpace(dir))
	for _, a := range allowed {
		if dir == a {
			params["direction"] = dir
			return typ, params, nil
		}
	}
	return "", nil, fmt.Errorf("%w: direction %q not allowed for %s (allowed: %s)",
		ErrInvalidCommand, dir, typ, strings.Join(allowed, ", "))
}
