package models

import (
	"encoding/json"
	"io"

	"github.com/AvengeMedia/danktk/internal/log"
)

type Request struct {
	ID     interface{}            `json:"id,omitempty"`
	Method string                 `json:"method"`
	Params map[string]interface{} `json:"params,omitempty"`
}

type Response[T any] struct {
	ID     interface{} `json:"id,omitempty"`
	Result *T          `json:"result,omitempty"`
	Error  string      `json:"error,omitempty"`
}

type SuccessResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func RespondError(w io.Writer, id interface{}, errMsg string) {
	log.Errorf("danktk API error: id=%v error=%s", id, errMsg)
	resp := Response[any]{ID: id, Error: errMsg}
	json.NewEncoder(w).Encode(resp)
}

func Respond[T any](w io.Writer, id interface{}, result T) {
	resp := Response[T]{ID: id, Result: &result}
	json.NewEncoder(w).Encode(resp)
}
