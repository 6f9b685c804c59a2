package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AvengeMedia/danktk/internal/server"
)

func runIPC(cmd *cobra.Command, args []string) error {
	socket, _ := cmd.Flags().GetString("socket")
	if socket == "" {
		sockets := server.FindSockets()
		if len(sockets) == 0 {
			return errors.New("no running danktk instance found")
		}
		socket = sockets[0]
	}

	params, err := parseParams(args[1:])
	if err != nil {
		return err
	}

	result, err := server.Call(socket, args[0], params)
	if err != nil {
		return err
	}

	var out bytes.Buffer
	if err := json.Indent(&out, result, "", "  "); err != nil {
		fmt.Println(string(result))
		return nil
	}
	fmt.Println(out.String())
	return nil
}

// parseParams turns key=value pairs into request params. Numeric and boolean
// values are sent as JSON numbers and booleans.
func parseParams(pairs []string) (map[string]interface{}, error) {
	if len(pairs) == 0 {
		return nil, nil
	}

	params := make(map[string]interface{}, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid parameter %q, expected key=value", pair)
		}
		if n, err := strconv.ParseFloat(value, 64); err == nil {
			params[key] = n
		} else if b, err := strconv.ParseBool(value); err == nil {
			params[key] = b
		} else {
			params[key] = value
		}
	}
	return params, nil
}
