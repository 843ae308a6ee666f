// Protocol Encoding
//
// Copyright (c) 2021, 2022, 2023  Philip Kaludercic
//
// This file is part of go-ipd.
//
// go-ipd is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License,
// version 3, as published by the Free Software Foundation.
//
// go-ipd is distributed in the hope that it will be useful, but
// WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the GNU
// Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public
// License, version 3, along with go-ipd. If not, see
// <http://www.gnu.org/licenses/>

package proto

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"go-ipd"
)

var (
	// Regular expression to destruct a command
	tokenizer = regexp.MustCompile(`^[[:space:]]*` +
		`(?:([[:digit:]]*)(?:@([[:digit:]]+))?[[:space:]]+)?` +
		`([[:alnum:]]+)(?:[[:space:]]+(.*))?` +
		`[[:space:]]*$`)

	// Regular expression to match escaped chararchters
	unescape = regexp.MustCompile(`\\.`)

	// Escape the characters that descape restores
	quote = strings.NewReplacer(`"`, `\"`, `\`, `\\`, "\n", `\n`, "\t", `\t`)

	// Error to return if a message couldn't be parsed
	errArgumentMismatch = errors.New("argument mismatch")
	errMalformed        = errors.New("malformed message")
)

// Histories are transmitted as strings of "c" and "b", but as empty
// arguments cannot be represented, an empty history is sent as "-".
const emptyHistory = "-"

type message struct {
	id, ref uint64
	cmd     string
	args    string
}

func descape(str string) string {
	switch str[1] {
	case 'n':
		return "\n"
	case 't':
		return "\t"
	default:
		return str[1:]
	}
}

// decode splits a RAW message into its reference header, the command
// and the unparsed arguments
func decode(raw string) (*message, error) {
	matches := tokenizer.FindStringSubmatch(strings.TrimSpace(raw))
	if matches == nil {
		return nil, errMalformed
	}

	var (
		msg = &message{cmd: matches[3], args: matches[4]}
		err error
	)
	if matches[1] != "" {
		msg.id, err = strconv.ParseUint(matches[1], 10, 64)
		if err != nil {
			return nil, err
		}
	}
	if matches[2] != "" {
		msg.ref, err = strconv.ParseUint(matches[2], 10, 64)
		if err != nil {
			return nil, err
		}
	}
	return msg, nil
}

// parse destructs RAW and tries to assign the parts to PARAMS
func parse(raw string, params ...interface{}) error {
	var (
		inquotes bool
		escape   bool
		err      error
	)

	fields := strings.FieldsFunc(raw, func(c rune) bool {
		if inquotes {
			if escape {
				escape = false
				return false
			} else if c == '"' {
				inquotes = false
				return true
			} else {
				escape = c == '\\'
				return false
			}
		} else {
			inquotes = c == '"'
			return unicode.IsSpace(c) || inquotes
		}
	})
	if len(fields) != len(params) {
		return errArgumentMismatch
	}

	for i, arg := range fields {
		switch param := params[i].(type) {
		case *string:
			*param = unescape.ReplaceAllStringFunc(arg, descape)
		case *uint64:
			*param, err = strconv.ParseUint(arg, 10, 64)
		case *int:
			*param, err = strconv.Atoi(arg)
		case *ipd.History:
			if arg == emptyHistory {
				*param = ipd.History{}
			} else {
				*param, err = ipd.ParseHistory(arg)
			}
		default:
			panic(fmt.Sprintf("Unsupported type: %T", param))
		}
		if err != nil {
			return err
		}
	}

	return nil
}

// encode a message with the identifier ID, referencing REF.
//
// Each element in ARGS is handled as an argument to COMMAND, and will
// use the concrete datatype for formatting.  If REF is 0, no reference
// will be added.
func encode(id, ref uint64, command string, args ...interface{}) string {
	var buf bytes.Buffer

	if id > 0 {
		fmt.Fprint(&buf, id)
	}
	if ref > 0 {
		fmt.Fprintf(&buf, "@%d", ref)
	}
	if buf.Len() > 0 {
		buf.WriteByte(' ')
	}
	buf.WriteString(command)

	for _, arg := range args {
		fmt.Fprint(&buf, " ")
		switch v := arg.(type) {
		case string:
			buf.WriteByte('"')
			quote.WriteString(&buf, v)
			buf.WriteByte('"')
		case int:
			fmt.Fprintf(&buf, "%d", v)
		case uint64:
			fmt.Fprintf(&buf, "%d", v)
		case ipd.History:
			if len(v) == 0 {
				buf.WriteString(emptyHistory)
			} else {
				buf.WriteString(v.String())
			}
		case ipd.Move:
			buf.WriteByte(byte(v))
		default:
			panic(fmt.Sprintf("Unsupported type: %T", arg))
		}
	}

	return buf.String()
}
