// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package prompt provides the interactive-I/O capability shared by the
// ranker and cloner: ask a question, validate the answer, or accept an
// abort. Abstracting it behind an interface lets non-interactive runs and
// tests share the ranking/cloning code paths untouched.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Stdin asks questions on the given writer and reads answers from the
// given reader, re-prompting on validation failure.
type Stdin struct {
	In  io.Reader
	Out io.Writer
}

// Ask implements rank.Prompter and cloner.Prompter.
func (s Stdin) Ask(question string, validate func(string) error) (string, error) {
	r := bufio.NewReader(s.In)
	for {
		fmt.Fprintf(s.Out, "%s: ", question)
		line, err := r.ReadString('\n')
		if err != nil && line == "" {
			return "", err
		}
		ans := strings.TrimSpace(line)
		if validate != nil {
			if verr := validate(ans); verr != nil {
				fmt.Fprintln(s.Out, verr)
				continue
			}
		}
		return ans, nil
	}
}
