// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package rank implements the catalog candidate ranker: a three-tier
// bucketing of packages against a set of query terms, and the selection
// logic that picks a unique winner or disambiguates interactively.
package rank

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/planetis-m/nawabs/internal/catalog"
)

// Bucket priority order, matching spec §4.2.
const (
	BucketExact = iota
	BucketSubstring
	BucketTag
	bucketCount
)

// Candidates holds the three ordered buckets produced by Rank.
type Candidates [bucketCount][]catalog.Package

// Rank evaluates every package in cat against terms and places each package
// in at most one bucket: the highest-priority bucket reached by the first
// term (in order) that matches it. Later terms never upgrade a package
// already assigned by an earlier one.
func Rank(pkgs []catalog.Package, terms []string) Candidates {
	var out Candidates
	for _, p := range pkgs {
		if b, ok := bucketFor(p, terms); ok {
			out[b] = append(out[b], p)
		}
	}
	return out
}

func bucketFor(p catalog.Package, terms []string) (int, bool) {
	lname := strings.ToLower(p.Name)
	for _, term := range terms {
		lterm := strings.ToLower(term)
		switch {
		case lterm == lname:
			return BucketExact, true
		case strings.Contains(lname, lterm):
			return BucketSubstring, true
		case matchesAnyTag(p.Tags, lterm):
			return BucketTag, true
		}
	}
	return 0, false
}

func matchesAnyTag(tags []string, lowerTerm string) bool {
	for _, t := range tags {
		if strings.Contains(strings.ToLower(t), lowerTerm) {
			return true
		}
	}
	return false
}

// ErrAmbiguous is returned by Select when more than one candidate exists in
// the winning bucket and interaction is not allowed.
var ErrAmbiguous = errors.New("ambiguous candidates")

// ErrNoSelection is returned when the user aborts an interactive prompt.
var ErrNoSelection = errors.New("no selection")

// Prompter asks a question and validates the answer, abstracting
// interactive I/O so non-interactive callers can share the same code path
// (spec §9's "Interactive I/O coupling" note).
type Prompter interface {
	Ask(question string, validate func(string) error) (string, error)
}

// Select walks the buckets in priority order; the first non-empty bucket
// decides the outcome. A single entry wins outright. Multiple entries
// either fail with ErrAmbiguous (non-interactive) or are disambiguated via
// prompt. An empty Candidates value yields (nil, nil): "no candidates" is
// not itself an error, callers check for a nil Package.
func Select(c Candidates, interactive bool, prompt Prompter) (*catalog.Package, error) {
	for _, bucket := range c {
		if len(bucket) == 0 {
			continue
		}
		if len(bucket) == 1 {
			p := bucket[0]
			return &p, nil
		}
		return disambiguate(bucket, interactive, prompt)
	}
	return nil, nil
}

func disambiguate(bucket []catalog.Package, interactive bool, prompt Prompter) (*catalog.Package, error) {
	for _, p := range bucket {
		fmt.Println(p.URL)
	}

	if !interactive {
		return nil, ErrAmbiguous
	}

	validate := func(ans string) error {
		if ans == "abort" {
			return nil
		}
		n, err := strconv.Atoi(ans)
		if err != nil || n < 1 || n > len(bucket) {
			return fmt.Errorf("enter a number between 1 and %d, or \"abort\"", len(bucket))
		}
		return nil
	}

	ans, err := prompt.Ask(fmt.Sprintf("Multiple packages matched; enter 1-%d or \"abort\"", len(bucket)), validate)
	if err != nil {
		return nil, err
	}
	if ans == "abort" {
		return nil, ErrNoSelection
	}

	n, _ := strconv.Atoi(ans)
	p := bucket[n-1]
	return &p, nil
}
