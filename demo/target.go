// Author: KleaSCM
// Email: KleaSCM@gmail.com
// File: target.go
// Description: Simple marker target for the fuzzing demo. Parses a URL read from stdin (or the file
// named by the first argument), prints a COV: line for every branch it takes and panics on a magic path.
//
// Build it, then run:
//
//	polyfuzz fuzz --target ./target --variant url --seed-file seeds.yaml --budget 500

package main

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
)

func cov(unit string) {
	fmt.Println("COV:", unit)
}

// FuzzMe is the function under test. It panics on a magic input.
func FuzzMe(data string) {
	cov("entry")
	u, err := url.Parse(data)
	if err != nil {
		cov("parse_error")
		return
	}
	if u.Scheme != "" {
		cov("scheme:" + u.Scheme)
	}
	if u.Host != "" {
		cov("host")
		if strings.Contains(u.Host, ":") {
			cov("host_port")
		}
	}
	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(segments) > 1 {
		cov("nested_path")
	}
	if strings.Contains(u.Path, "//") {
		cov("empty_segment")
		if strings.Count(u.Path, "/") > 6 {
			panic("demo crash: deeply nested empty segments")
		}
	}
	q := u.Query()
	if len(q) > 0 {
		cov("query")
		for k, vs := range q {
			if k == "" {
				cov("query_empty_key")
			}
			for _, v := range vs {
				if strings.Contains(v, " ") {
					cov("query_space")
				}
			}
		}
	}
	if u.Fragment != "" {
		cov("fragment")
	}
}

func main() {
	in := io.Reader(os.Stdin)
	if len(os.Args) > 1 {
		f, err := os.Open(os.Args[1])
		if err != nil {
			fmt.Println("Failed to read input:", err)
			os.Exit(1)
		}
		defer f.Close()
		in = f
	}
	input, err := io.ReadAll(in)
	if err != nil {
		fmt.Println("Failed to read input:", err)
		os.Exit(1)
	}
	FuzzMe(strings.TrimSpace(string(input)))
}
