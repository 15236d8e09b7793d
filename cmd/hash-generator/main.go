// Command hash-generator prints the bcrypt hash of an API client secret, for
// use as auth.client_secret_hash (INBOX_AUTH_CLIENT_SECRET_HASH).
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/phrazzld/inbox-ai/internal/service/auth"
)

func main() {
	cost := flag.Int("cost", bcrypt.DefaultCost, "bcrypt cost factor")
	flag.Parse()

	secret := flag.Arg(0)
	if secret == "" {
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			fmt.Fprintln(os.Stderr, "usage: hash-generator [-cost n] <client-secret> (or pipe the secret on stdin)")
			os.Exit(2)
		}
		secret = strings.TrimRight(line, "\r\n")
	}

	hash, err := auth.HashSecret(secret, *cost)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error generating hash: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(hash)
}
