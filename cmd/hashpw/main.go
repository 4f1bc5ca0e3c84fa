// Command hashpw prints the bcrypt hash of a password, for provisioning
// staff accounts directly in the database.  Staff self-registration does
// not exist in the API, so the back office inserts rows with hashes
// produced here.
//
// Usage:
//
//	hashpw <password>
package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/iliyamo/restaurant-pos/internal/utils"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: hashpw <password>")
		os.Exit(2)
	}

	cost := 12
	if v := os.Getenv("BCRYPT_COST"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			log.Fatalf("invalid BCRYPT_COST: %q", v)
		}
		cost = n
	}

	hash, err := utils.HashPassword(os.Args[1], cost)
	if err != nil {
		log.Fatalf("hash failed: %v", err)
	}
	fmt.Println(hash)
}
