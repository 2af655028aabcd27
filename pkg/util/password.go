// Package util contains any functions used across the application that don't match
// any other package
package util

import (
	"math/rand"
	"strconv"
)

// GeneratePassword returns a 6-digit numeric access password in the
// inclusive range [100000, 999999]. The first digit is never zero, so the
// result is always exactly six characters long.
func GeneratePassword() string {
	return strconv.Itoa(100000 + rand.Intn(900000))
}
