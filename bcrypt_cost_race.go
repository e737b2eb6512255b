//go:build race

package auth

import "golang.org/x/crypto/bcrypt"

func passwordHashCost() int {
	// Race-enabled builds pin the cost so test suites can run with strict timeouts.
	return bcrypt.DefaultCost
}
