package gamesession

import (
	"context"
	"fmt"
	"time"

	"github.com/questx-lab/spinwin/pkg/crypto"
	"github.com/questx-lab/spinwin/pkg/xcontext"
)

const (
	defaultCodeLength      = 8
	defaultCodeMaxAttempts = 10
)

// CodeChecker reports whether no stored result carries the code.
type CodeChecker func(ctx context.Context, code string) bool

// GenerateUniqueCode returns random upper case letters and digits followed by
// the last four digits of the unix millisecond clock. After the configured
// number of attempts the last candidate is returned even if it is taken.
func GenerateUniqueCode(ctx context.Context, isUnique CodeChecker) string {
	cfg := xcontext.Configs(ctx).Game
	length := cfg.CodeLength
	if length == 0 {
		length = defaultCodeLength
	}

	attempts := cfg.CodeMaxAttempts
	if attempts <= 0 {
		attempts = defaultCodeMaxAttempts
	}

	var code string
	for i := 0; i < attempts; i++ {
		code = newCode(length, time.Now())
		if isUnique == nil || isUnique(ctx, code) {
			return code
		}
	}

	xcontext.Logger(ctx).Warnf("Cannot generate a unique code after %d attempts", attempts)
	return code
}

func newCode(length uint, now time.Time) string {
	return crypto.GenerateRandomFrom(crypto.UpperAlphaNum, length) +
		fmt.Sprintf("%04d", now.UnixMilli()%10000)
}
